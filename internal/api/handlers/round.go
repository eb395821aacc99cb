package handlers

import (
	"fmt"
	"log"
	"net/http"

	"market-sim/internal/api/models"
	"market-sim/internal/config"
	"market-sim/internal/data"
	"market-sim/internal/market"
	"market-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// RoundHandler handles single-round requests: clearing and decision validation
type RoundHandler struct{}

// NewRoundHandler creates a new round handler
func NewRoundHandler() *RoundHandler {
	return &RoundHandler{}
}

// ClearRound handles POST /api/v1/rounds/clear
func (h *RoundHandler) ClearRound(c *gin.Context) {
	var req models.ClearRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	params, err := resolveParameters(req.ParametersSelection)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error())
		return
	}

	for i := range req.Firms {
		if err := data.CompleteMachines(&req.Firms[i].State); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_FIRMS", fmt.Sprintf("firm %s: %v", req.Firms[i].FirmID, err))
			return
		}
	}

	log.Printf("RoundHandler: clearing round %d with %d firms", req.Round, len(req.Firms))
	cleared, err := market.Clear(params, req.Round, req.Firms, req.Actions)
	if err != nil {
		respondClearingError(c, "RoundHandler", err)
		return
	}

	c.JSON(http.StatusOK, models.ClearRoundResponse{
		Round:      cleared.Round,
		Parameters: params,
		Demand:     cleared.Demand,
		Allocation: cleared.Allocation,
		Results:    cleared.Results,
		Actions:    cleared.Actions,
	})
}

// ValidateDecision handles POST /api/v1/decisions/validate
func (h *RoundHandler) ValidateDecision(c *gin.Context) {
	var req models.ValidateDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	params, err := resolveParameters(req.ParametersSelection)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETERS", err.Error())
		return
	}

	if err := data.CompleteMachines(&req.State); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	c.JSON(http.StatusOK, market.ValidateDecisionWithActions(req.Decision, req.State, params, req.Round, req.Actions))
}

func resolveParameters(sel models.ParametersSelection) (model.ParameterSet, error) {
	base, err := model.Preset(sel.Preset)
	if err != nil {
		return model.ParameterSet{}, err
	}
	params := config.ApplyParameters(base, sel.Parameters)
	if err := params.Validate(); err != nil {
		return model.ParameterSet{}, fmt.Errorf("parameters invalid: %w", err)
	}
	return params, nil
}
