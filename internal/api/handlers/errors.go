package handlers

import (
	"errors"
	"log"
	"net/http"

	"market-sim/internal/api/models"
	"market-sim/internal/market"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondClearingError maps a clearing failure onto the error envelope. Invariant
// violations are server faults; everything else is a problem with the request.
func respondClearingError(c *gin.Context, component string, err error) {
	var ie *market.InvariantError
	switch {
	case errors.As(err, &ie):
		log.Printf("%s: invariant violation: %v", component, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVARIANT_VIOLATION",
				Message: err.Error(),
				Details: map[string]interface{}{
					"check":   ie.Check,
					"firm_id": ie.FirmID,
				},
			},
		})
	case errors.Is(err, market.ErrDuplicateFirm), errors.Is(err, market.ErrEmptyFirmID):
		respondError(c, http.StatusBadRequest, "INVALID_FIRMS", err.Error())
	default:
		log.Printf("%s: %v", component, err)
		respondError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err.Error())
	}
}
