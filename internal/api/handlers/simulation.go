package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"market-sim/internal/analysis"
	"market-sim/internal/api/models"
	"market-sim/internal/config"
	"market-sim/internal/data"
	"market-sim/internal/market"
	"market-sim/internal/simulation"

	"github.com/gin-gonic/gin"
)

// maxRounds bounds a single API run.
const maxRounds = 1000

// SimulationHandler handles simulation runs and access to stored results
type SimulationHandler struct {
	cache     *data.ResultCache
	engine    *simulation.Engine
	presetDir string
}

// NewSimulationHandler creates a new simulation handler. A nil cache disables
// result storage; runs still complete but cannot be fetched again by ID.
func NewSimulationHandler(cache *data.ResultCache, presetDir string) *SimulationHandler {
	if presetDir == "" {
		presetDir = data.GetDefaultPresetDir()
	}
	eng := simulation.New()
	eng.Quiet = true
	return &SimulationHandler{cache: cache, engine: eng, presetDir: presetDir}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.buildConfig(req.Config)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	id, res, cached, err := h.run(cfg)
	if err != nil {
		respondClearingError(c, "SimulationHandler", err)
		return
	}

	resp := models.SimulationResponse{
		ID:      id,
		Status:  "completed",
		Cached:  cached,
		Summary: buildSummary(res),
	}
	if req.Options.IncludeLedger {
		resp.Ledger = res.Ledger
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
// Query: firm filters to one firm, format=csv returns the ledger as CSV.
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("simulation %s not found or expired", id))
		return
	}

	ledger := entry.Result.Ledger
	if firm := c.Query("firm"); firm != "" {
		ledger = entry.Result.LedgerFor(firm)
		if len(ledger) == 0 {
			respondError(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("firm %s not found in simulation %s", firm, id))
			return
		}
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		var buf bytes.Buffer
		if err := simulation.EncodeLedgerCSV(&buf, ledger); err != nil {
			respondError(c, http.StatusInternalServerError, "ENCODE_ERROR", err.Error())
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{ID: id, Ledger: ledger})
}

// GetStandings handles GET /api/v1/simulations/:id/standings
func (h *SimulationHandler) GetStandings(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("simulation %s not found or expired", id))
		return
	}
	c.JSON(http.StatusOK, models.StandingsResponse{ID: id, Standings: analysis.Rank(entry.Result)})
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareSimulationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, variation := range req.Variations {
		item := models.ComparisonResult{Name: variation.Name}

		cfg, err := h.buildConfig(mergeSimulationConfig(req.BaseConfig, variation.Config))
		if err != nil {
			item.Error = &models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()}
			comparison = append(comparison, item)
			continue
		}

		id, res, _, err := h.run(cfg)
		if err != nil {
			code := "SIMULATION_ERROR"
			if market.IsInvariantError(err) {
				code = "INVARIANT_VIOLATION"
			}
			log.Printf("SimulationHandler: variation %s failed: %v", variation.Name, err)
			item.Error = &models.ErrorDetail{Code: code, Message: err.Error()}
			comparison = append(comparison, item)
			continue
		}

		summary := buildSummary(res)
		item.ID = id
		item.Summary = &summary
		comparison = append(comparison, item)
	}

	c.JSON(http.StatusOK, models.CompareSimulationsResponse{Comparison: comparison})
}

// run executes cfg, or returns the stored run of an identical earlier request.
func (h *SimulationHandler) run(cfg *config.Config) (string, *simulation.Result, bool, error) {
	fingerprint, err := data.Fingerprint(cfg)
	if err != nil {
		log.Printf("SimulationHandler: fingerprint failed, not caching: %v", err)
		fingerprint = ""
	}
	if fingerprint != "" {
		if entry, ok := h.cache.Lookup(fingerprint); ok {
			return entry.ID, entry.Result, true, nil
		}
	}

	params := cfg.ModelParams()
	firms, err := cfg.BuildParticipants(params)
	if err != nil {
		return "", nil, false, err
	}

	start := time.Now()
	res, err := h.engine.Run(params, firms, cfg.Rounds, cfg.ModelActions())
	if err != nil {
		return "", nil, false, err
	}
	id := h.cache.Put(fingerprint, res)
	log.Printf("SimulationHandler: run %s: %d firms, %d rounds in %s", id, len(firms), cfg.Rounds, time.Since(start))
	return id, res, false, nil
}

func (h *SimulationHandler) buildConfig(req models.SimulationConfig) (*config.Config, error) {
	if req.Rounds > maxRounds {
		return nil, fmt.Errorf("rounds must be <= %d", maxRounds)
	}
	cfg := &config.Config{
		Preset:     req.Preset,
		Parameters: req.Parameters,
		Rounds:     req.Rounds,
		Firms:      req.Firms,
		Actions:    req.Actions,
	}

	// parameters_file is just the file name (e.g. "hard"); files are always
	// looked up in the preset directory.
	if req.ParametersFile != "" {
		name := filepath.Base(req.ParametersFile)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		cfg.ParametersFile = filepath.Join(h.presetDir, name+".yaml")
	}

	if err := cfg.ResolveParameters(h.presetDir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeSimulationConfig overlays the non-zero parts of override onto base.
func mergeSimulationConfig(base, override models.SimulationConfig) models.SimulationConfig {
	merged := base
	if override.Preset != "" {
		merged.Preset = override.Preset
	}
	if override.ParametersFile != "" {
		merged.ParametersFile = override.ParametersFile
	}
	merged.Parameters = config.MergeParameters(base.Parameters, override.Parameters)
	if override.Rounds != 0 {
		merged.Rounds = override.Rounds
	}
	if len(override.Firms) > 0 {
		merged.Firms = override.Firms
	}
	if len(override.Actions) > 0 {
		merged.Actions = override.Actions
	}
	return merged
}

func buildSummary(res *simulation.Result) models.SimulationSummary {
	replaced := 0
	for _, row := range res.Ledger {
		if row.Replaced {
			replaced++
		}
	}
	return models.SimulationSummary{
		Rounds:     res.Rounds,
		Firms:      len(res.Firms),
		Replaced:   replaced,
		Parameters: res.Params,
		Standings:  analysis.Rank(res),
		Market:     res.Market,
	}
}
