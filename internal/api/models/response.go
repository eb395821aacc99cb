package models

import (
	"market-sim/internal/analysis"
	"market-sim/internal/market"
	"market-sim/internal/model"
	"market-sim/internal/simulation"
)

// ClearRoundResponse represents the outcome of one cleared round
type ClearRoundResponse struct {
	Round      int                  `json:"round"`
	Parameters model.ParameterSet   `json:"parameters"`
	Demand     market.Demand        `json:"demand"`
	Allocation market.Allocation    `json:"allocation"`
	Results    []market.FirmResult  `json:"results"`
	Actions    *model.PeriodActions `json:"actions,omitempty"`
}

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID      string                 `json:"id"`
	Status  string                 `json:"status"`
	Cached  bool                   `json:"cached"`
	Summary SimulationSummary      `json:"summary"`
	Ledger  []simulation.LedgerRow `json:"ledger,omitempty"`
}

// SimulationSummary contains aggregated simulation results
type SimulationSummary struct {
	Rounds     int                       `json:"rounds"`
	Firms      int                       `json:"firms"`
	Replaced   int                       `json:"replaced_decisions"`
	Parameters model.ParameterSet        `json:"parameters"`
	Standings  []analysis.RankedStanding `json:"standings"`
	Market     []simulation.RoundSummary `json:"market"`
}

// CompareSimulationsResponse represents the response from a comparison
type CompareSimulationsResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string             `json:"name"`
	ID      string             `json:"id,omitempty"`
	Summary *SimulationSummary `json:"summary,omitempty"`
	Error   *ErrorDetail       `json:"error,omitempty"`
}

// LedgerResponse represents a stored run's ledger
type LedgerResponse struct {
	ID     string                 `json:"id"`
	Ledger []simulation.LedgerRow `json:"ledger"`
}

// StandingsResponse represents a stored run's ranking
type StandingsResponse struct {
	ID        string                    `json:"id"`
	Standings []analysis.RankedStanding `json:"standings"`
}

// PresetInfo represents a parameter preset
type PresetInfo struct {
	Name       string             `json:"name"`
	Source     string             `json:"source"` // "built-in" or the file path
	Parameters model.ParameterSet `json:"parameters"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
