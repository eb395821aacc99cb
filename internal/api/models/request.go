package models

import (
	"market-sim/internal/config"
	"market-sim/internal/market"
	"market-sim/internal/model"
)

// ParametersSelection picks a game's parameters: a built-in preset ("easy", "medium",
// "hard"; default "medium") with field overrides on top.
type ParametersSelection struct {
	Preset     string                  `json:"preset,omitempty"`
	Parameters config.ParametersConfig `json:"parameters,omitempty"`
}

// ClearRoundRequest represents the request body for clearing one round
type ClearRoundRequest struct {
	ParametersSelection
	Round   int                  `json:"round" binding:"required,min=1"`
	Firms   []market.FirmInput   `json:"firms" binding:"required,min=1"`
	Actions *model.PeriodActions `json:"actions,omitempty"`
}

// ValidateDecisionRequest represents the request body for checking one decision
type ValidateDecisionRequest struct {
	ParametersSelection
	Round    int                  `json:"round" binding:"required,min=1"`
	Decision model.PeriodDecision `json:"decision"`
	State    model.FirmState      `json:"state"`
	Actions  *model.PeriodActions `json:"actions,omitempty"`
}

// SimulationRequest represents the request body for running a simulation
type SimulationRequest struct {
	Config  SimulationConfig  `json:"config" binding:"required"`
	Options SimulationOptions `json:"options,omitempty"`
}

// SimulationConfig mirrors the YAML config file. It carries no binding rules because
// comparison variations are partial configs; the merged result is validated instead.
type SimulationConfig struct {
	Preset string `json:"preset,omitempty"`
	// ParametersFile is just the preset file name (e.g. "hard"); files are always
	// looked up in the preset directory.
	ParametersFile string                  `json:"parameters_file,omitempty"`
	Parameters     config.ParametersConfig `json:"parameters,omitempty"`
	Rounds         int                     `json:"rounds"`
	Firms          []config.FirmConfig     `json:"firms"`
	Actions        []config.ActionConfig   `json:"actions,omitempty"`
}

// SimulationOptions contains optional simulation parameters
type SimulationOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareSimulationsRequest represents a request to compare several simulations
type CompareSimulationsRequest struct {
	BaseConfig SimulationConfig      `json:"base_config" binding:"required"`
	Variations []SimulationVariation `json:"variations" binding:"required,min=1"`
}

// SimulationVariation overrides parts of the base config
type SimulationVariation struct {
	Name   string           `json:"name" binding:"required"`
	Config SimulationConfig `json:"config"`
}
