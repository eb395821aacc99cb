package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"market-sim/internal/model"
	"market-sim/internal/simulation"
	"market-sim/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: start from a built-in difficulty preset ("easy", "medium", "hard").
	Preset string `yaml:"preset"`
	// Optional: load parameters from a separate YAML (e.g. examples/presets/*.yaml).
	// Precedence, lowest first: defaults, Preset, ParametersFile, Parameters.
	ParametersFile string           `yaml:"parameters_file"`
	Parameters     ParametersConfig `yaml:"parameters"`

	Rounds  int            `yaml:"rounds"`
	Firms   []FirmConfig   `yaml:"firms"`
	Actions []ActionConfig `yaml:"actions"`
}

// ParametersConfig overlays model.DefaultParameters. Zero numbers and nil booleans
// mean "not set".
type ParametersConfig struct {
	StartingCapital          float64 `yaml:"starting_capital" json:"starting_capital,omitempty"`
	PeriodDurationMinutes    float64 `yaml:"period_duration_minutes" json:"period_duration_minutes,omitempty"`
	MarketAnalysisCost       float64 `yaml:"market_analysis_cost" json:"market_analysis_cost,omitempty"`
	NegativeCashInterestRate float64 `yaml:"negative_cash_interest_rate" json:"negative_cash_interest_rate,omitempty"`

	MarketSaturationFactor  float64 `yaml:"market_saturation_factor" json:"market_saturation_factor,omitempty"`
	PriceElasticityFactor   float64 `yaml:"price_elasticity_factor" json:"price_elasticity_factor,omitempty"`
	ReferencePrice          float64 `yaml:"reference_price" json:"reference_price,omitempty"`
	MinElasticityMultiplier float64 `yaml:"min_elasticity_multiplier" json:"min_elasticity_multiplier,omitempty"`

	InventoryCostPerUnit float64 `yaml:"inventory_cost_per_unit" json:"inventory_cost_per_unit,omitempty"`

	RndEnabled           *bool   `yaml:"rnd_enabled" json:"rnd_enabled,omitempty"`
	RndBenefitThreshold  float64 `yaml:"rnd_benefit_threshold" json:"rnd_benefit_threshold,omitempty"`
	RndCostReductionRate float64 `yaml:"rnd_cost_reduction_rate" json:"rnd_cost_reduction_rate,omitempty"`

	DepreciationEnabled *bool   `yaml:"depreciation_enabled" json:"depreciation_enabled,omitempty"`
	DepreciationRate    float64 `yaml:"depreciation_rate" json:"depreciation_rate,omitempty"`

	MarketingEffectivenessFactor float64 `yaml:"marketing_effectiveness_factor" json:"marketing_effectiveness_factor,omitempty"`
	MarketingRound               int     `yaml:"marketing_round" json:"marketing_round,omitempty"`
	MarketingEffortMin           float64 `yaml:"marketing_effort_min" json:"marketing_effort_min,omitempty"`
	MarketingEffortMax           float64 `yaml:"marketing_effort_max" json:"marketing_effort_max,omitempty"`

	MachinePurchaseStartRound int `yaml:"machine_purchase_start_round" json:"machine_purchase_start_round,omitempty"`
	MachinePurchaseInterval   int `yaml:"machine_purchase_interval" json:"machine_purchase_interval,omitempty"`
}

type FirmConfig struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name,omitempty"`
	// Capital overrides the starting capital when non-zero.
	Capital   float64 `yaml:"capital" json:"capital,omitempty"`
	Inventory float64 `yaml:"inventory" json:"inventory,omitempty"`
	// Machines are bought before round 1 and charged to capital. When empty, the
	// firm buys the machine its strategy would pick.
	Machines []string       `yaml:"machines" json:"machines,omitempty"`
	Strategy StrategyConfig `yaml:"strategy" json:"strategy"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params" json:"params,omitempty"`
}

type ActionConfig struct {
	Round                int     `yaml:"round" json:"round"`
	DemandBoost          bool    `yaml:"demand_boost" json:"demand_boost,omitempty"`
	FreeMarketAnalysis   bool    `yaml:"free_market_analysis" json:"free_market_analysis,omitempty"`
	NoInventoryCost      bool    `yaml:"no_inventory_cost" json:"no_inventory_cost,omitempty"`
	RndEnabled           bool    `yaml:"rnd_enabled" json:"rnd_enabled,omitempty"`
	RndThreshold         float64 `yaml:"rnd_threshold" json:"rnd_threshold,omitempty"`
	AllowMachinePurchase bool    `yaml:"allow_machine_purchase" json:"allow_machine_purchase,omitempty"`
	EventLabel           string  `yaml:"event_label" json:"event_label,omitempty"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.ResolveParameters(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveParameters folds Preset and ParametersFile into Parameters and clears both.
// Relative parameter files are looked up in baseDir first, then relative to cwd.
func (c *Config) ResolveParameters(baseDir string) error {
	var base ParametersConfig
	if c.Preset != "" {
		p, err := model.Preset(c.Preset)
		if err != nil {
			return err
		}
		base = FromModelParams(p)
	}
	if c.ParametersFile != "" {
		paramsPath := c.ParametersFile
		if !filepath.IsAbs(paramsPath) {
			cand := filepath.Join(baseDir, paramsPath)
			if _, err := os.Stat(cand); err == nil {
				paramsPath = cand
			}
		}
		loaded, err := LoadParametersFile(paramsPath)
		if err != nil {
			return err
		}
		base = MergeParameters(base, loaded)
	}
	c.Parameters = MergeParameters(base, c.Parameters)
	c.Preset = ""
	c.ParametersFile = ""
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Rounds <= 0 {
		return errors.New("rounds must be > 0")
	}
	if len(c.Firms) == 0 {
		return errors.New("at least one firm is required")
	}
	if err := c.Parameters.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("parameters invalid: %w", err)
	}

	seen := map[string]bool{}
	for i, f := range c.Firms {
		if f.ID == "" {
			return fmt.Errorf("firms[%d].id is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate firm id %q", f.ID)
		}
		seen[f.ID] = true
		if f.Strategy.Name == "" {
			return fmt.Errorf("firm %s: strategy.name is required", f.ID)
		}
		if _, err := strategy.New(f.Strategy.Name, f.Strategy.Params); err != nil {
			return fmt.Errorf("firm %s: %w", f.ID, err)
		}
		for _, m := range f.Machines {
			if _, ok := model.LookupMachine(m); !ok {
				return fmt.Errorf("firm %s: unknown machine %q", f.ID, m)
			}
		}
	}

	rounds := map[int]bool{}
	for _, a := range c.Actions {
		if a.Round < 1 || a.Round > c.Rounds {
			return fmt.Errorf("action round %d outside 1..%d", a.Round, c.Rounds)
		}
		if rounds[a.Round] {
			return fmt.Errorf("more than one action set for round %d", a.Round)
		}
		rounds[a.Round] = true
		if a.RndThreshold < 0 {
			return fmt.Errorf("action round %d: rnd_threshold must be >= 0", a.Round)
		}
	}
	return nil
}

// ModelParams is the merged parameter set for the game.
func (c *Config) ModelParams() model.ParameterSet {
	return c.Parameters.ToModelParams()
}

func (c *Config) ModelActions() []model.PeriodActions {
	out := make([]model.PeriodActions, 0, len(c.Actions))
	for _, a := range c.Actions {
		out = append(out, a.ToModel())
	}
	return out
}

// BuildParticipants equips every firm and gives it a fresh strategy instance.
func (c *Config) BuildParticipants(params model.ParameterSet) ([]simulation.Participant, error) {
	out := make([]simulation.Participant, 0, len(c.Firms))
	for _, f := range c.Firms {
		strat, err := strategy.New(f.Strategy.Name, f.Strategy.Params)
		if err != nil {
			return nil, fmt.Errorf("firm %s: %w", f.ID, err)
		}

		st := model.NewFirmState(params)
		if f.Capital != 0 {
			st.Capital = f.Capital
		}
		st.Inventory = f.Inventory

		machines := f.Machines
		if len(machines) == 0 {
			kind := strategy.Kind(f.Strategy.Name)
			if _, ok := strategy.LookupProfile(kind); !ok {
				kind = strategy.Balanced
			}
			machines = []string{strategy.SelectMachine(kind, st.Capital)}
		}
		if err := st.Equip(machines...); err != nil {
			return nil, fmt.Errorf("firm %s: %w", f.ID, err)
		}

		out = append(out, simulation.Participant{ID: f.ID, Name: f.Name, State: st, Strategy: strat})
	}
	return out, nil
}

func (a ActionConfig) ToModel() model.PeriodActions {
	return model.PeriodActions{
		Round:                a.Round,
		DemandBoost:          a.DemandBoost,
		FreeMarketAnalysis:   a.FreeMarketAnalysis,
		NoInventoryCost:      a.NoInventoryCost,
		RndEnabled:           a.RndEnabled,
		RndThreshold:         a.RndThreshold,
		AllowMachinePurchase: a.AllowMachinePurchase,
		EventLabel:           a.EventLabel,
	}
}

type parametersFileWrapper struct {
	Parameters ParametersConfig `yaml:"parameters"`
}

func LoadParametersFile(path string) (ParametersConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ParametersConfig{}, err
	}
	var w parametersFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ParametersConfig{}, err
	}
	return w.Parameters, nil
}
