package model

import (
	"errors"
	"fmt"
)

// ParameterSet is the immutable configuration of one game.
// Units:
// - money fields: currency units (EUR in the original game)
// - rates and factors: fractions, e.g. 0.15 = 15%
// - rounds: 1-based round numbers
type ParameterSet struct {
	StartingCapital       float64 `json:"starting_capital"`
	PeriodDurationMinutes float64 `json:"period_duration_minutes"`
	MarketAnalysisCost    float64 `json:"market_analysis_cost"`

	// NegativeCashInterestRate is charged on the absolute capital when it drops below zero.
	NegativeCashInterestRate float64 `json:"negative_cash_interest_rate"`

	// MarketSaturationFactor is the share of aggregate capacity the market absorbs at the
	// reference price. Must be in (0, 1].
	MarketSaturationFactor float64 `json:"market_saturation_factor"`
	PriceElasticityFactor  float64 `json:"price_elasticity_factor"`
	ReferencePrice         float64 `json:"reference_price"`
	// MinElasticityMultiplier floors demand shrinkage. Must be in (0, 1].
	MinElasticityMultiplier float64 `json:"min_elasticity_multiplier"`

	InventoryCostPerUnit float64 `json:"inventory_cost_per_unit"`

	RndEnabled           bool    `json:"rnd_enabled"`
	RndBenefitThreshold  float64 `json:"rnd_benefit_threshold"`
	RndCostReductionRate float64 `json:"rnd_cost_reduction_rate"`

	DepreciationEnabled bool    `json:"depreciation_enabled"`
	DepreciationRate    float64 `json:"depreciation_rate"`

	MarketingEffectivenessFactor float64 `json:"marketing_effectiveness_factor"`
	MarketingRound               int     `json:"marketing_round"`
	MarketingEffortMin           float64 `json:"marketing_effort_min"`
	MarketingEffortMax           float64 `json:"marketing_effort_max"`

	MachinePurchaseStartRound int `json:"machine_purchase_start_round"`
	MachinePurchaseInterval   int `json:"machine_purchase_interval"`
}

// DefaultParameters mirrors the "medium" game most sessions are played with.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		StartingCapital:              30000,
		PeriodDurationMinutes:        5,
		MarketAnalysisCost:           2000,
		NegativeCashInterestRate:     0.15,
		MarketSaturationFactor:       0.7,
		PriceElasticityFactor:        0.5,
		ReferencePrice:               50,
		MinElasticityMultiplier:      0.5,
		InventoryCostPerUnit:         2,
		RndEnabled:                   true,
		RndBenefitThreshold:          10000,
		RndCostReductionRate:         0.5,
		DepreciationEnabled:          false,
		DepreciationRate:             0.02,
		MarketingEffectivenessFactor: 0.3,
		MarketingRound:               5,
		MarketingEffortMin:           1,
		MarketingEffortMax:           10,
		MachinePurchaseStartRound:    3,
		MachinePurchaseInterval:      3,
	}
}

// Preset returns one of the built-in difficulty presets ("easy", "medium", "hard").
func Preset(name string) (ParameterSet, error) {
	p := DefaultParameters()
	switch name {
	case "medium", "":
	case "easy":
		p.StartingCapital = 40000
		p.MarketSaturationFactor = 0.85
		p.PriceElasticityFactor = 0.3
		p.MinElasticityMultiplier = 0.6
		p.NegativeCashInterestRate = 0.1
		p.InventoryCostPerUnit = 1
		p.RndBenefitThreshold = 8000
	case "hard":
		p.StartingCapital = 25000
		p.MarketSaturationFactor = 0.6
		p.PriceElasticityFactor = 0.8
		p.MinElasticityMultiplier = 0.3
		p.NegativeCashInterestRate = 0.2
		p.InventoryCostPerUnit = 3
		p.RndBenefitThreshold = 15000
		p.DepreciationEnabled = true
	default:
		return ParameterSet{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

func (p ParameterSet) Validate() error {
	if p.StartingCapital < 0 {
		return errors.New("StartingCapital must be >= 0")
	}
	if p.MarketAnalysisCost < 0 {
		return errors.New("MarketAnalysisCost must be >= 0")
	}
	if p.NegativeCashInterestRate < 0 {
		return errors.New("NegativeCashInterestRate must be >= 0")
	}
	if p.MarketSaturationFactor <= 0 || p.MarketSaturationFactor > 1 {
		return errors.New("MarketSaturationFactor must be in (0, 1]")
	}
	if p.PriceElasticityFactor < 0 {
		return errors.New("PriceElasticityFactor must be >= 0")
	}
	if p.ReferencePrice <= 0 {
		return errors.New("ReferencePrice must be > 0")
	}
	if p.MinElasticityMultiplier <= 0 || p.MinElasticityMultiplier > 1 {
		return errors.New("MinElasticityMultiplier must be in (0, 1]")
	}
	if p.InventoryCostPerUnit < 0 {
		return errors.New("InventoryCostPerUnit must be >= 0")
	}
	if p.RndBenefitThreshold < 0 {
		return errors.New("RndBenefitThreshold must be >= 0")
	}
	if p.RndCostReductionRate < 0 || p.RndCostReductionRate >= 1 {
		return errors.New("RndCostReductionRate must be in [0, 1)")
	}
	if p.DepreciationRate < 0 || p.DepreciationRate >= 1 {
		return errors.New("DepreciationRate must be in [0, 1)")
	}
	if p.MarketingEffectivenessFactor < 0 {
		return errors.New("MarketingEffectivenessFactor must be >= 0")
	}
	if p.MarketingEffortMin > p.MarketingEffortMax {
		return errors.New("MarketingEffortMin must be <= MarketingEffortMax")
	}
	if p.MachinePurchaseInterval < 1 {
		return errors.New("MachinePurchaseInterval must be >= 1")
	}
	return nil
}

// MarketingActive reports whether marketing effort influences allocation in round.
func (p ParameterSet) MarketingActive(round int) bool {
	return p.MarketingRound > 0 && round >= p.MarketingRound
}

// MachinePurchaseRound reports whether round is one of the scheduled purchase rounds
// (start, start+interval, start+2*interval, ...).
func (p ParameterSet) MachinePurchaseRound(round int) bool {
	if p.MachinePurchaseInterval < 1 || round < p.MachinePurchaseStartRound {
		return false
	}
	return (round-p.MachinePurchaseStartRound)%p.MachinePurchaseInterval == 0
}
