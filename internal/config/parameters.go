package config

import "market-sim/internal/model"

// ToModelParams overlays the set fields of p onto model.DefaultParameters.
func (p ParametersConfig) ToModelParams() model.ParameterSet {
	return ApplyParameters(model.DefaultParameters(), p)
}

// FromModelParams expresses a full parameter set as an override, with every boolean set.
func FromModelParams(m model.ParameterSet) ParametersConfig {
	rnd := m.RndEnabled
	dep := m.DepreciationEnabled
	return ParametersConfig{
		StartingCapital:              m.StartingCapital,
		PeriodDurationMinutes:        m.PeriodDurationMinutes,
		MarketAnalysisCost:           m.MarketAnalysisCost,
		NegativeCashInterestRate:     m.NegativeCashInterestRate,
		MarketSaturationFactor:       m.MarketSaturationFactor,
		PriceElasticityFactor:        m.PriceElasticityFactor,
		ReferencePrice:               m.ReferencePrice,
		MinElasticityMultiplier:      m.MinElasticityMultiplier,
		InventoryCostPerUnit:         m.InventoryCostPerUnit,
		RndEnabled:                   &rnd,
		RndBenefitThreshold:          m.RndBenefitThreshold,
		RndCostReductionRate:         m.RndCostReductionRate,
		DepreciationEnabled:          &dep,
		DepreciationRate:             m.DepreciationRate,
		MarketingEffectivenessFactor: m.MarketingEffectivenessFactor,
		MarketingRound:               m.MarketingRound,
		MarketingEffortMin:           m.MarketingEffortMin,
		MarketingEffortMax:           m.MarketingEffortMax,
		MachinePurchaseStartRound:    m.MachinePurchaseStartRound,
		MachinePurchaseInterval:      m.MachinePurchaseInterval,
	}
}

// MergeParameters overlays the set fields of override onto base.
// This is used when loading a preset or parameters file and then applying overrides.
func MergeParameters(base, override ParametersConfig) ParametersConfig {
	out := base
	out.RndEnabled = cloneBool(base.RndEnabled)
	out.DepreciationEnabled = cloneBool(base.DepreciationEnabled)
	mergeFloat(&out.StartingCapital, override.StartingCapital)
	mergeFloat(&out.PeriodDurationMinutes, override.PeriodDurationMinutes)
	mergeFloat(&out.MarketAnalysisCost, override.MarketAnalysisCost)
	mergeFloat(&out.NegativeCashInterestRate, override.NegativeCashInterestRate)
	mergeFloat(&out.MarketSaturationFactor, override.MarketSaturationFactor)
	mergeFloat(&out.PriceElasticityFactor, override.PriceElasticityFactor)
	mergeFloat(&out.ReferencePrice, override.ReferencePrice)
	mergeFloat(&out.MinElasticityMultiplier, override.MinElasticityMultiplier)
	mergeFloat(&out.InventoryCostPerUnit, override.InventoryCostPerUnit)
	if override.RndEnabled != nil {
		out.RndEnabled = cloneBool(override.RndEnabled)
	}
	mergeFloat(&out.RndBenefitThreshold, override.RndBenefitThreshold)
	mergeFloat(&out.RndCostReductionRate, override.RndCostReductionRate)
	if override.DepreciationEnabled != nil {
		out.DepreciationEnabled = cloneBool(override.DepreciationEnabled)
	}
	mergeFloat(&out.DepreciationRate, override.DepreciationRate)
	mergeFloat(&out.MarketingEffectivenessFactor, override.MarketingEffectivenessFactor)
	mergeInt(&out.MarketingRound, override.MarketingRound)
	mergeFloat(&out.MarketingEffortMin, override.MarketingEffortMin)
	mergeFloat(&out.MarketingEffortMax, override.MarketingEffortMax)
	mergeInt(&out.MachinePurchaseStartRound, override.MachinePurchaseStartRound)
	mergeInt(&out.MachinePurchaseInterval, override.MachinePurchaseInterval)
	return out
}

// ApplyParameters overlays the set fields of p onto m.
func ApplyParameters(m model.ParameterSet, p ParametersConfig) model.ParameterSet {
	merged := MergeParameters(FromModelParams(m), p)
	return model.ParameterSet{
		StartingCapital:              merged.StartingCapital,
		PeriodDurationMinutes:        merged.PeriodDurationMinutes,
		MarketAnalysisCost:           merged.MarketAnalysisCost,
		NegativeCashInterestRate:     merged.NegativeCashInterestRate,
		MarketSaturationFactor:       merged.MarketSaturationFactor,
		PriceElasticityFactor:        merged.PriceElasticityFactor,
		ReferencePrice:               merged.ReferencePrice,
		MinElasticityMultiplier:      merged.MinElasticityMultiplier,
		InventoryCostPerUnit:         merged.InventoryCostPerUnit,
		RndEnabled:                   *merged.RndEnabled,
		RndBenefitThreshold:          merged.RndBenefitThreshold,
		RndCostReductionRate:         merged.RndCostReductionRate,
		DepreciationEnabled:          *merged.DepreciationEnabled,
		DepreciationRate:             merged.DepreciationRate,
		MarketingEffectivenessFactor: merged.MarketingEffectivenessFactor,
		MarketingRound:               merged.MarketingRound,
		MarketingEffortMin:           merged.MarketingEffortMin,
		MarketingEffortMax:           merged.MarketingEffortMax,
		MachinePurchaseStartRound:    merged.MachinePurchaseStartRound,
		MachinePurchaseInterval:      merged.MachinePurchaseInterval,
	}
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
