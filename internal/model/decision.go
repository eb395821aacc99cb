package model

// PeriodDecision is one firm's input for one round.
// Constraints are enforced by the validator, not by clearing.
type PeriodDecision struct {
	FirmID            string  `json:"firm_id"`
	Round             int     `json:"round"`
	Production        float64 `json:"production"`
	SellFromInventory float64 `json:"sell_from_inventory"`
	Price             float64 `json:"price"`
	MarketingEffort   float64 `json:"marketing_effort,omitempty"`
	BuyMarketAnalysis bool    `json:"buy_market_analysis"`
	RndInvestment     float64 `json:"rnd_investment,omitempty"`
	// NewMachine is a catalog machine name, or empty for no purchase.
	NewMachine string `json:"new_machine,omitempty"`
}

// Offered is the number of units put on the market: production plus inventory sold.
func (d PeriodDecision) Offered() float64 {
	offered := d.Production + d.SellFromInventory
	if offered < 0 {
		return 0
	}
	return offered
}

// ZeroDecision is the stand-in for a firm that did not submit a usable decision:
// nothing produced, nothing sold from inventory, priced at the reference price.
func ZeroDecision(firmID string, round int, params ParameterSet) PeriodDecision {
	return PeriodDecision{
		FirmID: firmID,
		Round:  round,
		Price:  params.ReferencePrice,
	}
}

// PeriodActions are game-master modifiers for exactly one round.
type PeriodActions struct {
	Round                int     `json:"round"`
	DemandBoost          bool    `json:"demand_boost"`
	FreeMarketAnalysis   bool    `json:"free_market_analysis"`
	NoInventoryCost      bool    `json:"no_inventory_cost"`
	RndEnabled           bool    `json:"rnd_enabled"`
	RndThreshold         float64 `json:"rnd_threshold,omitempty"`
	AllowMachinePurchase bool    `json:"allow_machine_purchase"`
	EventLabel           string  `json:"event_label,omitempty"`
}

// ActiveFor reports whether the actions apply to round. A nil receiver or a modifier
// stored for another round is inactive.
func (a *PeriodActions) ActiveFor(round int) bool {
	return a != nil && a.Round == round
}

// ActiveActions returns a when it applies to round, otherwise nil.
func ActiveActions(a *PeriodActions, round int) *PeriodActions {
	if a.ActiveFor(round) {
		return a
	}
	return nil
}
