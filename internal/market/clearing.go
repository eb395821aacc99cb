package market

import (
	"fmt"

	"market-sim/internal/model"
)

// FirmInput pairs a firm's decision with its state at the start of the round.
type FirmInput struct {
	FirmID   string               `json:"firm_id"`
	Decision model.PeriodDecision `json:"decision"`
	State    model.FirmState      `json:"state"`
}

// FirmResult is a firm's period result and the fields of its next state.
type FirmResult struct {
	FirmID                     string             `json:"firm_id"`
	Result                     model.PeriodResult `json:"result"`
	NewCapital                 float64            `json:"new_capital"`
	NewInventory               float64            `json:"new_inventory"`
	NewCumulativeProfit        float64            `json:"new_cumulative_profit"`
	NewCumulativeRndInvestment float64            `json:"new_cumulative_rnd_investment"`
	NewRndBenefitApplied       bool               `json:"new_rnd_benefit_applied"`
	NewMachines                []model.Machine    `json:"new_machines"`
}

// Apply returns the firm's state after the round.
func (r FirmResult) Apply(prev model.FirmState) model.FirmState {
	next := prev.Clone()
	next.Capital = r.NewCapital
	next.Inventory = r.NewInventory
	next.CumulativeProfit = r.NewCumulativeProfit
	next.CumulativeRndInvestment = r.NewCumulativeRndInvestment
	next.RndBenefitApplied = prev.RndBenefitApplied || r.NewRndBenefitApplied
	next.Machines = append([]model.Machine(nil), r.NewMachines...)
	res := r.Result
	next.LastResult = &res
	return next
}

// Clearing is one cleared round with its market diagnostics.
type Clearing struct {
	Round      int                  `json:"round"`
	Actions    *model.PeriodActions `json:"actions,omitempty"`
	Demand     Demand               `json:"demand"`
	Allocation Allocation           `json:"allocation"`
	Results    []FirmResult         `json:"results"`
}

// ClearMarket clears one round and returns one result per input, in input order.
// Either every firm gets a result or, on error, none does.
func ClearMarket(params model.ParameterSet, round int, inputs []FirmInput, actions *model.PeriodActions) ([]FirmResult, error) {
	c, err := Clear(params, round, inputs, actions)
	if err != nil {
		return nil, err
	}
	return c.Results, nil
}

// Clear is ClearMarket with the demand and allocation diagnostics attached.
func Clear(params model.ParameterSet, round int, inputs []FirmInput, actions *model.PeriodActions) (*Clearing, error) {
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		if in.FirmID == "" {
			return nil, fmt.Errorf("input %d: %w", i, ErrEmptyFirmID)
		}
		if seen[in.FirmID] {
			return nil, fmt.Errorf("firm %s: %w", in.FirmID, ErrDuplicateFirm)
		}
		seen[in.FirmID] = true
	}

	actions = model.ActiveActions(actions, round)
	demand := ComputeDemand(params, round, inputs, actions)
	alloc := Allocate(demand.TotalDemand, buildOffers(params, round, inputs))
	if err := checkAllocation(alloc); err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}

	results := make([]FirmResult, len(inputs))
	for i, in := range inputs {
		s := Settle(SettlementInput{
			Params:    params,
			Round:     round,
			Decision:  in.Decision,
			State:     in.State,
			UnitsSold: float64(alloc.Firms[i].Sold),
			Demand:    demand,
			Actions:   actions,
		})
		results[i] = FirmResult{
			FirmID:                     in.FirmID,
			Result:                     s.Result,
			NewCapital:                 s.State.Capital,
			NewInventory:               s.State.Inventory,
			NewCumulativeProfit:        s.State.CumulativeProfit,
			NewCumulativeRndInvestment: s.State.CumulativeRndInvestment,
			NewRndBenefitApplied:       s.State.RndBenefitApplied,
			NewMachines:                s.State.Machines,
		}
	}

	return &Clearing{
		Round:      round,
		Actions:    actions,
		Demand:     demand,
		Allocation: alloc,
		Results:    results,
	}, nil
}

// buildOffers converts decisions into allocation offers. Marketing effort only counts
// from the marketing round on, as a share of all effort scaled by effectiveness.
func buildOffers(params model.ParameterSet, round int, inputs []FirmInput) []Offer {
	totalEffort := 0.0
	marketing := params.MarketingActive(round) && params.MarketingEffectivenessFactor > 0
	if marketing {
		for _, in := range inputs {
			if in.Decision.MarketingEffort > 0 {
				totalEffort += in.Decision.MarketingEffort
			}
		}
	}

	offers := make([]Offer, len(inputs))
	for i, in := range inputs {
		o := Offer{
			FirmID: in.FirmID,
			Price:  in.Decision.Price,
			Supply: floorUnits(in.Decision.Offered()),
		}
		if marketing && totalEffort > 0 && in.Decision.MarketingEffort > 0 {
			o.MarketingBonus = in.Decision.MarketingEffort / totalEffort * params.MarketingEffectivenessFactor
		}
		offers[i] = o
	}
	return offers
}
