package market

import (
	"fmt"
	"strconv"
	"strings"

	"market-sim/internal/model"
)

// Validation is the outcome of checking a decision before it enters a round.
type Validation struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// ValidateDecision checks a proposed decision against the firm's state. Every check
// runs; all violations are reported in a fixed order.
func ValidateDecision(decision model.PeriodDecision, state model.FirmState, params model.ParameterSet, round int) Validation {
	return ValidateDecisionWithActions(decision, state, params, round, nil)
}

// ValidateDecisionWithActions also honours the round's game-master actions, which can
// open machine purchases outside the regular schedule.
func ValidateDecisionWithActions(decision model.PeriodDecision, state model.FirmState, params model.ParameterSet, round int, actions *model.PeriodActions) Validation {
	violations := []string{}
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if decision.Round != 0 && decision.Round != round {
		add("decision is for round %d, but round %d is being played", decision.Round, round)
	}

	capacity := state.TotalCapacity()
	if !(decision.Production >= 0) {
		add("production must be at least 0")
	} else if decision.Production > capacity {
		add("production (%g) exceeds capacity (%g)", decision.Production, capacity)
	}

	if !(decision.SellFromInventory >= 0) {
		add("sale from inventory must be at least 0")
	} else if decision.SellFromInventory > state.Inventory {
		add("sale from inventory (%g) exceeds inventory (%g)", decision.SellFromInventory, state.Inventory)
	}

	if !(decision.Price > 0) {
		add("price must be greater than 0")
	}

	if !(decision.RndInvestment >= 0) {
		add("R&D investment must be at least 0")
	}

	if params.MarketingRound > 0 && round == params.MarketingRound {
		e := decision.MarketingEffort
		if !(e >= params.MarketingEffortMin && e <= params.MarketingEffortMax) {
			add("marketing effort must be between %g and %g in round %d", params.MarketingEffortMin, params.MarketingEffortMax, round)
		}
	}

	if decision.NewMachine != "" {
		allowed := params.MachinePurchaseRound(round)
		if a := model.ActiveActions(actions, round); a != nil && a.AllowMachinePurchase {
			allowed = true
		}
		if !allowed {
			add("machines can only be bought in rounds %s (current: %d)", purchaseRounds(params), round)
		}
		m, ok := model.LookupMachine(decision.NewMachine)
		if !ok {
			add("unknown machine %q", decision.NewMachine)
		} else if m.Cost > state.Capital {
			add("capital (%.2f) is not enough for machine %s (%.2f)", state.Capital, m.Name, m.Cost)
		}
	}

	return Validation{Valid: len(violations) == 0, Violations: violations}
}

func purchaseRounds(params model.ParameterSet) string {
	parts := make([]string, 0, 4)
	for i := 0; i < 3; i++ {
		parts = append(parts, strconv.Itoa(params.MachinePurchaseStartRound+i*params.MachinePurchaseInterval))
	}
	parts = append(parts, "...")
	return strings.Join(parts, ", ")
}
