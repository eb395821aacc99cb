package market

import (
	"math"

	"market-sim/internal/model"
)

// SettlementInput is everything settlement needs for one firm.
type SettlementInput struct {
	Params    model.ParameterSet
	Round     int
	Decision  model.PeriodDecision
	State     model.FirmState
	UnitsSold float64
	Demand    Demand
	// Actions are ignored unless stored for Round.
	Actions *model.PeriodActions
}

// Settlement is the ledger entry for one firm plus its state after the round.
type Settlement struct {
	Result model.PeriodResult
	State  model.FirmState
}

// Settle turns a firm's allocated sales into its period result and new state.
// It is a pure function of its input and never fails: degenerate inputs (no demand,
// no machines, zero price) produce zero-valued outputs. Every money amount is rounded
// to cents where it is computed, the opening capital included, so the new capital is
// exactly round2(capital) + revenue - totalCosts - interest.
func Settle(in SettlementInput) Settlement {
	p := in.Params
	d := in.Decision
	st := in.State
	actions := model.ActiveActions(in.Actions, in.Round)

	sold := math.Max(0, in.UnitsSold)
	production := math.Max(0, d.Production)

	revenue := round2(sold * d.Price)

	// Production is charged on units made, sold or not.
	unitCost := st.WeightedVariableCost()
	if st.RndBenefitApplied {
		unitCost *= 1 - p.RndCostReductionRate
	}
	productionCost := round2(production * unitCost)

	endingInventory := math.Max(0, st.Inventory+production-sold)

	inventoryCost := 0.0
	if actions == nil || !actions.NoInventoryCost {
		inventoryCost = round2(endingInventory * p.InventoryCostPerUnit)
	}

	rndCost := round2(math.Max(0, d.RndInvestment))
	cumulativeRnd := round2(st.CumulativeRndInvestment + rndCost)
	rndBenefit := st.RndBenefitApplied
	if !rndBenefit {
		if threshold, ok := rndThreshold(p, actions); ok && cumulativeRnd >= threshold {
			rndBenefit = true
		}
	}

	machines := append([]model.Machine(nil), st.Machines...)
	machineCost := 0.0
	if d.NewMachine != "" {
		if m, ok := model.LookupMachine(d.NewMachine); ok {
			machineCost = round2(m.Cost)
			machines = append(machines, m)
		}
	}

	capacityLost := 0.0
	if p.DepreciationEnabled && p.DepreciationRate > 0 {
		for i := range machines {
			before := machines[i].Capacity
			after := float64(floorUnits(before * (1 - p.DepreciationRate)))
			machines[i].Capacity = after
			capacityLost += before - after
		}
	}

	freeAnalysis := actions != nil && actions.FreeMarketAnalysis
	analysisGranted := d.BuyMarketAnalysis || freeAnalysis
	analysisCost := 0.0
	if d.BuyMarketAnalysis && !freeAnalysis {
		analysisCost = round2(p.MarketAnalysisCost)
	}

	totalCosts := round2(productionCost + inventoryCost + rndCost + machineCost + analysisCost)

	profitBeforeInterest := round2(revenue - totalCosts)
	openingCapital := round2(st.Capital)
	capitalBeforeInterest := round2(openingCapital + profitBeforeInterest)

	interest := 0.0
	if capitalBeforeInterest < 0 {
		interest = round2(-capitalBeforeInterest * p.NegativeCashInterestRate)
	}

	profit := round2(profitBeforeInterest - interest)
	endingCapital := round2(capitalBeforeInterest - interest)

	share := 0.0
	if in.Demand.TotalDemand > 0 {
		share = roundTo(sold/float64(in.Demand.TotalDemand), 4)
	}

	res := model.PeriodResult{
		Round:              in.Round,
		Price:              round2(d.Price),
		UnitsSold:          sold,
		Revenue:            revenue,
		ProductionCost:     productionCost,
		VariableCost:       productionCost,
		InventoryCost:      inventoryCost,
		RndCost:            rndCost,
		MachineCost:        machineCost,
		MarketAnalysisCost: analysisCost,
		Interest:           interest,
		TotalCosts:         totalCosts,
		Profit:             profit,
		EndingInventory:    endingInventory,
		EndingCapital:      endingCapital,
		MarketShare:        share,
		CapacityLost:       capacityLost,
		Outcome:            model.OutcomeFromSales(sold, d.Offered()),
	}
	if analysisGranted {
		res.AverageMarketPrice = round2(in.Demand.AveragePrice)
		res.TotalMarketDemand = float64(in.Demand.TotalDemand)
	}

	next := model.FirmState{
		Capital:                 endingCapital,
		Inventory:               endingInventory,
		CumulativeProfit:        round2(st.CumulativeProfit + profit),
		Machines:                machines,
		CumulativeRndInvestment: cumulativeRnd,
		RndBenefitApplied:       rndBenefit,
	}
	last := res
	next.LastResult = &last

	return Settlement{Result: res, State: next}
}

// rndThreshold returns the cumulative R&D spend that unlocks the benefit this round.
// ok is false when R&D is not enabled, neither globally nor by the round's actions,
// in which case the benefit cannot newly activate.
func rndThreshold(p model.ParameterSet, actions *model.PeriodActions) (threshold float64, ok bool) {
	if actions != nil && actions.RndEnabled {
		if actions.RndThreshold > 0 {
			return actions.RndThreshold, true
		}
		return p.RndBenefitThreshold, true
	}
	if p.RndEnabled {
		return p.RndBenefitThreshold, true
	}
	return 0, false
}
