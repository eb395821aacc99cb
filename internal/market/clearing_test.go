package market

import (
	"errors"
	"fmt"
	"testing"

	"market-sim/internal/model"
)

func TestClearMarketReferenceScenario(t *testing.T) {
	p := scenarioParams()
	inputs := []FirmInput{
		offerInput("a", 40, 100, firmWithCapacity(10000, 100)),
		offerInput("b", 60, 100, firmWithCapacity(10000, 100)),
	}
	results, err := ClearMarket(p, 1, inputs, nil)
	if err != nil {
		t.Fatalf("ClearMarket: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].FirmID != "a" || results[1].FirmID != "b" {
		t.Fatalf("results must follow input order, got %s, %s", results[0].FirmID, results[1].FirmID)
	}

	a, b := results[0].Result, results[1].Result
	approx(t, "a sold", a.UnitsSold, 96)
	approx(t, "b sold", b.UnitsSold, 64)
	approx(t, "a revenue", a.Revenue, 3840)
	approx(t, "b revenue", b.Revenue, 3840)
	approx(t, "a share", a.MarketShare, 0.6)
	approx(t, "b share", b.MarketShare, 0.4)
	approx(t, "a inventory", results[0].NewInventory, 4)
	approx(t, "b inventory", results[1].NewInventory, 36)
	approx(t, "a capital", results[0].NewCapital, 10000+3840-500-8)
	approx(t, "b capital", results[1].NewCapital, 10000+3840-500-72)
}

func TestClearReportsDiagnostics(t *testing.T) {
	p := scenarioParams()
	inputs := []FirmInput{
		offerInput("a", 40, 100, firmWithCapacity(0, 100)),
		offerInput("b", 60, 100, firmWithCapacity(0, 100)),
	}
	c, err := Clear(p, 2, inputs, nil)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.Demand.TotalDemand != 160 || c.Allocation.TotalSold() != 160 {
		t.Errorf("demand %d, sold %d", c.Demand.TotalDemand, c.Allocation.TotalSold())
	}
	if c.Round != 2 || c.Actions != nil {
		t.Errorf("unexpected round metadata: %+v", c)
	}
}

func TestClearRejectsBadFirmIDs(t *testing.T) {
	p := scenarioParams()

	_, err := ClearMarket(p, 1, []FirmInput{
		offerInput("a", 40, 10, firmWithCapacity(0, 100)),
		offerInput("a", 60, 10, firmWithCapacity(0, 100)),
	}, nil)
	if !errors.Is(err, ErrDuplicateFirm) {
		t.Errorf("duplicate ids: got %v", err)
	}

	_, err = ClearMarket(p, 1, []FirmInput{
		offerInput("", 40, 10, firmWithCapacity(0, 100)),
	}, nil)
	if !errors.Is(err, ErrEmptyFirmID) {
		t.Errorf("empty id: got %v", err)
	}
}

func TestCheckAllocationViolations(t *testing.T) {
	tests := []struct {
		name  string
		alloc Allocation
	}{
		{"oversold firm", Allocation{TotalDemand: 10, Firms: []FirmAllocation{{FirmID: "a", Supply: 3, Sold: 4}}}},
		{"negative sales", Allocation{TotalDemand: 10, Firms: []FirmAllocation{{FirmID: "a", Supply: 3, Sold: -1}}}},
		{"above demand", Allocation{TotalDemand: 5, Firms: []FirmAllocation{
			{FirmID: "a", Supply: 4, Sold: 4},
			{FirmID: "b", Supply: 4, Sold: 4},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAllocation(tt.alloc)
			if err == nil {
				t.Fatal("expected an invariant error")
			}
			wrapped := fmt.Errorf("round 3: %w", err)
			if !IsInvariantError(wrapped) {
				t.Errorf("wrapped error lost its type: %v", wrapped)
			}
		})
	}

	if IsInvariantError(ErrDuplicateFirm) {
		t.Error("input errors are not invariant errors")
	}
	if err := checkAllocation(Allocation{TotalDemand: 4, Firms: []FirmAllocation{{FirmID: "a", Supply: 4, Sold: 4}}}); err != nil {
		t.Errorf("valid allocation rejected: %v", err)
	}
}

func TestClearIgnoresStaleActions(t *testing.T) {
	p := scenarioParams()
	inputs := []FirmInput{
		offerInput("a", 40, 100, firmWithCapacity(0, 100)),
		offerInput("b", 60, 100, firmWithCapacity(0, 100)),
	}
	c, err := Clear(p, 4, inputs, &model.PeriodActions{Round: 3, DemandBoost: true})
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.Actions != nil || c.Demand.TotalDemand != 160 {
		t.Errorf("stale actions applied: actions=%v demand=%d", c.Actions, c.Demand.TotalDemand)
	}

	c, err = Clear(p, 4, inputs, &model.PeriodActions{Round: 4, DemandBoost: true})
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.Actions == nil || c.Demand.TotalDemand != 208 {
		t.Errorf("current actions ignored: demand=%d", c.Demand.TotalDemand)
	}
}

func TestClearMarketingFromMarketingRound(t *testing.T) {
	p := scenarioParams()
	p.MarketingRound = 5
	p.MarketingEffectivenessFactor = 0.3

	inputs := func() []FirmInput {
		a := offerInput("a", 50, 100, firmWithCapacity(0, 100))
		a.Decision.MarketingEffort = 10
		b := offerInput("b", 50, 100, firmWithCapacity(0, 100))
		return []FirmInput{a, b}
	}

	before, err := ClearMarket(p, 4, inputs(), nil)
	if err != nil {
		t.Fatalf("round 4: %v", err)
	}
	approx(t, "round 4 a", before[0].Result.UnitsSold, 80)
	approx(t, "round 4 b", before[1].Result.UnitsSold, 80)

	after, err := ClearMarket(p, 5, inputs(), nil)
	if err != nil {
		t.Fatalf("round 5: %v", err)
	}
	approx(t, "round 5 a", after[0].Result.UnitsSold, 91)
	approx(t, "round 5 b", after[1].Result.UnitsSold, 69)
}

func TestClearZeroCapacityMarket(t *testing.T) {
	p := scenarioParams()
	in := offerInput("a", 40, 0, model.FirmState{Capital: 500, Inventory: 30})
	in.Decision.SellFromInventory = 30
	results, err := ClearMarket(p, 1, []FirmInput{in}, nil)
	if err != nil {
		t.Fatalf("ClearMarket: %v", err)
	}
	r := results[0].Result
	approx(t, "sold", r.UnitsSold, 0)
	approx(t, "share", r.MarketShare, 0)
	approx(t, "inventory kept", results[0].NewInventory, 30)
	if r.Outcome != model.OutcomeUnsold {
		t.Errorf("outcome: got %s", r.Outcome)
	}
}

func TestFirmResultApply(t *testing.T) {
	prev := firmWithCapacity(1000, 100)
	prev.RndBenefitApplied = true
	r := FirmResult{
		FirmID:                     "a",
		Result:                     model.PeriodResult{Round: 2, Profit: 250},
		NewCapital:                 1250,
		NewInventory:               12,
		NewCumulativeProfit:        250,
		NewCumulativeRndInvestment: 400,
		NewMachines:                []model.Machine{testMachine(98, 5)},
	}
	next := r.Apply(prev)

	approx(t, "capital", next.Capital, 1250)
	approx(t, "inventory", next.Inventory, 12)
	approx(t, "cumulative profit", next.CumulativeProfit, 250)
	approx(t, "cumulative rnd", next.CumulativeRndInvestment, 400)
	approx(t, "capacity", next.TotalCapacity(), 98)
	if !next.RndBenefitApplied {
		t.Error("R&D benefit must never be lost")
	}
	if next.LastResult == nil || next.LastResult.Round != 2 {
		t.Error("last result not recorded")
	}
	approx(t, "previous state untouched", prev.TotalCapacity(), 100)
}
