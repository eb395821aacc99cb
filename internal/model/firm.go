package model

import "fmt"

// FirmState is the persistent economic state of one firm.
// It is only mutated by settlement (see market.FirmResult.Apply).
type FirmState struct {
	Capital          float64   `json:"capital"`
	Inventory        float64   `json:"inventory"`
	CumulativeProfit float64   `json:"cumulative_profit"`
	Machines         []Machine `json:"machines"`

	CumulativeRndInvestment float64 `json:"cumulative_rnd_investment"`
	// RndBenefitApplied is monotonic: once true it stays true.
	RndBenefitApplied bool `json:"rnd_benefit_applied"`

	LastResult *PeriodResult `json:"last_result,omitempty"`
}

// NewFirmState is the state of a firm that just joined a game.
func NewFirmState(params ParameterSet) FirmState {
	return FirmState{Capital: params.StartingCapital}
}

// Equip buys catalog machines before the first round, charging their cost to capital.
func (f *FirmState) Equip(names ...string) error {
	for _, name := range names {
		m, ok := LookupMachine(name)
		if !ok {
			return fmt.Errorf("unknown machine %q", name)
		}
		f.Capital -= m.Cost
		f.Machines = append(f.Machines, m)
	}
	return nil
}

func (f FirmState) TotalCapacity() float64 {
	total := 0.0
	for _, m := range f.Machines {
		total += m.Capacity
	}
	return total
}

// WeightedVariableCost is the capacity-weighted average variable cost per unit across
// all owned machines, or 0 for a firm without capacity.
func (f FirmState) WeightedVariableCost() float64 {
	capacity := f.TotalCapacity()
	if capacity <= 0 {
		return 0
	}
	sum := 0.0
	for _, m := range f.Machines {
		sum += m.VariableCostPerUnit * m.Capacity
	}
	return sum / capacity
}

// Clone returns a copy that shares no slices with f.
func (f FirmState) Clone() FirmState {
	out := f
	out.Machines = append([]Machine(nil), f.Machines...)
	if f.LastResult != nil {
		r := *f.LastResult
		out.LastResult = &r
	}
	return out
}
