package market

import (
	"math"
	"testing"

	"market-sim/internal/model"
)

// scenarioParams is the two-firm reference market: saturation 0.8, reference
// price 50, elasticity 0.5, floor 0.5.
func scenarioParams() model.ParameterSet {
	p := model.DefaultParameters()
	p.MarketSaturationFactor = 0.8
	p.ReferencePrice = 50
	p.PriceElasticityFactor = 0.5
	p.MinElasticityMultiplier = 0.5
	return p
}

func testMachine(capacity, varCost float64) model.Machine {
	return model.Machine{Name: "Test", Cost: 1000, Capacity: capacity, VariableCostPerUnit: varCost}
}

func firmWithCapacity(capital, capacity float64) model.FirmState {
	return model.FirmState{
		Capital:  capital,
		Machines: []model.Machine{testMachine(capacity, 5)},
	}
}

func offerInput(id string, price, production float64, state model.FirmState) FirmInput {
	return FirmInput{
		FirmID: id,
		Decision: model.PeriodDecision{
			FirmID:     id,
			Production: production,
			Price:      price,
		},
		State: state,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}
