package market

import (
	"math"

	"market-sim/internal/model"
)

const demandBoostMultiplier = 1.3

// Demand describes the whole market for one round. It is never capped by supply;
// allocation does that.
type Demand struct {
	Round                int     `json:"round"`
	AggregateCapacity    float64 `json:"aggregate_capacity"`
	TotalOffered         float64 `json:"total_offered"`
	AveragePrice         float64 `json:"average_price"`
	ElasticityMultiplier float64 `json:"elasticity_multiplier"`
	Boosted              bool    `json:"boosted"`
	BaseDemand           float64 `json:"base_demand"`
	TotalDemand          int     `json:"total_demand"`
}

// ComputeDemand derives total demand from aggregate capacity and the supply-weighted
// average price. actions only count when they are stored for round.
func ComputeDemand(params model.ParameterSet, round int, inputs []FirmInput, actions *model.PeriodActions) Demand {
	d := Demand{Round: round}

	weighted := 0.0
	for _, in := range inputs {
		d.AggregateCapacity += in.State.TotalCapacity()
		offered := in.Decision.Offered()
		d.TotalOffered += offered
		weighted += in.Decision.Price * offered
	}

	d.AveragePrice = params.ReferencePrice
	if d.TotalOffered > 0 {
		d.AveragePrice = weighted / d.TotalOffered
	}

	d.ElasticityMultiplier = ElasticityMultiplier(params, d.AveragePrice)
	d.Boosted = model.ActiveActions(actions, round) != nil && actions.DemandBoost

	if d.AggregateCapacity <= 0 {
		return d
	}

	d.BaseDemand = params.MarketSaturationFactor * d.AggregateCapacity
	if d.Boosted {
		d.BaseDemand *= demandBoostMultiplier
	}
	d.TotalDemand = floorUnits(d.BaseDemand * d.ElasticityMultiplier)
	return d
}

// ElasticityMultiplier shrinks demand as the average price rises above the reference
// price (and grows it below), floored at MinElasticityMultiplier.
func ElasticityMultiplier(params model.ParameterSet, avgPrice float64) float64 {
	ratio := 1.0
	if params.ReferencePrice > 0 {
		ratio = avgPrice / params.ReferencePrice
	}
	m := 1 - params.PriceElasticityFactor*(ratio-1)
	if math.IsNaN(m) {
		return params.MinElasticityMultiplier
	}
	return math.Max(params.MinElasticityMultiplier, m)
}
