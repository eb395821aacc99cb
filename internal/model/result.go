package model

// PeriodResult is the immutable per-round snapshot settlement attaches to a firm.
// Money fields are rounded to 2 decimals.
type PeriodResult struct {
	Round     int     `json:"round"`
	Price     float64 `json:"price"`
	UnitsSold float64 `json:"units_sold"`
	Revenue   float64 `json:"revenue"`

	ProductionCost     float64 `json:"production_cost"`
	VariableCost       float64 `json:"variable_cost"` // same as ProductionCost
	InventoryCost      float64 `json:"inventory_cost"`
	RndCost            float64 `json:"rnd_cost"`
	MachineCost        float64 `json:"machine_cost"`
	MarketAnalysisCost float64 `json:"market_analysis_cost"`

	Interest float64 `json:"interest"`
	// TotalCosts excludes Interest.
	TotalCosts float64 `json:"total_costs"`
	Profit     float64 `json:"profit"`

	EndingInventory float64 `json:"ending_inventory"`
	EndingCapital   float64 `json:"ending_capital"`

	// MarketShare is UnitsSold / total demand, as a fraction.
	MarketShare float64 `json:"market_share"`
	// Only populated for firms that bought or were granted market analysis.
	AverageMarketPrice float64 `json:"average_market_price"`
	TotalMarketDemand  float64 `json:"total_market_demand"`

	CapacityLost float64 `json:"capacity_lost"`

	Outcome Outcome `json:"outcome"`
}
