package simulation

import "market-sim/internal/model"

// LedgerRow is one firm in one round.
// This is the primary artifact for "what happened" in a simulation.
type LedgerRow struct {
	Round    int    `json:"round"`
	FirmID   string `json:"firm_id"`
	FirmName string `json:"firm_name,omitempty"`
	Strategy string `json:"strategy"`

	Production        float64 `json:"production"`
	SellFromInventory float64 `json:"sell_from_inventory"`
	Price             float64 `json:"price"`
	MarketingEffort   float64 `json:"marketing_effort"`
	BuyMarketAnalysis bool    `json:"buy_market_analysis"`
	RndInvestment     float64 `json:"rnd_investment"`
	NewMachine        string  `json:"new_machine,omitempty"`

	// Replaced is set when the strategy's decision failed validation and the firm sat
	// the round out with a zero decision. Violations lists why.
	Replaced   bool     `json:"replaced"`
	Violations []string `json:"violations,omitempty"`

	Outcome model.Outcome `json:"outcome"`

	// TotalDemand and AveragePrice are zero unless the firm had market analysis.
	TotalDemand  int     `json:"total_demand"`
	AveragePrice float64 `json:"average_price"`

	UnitsSold   float64 `json:"units_sold"`
	MarketShare float64 `json:"market_share"`
	Revenue     float64 `json:"revenue"`

	ProductionCost     float64 `json:"production_cost"`
	InventoryCost      float64 `json:"inventory_cost"`
	RndCost            float64 `json:"rnd_cost"`
	MachineCost        float64 `json:"machine_cost"`
	MarketAnalysisCost float64 `json:"market_analysis_cost"`
	TotalCosts         float64 `json:"total_costs"`
	Interest           float64 `json:"interest"`
	Profit             float64 `json:"profit"`

	Capital          float64 `json:"capital"`
	Inventory        float64 `json:"inventory"`
	Capacity         float64 `json:"capacity"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}

// RoundSummary is the market side of one round.
type RoundSummary struct {
	Round                int     `json:"round"`
	TotalDemand          int     `json:"total_demand"`
	TotalSold            int     `json:"total_sold"`
	Unmet                int     `json:"unmet"`
	AveragePrice         float64 `json:"average_price"`
	ElasticityMultiplier float64 `json:"elasticity_multiplier"`
	Boosted              bool    `json:"boosted"`
	EventLabel           string  `json:"event_label,omitempty"`
}

// FirmOutcome is a firm's final standing after the last round.
type FirmOutcome struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Strategy string          `json:"strategy"`
	State    model.FirmState `json:"state"`
}

type Result struct {
	Rounds int                `json:"rounds"`
	Ledger []LedgerRow        `json:"ledger"`
	Market []RoundSummary     `json:"market"`
	Firms  []FirmOutcome      `json:"firms"`
	Params model.ParameterSet `json:"parameters"`
}

// LedgerFor returns the rows of one firm, in round order.
func (r *Result) LedgerFor(firmID string) []LedgerRow {
	var out []LedgerRow
	for _, row := range r.Ledger {
		if row.FirmID == firmID {
			out = append(out, row)
		}
	}
	return out
}
