package strategy

import (
	"fmt"
	"math"

	"market-sim/internal/model"
)

// FixedParams is a constant per-round policy:
// - produce ProductionRatio of capacity
// - sell InventoryRatio of the inventory carried into the round
// - ask Price every round (0 means the reference price)
// - buy Machine once, on the first round purchases are open and it is affordable
type FixedParams struct {
	ProductionRatio   float64
	InventoryRatio    float64
	Price             float64
	MarketingEffort   float64
	BuyMarketAnalysis bool
	RndInvestment     float64
	Machine           string
}

var fixedParameterInfo = []ParameterInfo{
	{Name: "production_ratio", Type: "float", Description: "Share of capacity produced each round (0..1)", Default: 1.0},
	{Name: "inventory_ratio", Type: "float", Description: "Share of inventory offered each round (0..1)", Default: 1.0},
	{Name: "price", Type: "float", Description: "Unit price; 0 uses the reference price", Default: 0.0},
	{Name: "marketing_effort", Type: "float", Description: "Marketing effort, clamped to the game's effort range", Default: 5.0},
	{Name: "buy_market_analysis", Type: "bool", Description: "Buy the market analysis every round", Default: false},
	{Name: "rnd_investment", Type: "float", Description: "R&D spend per round", Default: 0.0},
	{Name: "machine", Type: "string", Description: "Catalog machine to buy once purchases open", Default: ""},
}

func parseFixedParams(m map[string]any) (FixedParams, error) {
	var (
		p   FixedParams
		err error
	)
	if p.ProductionRatio, err = numParam(m, "production_ratio", 1); err != nil {
		return p, err
	}
	if p.InventoryRatio, err = numParam(m, "inventory_ratio", 1); err != nil {
		return p, err
	}
	if p.Price, err = numParam(m, "price", 0); err != nil {
		return p, err
	}
	if p.MarketingEffort, err = numParam(m, "marketing_effort", 5); err != nil {
		return p, err
	}
	if p.BuyMarketAnalysis, err = boolParam(m, "buy_market_analysis", false); err != nil {
		return p, err
	}
	if p.RndInvestment, err = numParam(m, "rnd_investment", 0); err != nil {
		return p, err
	}
	if p.Machine, err = strParam(m, "machine", ""); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func (p FixedParams) Validate() error {
	if p.ProductionRatio < 0 || p.ProductionRatio > 1 {
		return fmt.Errorf("production_ratio must be in [0, 1]")
	}
	if p.InventoryRatio < 0 || p.InventoryRatio > 1 {
		return fmt.Errorf("inventory_ratio must be in [0, 1]")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must be >= 0")
	}
	if p.RndInvestment < 0 {
		return fmt.Errorf("rnd_investment must be >= 0")
	}
	if p.Machine != "" {
		if _, ok := model.LookupMachine(p.Machine); !ok {
			return fmt.Errorf("unknown machine %q", p.Machine)
		}
	}
	return nil
}

type FixedStrategy struct {
	Params FixedParams

	bought bool
}

func (s *FixedStrategy) Name() string { return "fixed" }

func (s *FixedStrategy) Decide(ctx Context) model.PeriodDecision {
	d := model.PeriodDecision{
		FirmID:            ctx.FirmID,
		Round:             ctx.Round,
		Production:        math.Floor(ctx.State.TotalCapacity() * s.Params.ProductionRatio),
		SellFromInventory: math.Floor(ctx.State.Inventory * s.Params.InventoryRatio),
		Price:             s.Params.Price,
		MarketingEffort:   clampEffort(s.Params.MarketingEffort, ctx.Params),
		BuyMarketAnalysis: s.Params.BuyMarketAnalysis,
		RndInvestment:     s.Params.RndInvestment,
	}
	if d.Price <= 0 {
		d.Price = ctx.Params.ReferencePrice
	}

	if s.Params.Machine != "" && !s.bought && purchaseOpen(ctx) {
		if m, ok := model.LookupMachine(s.Params.Machine); ok && m.Cost <= ctx.State.Capital {
			d.NewMachine = m.Name
			s.bought = true
		}
	}
	return d
}

func purchaseOpen(ctx Context) bool {
	if ctx.Params.MachinePurchaseRound(ctx.Round) {
		return true
	}
	a := model.ActiveActions(ctx.Actions, ctx.Round)
	return a != nil && a.AllowMachinePurchase
}

func clampEffort(e float64, p model.ParameterSet) float64 {
	return math.Max(p.MarketingEffortMin, math.Min(p.MarketingEffortMax, e))
}
