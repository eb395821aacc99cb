package strategy

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"market-sim/internal/model"
)

// Kind names one of the computer-opponent profiles.
type Kind string

const (
	Aggressive   Kind = "aggressive"
	Conservative Kind = "conservative"
	Balanced     Kind = "balanced"
	Innovative   Kind = "innovative"
)

const (
	// minProfilePrice is the lowest price a profile will ever ask.
	minProfilePrice = 10
	// spendShare caps discretionary spend (R&D plus analysis) at this share of capital.
	spendShare = 0.5
)

// Profile is the fixed behaviour of a computer opponent.
type Profile struct {
	Kind        Kind
	Description string

	ProductionRatio float64
	InventoryRatio  float64
	// PriceFactor is applied to the reference price.
	PriceFactor     float64
	MarketingEffort float64

	// R&D spend is min(RndCap, capital*RndCapitalShare) from round RndFromRound on.
	RndCap          float64
	RndCapitalShare float64
	RndFromRound    int

	BuysAnalysis func(round int) bool
	BuysMachines bool
}

var profiles = []Profile{
	{
		Kind:            Aggressive,
		Description:     "Computer opponent. Runs near full capacity and undercuts the reference price to win share.",
		ProductionRatio: 0.95,
		InventoryRatio:  0.8,
		PriceFactor:     0.85,
		MarketingEffort: 9,
		BuysAnalysis:    func(round int) bool { return round%2 == 0 },
		BuysMachines:    true,
	},
	{
		Kind:            Conservative,
		Description:     "Computer opponent. Moderate output at the reference price, spends little.",
		ProductionRatio: 0.6,
		InventoryRatio:  0.5,
		PriceFactor:     1.0,
		MarketingEffort: 3,
		BuysAnalysis:    func(round int) bool { return round == 1 },
	},
	{
		Kind:            Balanced,
		Description:     "Computer opponent. Slightly below the reference price, modest R&D after the opening rounds.",
		ProductionRatio: 0.75,
		InventoryRatio:  0.6,
		PriceFactor:     0.95,
		MarketingEffort: 5,
		RndCap:          3000,
		RndCapitalShare: 0.05,
		RndFromRound:    3,
		BuysAnalysis:    func(round int) bool { return round <= 2 },
		BuysMachines:    true,
	},
	{
		Kind:            Innovative,
		Description:     "Computer opponent. Premium pricing backed by steady R&D and market analysis.",
		ProductionRatio: 0.7,
		InventoryRatio:  0.7,
		PriceFactor:     1.15,
		MarketingEffort: 7,
		RndCap:          5000,
		RndCapitalShare: 0.1,
		RndFromRound:    1,
		BuysAnalysis:    func(int) bool { return true },
		BuysMachines:    true,
	},
}

func LookupProfile(kind Kind) (Profile, bool) {
	for _, p := range profiles {
		if p.Kind == kind {
			return p, true
		}
	}
	return Profile{}, false
}

type ProfileStrategy struct {
	Profile Profile
}

func NewProfileStrategy(kind Kind) (*ProfileStrategy, error) {
	p, ok := LookupProfile(kind)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", kind)
	}
	return &ProfileStrategy{Profile: p}, nil
}

func (s *ProfileStrategy) Name() string { return string(s.Profile.Kind) }

func (s *ProfileStrategy) Decide(ctx Context) model.PeriodDecision {
	prof := s.Profile
	st := ctx.State
	capacity := st.TotalCapacity()
	inventory := math.Max(0, st.Inventory)

	production := math.Min(math.Floor(capacity*prof.ProductionRatio), capacity)
	sell := math.Min(inventory, math.Floor(inventory*prof.InventoryRatio))

	price := math.Max(minProfilePrice, ctx.Params.ReferencePrice*prof.PriceFactor)
	price = decimal.NewFromFloat(price).Round(2).InexactFloat64()

	rnd := 0.0
	if prof.RndCap > 0 && ctx.Round >= prof.RndFromRound && st.Capital > 0 {
		rnd = math.Min(prof.RndCap, st.Capital*prof.RndCapitalShare)
	}
	analysis := prof.BuysAnalysis != nil && prof.BuysAnalysis(ctx.Round)

	budget := math.Max(0, st.Capital*spendShare)
	spend := rnd
	if analysis {
		spend += ctx.Params.MarketAnalysisCost
	}
	if spend > budget {
		scale := 0.0
		if spend > 0 {
			scale = budget / spend
		}
		rnd = math.Floor(rnd * scale)
		analysis = false
		spend = rnd
	}

	d := model.PeriodDecision{
		FirmID:            ctx.FirmID,
		Round:             ctx.Round,
		Production:        math.Max(0, production),
		SellFromInventory: sell,
		Price:             price,
		MarketingEffort:   clampEffort(prof.MarketingEffort, ctx.Params),
		BuyMarketAnalysis: analysis,
		RndInvestment:     rnd,
	}

	if prof.BuysMachines && purchaseOpen(ctx) {
		if m, ok := affordableMachine(prof.Kind, budget-spend); ok {
			d.NewMachine = m.Name
		}
	}
	return d
}

// SelectMachine picks the machine a profile would buy with the given capital. With
// nothing affordable it falls back to the cheapest machine.
func SelectMachine(kind Kind, capital float64) string {
	if m, ok := affordableMachine(kind, capital); ok {
		return m.Name
	}
	return model.Catalog()[0].Name
}

func affordableMachine(kind Kind, budget float64) (model.Machine, bool) {
	var affordable []model.Machine
	for _, m := range model.Catalog() {
		if m.Cost <= budget {
			affordable = append(affordable, m)
		}
	}
	if len(affordable) == 0 {
		return model.Machine{}, false
	}
	last := len(affordable) - 1
	switch kind {
	case Aggressive, Innovative:
		return affordable[last], true
	case Conservative:
		if last < 1 {
			return affordable[last], true
		}
		return affordable[1], true
	case Balanced:
		return affordable[len(affordable)/2], true
	default:
		return affordable[0], true
	}
}
