package market

import (
	"math"
	"sort"
)

const (
	// MinPrice is the floor prices are clamped to before weighting.
	MinPrice = 0.01

	minRedistributionPasses = 10
	maxHandoutPasses        = 10000
)

// Offer is one firm's position in the allocation: what it charges and how many
// units it can deliver.
type Offer struct {
	FirmID string
	Price  float64
	Supply int
	// MarketingBonus raises the firm's attractiveness: weight = (1/price) * (1 + bonus).
	MarketingBonus float64
}

// FirmAllocation is the allocation outcome for one offer.
type FirmAllocation struct {
	FirmID         string  `json:"firm_id"`
	Price          float64 `json:"price"`
	EffectivePrice float64 `json:"effective_price"`
	Weight         float64 `json:"weight"`
	Supply         int     `json:"supply"`
	Sold           int     `json:"sold"`
}

// Allocation maps demand onto offers. Firms is in the same order as the offers.
type Allocation struct {
	TotalDemand int              `json:"total_demand"`
	Firms       []FirmAllocation `json:"firms"`
	// Priority is the deterministic service order (indexes into Firms): weight
	// descending, then firm ID ascending.
	Priority []int `json:"priority"`
	Unmet    int   `json:"unmet"`
}

func (a Allocation) TotalSold() int {
	total := 0
	for _, f := range a.Firms {
		total += f.Sold
	}
	return total
}

// Allocate distributes totalDemand across offers in three phases:
//  1. each firm gets floor(weight share * demand), capped at its supply;
//  2. what is left is shared among firms with spare supply, proportionally to weight,
//     until a pass makes no progress;
//  3. the floor-rounding remainder is handed out one unit at a time in priority order.
//
// Firms with no supply are skipped in every phase. The result never exceeds a firm's
// supply, and never exceeds totalDemand in sum.
func Allocate(totalDemand int, offers []Offer) Allocation {
	out := Allocation{
		TotalDemand: totalDemand,
		Firms:       make([]FirmAllocation, len(offers)),
	}

	active := make([]int, 0, len(offers))
	for i, o := range offers {
		price := o.Price
		if math.IsNaN(price) || price < MinPrice {
			price = MinPrice
		}
		bonus := o.MarketingBonus
		if math.IsNaN(bonus) || bonus < 0 {
			bonus = 0
		}
		w := (1 / price) * (1 + bonus)
		supply := o.Supply
		if supply < 0 {
			supply = 0
		}
		out.Firms[i] = FirmAllocation{
			FirmID:         o.FirmID,
			Price:          o.Price,
			EffectivePrice: 1 / w,
			Weight:         w,
			Supply:         supply,
		}
		if supply > 0 {
			active = append(active, i)
		}
	}

	sort.SliceStable(active, func(a, b int) bool {
		fa, fb := out.Firms[active[a]], out.Firms[active[b]]
		if fa.Weight != fb.Weight {
			return fa.Weight > fb.Weight
		}
		return fa.FirmID < fb.FirmID
	})
	out.Priority = active

	remaining := totalDemand
	if remaining < 0 {
		remaining = 0
	}
	if remaining == 0 || len(active) == 0 {
		out.Unmet = remaining
		return out
	}

	// Phase 1: ideal shares.
	totalWeight := 0.0
	for _, i := range active {
		totalWeight += out.Firms[i].Weight
	}
	for _, i := range active {
		f := &out.Firms[i]
		target := floorUnits(f.Weight / totalWeight * float64(totalDemand))
		n := minInt(target, f.Supply, remaining)
		f.Sold = n
		remaining -= n
	}

	// Phase 2: proportional redistribution among firms with spare supply.
	passes := minRedistributionPasses
	if len(active)+1 > passes {
		passes = len(active) + 1
	}
	for pass := 0; pass < passes && remaining > 0; pass++ {
		open := make([]int, 0, len(active))
		openWeight := 0.0
		for _, i := range active {
			if out.Firms[i].Sold < out.Firms[i].Supply {
				open = append(open, i)
				openWeight += out.Firms[i].Weight
			}
		}
		if len(open) == 0 {
			break
		}
		pool := remaining
		moved := 0
		for _, i := range open {
			f := &out.Firms[i]
			target := floorUnits(f.Weight / openWeight * float64(pool))
			n := minInt(target, f.Supply-f.Sold, remaining)
			f.Sold += n
			remaining -= n
			moved += n
		}
		if moved == 0 {
			break
		}
	}

	// Phase 3: unit-by-unit hand-out.
	limit := 2 * remaining
	if limit > maxHandoutPasses {
		limit = maxHandoutPasses
	}
	for pass := 0; pass < limit && remaining > 0; pass++ {
		gave := false
		for _, i := range active {
			if remaining == 0 {
				break
			}
			f := &out.Firms[i]
			if f.Sold >= f.Supply {
				continue
			}
			f.Sold++
			remaining--
			gave = true
		}
		if !gave {
			break
		}
	}

	out.Unmet = remaining
	return out
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
