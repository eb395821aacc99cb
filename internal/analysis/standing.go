package analysis

import (
	"math"
	"sort"

	"market-sim/internal/simulation"
)

// Standing is a firm-level summary of a simulation you can use for ranking.
// Money figures come straight from the ledger and are already rounded to cents.
type Standing struct {
	FirmID   string `json:"firm_id"`
	FirmName string `json:"firm_name,omitempty"`
	Strategy string `json:"strategy"`

	Rounds int `json:"rounds"`
	// Replaced counts rounds the firm sat out because its decision was invalid.
	Replaced int `json:"replaced"`

	UnitsSold        float64 `json:"units_sold"`
	Revenue          float64 `json:"revenue"`
	CumulativeProfit float64 `json:"cumulative_profit"`
	FinalCapital     float64 `json:"final_capital"`

	MeanShare float64 `json:"mean_share"`
	MinShare  float64 `json:"min_share"`
	MaxShare  float64 `json:"max_share"`

	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`
}

// ComputeStanding summarises one firm's ledger rows, which must be in round order.
func ComputeStanding(rows []simulation.LedgerRow) Standing {
	s := Standing{}
	if len(rows) == 0 {
		return s
	}
	last := rows[len(rows)-1]
	s.FirmID = last.FirmID
	s.FirmName = last.FirmName
	s.Strategy = last.Strategy
	s.Rounds = len(rows)
	s.CumulativeProfit = last.CumulativeProfit
	s.FinalCapital = last.Capital

	shareSum := 0.0
	minShare := math.Inf(1)
	maxShare := math.Inf(-1)
	prices := make([]float64, 0, len(rows))
	priceSum := 0.0
	for _, r := range rows {
		if r.Replaced {
			s.Replaced++
		}
		s.UnitsSold += r.UnitsSold
		s.Revenue += r.Revenue

		shareSum += r.MarketShare
		minShare = math.Min(minShare, r.MarketShare)
		maxShare = math.Max(maxShare, r.MarketShare)

		prices = append(prices, r.Price)
		priceSum += r.Price
	}
	sort.Float64s(prices)

	s.MeanShare = shareSum / float64(len(rows))
	s.MinShare = minShare
	s.MaxShare = maxShare
	s.MeanPrice = priceSum / float64(len(prices))
	s.P05Price = percentileSorted(prices, 0.05)
	s.P95Price = percentileSorted(prices, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
