package analysis

import (
	"sort"

	"market-sim/internal/simulation"
)

type RankedStanding struct {
	Rank int `json:"rank"`
	Standing
}

// GroupByFirm splits a ledger into firm-keyed slices, keeping round order.
func GroupByFirm(ledger []simulation.LedgerRow) map[string][]simulation.LedgerRow {
	out := map[string][]simulation.LedgerRow{}
	for _, r := range ledger {
		out[r.FirmID] = append(out[r.FirmID], r)
	}
	return out
}

// RankByProfit computes standings per firm and sorts them by cumulative profit, then
// final capital, both descending, then firm ID.
func RankByProfit(byFirm map[string][]simulation.LedgerRow) []RankedStanding {
	out := make([]RankedStanding, 0, len(byFirm))
	for _, rows := range byFirm {
		out = append(out, RankedStanding{Standing: ComputeStanding(rows)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CumulativeProfit != b.CumulativeProfit {
			return a.CumulativeProfit > b.CumulativeProfit
		}
		if a.FinalCapital != b.FinalCapital {
			return a.FinalCapital > b.FinalCapital
		}
		return a.FirmID < b.FirmID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank is RankByProfit over a whole simulation result.
func Rank(res *simulation.Result) []RankedStanding {
	if res == nil {
		return []RankedStanding{}
	}
	return RankByProfit(GroupByFirm(res.Ledger))
}
