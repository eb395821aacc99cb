package main

import (
	"fmt"
	"strings"

	"market-sim/internal/analysis"
	"market-sim/internal/market"
	"market-sim/internal/model"
	"market-sim/internal/simulation"
	"market-sim/internal/strategy"

	"github.com/dustin/go-humanize"
)

func formatMoney(x float64) string {
	return humanize.CommafWithDigits(x, 2)
}

func formatUnits(x float64) string {
	return humanize.Comma(int64(x))
}

func printMarket(rounds []simulation.RoundSummary) {
	fmt.Println("Market")
	fmt.Println("------")
	fmt.Printf("%-6s %10s %10s %10s %10s %8s  %s\n", "round", "demand", "sold", "unmet", "avg price", "elast", "event")
	for _, r := range rounds {
		event := r.EventLabel
		if r.Boosted && event == "" {
			event = "demand boost"
		}
		fmt.Printf("%-6d %10s %10s %10s %10s %8.3f  %s\n",
			r.Round,
			humanize.Comma(int64(r.TotalDemand)),
			humanize.Comma(int64(r.TotalSold)),
			humanize.Comma(int64(r.Unmet)),
			formatMoney(r.AveragePrice),
			r.ElasticityMultiplier,
			event,
		)
	}
}

func printStandings(ranked []analysis.RankedStanding) {
	fmt.Println("Standings")
	fmt.Println("---------")
	fmt.Printf("%-4s %-12s %-13s %14s %14s %10s %8s %9s\n", "rank", "firm", "strategy", "profit", "capital", "sold", "share", "replaced")
	for _, r := range ranked {
		fmt.Printf("%-4d %-12s %-13s %14s %14s %10s %7.1f%% %9d\n",
			r.Rank,
			r.FirmID,
			r.Strategy,
			formatMoney(r.CumulativeProfit),
			formatMoney(r.FinalCapital),
			formatUnits(r.UnitsSold),
			r.MeanShare*100,
			r.Replaced,
		)
	}
}

func printClearing(c *market.Clearing) {
	fmt.Printf("Round %d: demand %s (base %s, elasticity %.3f), sold %s, unmet %s\n",
		c.Round,
		humanize.Comma(int64(c.Demand.TotalDemand)),
		formatUnits(c.Demand.BaseDemand),
		c.Demand.ElasticityMultiplier,
		humanize.Comma(int64(c.Allocation.TotalSold())),
		humanize.Comma(int64(c.Allocation.Unmet)),
	)
	if c.Actions != nil && c.Actions.EventLabel != "" {
		fmt.Printf("Event: %s\n", c.Actions.EventLabel)
	}
	fmt.Println()

	fmt.Printf("%-12s %8s %8s %7s %12s %12s %12s %14s  %s\n", "firm", "price", "sold", "share", "revenue", "costs", "profit", "capital", "outcome")
	for _, fr := range c.Results {
		r := fr.Result
		fmt.Printf("%-12s %8s %8s %6.1f%% %12s %12s %12s %14s  %s\n",
			fr.FirmID,
			formatMoney(r.Price),
			formatUnits(r.UnitsSold),
			r.MarketShare*100,
			formatMoney(r.Revenue),
			formatMoney(r.TotalCosts),
			formatMoney(r.Profit),
			formatMoney(fr.NewCapital),
			r.Outcome,
		)
	}
}

func printMachines(machines []model.Machine) {
	fmt.Println("Machines")
	fmt.Println("--------")
	fmt.Printf("%-22s %10s %9s %10s\n", "name", "cost", "capacity", "unit cost")
	for _, m := range machines {
		fmt.Printf("%-22s %10s %9s %10s\n", m.Name, formatMoney(m.Cost), formatUnits(m.Capacity), formatMoney(m.VariableCostPerUnit))
	}
}

func printStrategies(infos []strategy.Info) {
	fmt.Println("Strategies")
	fmt.Println("----------")
	for _, s := range infos {
		fmt.Printf("  %-13s %s\n", s.Name, s.Description)
		for _, p := range s.Parameters {
			fmt.Printf("    %-20s %-6s default=%v\n", p.Name, p.Type, p.Default)
		}
	}
}

func printPreset(name, source string, p model.ParameterSet) {
	flags := []string{}
	if p.RndEnabled {
		flags = append(flags, "rnd")
	}
	if p.DepreciationEnabled {
		flags = append(flags, "depreciation")
	}
	fmt.Printf("  %-10s capital=%s saturation=%.2f elasticity=%.2f [%s]  (%s)\n",
		name,
		formatMoney(p.StartingCapital),
		p.MarketSaturationFactor,
		p.PriceElasticityFactor,
		strings.Join(flags, ","),
		source,
	)
}
