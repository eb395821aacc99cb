package main

import (
	"flag"
	"fmt"
	"log"

	"market-sim/internal/config"
	"market-sim/internal/model"
	"market-sim/internal/simulation"
	"market-sim/internal/strategy"
)

// Demo:
// - Two firms with one SmartMini each
// - Firm a undercuts the reference price, firm b sells above it
// - Run a few rounds and print each firm's ledger
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional; replaces the built-in firms)")
	rounds := flag.Int("rounds", 4, "Number of rounds to simulate")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	params := model.DefaultParameters()
	params.MarketSaturationFactor = 0.8

	var firms []simulation.Participant
	var actions []model.PeriodActions
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		params = cfg.ModelParams()
		firms, err = cfg.BuildParticipants(params)
		if err != nil {
			log.Fatal(err)
		}
		actions = cfg.ModelActions()
		if cfg.Rounds < *rounds {
			*rounds = cfg.Rounds
		}
	} else {
		for _, f := range []struct {
			id    string
			price float64
		}{{"a", 40}, {"b", 60}} {
			strat, err := strategy.New("fixed", map[string]any{"price": f.price})
			if err != nil {
				log.Fatal(err)
			}
			st := model.NewFirmState(params)
			if err := st.Equip(model.MachineSmartMini); err != nil {
				log.Fatal(err)
			}
			firms = append(firms, simulation.Participant{ID: f.id, State: st, Strategy: strat})
		}
	}

	result, err := simulation.New().Run(params, firms, *rounds, actions)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Simulated %d rounds with %d firms\n\n", result.Rounds, len(result.Firms))
	for _, r := range result.Ledger {
		fmt.Printf(
			"round %d  %-4s price=%6.2f  offered=%5.0f  sold=%5.0f  share=%5.1f%%  profit=%10.2f  capital=%10.2f  %s\n",
			r.Round,
			r.FirmID,
			r.Price,
			r.Production+r.SellFromInventory,
			r.UnitsSold,
			r.MarketShare*100,
			r.Profit,
			r.Capital,
			r.Outcome,
		)
	}

	if *outCSV != "" {
		if err := simulation.WriteLedgerCSV(*outCSV, result.Ledger); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Println()
	for _, f := range result.Firms {
		fmt.Printf("Done. %s: capital=%.2f  cumulative profit=%.2f\n", f.ID, f.State.Capital, f.State.CumulativeProfit)
	}
}
