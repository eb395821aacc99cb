package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"market-sim/internal/analysis"
	"market-sim/internal/config"
	"market-sim/internal/data"
	"market-sim/internal/market"
	"market-sim/internal/model"
	"market-sim/internal/simulation"
	"market-sim/internal/strategy"
)

// simulate loads, validates and runs a config file.
func simulate(cfgPath string) (*simulation.Result, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	params := cfg.ModelParams()
	firms, err := cfg.BuildParticipants(params)
	if err != nil {
		return nil, err
	}
	return simulation.New().Run(params, firms, cfg.Rounds, cfg.ModelActions())
}

func runSimulate(cfgPath, outPath, jsonPath string) error {
	res, err := simulate(cfgPath)
	if err != nil {
		return err
	}

	printMarket(res.Market)
	fmt.Println()
	printStandings(analysis.Rank(res))

	if outPath != "" {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := simulation.WriteLedgerCSV(outPath, res.Ledger); err != nil {
			return err
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Ledger), outPath)
	}
	if jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(jsonPath), 0o755); err != nil {
			return err
		}
		if err := data.SaveResultJSON(res, jsonPath); err != nil {
			return err
		}
		fmt.Printf("Saved result to %s\n", jsonPath)
	}
	return nil
}

func runClear(roundPath string) error {
	snap, err := data.LoadRoundJSON(roundPath)
	if err != nil {
		return fmt.Errorf("loading round: %w", err)
	}
	if err := snap.Parameters.Validate(); err != nil {
		return fmt.Errorf("parameters invalid: %w", err)
	}

	cleared, err := market.Clear(snap.Parameters, snap.Round, snap.Firms, snap.Actions)
	if err != nil {
		return err
	}
	printClearing(cleared)
	return nil
}

func runValidate(roundPath string) error {
	snap, err := data.LoadRoundJSON(roundPath)
	if err != nil {
		return fmt.Errorf("loading round: %w", err)
	}

	invalid := 0
	for _, in := range snap.Firms {
		v := market.ValidateDecisionWithActions(in.Decision, in.State, snap.Parameters, snap.Round, snap.Actions)
		if v.Valid {
			fmt.Printf("%-12s OK\n", in.FirmID)
			continue
		}
		invalid++
		fmt.Printf("%-12s INVALID (%d)\n", in.FirmID, len(v.Violations))
		for _, msg := range v.Violations {
			fmt.Printf("  * %s\n", msg)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d decisions are invalid", invalid, len(snap.Firms))
	}
	return nil
}

func runRank(cfgPath, resultPath string) error {
	var res *simulation.Result
	var err error
	switch {
	case resultPath != "":
		res, err = data.LoadResultJSON(resultPath)
	case cfgPath != "":
		res, err = simulate(cfgPath)
	default:
		return errors.New("one of --config or --result is required")
	}
	if err != nil {
		return err
	}
	printStandings(analysis.Rank(res))
	return nil
}

func runCatalog(presetDir string) error {
	if presetDir == "" {
		presetDir = data.GetDefaultPresetDir()
	}

	printMachines(model.Catalog())
	fmt.Println()
	printStrategies(strategy.Describe())
	fmt.Println()

	fmt.Println("Presets")
	fmt.Println("-------")
	for _, name := range []string{"easy", "medium", "hard"} {
		p, err := model.Preset(name)
		if err != nil {
			return err
		}
		printPreset(name, "built-in", p)
	}
	files, err := data.ListPresetFiles(presetDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		loaded, err := config.LoadParametersFile(f.Path)
		if err != nil {
			fmt.Printf("  %-10s %s: %v\n", f.Name, f.Path, err)
			continue
		}
		printPreset(f.Name, f.Path, loaded.ToModelParams())
	}
	return nil
}
