package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cli",
		Short:        "Run and inspect market simulations",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	var cfgPath, outPath, jsonPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a multi-round simulation from a YAML config",
		Example: "  cli simulate --config examples/config.yaml --out results/ledger.csv\n" +
			"  cli simulate --config examples/config.yaml --json results/run.json",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSimulate(cfgPath, outPath, jsonPath)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config")
	cmd.Flags().StringVarP(&outPath, "out", "o", "results/ledger.csv", "Output CSV path (empty to skip)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Optional path to save the full result as JSON")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func clearCmd() *cobra.Command {
	var roundPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear a single round from a JSON snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runClear(roundPath)
		},
	}

	cmd.Flags().StringVarP(&roundPath, "round", "r", "examples/round.json", "Path to round snapshot JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	var roundPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every decision in a round snapshot without clearing it",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(roundPath)
		},
	}

	cmd.Flags().StringVarP(&roundPath, "round", "r", "examples/round.json", "Path to round snapshot JSON")
	return cmd
}

func rankCmd() *cobra.Command {
	var cfgPath, resultPath string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank firms by cumulative profit",
		Long: "Rank firms by cumulative profit, final capital and firm id. The run is\n" +
			"either simulated from --config or read from a saved --result JSON.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRank(cfgPath, resultPath)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to YAML config")
	cmd.Flags().StringVar(&resultPath, "result", "", "Path to a result saved with simulate --json")
	cmd.MarkFlagsMutuallyExclusive("config", "result")
	return cmd
}

func catalogCmd() *cobra.Command {
	var presetDir string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List machines, strategies and parameter presets",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCatalog(presetDir)
		},
	}

	cmd.Flags().StringVar(&presetDir, "presets", "", "Preset directory (default $PRESET_DIR or ./examples/presets)")
	return cmd
}
