package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/output"
	"github.com/vijay-prabhu/billsample/internal/pipeline"
	"github.com/vijay-prabhu/billsample/internal/sampler"
)

var (
	sampleTarget      int
	sampleSeed        int64
	sampleTopFraction float64
	sampleDryRun      bool
	sampleOut         string
	sampleNoRecord    bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a stratified sample and copy it to the output directory",
	Long: `Sample analyzes the corpus, draws a stratified sample across the impact
tiers, copies the selected bill directories and writes a summary report.

Each tier gets a quota of the target total. Within a tier, the top share
of the quota is taken from the highest progression scores and the rest is
drawn at random from the remaining bills. Tiers with fewer bills than
their quota contribute everything they have; the shortfall is not
redistributed.

Examples:
  billsample sample                       # Use configured settings
  billsample sample --dry-run             # Preview the sample without copying
  billsample sample --target=100 --seed=42
  billsample sample --out=./data/sample`,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().IntVar(&sampleTarget, "target", 0, "Total number of bills to select (default: from config)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "Random seed for a reproducible sample")
	sampleCmd.Flags().Float64Var(&sampleTopFraction, "top-fraction", 0, "Share of each tier quota taken from the top ranked bills")
	sampleCmd.Flags().BoolVar(&sampleDryRun, "dry-run", false, "Select and report without copying or moving files")
	sampleCmd.Flags().StringVar(&sampleOut, "out", "", "Output directory (default: from config)")
	sampleCmd.Flags().BoolVar(&sampleNoRecord, "no-record", false, "Do not record the run in the ledger")
}

func runSample(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		DryRun:      sampleDryRun,
		TargetTotal: sampleTarget,
		OutputDir:   sampleOut,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = &sampleSeed
	}
	if cmd.Flags().Changed("top-fraction") {
		opts.TopFraction = &sampleTopFraction
	}
	if cmd.Flags().Changed("target") && sampleTarget <= 0 {
		return fmt.Errorf("%w: target must be positive", sampler.ErrInvalidOptions)
	}

	var db *database.DB
	if !sampleNoRecord {
		db, err = openDB(cfg)
		if err != nil {
			// The sample itself does not depend on the ledger
			slog.Warn("run will not be recorded", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	b := pipeline.New(db, impact.New(cfg.Keywords), cfg, slog.Default())

	terminal := NewTerminal()
	if outputFmt != "json" {
		opts.Progress = terminal.ProgressPrinter()
	}

	result, err := b.Build(ctx, opts)
	terminal.ClearLine()
	if err != nil {
		if errors.Is(err, sampler.ErrInvalidOptions) {
			return err
		}
		return fmt.Errorf("sampling failed: %w", err)
	}

	if outputFmt != "json" && !terminal.IsTerminal {
		fmt.Println()
	}
	return output.Output(outputFmt, result)
}
