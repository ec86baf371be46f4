package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/output"
	"github.com/vijay-prabhu/billsample/internal/pipeline"
	"github.com/vijay-prabhu/billsample/internal/progress"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify and score the whole corpus",
	Long: `Analyze reads every bill in the corpus, classifies it into an impact
tier and scores its legislative progression, then prints per-tier counts
and the progression stage distribution. Nothing is copied or moved.

Examples:
  billsample analyze
  billsample analyze -o json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b := pipeline.New(nil, impact.New(cfg.Keywords), cfg, slog.Default())

	terminal := NewTerminal()
	var cb progress.Callback
	if outputFmt != "json" {
		cb = terminal.ProgressPrinter()
	}

	corpus, err := b.Analyze(ctx, cb)
	terminal.ClearLine()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outputFmt != "json" && !terminal.IsTerminal {
		fmt.Println()
	}
	return output.Output(outputFmt, corpus.Summary())
}
