package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/output"
	"github.com/vijay-prabhu/billsample/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Display a sample summary report",
	Long: `Display a summary report written by 'billsample sample'.

The path may point to the report file or to the sample directory holding
it. Without an argument the configured output directory is used.

Examples:
  billsample report
  billsample report ./data/bills_sample
  billsample report ./data/bills_sample/sample_dataset_report.json -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.DestinationDir()
	if len(args) == 1 {
		path = args[0]
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, cfg.Report.FileName)
	}

	r, err := report.Read(path)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	return output.Output(outputFmt, r)
}
