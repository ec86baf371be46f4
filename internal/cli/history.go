package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sampling runs",
	Long: `List sampling runs recorded in the local ledger, newest first.

Examples:
  billsample history                 # List recent runs
  billsample history --since=7d      # Runs from the last 7 days
  billsample history --dry-run=false # Only runs that copied files
  billsample history -o json         # Output as JSON`,
	RunE: runHistory,
}

var (
	historySince  string
	historyDryRun bool
	historyLimit  int
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historySince, "since", "", "Filter by time (e.g., 7d, 2w, 1m)")
	historyCmd.Flags().BoolVar(&historyDryRun, "dry-run", false, "Filter by dry-run status")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of results")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Build query options
	opts := database.ListOptions{
		Limit: historyLimit,
	}

	if cmd.Flags().Changed("dry-run") {
		opts.DryRun = &historyDryRun
	}

	if historySince != "" {
		since, err := parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-since)
		opts.Since = &sinceTime
	}

	runs, err := db.ListRuns(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if runs == nil {
		runs = []database.Run{}
	}

	return output.Output(outputFmt, runs)
}

// parseDuration parses a human-readable duration like "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use d, w, or m)", unit)
	}
}
