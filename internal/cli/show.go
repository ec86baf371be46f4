package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a sampling run",
	Long: `Show a recorded sampling run with its per-tier statistics and the
selected bills in selection order.

The run can be given by full ID or a unique ID prefix. Without an argument
the latest run is shown.

Examples:
  billsample show
  billsample show 3f2a9c1e
  billsample show 3f2a9c1e --delete`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var showDelete bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showDelete, "delete", false, "Delete the run from the ledger after showing it")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	var run *database.Run
	if len(args) == 0 {
		run, err = db.GetLatestRun(ctx)
	} else {
		run, err = db.FindRun(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if run == nil {
		if len(args) == 0 {
			return fmt.Errorf("no runs recorded yet")
		}
		return fmt.Errorf("run not found: %s", args[0])
	}

	detail, err := db.GetRunDetail(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	if err := output.Output(outputFmt, detail); err != nil {
		return err
	}

	if showDelete {
		if err := db.DeleteRun(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		if outputFmt != "json" {
			fmt.Printf("\nDeleted run %s\n", run.ID)
		}
	}

	return nil
}
