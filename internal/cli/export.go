package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/database"
)

var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export the bills selected in a run to CSV or JSON",
	Long: `Export the selected bills of a recorded run in selection order.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of selection objects

Without a run ID the latest run is exported.

Examples:
  billsample export --format=csv > sample.csv
  billsample export 3f2a9c1e --format=json > sample.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportFormat string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
}

func runExport(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no matching run found")
	}

	selections, err := db.ListSelections(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to list selections: %w", err)
	}

	switch exportFormat {
	case "csv":
		return exportCSV(os.Stdout, selections)
	case "json":
		return exportJSON(os.Stdout, selections)
	default:
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
}

func exportCSV(out io.Writer, selections []database.Selection) error {
	w := csv.NewWriter(out)

	header := []string{"position", "identifier", "title", "impact_level", "progression_score", "cosponsor_count"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range selections {
		record := []string{
			strconv.Itoa(s.Position + 1),
			s.Identifier,
			s.Title,
			s.Tier,
			strconv.Itoa(s.ProgressionScore),
			strconv.Itoa(s.CosponsorCount),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func exportJSON(out io.Writer, selections []database.Selection) error {
	if selections == nil {
		selections = []database.Selection{}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(selections); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
