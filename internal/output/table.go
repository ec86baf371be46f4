package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/billsample/internal/analyzer"
	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/pipeline"
	"github.com/vijay-prabhu/billsample/internal/progression"
	"github.com/vijay-prabhu/billsample/internal/report"
	"github.com/vijay-prabhu/billsample/internal/sampler"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *report.Report:
		return reportTable(w, v)
	case *analyzer.Summary:
		return summaryTable(w, v)
	case *sampler.Result:
		return sampleTable(w, v)
	case *pipeline.Result:
		return pipelineResult(w, v)
	case []database.Run:
		return runsTable(w, v)
	case *database.RunDetail:
		return runDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case *impact.Explanation:
		return explanationDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func newTable(w io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	return table
}

func reportTable(w io.Writer, r *report.Report) error {
	fmt.Fprintf(w, "Total bills:  %d (requested %d)\n", r.TotalBills, r.RequestedTotal)
	fmt.Fprintf(w, "Created:      %s\n", r.CreationDate)
	fmt.Fprintln(w)

	table := newTable(w, "IMPACT", "BILLS")
	for _, t := range bill.Tiers() {
		if err := table.Append(string(t), strconv.Itoa(r.ImpactDistribution[t])); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if len(r.BillTypes) > 0 {
		types := make([]string, 0, len(r.BillTypes))
		for bt := range r.BillTypes {
			types = append(types, bt)
		}
		sort.Strings(types)

		table = newTable(w, "BILL TYPE", "BILLS")
		for _, bt := range types {
			if err := table.Append(bt, strconv.Itoa(r.BillTypes[bt])); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	table = newTable(w, "PROGRESSION", "BILLS")
	for _, s := range progression.Stages() {
		if err := table.Append(string(s), strconv.Itoa(r.ProgressionStats[s])); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.SampleBills) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	table = newTable(w, "IDENTIFIER", "TITLE", "IMPACT", "SCORE", "COSPONSORS")
	for _, b := range r.SampleBills {
		if err := table.Append(
			b.Identifier,
			truncate(b.Title, 50),
			string(b.ImpactLevel),
			strconv.Itoa(b.ProgressionScore),
			strconv.Itoa(b.CosponsorCount),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func summaryTable(w io.Writer, s *analyzer.Summary) error {
	fmt.Fprintln(w, "Corpus Summary")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Analyzed bills:         %d\n", s.Analyzed)
	fmt.Fprintf(w, "Skipped bills:          %d\n", s.Skipped)
	fmt.Fprintf(w, "Average score:          %.1f\n", s.AvgScore)
	fmt.Fprintf(w, "Highest score:          %d\n", s.MaxScore)
	fmt.Fprintln(w)

	table := newTable(w, "IMPACT", "BILLS")
	for _, tc := range s.Tiers {
		if err := table.Append(string(tc.Tier), strconv.Itoa(tc.Count)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	table = newTable(w, "PROGRESSION", "BILLS")
	for _, st := range progression.Stages() {
		if err := table.Append(string(st), strconv.Itoa(s.Stages[st])); err != nil {
			return err
		}
	}
	return table.Render()
}

func sampleTable(w io.Writer, r *sampler.Result) error {
	table := newTable(w, "TIER", "AVAILABLE", "QUOTA", "TOP", "RANDOM", "SELECTED")
	for _, t := range r.Tiers {
		if err := table.Append(
			string(t.Tier),
			strconv.Itoa(t.Available),
			strconv.Itoa(t.Quota),
			strconv.Itoa(t.TopCount),
			strconv.Itoa(t.RandomCount),
			strconv.Itoa(t.Selected),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Selected %d of %d requested bills\n", len(r.Selection), r.Requested)
	return nil
}

func pipelineResult(w io.Writer, r *pipeline.Result) error {
	if r.DryRun {
		fmt.Fprintln(w, "Dry run: nothing was copied")
	}
	fmt.Fprintf(w, "Source:      %s\n", r.SourceDir)
	if !r.DryRun {
		fmt.Fprintf(w, "Destination: %s\n", r.DestDir)
	}
	if r.ReportPath != "" {
		fmt.Fprintf(w, "Report:      %s\n", r.ReportPath)
	}
	fmt.Fprintf(w, "Seed:        %d\n", r.Seed)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run:         %s\n", r.RunID)
	}
	fmt.Fprintln(w)

	if r.Summary != nil {
		if err := summaryTable(w, r.Summary); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if r.Sample != nil {
		if err := sampleTable(w, r.Sample); err != nil {
			return err
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	return nil
}

func runsTable(w io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	table := newTable(w, "ID", "CREATED", "SELECTED", "REQUESTED", "CORPUS", "SEED", "MODE")
	for _, r := range runs {
		mode := "copy"
		if r.DryRun {
			mode = "dry-run"
		}
		if err := table.Append(
			shortID(r.ID),
			r.CreatedAt.Format("Jan 02, 2006 15:04"),
			strconv.Itoa(r.SelectedTotal),
			strconv.Itoa(r.RequestedTotal),
			strconv.Itoa(r.CorpusSize),
			strconv.FormatInt(r.Seed, 10),
			mode,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func runDetail(w io.Writer, d *database.RunDetail) error {
	fmt.Fprintf(w, "Run:         %s\n", d.ID)
	fmt.Fprintf(w, "Created:     %s\n", d.CreatedAt.Format("Jan 02, 2006 15:04"))
	fmt.Fprintf(w, "Source:      %s\n", d.BillsDir)
	if d.DryRun {
		fmt.Fprintln(w, "Mode:        dry run")
	} else {
		fmt.Fprintf(w, "Destination: %s\n", d.OutputDir)
		fmt.Fprintf(w, "Copied:      %d\n", d.CopiedCount)
	}
	if d.ReportPath != nil {
		fmt.Fprintf(w, "Report:      %s\n", *d.ReportPath)
	}
	fmt.Fprintf(w, "Seed:        %d\n", d.Seed)
	fmt.Fprintf(w, "Top share:   %.2f\n", d.TopFraction)
	fmt.Fprintf(w, "Corpus:      %d analyzed, %d skipped\n", d.CorpusSize, d.SkippedCount)
	fmt.Fprintf(w, "Selected:    %d of %d requested\n", d.SelectedTotal, d.RequestedTotal)
	fmt.Fprintln(w)

	if len(d.Tiers) > 0 {
		table := newTable(w, "TIER", "AVAILABLE", "QUOTA", "TOP", "RANDOM", "SELECTED")
		for _, t := range d.Tiers {
			if err := table.Append(
				t.Tier,
				strconv.Itoa(t.Available),
				strconv.Itoa(t.Quota),
				strconv.Itoa(t.TopCount),
				strconv.Itoa(t.RandomCount),
				strconv.Itoa(t.Selected),
			); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(d.Selections) == 0 {
		return nil
	}
	table := newTable(w, "#", "IDENTIFIER", "TITLE", "IMPACT", "SCORE", "COSPONSORS")
	for _, s := range d.Selections {
		if err := table.Append(
			strconv.Itoa(s.Position+1),
			s.Identifier,
			truncate(s.Title, 50),
			s.Tier,
			strconv.Itoa(s.ProgressionScore),
			strconv.Itoa(s.CosponsorCount),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Sampling Run Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total runs:             %d\n", s.TotalRuns)
	fmt.Fprintf(w, "Dry runs:               %d\n", s.DryRuns)
	fmt.Fprintf(w, "Bills selected:         %d\n", s.TotalSelected)
	fmt.Fprintf(w, "Distinct bills:         %d\n", s.DistinctBills)

	if s.AvgSelected > 0 {
		fmt.Fprintf(w, "Avg selected per run:   %.1f\n", s.AvgSelected)
	}
	if s.LastRunAt != nil {
		fmt.Fprintf(w, "Last run:               %s\n", s.LastRunAt.Format("Jan 02, 2006 15:04"))
	}

	return nil
}

func explanationDetail(w io.Writer, e *impact.Explanation) error {
	fmt.Fprintf(w, "Impact:      %s\n", e.Tier)
	fmt.Fprintf(w, "Rule:        %s\n", e.Reason)
	if len(e.Administrative) > 0 {
		fmt.Fprintf(w, "Admin:       %s\n", strings.Join(e.Administrative, ", "))
	}
	fmt.Fprintf(w, "High:        %s\n", joinOrDash(e.High))
	fmt.Fprintf(w, "Medium:      %s\n", joinOrDash(e.Medium))
	fmt.Fprintf(w, "Low:         %s\n", joinOrDash(e.Low))
	return nil
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
