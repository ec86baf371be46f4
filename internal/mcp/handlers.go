package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/progression"
)

var errNoLedger = errors.New("run ledger is not available")

func (s *Server) registerHandlers() {
	s.handlers["classify_bill"] = s.handleClassifyBill
	s.handlers["score_actions"] = s.handleScoreActions
	s.handlers["list_runs"] = s.handleListRuns
	s.handlers["get_run"] = s.handleGetRun
	s.handlers["get_stats"] = s.handleGetStats
}

type classifyBillParams struct {
	Title       string   `json:"title"`
	OtherTitles []string `json:"other_titles"`
}

func (s *Server) handleClassifyBill(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p classifyBillParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if strings.TrimSpace(p.Title) == "" && len(p.OtherTitles) == 0 {
		return nil, fmt.Errorf("title is required")
	}

	return s.classifier.Explain(p.Title, p.OtherTitles), nil
}

type scoreActionsParams struct {
	Actions []bill.Action `json:"actions"`
}

type scoreActionsResult struct {
	Score     int                       `json:"score"`
	Stage     progression.Stage         `json:"stage"`
	Breakdown []progression.ActionScore `json:"breakdown"`
}

func (s *Server) handleScoreActions(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreActionsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	score := progression.Score(p.Actions)
	return scoreActionsResult{
		Score:     score,
		Stage:     progression.StageFor(score),
		Breakdown: progression.Breakdown(p.Actions),
	}, nil
}

type listRunsParams struct {
	SinceDays int   `json:"since_days"`
	DryRun    *bool `json:"dry_run"`
	Limit     int   `json:"limit"`
}

func (s *Server) handleListRuns(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, errNoLedger
	}

	var p listRunsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	opts := database.ListOptions{DryRun: p.DryRun}

	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	if p.Limit > 0 {
		opts.Limit = p.Limit
	} else {
		opts.Limit = 20
	}

	runs, err := s.db.ListRuns(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if runs == nil {
		runs = []database.Run{}
	}

	return runs, nil
}

type getRunParams struct {
	ID string `json:"id"`
}

func (s *Server) handleGetRun(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, errNoLedger
	}

	var p getRunParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	run, err := s.resolveRun(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	detail, err := s.db.GetRunDetail(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return detail, nil
}

// resolveRun finds a run by ID or prefix, or the latest run when id is empty
func (s *Server) resolveRun(ctx context.Context, id string) (*database.Run, error) {
	var (
		run *database.Run
		err error
	)
	if id == "" {
		run, err = s.db.GetLatestRun(ctx)
	} else {
		run, err = s.db.FindRun(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if run == nil {
		if id == "" {
			return nil, fmt.Errorf("no runs recorded yet")
		}
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, errNoLedger
	}

	var p getStatsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	var since *time.Time
	if p.SinceDays > 0 {
		t := time.Now().AddDate(0, 0, -p.SinceDays)
		since = &t
	}

	stats, err := s.db.GetStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return stats, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case resourceKeywords:
		return s.getResourceKeywords()
	case resourceLatestRun:
		return s.getResourceLatestRun(ctx)
	case resourceSummary:
		return s.getResourceSummary(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceKeywords() (string, error) {
	kw := s.classifier.Keywords()

	var b strings.Builder
	b.WriteString("Impact Keywords\n===============\n")
	sections := []struct {
		name  string
		words []string
	}{
		{"ADMINISTRATIVE (always low)", kw.Administrative},
		{"HIGH", kw.High},
		{"MEDIUM", kw.Medium},
		{"LOW", kw.Low},
	}
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s (%d):\n", sec.name, len(sec.words))
		for _, w := range sec.words {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String(), nil
}

func (s *Server) getResourceLatestRun(ctx context.Context) (string, error) {
	result := "Latest Sampling Run\n===================\n\n"

	if s.db == nil {
		return result + "Run ledger is not available.\n", nil
	}

	run, err := s.db.GetLatestRun(ctx)
	if err != nil {
		return "", err
	}
	if run == nil {
		result += "No runs yet. Run 'billsample sample' to draw a sample.\n"
		return result, nil
	}

	tiers, err := s.db.ListRunTiers(ctx, run.ID)
	if err != nil {
		return "", err
	}

	mode := "copied to " + run.OutputDir
	if run.DryRun {
		mode = "dry run"
	}
	result += fmt.Sprintf("Run:      %s\nCreated:  %s\nSelected: %d of %d requested (%s)\nCorpus:   %d bills, %d skipped\nSeed:     %d\n\n",
		run.ID, run.CreatedAt.Format(time.RFC3339), run.SelectedTotal, run.RequestedTotal, mode,
		run.CorpusSize, run.SkippedCount, run.Seed)

	for _, t := range tiers {
		result += fmt.Sprintf("- %s: %d selected (quota %d, %d available, %d top + %d random)\n",
			t.Tier, t.Selected, t.Quota, t.Available, t.TopCount, t.RandomCount)
	}

	return result, nil
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	if s.db == nil {
		return "Run ledger is not available.\n", nil
	}

	stats, err := s.db.GetStats(ctx, nil)
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf(`Sampling Summary
================
Total Runs:      %d
  - Dry runs:    %d
Bills Selected:  %d
Distinct Bills:  %d
Avg Per Run:     %.1f
`, stats.TotalRuns, stats.DryRuns, stats.TotalSelected, stats.DistinctBills, stats.AvgSelected)

	return summary, nil
}
