package database

import (
	"database/sql"
	"time"
)

// Run is one recorded sampling run
type Run struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	BillsDir       string    `json:"bills_dir"`
	OutputDir      string    `json:"output_dir"`
	ReportPath     *string   `json:"report_path,omitempty"`
	RequestedTotal int       `json:"requested_total"`
	SelectedTotal  int       `json:"selected_total"`
	CorpusSize     int       `json:"corpus_size"`
	SkippedCount   int       `json:"skipped_count"`
	CopiedCount    int       `json:"copied_count"`
	Seed           int64     `json:"seed"`
	TopFraction    float64   `json:"top_fraction"`
	DryRun         bool      `json:"dry_run"`
}

// Shortfall returns how many bills fewer than requested were selected
func (r *Run) Shortfall() int {
	return r.RequestedTotal - r.SelectedTotal
}

// RunTier holds the sampling statistics of one impact tier in a run
type RunTier struct {
	RunID       string `json:"run_id"`
	Tier        string `json:"tier"`
	Available   int    `json:"available"`
	Quota       int    `json:"quota"`
	TopCount    int    `json:"top"`
	RandomCount int    `json:"random"`
	Selected    int    `json:"selected"`
}

// Selection is one selected bill, ordered by Position within its run
type Selection struct {
	RunID            string `json:"run_id"`
	Position         int    `json:"position"`
	Identifier       string `json:"identifier"`
	Title            string `json:"title"`
	Tier             string `json:"tier"`
	ProgressionScore int    `json:"progression_score"`
	CosponsorCount   int    `json:"cosponsor_count"`
}

// RunDetail is a run with its tiers and selections
type RunDetail struct {
	Run
	Tiers      []RunTier   `json:"tiers"`
	Selections []Selection `json:"selections"`
}

// ListOptions contains options for listing runs
type ListOptions struct {
	Since  *time.Time
	DryRun *bool
	Limit  int
	Offset int
}

// Stats represents aggregate statistics over recorded runs
type Stats struct {
	TotalRuns     int        `json:"total_runs"`
	DryRuns       int        `json:"dry_runs"`
	TotalSelected int        `json:"total_selected"`
	AvgSelected   float64    `json:"avg_selected"`
	DistinctBills int        `json:"distinct_bills"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
