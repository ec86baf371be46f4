package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const runColumns = `
	id, created_at, bills_dir, output_dir, report_path, requested_total,
	selected_total, corpus_size, skipped_count, copied_count, seed,
	top_fraction, dry_run`

// CreateRun records a run with its tiers and selections in one transaction
func (db *DB) CreateRun(ctx context.Context, r *Run, tiers []RunTier, selections []Selection) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (`+runColumns+`
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.ID, r.CreatedAt, r.BillsDir, r.OutputDir, NullString(r.ReportPath),
			r.RequestedTotal, r.SelectedTotal, r.CorpusSize, r.SkippedCount,
			r.CopiedCount, r.Seed, r.TopFraction, r.DryRun,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i := range tiers {
			tiers[i].RunID = r.ID
			t := tiers[i]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO run_tiers (run_id, tier, available, quota, top_count, random_count, selected)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, t.RunID, t.Tier, t.Available, t.Quota, t.TopCount, t.RandomCount, t.Selected); err != nil {
				return fmt.Errorf("failed to insert tier %s: %w", t.Tier, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_selections (
				run_id, position, identifier, title, tier, progression_score, cosponsor_count
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range selections {
			selections[i].RunID = r.ID
			selections[i].Position = i
			s := selections[i]
			if _, err := stmt.ExecContext(ctx,
				s.RunID, s.Position, s.Identifier, s.Title, s.Tier, s.ProgressionScore, s.CosponsorCount,
			); err != nil {
				return fmt.Errorf("failed to insert selection %s: %w", s.Identifier, err)
			}
		}

		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	r := &Run{}
	var reportPath sql.NullString
	if err := row.Scan(
		&r.ID, &r.CreatedAt, &r.BillsDir, &r.OutputDir, &reportPath, &r.RequestedTotal,
		&r.SelectedTotal, &r.CorpusSize, &r.SkippedCount, &r.CopiedCount, &r.Seed,
		&r.TopFraction, &r.DryRun,
	); err != nil {
		return nil, err
	}
	r.ReportPath = StringPtr(reportPath)
	return r, nil
}

// GetRun retrieves a run by ID, or nil when it does not exist
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindRun resolves a full run ID or a unique ID prefix. It returns nil when
// nothing matches and an error when the prefix is ambiguous.
func (db *DB) FindRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	r, err := db.GetRun(ctx, idOrPrefix)
	if err != nil || r != nil {
		return r, err
	}

	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? LIMIT 2`, idOrPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", idOrPrefix)
	}
}

// GetLatestRun retrieves the most recent run, or nil when none exist
func (db *DB) GetLatestRun(ctx context.Context) (*Run, error) {
	runs, err := db.ListRuns(ctx, ListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// GetRunDetail retrieves a run with its tiers and selections
func (db *DB) GetRunDetail(ctx context.Context, id string) (*RunDetail, error) {
	r, err := db.GetRun(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}

	tiers, err := db.ListRunTiers(ctx, id)
	if err != nil {
		return nil, err
	}
	selections, err := db.ListSelections(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: *r, Tiers: tiers, Selections: selections}, nil
}

// ListRuns retrieves runs, newest first
func (db *DB) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	args := []interface{}{}

	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.DryRun != nil {
		query += " AND dry_run = ?"
		args = append(args, *opts.DryRun)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

// ListRunTiers retrieves the tier statistics of a run in tier order
func (db *DB) ListRunTiers(ctx context.Context, runID string) ([]RunTier, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, tier, available, quota, top_count, random_count, selected
		FROM run_tiers WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []RunTier
	for rows.Next() {
		t := RunTier{}
		if err := rows.Scan(&t.RunID, &t.Tier, &t.Available, &t.Quota, &t.TopCount, &t.RandomCount, &t.Selected); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}

	return tiers, rows.Err()
}

// ListSelections retrieves the selected bills of a run in selection order
func (db *DB) ListSelections(ctx context.Context, runID string) ([]Selection, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, position, identifier, title, tier, progression_score, cosponsor_count
		FROM run_selections WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []Selection
	for rows.Next() {
		s := Selection{}
		if err := rows.Scan(
			&s.RunID, &s.Position, &s.Identifier, &s.Title, &s.Tier, &s.ProgressionScore, &s.CosponsorCount,
		); err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}

	return selections, rows.Err()
}

// DeleteRun deletes a run together with its tiers and selections
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetStats retrieves aggregate statistics
func (db *DB) GetStats(ctx context.Context, since *time.Time) (*Stats, error) {
	stats := &Stats{}

	whereClause := ""
	args := []interface{}{}
	if since != nil {
		whereClause = "WHERE created_at >= ?"
		args = append(args, *since)
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN dry_run THEN 1 ELSE 0 END), 0) as dry_runs,
			COALESCE(SUM(selected_total), 0) as selected,
			COALESCE(AVG(selected_total), 0) as avg_selected
		FROM runs %s
	`, whereClause)

	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalRuns, &stats.DryRuns, &stats.TotalSelected, &stats.AvgSelected,
	); err != nil {
		return nil, err
	}

	distinctQuery := `
		SELECT COUNT(DISTINCT s.identifier)
		FROM run_selections s JOIN runs r ON r.id = s.run_id
	`
	if since != nil {
		distinctQuery += " WHERE r.created_at >= ?"
	}
	if err := db.QueryRowContext(ctx, distinctQuery, args...).Scan(&stats.DistinctBills); err != nil {
		return nil, err
	}

	latest, err := db.GetLatestRun(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		stats.LastRunAt = &latest.CreatedAt
	}

	return stats, nil
}
