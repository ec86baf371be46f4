package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/config"
	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/progress"
	"github.com/vijay-prabhu/billsample/internal/report"
	"github.com/vijay-prabhu/billsample/internal/sampler"
)

type fixture struct {
	root   string
	cfg    *config.Config
	db     *database.DB
	logger *slog.Logger
}

func writeBill(t *testing.T, dir, name string, r bill.Record) {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name, "metadata.json"), data, 0644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	bills := filepath.Join(root, "bills")

	writeBill(t, bills, "HR-1", bill.Record{Identifier: "HR 1", Title: "Post Office Designation Act"})
	writeBill(t, bills, "HR-2", bill.Record{
		Identifier:   "HR 2",
		Title:        "Medicare Drug Pricing and Tax Relief Act",
		Actions:      []bill.Action{{Description: "introduced"}, {Description: "passed house"}},
		Sponsorships: []bill.Sponsorship{{Name: "A"}, {Name: "B"}},
	})
	writeBill(t, bills, "S-3", bill.Record{
		Identifier: "S 3",
		Title:      "Small Business Broadband Act",
		Actions:    []bill.Action{{Description: "referred"}},
	})
	writeBill(t, bills, "SRES-4", bill.Record{Identifier: "SRES 4", Title: "Armed Forces Commemorative Resolution"})
	// Directory without metadata is skipped
	require.NoError(t, os.MkdirAll(filepath.Join(bills, "HR-5"), 0755))

	cfg := config.Default()
	cfg.Corpus.BillsDir = bills
	cfg.Corpus.OutputDir = filepath.Join(root, "sample")
	cfg.Corpus.BackupDir = filepath.Join(root, "bills_full_dataset")
	cfg.Database.Path = filepath.Join(root, "ledger.db")
	cfg.Sampling.TargetTotal = 10
	seed := int64(7)
	cfg.Sampling.Seed = &seed
	require.NoError(t, cfg.Validate())

	db, err := database.Open(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &fixture{
		root:   root,
		cfg:    cfg,
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (f *fixture) builder() *Builder {
	b := New(f.db, impact.New(f.cfg.Keywords), f.cfg, f.logger)
	b.now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }
	return b
}

func TestBuild(t *testing.T) {
	f := newFixture(t)

	var phases []progress.Phase
	result, err := f.builder().Build(context.Background(), Options{
		Progress: func(p progress.Progress) { phases = append(phases, p.Phase) },
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.Seed)
	assert.Equal(t, 4, result.Summary.Analyzed)
	require.Len(t, result.Sample.Selection, 4)
	assert.Equal(t, 4, result.Copy.Copied)
	assert.Contains(t, result.Warnings, "1 bills skipped during analysis")
	assert.Contains(t, result.Warnings, "selected 4 of 10 requested bills")

	for _, name := range []string{"HR-1", "HR-2", "S-3", "SRES-4"} {
		assert.FileExists(t, filepath.Join(f.cfg.Corpus.OutputDir, name, "metadata.json"))
	}

	rep, err := report.Read(filepath.Join(f.cfg.Corpus.OutputDir, "sample_dataset_report.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, rep.TotalBills)
	assert.Equal(t, 10, rep.RequestedTotal)
	assert.Equal(t, "2025-06-01T09:30:00Z", rep.CreationDate)
	assert.Equal(t, 2, rep.ImpactDistribution[bill.TierLow])
	assert.Equal(t, "HR 2", rep.SampleBills[0].Identifier)

	assert.Contains(t, phases, progress.PhaseAnalyzing)
	assert.Contains(t, phases, progress.PhaseSampling)
	assert.Contains(t, phases, progress.PhaseCopying)
	assert.Contains(t, phases, progress.PhaseReporting)

	// The run is recorded in the ledger
	require.NotEmpty(t, result.RunID)
	detail, err := f.db.GetRunDetail(context.Background(), result.RunID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, int64(7), detail.Seed)
	assert.Equal(t, 4, detail.SelectedTotal)
	assert.Equal(t, 4, detail.CorpusSize)
	assert.Equal(t, 1, detail.SkippedCount)
	assert.Len(t, detail.Tiers, 4)
	require.Len(t, detail.Selections, 4)
	assert.Equal(t, "HR 2", detail.Selections[0].Identifier)
}

func TestBuild_DryRun(t *testing.T) {
	f := newFixture(t)

	result, err := f.builder().Build(context.Background(), Options{DryRun: true, TargetTotal: 4})
	require.NoError(t, err)

	// Low quota floors to zero, so only the high and medium bills are drawn
	assert.Len(t, result.Sample.Selection, 2)
	assert.Nil(t, result.Copy)
	assert.Empty(t, result.ReportPath)
	assert.NoDirExists(t, f.cfg.Corpus.OutputDir)

	run, err := f.db.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.True(t, run.DryRun)
	assert.Nil(t, run.ReportPath)
}

func TestBuild_InvalidOptionsFailFast(t *testing.T) {
	f := newFixture(t)
	f.cfg.Corpus.ReplaceInPlace = true

	tooMuch := 1.5
	_, err := f.builder().Build(context.Background(), Options{TopFraction: &tooMuch})
	assert.ErrorIs(t, err, sampler.ErrInvalidOptions)

	// Nothing was moved
	assert.NoDirExists(t, f.cfg.Corpus.BackupDir)
	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "HR-1", "metadata.json"))

	runs, err := f.db.ListRuns(context.Background(), database.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBuild_ReplaceInPlace(t *testing.T) {
	f := newFixture(t)
	f.cfg.Corpus.ReplaceInPlace = true
	f.cfg.Sampling.TargetTotal = 4

	result, err := f.builder().Build(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, result.MovedToBackup)
	assert.Equal(t, f.cfg.Corpus.BackupDir, result.SourceDir)
	assert.Equal(t, f.cfg.Corpus.BillsDir, result.DestDir)

	// Full dataset kept in the backup, sample written back in place
	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BackupDir, "HR-1", "metadata.json"))
	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "HR-2", "metadata.json"))
	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "S-3", "metadata.json"))
	assert.NoFileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "HR-1", "metadata.json"))
	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "sample_dataset_report.json"))

	// Re-running reads from the backup and selects the same bills
	again, err := f.builder().Build(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, again.MovedToBackup)
	assert.Equal(t, len(result.Sample.Selection), len(again.Sample.Selection))
}

func TestBuild_SeedReproducible(t *testing.T) {
	f := newFixture(t)
	f.cfg.Sampling.Seed = nil

	seed := int64(99)
	first, err := f.builder().Build(context.Background(), Options{DryRun: true, Seed: &seed})
	require.NoError(t, err)
	second, err := f.builder().Build(context.Background(), Options{DryRun: true, Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, int64(99), first.Seed)
	require.Equal(t, len(first.Sample.Selection), len(second.Sample.Selection))
	for i := range first.Sample.Selection {
		assert.Equal(t, first.Sample.Selection[i].Identifier(), second.Sample.Selection[i].Identifier())
	}

	// Without any seed one is generated and recorded
	generated, err := f.builder().Build(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.NotZero(t, generated.Seed)
	run, err := f.db.GetRun(context.Background(), generated.RunID)
	require.NoError(t, err)
	assert.Equal(t, generated.Seed, run.Seed)
}

func TestBuild_WithoutLedger(t *testing.T) {
	f := newFixture(t)

	b := New(nil, impact.New(f.cfg.Keywords), f.cfg, f.logger)
	result, err := b.Build(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, result.RunID)
}

func TestSamplerOptions(t *testing.T) {
	cfg := config.Default()
	so := SamplerOptions(cfg, Options{})
	assert.Equal(t, 250, so.TargetTotal)
	assert.Equal(t, 0.6, so.TopFraction)
	assert.Equal(t, 0.4, so.Ratios[bill.TierMedium])

	top := 0.25
	so = SamplerOptions(cfg, Options{TargetTotal: 12, TopFraction: &top})
	assert.Equal(t, 12, so.TargetTotal)
	assert.Equal(t, 0.25, so.TopFraction)
}

func TestAnalyze_DoesNotMoveCorpus(t *testing.T) {
	f := newFixture(t)
	f.cfg.Corpus.ReplaceInPlace = true

	corpus, err := f.builder().Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, corpus.All, 4)
	assert.Len(t, corpus.Skipped, 1)
	assert.Len(t, corpus.Buckets[bill.TierLow], 2)
	assert.NoDirExists(t, f.cfg.Corpus.BackupDir)
}

func TestBuild_DestinationConflictLeavesCorpusInPlace(t *testing.T) {
	f := newFixture(t)
	f.cfg.Corpus.ReplaceInPlace = true

	_, err := f.builder().Build(context.Background(), Options{OutputDir: f.cfg.Corpus.BackupDir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ from the corpus source")

	assert.FileExists(t, filepath.Join(f.cfg.Corpus.BillsDir, "HR-1", "metadata.json"))
	assert.NoDirExists(t, f.cfg.Corpus.BackupDir)

	runs, err := f.db.ListRuns(context.Background(), database.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
