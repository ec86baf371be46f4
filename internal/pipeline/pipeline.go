// Package pipeline runs a full sampling pass: analyze the corpus, draw the
// stratified sample, materialize it, write the report and record the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vijay-prabhu/billsample/internal/analyzer"
	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/config"
	"github.com/vijay-prabhu/billsample/internal/database"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/materialize"
	"github.com/vijay-prabhu/billsample/internal/progress"
	"github.com/vijay-prabhu/billsample/internal/report"
	"github.com/vijay-prabhu/billsample/internal/sampler"
	"github.com/vijay-prabhu/billsample/internal/store"
)

// Builder orchestrates a sampling run
type Builder struct {
	db         *database.DB
	classifier *impact.Classifier
	config     *config.Config
	logger     *slog.Logger
	copier     *materialize.Copier
	now        func() time.Time
}

// New creates a new Builder. db may be nil, in which case runs are not
// recorded.
func New(db *database.DB, c *impact.Classifier, cfg *config.Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		db:         db,
		classifier: c,
		config:     cfg,
		logger:     logger,
		copier:     materialize.NewCopier(logger),
		now:        time.Now,
	}
}

// Options overrides configuration for a single run. Zero values keep the
// configured setting.
type Options struct {
	DryRun      bool
	TargetTotal int
	TopFraction *float64
	Seed        *int64
	OutputDir   string
	Progress    progress.Callback
}

// Result contains the outcome of a run
type Result struct {
	RunID         string              `json:"run_id,omitempty"`
	Seed          int64               `json:"seed"`
	DryRun        bool                `json:"dry_run"`
	SourceDir     string              `json:"source_dir"`
	DestDir       string              `json:"dest_dir"`
	ReportPath    string              `json:"report_path,omitempty"`
	MovedToBackup bool                `json:"moved_to_backup,omitempty"`
	Summary       *analyzer.Summary   `json:"summary"`
	Sample        *sampler.Result     `json:"sample"`
	Copy          *materialize.Result `json:"copy,omitempty"`
	Report        *report.Report      `json:"report"`
	Warnings      []string            `json:"warnings,omitempty"`
}

// SamplerOptions derives sampler options from the configuration and the
// per-run overrides
func SamplerOptions(cfg *config.Config, opts Options) sampler.Options {
	so := sampler.Options{
		TargetTotal: cfg.Sampling.TargetTotal,
		Ratios:      cfg.Sampling.Ratios.ByTier(),
		TopFraction: cfg.Sampling.TopFraction,
	}
	if opts.TargetTotal != 0 {
		so.TargetTotal = opts.TargetTotal
	}
	if opts.TopFraction != nil {
		so.TopFraction = *opts.TopFraction
	}
	return so
}

// Build runs the pipeline. Sampling options are validated before the
// corpus is touched.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	so := SamplerOptions(b.config, opts)
	if err := so.Validate(); err != nil {
		return nil, err
	}

	dest := opts.OutputDir
	if dest == "" {
		dest = b.config.DestinationDir()
	}

	// Checked against the planned source so nothing moves on a bad config
	if !opts.DryRun && filepath.Clean(b.plannedSource()) == filepath.Clean(dest) {
		return nil, fmt.Errorf("destination %s must differ from the corpus source", dest)
	}

	result := &Result{DryRun: opts.DryRun, DestDir: dest}

	source, moved, err := b.resolveSource(opts.DryRun)
	if err != nil {
		return nil, err
	}
	result.SourceDir = source
	result.MovedToBackup = moved
	if moved {
		b.logger.Info("moved full dataset to backup", "from", b.config.Corpus.BillsDir, "to", source)
	}

	corpus, err := b.analyze(ctx, source, opts.Progress)
	if err != nil {
		return nil, err
	}
	result.Summary = corpus.Summary()
	if n := len(corpus.Skipped); n > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d bills skipped during analysis", n))
	}

	result.Seed = b.resolveSeed(opts)
	opts.Progress.Report(progress.PhaseSampling, 0, so.TargetTotal, "Sampling bills")
	sample, err := sampler.Sample(corpus.Buckets, so, sampler.NewSource(result.Seed))
	if err != nil {
		return nil, err
	}
	result.Sample = sample
	opts.Progress.Report(progress.PhaseSampling, len(sample.Selection), so.TargetTotal, "Sampling bills")
	if sample.Shortfall() > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("selected %d of %d requested bills", len(sample.Selection), sample.Requested))
	}
	b.logger.Info("sample drawn", "selected", len(sample.Selection), "requested", sample.Requested, "seed", result.Seed)

	result.Report = report.Build(sample.Selection, sample.Requested, b.now())

	if !opts.DryRun {
		copied, err := b.copier.CopyAll(ctx, sample.Selection, dest, opts.Progress)
		if err != nil {
			return nil, fmt.Errorf("failed to copy sample: %w", err)
		}
		result.Copy = copied
		for _, sk := range copied.Skipped {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s not copied: %s", sk.Identifier, sk.Reason))
		}

		opts.Progress.Report(progress.PhaseReporting, 0, 1, "Writing report")
		result.ReportPath = filepath.Join(dest, b.config.Report.FileName)
		if err := result.Report.Write(result.ReportPath); err != nil {
			return nil, err
		}
		opts.Progress.Report(progress.PhaseReporting, 1, 1, "Writing report")
		b.logger.Info("report written", "path", result.ReportPath)
	}

	if b.db != nil {
		runID, err := b.record(ctx, result, len(corpus.All), len(corpus.Skipped))
		if err != nil {
			b.logger.Warn("failed to record run", "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("run not recorded: %v", err))
		} else {
			result.RunID = runID
		}
	}

	return result, nil
}

// Analyze classifies and scores the corpus without sampling. Like a dry
// run, it never moves the corpus.
func (b *Builder) Analyze(ctx context.Context, cb progress.Callback) (*analyzer.Corpus, error) {
	source, _, err := b.resolveSource(true)
	if err != nil {
		return nil, err
	}
	return b.analyze(ctx, source, cb)
}

func (b *Builder) analyze(ctx context.Context, source string, cb progress.Callback) (*analyzer.Corpus, error) {
	s, err := store.NewDir(source, store.DirOptions{
		Include: b.config.Corpus.Include,
		Exclude: b.config.Corpus.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bill store: %w", err)
	}

	corpus, err := analyzer.New(s, b.classifier, b.logger).Analyze(ctx, analyzer.Options{
		ProgressInterval: b.config.Corpus.ProgressInterval,
		Progress:         cb,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze corpus: %w", err)
	}
	return corpus, nil
}

// resolveSource returns the directory to read the corpus from. In place
// runs read from the backup; a dry run never moves anything.
func (b *Builder) resolveSource(dryRun bool) (string, bool, error) {
	c := b.config.Corpus
	if !c.ReplaceInPlace {
		return c.BillsDir, false, nil
	}
	if dryRun {
		if info, err := os.Stat(c.BackupDir); err == nil && info.IsDir() {
			return c.BackupDir, false, nil
		}
		return c.BillsDir, false, nil
	}
	return materialize.PrepareSource(c.BillsDir, c.BackupDir)
}

// plannedSource is where a non-dry run reads the corpus from, without
// touching the filesystem
func (b *Builder) plannedSource() string {
	if b.config.Corpus.ReplaceInPlace {
		return b.config.Corpus.BackupDir
	}
	return b.config.Corpus.BillsDir
}

func (b *Builder) resolveSeed(opts Options) int64 {
	switch {
	case opts.Seed != nil:
		return *opts.Seed
	case b.config.Sampling.Seed != nil:
		return *b.config.Sampling.Seed
	default:
		return b.now().UnixNano()
	}
}

func (b *Builder) record(ctx context.Context, result *Result, corpusSize, skipped int) (string, error) {
	run := &database.Run{
		CreatedAt:      b.now(),
		BillsDir:       result.SourceDir,
		OutputDir:      result.DestDir,
		RequestedTotal: result.Sample.Requested,
		SelectedTotal:  len(result.Sample.Selection),
		CorpusSize:     corpusSize,
		SkippedCount:   skipped,
		Seed:           result.Seed,
		TopFraction:    result.Sample.TopFraction,
		DryRun:         result.DryRun,
	}
	if result.ReportPath != "" {
		run.ReportPath = &result.ReportPath
	}
	if result.Copy != nil {
		run.CopiedCount = result.Copy.Copied
	}

	tiers := make([]database.RunTier, 0, len(result.Sample.Tiers))
	for _, t := range result.Sample.Tiers {
		tiers = append(tiers, database.RunTier{
			Tier:        string(t.Tier),
			Available:   t.Available,
			Quota:       t.Quota,
			TopCount:    t.TopCount,
			RandomCount: t.RandomCount,
			Selected:    t.Selected,
		})
	}

	selections := make([]database.Selection, 0, len(result.Sample.Selection))
	for _, a := range result.Sample.Selection {
		selections = append(selections, selectionRow(a))
	}

	if err := b.db.CreateRun(ctx, run, tiers, selections); err != nil {
		return "", err
	}
	return run.ID, nil
}

func selectionRow(a *bill.Analyzed) database.Selection {
	return database.Selection{
		Identifier:       a.Identifier(),
		Title:            a.Title(),
		Tier:             string(a.Tier),
		ProgressionScore: a.ProgressionScore,
		CosponsorCount:   a.CosponsorCount,
	}
}
