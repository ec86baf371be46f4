// Package analyzer walks a metadata store, classifies and scores every bill
// and groups the results by impact tier.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/progress"
	"github.com/vijay-prabhu/billsample/internal/progression"
	"github.com/vijay-prabhu/billsample/internal/store"
)

// DefaultProgressInterval is how many records pass between progress updates
const DefaultProgressInterval = 500

// SkipReason explains why a bill was left out of the corpus
type SkipReason string

const (
	SkipMissing     SkipReason = "missing"
	SkipUnparseable SkipReason = "unparseable"
	SkipReadError   SkipReason = "read_error"
)

// Skipped records a bill that could not be analyzed
type Skipped struct {
	ID     string     `json:"id"`
	Reason SkipReason `json:"reason"`
	Err    string     `json:"error,omitempty"`
}

// Corpus is the analyzed, tier-bucketed set of bills
type Corpus struct {
	All     []*bill.Analyzed
	Buckets map[bill.Tier][]*bill.Analyzed
	Skipped []Skipped
}

func newCorpus() *Corpus {
	buckets := make(map[bill.Tier][]*bill.Analyzed, len(bill.Tiers()))
	for _, t := range bill.Tiers() {
		buckets[t] = nil
	}
	return &Corpus{Buckets: buckets}
}

// Options configures an analysis pass
type Options struct {
	ProgressInterval int
	Progress         progress.Callback
}

// Analyzer classifies and scores every bill in a store
type Analyzer struct {
	store      store.Store
	classifier *impact.Classifier
	logger     *slog.Logger
}

// New creates an Analyzer. A nil logger uses slog.Default().
func New(s store.Store, c *impact.Classifier, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		store:      s,
		classifier: c,
		logger:     logger,
	}
}

// Analyze reads every bill from the store. Missing and unparseable records
// are logged and skipped; only listing failures and cancellation abort.
func (a *Analyzer) Analyze(ctx context.Context, opts Options) (*Corpus, error) {
	interval := opts.ProgressInterval
	if interval < 1 {
		interval = DefaultProgressInterval
	}

	opts.Progress.Report(progress.PhaseListing, 0, 0, "Listing bills")
	ids, err := a.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	total := len(ids)
	opts.Progress.Report(progress.PhaseListing, total, total, "Listing bills")

	a.logger.Info("analyzing bills", "store", a.store.Name(), "count", total)

	corpus := newCorpus()
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if i%interval == 0 {
			opts.Progress.Report(progress.PhaseAnalyzing, i, total, "Analyzing bills")
		}

		r, err := a.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			reason := SkipReadError
			if errors.Is(err, store.ErrUnparseable) {
				reason = SkipUnparseable
			}
			a.logger.Warn("skipping bill", "id", id, "reason", reason, "error", err)
			corpus.Skipped = append(corpus.Skipped, Skipped{ID: id, Reason: reason, Err: err.Error()})
			continue
		}
		if r == nil {
			a.logger.Debug("skipping bill without metadata", "id", id)
			corpus.Skipped = append(corpus.Skipped, Skipped{ID: id, Reason: SkipMissing})
			continue
		}

		analyzed := a.AnalyzeRecord(r)
		corpus.All = append(corpus.All, analyzed)
		corpus.Buckets[analyzed.Tier] = append(corpus.Buckets[analyzed.Tier], analyzed)
	}

	opts.Progress.Report(progress.PhaseAnalyzing, total, total, "Analyzing bills")

	a.logger.Info("analysis complete",
		"analyzed", len(corpus.All),
		"skipped", len(corpus.Skipped),
		"high", len(corpus.Buckets[bill.TierHigh]),
		"medium", len(corpus.Buckets[bill.TierMedium]),
		"low", len(corpus.Buckets[bill.TierLow]),
		"mixed", len(corpus.Buckets[bill.TierMixed]),
	)

	return corpus, nil
}

// AnalyzeRecord classifies and scores a single record
func (a *Analyzer) AnalyzeRecord(r *bill.Record) *bill.Analyzed {
	tier := a.classifier.ClassifyRecord(r)
	score := progression.Score(r.Actions)
	return bill.NewAnalyzed(r, tier, score)
}
