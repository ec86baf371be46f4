package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/config"
	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/progress"
	"github.com/vijay-prabhu/billsample/internal/progression"
	"github.com/vijay-prabhu/billsample/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyStore fails Get for selected IDs
type flakyStore struct {
	*store.MemoryStore
	failures map[string]error
}

func (s *flakyStore) Get(ctx context.Context, id string) (*bill.Record, error) {
	if err, ok := s.failures[id]; ok {
		return nil, err
	}
	return s.MemoryStore.Get(ctx, id)
}

func exampleStore() *store.MemoryStore {
	s := store.NewMemory()
	s.Add("hr-1", &bill.Record{Identifier: "HR 1", Title: "Post Office Designation Act"})
	s.Add("hr-2", &bill.Record{
		Identifier: "HR 2",
		Title:      "Medicare Drug Pricing and Tax Relief Act",
		Actions: []bill.Action{
			{Description: "introduced"},
			{Description: "passed house"},
		},
		Sponsorships: []bill.Sponsorship{{Name: "A"}, {Name: "B"}},
	})
	s.Add("s-3", &bill.Record{
		Identifier: "S 3",
		Title:      "Small Business Broadband Act",
		Actions:    []bill.Action{{Description: "referred"}},
	})
	s.Add("sres-4", &bill.Record{Identifier: "SRES 4", Title: "Armed Forces Commemorative Resolution"})
	return s
}

func TestAnalyze_Example(t *testing.T) {
	a := New(exampleStore(), impact.New(config.DefaultKeywords()), quietLogger())

	corpus, err := a.Analyze(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, corpus.All, 4)

	wantTiers := []bill.Tier{bill.TierLow, bill.TierHigh, bill.TierMedium, bill.TierLow}
	wantScores := []int{0, 85, 10, 0}
	for i, b := range corpus.All {
		assert.Equal(t, wantTiers[i], b.Tier, "tier of %s", b.Identifier())
		assert.Equal(t, wantScores[i], b.ProgressionScore, "score of %s", b.Identifier())
	}

	assert.Equal(t, 2, corpus.All[1].CosponsorCount)
	assert.Equal(t, 2, corpus.All[1].ActionsCount)

	// Buckets keep discovery order
	require.Len(t, corpus.Buckets[bill.TierLow], 2)
	assert.Equal(t, "HR 1", corpus.Buckets[bill.TierLow][0].Identifier())
	assert.Equal(t, "SRES 4", corpus.Buckets[bill.TierLow][1].Identifier())
	assert.Len(t, corpus.Buckets[bill.TierHigh], 1)
	assert.Len(t, corpus.Buckets[bill.TierMedium], 1)
	assert.Empty(t, corpus.Buckets[bill.TierMixed])
	assert.Empty(t, corpus.Skipped)
}

func TestAnalyze_EveryBillInExactlyOneBucket(t *testing.T) {
	a := New(exampleStore(), impact.New(config.DefaultKeywords()), quietLogger())

	corpus, err := a.Analyze(context.Background(), Options{})
	require.NoError(t, err)

	seen := make(map[*bill.Analyzed]int)
	for _, tier := range bill.Tiers() {
		for _, b := range corpus.Buckets[tier] {
			seen[b]++
		}
	}
	assert.Len(t, seen, len(corpus.All))
	for b, n := range seen {
		assert.Equal(t, 1, n, "bill %s appears in %d buckets", b.Identifier(), n)
	}
}

func TestAnalyze_SkipsBadRecords(t *testing.T) {
	mem := exampleStore()
	mem.Add("hr-missing", nil)
	mem.Add("hr-broken", nil)
	mem.Add("hr-io", nil)

	s := &flakyStore{
		MemoryStore: mem,
		failures: map[string]error{
			"hr-broken": fmt.Errorf("%w: hr-broken: unexpected EOF", store.ErrUnparseable),
			"hr-io":     fmt.Errorf("permission denied"),
		},
	}

	a := New(s, impact.New(config.DefaultKeywords()), quietLogger())
	corpus, err := a.Analyze(context.Background(), Options{})
	require.NoError(t, err)

	assert.Len(t, corpus.All, 4)
	require.Len(t, corpus.Skipped, 3)
	assert.Equal(t, Skipped{ID: "hr-missing", Reason: SkipMissing}, corpus.Skipped[0])
	assert.Equal(t, SkipUnparseable, corpus.Skipped[1].Reason)
	assert.Equal(t, SkipReadError, corpus.Skipped[2].Reason)
}

func TestAnalyze_Progress(t *testing.T) {
	s := store.NewMemory()
	for i := 0; i < 7; i++ {
		s.Add(fmt.Sprintf("b-%d", i), &bill.Record{Identifier: fmt.Sprintf("HR %d", i)})
	}

	var updates []progress.Progress
	a := New(s, impact.New(config.DefaultKeywords()), quietLogger())
	_, err := a.Analyze(context.Background(), Options{
		ProgressInterval: 3,
		Progress:         func(p progress.Progress) { updates = append(updates, p) },
	})
	require.NoError(t, err)

	var analyzing []int
	for _, u := range updates {
		if u.Phase == progress.PhaseAnalyzing {
			analyzing = append(analyzing, u.Current)
		}
	}
	assert.Equal(t, []int{0, 3, 6, 7}, analyzing)
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(exampleStore(), impact.New(config.DefaultKeywords()), quietLogger())
	_, err := a.Analyze(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary(t *testing.T) {
	a := New(exampleStore(), impact.New(config.DefaultKeywords()), quietLogger())
	corpus, err := a.Analyze(context.Background(), Options{})
	require.NoError(t, err)

	s := corpus.Summary()
	assert.Equal(t, 4, s.Analyzed)
	assert.Equal(t, []TierCount{
		{Tier: bill.TierHigh, Count: 1},
		{Tier: bill.TierMedium, Count: 1},
		{Tier: bill.TierLow, Count: 2},
		{Tier: bill.TierMixed, Count: 0},
	}, s.Tiers)
	assert.Equal(t, 1, s.Stages[progression.StagePassedChamber])
	assert.Equal(t, 3, s.Stages[progression.StageIntroducedOnly])
	assert.Equal(t, 0, s.Stages[progression.StageBecameLaw])
	assert.Equal(t, 85, s.MaxScore)
	assert.InDelta(t, 23.75, s.AvgScore, 0.001)
}
