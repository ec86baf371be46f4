package analyzer

import (
	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/progression"
)

// TierCount is the number of bills in one tier
type TierCount struct {
	Tier  bill.Tier `json:"tier"`
	Count int       `json:"count"`
}

// Summary describes the whole analyzed corpus
type Summary struct {
	Analyzed     int                       `json:"analyzed"`
	Skipped      int                       `json:"skipped"`
	Tiers        []TierCount               `json:"tiers"`
	Stages       map[progression.Stage]int `json:"progression_stages"`
	AvgScore     float64                   `json:"avg_progression_score"`
	MaxScore     int                       `json:"max_progression_score"`
	SkippedBills []Skipped                 `json:"skipped_bills,omitempty"`
}

// Summary aggregates tier and progression counts
func (c *Corpus) Summary() *Summary {
	s := &Summary{
		Analyzed:     len(c.All),
		Skipped:      len(c.Skipped),
		Stages:       make(map[progression.Stage]int, len(progression.Stages())),
		SkippedBills: c.Skipped,
	}

	for _, t := range bill.Tiers() {
		s.Tiers = append(s.Tiers, TierCount{Tier: t, Count: len(c.Buckets[t])})
	}
	for _, st := range progression.Stages() {
		s.Stages[st] = 0
	}

	total := 0
	for _, b := range c.All {
		s.Stages[progression.StageFor(b.ProgressionScore)]++
		total += b.ProgressionScore
		if b.ProgressionScore > s.MaxScore {
			s.MaxScore = b.ProgressionScore
		}
	}
	if len(c.All) > 0 {
		s.AvgScore = float64(total) / float64(len(c.All))
	}

	return s
}
