// Package bill defines the legislative bill records read from the metadata
// store and the analyzed summaries derived from them.
package bill

import (
	"fmt"
	"strings"
)

// Tier is the estimated real-world impact of a bill
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierMixed  Tier = "mixed"
)

// Tiers returns every tier in the fixed sampling order
func Tiers() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow, TierMixed}
}

// ParseTier parses a tier name, accepting the legacy "_impact" suffix
func ParseTier(s string) (Tier, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_impact")
	for _, t := range Tiers() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown impact tier: %q", s)
}

// Action is a single step in a bill's legislative history
type Action struct {
	Description    string   `json:"description"`
	Date           string   `json:"date,omitempty"`
	Classification []string `json:"classification,omitempty"`
}

// HasClassification reports whether the action carries the given tag
func (a Action) HasClassification(tag string) bool {
	for _, c := range a.Classification {
		if c == tag {
			return true
		}
	}
	return false
}

// OtherTitle is an alternate (short, popular, official) title
type OtherTitle struct {
	Title string `json:"title"`
	Note  string `json:"note,omitempty"`
}

// Sponsorship is a sponsor or cosponsor entry. Only the count matters to
// analysis; the fields are kept for display.
type Sponsorship struct {
	Name           string `json:"name"`
	Classification string `json:"classification,omitempty"`
	Primary        bool   `json:"primary,omitempty"`
}

// Record is the metadata of one bill as stored on disk
type Record struct {
	Identifier   string        `json:"identifier"`
	Title        string        `json:"title"`
	OtherTitles  []OtherTitle  `json:"other_titles,omitempty"`
	Actions      []Action      `json:"actions,omitempty"`
	Sponsorships []Sponsorship `json:"sponsorships,omitempty"`

	// SourcePath points back to the bill's directory in the store
	SourcePath string `json:"-"`
}

// OtherTitleStrings returns the alternate titles as plain strings
func (r *Record) OtherTitleStrings() []string {
	titles := make([]string, 0, len(r.OtherTitles))
	for _, t := range r.OtherTitles {
		titles = append(titles, t.Title)
	}
	return titles
}

// Analyzed is the read-only summary of a bill produced by corpus analysis
type Analyzed struct {
	Record           *Record
	Tier             Tier
	ProgressionScore int
	CosponsorCount   int
	ActionsCount     int
}

// NewAnalyzed builds the summary for a record
func NewAnalyzed(r *Record, tier Tier, score int) *Analyzed {
	return &Analyzed{
		Record:           r,
		Tier:             tier,
		ProgressionScore: score,
		CosponsorCount:   len(r.Sponsorships),
		ActionsCount:     len(r.Actions),
	}
}

// Identifier returns the bill identifier
func (a *Analyzed) Identifier() string {
	return a.Record.Identifier
}

// Title returns the bill title
func (a *Analyzed) Title() string {
	return a.Record.Title
}
