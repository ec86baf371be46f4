// Package impact classifies bills into impact tiers by keyword matching on
// their titles.
package impact

import (
	"strings"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/config"
)

// Reason identifies which rule decided the tier
type Reason string

const (
	ReasonAdministrative Reason = "administrative"
	ReasonHighMulti      Reason = "high_multi"
	ReasonMediumMulti    Reason = "medium_multi"
	ReasonLowMulti       Reason = "low_multi"
	ReasonHighSingle     Reason = "high_single"
	ReasonMediumSingle   Reason = "medium_single"
	ReasonNoMatch        Reason = "no_match"
)

// Explanation describes how a title was classified
type Explanation struct {
	Tier           bill.Tier `json:"tier"`
	Reason         Reason    `json:"reason"`
	Administrative []string  `json:"administrative,omitempty"`
	High           []string  `json:"high,omitempty"`
	Medium         []string  `json:"medium,omitempty"`
	Low            []string  `json:"low,omitempty"`
}

// Classifier maps bill titles to impact tiers
type Classifier struct {
	administrative []string
	high           []string
	medium         []string
	low            []string
}

// New creates a Classifier from the configured keyword sets. Keywords are
// lower-cased and de-duplicated so each contributes at most once.
func New(cfg config.KeywordConfig) *Classifier {
	return &Classifier{
		administrative: normalizeKeywords(cfg.Administrative),
		high:           normalizeKeywords(cfg.High),
		medium:         normalizeKeywords(cfg.Medium),
		low:            normalizeKeywords(cfg.Low),
	}
}

// Classify returns the impact tier for a bill's title and alternate titles
func (c *Classifier) Classify(title string, otherTitles []string) bill.Tier {
	return c.Explain(title, otherTitles).Tier
}

// ClassifyRecord classifies a bill record
func (c *Classifier) ClassifyRecord(r *bill.Record) bill.Tier {
	if r == nil {
		return bill.TierMixed
	}
	return c.Classify(r.Title, r.OtherTitleStrings())
}

// Explain classifies a title and reports the keywords that decided it
func (c *Classifier) Explain(title string, otherTitles []string) Explanation {
	text := buildText(title, otherTitles)

	// Administrative and ceremonial bills skip scoring entirely
	if admin := matchKeywords(text, c.administrative); len(admin) > 0 {
		return Explanation{
			Tier:           bill.TierLow,
			Reason:         ReasonAdministrative,
			Administrative: admin,
		}
	}

	exp := Explanation{
		High:   matchKeywords(text, c.high),
		Medium: matchKeywords(text, c.medium),
		Low:    matchKeywords(text, c.low),
	}
	exp.Tier, exp.Reason = decide(len(exp.High), len(exp.Medium), len(exp.Low))
	return exp
}

// decide applies the tier precedence table. The second rule's
// high>=1 && medium>=1 arm can never fire because the first rule already
// claims that case; it is kept so the table reads as documented.
func decide(high, medium, low int) (bill.Tier, Reason) {
	switch {
	case high >= 2 || (high >= 1 && medium >= 1):
		return bill.TierHigh, ReasonHighMulti
	case medium >= 2 || (medium >= 1 && high >= 1):
		return bill.TierMedium, ReasonMediumMulti
	case low >= 2:
		return bill.TierLow, ReasonLowMulti
	case high == 1:
		return bill.TierHigh, ReasonHighSingle
	case medium == 1:
		return bill.TierMedium, ReasonMediumSingle
	default:
		return bill.TierMixed, ReasonNoMatch
	}
}

// Keywords returns a copy of the active keyword sets
func (c *Classifier) Keywords() config.KeywordConfig {
	return config.KeywordConfig{
		High:           append([]string(nil), c.high...),
		Medium:         append([]string(nil), c.medium...),
		Low:            append([]string(nil), c.low...),
		Administrative: append([]string(nil), c.administrative...),
	}
}

// buildText joins the title and alternate titles into one lower-cased blob
func buildText(title string, otherTitles []string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(title))
	for _, t := range otherTitles {
		b.WriteString(" ")
		b.WriteString(strings.ToLower(t))
	}
	return b.String()
}
