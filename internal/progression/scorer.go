// Package progression scores how far a bill advanced through the
// legislative process from its action history.
package progression

import (
	"regexp"
	"strings"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

// Rule identifies which row of the progression table matched an action
type Rule string

const (
	RuleBecameLaw     Rule = "became_law"
	RuleSigned        Rule = "signed"
	RulePassedChamber Rule = "passed_chamber"
	RuleReported      Rule = "reported"
	RuleCommittee     Rule = "committee"
	RuleReferred      Rule = "referred"
	RuleIntroduced    Rule = "introduced"
	RuleNone          Rule = "none"
)

// Action classification tags
const (
	tagBecameLaw       = "became-law"
	tagExecutiveSigned = "executive-signature"
)

// Points awarded per matching action
const (
	PointsBecameLaw     = 100
	PointsSigned        = 90
	PointsPassedChamber = 80
	PointsReported      = 60
	PointsCommittee     = 40
	PointsReferred      = 10
	PointsIntroduced    = 5
)

var reportedPattern = regexp.MustCompile(`committee.*report|ordered.*reported`)

// Score sums the points of every action. An empty history scores 0.
func Score(actions []bill.Action) int {
	total := 0
	for _, a := range actions {
		points, _ := ScoreAction(a)
		total += points
	}
	return total
}

// ScoreAction returns the points for a single action and the rule that
// matched. Rows are checked in precedence order and only the first match
// counts.
func ScoreAction(a bill.Action) (int, Rule) {
	desc := strings.ToLower(a.Description)

	switch {
	case strings.Contains(desc, "became law") || a.HasClassification(tagBecameLaw):
		return PointsBecameLaw, RuleBecameLaw
	case strings.Contains(desc, "signed by president") || a.HasClassification(tagExecutiveSigned):
		return PointsSigned, RuleSigned
	case strings.Contains(desc, "passed") &&
		(strings.Contains(desc, "house") || strings.Contains(desc, "senate")):
		return PointsPassedChamber, RulePassedChamber
	case reportedPattern.MatchString(desc):
		return PointsReported, RuleReported
	case strings.Contains(desc, "committee consideration") || strings.Contains(desc, "markup"):
		return PointsCommittee, RuleCommittee
	case strings.Contains(desc, "referred"):
		return PointsReferred, RuleReferred
	case strings.Contains(desc, "introduced"):
		return PointsIntroduced, RuleIntroduced
	default:
		return 0, RuleNone
	}
}

// ActionScore pairs an action with its contribution
type ActionScore struct {
	Description string `json:"description"`
	Points      int    `json:"points"`
	Rule        Rule   `json:"rule"`
}

// Breakdown scores each action individually
func Breakdown(actions []bill.Action) []ActionScore {
	out := make([]ActionScore, 0, len(actions))
	for _, a := range actions {
		points, rule := ScoreAction(a)
		out = append(out, ActionScore{
			Description: a.Description,
			Points:      points,
			Rule:        rule,
		})
	}
	return out
}
