package progression

import (
	"testing"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

func TestScore_Empty(t *testing.T) {
	if got := Score(nil); got != 0 {
		t.Errorf("Score(nil) = %d, want 0", got)
	}
	if got := Score([]bill.Action{}); got != 0 {
		t.Errorf("Score([]) = %d, want 0", got)
	}
}

func TestScoreAction(t *testing.T) {
	tests := []struct {
		name       string
		action     bill.Action
		wantPoints int
		wantRule   Rule
	}{
		{"became law text", bill.Action{Description: "Became Law. Public Law No: 119-1."}, 100, RuleBecameLaw},
		{"became law tag", bill.Action{Description: "Public law", Classification: []string{"became-law"}}, 100, RuleBecameLaw},
		{"signed text", bill.Action{Description: "Signed by President."}, 90, RuleSigned},
		{"signed tag", bill.Action{Description: "Presented", Classification: []string{"executive-signature"}}, 90, RuleSigned},
		{"passed house", bill.Action{Description: "Passed House (Roll no. 12)"}, 80, RulePassedChamber},
		{"passed senate", bill.Action{Description: "Passed Senate without amendment"}, 80, RulePassedChamber},
		{"passed without chamber", bill.Action{Description: "Motion passed"}, 0, RuleNone},
		{"committee report", bill.Action{Description: "Committee on Finance. Reported by Chairman"}, 60, RuleReported},
		{"ordered reported", bill.Action{Description: "Ordered to be Reported in the Nature of a Substitute"}, 60, RuleReported},
		{"committee consideration", bill.Action{Description: "Committee Consideration and Mark-up Session Held"}, 40, RuleCommittee},
		{"markup", bill.Action{Description: "Subcommittee markup held"}, 40, RuleCommittee},
		{"referred", bill.Action{Description: "Referred to the House Committee on Ways and Means."}, 10, RuleReferred},
		{"introduced", bill.Action{Description: "Introduced in Senate"}, 5, RuleIntroduced},
		{"unmatched", bill.Action{Description: "Sponsor introductory remarks"}, 0, RuleNone},
		{"became law beats passed", bill.Action{Description: "Passed House and became law"}, 100, RuleBecameLaw},
		{"referred beats introduced", bill.Action{Description: "Introduced and referred"}, 10, RuleReferred},
		{"unrelated tag ignored", bill.Action{Description: "", Classification: []string{"referral-committee"}}, 0, RuleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, rule := ScoreAction(tt.action)
			if points != tt.wantPoints {
				t.Errorf("points = %d, want %d", points, tt.wantPoints)
			}
			if rule != tt.wantRule {
				t.Errorf("rule = %v, want %v", rule, tt.wantRule)
			}
		})
	}
}

func TestScore_SumsActions(t *testing.T) {
	actions := []bill.Action{
		{Description: "introduced"},
		{Description: "passed house"},
	}
	if got := Score(actions); got != 85 {
		t.Errorf("Score() = %d, want 85", got)
	}

	// Repeated actions each contribute
	actions = []bill.Action{
		{Description: "Referred to committee"},
		{Description: "Referred to subcommittee"},
		{Description: "Referred to another committee"},
	}
	if got := Score(actions); got != 30 {
		t.Errorf("Score() = %d, want 30", got)
	}
}

func TestScore_BecameLawAddsExactly100(t *testing.T) {
	histories := [][]bill.Action{
		nil,
		{{Description: "introduced"}},
		{{Description: "referred"}, {Description: "markup"}, {Description: "signed by president"}},
	}

	for _, h := range histories {
		before := Score(h)
		after := Score(append(append([]bill.Action{}, h...), bill.Action{Description: "Became law"}))
		if after-before != 100 {
			t.Errorf("appending became law changed score by %d, want 100", after-before)
		}
	}
}

func TestBreakdown(t *testing.T) {
	got := Breakdown([]bill.Action{
		{Description: "Introduced in House"},
		{Description: "Statement of administration policy"},
	})

	if len(got) != 2 {
		t.Fatalf("Breakdown() returned %d entries, want 2", len(got))
	}
	if got[0].Points != 5 || got[0].Rule != RuleIntroduced {
		t.Errorf("first entry = %+v, want introduced/5", got[0])
	}
	if got[1].Points != 0 || got[1].Rule != RuleNone {
		t.Errorf("second entry = %+v, want none/0", got[1])
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		score int
		want  Stage
	}{
		{0, StageIntroducedOnly},
		{29, StageIntroducedOnly},
		{30, StageCommitteeActivity},
		{69, StageCommitteeActivity},
		{70, StagePassedChamber},
		{85, StagePassedChamber},
		{90, StageBecameLaw},
		{450, StageBecameLaw},
	}

	for _, tt := range tests {
		if got := StageFor(tt.score); got != tt.want {
			t.Errorf("StageFor(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
