package progression

// Stage is a coarse progression bucket used in reports
type Stage string

const (
	StageBecameLaw         Stage = "became_law"
	StagePassedChamber     Stage = "passed_chamber"
	StageCommitteeActivity Stage = "committee_activity"
	StageIntroducedOnly    Stage = "introduced_only"
)

// Stage thresholds, checked from the top
const (
	becameLawThreshold = 90
	passedThreshold    = 70
	committeeThreshold = 30
)

// Stages returns every stage from most to least advanced
func Stages() []Stage {
	return []Stage{StageBecameLaw, StagePassedChamber, StageCommitteeActivity, StageIntroducedOnly}
}

// StageFor maps a progression score to its report bucket
func StageFor(score int) Stage {
	switch {
	case score >= becameLawThreshold:
		return StageBecameLaw
	case score >= passedThreshold:
		return StagePassedChamber
	case score >= committeeThreshold:
		return StageCommitteeActivity
	default:
		return StageIntroducedOnly
	}
}
