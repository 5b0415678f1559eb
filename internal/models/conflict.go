package models

// Standing is the proximity-to-graduation classification used to weight conflicts.
type Standing string

const (
	StandingFreshman  Standing = "Freshman"
	StandingSophomore Standing = "Sophomore"
	StandingJunior    Standing = "Junior"
	StandingSenior    Standing = "Senior"
)

// SeniorityWeight maps a standing onto its conflict weight.
func (s Standing) SeniorityWeight() float64 {
	switch s {
	case StandingSenior:
		return 2.0
	case StandingJunior:
		return 1.5
	default:
		return 1.0
	}
}

// Rarity impact phrases, in cascade priority order.
const (
	RarityBothSingleSectionUpper = "Both are single-section upper-level"
	RarityOneSingleSectionUpper  = "One is single-section upper-level"
	RarityBothUpperLevel         = "Both are upper-level courses"
	RarityStandard               = "Standard course availability"
)

// ConflictLevel buckets a conflict score for display.
type ConflictLevel string

const (
	ConflictLevelHigh   ConflictLevel = "high"
	ConflictLevelMedium ConflictLevel = "medium"
	ConflictLevelLow    ConflictLevel = "low"
)

// LevelForScore buckets a normalised score.
func LevelForScore(score float64) ConflictLevel {
	switch {
	case score >= 0.7:
		return ConflictLevelHigh
	case score >= 0.4:
		return ConflictLevelMedium
	default:
		return ConflictLevelLow
	}
}

// ConflictRecord describes one unordered pair of co-planned courses with overlap > 0.
type ConflictRecord struct {
	CourseA         Course   `json:"courseA"`
	CourseB         Course   `json:"courseB"`
	OverlapCount    int      `json:"overlapCount"`
	ConflictScore   float64  `json:"conflictScore"`
	RawScore        float64  `json:"-"`
	RarityImpact    string   `json:"rarityImpact"`
	SeniorityImpact string   `json:"seniorityImpact"`
	Explanation     string   `json:"explanation"`
	StudentIDs      []string `json:"studentIds"`
}

// Level returns the display bucket for the record.
func (r ConflictRecord) Level() ConflictLevel {
	return LevelForScore(r.ConflictScore)
}
