package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

// DefaultScaleDivisor normalises raw scores so a single-overlap, single-section, mixed-seniority
// pair lands around 0.2-0.4.
const DefaultScaleDivisor = 10.0

// PairInputs are the order-independent quantities a formula scores.
type PairInputs struct {
	Overlap            int
	RarityWeightA      float64
	RarityWeightB      float64
	AvgSeniorityWeight float64
}

// ScoringFormula turns pair inputs into a raw score and a normalised score in [0, 1].
type ScoringFormula interface {
	Score(in PairInputs) (raw float64, normalised float64)
}

// ProductFormula scores overlap * (rarityA + rarityB) * avgSeniority, divided by ScaleDivisor,
// clamped to 1 and rounded to two decimals.
type ProductFormula struct {
	ScaleDivisor float64
}

// NewProductFormula falls back to DefaultScaleDivisor for non-positive divisors.
func NewProductFormula(divisor float64) ProductFormula {
	if divisor <= 0 {
		divisor = DefaultScaleDivisor
	}
	return ProductFormula{ScaleDivisor: divisor}
}

// Score implements ScoringFormula.
func (f ProductFormula) Score(in PairInputs) (float64, float64) {
	divisor := f.ScaleDivisor
	if divisor <= 0 {
		divisor = DefaultScaleDivisor
	}
	raw := float64(in.Overlap) * (in.RarityWeightA + in.RarityWeightB) * in.AvgSeniorityWeight
	normalised := math.Min(raw/divisor, 1.0)
	if normalised < 0 {
		normalised = 0
	}
	return raw, roundTo(normalised, 2)
}

// ConflictScorer scores course pairs for one target semester.
type ConflictScorer struct {
	formula  ScoringFormula
	sections models.SectionCounts
}

// NewConflictScorer binds a formula to the section counts of the target semester.
func NewConflictScorer(formula ScoringFormula, sections models.SectionCounts) *ConflictScorer {
	if formula == nil {
		formula = NewProductFormula(DefaultScaleDivisor)
	}
	return &ConflictScorer{formula: formula, sections: sections}
}

// Score returns the conflict between a and b, or nil when no student plans both.
// Swapping a and b yields the same score and impact texts.
func (s *ConflictScorer) Score(a, b *models.CourseEnrollment, target models.Semester) *models.ConflictRecord {
	if a == nil || b == nil || a.Course.CourseID == b.Course.CourseID {
		return nil
	}
	inB := b.StudentIDs()
	seen := make(map[string]struct{}, len(a.Students))
	var shared []models.StudentProfile
	for _, student := range a.Students {
		if _, ok := inB[student.ID]; !ok {
			continue
		}
		if _, dup := seen[student.ID]; dup {
			continue
		}
		seen[student.ID] = struct{}{}
		shared = append(shared, student)
	}
	if len(shared) == 0 {
		return nil
	}

	var seniors, juniors, others, graduating int
	ids := make([]string, 0, len(shared))
	for _, student := range shared {
		switch ClassifyStanding(student, target) {
		case models.StandingSenior:
			seniors++
		case models.StandingJunior:
			juniors++
		default:
			others++
		}
		if IsGraduatingSenior(student, target) {
			graduating++
		}
		ids = append(ids, student.ID)
	}
	sort.Strings(ids)

	overlap := len(shared)
	avgSeniority := (float64(seniors)*models.StandingSenior.SeniorityWeight() +
		float64(juniors)*models.StandingJunior.SeniorityWeight() +
		float64(others)*models.StandingSophomore.SeniorityWeight()) / float64(overlap)

	countA := CourseRarity(s.sections, a.Course.CourseID)
	countB := CourseRarity(s.sections, b.Course.CourseID)
	raw, score := s.formula.Score(PairInputs{
		Overlap:            overlap,
		RarityWeightA:      RarityWeight(countA),
		RarityWeightB:      RarityWeight(countB),
		AvgSeniorityWeight: avgSeniority,
	})

	rarity := rarityImpact(a.Course, countA, b.Course, countB)
	seniority := seniorityImpact(graduating)

	return &models.ConflictRecord{
		CourseA:         a.Course,
		CourseB:         b.Course,
		OverlapCount:    overlap,
		ConflictScore:   score,
		RawScore:        raw,
		RarityImpact:    rarity,
		SeniorityImpact: seniority,
		Explanation:     explainConflict(overlap, rarity, seniority),
		StudentIDs:      ids,
	}
}

func rarityImpact(a models.Course, countA int, b models.Course, countB int) string {
	singleA := countA == 1 && a.IsUpperLevel()
	singleB := countB == 1 && b.IsUpperLevel()
	switch {
	case singleA && singleB:
		return models.RarityBothSingleSectionUpper
	case singleA || singleB:
		return models.RarityOneSingleSectionUpper
	case a.IsUpperLevel() && b.IsUpperLevel():
		return models.RarityBothUpperLevel
	default:
		return models.RarityStandard
	}
}

func seniorityImpact(graduating int) string {
	if graduating == 0 {
		return "No graduating seniors affected"
	}
	return fmt.Sprintf("%d graduating senior(s) affected", graduating)
}

func explainConflict(overlap int, rarity, seniority string) string {
	parts := make([]string, 0, 3)
	if overlap == 1 {
		parts = append(parts, "1 student plans both courses")
	} else {
		parts = append(parts, fmt.Sprintf("%d students plan both courses", overlap))
	}
	if rarity == models.RarityStandard {
		parts = append(parts, "standard course availability")
	} else {
		parts = append(parts, strings.ToLower(rarity[:1])+rarity[1:])
	}
	parts = append(parts, strings.ToLower(seniority[:1])+seniority[1:])
	return strings.Join(parts, "; ")
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
