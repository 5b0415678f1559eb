package service

import "github.com/noah-isme/plan-conflicts-api/internal/models"

// YearsUntilGraduation measures the distance between the target term and the student's graduation
// term. A season mismatch adds or removes half a year; ok is false when graduation is unknown.
func YearsUntilGraduation(student models.StudentProfile, target models.Semester) (float64, bool) {
	grad, ok := student.GraduationSemester()
	if !ok {
		return 0, false
	}
	years := float64(grad.Year - target.Year)
	switch {
	case target.Season == models.SeasonSpring && grad.Season == models.SeasonFall:
		years += 0.5
	case target.Season == models.SeasonFall && grad.Season == models.SeasonSpring:
		years -= 0.5
	}
	return years, true
}

// ClassifyStanding maps proximity to graduation onto Freshman..Senior.
// Students without a graduation term are treated as Freshmen.
func ClassifyStanding(student models.StudentProfile, target models.Semester) models.Standing {
	years, ok := YearsUntilGraduation(student, target)
	if !ok {
		return models.StandingFreshman
	}
	switch {
	case years <= 0.5:
		return models.StandingSenior
	case years <= 1.5:
		return models.StandingJunior
	case years <= 2.5:
		return models.StandingSophomore
	default:
		return models.StandingFreshman
	}
}

// IsGraduatingSenior is the "graduating seniors affected" rule used in conflict explanations:
// graduation year at or before the target year, which includes graduating in the target semester.
// It is independent of ClassifyStanding and the two can disagree.
func IsGraduatingSenior(student models.StudentProfile, target models.Semester) bool {
	grad, ok := student.GraduationSemester()
	if !ok {
		return false
	}
	return grad.Year <= target.Year
}

// RarityWeight is 1/sectionCount, or 1 when no sections are scheduled.
func RarityWeight(sectionCount int) float64 {
	if sectionCount <= 0 {
		return 1
	}
	return 1 / float64(sectionCount)
}

// CourseRarity returns the number of sections scheduled for courseID in the counted semester.
func CourseRarity(counts models.SectionCounts, courseID string) int {
	return counts.Count(courseID)
}
