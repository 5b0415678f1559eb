package models

import (
	"strconv"
	"strings"
)

// UpperLevelThreshold is the lowest course number considered upper level.
const UpperLevelThreshold = 300

// Course is immutable catalog reference data.
type Course struct {
	CourseID   string  `db:"course_id" json:"course_id"`
	Department string  `db:"department" json:"department"`
	Number     string  `db:"number" json:"number"`
	Title      string  `db:"title" json:"title"`
	MinCredits float64 `db:"min_credits" json:"min_credits"`
	MaxCredits float64 `db:"max_credits" json:"max_credits"`
}

// Code renders the display code, e.g. "CS 301".
func (c Course) Code() string {
	return strings.TrimSpace(c.Department + " " + c.Number)
}

// NumericNumber parses the leading digits of the course number ("301L" yields 301).
func (c Course) NumericNumber() (int, bool) {
	raw := strings.TrimSpace(c.Number)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsUpperLevel reports whether the course number is 300 or above.
func (c Course) IsUpperLevel() bool {
	n, ok := c.NumericNumber()
	return ok && n >= UpperLevelThreshold
}

// Section is one scheduled section of a course in a semester.
type Section struct {
	CourseID      string `db:"course_id" json:"course_id"`
	Semester      string `db:"semester" json:"semester"`
	SectionNumber string `db:"section_number" json:"section_number"`
}

// SectionCounts maps course_id to the number of sections scheduled in one semester.
type SectionCounts map[string]int

// Count returns the number of sections for courseID, zero when unknown.
func (s SectionCounts) Count(courseID string) int {
	if s == nil {
		return 0
	}
	return s[courseID]
}

// CountSections tallies section rows scheduled in the given semester.
func CountSections(sections []Section, semester Semester) SectionCounts {
	token := semester.Token()
	counts := make(SectionCounts)
	for _, section := range sections {
		if strings.EqualFold(strings.TrimSpace(section.Semester), token) {
			counts[section.CourseID]++
		}
	}
	return counts
}
