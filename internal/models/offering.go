package models

import (
	"fmt"
	"strings"
)

// OfferingCode is the recurrence rule predicting future offerings of a course.
type OfferingCode string

const (
	OfferingEverySemester OfferingCode = "e"
	OfferingEveryFall     OfferingCode = "ef"
	OfferingEverySpring   OfferingCode = "es"
	OfferingOddFall       OfferingCode = "fo"
	OfferingEvenFall      OfferingCode = "fe"
	OfferingOddSpring     OfferingCode = "so"
	OfferingEvenSpring    OfferingCode = "se"
)

var offeringDescriptions = map[OfferingCode]string{
	OfferingEverySemester: "every semester",
	OfferingEveryFall:     "every fall",
	OfferingEverySpring:   "every spring",
	OfferingOddFall:       "odd-year falls",
	OfferingEvenFall:      "even-year falls",
	OfferingOddSpring:     "odd-year springs",
	OfferingEvenSpring:    "even-year springs",
}

// ParseOfferingCode normalises and validates a raw code from the offering table.
func ParseOfferingCode(raw string) (OfferingCode, error) {
	code := OfferingCode(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := offeringDescriptions[code]; !ok {
		return "", fmt.Errorf("unknown offering code %q", raw)
	}
	return code, nil
}

// Valid reports whether the code is one of the known recurrence rules.
func (c OfferingCode) Valid() bool {
	_, ok := offeringDescriptions[c]
	return ok
}

// Description renders the rule for people, e.g. "odd-year falls".
func (c OfferingCode) Description() string {
	if desc, ok := offeringDescriptions[c]; ok {
		return desc
	}
	return "unknown pattern"
}

// OfferedIn applies the recurrence rule to a semester. Unknown codes are never offered.
func (c OfferingCode) OfferedIn(semester Semester) bool {
	odd := semester.Year%2 != 0
	fall := semester.Season == SeasonFall
	spring := semester.Season == SeasonSpring
	switch c {
	case OfferingEverySemester:
		return true
	case OfferingEveryFall:
		return fall
	case OfferingEverySpring:
		return spring
	case OfferingOddFall:
		return fall && odd
	case OfferingEvenFall:
		return fall && !odd
	case OfferingOddSpring:
		return spring && odd
	case OfferingEvenSpring:
		return spring && !odd
	default:
		return false
	}
}

// NextOffering returns the first semester at or after from in which the rule offers the course.
func (c OfferingCode) NextOffering(from Semester) (Semester, bool) {
	if !c.Valid() {
		return Semester{}, false
	}
	candidate := from
	// every rule repeats within two years, i.e. four semesters
	for i := 0; i < 4; i++ {
		if c.OfferedIn(candidate) {
			return candidate, true
		}
		candidate = candidate.Next()
	}
	return Semester{}, false
}
