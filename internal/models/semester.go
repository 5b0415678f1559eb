package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Season is the half of the academic year a semester falls in.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonFall   Season = "Fall"
)

// Token prefixes used on the wire.
const (
	springPrefix = "sp"
	fallPrefix   = "fa"
)

// Semester identifies a term such as Spring 2026. Within a year Spring precedes Fall.
type Semester struct {
	Season Season `json:"season"`
	Year   int    `json:"year"`
}

// ParseSemester decodes a six character token such as "sp2026" or "fa2025".
func ParseSemester(token string) (Semester, error) {
	if len(token) != 6 {
		return Semester{}, fmt.Errorf("semester token %q: want 6 characters", token)
	}
	var season Season
	switch token[:2] {
	case springPrefix:
		season = SeasonSpring
	case fallPrefix:
		season = SeasonFall
	default:
		return Semester{}, fmt.Errorf("semester token %q: unknown season prefix %q", token, token[:2])
	}
	digits := token[2:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Semester{}, fmt.Errorf("semester token %q: year must be 4 digits", token)
		}
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return Semester{}, fmt.Errorf("semester token %q: %w", token, err)
	}
	return Semester{Season: season, Year: year}, nil
}

// ParseSemesterLabel accepts either a token ("fa2026") or a label such as "Fall 2026" or "spring 2027".
func ParseSemesterLabel(raw string) (Semester, error) {
	trimmed := strings.TrimSpace(raw)
	if sem, err := ParseSemester(strings.ToLower(trimmed)); err == nil {
		return sem, nil
	}
	fields := strings.Fields(trimmed)
	if len(fields) != 2 {
		return Semester{}, fmt.Errorf("semester label %q: want \"<Season> <Year>\"", raw)
	}
	var season Season
	switch strings.ToLower(fields[0]) {
	case "spring", "sp":
		season = SeasonSpring
	case "fall", "fa", "autumn":
		season = SeasonFall
	default:
		return Semester{}, fmt.Errorf("semester label %q: unknown season", raw)
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil || year < 1000 || year > 9999 {
		return Semester{}, fmt.Errorf("semester label %q: invalid year", raw)
	}
	return Semester{Season: season, Year: year}, nil
}

// Token renders the wire form, e.g. "sp2026".
func (s Semester) Token() string {
	prefix := springPrefix
	if s.Season == SeasonFall {
		prefix = fallPrefix
	}
	return fmt.Sprintf("%s%04d", prefix, s.Year)
}

// String renders the human form, e.g. "Spring 2026".
func (s Semester) String() string {
	return fmt.Sprintf("%s %d", s.Season, s.Year)
}

// Compare orders semesters by year then season.
func (s Semester) Compare(other Semester) int {
	switch {
	case s.Year < other.Year:
		return -1
	case s.Year > other.Year:
		return 1
	}
	return seasonRank(s.Season) - seasonRank(other.Season)
}

// Before reports whether s is strictly earlier than other.
func (s Semester) Before(other Semester) bool {
	return s.Compare(other) < 0
}

// Next returns the semester immediately after s.
func (s Semester) Next() Semester {
	if s.Season == SeasonSpring {
		return Semester{Season: SeasonFall, Year: s.Year}
	}
	return Semester{Season: SeasonSpring, Year: s.Year + 1}
}

func seasonRank(season Season) int {
	if season == SeasonFall {
		return 1
	}
	return 0
}
