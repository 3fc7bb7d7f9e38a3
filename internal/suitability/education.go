package suitability

import (
	"regexp"
	"strings"
)

// degreePatterns infer an education level from a degree name. They are tried in order, so
// the highest matching level wins within a single entry.
var degreePatterns = []struct {
	level int
	re    *regexp.Regexp
}{
	{LevelPhD, regexp.MustCompile(`phd|ph\.d|doctorate`)},
	{LevelMaster, regexp.MustCompile(`master|msc|mba`)},
	{LevelBachelor, regexp.MustCompile(`bachelor|bsc|\bba\b`)},
	{LevelAssociate, regexp.MustCompile(`associate`)},
	{LevelHighSchool, regexp.MustCompile(`high school|diploma`)},
}

// HighestEducationLevel returns the highest explicit level in [1,5] across entries. When no
// entry carries a usable level, the first entry whose degree name is recognized decides.
// It returns nil when nothing is known.
func HighestEducationLevel(entries []Education) *int {
	highest := 0
	for _, e := range entries {
		if e.Level == nil {
			continue
		}
		if lvl := *e.Level; lvl >= LevelHighSchool && lvl <= LevelPhD && lvl > highest {
			highest = lvl
		}
	}
	if highest > 0 {
		return Int(highest)
	}

	for _, e := range entries {
		if lvl := InferEducationLevel(e.Degree); lvl > 0 {
			return Int(lvl)
		}
	}

	return nil
}

// InferEducationLevel maps a degree name to a level, or 0 if it is not recognized.
func InferEducationLevel(degree string) int {
	d := strings.ToLower(strings.TrimSpace(degree))
	if d == "" {
		return 0
	}
	for _, p := range degreePatterns {
		if p.re.MatchString(d) {
			return p.level
		}
	}
	return 0
}
