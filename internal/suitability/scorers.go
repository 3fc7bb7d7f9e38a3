package suitability

import "math"

const (
	// MustHavePenaltyMultiplier scales the share of missing must-have skills into a penalty.
	MustHavePenaltyMultiplier = 0.5

	// unknownCredit is the partial credit given when a requirement exists but the candidate
	// value is unknown.
	unknownCredit = 0.5
)

// SkillsMatch is the outcome of comparing candidate skills with a job skill pool.
type SkillsMatch struct {
	Matched            []string
	Missing            []string
	MissingMustHave    []string
	BaseScore          float64
	Score              float64
	HasMustHavePenalty bool
}

// LanguageMatch is the outcome of comparing candidate languages with required languages.
type LanguageMatch struct {
	Matched []string
	Missing []string
	Score   float64
}

// ScoreSkills matches every job skill against the candidate's skills. The base score is the
// matched share of the job pool; each missing must-have skill then costs a proportional share
// of MustHavePenaltyMultiplier. An empty job pool earns full credit.
func (m *Matcher) ScoreSkills(candidate, jobSkills, mustHave []string) SkillsMatch {
	res := SkillsMatch{
		Matched:         make([]string, 0, len(jobSkills)),
		Missing:         make([]string, 0),
		MissingMustHave: make([]string, 0),
	}

	if len(jobSkills) == 0 {
		res.BaseScore = 1
		res.Score = 1
		return res
	}

	for _, skill := range jobSkills {
		if m.containsMatch(candidate, skill) {
			res.Matched = append(res.Matched, skill)
		} else {
			res.Missing = append(res.Missing, skill)
		}
	}

	res.BaseScore = float64(len(res.Matched)) / float64(len(jobSkills))
	res.Score = res.BaseScore

	critical := m.dedupe(mustHave)
	for _, skill := range critical {
		if !m.containsMatch(candidate, skill) {
			res.MissingMustHave = append(res.MissingMustHave, skill)
		}
	}

	if len(res.MissingMustHave) > 0 {
		res.HasMustHavePenalty = true
		penalty := float64(len(res.MissingMustHave)) / float64(len(critical)) * MustHavePenaltyMultiplier
		res.Score = math.Max(0, res.BaseScore-penalty)
	}

	return res
}

// ScoreLanguages reports which required languages the candidate speaks.
func (m *Matcher) ScoreLanguages(candidate, required []string) LanguageMatch {
	res := LanguageMatch{
		Matched: make([]string, 0, len(required)),
		Missing: make([]string, 0),
		Score:   1,
	}

	if len(required) == 0 {
		return res
	}

	for _, lang := range required {
		found := false
		for _, c := range candidate {
			if m.MatchLanguage(c, lang) {
				found = true
				break
			}
		}
		if found {
			res.Matched = append(res.Matched, lang)
		} else {
			res.Missing = append(res.Missing, lang)
		}
	}

	res.Score = float64(len(res.Matched)) / float64(len(required))
	return res
}

// ScoreExperience compares candidate years with the required years.
func ScoreExperience(candidate, required *float64) float64 {
	switch {
	case required == nil || *required <= 0:
		return 1
	case candidate == nil || *candidate < 0:
		return unknownCredit
	default:
		return math.Min(1, *candidate / *required)
	}
}

// ScoreEducation compares candidate and required education levels.
func ScoreEducation(candidate, required *int) float64 {
	switch {
	case required == nil || *required <= 0:
		return 1
	case candidate == nil || *candidate <= 0:
		return unknownCredit
	default:
		return math.Min(1, float64(*candidate)/float64(*required))
	}
}

// dedupe drops entries that normalize to an already seen keyword, keeping the first
// occurrence. Entries that normalize to nothing are kept so they are still reported as missing.
func (m *Matcher) dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		n := m.Normalize(k)
		if n != "" {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
		}
		out = append(out, k)
	}
	return out
}
