package suitability

import (
	"math"

	"go.uber.org/zap"
)

// Calculator combines the dimension scorers into a single weighted result.
type Calculator struct {
	matcher *Matcher
	logger  *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMatcher replaces the default keyword matcher.
func WithMatcher(m *Matcher) Option {
	return func(c *Calculator) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithLogger enables debug tracing of every calculation.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Calculator using the default alias table and a no-op logger unless overridden.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		matcher: DefaultMatcher(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Matcher returns the keyword matcher used by c.
func (c *Calculator) Matcher() *Matcher { return c.matcher }

var defaultCalculator = New()

// CalculateSuitability scores profile against requirements with the default Calculator.
func CalculateSuitability(profile CandidateProfile, requirements JobRequirements, weights *PartialWeights, explanations *WeightExplanations) *Result {
	return defaultCalculator.Calculate(profile, requirements, weights, explanations)
}

// ScoreSkills runs Matcher.ScoreSkills with the default alias table.
func ScoreSkills(candidate, jobSkills, mustHave []string) SkillsMatch {
	return defaultCalculator.matcher.ScoreSkills(candidate, jobSkills, mustHave)
}

// ScoreLanguages runs Matcher.ScoreLanguages with the default alias table.
func ScoreLanguages(candidate, required []string) LanguageMatch {
	return defaultCalculator.matcher.ScoreLanguages(candidate, required)
}

// Calculate scores profile against requirements. Candidate skills are compared with the union
// of required and preferred job skills. The returned Result is freshly allocated and shares no
// slices with the inputs.
func (c *Calculator) Calculate(profile CandidateProfile, requirements JobRequirements, weights *PartialWeights, explanations *WeightExplanations) *Result {
	w := ValidateWeights(weights)

	pool := make([]string, 0, len(requirements.RequiredSkills)+len(requirements.PreferredSkills))
	pool = append(pool, requirements.RequiredSkills...)
	pool = append(pool, requirements.PreferredSkills...)

	skills := c.matcher.ScoreSkills(profile.Skills, pool, requirements.MustHaveSkills)
	experience := ScoreExperience(profile.TotalYearsExperience, requirements.RequiredYearsExperience)
	education := ScoreEducation(HighestEducationLevel(profile.Education), requirements.RequiredEducationLevel)

	spoken := make([]string, 0, len(profile.Languages))
	for _, l := range profile.Languages {
		spoken = append(spoken, l.Name)
	}
	languages := c.matcher.ScoreLanguages(spoken, requirements.RequiredLanguages)

	weighted := w.Skills*skills.Score +
		w.Experience*experience +
		w.Language*languages.Score +
		w.Education*education

	res := &Result{
		OverallScore: round1(weighted * 100),
		SubScores: SubScores{
			SkillsScore:     skills.Score,
			ExperienceScore: experience,
			EducationScore:  education,
			LanguageScore:   languages.Score,
		},
		Weights:               w,
		MatchedSkills:         skills.Matched,
		MissingSkills:         skills.Missing,
		MissingMustHaveSkills: skills.MissingMustHave,
		MatchedLanguages:      languages.Matched,
		MissingLanguages:      languages.Missing,
		HasMustHavePenalty:    skills.HasMustHavePenalty,
	}

	if explanations != nil {
		e := *explanations
		res.WeightExplanations = &e
	}

	if ce := c.logger.Check(zap.DebugLevel, "suitability calculated"); ce != nil {
		ce.Write(
			zap.Float64("overall_score", res.OverallScore),
			zap.Float64("skills_base_score", skills.BaseScore),
			zap.Float64("skills_score", skills.Score),
			zap.Float64("experience_score", experience),
			zap.Float64("education_score", education),
			zap.Float64("language_score", languages.Score),
			zap.Int("job_skills", len(pool)),
			zap.Int("matched_skills", len(skills.Matched)),
			zap.Strings("missing_must_have", skills.MissingMustHave),
			zap.Bool("must_have_penalty", skills.HasMustHavePenalty),
		)
	}

	return res
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
