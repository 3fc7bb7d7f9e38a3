package suitability

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var skillPool = []string{
	"Go", "golang", "Java", "JavaScript", "JS", "TypeScript", "React", "react.js", "Node.js",
	"Python", "py", "C++", "C#", "PostgreSQL", "Postgres", "MongoDB", "Kubernetes", "k8s",
	"AWS", "GCP", "CI/CD", "Continuous Integration", "Machine Learning", "ML", "Docker",
	"Terraform", "Kafka", "Redis", "", "  ",
}

func pick(rng *rand.Rand, limit int) []string {
	n := rng.Intn(limit + 1)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, skillPool[rng.Intn(len(skillPool))])
	}
	return out
}

func TestScoreSkillsProperties(t *testing.T) {
	t.Parallel()

	m := DefaultMatcher()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		candidate := pick(rng, 6)
		job := pick(rng, 8)
		mustHave := pick(rng, 4)

		before := m.ScoreSkills(candidate, job, mustHave)
		assert.GreaterOrEqual(t, before.Score, 0.0, "case %d", i)
		assert.LessOrEqual(t, before.Score, before.BaseScore, "case %d", i)
		assert.LessOrEqual(t, before.BaseScore, 1.0, "case %d", i)

		if len(job) == 0 {
			continue
		}

		extended := append(append([]string(nil), candidate...), job[rng.Intn(len(job))])
		after := m.ScoreSkills(extended, job, mustHave)
		assert.GreaterOrEqual(t, after.Score, before.Score,
			"adding a job skill to %v lowered the score for job %v, must-have %v", candidate, job, mustHave)
		assert.GreaterOrEqual(t, after.BaseScore, before.BaseScore, "case %d", i)
	}
}

func TestCalculateDropsWhenMustHaveMatchRemoved(t *testing.T) {
	t.Parallel()

	calc := New()
	rng := rand.New(rand.NewSource(7))

	checked := 0
	for i := 0; i < 1000; i++ {
		requirements := JobRequirements{
			RequiredSkills:          pick(rng, 6),
			PreferredSkills:         pick(rng, 3),
			MustHaveSkills:          pick(rng, 3),
			RequiredYearsExperience: Float(float64(rng.Intn(8))),
			RequiredLanguages:       []string{"English"},
		}
		profile := CandidateProfile{
			Skills:               pick(rng, 6),
			TotalYearsExperience: Float(float64(rng.Intn(10))),
			Languages:            []Language{{Name: "English"}},
		}

		idx := -1
		for j, skill := range profile.Skills {
			for _, must := range requirements.MustHaveSkills {
				if calc.Matcher().Match(skill, must) {
					idx = j
				}
			}
		}
		if idx < 0 {
			continue
		}
		checked++

		before := calc.Calculate(profile, requirements, nil, nil)

		reduced := profile
		reduced.Skills = append(append([]string(nil), profile.Skills[:idx]...), profile.Skills[idx+1:]...)
		after := calc.Calculate(reduced, requirements, nil, nil)

		assert.LessOrEqual(t, after.OverallScore, before.OverallScore,
			"removing %q from %v raised the score", profile.Skills[idx], profile.Skills)
		assert.LessOrEqual(t, after.SubScores.SkillsScore, before.SubScores.SkillsScore, "case %d", i)
	}

	require.Greater(t, checked, 20, "too few cases exercised a must-have match")
}

func TestHighestEducationLevelIgnoresOutOfScaleLevels(t *testing.T) {
	t.Parallel()

	assert.Nil(t, HighestEducationLevel([]Education{{Level: Int(7)}}))
	assert.Equal(t, Int(LevelMaster), HighestEducationLevel([]Education{{Level: Int(7)}, {Degree: "MSc"}}))

	res := New().CalculateFromKeywords([]string{"Go"}, []string{"Go"}, nil, &KeywordData{
		CandidateEducationLevel: Int(7),
		RequiredEducationLevel:  Int(LevelBachelor),
	})
	assert.Equal(t, 0.5, res.SubScores.EducationScore)
}
