package suitability

// KeywordData carries the optional scalar metadata that accompanies flat keyword lists.
type KeywordData struct {
	CandidateYearsExperience *float64            `json:"candidateYearsExperience,omitempty"`
	RequiredYearsExperience  *float64            `json:"requiredYearsExperience,omitempty"`
	CandidateEducationLevel  *int                `json:"candidateEducationLevel,omitempty"`
	RequiredEducationLevel   *int                `json:"requiredEducationLevel,omitempty"`
	CandidateLanguages       []string            `json:"candidateLanguages,omitempty"`
	RequiredLanguages        []string            `json:"requiredLanguages,omitempty"`
	CustomWeights            *PartialWeights     `json:"customWeights,omitempty"`
	WeightExplanations       *WeightExplanations `json:"weightExplanations,omitempty"`
}

// CalculateFromKeywords builds a minimal profile and requirements from flat keyword lists and
// delegates to Calculate.
func (c *Calculator) CalculateFromKeywords(cvKeywords, jdKeywords, mustHave []string, extra *KeywordData) *Result {
	if extra == nil {
		extra = &KeywordData{}
	}

	profile := CandidateProfile{
		Skills:               cvKeywords,
		TotalYearsExperience: extra.CandidateYearsExperience,
	}
	if extra.CandidateEducationLevel != nil {
		profile.Education = []Education{{Level: extra.CandidateEducationLevel}}
	}
	for _, name := range extra.CandidateLanguages {
		profile.Languages = append(profile.Languages, Language{Name: name})
	}

	requirements := JobRequirements{
		RequiredSkills:          jdKeywords,
		PreferredSkills:         []string{},
		MustHaveSkills:          mustHave,
		RequiredYearsExperience: extra.RequiredYearsExperience,
		RequiredEducationLevel:  extra.RequiredEducationLevel,
		RequiredLanguages:       extra.RequiredLanguages,
	}

	return c.Calculate(profile, requirements, extra.CustomWeights, extra.WeightExplanations)
}

// CalculateSuitabilityFromKeywords runs CalculateFromKeywords with the default Calculator.
func CalculateSuitabilityFromKeywords(cvKeywords, jdKeywords, mustHave []string, extra *KeywordData) *Result {
	return defaultCalculator.CalculateFromKeywords(cvKeywords, jdKeywords, mustHave, extra)
}
