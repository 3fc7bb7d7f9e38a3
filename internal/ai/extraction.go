package ai

import (
	"context"

	"github.com/spigell/fit-scorer/internal/suitability"
)

// MaxSuggestions caps how many improvement suggestions are kept from a model response.
const MaxSuggestions = 6

// DefaultSuggestion is returned when the model does not produce any suggestions.
var DefaultSuggestion = Suggestion{
	Category: "General",
	Text:     "Resume looks good, consider tailoring keywords more closely to the job.",
	Priority: "medium",
}

// Documents are the raw texts an Extractor works on.
type Documents struct {
	JobTitle       string
	JobDescription string
	ResumeText     string
}

// Signals are coarse hints the model gives about what the role emphasizes.
type Signals struct {
	ExperienceHeavy   bool `json:"isExperienceHeavy"`
	EducationRequired bool `json:"isEducationRequired"`
	LanguageCritical  bool `json:"isLanguageCritical"`
	SkillsHeavy       bool `json:"isSkillsHeavy"`
}

// Suggestion is a single resume improvement hint.
type Suggestion struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// Extraction is the structured data pulled out of a job description and a resume.
type Extraction struct {
	JDKeywords       []string `json:"jdKeywords"`
	CVKeywords       []string `json:"cvKeywords"`
	MustHaveKeywords []string `json:"mustHaveKeywords"`

	Weights      *suitability.PartialWeights     `json:"weights,omitempty"`
	Explanations *suitability.WeightExplanations `json:"explanations,omitempty"`
	Signals      Signals                         `json:"signals"`

	CandidateYearsExperience *float64                `json:"candidateYearsExperience,omitempty"`
	CandidateEducation       []suitability.Education `json:"candidateEducation,omitempty"`
	CandidateLanguages       []string                `json:"candidateLanguages,omitempty"`

	RequiredYearsExperience *float64 `json:"requiredYearsExperience,omitempty"`
	RequiredEducationLevel  *int     `json:"requiredEducationLevel,omitempty"`
	RequiredLanguages       []string `json:"requiredLanguages,omitempty"`

	Suggestions []Suggestion `json:"suggestions"`

	Raw string `json:"-"`
}

// Extractor turns free text documents into an Extraction.
type Extractor interface {
	Extract(ctx context.Context, docs Documents) (*Extraction, error)
}

// KeywordData converts the scalar parts of the extraction into scoring metadata.
// The candidate education level is the highest level across all extracted entries.
func (e *Extraction) KeywordData() *suitability.KeywordData {
	if e == nil {
		return nil
	}

	return &suitability.KeywordData{
		CandidateYearsExperience: e.CandidateYearsExperience,
		RequiredYearsExperience:  e.RequiredYearsExperience,
		CandidateEducationLevel:  suitability.HighestEducationLevel(e.CandidateEducation),
		RequiredEducationLevel:   e.RequiredEducationLevel,
		CandidateLanguages:       e.CandidateLanguages,
		RequiredLanguages:        e.RequiredLanguages,
		CustomWeights:            e.Weights,
		WeightExplanations:       e.Explanations,
	}
}

// Score runs the keyword adapter of calc over the extraction.
func (e *Extraction) Score(calc *suitability.Calculator) *suitability.Result {
	if calc == nil {
		calc = suitability.New()
	}
	return calc.CalculateFromKeywords(e.CVKeywords, e.JDKeywords, e.MustHaveKeywords, e.KeywordData())
}
