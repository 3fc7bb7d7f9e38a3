// Package suitability scores how well a candidate profile fits a set of job requirements.
//
// Every exported function is deterministic and free of shared mutable state, so a single
// Calculator can be used from many goroutines at once.
package suitability

// Education level scale shared by candidate profiles and job requirements.
const (
	LevelHighSchool = 1
	LevelAssociate  = 2
	LevelBachelor   = 3
	LevelMaster     = 4
	LevelPhD        = 5
)

// CandidateProfile is the subset of an extracted resume used for scoring.
type CandidateProfile struct {
	Skills               []string    `json:"skills"`
	TotalYearsExperience *float64    `json:"totalYearsExperience,omitempty"`
	Education            []Education `json:"education,omitempty"`
	Languages            []Language  `json:"languages,omitempty"`
}

// Education is a single education entry. Level follows the 1..5 scale; when it is missing the
// degree name is used to infer one.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        *int   `json:"year,omitempty"`
	Level       *int   `json:"level,omitempty"`
}

// Language is a spoken language listed on a resume.
type Language struct {
	Name        string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// JobRequirements is the subset of an extracted job description used for scoring.
type JobRequirements struct {
	RequiredSkills          []string `json:"requiredSkills"`
	PreferredSkills         []string `json:"preferredSkills,omitempty"`
	MustHaveSkills          []string `json:"mustHaveSkills,omitempty"`
	RequiredYearsExperience *float64 `json:"requiredYearsExperience,omitempty"`
	RequiredEducationLevel  *int     `json:"requiredEducationLevel,omitempty"`
	RequiredLanguages       []string `json:"requiredLanguages,omitempty"`
}

// WeightExplanations carries a human readable justification per scoring dimension.
// It never affects computation.
type WeightExplanations struct {
	Skills     string `json:"skills,omitempty" mapstructure:"skills"`
	Experience string `json:"experience,omitempty" mapstructure:"experience"`
	Education  string `json:"education,omitempty" mapstructure:"education"`
	Language   string `json:"language,omitempty" mapstructure:"language"`
}

// SubScores holds the per-dimension scores, each in [0,1].
type SubScores struct {
	SkillsScore     float64 `json:"skillsScore"`
	ExperienceScore float64 `json:"experienceScore"`
	EducationScore  float64 `json:"educationScore"`
	LanguageScore   float64 `json:"languageScore"`
}

// Result is the outcome of a suitability calculation.
type Result struct {
	OverallScore          float64             `json:"overallScore"`
	SubScores             SubScores           `json:"subScores"`
	Weights               Weights             `json:"weights"`
	WeightExplanations    *WeightExplanations `json:"weightExplanations,omitempty"`
	MatchedSkills         []string            `json:"matchedSkills"`
	MissingSkills         []string            `json:"missingSkills"`
	MissingMustHaveSkills []string            `json:"missingMustHaveSkills"`
	MatchedLanguages      []string            `json:"matchedLanguages"`
	MissingLanguages      []string            `json:"missingLanguages"`
	HasMustHavePenalty    bool                `json:"hasMustHavePenalty"`
}

// Float returns a pointer to v. Handy for optional fields in literals.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
