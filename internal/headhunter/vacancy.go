package headhunter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/fit-scorer/internal/suitability"
)

// Experience bucket identifiers used by hh.ru.
const (
	ExperienceNone         = "noExperience"
	ExperienceBetween1And3 = "between1And3"
	ExperienceBetween3And6 = "between3And6"
	ExperienceMoreThan6    = "moreThan6"
)

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Experience struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Languages []struct {
		ID    string `json:"id,omitempty"`
		Name  string `json:"name,omitempty"`
		Level struct {
			ID   string `json:"id,omitempty"`
			Name string `json:"name,omitempty"`
		} `json:"level,omitempty"`
	} `json:"languages,omitempty"`
	Archived bool `json:"archived,omitempty"`
}

// Skills returns the non-empty key skill names in API order.
func (v *Vacancy) Skills() []string {
	skills := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skills = append(skills, name)
		}
	}
	return skills
}

// RequiredYears maps the experience bucket to the lower bound of years it implies.
// It returns nil when the vacancy does not require experience or the bucket is unknown.
func (v *Vacancy) RequiredYears() *float64 {
	switch v.Experience.ID {
	case ExperienceBetween1And3:
		return suitability.Float(1)
	case ExperienceBetween3And6:
		return suitability.Float(3)
	case ExperienceMoreThan6:
		return suitability.Float(6)
	default:
		return nil
	}
}

// Requirements converts the vacancy into scoring requirements. Key skills become required
// skills; hh.ru has no notion of must-have skills, so that list stays empty.
func (v *Vacancy) Requirements() suitability.JobRequirements {
	languages := make([]string, 0, len(v.Languages))
	for _, l := range v.Languages {
		if name := strings.TrimSpace(l.Name); name != "" {
			languages = append(languages, name)
		}
	}

	return suitability.JobRequirements{
		RequiredSkills:          v.Skills(),
		PreferredSkills:         []string{},
		MustHaveSkills:          []string{},
		RequiredYearsExperience: v.RequiredYears(),
		RequiredLanguages:       languages,
	}
}

// PlainDescription renders the HTML description as plain text, one block element per line.
func (v *Vacancy) PlainDescription() (string, error) {
	if strings.TrimSpace(v.Description) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v.Description))
	if err != nil {
		return "", fmt.Errorf("parse vacancy description: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, div, h1, h2, h3, h4, ul, ol").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n"), nil
}
