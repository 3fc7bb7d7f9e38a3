package filtering

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/ai"
)

var jsSuffix = regexp.MustCompile(`(?i)\.js$`)

type blankKeywordsFilter struct {
	toggle
}

// NewBlankKeywords creates a filter that drops empty and whitespace-only keywords from every list.
func NewBlankKeywords() Filter {
	return &blankKeywordsFilter{}
}

func (f *blankKeywordsFilter) Name() string { return "blank_keywords" }

func (f *blankKeywordsFilter) Validate(*Config) error { return nil }

func (f *blankKeywordsFilter) Apply(_ context.Context, _ Deps, e *ai.Extraction) (Step, error) {
	initial := len(e.JDKeywords) + len(e.CVKeywords) + len(e.MustHaveKeywords)

	e.JDKeywords = dropBlank(e.JDKeywords)
	e.CVKeywords = dropBlank(e.CVKeywords)
	e.MustHaveKeywords = dropBlank(e.MustHaveKeywords)

	left := len(e.JDKeywords) + len(e.CVKeywords) + len(e.MustHaveKeywords)
	return Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *blankKeywordsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

func dropBlank(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			out = append(out, k)
		}
	}
	return out
}

type hallucinatedCVKeywordsFilter struct {
	toggle
}

// NewHallucinatedCVKeywords creates a filter that drops CV keywords the resume text never mentions.
func NewHallucinatedCVKeywords() Filter {
	return &hallucinatedCVKeywordsFilter{}
}

func (f *hallucinatedCVKeywordsFilter) Name() string { return "hallucinated_cv_keywords" }

func (f *hallucinatedCVKeywordsFilter) Validate(*Config) error { return nil }

func (f *hallucinatedCVKeywordsFilter) Apply(_ context.Context, deps Deps, e *ai.Extraction) (Step, error) {
	initial := len(e.CVKeywords)

	resume := strings.ToLower(deps.Documents.ResumeText)
	if strings.TrimSpace(resume) == "" {
		if deps.Logger != nil {
			deps.Logger.Info("resume text is empty; keeping cv keywords as is")
		}
		return Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]string, 0, len(e.CVKeywords))
	dropped := make([]string, 0)
	for _, keyword := range e.CVKeywords {
		if mentioned(resume, keyword) {
			kept = append(kept, keyword)
		} else {
			dropped = append(dropped, keyword)
		}
	}
	e.CVKeywords = kept

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("dropping cv keywords not found in resume",
			zap.Strings("dropped_keywords", dropped),
			zap.Int("keywords_left", len(kept)),
		)
	}

	return Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *hallucinatedCVKeywordsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

// mentioned reports whether resume (already lowercased) contains keyword as is, without dots,
// or without a trailing ".js".
func mentioned(resume, keyword string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return false
	}

	return strings.Contains(resume, k) ||
		strings.Contains(resume, strings.ReplaceAll(k, ".", "")) ||
		strings.Contains(resume, jsSuffix.ReplaceAllString(k, ""))
}
