package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/fit-scorer/internal/ai"
	"github.com/spigell/fit-scorer/internal/suitability"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const fullResponse = "```json\n" + `{
  "jdKeywords": ["Go", "Kubernetes", " ", 42],
  "cvKeywords": ["golang", "k8s"],
  "mustHaveKeywords": ["Go"],
  "scoringWeights": {
    "weights": {"skills": 0.6, "experience": 0.2, "education": 0.1, "language": 0.1},
    "explanations": {"skills": "platform role", "experience": null},
    "signals": {"isExperienceHeavy": "yes", "isSkillsHeavy": true}
  },
  "suggestions": [{"category": "Skills", "text": "Mention Helm", "priority": "High"}],
  "extractedProfile": {
    "totalYearsExperience": "6",
    "education": [{"degree": "BSc", "level": 3}, {"degree": "MSc", "level": 4}],
    "languages": [{"language": "English", "proficiency": "C1"}, "German"]
  },
  "extractedJobRequirements": {
    "requiredYearsExperience": 5,
    "requiredEducationLevel": 3,
    "requiredLanguages": ["English"]
  }
}` + "\n```"

func TestExtractorExtract(t *testing.T) {
	stub := &stubGenerator{response: fullResponse}
	extractor := NewExtractor(stub, zap.NewNop(), 0, 0)

	got, err := extractor.Extract(context.Background(), ai.Documents{
		JobTitle:       "Platform Engineer",
		JobDescription: "We need Go and Kubernetes.",
		ResumeText:     "Golang developer, k8s operator.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(got.JDKeywords, ",") != "Go,Kubernetes" {
		t.Fatalf("unexpected jd keywords: %v", got.JDKeywords)
	}
	if len(got.MustHaveKeywords) != 1 || got.MustHaveKeywords[0] != "Go" {
		t.Fatalf("unexpected must-have keywords: %v", got.MustHaveKeywords)
	}
	if got.Weights == nil || got.Weights.Skills == nil || *got.Weights.Skills != 0.6 {
		t.Fatalf("unexpected weights: %+v", got.Weights)
	}
	if got.Explanations == nil || got.Explanations.Skills != "platform role" {
		t.Fatalf("unexpected explanations: %+v", got.Explanations)
	}
	if !got.Signals.ExperienceHeavy || !got.Signals.SkillsHeavy || got.Signals.LanguageCritical {
		t.Fatalf("unexpected signals: %+v", got.Signals)
	}
	if got.CandidateYearsExperience == nil || *got.CandidateYearsExperience != 6 {
		t.Fatalf("expected 6 candidate years, got %v", got.CandidateYearsExperience)
	}
	if len(got.CandidateEducation) != 2 {
		t.Fatalf("expected 2 education entries, got %d", len(got.CandidateEducation))
	}
	if strings.Join(got.CandidateLanguages, ",") != "English,German" {
		t.Fatalf("unexpected candidate languages: %v", got.CandidateLanguages)
	}
	if got.RequiredEducationLevel == nil || *got.RequiredEducationLevel != 3 {
		t.Fatalf("unexpected required education level: %v", got.RequiredEducationLevel)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0].Priority != "high" {
		t.Fatalf("unexpected suggestions: %+v", got.Suggestions)
	}
	if got.Raw != fullResponse {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}
	for _, want := range []string{"Job title: Platform Engineer", "We need Go and Kubernetes.", "Golang developer, k8s operator."} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}

	data := got.KeywordData()
	if data.CandidateEducationLevel == nil || *data.CandidateEducationLevel != suitability.LevelMaster {
		t.Fatalf("expected highest education level, got %v", data.CandidateEducationLevel)
	}
}

func TestExtractorTruncatesInputs(t *testing.T) {
	stub := &stubGenerator{response: `{}`}
	extractor := NewExtractor(stub, nil, 10, 0)

	_, err := extractor.Extract(context.Background(), ai.Documents{
		JobDescription: strings.Repeat("j", 50),
		ResumeText:     strings.Repeat("r", 50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stub.lastPrompt, strings.Repeat("j", 11)) {
		t.Fatalf("expected job description to be truncated")
	}
	if !strings.Contains(stub.lastPrompt, strings.Repeat("r", 10)) {
		t.Fatalf("expected truncated resume in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Job title: Not provided") {
		t.Fatalf("expected placeholder job title")
	}
}

func TestExtractorRequiresDocuments(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{response: `{}`}, nil, 0, 0)

	if _, err := extractor.Extract(context.Background(), ai.Documents{ResumeText: "cv"}); err == nil {
		t.Fatal("expected error for missing job description")
	}
	if _, err := extractor.Extract(context.Background(), ai.Documents{JobDescription: "jd", ResumeText: "  "}); err == nil {
		t.Fatal("expected error for missing resume")
	}
}

func TestExtractorPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	extractor := NewExtractor(&stubGenerator{err: boom}, nil, 0, 0)

	_, err := extractor.Extract(context.Background(), ai.Documents{JobDescription: "jd", ResumeText: "cv"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestParseResponseDefaults(t *testing.T) {
	got, err := parseResponse(`{"jdKeywords": "not a list"}`, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.JDKeywords == nil || len(got.JDKeywords) != 0 {
		t.Fatalf("expected empty jd keywords, got %v", got.JDKeywords)
	}
	if got.Weights != nil {
		t.Fatalf("expected nil weights, got %+v", got.Weights)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != ai.DefaultSuggestion {
		t.Fatalf("expected default suggestion, got %+v", got.Suggestions)
	}
	if got.CandidateYearsExperience != nil {
		t.Fatalf("expected unknown candidate years")
	}

	if _, err := parseResponse("not json", zap.NewNop()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseResponseRejectsStringWeights(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	got, err := parseResponse(`{"scoringWeights": {"weights": {"skills": "high"}}}`, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Weights != nil {
		t.Fatalf("expected malformed weights to be dropped, got %+v", got.Weights)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a warning about malformed weights, got %d entries", logs.Len())
	}
	if suitability.ValidateWeights(got.Weights) != suitability.DefaultWeights {
		t.Fatalf("expected default weights")
	}
}

func TestSuggestionsAreCapped(t *testing.T) {
	items := make([]any, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, map[string]any{"text": "tip", "category": "General"})
	}

	got := coerceSuggestions(items)
	if len(got) != ai.MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %d", ai.MaxSuggestions, len(got))
	}
	if got[0].Priority != "medium" {
		t.Fatalf("expected default priority, got %q", got[0].Priority)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}

	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q): expected %q, got %q", in, want, got)
		}
	}
}
