package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/ai"
	"github.com/spigell/fit-scorer/internal/suitability"
	"github.com/spigell/fit-scorer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction = "You are an ATS resume analyzer doing strict structured information extraction. " +
		"You never invent, infer or paraphrase terms that are not present in the input."

	defaultMaxLogLength = 200
	defaultInputRunes   = 3000
)

// Extractor pulls keywords, weights and scalar requirements out of a job description and a
// resume using a Gemini model.
type Extractor struct {
	generator  contentGenerator
	logger     *zap.Logger
	inputRunes int
	maxLogLen  int
}

var _ ai.Extractor = (*Extractor)(nil)

// NewExtractor builds an Extractor. Each input document is cut to inputRunes runes before it is
// sent; maxLogLength bounds prompt and response previews in debug logs.
func NewExtractor(generator contentGenerator, log *zap.Logger, inputRunes, maxLogLength int) *Extractor {
	if inputRunes <= 0 {
		inputRunes = defaultInputRunes
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{
		generator:  generator,
		logger:     log,
		inputRunes: inputRunes,
		maxLogLen:  maxLogLength,
	}
}

func (e *Extractor) Extract(ctx context.Context, docs ai.Documents) (*ai.Extraction, error) {
	jd := strings.TrimSpace(utils.TruncateRunes(docs.JobDescription, e.inputRunes))
	resume := strings.TrimSpace(utils.TruncateRunes(docs.ResumeText, e.inputRunes))

	if jd == "" {
		return nil, fmt.Errorf("job description is required")
	}
	if resume == "" {
		return nil, fmt.Errorf("resume text is required")
	}

	prompt := buildPrompt(docs.JobTitle, jd, resume)

	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	extraction, err := parseResponse(raw, e.logger)
	if err != nil {
		return nil, err
	}

	extraction.Raw = raw
	return extraction, nil
}

func buildPrompt(title, jd, resume string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Not provided"
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job title: {{JOB_TITLE}}\n\nJob description:\n{{JOB_DESCRIPTION}}\n\nResume:\n{{RESUME}}\n\nJSON Response:"
	}

	return strings.NewReplacer(
		"{{JOB_TITLE}}", title,
		"{{JOB_DESCRIPTION}}", jd,
		"{{RESUME}}", resume,
	).Replace(template)
}

func parseResponse(raw string, log *zap.Logger) (*ai.Extraction, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	scoring := coerceMap(data["scoringWeights"])
	profile := coerceMap(data["extractedProfile"])
	requirements := coerceMap(data["extractedJobRequirements"])
	signals := coerceMap(scoring["signals"])

	out := &ai.Extraction{
		JDKeywords:       coerceStrings(data["jdKeywords"]),
		CVKeywords:       coerceStrings(data["cvKeywords"]),
		MustHaveKeywords: coerceStrings(data["mustHaveKeywords"]),
		Explanations:     suitability.DecodeExplanations(coerceMap(scoring["explanations"])),
		Signals: ai.Signals{
			ExperienceHeavy:   coerceBool(signals["isExperienceHeavy"]),
			EducationRequired: coerceBool(signals["isEducationRequired"]),
			LanguageCritical:  coerceBool(signals["isLanguageCritical"]),
			SkillsHeavy:       coerceBool(signals["isSkillsHeavy"]),
		},
		CandidateYearsExperience: optionalFloat(profile["totalYearsExperience"]),
		CandidateEducation:       coerceEducation(profile["education"]),
		CandidateLanguages:       coerceLanguages(profile["languages"]),
		RequiredYearsExperience:  optionalFloat(requirements["requiredYearsExperience"]),
		RequiredEducationLevel:   optionalInt(requirements["requiredEducationLevel"]),
		RequiredLanguages:        coerceStrings(requirements["requiredLanguages"]),
		Suggestions:              coerceSuggestions(data["suggestions"]),
	}

	if weights := coerceMap(scoring["weights"]); weights != nil {
		decoded, err := suitability.DecodeWeights(weights)
		if err != nil {
			log.Warn("ignoring malformed scoring weights", zap.Error(err))
		} else {
			out.Weights = decoded
		}
	}

	return out, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceEducation(v any) []suitability.Education {
	items, _ := v.([]any)
	out := make([]suitability.Education, 0, len(items))
	for _, item := range items {
		m := coerceMap(item)
		if m == nil {
			continue
		}
		out = append(out, suitability.Education{
			Degree:      coerceString(m["degree"]),
			Field:       coerceString(m["field"]),
			Institution: coerceString(m["institution"]),
			Year:        optionalInt(m["year"]),
			Level:       optionalInt(m["level"]),
		})
	}
	return out
}

func coerceLanguages(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if s := coerceString(val["language"]); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceSuggestions(v any) []ai.Suggestion {
	items, _ := v.([]any)
	out := make([]ai.Suggestion, 0, len(items))
	for _, item := range items {
		if len(out) == ai.MaxSuggestions {
			break
		}
		m := coerceMap(item)
		if m == nil {
			continue
		}
		text := coerceString(m["text"])
		if text == "" {
			continue
		}
		priority := strings.ToLower(coerceString(m["priority"]))
		if priority == "" {
			priority = "medium"
		}
		out = append(out, ai.Suggestion{
			Category: coerceString(m["category"]),
			Text:     text,
			Priority: priority,
		})
	}

	if len(out) == 0 {
		out = append(out, ai.DefaultSuggestion)
	}
	return out
}

func optionalFloat(v any) *float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalInt(v any) *int {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	i := int(math.Round(f))
	return &i
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
