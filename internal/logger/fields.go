package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/suitability"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldOverallScore    = "overall_score"
	FieldSkillsScore     = "skills_score"
	FieldExperienceScore = "experience_score"
	FieldEducationScore  = "education_score"
	FieldLanguageScore   = "language_score"
	FieldMatchedSkills   = "matched_skills"
	FieldMissingSkills   = "missing_skills"
	FieldMissingMustHave = "missing_must_have"
	FieldMustHavePenalty = "must_have_penalty"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the AI provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// ResultFields renders a score breakdown. A nil result yields no fields.
func ResultFields(res *suitability.Result) []zap.Field {
	if res == nil {
		return nil
	}

	return []zap.Field{
		zap.Float64(FieldOverallScore, res.OverallScore),
		zap.Float64(FieldSkillsScore, res.SubScores.SkillsScore),
		zap.Float64(FieldExperienceScore, res.SubScores.ExperienceScore),
		zap.Float64(FieldEducationScore, res.SubScores.EducationScore),
		zap.Float64(FieldLanguageScore, res.SubScores.LanguageScore),
		zap.Int(FieldMatchedSkills, len(res.MatchedSkills)),
		zap.Int(FieldMissingSkills, len(res.MissingSkills)),
		zap.Strings(FieldMissingMustHave, res.MissingMustHaveSkills),
		zap.Bool(FieldMustHavePenalty, res.HasMustHavePenalty),
	}
}
