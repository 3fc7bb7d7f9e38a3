// Package schemas validates input documents against embedded JSON Schemas.
package schemas

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Kind names one of the supported input documents.
type Kind string

const (
	// KindScore is a full {profile, requirements, weights?, weightExplanations?} document.
	KindScore Kind = "score"
	// KindKeywords is a flat {cvKeywords, jdKeywords, mustHaveKeywords?, ...} document.
	KindKeywords Kind = "keywords"
	// KindProfile is a bare candidate profile.
	KindProfile Kind = "profile"
)

//go:embed *.schema.json
var files embed.FS

var compiled sync.Map // Kind -> *gojsonschema.Schema

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Kind   Kind
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s document is invalid:", ve.Kind)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// Fields returns the offending field paths in report order.
func (ve *ValidationError) Fields() []string {
	out := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		out = append(out, e.Field)
	}
	return out
}

// Validate checks doc against the schema for kind. Violations are returned as *ValidationError.
func Validate(kind Kind, doc []byte) error {
	schema, err := load(kind)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("decode %s document: %w", kind, err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Kind:   kind,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

// Detect guesses the kind of doc from its top-level keys. It returns an error when doc is not a
// JSON object or matches no known kind.
func Detect(doc []byte) (Kind, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return "", fmt.Errorf("input is not a JSON object: %w", err)
	}

	switch {
	case has(top, "profile", "requirements"):
		return KindScore, nil
	case has(top, "cvKeywords", "jdKeywords"):
		return KindKeywords, nil
	case has(top, "skills"):
		return KindProfile, nil
	default:
		return "", errors.New("unrecognized input document")
	}
}

func has(top map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := top[k]; ok {
			return true
		}
	}
	return false
}

func load(kind Kind) (*gojsonschema.Schema, error) {
	if schema, ok := compiled.Load(kind); ok {
		return schema.(*gojsonschema.Schema), nil
	}

	raw, err := files.ReadFile(string(kind) + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}

	actual, _ := compiled.LoadOrStore(kind, schema)
	return actual.(*gojsonschema.Schema), nil
}
