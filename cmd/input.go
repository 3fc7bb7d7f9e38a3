package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spigell/fit-scorer/internal/schemas"
	"github.com/spigell/fit-scorer/internal/suitability"
)

// scoreInput is the full document accepted by the score command.
type scoreInput struct {
	Profile            suitability.CandidateProfile    `json:"profile"`
	Requirements       suitability.JobRequirements     `json:"requirements"`
	Weights            json.RawMessage                 `json:"weights,omitempty"`
	WeightExplanations *suitability.WeightExplanations `json:"weightExplanations,omitempty"`
}

// keywordInput is the flat keyword document accepted by the score command.
type keywordInput struct {
	CVKeywords       []string        `json:"cvKeywords"`
	JDKeywords       []string        `json:"jdKeywords"`
	MustHaveKeywords []string        `json:"mustHaveKeywords,omitempty"`
	CustomWeights    json.RawMessage `json:"customWeights,omitempty"`
	suitability.KeywordData
}

// scoreDocument validates doc, decodes it according to its kind and scores it with calc.
// defaults is used when the document carries no weights of its own; weights that cannot be
// decoded are dropped in favor of suitability.DefaultWeights.
func scoreDocument(calc *suitability.Calculator, doc []byte, defaults *suitability.PartialWeights) (*suitability.Result, error) {
	kind, err := schemas.Detect(doc)
	if err != nil {
		return nil, err
	}

	if kind == schemas.KindProfile {
		return nil, errors.New("a bare profile has no requirements to score against; use the vacancy command")
	}

	if err := schemas.Validate(kind, doc); err != nil {
		return nil, err
	}

	switch kind {
	case schemas.KindScore:
		var in scoreInput
		if err := json.Unmarshal(doc, &in); err != nil {
			return nil, fmt.Errorf("decode score document: %w", err)
		}
		weights := documentWeights(in.Weights, defaults)
		return calc.Calculate(in.Profile, in.Requirements, weights, in.WeightExplanations), nil
	default:
		var in keywordInput
		if err := json.Unmarshal(doc, &in); err != nil {
			return nil, fmt.Errorf("decode keyword document: %w", err)
		}
		in.KeywordData.CustomWeights = documentWeights(in.CustomWeights, defaults)
		return calc.CalculateFromKeywords(in.CVKeywords, in.JDKeywords, in.MustHaveKeywords, &in.KeywordData), nil
	}
}

// documentWeights decodes a weight object the way AI responses are decoded. Absent weights
// yield defaults; malformed ones yield nil.
func documentWeights(raw json.RawMessage, defaults *suitability.PartialWeights) *suitability.PartialWeights {
	if len(raw) == 0 || string(raw) == "null" {
		return defaults
	}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil || loose == nil {
		return nil
	}

	weights, err := suitability.DecodeWeights(loose)
	if err != nil {
		return nil
	}
	return weights
}

// readProfile loads and validates a bare candidate profile document.
func readProfile(path string) (suitability.CandidateProfile, error) {
	var profile suitability.CandidateProfile

	doc, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}

	if err := schemas.Validate(schemas.KindProfile, doc); err != nil {
		return profile, err
	}

	if err := json.Unmarshal(doc, &profile); err != nil {
		return profile, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}
