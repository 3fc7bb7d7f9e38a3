package suitability

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// sumTolerance is how far the weight sum may drift from 1 before it is rescaled.
const sumTolerance = 0.01

// Weights is the relative importance of each scoring dimension. Validated weights sum to 1.
type Weights struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Language   float64 `json:"language"`
}

// PartialWeights is a weight vector where any field may be missing.
type PartialWeights struct {
	Skills     *float64 `json:"skills,omitempty" mapstructure:"skills"`
	Experience *float64 `json:"experience,omitempty" mapstructure:"experience"`
	Education  *float64 `json:"education,omitempty" mapstructure:"education"`
	Language   *float64 `json:"language,omitempty" mapstructure:"language"`
}

// DefaultWeights is used whenever no usable weight vector is supplied.
var DefaultWeights = Weights{
	Skills:     0.50,
	Experience: 0.25,
	Education:  0.10,
	Language:   0.15,
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Language
}

// Partial converts w into a fully populated PartialWeights.
func (w Weights) Partial() *PartialWeights {
	return &PartialWeights{
		Skills:     Float(w.Skills),
		Experience: Float(w.Experience),
		Education:  Float(w.Education),
		Language:   Float(w.Language),
	}
}

// ValidateWeights turns a possibly incomplete or malformed candidate into a usable weight vector.
// Missing fields take their default; any field outside [0,1] (or NaN/Inf) discards the whole
// candidate in favor of DefaultWeights. A vector whose sum is off by more than the tolerance is
// rescaled to sum to 1.
func ValidateWeights(candidate *PartialWeights) Weights {
	if candidate == nil {
		return DefaultWeights
	}

	w := Weights{
		Skills:     valueOr(candidate.Skills, DefaultWeights.Skills),
		Experience: valueOr(candidate.Experience, DefaultWeights.Experience),
		Education:  valueOr(candidate.Education, DefaultWeights.Education),
		Language:   valueOr(candidate.Language, DefaultWeights.Language),
	}

	for _, v := range []float64{w.Skills, w.Experience, w.Education, w.Language} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return DefaultWeights
		}
	}

	sum := w.Sum()
	if sum == 0 {
		return DefaultWeights
	}

	if math.Abs(sum-1) > sumTolerance {
		w.Skills /= sum
		w.Experience /= sum
		w.Education /= sum
		w.Language /= sum
	}

	return w
}

// DecodeWeights decodes a loosely typed weight map, as produced by JSON decoding of an AI
// response, into PartialWeights. Unknown keys are ignored. Values must already be numbers:
// strings, booleans and other types are rejected with an error so the caller can fall back to
// the defaults.
func DecodeWeights(raw map[string]any) (*PartialWeights, error) {
	if raw == nil {
		return nil, nil
	}

	var out PartialWeights
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("build weights decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}

	return &out, nil
}

// DecodeExplanations decodes a loosely typed explanation map. Non-string values are dropped.
func DecodeExplanations(raw map[string]any) *WeightExplanations {
	if raw == nil {
		return nil
	}

	clean := make(map[string]any, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			clean[k] = s
		}
	}

	var out WeightExplanations
	if err := mapstructure.Decode(clean, &out); err != nil {
		return nil
	}

	if out == (WeightExplanations{}) {
		return nil
	}

	return &out
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
