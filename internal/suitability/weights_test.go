package suitability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWeights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate *PartialWeights
		want      Weights
	}{
		{
			name: "nil gives defaults",
			want: DefaultWeights,
		},
		{
			name:      "empty gives defaults",
			candidate: &PartialWeights{},
			want:      DefaultWeights,
		},
		{
			name:      "valid vector kept",
			candidate: Weights{Skills: 0.4, Experience: 0.4, Education: 0.1, Language: 0.1}.Partial(),
			want:      Weights{Skills: 0.4, Experience: 0.4, Education: 0.1, Language: 0.1},
		},
		{
			name:      "sum within tolerance kept",
			candidate: Weights{Skills: 0.5, Experience: 0.25, Education: 0.1, Language: 0.145}.Partial(),
			want:      Weights{Skills: 0.5, Experience: 0.25, Education: 0.1, Language: 0.145},
		},
		{
			name:      "negative field discards vector",
			candidate: &PartialWeights{Skills: Float(-0.1)},
			want:      DefaultWeights,
		},
		{
			name:      "field above one discards vector",
			candidate: &PartialWeights{Experience: Float(1.5)},
			want:      DefaultWeights,
		},
		{
			name:      "nan discards vector",
			candidate: &PartialWeights{Education: Float(math.NaN())},
			want:      DefaultWeights,
		},
		{
			name:      "infinity discards vector",
			candidate: &PartialWeights{Language: Float(math.Inf(1))},
			want:      DefaultWeights,
		},
		{
			name:      "all zero gives defaults",
			candidate: Weights{}.Partial(),
			want:      DefaultWeights,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ValidateWeights(tt.candidate)
			assert.InDelta(t, tt.want.Skills, got.Skills, 1e-9)
			assert.InDelta(t, tt.want.Experience, got.Experience, 1e-9)
			assert.InDelta(t, tt.want.Education, got.Education, 1e-9)
			assert.InDelta(t, tt.want.Language, got.Language, 1e-9)
		})
	}
}

func TestValidateWeightsRescales(t *testing.T) {
	t.Parallel()

	got := ValidateWeights(&PartialWeights{Skills: Float(0.7)})

	// 0.7 + 0.25 + 0.10 + 0.15 = 1.2
	assert.InDelta(t, 0.7/1.2, got.Skills, 1e-9)
	assert.InDelta(t, 0.25/1.2, got.Experience, 1e-9)
	assert.InDelta(t, 0.10/1.2, got.Education, 1e-9)
	assert.InDelta(t, 0.15/1.2, got.Language, 1e-9)
	assert.InDelta(t, 1.0, got.Sum(), 1e-9)
}

func TestValidateWeightsInvariants(t *testing.T) {
	t.Parallel()

	values := []float64{0, 0.05, 0.2, 0.33, 0.5, 0.9, 1}
	for _, s := range values {
		for _, e := range values {
			for _, l := range values {
				got := ValidateWeights(&PartialWeights{Skills: Float(s), Experience: Float(e), Language: Float(l)})
				for _, v := range []float64{got.Skills, got.Experience, got.Education, got.Language} {
					require.GreaterOrEqual(t, v, 0.0)
					require.LessOrEqual(t, v, 1.0)
				}
				require.InDelta(t, 1.0, got.Sum(), sumTolerance)
			}
		}
	}
}

func TestDecodeWeights(t *testing.T) {
	t.Parallel()

	t.Run("numbers", func(t *testing.T) {
		got, err := DecodeWeights(map[string]any{"skills": 0.6, "experience": 0.2, "unknown": "x"})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Skills)
		assert.InDelta(t, 0.6, *got.Skills, 1e-9)
		require.NotNil(t, got.Experience)
		assert.InDelta(t, 0.2, *got.Experience, 1e-9)
		assert.Nil(t, got.Education)
		assert.Nil(t, got.Language)
	})

	t.Run("strings rejected", func(t *testing.T) {
		got, err := DecodeWeights(map[string]any{"skills": "0.6"})
		require.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, DefaultWeights, ValidateWeights(got))
	})

	t.Run("nil map", func(t *testing.T) {
		got, err := DecodeWeights(nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestDecodeExplanations(t *testing.T) {
	t.Parallel()

	got := DecodeExplanations(map[string]any{"skills": "stack heavy role", "experience": 3})
	require.NotNil(t, got)
	assert.Equal(t, "stack heavy role", got.Skills)
	assert.Empty(t, got.Experience)

	assert.Nil(t, DecodeExplanations(map[string]any{"skills": 1}))
	assert.Nil(t, DecodeExplanations(nil))
}
