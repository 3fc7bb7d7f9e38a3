package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/fit-scorer/internal/suitability"
)

func TestParseStatusAndChannel(t *testing.T) {
	t.Parallel()

	status, err := ParseStatus(" interview ")
	require.NoError(t, err)
	assert.Equal(t, StatusInterview, status)

	_, err = ParseStatus("ghosted")
	assert.ErrorContains(t, err, "unknown status")

	channel, err := ParseChannel("company portal")
	require.NoError(t, err)
	assert.Equal(t, ChannelCompanyPortal, channel)

	_, err = ParseChannel("fax")
	assert.Error(t, err)
}

func TestScoreBand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BandStrong, ScoreBand(80))
	assert.Equal(t, BandModerate, ScoreBand(79.9))
	assert.Equal(t, BandModerate, ScoreBand(60))
	assert.Equal(t, BandWeak, ScoreBand(59.9))

	var app *Application
	assert.Zero(t, app.Score())
	assert.Equal(t, 42.5, (&Application{Result: &suitability.Result{OverallScore: 42.5}}).Score())
}
