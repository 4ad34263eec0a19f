package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})
	defer Init(Options{Level: "disabled"})

	Named("preprocessing").Info().Str("algorithm", "ScaleAndShift").Msg("built")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"preprocessing"`)
	assert.Contains(t, out, `"algorithm":"ScaleAndShift"`)
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "error", Format: "json", Writer: &buf})
	defer Init(Options{Level: "disabled"})

	Warning().Msg("dropped")
	assert.Empty(t, buf.String())

	Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "trace", parseLevel("TRACE").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "warn", parseLevel("bogus").String())
}
