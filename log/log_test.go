package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "WARN", false)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("action", "mint_cybor").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"action":"mint_cybor"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", true)
	require.NoError(t, err)
	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "shout", false)
	assert.Error(t, err)
}
