package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := SetupWithWriter("production", &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	log.Debug().Msg("hidden")
	log.Info().Str("prayer", "fajr").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"prayer":"fajr"`)

	logger = SetupWithWriter("development", &buf)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}
