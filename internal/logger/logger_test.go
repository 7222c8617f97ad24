package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"lgremote/internal/logger"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetSilentMode(true)

	t.Run("component loggers tag their output", func(t *testing.T) {
		buf.Reset()
		log := logger.With("udap_client")
		log.Info().Msg("hello")
		assert.Contains(t, buf.String(), `"component":"udap_client"`)
		assert.Contains(t, buf.String(), `"message":"hello"`)
	})

	t.Run("debug is hidden at info level", func(t *testing.T) {
		buf.Reset()
		log := logger.New()
		logger.SetLevel(logger.LOG_INFO)
		log.Debug().Msg("hidden")
		assert.Empty(t, buf.String())

		logger.SetLevel(logger.LOG_DEBUG)
		log.Debug().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		buf.Reset()
		log := logger.New()
		logger.SetLevel("chatty")
		log.Debug().Msg("hidden")
		log.Warn().Msg("warned")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "warned")
	})

	t.Run("silent mode discards output", func(t *testing.T) {
		logger.SetSilentMode(true)
		buf.Reset()
		log := logger.New()
		log.Info().Msg("nothing")
		assert.Empty(t, buf.String())
	})
}
