package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		ctx := WithContext(context.Background(), logger)

		got := FromContext(ctx)
		got.Info().Msg("attached")
		assert.Contains(t, buf.String(), "attached")
	})

	t.Run("bare context yields usable logger", func(t *testing.T) {
		log := FromContext(context.Background())
		// Must not panic; events are simply discarded.
		log.Info().Msg("dropped")
	})
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tagged := ComponentLogger(logger, "batch")
	tagged.Info().Msg("tagged")

	assert.Contains(t, buf.String(), `"component":"batch"`)
	assert.Contains(t, buf.String(), "tagged")
}
