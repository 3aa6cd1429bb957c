package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := New("info", format)
		require.NoError(t, err, format)
		assert.False(t, logger.Core().Enabled(-1), "debug must be disabled at info level")
		logger.Info("smoke")
		_ = logger.Sync()
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("verbose", "console")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse log level "verbose"`)
}
