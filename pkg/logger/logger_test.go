package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xid/pkg/config"
)

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, log.GetZerolog())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "shouty"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
	}

	for _, tt := range tests {
		level, err := parseLogLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, level, tt.input)
	}

	_, err := parseLogLevel("nope")
	assert.Error(t, err)
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "disabled"})
	require.NoError(t, err)

	child := log.WithField("key", "value")
	assert.NotSame(t, log, child)

	parent := log.(*zerologLogger)
	assert.Empty(t, parent.fields)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must be safe to call without initialization
	log.Info("ignored")
	log.WithField("a", 1).WithError(nil).Error("ignored")
	assert.Nil(t, log.GetZerolog())
}
