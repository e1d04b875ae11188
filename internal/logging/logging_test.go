package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "json format", cfg: Config{Level: "debug", Format: "json"}},
		{name: "bad level falls back to info", cfg: Config{Level: "noisy", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestClientLogger_ForwardsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewClientLogger(zap.New(core))

	ctx := context.Background()
	logger.Info(ctx, "fetched page", map[string]interface{}{"rows": 42})
	logger.Warn(ctx, "empty lookup", map[string]interface{}{"lookup": "storage paygo"})
	logger.Debug(ctx, "request", nil)
	logger.Error(ctx, "failed", map[string]interface{}{"error": "boom"})

	entries := observed.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "fetched page", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 42, fields["rows"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
