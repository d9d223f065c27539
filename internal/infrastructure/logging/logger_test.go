package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNamedChildCarriesComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := Wrap(zap.New(core))

	logger.Named("generation").With(zap.String("renderId", "rnd_1")).Info("render finished")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "generation", entry.LoggerName)
	assert.Equal(t, "rnd_1", entry.ContextMap()["renderId"])
}

func TestNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Named("store").Error("ignored")
	})
}
