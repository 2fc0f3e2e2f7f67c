package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zap.InfoLevel, Level(0))
	assert.Equal(t, zap.DebugLevel, Level(1))
	assert.Equal(t, zap.DebugLevel, Level(3))
}

func TestInitialize(t *testing.T) {
	defer Set(nil)
	require.NoError(t, Initialize(false, 0))
	assert.False(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zap.DebugLevel))

	require.NoError(t, Initialize(true, 1))
	assert.True(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestSet(t *testing.T) {
	defer Set(nil)
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core).Sugar())
	Logger.Infow("processed", "file", "a.itp")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a.itp", logs.All()[0].ContextMap()["file"])

	Set(nil)
	assert.NotNil(t, Logger)
}
