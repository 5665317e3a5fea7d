package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetupLevels(t *testing.T) {
	require.NoError(t, Setup(false, "error", "mergefiles", "test"))
	assert.False(t, Logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, Setup(true, "error", "mergefiles", "test"))
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup(false, "chatty", "mergefiles", "test"))
}
