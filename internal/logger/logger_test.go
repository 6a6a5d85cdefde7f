package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	assert.NoError(t, InitLogger("warn"))
	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zapcore.WarnLevel))

	assert.NoError(t, InitLogger("debug"))
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger("verbose"))
}
