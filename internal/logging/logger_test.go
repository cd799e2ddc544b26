package logging

import (
	"testing"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		l, err := NewLogger("debug", format)
		require.NoError(t, err, format)
		require.NotNil(t, l)

		// satisfies the engine's logging interface
		var _ calculation.Logger = l
	}

	_, err := NewLogger("info", "xml")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	ce := calculation.NewCompensationEngine()
	ce.SetLogger(NewNop())
	assert.NotNil(t, ce.Logger)
}
