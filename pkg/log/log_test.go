package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: " error ", want: zapcore.ErrorLevel},
		{in: "loud", want: zapcore.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetLogger_RoutesMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	Warn("something odd", "branch", "feature/x")
	Info("all good")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "something odd", entries[0].Message)
	assert.Equal(t, "feature/x", entries[0].ContextMap()["branch"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("chatty"))
	require.NoError(t, Init("info"))
}
