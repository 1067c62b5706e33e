package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: " Warn ", want: slog.LevelWarn},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "Error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler_InvalidFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml")
	require.Error(t, err)
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelDebug, "json")
	require.NoError(t, err)

	previous := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(previous) })

	LogError(errors.New("disk full"), "Failed to close storage", Fields{"path": "/tmp/h.db"})
	LogDebug("Scored dataset", Fields{"kind": "kyc"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"Failed to close storage"`)
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"path":"/tmp/h.db"`)
	assert.Contains(t, out, `"msg":"Scored dataset"`)
	assert.Contains(t, out, `"kind":"kyc"`)
}
