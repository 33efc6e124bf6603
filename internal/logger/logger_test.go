package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	original := output
	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()
	output = buf
	t.Cleanup(func() {
		output = original
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	})
	return buf
}

func TestInitProductionWritesJSON(t *testing.T) {
	buf := captureOutput(t)

	Init("production", zerolog.InfoLevel)
	log.Info().Str("store", "supabase").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "supabase", entry["store"])
	assert.Contains(t, entry, "time")
}

func TestInitLocalWritesConsole(t *testing.T) {
	buf := captureOutput(t)

	Init("local", zerolog.DebugLevel)
	log.Debug().Msg("debug line")

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "debug line")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestLoggerSetup(t *testing.T) {
	tests := []struct {
		name      string
		opts      Logger
		wantLevel zerolog.Level
		wantJSON  bool
	}{
		{name: "json warn", opts: Logger{Level: "warn", Format: "json"}, wantLevel: zerolog.WarnLevel, wantJSON: true},
		{name: "console debug", opts: Logger{Level: "debug", Format: "console"}, wantLevel: zerolog.DebugLevel},
		{name: "invalid level", opts: Logger{Level: "loud", Format: "json"}, wantLevel: zerolog.InfoLevel, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)

			tt.opts.Setup()
			log.Error().Msg("visible")

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			assert.Equal(t, tt.wantJSON, json.Valid(buf.Bytes()))
		})
	}
}
