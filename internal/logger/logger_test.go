package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := New(tt.level, &buf)
		log.Debug("debug %d", 1)
		log.Info("info %d", 2)

		out := buf.String()
		assert.Equal(t, tt.wantDebug, bytes.Contains([]byte(out), []byte("[DBG] debug 1")), "level %d", tt.level)
		assert.Equal(t, tt.wantInfo, bytes.Contains([]byte(out), []byte("[INF] info 2")), "level %d", tt.level)
		assert.Equal(t, tt.level, log.GetLevel())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)
	log.Warn("hidden")
	log.SetLevel(LevelNormal)
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WRN] shown")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"off":     LevelOff,
		"":        LevelNormal,
		"normal":  LevelNormal,
		"VERBOSE": LevelVerbose,
		"debug":   LevelVerbose,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
