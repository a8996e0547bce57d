package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, EngineTypewriter, cfg.Engine)
	assert.Equal(t, DefaultTypingSpeedMs, cfg.TypingSpeed)
	assert.Equal(t, DefaultPauseMs, cfg.Pause)
	assert.True(t, cfg.ShowCursor)
	assert.Equal(t, "|", cfg.Cursor)
	assert.False(t, cfg.Loop)
	assert.Equal(t, DefaultTokensPerSecond, cfg.TokensPerSecond)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.yaml")
	data := []byte("typing_speed: 80\ntext:\n  - hello\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.TypingSpeed)
	assert.Equal(t, []string{"hello"}, cfg.Text)
	// Absent keys keep their defaults.
	assert.True(t, cfg.ShowCursor)
	assert.Equal(t, DefaultPauseMs, cfg.Pause)
	assert.Equal(t, "|", cfg.Cursor)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("typing_speed: [oops"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.yaml")

	cfg := DefaultConfig()
	cfg.Text = []string{"one", "two"}
	cfg.Loop = true
	cfg.TypingSpeed = 33
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestAnimationConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TypingSpeed = 10
	cfg.Pause = 250

	anim := cfg.Animation()
	assert.Equal(t, 10*time.Millisecond, anim.TypingSpeed)
	assert.Equal(t, 250*time.Millisecond, anim.PauseDuration)
	assert.Equal(t, 500*time.Millisecond, anim.BlinkInterval)
	assert.Equal(t, "|", anim.CursorChar)
}

func TestRevealOptionsFallsBackToDefaultRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TokensPerSecond = 0
	assert.Equal(t, DefaultTokensPerSecond, cfg.RevealOptions().TokensPerSecond)

	cfg.TokensPerSecond = 32
	assert.Equal(t, 32.0, cfg.RevealOptions().TokensPerSecond)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(EngineTypewriter, "brisk")
	require.NotNil(t, cfg)
	assert.Equal(t, 25, cfg.TypingSpeed)

	assert.Nil(t, GetPreset(EngineTypewriter, "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "brisk"))
}

func TestListPresets(t *testing.T) {
	assert.NotEmpty(t, ListPresets(EngineTypewriter))
	assert.NotEmpty(t, ListPresets(EngineReveal))
	assert.Nil(t, ListPresets("nonexistent"))
}
