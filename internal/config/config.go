package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/typewave/internal/engine"
)

const (
	DefaultTypingSpeedMs   = 50
	DefaultDeletingSpeedMs = 30
	DefaultInitialDelayMs  = 0
	DefaultPauseMs         = 1500
	DefaultBlinkMs         = 500
	DefaultCursor          = "|"
	DefaultTokensPerSecond = 20.0

	EngineTypewriter = "typewriter"
	EngineReveal     = "reveal"
)

// Config is the file-level animation configuration. All durations are
// in milliseconds.
type Config struct {
	Engine string   `yaml:"engine"`
	Text   []string `yaml:"text"`

	TypingSpeed   int  `yaml:"typing_speed"`
	DeletingSpeed int  `yaml:"deleting_speed"`
	InitialDelay  int  `yaml:"initial_delay"`
	Pause         int  `yaml:"pause"`
	Loop          bool `yaml:"loop"`

	ShowCursor bool   `yaml:"show_cursor"`
	Cursor     string `yaml:"cursor"`
	Blink      int    `yaml:"blink"`

	TypingJitter   float64 `yaml:"typing_jitter"`
	DeletingJitter float64 `yaml:"deleting_jitter"`

	TokensPerSecond float64 `yaml:"tokens_per_second"`

	Seed int64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:          EngineTypewriter,
		TypingSpeed:     DefaultTypingSpeedMs,
		DeletingSpeed:   DefaultDeletingSpeedMs,
		InitialDelay:    DefaultInitialDelayMs,
		Pause:           DefaultPauseMs,
		ShowCursor:      true,
		Cursor:          DefaultCursor,
		Blink:           DefaultBlinkMs,
		TypingJitter:    engine.DefaultTypingJitter,
		DeletingJitter:  engine.DefaultDeletingJitter,
		TokensPerSecond: DefaultTokensPerSecond,
	}
}

// Load reads a yaml config, layered over the defaults so absent keys
// keep their stock values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Animation converts the file config to engine timing. Negative
// millisecond values clamp to zero in the engine.
func (c *Config) Animation() engine.Config {
	return engine.Config{
		TypingSpeed:    time.Duration(c.TypingSpeed) * time.Millisecond,
		DeletingSpeed:  time.Duration(c.DeletingSpeed) * time.Millisecond,
		InitialDelay:   time.Duration(c.InitialDelay) * time.Millisecond,
		PauseDuration:  time.Duration(c.Pause) * time.Millisecond,
		Loop:           c.Loop,
		ShowCursor:     c.ShowCursor,
		CursorChar:     c.Cursor,
		BlinkInterval:  time.Duration(c.Blink) * time.Millisecond,
		TypingJitter:   c.TypingJitter,
		DeletingJitter: c.DeletingJitter,
	}
}

// RevealOptions converts the file config to reveal timing.
func (c *Config) RevealOptions() engine.RevealConfig {
	rate := c.TokensPerSecond
	if rate <= 0 {
		rate = DefaultTokensPerSecond
	}
	return engine.RevealConfig{TokensPerSecond: rate}
}
