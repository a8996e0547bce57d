package config

var Presets = map[string]map[string]*Config{
	EngineTypewriter: {
		"natural": {
			Engine: EngineTypewriter, TypingSpeed: 50, DeletingSpeed: 30, Pause: 1500,
			ShowCursor: true, Cursor: "|", Blink: 500,
		},
		"brisk": {
			Engine: EngineTypewriter, TypingSpeed: 25, DeletingSpeed: 15, Pause: 600,
			ShowCursor: true, Cursor: "|", Blink: 400,
		},
		"dramatic": {
			Engine: EngineTypewriter, TypingSpeed: 90, DeletingSpeed: 40, Pause: 2500,
			InitialDelay: 400, ShowCursor: true, Cursor: "▌", Blink: 700,
		},
		"marquee": {
			Engine: EngineTypewriter, TypingSpeed: 40, DeletingSpeed: 20, Pause: 1000,
			Loop: true, ShowCursor: true, Cursor: "_", Blink: 500,
		},
	},
	EngineReveal: {
		"chat": {
			Engine: EngineReveal, TokensPerSecond: 20,
		},
		"burst": {
			Engine: EngineReveal, TokensPerSecond: 45,
		},
		"gentle": {
			Engine: EngineReveal, TokensPerSecond: 8,
		},
	},
}

func GetPreset(engineName, preset string) *Config {
	enginePresets, ok := Presets[engineName]
	if !ok {
		return nil
	}
	cfg, ok := enginePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(engineName string) []string {
	enginePresets, ok := Presets[engineName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	return names
}
