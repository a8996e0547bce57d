package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/typewave/internal/config"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte(`name: demo
description: two-step run
steps:
  - engine: typewriter
    text:
      - hi
    typing_speed: 10
    seed: 7
  - engine: reveal
    text:
      - one two three
    tokens_per_second: 40
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[0].TypingSpeed != 10 || sc.Steps[1].TokensPerSecond != 40 {
		t.Errorf("step fields not parsed: %+v", sc.Steps)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestRunScenario(t *testing.T) {
	sc := &Scenario{
		Name: "mixed",
		Steps: []ScenarioStep{
			{Engine: "typewriter", Text: []string{"hi"}, TypingSpeed: 50, Seed: 1},
			{Engine: "reveal", Text: []string{"one two three"}, TokensPerSecond: 20},
		},
	}

	results, err := RunScenario(context.Background(), sc, false)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	tw := results[0]
	if tw.Chars != 2 || tw.Duration <= 0 {
		t.Errorf("unexpected typewriter result: %+v", tw)
	}
	if tw.Metrics["cadence_ms"] <= 0 {
		t.Errorf("expected a positive cadence, got %f", tw.Metrics["cadence_ms"])
	}

	rv := results[1]
	if rv.Tokens != 3 {
		t.Errorf("expected 3 tokens, got %d", rv.Tokens)
	}
	// 2 staggers at 62.5ms each (short blocks run at 0.8×20 tok/s),
	// plus the final 200ms transition.
	want := 325 * time.Millisecond
	if rv.Duration != want {
		t.Errorf("expected reveal duration %v, got %v", want, rv.Duration)
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "nonexistent", Text: []string{"x"}}}}
	if _, err := RunScenario(context.Background(), sc, false); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenarioPresetWithOverride(t *testing.T) {
	sc := &Scenario{
		Steps: []ScenarioStep{
			{Preset: "brisk", Text: []string{"ab"}, Seed: 3},
		},
	}
	results, err := RunScenario(context.Background(), sc, false)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	// brisk types at 25ms ± 50% jitter, so 2 chars land well under
	// the default 50ms pace.
	if d := results[0].Duration; d <= 0 || d > 100*time.Millisecond {
		t.Errorf("brisk run duration out of range: %v", d)
	}
}

func TestRunScenarioCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{Steps: []ScenarioStep{{Text: []string{"hello"}, Seed: 1}}}
	if _, err := RunScenario(ctx, sc, false); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestJitterTrialsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Text = []string{"hello world"}

	a, err := JitterTrials(context.Background(), cfg, 10, 42)
	if err != nil {
		t.Fatalf("trials failed: %v", err)
	}
	b, err := JitterTrials(context.Background(), cfg, 10, 42)
	if err != nil {
		t.Fatalf("trials failed: %v", err)
	}

	if a != b {
		t.Errorf("same seeds produced different stats: %+v vs %+v", a, b)
	}
	if a.Min > a.Mean || a.Mean > a.Max {
		t.Errorf("stats out of order: %+v", a)
	}
	if a.Min <= 0 {
		t.Errorf("expected positive durations: %+v", a)
	}
}

func TestJitterTrialsRejectsZeroTrials(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Text = []string{"x"}
	if _, err := JitterTrials(context.Background(), cfg, 0, 1); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &SpeedSweep{
		Text:     []string{"hello"},
		MinMs:    20,
		MaxMs:    80,
		NumSteps: 4,
		Seed:     5,
	}

	points, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	if points[0].SpeedMs != 20 || points[3].SpeedMs != 80 {
		t.Errorf("sweep endpoints wrong: %+v", points)
	}
	// Slower typing must not shorten the expected duration.
	for i := 1; i < len(points); i++ {
		if points[i].Estimated < points[i-1].Estimated {
			t.Errorf("estimate not monotonic at step %d: %+v", i, points)
		}
	}
	for _, p := range points {
		if p.Measured <= 0 {
			t.Errorf("expected positive measured duration: %+v", p)
		}
	}
}

func TestRunSweepValidation(t *testing.T) {
	if _, err := RunSweep(context.Background(), &SpeedSweep{Text: []string{"x"}, MinMs: 10, MaxMs: 50, NumSteps: 1}); err == nil {
		t.Error("expected error for single-step sweep")
	}
	if _, err := RunSweep(context.Background(), &SpeedSweep{Text: []string{"x"}, MinMs: 50, MaxMs: 10, NumSteps: 3}); err == nil {
		t.Error("expected error for inverted range")
	}
}
