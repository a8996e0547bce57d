// Package script executes scripted animation runs headlessly on a
// virtual clock, for timing studies and regression checks.
package script

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/typewave/internal/config"
	"github.com/san-kum/typewave/internal/engine"
	"github.com/san-kum/typewave/internal/metrics"
)

// Scenario defines a scripted animation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Absent timing fields
// fall back to the preset (or the defaults when no preset is named).
type ScenarioStep struct {
	Engine string   `yaml:"engine"`
	Preset string   `yaml:"preset"`
	Text   []string `yaml:"text"`

	TypingSpeed     int     `yaml:"typing_speed"`
	DeletingSpeed   int     `yaml:"deleting_speed"`
	Pause           int     `yaml:"pause"`
	TokensPerSecond float64 `yaml:"tokens_per_second"`
	Seed            int64   `yaml:"seed"`
}

// StepResult holds the measured outcome of one completed step.
type StepResult struct {
	Engine   string
	Chars    int
	Tokens   int
	Duration time.Duration
	Metrics  map[string]float64
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// stepConfig resolves a step to a file-level config: preset first,
// then the step's own overrides on top.
func stepConfig(step ScenarioStep) (*config.Config, error) {
	eng := step.Engine
	if eng == "" {
		eng = config.EngineTypewriter
	}
	cfg := config.DefaultConfig()
	cfg.Engine = eng
	if step.Preset != "" {
		p := config.GetPreset(eng, step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown %s preset %q", eng, step.Preset)
		}
		c := *p
		cfg = &c
	}
	cfg.Text = step.Text
	if step.TypingSpeed > 0 {
		cfg.TypingSpeed = step.TypingSpeed
	}
	if step.DeletingSpeed > 0 {
		cfg.DeletingSpeed = step.DeletingSpeed
	}
	if step.Pause > 0 {
		cfg.Pause = step.Pause
	}
	if step.TokensPerSecond > 0 {
		cfg.TokensPerSecond = step.TokensPerSecond
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	cfg.Loop = false // looping steps would never complete
	return cfg, nil
}

// RunScenario executes every step to completion on a virtual clock and
// reports the measured durations. The wall time spent is independent
// of the animation timing.
func RunScenario(ctx context.Context, scenario *Scenario, verbose bool) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if verbose {
			name := step.Engine
			if name == "" {
				name = config.EngineTypewriter
			}
			fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), name)
		}

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var res StepResult
		switch cfg.Engine {
		case config.EngineReveal:
			res, err = runReveal(ctx, cfg)
		default:
			res, err = runTypewriter(ctx, cfg)
		}
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

const maxTicks = 1 << 20

// runTypewriter plays a full typewriter run on a ManualScheduler,
// collecting the standard metric set along the way.
func runTypewriter(ctx context.Context, cfg *config.Config) (StepResult, error) {
	sched := engine.NewManualScheduler()
	rng := rand.New(rand.NewSource(seedOf(cfg.Seed)))

	anim := cfg.Animation()
	done := false
	anim.OnComplete = func() { done = true }
	anim.ShowCursor = false // blink ticks would keep the clock busy forever

	tw := engine.NewTypewriter(cfg.Text, anim, sched, rng)
	set := metrics.Default()
	for _, m := range set {
		tw.Subscribe(m)
	}

	tw.Start()
	for i := 0; !done; i++ {
		if err := checkRun(ctx, sched, i, "typewriter"); err != nil {
			return StepResult{}, err
		}
		sched.RunNext()
	}

	chars := 0
	for _, t := range cfg.Text {
		chars += len([]rune(t))
	}
	res := StepResult{
		Engine:   config.EngineTypewriter,
		Chars:    chars,
		Duration: sched.Now(),
		Metrics:  make(map[string]float64, len(set)),
	}
	for _, m := range set {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

// runReveal plays a full token reveal on a ManualScheduler.
func runReveal(ctx context.Context, cfg *config.Config) (StepResult, error) {
	sched := engine.NewManualScheduler()
	text := ""
	if len(cfg.Text) > 0 {
		text = cfg.Text[0]
	}

	opts := cfg.RevealOptions()
	done := false
	opts.OnComplete = func() { done = true }

	rev := engine.NewReveal(text, opts, sched)
	rev.Start()
	for i := 0; !done; i++ {
		if err := checkRun(ctx, sched, i, "reveal"); err != nil {
			return StepResult{}, err
		}
		sched.RunNext()
	}

	return StepResult{
		Engine:   config.EngineReveal,
		Tokens:   rev.Snapshot().Total,
		Duration: sched.Now(),
	}, nil
}

func checkRun(ctx context.Context, sched *engine.ManualScheduler, tick int, kind string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tick >= maxTicks {
		return fmt.Errorf("%s run exceeded %d ticks without completing", kind, maxTicks)
	}
	if sched.Pending() == 0 {
		return fmt.Errorf("%s run stalled with no pending timer", kind)
	}
	return nil
}

func seedOf(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// TrialStats summarizes run durations across seeded trials.
type TrialStats struct {
	Trials int
	Min    time.Duration
	Mean   time.Duration
	Max    time.Duration
}

// JitterTrials measures how much the jitter ratios spread the total
// duration of one target list: trials seeded runs on virtual clocks,
// reduced to min/mean/max.
func JitterTrials(ctx context.Context, cfg *config.Config, trials int, baseSeed int64) (TrialStats, error) {
	if trials <= 0 {
		return TrialStats{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	stats := TrialStats{Trials: trials}
	var sum time.Duration

	for i := 0; i < trials; i++ {
		c := *cfg
		c.Seed = baseSeed + int64(i)
		res, err := runTypewriter(ctx, &c)
		if err != nil {
			return stats, fmt.Errorf("trial %d: %w", i+1, err)
		}
		d := res.Duration
		sum += d
		if i == 0 || d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Mean = sum / time.Duration(trials)
	return stats, nil
}

// SpeedSweep varies the typing speed across a range and records the
// resulting run durations.
type SpeedSweep struct {
	Text     []string
	MinMs    int
	MaxMs    int
	NumSteps int
	Seed     int64
}

// SweepPoint is one sweep sample: the configured speed, the jitter-free
// expectation and one seeded measured run.
type SweepPoint struct {
	SpeedMs   int
	Estimated time.Duration
	Measured  time.Duration
}

// RunSweep executes a typing-speed sweep.
func RunSweep(ctx context.Context, sweep *SpeedSweep) ([]SweepPoint, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.MinMs <= 0 || sweep.MaxMs < sweep.MinMs {
		return nil, fmt.Errorf("invalid speed range %d..%dms", sweep.MinMs, sweep.MaxMs)
	}

	points := make([]SweepPoint, 0, sweep.NumSteps)
	stride := float64(sweep.MaxMs-sweep.MinMs) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		speed := sweep.MinMs + int(float64(i)*stride)

		cfg := config.DefaultConfig()
		cfg.Text = sweep.Text
		cfg.TypingSpeed = speed
		cfg.Seed = seedOf(sweep.Seed)

		res, err := runTypewriter(ctx, cfg)
		if err != nil {
			return points, fmt.Errorf("sweep step %d: %w", i+1, err)
		}
		points = append(points, SweepPoint{
			SpeedMs:   speed,
			Estimated: cfg.Animation().Estimate(sweep.Text),
			Measured:  res.Duration,
		})
	}
	return points, nil
}
