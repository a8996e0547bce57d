package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/typewave/internal/config"
	"github.com/san-kum/typewave/internal/engine"
	"github.com/san-kum/typewave/internal/export"
	"github.com/san-kum/typewave/internal/metrics"
	"github.com/san-kum/typewave/internal/script"
	"github.com/san-kum/typewave/internal/tui"
	"github.com/san-kum/typewave/internal/viz"
	"github.com/spf13/cobra"
)

var (
	typingMs       int
	deletingMs     int
	initialMs      int
	pauseMs        int
	blinkMs        int
	loop           bool
	cursor         string
	noCursor       bool
	typingJitter   float64
	deletingJitter float64
	rate           float64
	seed           int64
	// Config file
	configFile string
	// Preset name
	preset string
	// Live view options
	theme string
	watch bool
	// Frame rate for watch mode
	frameRate int
	// Sweep and trial parameters
	sweepMin   int
	sweepMax   int
	sweepSteps int
	numTrials  int
	// Export options
	outFile string
	svgKind string
)

var demoText = []string{"Hello, world.", "Text that types itself.", "One phase at a time."}

// main is the entry point for the typewave CLI; it registers commands
// and flags, launches the live playback when no subcommand is given,
// and executes the root command.
func main() {
	rootCmd := &cobra.Command{
		Use:   "typewave",
		Short: "timed text animation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, demoText)
		},
	}

	typeCmd := &cobra.Command{
		Use:   "type [text]...",
		Short: "run a typewriter animation headlessly and report timing",
		RunE:  runType,
	}
	addTimingFlags(typeCmd)
	typeCmd.Flags().BoolVar(&watch, "watch", false, "render progress to the terminal")
	typeCmd.Flags().IntVar(&frameRate, "fps", 30, "watch mode frame rate")

	liveCmd := &cobra.Command{
		Use:   "live [text]...",
		Short: "play a typewriter animation in the interactive TUI",
		RunE:  runLive,
	}
	addTimingFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	revealCmd := &cobra.Command{
		Use:   "reveal [text]",
		Short: "play a staggered token reveal in the interactive TUI",
		RunE:  runReveal,
	}
	revealCmd.Flags().Float64Var(&rate, "rate", config.DefaultTokensPerSecond, "tokens per second")
	revealCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	revealCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	revealCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	revealCmd.Flags().BoolVar(&watch, "watch", false, "render progress to the terminal instead of the TUI")

	timelineCmd := &cobra.Command{
		Use:   "timeline [text]",
		Short: "print the planned reveal schedule for a text block",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTimeline,
	}
	timelineCmd.Flags().Float64Var(&rate, "rate", config.DefaultTokensPerSecond, "tokens per second")

	presetsCmd := &cobra.Command{
		Use:   "presets [engine]",
		Short: "list available presets for an engine",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted scenario on a virtual clock",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [text]...",
		Short: "sweep typing speed and measure run duration",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepMin, "min", 20, "minimum typing speed (ms)")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 120, "maximum typing speed (ms)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of sweep steps")
	sweepCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	trialsCmd := &cobra.Command{
		Use:   "trials [text]...",
		Short: "measure jitter spread across seeded runs",
		RunE:  runTrials,
	}
	addTimingFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&numTrials, "n", 50, "number of trials")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [text]...",
		Short: "export a timeline or cadence chart as SVG",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "typewave.svg", "output file")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "timeline", "chart kind: timeline or cadence")
	exportSVGCmd.Flags().Float64Var(&rate, "rate", config.DefaultTokensPerSecond, "tokens per second (timeline)")
	exportSVGCmd.Flags().Int64Var(&seed, "seed", 42, "random seed (cadence)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark engine throughput on a virtual clock",
		RunE:  runBench,
	}

	rootCmd.AddCommand(typeCmd, liveCmd, revealCmd, timelineCmd, presetsCmd, scriptCmd, sweepCmd, trialsCmd, exportSVGCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addTimingFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&typingMs, "speed", config.DefaultTypingSpeedMs, "typing delay per character (ms)")
	cmd.Flags().IntVar(&deletingMs, "delete-speed", config.DefaultDeletingSpeedMs, "deleting delay per character (ms)")
	cmd.Flags().IntVar(&initialMs, "initial-delay", 0, "delay before the first character (ms)")
	cmd.Flags().IntVar(&pauseMs, "pause", config.DefaultPauseMs, "pause after a completed string (ms)")
	cmd.Flags().IntVar(&blinkMs, "blink", config.DefaultBlinkMs, "cursor blink interval (ms)")
	cmd.Flags().BoolVar(&loop, "loop", false, "cycle through the targets forever")
	cmd.Flags().StringVar(&cursor, "cursor", config.DefaultCursor, "cursor glyph")
	cmd.Flags().BoolVar(&noCursor, "no-cursor", false, "hide the cursor")
	cmd.Flags().Float64Var(&typingJitter, "jitter", engine.DefaultTypingJitter, "typing jitter ratio")
	cmd.Flags().Float64Var(&deletingJitter, "delete-jitter", engine.DefaultDeletingJitter, "deleting jitter ratio")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig builds the effective configuration: defaults, then the
// preset, then the config file, then any explicitly set flags.
func resolveConfig(cmd *cobra.Command, engineName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Engine = engineName

	if preset != "" {
		p := config.GetPreset(engineName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(engineName))
		}
		c := *p
		c.Engine = engineName
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Engine = engineName
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("speed") {
		cfg.TypingSpeed = typingMs
	}
	if f.Changed("delete-speed") {
		cfg.DeletingSpeed = deletingMs
	}
	if f.Changed("initial-delay") {
		cfg.InitialDelay = initialMs
	}
	if f.Changed("pause") {
		cfg.Pause = pauseMs
	}
	if f.Changed("blink") {
		cfg.Blink = blinkMs
	}
	if f.Changed("loop") {
		cfg.Loop = loop
	}
	if f.Changed("cursor") {
		cfg.Cursor = cursor
	}
	if noCursor {
		cfg.ShowCursor = false
	}
	if f.Changed("jitter") {
		cfg.TypingJitter = typingJitter
	}
	if f.Changed("delete-jitter") {
		cfg.DeletingJitter = deletingJitter
	}
	if f.Changed("rate") {
		cfg.TokensPerSecond = rate
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

// targetsFor picks the target list: command arguments first, then the
// config file's text, then the built-in demo.
func targetsFor(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	if len(cfg.Text) > 0 {
		return cfg.Text
	}
	return demoText
}

func newRNG(s int64) *rand.Rand {
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(s))
}

func runType(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.EngineTypewriter)
	if err != nil {
		return err
	}
	if cfg.Loop {
		return fmt.Errorf("looping runs never complete; use the live command instead")
	}
	targets := targetsFor(cfg, args)

	anim := cfg.Animation()
	done := make(chan struct{})
	anim.OnComplete = func() { close(done) }
	if !watch {
		anim.ShowCursor = false
	}

	tw := engine.NewTypewriter(targets, anim, nil, newRNG(cfg.Seed))
	set := metrics.Default()
	for _, m := range set {
		tw.Subscribe(m)
	}

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, anim.CursorChar, frameRate)
		r.Start()
		defer r.Stop()
		tw.Subscribe(r)
	}

	start := time.Now()
	tw.Start()

	deadline := 3*anim.Estimate(targets) + 5*time.Second
	select {
	case <-done:
	case <-time.After(deadline):
		tw.Stop()
		return fmt.Errorf("run did not complete within %v", deadline)
	}
	elapsed := time.Since(start)
	tw.Stop()

	if watch {
		fmt.Println()
	}
	fmt.Printf("completed in %v (expected %v)\n\nmetrics:\n", elapsed.Round(time.Millisecond), anim.Estimate(targets))
	for _, m := range set {
		fmt.Printf("  %s: %.3f\n", m.Name(), m.Value())
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.EngineTypewriter)
	if err != nil {
		return err
	}
	if theme != "" {
		viz.SetTheme(theme)
	}
	targets := targetsFor(cfg, args)

	anim := cfg.Animation()
	tw := engine.NewTypewriter(targets, anim, nil, newRNG(cfg.Seed))

	p := tea.NewProgram(viz.NewTypewriterModel(tw, anim))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runReveal(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.EngineReveal)
	if err != nil {
		return err
	}
	if theme != "" {
		viz.SetTheme(theme)
	}
	text := strings.Join(targetsFor(cfg, args), " ")

	if watch {
		return watchReveal(cfg, text)
	}

	r := engine.NewReveal(text, cfg.RevealOptions(), nil)
	p := tea.NewProgram(viz.NewRevealModel(r))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// watchReveal plays the reveal on the real clock, redrawing a single
// progress line per token.
func watchReveal(cfg *config.Config, text string) error {
	opts := cfg.RevealOptions()
	done := make(chan struct{})
	opts.OnComplete = func() { close(done) }

	r := engine.NewReveal(text, opts, nil)
	tl := r.Timeline()
	r.Subscribe(func(s engine.RevealSnapshot) {
		tui.RenderReveal(os.Stdout, tl, s)
	})

	start := time.Now()
	r.Start()

	deadline := 3*tl.Total + 5*time.Second
	select {
	case <-done:
	case <-time.After(deadline):
		r.Stop()
		return fmt.Errorf("run did not complete within %v", deadline)
	}
	fmt.Printf("\ncompleted in %v (planned %v)\n", time.Since(start).Round(time.Millisecond), tl.Total)
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	tl := engine.PlanTimeline(text, rate)
	if len(tl.Tokens) == 0 {
		return fmt.Errorf("no tokens to plan")
	}

	fmt.Printf("tokens: %d\n", len(tl.Tokens))
	fmt.Printf("effective rate: %.1f tokens/sec\n", engine.EffectiveRate(len(tl.Tokens), rate))
	fmt.Printf("stagger: %v\n", tl.Stagger)
	fmt.Printf("total: %v\n\n", tl.Total)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tTOKEN\tSTART\tDURATION")
	for i, tok := range tl.Tokens {
		fmt.Fprintf(w, "%d\t%q\t%v\t%v\n", i, tok.Text, tok.Start, tok.Duration)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	offsets := make([]float64, len(tl.Tokens))
	for i, tok := range tl.Tokens {
		offsets[i] = float64(tok.Start.Milliseconds())
	}
	graph := asciigraph.Plot(offsets,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("reveal offset (ms) per token"),
	)
	fmt.Println()
	fmt.Println(graph)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets(args[0])
	if len(names) == 0 {
		fmt.Printf("no presets for engine: %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSPEED\tPAUSE\tLOOP\tRATE")
	for _, name := range names {
		p := config.GetPreset(args[0], name)
		fmt.Fprintf(w, "%s\t%dms\t%dms\t%v\t%.1f/s\n",
			name, p.TypingSpeed, p.Pause, p.Loop, p.TokensPerSecond)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := script.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	results, err := script.RunScenario(context.Background(), sc, true)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tENGINE\tCHARS\tTOKENS\tDURATION\tCADENCE")
	for i, r := range results {
		cadence := "-"
		if v, ok := r.Metrics["cadence_ms"]; ok && v > 0 {
			cadence = fmt.Sprintf("%.1fms", v)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%v\t%s\n", i+1, r.Engine, r.Chars, r.Tokens, r.Duration, cadence)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	text := args
	if len(text) == 0 {
		text = demoText[:1]
	}

	points, err := script.RunSweep(context.Background(), &script.SpeedSweep{
		Text:     text,
		MinMs:    sweepMin,
		MaxMs:    sweepMax,
		NumSteps: sweepSteps,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tESTIMATED\tMEASURED")
	data := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%dms\t%v\t%v\n", p.SpeedMs, p.Estimated, p.Measured)
		data[i] = float64(p.Measured.Milliseconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("run duration (ms) vs typing speed"),
	)
	fmt.Println()
	fmt.Println(graph)
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.EngineTypewriter)
	if err != nil {
		return err
	}
	cfg.Text = targetsFor(cfg, args)
	cfg.Loop = false

	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = 1
	}

	stats, err := script.JitterTrials(context.Background(), cfg, numTrials, baseSeed)
	if err != nil {
		return err
	}

	expected := cfg.Animation().Estimate(cfg.Text)
	fmt.Printf("trials: %d\n", stats.Trials)
	fmt.Printf("expected (jitter-free): %v\n", expected)
	fmt.Printf("min:  %v\n", stats.Min)
	fmt.Printf("mean: %v\n", stats.Mean)
	fmt.Printf("max:  %v\n", stats.Max)
	fmt.Printf("spread: %v\n", stats.Max-stats.Min)
	return nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	var svg string
	switch svgKind {
	case "timeline":
		tl := engine.PlanTimeline(strings.Join(args, " "), rate)
		svg = export.TimelineToSVG(tl, 800, 400, "")
	case "cadence":
		samples, err := measureCadence(args, seed)
		if err != nil {
			return err
		}
		svg = export.CadenceToSVG(samples, 800, 240, "")
	default:
		return fmt.Errorf("unknown chart kind: %s (want timeline or cadence)", svgKind)
	}
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// measureCadence runs the targets on a virtual clock and records the
// delay before each typed character, in milliseconds.
func measureCadence(targets []string, s int64) ([]float64, error) {
	sched := engine.NewManualScheduler()
	anim := engine.DefaultConfig()
	anim.ShowCursor = false

	done := false
	anim.OnComplete = func() { done = true }

	var samples []float64
	lastLen := 0
	tw := engine.NewTypewriter(targets, anim, sched, newRNG(s))
	tw.Subscribe(engine.ObserverFunc(func(snap engine.Snapshot, sincePrev time.Duration) {
		n := len([]rune(snap.Text))
		if n == lastLen+1 && snap.Phase == engine.PhaseTyping {
			samples = append(samples, float64(sincePrev)/float64(time.Millisecond))
		}
		lastLen = n
	}))

	tw.Start()
	for i := 0; !done; i++ {
		if i > 1<<20 || sched.Pending() == 0 {
			return nil, fmt.Errorf("run did not complete")
		}
		sched.RunNext()
	}
	return samples, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	sizes := []int{100, 1000, 10000}

	fmt.Println("benchmarking typewriter on a virtual clock")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHARS\tTICKS\tVIRTUAL\tWALL\tTICKS/SEC")

	for _, n := range sizes {
		text := strings.Repeat("lorem ipsum dolor sit amet ", n/27+1)
		text = text[:n]

		sched := engine.NewManualScheduler()
		anim := engine.DefaultConfig()
		anim.ShowCursor = false
		done := false
		anim.OnComplete = func() { done = true }

		tw := engine.NewTypewriter([]string{text}, anim, sched, newRNG(42))

		start := time.Now()
		tw.Start()
		for !done && sched.Pending() > 0 {
			sched.RunNext()
		}
		elapsed := time.Since(start)

		ticks := sched.Scheduled()
		perSec := float64(ticks) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%.0f\n",
			n, ticks, sched.Now().Round(time.Millisecond), elapsed.Round(time.Microsecond), perSec)
	}
	return w.Flush()
}
