package engine

import (
	"math/rand"
	"sync"
	"time"
)

type jitterClass int

const (
	jitterNone jitterClass = iota
	jitterTyping
	jitterDeleting
)

// stepResult is the outcome of one pure transition: the successor
// state, the base delay before the next tick, which jitter ratio
// applies to that delay, and whether the run completed.
type stepResult struct {
	phase    Phase
	index    int
	cursor   int
	delay    time.Duration
	jitter   jitterClass
	complete bool
}

// step is the pure transition function of the typewriter state
// machine. It never mutates anything and never touches a clock, which
// keeps every edge of the machine testable in isolation.
func step(phase Phase, index, cursor int, targets [][]rune, cfg Config) stepResult {
	r := stepResult{phase: phase, index: index, cursor: cursor}
	switch phase {
	case PhaseInitial:
		r.phase = PhaseTyping
		r.delay = cfg.InitialDelay

	case PhaseTyping:
		target := targets[index]
		if cursor < len(target) {
			r.cursor = cursor + 1
			r.delay = cfg.TypingSpeed
			if isEmphasis(target[cursor]) {
				r.delay *= emphasisFactor
			}
			r.jitter = jitterTyping
		} else {
			r.phase = PhasePausing
			r.delay = 0
		}

	case PhasePausing:
		if index == len(targets)-1 && !cfg.Loop {
			r.phase = PhaseDone
			r.complete = true
		} else {
			r.phase = PhaseDeleting
			r.delay = cfg.PauseDuration
		}

	case PhaseDeleting:
		switch {
		case cursor > 0:
			r.cursor = cursor - 1
			r.delay = cfg.DeletingSpeed
			r.jitter = jitterDeleting
		case index+1 < len(targets):
			r.index = index + 1
			r.phase = PhaseTyping
			r.delay = cfg.TypingSpeed
		case cfg.Loop:
			r.index = 0
			r.phase = PhaseTyping
			r.delay = cfg.TypingSpeed
		default:
			// Unreachable when the pausing guard already completed the
			// run, but the machine stays safe if entered directly.
			r.phase = PhaseDone
			r.complete = true
		}

	case PhaseDone:
		r.complete = true
	}
	return r
}

// Typewriter drives one or more target strings through cyclic
// type/pause/delete phases on a Scheduler. At most one phase timer is
// outstanding at any time; replacing the targets or the configuration
// cancels it synchronously before a new run begins.
type Typewriter struct {
	mu    sync.Mutex
	cfg   Config
	sched Scheduler
	rng   *rand.Rand

	raw     []string
	targets [][]rune

	phase     Phase
	index     int
	cursor    int
	run       int
	timer     Timer
	lastDelay time.Duration
	completed bool

	cursorShown bool
	cursorOn    bool
	blinkRun    int
	blinkTimer  Timer

	observers map[int]Observer
	nextObs   int
}

// NewTypewriter builds an idle typewriter over targets. A nil
// scheduler selects the real clock; a nil rng seeds one from the
// current time. Call Start to begin the first run.
func NewTypewriter(targets []string, cfg Config, sched Scheduler, rng *rand.Rand) *Typewriter {
	if sched == nil {
		sched = NewTimerScheduler()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg = cfg.normalized()
	t := &Typewriter{
		cfg:         cfg,
		sched:       sched,
		rng:         rng,
		cursorShown: cfg.ShowCursor,
		cursorOn:    cfg.ShowCursor,
		observers:   make(map[int]Observer),
	}
	t.setTargetsLocked(targets)
	return t
}

// hasVisibleText reports whether any target contributes at least one
// rune to animate.
func hasVisibleText(targets [][]rune) bool {
	for _, target := range targets {
		if len(target) > 0 {
			return true
		}
	}
	return false
}

func (t *Typewriter) setTargetsLocked(targets []string) {
	t.raw = append([]string(nil), targets...)
	t.targets = make([][]rune, len(targets))
	for i, s := range targets {
		t.targets[i] = []rune(s)
	}
}

// Targets returns a copy of the current target list.
func (t *Typewriter) Targets() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.raw...)
}

// Config returns the active configuration.
func (t *Typewriter) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Start begins a fresh run from the initial phase, cancelling any
// in-flight run first. It also starts the cursor blink when enabled.
func (t *Typewriter) Start() {
	t.mu.Lock()
	fire := t.startLocked()
	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	cb := t.cfg.OnComplete
	t.startBlinkLocked()
	t.mu.Unlock()
	notify(obs, snap, 0)
	if fire {
		cb()
	}
}

// startLocked resets state and schedules the first tick. It reports
// whether the run completed immediately (degenerate empty input) and
// the OnComplete callback should fire.
func (t *Typewriter) startLocked() bool {
	t.run++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.phase = PhaseInitial
	t.index = 0
	t.cursor = 0
	t.completed = false
	t.lastDelay = 0

	if !hasVisibleText(t.targets) {
		// Nothing to animate, including lists of only empty strings:
		// complete immediately rather than spin, or idle without a
		// timer when looping.
		if !t.cfg.Loop {
			return t.completeLocked()
		}
		return false
	}

	res := step(t.phase, t.index, t.cursor, t.targets, t.cfg)
	t.phase = res.phase
	t.scheduleLocked(res.delay)
	return false
}

// completeLocked marks the run done. The OnComplete callback is fired
// by the caller after releasing the lock; this only flips the guard.
// Returns whether the callback should fire.
func (t *Typewriter) completeLocked() bool {
	t.phase = PhaseDone
	if t.completed {
		return false
	}
	t.completed = true
	return t.cfg.OnComplete != nil
}

func (t *Typewriter) scheduleLocked(d time.Duration) {
	run := t.run
	t.lastDelay = d
	t.timer = t.sched.Schedule(d, func() { t.tick(run) })
}

func (t *Typewriter) tick(run int) {
	t.mu.Lock()
	if run != t.run {
		// A reset or teardown raced this fire; the run is stale.
		t.mu.Unlock()
		return
	}
	t.timer = nil
	sincePrev := t.lastDelay

	res := step(t.phase, t.index, t.cursor, t.targets, t.cfg)
	t.phase = res.phase
	t.index = res.index
	t.cursor = res.cursor

	fire := false
	if res.complete {
		fire = t.completeLocked()
	} else {
		t.scheduleLocked(t.jitteredLocked(res.delay, res.jitter))
	}

	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	cb := t.cfg.OnComplete
	t.mu.Unlock()

	notify(obs, snap, sincePrev)
	if fire {
		cb()
	}
}

// jitteredLocked perturbs base by the configured ratio for the phase:
// base ± base*ratio/2, uniform.
func (t *Typewriter) jitteredLocked(base time.Duration, class jitterClass) time.Duration {
	var ratio float64
	switch class {
	case jitterTyping:
		ratio = t.cfg.TypingJitter
	case jitterDeleting:
		ratio = t.cfg.DeletingJitter
	default:
		return base
	}
	d := base + time.Duration(float64(base)*ratio*(t.rng.Float64()-0.5))
	if d < 0 {
		d = 0
	}
	return d
}

// SetTargets replaces the target list and hard-resets the engine: the
// pending timer is cancelled synchronously, progress is discarded and
// a new run starts from the initial phase.
func (t *Typewriter) SetTargets(targets []string) {
	t.mu.Lock()
	t.setTargetsLocked(targets)
	fire := t.startLocked()
	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	cb := t.cfg.OnComplete
	t.mu.Unlock()
	notify(obs, snap, 0)
	if fire {
		cb()
	}
}

// SetConfig replaces the configuration and restarts the run, exactly
// as SetTargets does.
func (t *Typewriter) SetConfig(cfg Config) {
	t.mu.Lock()
	t.cfg = cfg.normalized()
	t.cursorShown = t.cfg.ShowCursor
	t.cursorOn = t.cfg.ShowCursor
	fire := t.startLocked()
	t.startBlinkLocked()
	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	cb := t.cfg.OnComplete
	t.mu.Unlock()
	notify(obs, snap, 0)
	if fire {
		cb()
	}
}

// Stop tears the engine down, releasing the phase timer and the blink
// timer. A stopped typewriter can be restarted with Start.
func (t *Typewriter) Stop() {
	t.mu.Lock()
	t.run++
	t.blinkRun++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.blinkTimer != nil {
		t.blinkTimer.Stop()
		t.blinkTimer = nil
	}
	t.mu.Unlock()
}

// SetCursorEnabled turns the blinking cursor on or off independently
// of the phase machine.
func (t *Typewriter) SetCursorEnabled(on bool) {
	t.mu.Lock()
	t.cursorShown = on
	t.cursorOn = on
	t.startBlinkLocked()
	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	t.mu.Unlock()
	notify(obs, snap, 0)
}

// startBlinkLocked (re)starts the blink loop when the cursor is shown
// and releases the old handle either way.
func (t *Typewriter) startBlinkLocked() {
	t.blinkRun++
	if t.blinkTimer != nil {
		t.blinkTimer.Stop()
		t.blinkTimer = nil
	}
	if !t.cursorShown {
		return
	}
	t.scheduleBlinkLocked()
}

func (t *Typewriter) scheduleBlinkLocked() {
	run := t.blinkRun
	t.blinkTimer = t.sched.Schedule(t.cfg.BlinkInterval, func() { t.blinkTick(run) })
}

func (t *Typewriter) blinkTick(run int) {
	t.mu.Lock()
	if run != t.blinkRun {
		t.mu.Unlock()
		return
	}
	t.cursorOn = !t.cursorOn
	t.scheduleBlinkLocked()
	snap := t.snapshotLocked()
	obs := t.observerListLocked()
	t.mu.Unlock()
	notify(obs, snap, 0)
}

// Snapshot returns the currently observable state.
func (t *Typewriter) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Typewriter) snapshotLocked() Snapshot {
	text := ""
	if t.index < len(t.targets) {
		text = string(t.targets[t.index][:t.cursor])
	}
	return Snapshot{
		Text:          text,
		CursorVisible: t.cursorShown && t.cursorOn,
		Phase:         t.phase,
		SequenceIndex: t.index,
		Done:          t.completed,
	}
}

// Subscribe registers an observer and returns its unsubscribe func.
func (t *Typewriter) Subscribe(o Observer) func() {
	t.mu.Lock()
	id := t.nextObs
	t.nextObs++
	t.observers[id] = o
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

func (t *Typewriter) observerListLocked() []Observer {
	obs := make([]Observer, 0, len(t.observers))
	for _, o := range t.observers {
		obs = append(obs, o)
	}
	return obs
}

func notify(obs []Observer, s Snapshot, sincePrev time.Duration) {
	for _, o := range obs {
		o.OnTick(s, sincePrev)
	}
}
