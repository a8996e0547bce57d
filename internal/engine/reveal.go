package engine

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

// RevealConfig holds the timing parameters of a staggered token
// reveal.
type RevealConfig struct {
	// TokensPerSecond is the requested base rate before the adaptive
	// adjustment for token count.
	TokensPerSecond float64

	// OnComplete fires once, after the last token's transition ends.
	OnComplete func()
}

const (
	DefaultTokensPerSecond = 20.0

	// RevealTransition is each token's own settle duration,
	// independent of the stagger interval.
	RevealTransition = 200 * time.Millisecond
)

// Tokenize splits text into ordered tokens, each one run of
// non-whitespace characters plus any immediately trailing whitespace.
// Joining the tokens in order reproduces text byte for byte.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	var b strings.Builder
	inSpace := false
	for _, r := range text {
		space := unicode.IsSpace(r)
		if !space && inSpace {
			tokens = append(tokens, b.String())
			b.Reset()
		}
		b.WriteRune(r)
		inSpace = space
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// EffectiveRate adjusts the requested rate to the token count: large
// blocks speed up, short ones slow down.
func EffectiveRate(tokenCount int, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultTokensPerSecond
	}
	switch {
	case tokenCount > 50:
		return rate * 1.5
	case tokenCount < 10:
		return rate * 0.8
	default:
		return rate
	}
}

// TokenReveal is one token tagged with its reveal start offset and
// transition duration, for the consumer to animate.
type TokenReveal struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// Timeline is the fully planned reveal schedule for one text block.
type Timeline struct {
	Tokens  []TokenReveal
	Stagger time.Duration
	Total   time.Duration
}

// PlanTimeline tokenizes text and lays every token out on a timeline:
// token i starts at i×stagger, and the whole timeline ends when the
// last token's transition finishes.
func PlanTimeline(text string, tokensPerSecond float64) Timeline {
	tokens := Tokenize(text)
	n := len(tokens)
	eff := EffectiveRate(n, tokensPerSecond)
	stagger := time.Duration(float64(time.Second) / eff)

	tl := Timeline{Stagger: stagger}
	if n == 0 {
		return tl
	}
	tl.Tokens = make([]TokenReveal, n)
	for i, tok := range tokens {
		tl.Tokens[i] = TokenReveal{
			Text:     tok,
			Start:    time.Duration(i) * stagger,
			Duration: RevealTransition,
		}
	}
	tl.Total = time.Duration(n-1)*stagger + RevealTransition
	return tl
}

// RevealedAt returns how many tokens have begun their reveal at
// elapsed time since the timeline started.
func (tl Timeline) RevealedAt(elapsed time.Duration) int {
	n := len(tl.Tokens)
	if n == 0 || elapsed < 0 {
		return 0
	}
	if tl.Stagger <= 0 {
		return n
	}
	k := int(elapsed/tl.Stagger) + 1
	if k > n {
		k = n
	}
	return k
}

// RevealSnapshot is the externally observable state of a reveal run.
type RevealSnapshot struct {
	Revealed int
	Total    int
	Done     bool
}

// Reveal plays a Timeline on a Scheduler, firing one observer
// notification per token and exactly one completion. It is fire-once:
// the only restart path is supplying a new text block, which discards
// the prior timeline entirely.
type Reveal struct {
	mu    sync.Mutex
	cfg   RevealConfig
	sched Scheduler

	text      string
	timeline  Timeline
	revealed  int
	run       int
	timer     Timer
	completed bool

	observers map[int]func(RevealSnapshot)
	nextObs   int
}

// NewReveal plans the timeline for text. A nil scheduler selects the
// real clock. Call Start to play it.
func NewReveal(text string, cfg RevealConfig, sched Scheduler) *Reveal {
	if sched == nil {
		sched = NewTimerScheduler()
	}
	return &Reveal{
		cfg:       cfg,
		sched:     sched,
		text:      text,
		timeline:  PlanTimeline(text, cfg.TokensPerSecond),
		observers: make(map[int]func(RevealSnapshot)),
	}
}

// Timeline returns the planned schedule.
func (r *Reveal) Timeline() Timeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeline
}

// Snapshot returns the current reveal progress.
func (r *Reveal) Snapshot() RevealSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Reveal) snapshotLocked() RevealSnapshot {
	return RevealSnapshot{
		Revealed: r.revealed,
		Total:    len(r.timeline.Tokens),
		Done:     r.completed,
	}
}

// Subscribe registers a progress callback and returns its unsubscribe
// func.
func (r *Reveal) Subscribe(fn func(RevealSnapshot)) func() {
	r.mu.Lock()
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// Start plays the timeline from the beginning. Token 0 reveals
// immediately; an empty token list completes at once.
func (r *Reveal) Start() {
	r.mu.Lock()
	r.run++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.revealed = 0
	r.completed = false

	n := len(r.timeline.Tokens)
	if n == 0 {
		fire := r.completeLocked()
		snap := r.snapshotLocked()
		obs := r.observerListLocked()
		cb := r.cfg.OnComplete
		r.mu.Unlock()
		notifyReveal(obs, snap)
		if fire {
			cb()
		}
		return
	}

	r.revealed = 1
	r.scheduleLocked()
	snap := r.snapshotLocked()
	obs := r.observerListLocked()
	r.mu.Unlock()
	notifyReveal(obs, snap)
}

// SetText discards the prior timeline, plans a fresh one for text and
// starts it, exactly as on first use.
func (r *Reveal) SetText(text string) {
	r.mu.Lock()
	r.text = text
	r.timeline = PlanTimeline(text, r.cfg.TokensPerSecond)
	r.mu.Unlock()
	r.Start()
}

// Stop cancels the pending timer, abandoning the run.
func (r *Reveal) Stop() {
	r.mu.Lock()
	r.run++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()
}

func (r *Reveal) completeLocked() bool {
	r.completed = true
	return r.cfg.OnComplete != nil
}

// scheduleLocked arranges the next event: another token after the
// stagger interval, or completion after the final token's transition.
func (r *Reveal) scheduleLocked() {
	run := r.run
	if r.revealed < len(r.timeline.Tokens) {
		r.timer = r.sched.Schedule(r.timeline.Stagger, func() { r.tick(run) })
	} else {
		r.timer = r.sched.Schedule(RevealTransition, func() { r.finish(run) })
	}
}

func (r *Reveal) tick(run int) {
	r.mu.Lock()
	if run != r.run {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.revealed++
	r.scheduleLocked()
	snap := r.snapshotLocked()
	obs := r.observerListLocked()
	r.mu.Unlock()
	notifyReveal(obs, snap)
}

func (r *Reveal) finish(run int) {
	r.mu.Lock()
	if run != r.run {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	fire := r.completeLocked()
	snap := r.snapshotLocked()
	obs := r.observerListLocked()
	cb := r.cfg.OnComplete
	r.mu.Unlock()
	notifyReveal(obs, snap)
	if fire {
		cb()
	}
}

func (r *Reveal) observerListLocked() []func(RevealSnapshot) {
	obs := make([]func(RevealSnapshot), 0, len(r.observers))
	for _, fn := range r.observers {
		obs = append(obs, fn)
	}
	return obs
}

func notifyReveal(obs []func(RevealSnapshot), s RevealSnapshot) {
	for _, fn := range obs {
		fn(s)
	}
}
