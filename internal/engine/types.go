package engine

import "time"

// Phase is one discrete state of the typewriter state machine.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseTyping
	PhasePausing
	PhaseDeleting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseTyping:
		return "typing"
	case PhasePausing:
		return "pausing"
	case PhaseDeleting:
		return "deleting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Snapshot is the externally observable state of a typewriter at one
// instant: what a consumer would render.
type Snapshot struct {
	Text          string
	CursorVisible bool
	Phase         Phase
	SequenceIndex int
	Done          bool
}

// Observer receives a snapshot after every engine tick. sincePrev is
// the delay that elapsed between the previous tick and this one (zero
// on the first notification of a run).
type Observer interface {
	OnTick(s Snapshot, sincePrev time.Duration)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(s Snapshot, sincePrev time.Duration)

func (f ObserverFunc) OnTick(s Snapshot, sincePrev time.Duration) { f(s, sincePrev) }

// Config holds the timing parameters of a typewriter run. It is
// immutable for the duration of a run; replacing it resets the engine.
type Config struct {
	TypingSpeed   time.Duration
	DeletingSpeed time.Duration
	InitialDelay  time.Duration
	PauseDuration time.Duration
	Loop          bool

	ShowCursor    bool
	CursorChar    string
	BlinkInterval time.Duration

	// Jitter ratios for the typing and deleting phases. A delay of
	// base becomes base ± base*ratio/2, uniformly distributed.
	TypingJitter   float64
	DeletingJitter float64

	// OnComplete fires exactly once per run, and never while looping.
	OnComplete func()
}

const (
	DefaultTypingSpeed   = 50 * time.Millisecond
	DefaultDeletingSpeed = 30 * time.Millisecond
	DefaultPauseDuration = 1500 * time.Millisecond
	DefaultBlinkInterval = 500 * time.Millisecond
	DefaultCursorChar    = "|"

	DefaultTypingJitter   = 0.5
	DefaultDeletingJitter = 0.2

	// Multiplier applied to the typing delay after a space, comma or
	// period, approximating natural pacing at word boundaries.
	emphasisFactor = 3
)

// DefaultConfig returns a typewriter configuration with the stock
// timing values.
func DefaultConfig() Config {
	return Config{
		TypingSpeed:    DefaultTypingSpeed,
		DeletingSpeed:  DefaultDeletingSpeed,
		InitialDelay:   0,
		PauseDuration:  DefaultPauseDuration,
		ShowCursor:     true,
		CursorChar:     DefaultCursorChar,
		BlinkInterval:  DefaultBlinkInterval,
		TypingJitter:   DefaultTypingJitter,
		DeletingJitter: DefaultDeletingJitter,
	}
}

// normalized returns a copy with non-positive or missing values
// clamped to safe defaults. Negative durations clamp to zero rather
// than erroring.
func (c Config) normalized() Config {
	if c.TypingSpeed < 0 {
		c.TypingSpeed = 0
	}
	if c.DeletingSpeed < 0 {
		c.DeletingSpeed = 0
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	if c.PauseDuration < 0 {
		c.PauseDuration = 0
	}
	if c.BlinkInterval <= 0 {
		c.BlinkInterval = DefaultBlinkInterval
	}
	if c.CursorChar == "" {
		c.CursorChar = DefaultCursorChar
	}
	if c.TypingJitter <= 0 {
		c.TypingJitter = DefaultTypingJitter
	}
	if c.DeletingJitter <= 0 {
		c.DeletingJitter = DefaultDeletingJitter
	}
	return c
}

// Estimate returns the expected jitter-free duration of a full run
// over targets with loop disabled. Jitter is symmetric around the
// base delay, so this is also the mean duration across seeds.
func (c Config) Estimate(targets []string) time.Duration {
	c = c.normalized()
	if len(targets) == 0 {
		return 0
	}
	total := c.InitialDelay
	for i, target := range targets {
		for _, r := range target {
			d := c.TypingSpeed
			if isEmphasis(r) {
				d *= emphasisFactor
			}
			total += d
		}
		if i == len(targets)-1 {
			break
		}
		total += c.PauseDuration
		total += time.Duration(len([]rune(target))) * c.DeletingSpeed
		total += c.TypingSpeed // advance to the next target
	}
	return total
}

func isEmphasis(r rune) bool {
	return r == ' ' || r == ',' || r == '.'
}
