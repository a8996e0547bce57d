// Package metrics provides timing collectors for typewriter runs.
// Every metric implements [engine.Observer] and can be subscribed
// directly to an engine instance.
package metrics

import (
	"math"
	"time"

	"github.com/san-kum/typewave/internal/engine"
)

// Metric accumulates one timing statistic over a run.
type Metric interface {
	Name() string
	OnTick(s engine.Snapshot, sincePrev time.Duration)
	Value() float64
	Reset()
}

// Cadence measures the mean delay between typed characters, in
// milliseconds. Blink and phase-change ticks are ignored.
type Cadence struct {
	name    string
	lastLen int
	total   time.Duration
	samples int
}

func NewCadence() *Cadence {
	return &Cadence{name: "cadence_ms"}
}

func (c *Cadence) Name() string { return c.name }

func (c *Cadence) OnTick(s engine.Snapshot, sincePrev time.Duration) {
	n := len([]rune(s.Text))
	grew := n == c.lastLen+1 && s.Phase == engine.PhaseTyping
	c.lastLen = n
	if !grew {
		return
	}
	c.total += sincePrev
	c.samples++
}

func (c *Cadence) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total.Milliseconds()) / float64(c.samples)
}

func (c *Cadence) Reset() {
	c.lastLen = 0
	c.total = 0
	c.samples = 0
}

// Throughput measures typed characters per second of elapsed tick
// time across the whole run.
type Throughput struct {
	name    string
	lastLen int
	typed   int
	elapsed time.Duration
}

func NewThroughput() *Throughput {
	return &Throughput{name: "chars_per_sec"}
}

func (t *Throughput) Name() string { return t.name }

func (t *Throughput) OnTick(s engine.Snapshot, sincePrev time.Duration) {
	t.elapsed += sincePrev
	n := len([]rune(s.Text))
	if n == t.lastLen+1 && s.Phase == engine.PhaseTyping {
		t.typed++
	}
	t.lastLen = n
}

func (t *Throughput) Value() float64 {
	if t.elapsed <= 0 {
		return 0
	}
	return float64(t.typed) / t.elapsed.Seconds()
}

func (t *Throughput) Reset() {
	t.lastLen = 0
	t.typed = 0
	t.elapsed = 0
}

// Spread measures the standard deviation of typing delays, in
// milliseconds — a direct view of the configured jitter.
type Spread struct {
	name    string
	lastLen int
	sum     float64
	sumSq   float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread_ms"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) OnTick(snap engine.Snapshot, sincePrev time.Duration) {
	n := len([]rune(snap.Text))
	grew := n == s.lastLen+1 && snap.Phase == engine.PhaseTyping
	s.lastLen = n
	if !grew {
		return
	}
	ms := float64(sincePrev) / float64(time.Millisecond)
	s.sum += ms
	s.sumSq += ms * ms
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	mean := s.sum / float64(s.samples)
	variance := s.sumSq/float64(s.samples) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func (s *Spread) Reset() {
	s.lastLen = 0
	s.sum = 0
	s.sumSq = 0
	s.samples = 0
}

// Default returns the standard collector set for a headless run.
func Default() []Metric {
	return []Metric{NewCadence(), NewThroughput(), NewSpread()}
}
