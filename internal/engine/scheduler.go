package engine

import (
	"container/heap"
	"sync"
	"time"
)

// Scheduler is the single-shot delay primitive both engines run on.
// Schedule arranges for fn to be called once after d; the returned
// Timer cancels the pending call.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// Timer is an opaque handle for one scheduled call. Stop reports
// whether the call was cancelled before it fired.
type Timer interface {
	Stop() bool
}

type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by the real clock.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) Schedule(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return realTimer{time.AfterFunc(d, fn)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// ManualScheduler is a deterministic Scheduler driven by a virtual
// clock. Scheduled calls fire only when the caller runs them, in
// fire-time order with FIFO tie-breaking, so timing-sensitive engine
// behavior can be exercised without real delays.
type ManualScheduler struct {
	mu        sync.Mutex
	now       time.Duration
	seq       int
	pending   timerHeap
	scheduled int
	cancelled int
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Schedule(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.scheduled++
	e := &manualTimer{sched: m, at: m.now + d, seq: m.seq, fn: fn}
	heap.Push(&m.pending, e)
	return e
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of outstanding timers.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.Len()
}

// Scheduled returns the total number of Schedule calls observed.
func (m *ManualScheduler) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}

// Cancelled returns how many timers were stopped before firing.
func (m *ManualScheduler) Cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// RunNext advances the clock to the earliest pending timer and fires
// it. It reports whether a timer was run.
func (m *ManualScheduler) RunNext() bool {
	m.mu.Lock()
	if m.pending.Len() == 0 {
		m.mu.Unlock()
		return false
	}
	e := heap.Pop(&m.pending).(*manualTimer)
	e.popped = true
	m.now = e.at
	fn := e.fn
	m.mu.Unlock()
	fn()
	return true
}

// Advance moves the clock forward by d, firing every timer that comes
// due, in order. Timers scheduled by fired callbacks are honored if
// they also come due within the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now + d
	for {
		if m.pending.Len() == 0 || m.pending[0].at > deadline {
			m.now = deadline
			m.mu.Unlock()
			return
		}
		e := heap.Pop(&m.pending).(*manualTimer)
		e.popped = true
		m.now = e.at
		fn := e.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
}

type manualTimer struct {
	sched  *ManualScheduler
	at     time.Duration
	seq    int
	index  int
	fn     func()
	popped bool
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.popped {
		return false
	}
	heap.Remove(&t.sched.pending, t.index)
	t.popped = true
	t.sched.cancelled++
	return true
}

type timerHeap []*manualTimer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*manualTimer)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
