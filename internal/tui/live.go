// Package tui renders animation progress to a plain terminal without
// taking over the screen, for use in scripts and non-interactive runs.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/typewave/internal/engine"
)

const (
	clearLine  = "\r\033[K"
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

// LiveRenderer writes the current animation text to a single terminal
// line, redrawing in place on every engine tick. It implements
// [engine.Observer].
type LiveRenderer struct {
	mu        sync.Mutex
	w         io.Writer
	cursor    string
	width     int
	lastDraw  time.Time
	frameRate int
}

// NewLiveRenderer draws to w with the given cursor glyph. frameRate
// caps redraws per second; ticks arriving faster are coalesced.
func NewLiveRenderer(w io.Writer, cursor string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{w: w, cursor: cursor, width: 78, frameRate: frameRate}
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.w, hideCursor) }

// Stop restores the terminal cursor and moves past the animation line.
func (r *LiveRenderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.w, showCursor+"\n")
}

func (r *LiveRenderer) OnTick(s engine.Snapshot, sincePrev time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Completion frames always draw; intermediate ones are rate-capped.
	if !s.Done && time.Since(r.lastDraw) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastDraw = time.Now()

	line := s.Text
	if s.CursorVisible {
		line += r.cursor
	}
	if n := len([]rune(line)); n > r.width {
		line = string([]rune(line)[n-r.width:])
	}
	fmt.Fprint(r.w, clearLine+line)
}

// RenderReveal writes a one-line progress view of a reveal run: the
// revealed prefix followed by a token counter.
func RenderReveal(w io.Writer, tl engine.Timeline, snap engine.RevealSnapshot) {
	var b strings.Builder
	for i := 0; i < snap.Revealed && i < len(tl.Tokens); i++ {
		b.WriteString(tl.Tokens[i].Text)
	}
	text := b.String()
	if n := len([]rune(text)); n > 60 {
		text = string([]rune(text)[n-60:])
	}
	fmt.Fprintf(w, "%s%s  [%d/%d]", clearLine, text, snap.Revealed, snap.Total)
}
