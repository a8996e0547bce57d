package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/typewave/internal/engine"
)

func TestLiveRendererDrawsTextAndCursor(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "|", 30)

	r.OnTick(engine.Snapshot{Text: "hi", CursorVisible: true, Phase: engine.PhaseTyping}, 0)

	out := buf.String()
	if !strings.Contains(out, "hi|") {
		t.Errorf("expected text with cursor in output, got %q", out)
	}
	if !strings.Contains(out, clearLine) {
		t.Error("expected line redraw escape in output")
	}
}

func TestLiveRendererCoalescesFastTicks(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "|", 1)

	r.OnTick(engine.Snapshot{Text: "a", Phase: engine.PhaseTyping}, 0)
	first := buf.Len()
	r.OnTick(engine.Snapshot{Text: "ab", Phase: engine.PhaseTyping}, 10*time.Millisecond)

	if buf.Len() != first {
		t.Error("expected second tick within the frame window to be skipped")
	}

	// Completion frames are never dropped.
	r.OnTick(engine.Snapshot{Text: "ab", Phase: engine.PhaseDone, Done: true}, 0)
	if !strings.Contains(buf.String()[first:], "ab") {
		t.Error("expected completion frame to draw")
	}
}

func TestLiveRendererTruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "|", 30)

	long := strings.Repeat("x", 200) + "end"
	r.OnTick(engine.Snapshot{Text: long, Phase: engine.PhaseTyping}, 0)

	out := buf.String()
	if !strings.Contains(out, "end") {
		t.Error("expected the tail of the text to survive truncation")
	}
	if strings.Contains(out, strings.Repeat("x", 100)) {
		t.Error("expected the head of an overlong line to be dropped")
	}
}

func TestRenderReveal(t *testing.T) {
	tl := engine.PlanTimeline("a b c", 20)

	var buf bytes.Buffer
	RenderReveal(&buf, tl, engine.RevealSnapshot{Revealed: 2, Total: 3})

	out := buf.String()
	if !strings.Contains(out, "a b ") {
		t.Errorf("expected revealed prefix in output, got %q", out)
	}
	if strings.Contains(out, "c") {
		t.Errorf("expected pending token withheld, got %q", out)
	}
	if !strings.Contains(out, "[2/3]") {
		t.Errorf("expected token counter, got %q", out)
	}
}
