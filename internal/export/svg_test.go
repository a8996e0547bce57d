package export

import (
	"strings"
	"testing"

	"github.com/san-kum/typewave/internal/engine"
)

func TestTimelineToSVG(t *testing.T) {
	tl := engine.PlanTimeline("one two three", 20)

	svg := TimelineToSVG(tl, 640, 240, "")
	if svg == "" {
		t.Fatal("expected non-empty svg")
	}
	for _, want := range []string{"<svg", "</svg>", "one", "two", "three", "<rect"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// One background rect plus one bar per token.
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("expected 4 rects, got %d", got)
	}
}

func TestTimelineToSVGEmpty(t *testing.T) {
	if svg := TimelineToSVG(engine.Timeline{}, 640, 240, ""); svg != "" {
		t.Errorf("expected empty output for empty timeline, got %q", svg)
	}
}

func TestTimelineToSVGEscapesLabels(t *testing.T) {
	tl := engine.PlanTimeline("a<b>&c", 20)
	svg := TimelineToSVG(tl, 640, 240, "")
	if strings.Contains(svg, "<b>") {
		t.Error("label markup not escaped")
	}
	if !strings.Contains(svg, "a&lt;b&gt;&amp;c") {
		t.Error("expected escaped label text")
	}
}

func TestCadenceToSVG(t *testing.T) {
	samples := []float64{40, 55, 48, 62, 50}

	svg := CadenceToSVG(samples, 400, 120, "#ffffff")
	if !strings.Contains(svg, "<path") || !strings.Contains(svg, "#ffffff") {
		t.Errorf("unexpected svg output: %s", svg)
	}
	if got := strings.Count(svg, " L"); got != len(samples)-1 {
		t.Errorf("expected %d line segments, got %d", len(samples)-1, got)
	}
}

func TestCadenceToSVGTooFewSamples(t *testing.T) {
	if svg := CadenceToSVG([]float64{42}, 400, 120, ""); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}
