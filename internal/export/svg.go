// Package export renders animation timing data to SVG for inspection
// outside the terminal.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/typewave/internal/engine"
)

// TimelineToSVG draws a reveal timeline as a Gantt-style chart: one
// labeled bar per token, positioned by its start offset and sized by
// its transition duration.
func TimelineToSVG(tl engine.Timeline, width, height int, barColor string) string {
	n := len(tl.Tokens)
	if n == 0 {
		return ""
	}
	if barColor == "" {
		barColor = "#00ff88"
	}

	const (
		marginLeft = 90
		marginTop  = 20
		rowGap     = 4
	)
	plotW := float64(width - marginLeft - 20)
	rowH := float64(height-2*marginTop)/float64(n) - rowGap
	if rowH < 4 {
		rowH = 4
	}
	total := float64(tl.Total)
	if total <= 0 {
		total = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tok := range tl.Tokens {
		x := marginLeft + float64(tok.Start)/total*plotW
		w := float64(tok.Duration) / total * plotW
		if w < 1 {
			w = 1
		}
		y := float64(marginTop) + float64(i)*(rowH+rowGap)

		label := strings.TrimSpace(tok.Text)
		if len(label) > 12 {
			label = label[:12]
		}
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" fill="#888888" font-family="monospace" font-size="10" text-anchor="end">%s</text>
`, marginLeft-6, y+rowH*0.75, escape(label)))
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, w, rowH, barColor))
	}

	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#555555" font-family="monospace" font-size="10">%dms total, %dms stagger</text>
`, marginLeft, height-6, tl.Total.Milliseconds(), tl.Stagger.Milliseconds()))
	sb.WriteString("</svg>")
	return sb.String()
}

// CadenceToSVG draws per-character typing delays as a polyline.
func CadenceToSVG(samplesMs []float64, width, height int, strokeColor string) string {
	if len(samplesMs) < 2 {
		return ""
	}
	if strokeColor == "" {
		strokeColor = "#00ccff"
	}

	minY, maxY := samplesMs[0], samplesMs[0]
	for _, v := range samplesMs {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	stride := float64(width) / float64(len(samplesMs)-1)
	for i, v := range samplesMs {
		x := float64(i) * stride
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
