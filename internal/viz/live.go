package viz

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/typewave/internal/engine"
)

const (
	textPaneWidth   = 60
	textPaneHeight  = 8
	historyCapacity = 240
)

// Mode selects which animation engine the model plays.
type Mode int

const (
	ModeTypewriter Mode = iota
	ModeReveal
)

type TickMsg time.Time

// cadenceBuffer records the delay of every typed character so the
// chart can plot recent cadence. It implements engine.Observer and is
// notified from the engine's timer goroutines, hence the mutex.
type cadenceBuffer struct {
	mu      sync.Mutex
	lastLen int
	samples []float64
}

func (b *cadenceBuffer) OnTick(s engine.Snapshot, sincePrev time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len([]rune(s.Text))
	grew := n == b.lastLen+1 && s.Phase == engine.PhaseTyping
	b.lastLen = n
	if !grew {
		return
	}
	b.samples = append(b.samples, float64(sincePrev)/float64(time.Millisecond))
	if len(b.samples) > historyCapacity {
		b.samples = b.samples[1:]
	}
}

func (b *cadenceBuffer) series() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}

func (b *cadenceBuffer) reset() {
	b.mu.Lock()
	b.lastLen = 0
	b.samples = b.samples[:0]
	b.mu.Unlock()
}

// Model is the interactive playback TUI. It polls the engine's
// snapshot on every frame rather than reacting to engine ticks, so the
// render rate stays fixed regardless of the animation speed.
type Model struct {
	mode Mode

	typer  *engine.Typewriter
	reveal *engine.Reveal
	cfg    engine.Config

	cadence     *cadenceBuffer
	unsubscribe func()

	vp      viewport.Model
	started time.Time

	cursorOn bool
	showHelp bool
}

// NewTypewriterModel wraps an idle typewriter. The model starts it on
// Init and stops it on quit.
func NewTypewriterModel(t *engine.Typewriter, cfg engine.Config) Model {
	buf := &cadenceBuffer{}
	m := Model{
		mode:        ModeTypewriter,
		typer:       t,
		cfg:         cfg,
		cadence:     buf,
		unsubscribe: t.Subscribe(buf),
		vp:          viewport.New(textPaneWidth, textPaneHeight),
		started:     time.Now(),
		cursorOn:    cfg.ShowCursor,
	}
	return m
}

// NewRevealModel wraps an idle reveal run.
func NewRevealModel(r *engine.Reveal) Model {
	return Model{
		mode:    ModeReveal,
		reveal:  r,
		vp:      viewport.New(textPaneWidth, textPaneHeight),
		started: time.Now(),
	}
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	switch m.mode {
	case ModeTypewriter:
		m.typer.Start()
	case ModeReveal:
		m.reveal.Start()
	}
	return frame()
}

// Update handles input events and advances the frame clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stop()
			return m, tea.Quit
		case "r":
			m.restart()
		case "c":
			if m.mode == ModeTypewriter {
				m.cursorOn = !m.cursorOn
				m.typer.SetCursorEnabled(m.cursorOn)
			}
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 50
		if w > textPaneWidth {
			w = textPaneWidth
		}
		if w > 10 {
			m.vp.Width = w
		}
	case TickMsg:
		return m, frame()
	}
	return m, nil
}

func (m *Model) stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	switch m.mode {
	case ModeTypewriter:
		m.typer.Stop()
	case ModeReveal:
		m.reveal.Stop()
	}
}

// restart exercises the engines' hard-reset paths: the typewriter
// re-targets its current list, the reveal replays its timeline.
func (m *Model) restart() {
	m.started = time.Now()
	switch m.mode {
	case ModeTypewriter:
		m.cadence.reset()
		m.typer.SetTargets(m.typer.Targets())
	case ModeReveal:
		m.reveal.Start()
	}
}

// View renders the text pane next to the stats panel.
func (m Model) View() string {
	var text string
	var stats string
	switch m.mode {
	case ModeTypewriter:
		text, stats = m.typewriterFrame()
	case ModeReveal:
		text, stats = m.revealFrame()
	}

	m.vp.SetContent(text)
	pane := panelStyle.Width(m.vp.Width + 4).Render(m.vp.View())
	main := lipgloss.JoinHorizontal(lipgloss.Top, pane, statsStyle.Render(stats))

	out := headerStyle.Render("TYPEWAVE") + "\n" + main
	if m.showHelp {
		out += helpStyle.Render("\nq:quit  r:restart  t:theme  c:cursor  ?:help")
	} else {
		out += helpStyle.Render("\n? for keys")
	}
	return out
}

func (m Model) typewriterFrame() (string, string) {
	snap := m.typer.Snapshot()

	text := textStyle().Render(snap.Text)
	if snap.CursorVisible {
		text += cursorStyle().Render(m.cfg.CursorChar)
	}

	status := statusRunning.Render("RUNNING")
	if snap.Done {
		status = statusDone.Render("DONE")
	}

	var s strings.Builder
	s.WriteString(status + "\n\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(snap.Phase.String()) + "\n")
	s.WriteString(labelStyle.Render("Sequence") + valueStyle.Render(fmt.Sprintf("%d/%d", snap.SequenceIndex+1, len(m.typer.Targets()))) + "\n")
	s.WriteString(labelStyle.Render("Elapsed") + valueStyle.Render(fmt.Sprintf("%.1fs", time.Since(m.started).Seconds())) + "\n")

	if est := m.cfg.Estimate(m.typer.Targets()); est > 0 && !m.cfg.Loop {
		ratio := float64(time.Since(m.started)) / float64(est)
		if snap.Done {
			ratio = 1
		}
		s.WriteString("\n" + ProgressBar(ratio, 30) + "\n")
	}

	if series := m.cadence.series(); len(series) > 1 {
		chart := asciigraph.Plot(series,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("cadence ms"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	return text, s.String()
}

func (m Model) revealFrame() (string, string) {
	snap := m.reveal.Snapshot()
	tl := m.reveal.Timeline()

	var text strings.Builder
	for i, tok := range tl.Tokens {
		if i < snap.Revealed {
			text.WriteString(textStyle().Render(tok.Text))
		} else {
			text.WriteString(pendingStyle().Render(tok.Text))
		}
	}

	status := statusRunning.Render("REVEALING")
	if snap.Done {
		status = statusDone.Render("DONE")
	}

	var s strings.Builder
	s.WriteString(status + "\n\n")
	s.WriteString(labelStyle.Render("Tokens") + valueStyle.Render(fmt.Sprintf("%d/%d", snap.Revealed, snap.Total)) + "\n")
	s.WriteString(labelStyle.Render("Stagger") + valueStyle.Render(fmt.Sprintf("%dms", tl.Stagger.Milliseconds())) + "\n")
	s.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprintf("%.2fs", tl.Total.Seconds())) + "\n")

	if snap.Total > 0 {
		ratio := float64(snap.Revealed) / float64(snap.Total)
		s.WriteString("\n" + ProgressBar(ratio, 30) + "\n")
	}
	return text.String(), s.String()
}
