package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

const (
	statsWidth      = 46
	historyCapacity = 600

	// dotPx is how many viewport pixels one braille dot covers.
	dotPx = 8.0

	defaultCols, defaultRows = 80, 24
	minCols, minRows         = 30, 10

	gaugeFrequency = 5.0
	gaugeDamping   = 0.6
)

type TickMsg time.Time

// Model is the live terminal host for one demo session.
type Model struct {
	def     demo.Definition
	store   *params.Store
	session *lab.Session
	fps     int

	canvas *Canvas
	vp     scene.Viewport

	pointer  lab.Pointer
	running  bool
	stepOnce bool
	selected int
	showHelp bool

	last    lab.Output
	history []float64

	gauge              harmonica.Spring
	gaugePos, gaugeVel float64
}

func NewModel(def demo.Definition, store *params.Store, session *lab.Session, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		def:     def,
		store:   store,
		session: session,
		fps:     fps,
		running: true,
		history: make([]float64, 0, historyCapacity),
		gauge:   harmonica.NewSpring(harmonica.FPS(fps), gaugeFrequency, gaugeDamping),
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m Model) Viewport() scene.Viewport { return m.vp }
func (m Model) Last() lab.Output         { return m.last }
func (m Model) Running() bool            { return m.running }

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the session once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			m.stepOnce = true
		case "r":
			m.session.Reset()
		case "R":
			m.store.Reset()
			m.session.Reset()
		case "tab":
			m.cycleParam(1)
		case "shift+tab":
			m.cycleParam(-1)
		case "up", "k", "right", "l":
			m.nudge(1)
		case "down", "j", "left", "h":
			m.nudge(-1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-4, msg.Height-2)
	case TickMsg:
		if m.running || m.stepOnce {
			m.advance()
			m.stepOnce = false
		}
		return m, m.tick()
	}
	return m, nil
}

// resize fits the canvas to the terminal. The viewport follows the canvas,
// so the next frame rebuilds the scene at the new size.
func (m *Model) resize(cols, rows int) {
	cols, rows = max(cols, minCols), max(rows, minRows)
	m.canvas = NewCanvas(cols, rows)
	dw, dh := m.canvas.Dots()
	m.vp = scene.Viewport{Width: float64(dw) * dotPx, Height: float64(dh) * dotPx}
}

// toViewport maps a terminal cell to the viewport point under its center.
func (m Model) toViewport(x, y int) cp.Vector {
	col, row := x-2, y-1
	return cp.Vector{
		X: (float64(col*2) + 1) * dotPx,
		Y: (float64(row*4) + 2) * dotPx,
	}
}

func (m *Model) mouse(msg tea.MouseMsg) {
	pos := m.toViewport(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer = lab.Pointer{Pos: pos, Down: true}
		}
	case tea.MouseActionRelease:
		m.pointer = lab.Pointer{Pos: pos}
	case tea.MouseActionMotion:
		m.pointer.Pos = pos
	}
}

func (m *Model) cycleParam(dir int) {
	n := len(m.def.Sliders)
	if n == 0 {
		return
	}
	m.selected = (m.selected + dir + n) % n
}

func (m *Model) nudge(steps int) {
	if len(m.def.Sliders) == 0 {
		return
	}
	// keys come from the demo's own surface
	_, _ = m.store.Nudge(m.def.Sliders[m.selected].Key, steps)
}

func (m *Model) advance() {
	out := m.session.Advance(lab.Input{
		Params:   m.store.Snapshot(),
		Pointer:  m.pointer,
		Viewport: m.vp,
	})
	m.last = out
	if out.Rebuilt {
		m.history = m.history[:0]
	}

	v := m.sample()
	m.history = append(m.history, v)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.gaugePos, m.gaugeVel = m.gauge.Update(m.gaugePos, m.gaugeVel, v)
	m.canvas.Plot(out.Cmds, m.vp)
}

// sample is the value charted each frame: the tracked speed, or the live
// body count for demos that track nothing.
func (m *Model) sample() float64 {
	if m.last.Readout.Tracking {
		return m.last.Readout.Speed
	}
	return float64(m.session.Spawner().Live())
}

func (m Model) caption() string {
	if m.last.Readout.Tracking {
		return "Speed (px/s)"
	}
	return "Boxes"
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(TitleStyle.Render(strings.ToUpper(m.def.Title)) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString(Subtle.Render(fmt.Sprintf("  frame %d  t=%.2fs", m.last.Frame, m.last.Time)) + "\n")
	s.WriteString(Separator(statsWidth-6) + "\n\n")

	s.WriteString(m.readoutView())

	peak := 1.0
	for _, v := range m.history {
		peak = max(peak, v)
	}
	s.WriteString("\n" + MetricLabel.Render(m.caption()) + ProgressBar(m.gaugePos/peak, 20) + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.caption()))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	snap := m.store.Snapshot()
	for i, sl := range m.def.Sliders {
		line := fmt.Sprintf("%-14s %s %.3g", sl.Label, SliderBar(snap[sl.Key], sl.Min, sl.Max, 10), snap[sl.Key])
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	if m.def.Hint != "" {
		s.WriteString("\n" + KeyHint.Render(m.def.Hint) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause N:Step R:Reset Q:Quit\nTab:Param ↑↓:Tune ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpView + "\n\n" + mainView
	}
	return mainView
}

func (m Model) readoutView() string {
	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}

	r := m.last.Readout
	if !r.Tracking {
		sp := m.session.Spawner()
		row("Boxes", fmt.Sprintf("%d", sp.Live()))
		row("Spawned", fmt.Sprintf("%d", sp.Spawned()))
		row("Evicted", fmt.Sprintf("%d", sp.Evicted()))
		return s.String()
	}

	row("Distance", fmt.Sprintf("%.1f px", r.Distance))
	row("Speed", fmt.Sprintf("%.1f px/s", r.Speed))
	switch m.def.Name {
	case "ramp":
		row("Acceleration", fmt.Sprintf("%.1f px/s²", r.Acceleration))
		row("v²", fmt.Sprintf("%.0f", r.VSquared))
		row("2as", fmt.Sprintf("%.0f", r.TwoAS))
		if r.Landed {
			s.WriteString(MetricLabel.Render("Final Speed") + LandedValue.Render(fmt.Sprintf("%.1f px/s", r.FinalSpeed)) + "\n")
		}
	case "spring":
		snap := m.store.Snapshot()
		period := scene.PredictedPeriod(snap.Get(scene.KeyMass, scene.DefaultMass), snap.Get(scene.KeyStiffness, scene.DefaultStiffness))
		row("Period", fmt.Sprintf("%.2f s", period))
	}
	return s.String()
}

const helpView = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Step one frame           ║
║  R        - Rebuild the scene        ║
║  Shift+R  - Restore default params   ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Raise parameter one step ║
║  Down/J   - Lower parameter one step ║
║  Mouse    - Pointer                  ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
