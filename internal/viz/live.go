package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/sim"
)

const (
	defaultWidth  = 60
	defaultHeight = 24
	defaultFPS    = 60
	energyHistory = 120
)

type TickMsg time.Time

// Model is the bubbletea model of the live view. Every tick advances the
// simulation by one frame unless it is paused or has diverged.
type Model struct {
	sim    *sim.Simulation
	canvas *Canvas
	view   viewport
	trail  []sim.Point

	fps      int
	running  bool
	diverged bool
	label    string

	energy []float64
	theme  Theme
	styles styles
	logger *zap.Logger
}

type Option func(*Model)

// WithFPS sets the tick rate. Values below 1 are ignored.
func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

// WithCanvasSize sets the canvas size in terminal cells.
func WithCanvasSize(w, h int) Option {
	return func(m *Model) { m.canvas = NewCanvas(w, h) }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// WithLabel adds a line (usually the integrator name) under the title.
func WithLabel(label string) Option {
	return func(m *Model) { m.label = label }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewModel(s *sim.Simulation, opts ...Option) Model {
	m := Model{
		sim:     s,
		canvas:  NewCanvas(defaultWidth, defaultHeight),
		fps:     defaultFPS,
		running: true,
		theme:   ThemeCyberpunk,
		energy:  make([]float64, 0, energyHistory),
		trail:   make([]sim.Point, 0, s.Profile().Capacity),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = newStyles(m.theme)
	m.view = newViewport(m.canvas, s)
	m.diverged = s.Diverged()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		}
	case tea.WindowSizeMsg:
		w := msg.Width - sidebarWidth - 8
		h := msg.Height - 2
		if w > 10 && h > 5 {
			m.canvas = NewCanvas(w, h)
			m.view = newViewport(m.canvas, m.sim)
		}
	case TickMsg:
		if m.running && !m.diverged {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	sample := m.sim.Frame()
	if !sample.State.IsFinite() {
		m.diverged = true
		m.logger.Warn("simulation diverged",
			zap.Int("frame", sample.Frame),
			zap.Float64("time", sample.Time),
			zap.Float64s("state", sample.State.Slice()))
		return
	}
	if len(m.energy) == energyHistory {
		copy(m.energy, m.energy[1:])
		m.energy = m.energy[:energyHistory-1]
	}
	m.energy = append(m.energy, sample.Energy)
}

func (m *Model) reset() {
	m.sim.Reset()
	m.energy = m.energy[:0]
	m.diverged = m.sim.Diverged()
}

func (m Model) Running() bool  { return m.running }
func (m Model) Diverged() bool { return m.diverged }

func (m Model) status() string {
	switch {
	case m.diverged:
		return m.styles.diverged.Render("DIVERGED (r to reset)")
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	default:
		return m.styles.running.Render("RUNNING")
	}
}

func (m Model) View() string {
	snap := m.sim.Snapshot()
	m.draw(snap)

	var s strings.Builder
	s.WriteString(m.styles.header.Render("DOUBLE PENDULUM") + "\n")
	if m.label != "" {
		s.WriteString(m.styles.label.UnsetWidth().Render(m.label) + "\n")
	}
	s.WriteString(m.status() + "\n\n")

	s.WriteString(m.styles.row("θ1", fmt.Sprintf("%.2f°", snap.Theta1Deg)))
	s.WriteString(m.styles.row("θ2", fmt.Sprintf("%.2f°", snap.Theta2Deg)))
	s.WriteString(m.styles.row("ω1", fmt.Sprintf("%.4f rad/s", snap.State.Omega1)))
	s.WriteString(m.styles.row("ω2", fmt.Sprintf("%.4f rad/s", snap.State.Omega2)))
	s.WriteString(m.styles.row("Energy", fmt.Sprintf("%.2f J", snap.Energy)))
	s.WriteString(m.styles.row("Time", fmt.Sprintf("%.2fs", snap.Time)))
	s.WriteString(m.styles.row("Frame", fmt.Sprintf("%d", snap.Frame)))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy,
			asciigraph.Height(5),
			asciigraph.Width(sidebarWidth-12),
			asciigraph.Caption("energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	p := m.sim.Profile()
	s.WriteString(m.styles.row("dt", fmt.Sprintf("%g", p.TimeStep)))
	s.WriteString(m.styles.row("Substeps", fmt.Sprintf("%d", p.SubSteps)))
	s.WriteString(m.styles.row("Trail", fmt.Sprintf("%d/%d", m.sim.Trajectory().Len(), p.Capacity)))

	s.WriteString(m.styles.help.Render(m.styles.separator(sidebarWidth-6) +
		"\nspace pause  r reset\nt theme      q quit"))

	canvasView := m.styles.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.sidebar.Render(s.String()))
}

// draw renders the trail, rods and bobs of snap onto the canvas.
func (m *Model) draw(snap sim.Snapshot) {
	m.canvas.Clear()

	m.trail = m.sim.Trajectory().AppendPoints(m.trail[:0])
	for i := 1; i < len(m.trail); i++ {
		x0, y0, ok0 := m.view.project(m.trail[i-1])
		x1, y1, ok1 := m.view.project(m.trail[i])
		if ok0 && ok1 {
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}

	if !snap.State.IsFinite() {
		return
	}
	p := m.sim.Profile()
	x1, y1, x2, y2 := m.sim.Model().Positions(snap.State, float64(p.OriginX), float64(p.OriginY))
	ox, oy, _ := m.view.project(sim.Point{X: float64(p.OriginX), Y: float64(p.OriginY)})
	b1x, b1y, _ := m.view.project(sim.Point{X: x1, Y: y1})
	b2x, b2y, _ := m.view.project(sim.Point{X: x2, Y: y2})

	m.canvas.DrawLine(ox, oy, b1x, b1y)
	m.canvas.DrawLine(b1x, b1y, b2x, b2y)
	m.canvas.FillCircle(ox, oy, 1)
	m.canvas.FillCircle(b1x, b1y, 2)
	m.canvas.FillCircle(b2x, b2y, 2)
}

// viewport maps profile pixels onto canvas dots. The pivot sits in the
// middle of the canvas and the fully extended pendulum just fits.
type viewport struct {
	centerX, centerY float64
	originX, originY float64
	scale            float64
}

func newViewport(c *Canvas, s *sim.Simulation) viewport {
	w, h := c.Dots()
	p := s.Profile()
	params := s.Model().Params()
	reach := params.L1 + params.L2

	return viewport{
		centerX: float64(w) / 2,
		centerY: float64(h) / 2,
		originX: float64(p.OriginX),
		originY: float64(p.OriginY),
		scale:   float64(min(w, h)-4) / (2 * reach),
	}
}

// project returns false for points that cannot be placed on the canvas.
func (v viewport) project(p sim.Point) (int, int, bool) {
	x := v.centerX + (p.X-v.originX)*v.scale
	y := v.centerY + (p.Y-v.originY)*v.scale
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return int(math.Round(x)), int(math.Round(y)), true
}
