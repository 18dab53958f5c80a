package viz

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spiralarms/internal/analysis"
	"github.com/san-kum/spiralarms/internal/config"
	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/export"
	"github.com/san-kum/spiralarms/internal/grid"
	"github.com/san-kum/spiralarms/internal/integrators"
	"github.com/san-kum/spiralarms/internal/orbit"
	"github.com/san-kum/spiralarms/internal/potential"
)

const (
	DefaultRows     = 24
	historyCapacity = 600
	trailLength     = 200
	shadeLevels     = 12
	gifPath         = "spiralarms.gif"
)

// Quantities cycled with the m key.
var liveQuantities = []potential.Accessor{
	potential.AccDens, potential.AccPotential, potential.AccRForce, potential.AccPhiForce,
}

// Snapshot stores the orbit at one tick for replay.
type Snapshot struct {
	State  dynamo.State
	Time   float64
	Jacobi float64
}

type TickMsg time.Time

type tunable struct {
	name   string
	get    func(*config.SpiralConfig) float64
	set    func(*config.SpiralConfig, float64)
	adjust func(v float64, up bool) float64
}

func scaleBy(v float64, up bool) float64 {
	if up {
		return v * 1.05
	}
	return v * 0.95
}

func shiftBy(v float64, up bool) float64 {
	if up {
		return v + 0.05
	}
	return v - 0.05
}

var tunables = []tunable{
	{"amp", func(s *config.SpiralConfig) float64 { return s.Amp }, func(s *config.SpiralConfig, v float64) { s.Amp = v }, scaleBy},
	{"omega", func(s *config.SpiralConfig) float64 { return s.Omega }, func(s *config.SpiralConfig, v float64) { s.Omega = v }, shiftBy},
	{"alpha", func(s *config.SpiralConfig) float64 { return s.Alpha.Rad() }, func(s *config.SpiralConfig, v float64) { s.Alpha = config.Angle(v) }, scaleBy},
	{"rs", func(s *config.SpiralConfig) float64 { return s.Rs }, func(s *config.SpiralConfig, v float64) { s.Rs = v }, scaleBy},
}

var (
	panelStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

// Model runs one orbit through a rotating spiral pattern and draws both.
type Model struct {
	cfg, initial *config.Config
	sp           *potential.SpiralArms
	sys          *orbit.Orbit
	integrator   dynamo.Integrator
	quantity     int
	lo, hi       float64

	state dynamo.State
	t, dt float64

	rows       int
	canvas     *Canvas
	trail      []analysis.Point
	rotTrail   []analysis.Point
	corotating bool
	running    bool
	jacobi     []float64
	history    []Snapshot
	playHead   int
	selected   int
	theme      Theme
	recording  bool
	frames     []*grid.Field
	showHelp   bool
	status     string
	err        error
}

// NewModel builds the potential and orbit described by cfg. The map is rows
// lines tall and twice as many columns wide.
func NewModel(cfg *config.Config, rows int) (Model, error) {
	if rows < 4 {
		rows = DefaultRows
	}
	integ, err := integrators.New(cfg.Orbit.Integrator)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:        cfg.Clone(),
		initial:    cfg.Clone(),
		integrator: integ,
		rows:       rows,
		canvas:     NewCanvas(2*rows, rows),
		running:    true,
		playHead:   -1,
		theme:      Themes[0],
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	m.resetOrbit()
	return m, nil
}

// Run starts the full-screen program.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg, DefaultRows)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) rebuild() error {
	sp, pot, err := m.cfg.Build()
	if err != nil {
		return err
	}
	m.sp = sp
	m.sys = orbit.New(pot)
	return m.rescale()
}

func (m *Model) spec() grid.Spec {
	return grid.Spec{Size: 2 * m.rows, Extent: m.cfg.Grid.Extent, Z: m.cfg.Grid.Z}
}

func (m *Model) field() potential.Field {
	f, _ := grid.Quantity(m.sp, liveQuantities[m.quantity])
	return f
}

// rescale fixes the colour range from the pattern at t = 0. The pattern only
// rotates, so the range holds for every later frame.
func (m *Model) rescale() error {
	f, err := grid.Sample(m.field(), m.spec(), 0)
	if err != nil {
		return err
	}
	st := f.Stats()
	m.lo, m.hi = st.Min, st.Max
	return nil
}

func (m *Model) resetOrbit() {
	m.state = orbit.FromCylindrical(m.cfg.Orbit.Initial)
	m.t = 0
	m.dt = m.cfg.Orbit.Dt
	m.trail = m.trail[:0]
	m.rotTrail = m.rotTrail[:0]
	m.jacobi = m.jacobi[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil
	m.record()
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the orbit.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.cfg = m.initial.Clone()
			if err := m.rebuild(); err != nil {
				m.err = err
			}
			m.resetOrbit()
		case "f":
			m.corotating = !m.corotating
		case "m":
			m.quantity = (m.quantity + 1) % len(liveQuantities)
			if err := m.rescale(); err != nil {
				m.err = err
			}
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.adjust(true)
		case "down", "j":
			m.adjust(false)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			m.toggleRecording()
		case "t":
			m.theme = m.theme.next()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// adjust changes the selected spiral parameter and rebuilds the potential.
// The orbit keeps its state; the Jacobi history restarts.
func (m *Model) adjust(up bool) {
	tn := tunables[m.selected]
	next := m.cfg.Clone()
	tn.set(&next.Spiral, tn.adjust(tn.get(&next.Spiral), up))
	if _, _, err := next.Build(); err != nil {
		m.status = err.Error()
		return
	}
	m.cfg = next
	if err := m.rebuild(); err != nil {
		m.err = err
		return
	}
	m.jacobi = m.jacobi[:0]
	m.status = fmt.Sprintf("%s = %.4g", tn.name, tn.get(&m.cfg.Spiral))
}

func (m *Model) step() {
	if m.err != nil {
		return
	}
	if adaptive, ok := m.integrator.(dynamo.AdaptiveIntegrator); ok && m.cfg.Orbit.Adaptive {
		next, taken, proposed, err := adaptive.StepAdaptive(m.sys, m.state, m.t, m.dt, m.cfg.Orbit.Tolerance)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.state = next
		m.t += taken
		m.dt = math.Min(proposed, m.cfg.Orbit.Dt)
	} else {
		m.state = m.integrator.Step(m.sys, m.state, m.t, m.dt)
		m.t += m.dt
	}
	if !m.state.IsValid() {
		m.err = &dynamo.SimulationError{Step: len(m.history), Time: m.t, State: m.state.Clone(), Wrapped: dynamo.ErrInvalidState}
		m.running = false
		return
	}
	m.record()
}

func (m *Model) record() {
	rx, ry := m.sys.Corotating(m.state, m.t)
	m.trail = appendCapped(m.trail, analysis.Point{X: m.state[0], Y: m.state[1]}, trailLength)
	m.rotTrail = appendCapped(m.rotTrail, analysis.Point{X: rx, Y: ry}, trailLength)

	ej := m.sys.Jacobi(m.state, m.t)
	m.jacobi = appendCapped(m.jacobi, ej, historyCapacity)
	m.history = appendCapped(m.history, Snapshot{State: m.state.Clone(), Time: m.t, Jacobi: ej}, historyCapacity)
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

// scrub moves the replay position through the recorded history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// shown returns the state on screen, which is a past snapshot during replay.
func (m Model) shown() (dynamo.State, float64) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		s := m.history[m.playHead]
		return s.State, s.Time
	}
	return m.state, m.t
}

func (m *Model) captureFrame() {
	_, t := m.shown()
	f, err := grid.Sample(m.field(), m.spec(), t)
	if err != nil {
		m.err = err
		return
	}
	m.frames = append(m.frames, f)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	frames := m.frames
	m.frames = nil
	err := export.SaveFile(gifPath, func(w io.Writer) error {
		return export.AnimationGIF(w, frames, 4, 3)
	})
	if err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(frames), gifPath)
}

// renderMap shades the current quantity and overlays the orbit, one character
// per two grid rows so cells come out roughly square.
func (m Model) renderMap() string {
	state, t := m.shown()
	spec := m.spec()
	f, err := grid.Sample(m.field(), spec, t)
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	n := spec.Size
	ramp := m.theme.ramp(shadeLevels)
	span := m.hi - m.lo
	if !(span > 0) {
		span = 1
	}

	toCell := func(x, y float64) (int, int) {
		c := int(math.Round((x + spec.Extent) / (2 * spec.Extent) * float64(n-1)))
		r := int(math.Round((spec.Extent - y) / (2 * spec.Extent) * float64(n-1) / 2))
		return c, r
	}
	marks := map[[2]int]rune{}
	for _, p := range m.trail {
		c, r := toCell(p.X, p.Y)
		marks[[2]int{c, r}] = '·'
	}
	pc, pr := toCell(state[0], state[1])
	marks[[2]int{pc, pr}] = '◉'
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	var sb strings.Builder
	for k := 0; k < m.rows; k++ {
		r := n - 1 - 2*k
		for c := 0; c < n; c++ {
			if mark, ok := marks[[2]int{c, k}]; ok {
				sb.WriteString(accent.Render(string(mark)))
				continue
			}
			v := f.Z(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				sb.WriteByte(' ')
				continue
			}
			level := int((v - m.lo) / span * float64(shadeLevels))
			level = min(max(level, 0), shadeLevels-1)
			sb.WriteString(lipgloss.NewStyle().Foreground(ramp[level]).Render("█"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderCorotating draws the orbit in the frame where the pattern is static.
func (m Model) renderCorotating() string {
	m.canvas.Clear()
	m.canvas.PlotPath(m.rotTrail, m.cfg.Grid.Extent)
	return lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.canvas.String())
}

// View renders the map and the stats panel.
func (m Model) View() string {
	state, t := m.shown()

	left := m.renderMap()
	if m.corotating {
		left = m.renderCorotating()
	}

	status := "RUNNING"
	switch {
	case m.playHead != -1:
		status = fmt.Sprintf("REPLAY (%.2f)", t-m.t)
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}

	header := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).MarginBottom(1)
	var s strings.Builder
	s.WriteString(header.Render("SPIRAL ARMS") + "\n")
	s.WriteString(status + "\n\n")

	cyl := orbit.ToCylindrical(state)
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Map", string(liveQuantities[m.quantity]))
	row("Frame", map[bool]string{false: "inertial", true: "pattern"}[m.corotating])
	row("Time", fmt.Sprintf("%.3f", t))
	row("R", fmt.Sprintf("%.4f", cyl[0]))
	row("z", fmt.Sprintf("%.4f", cyl[3]))
	if len(m.jacobi) > 0 {
		row("Jacobi", fmt.Sprintf("%.8f", m.jacobi[len(m.jacobi)-1]))
	}
	if len(m.jacobi) > 1 {
		chart := asciigraph.Plot(m.jacobi, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Jacobi integral"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPATTERN\n")
	for i, tn := range tunables {
		line := fmt.Sprintf("%-6s %10.4g", tn.name, tn.get(&m.cfg.Spiral))
		if i == m.selected {
			s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Width(0).Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit M:Map F:Frame\nTab/↑↓:Tune [ ]:Replay G:GIF T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset orbit and pattern  ║
║  Q        - Quit                     ║
║  M        - Cycle mapped quantity    ║
║  F        - Inertial/pattern frame   ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  [ ]      - Replay history           ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + main
	}
	return main
}
