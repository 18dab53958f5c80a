package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/spiralarms/internal/analysis"
	"github.com/san-kum/spiralarms/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Orbit.Integrator = "rk4"
	cfg.Orbit.Adaptive = false
	cfg.Orbit.Dt = 0.01
	m, err := NewModel(cfg, 8)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestTickAdvancesOrbit(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 10; i++ {
		m = update(m, TickMsg{})
	}
	if math.Abs(m.t-0.1) > 1e-12 {
		t.Errorf("t = %v after 10 ticks, want 0.1", m.t)
	}
	if len(m.history) != 11 || len(m.jacobi) != 11 {
		t.Errorf("history %d, jacobi %d", len(m.history), len(m.jacobi))
	}
	if drift := math.Abs(m.jacobi[10] - m.jacobi[0]); drift > 1e-8 {
		t.Errorf("Jacobi integral drifted by %v", drift)
	}

	m = update(m, key(" "))
	m = update(m, TickMsg{})
	if math.Abs(m.t-0.1) > 1e-12 {
		t.Error("paused model should not advance")
	}
}

func TestKeys(t *testing.T) {
	m := newTestModel(t)

	m = update(m, key("m"))
	if liveQuantities[m.quantity] != "potential" {
		t.Errorf("quantity = %s", liveQuantities[m.quantity])
	}
	if !strings.Contains(m.View(), "potential") {
		t.Error("view should name the mapped quantity")
	}

	m = update(m, key("up"))
	if m.cfg.Spiral.Amp != 1.05 {
		t.Errorf("amp = %v after increase", m.cfg.Spiral.Amp)
	}
	m = update(m, key("tab"))
	m = update(m, key("up"))
	if math.Abs(m.cfg.Spiral.Omega-0.05) > 1e-15 {
		t.Errorf("omega = %v after increase", m.cfg.Spiral.Omega)
	}

	m = update(m, key("r"))
	if m.cfg.Spiral.Amp != 1 || m.cfg.Spiral.Omega != 0 || m.t != 0 {
		t.Error("reset should restore the initial configuration")
	}

	theme := m.theme.Name
	m = update(m, key("t"))
	if m.theme.Name == theme {
		t.Error("theme did not change")
	}
}

func TestScrub(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}
	m = update(m, key("["))
	if m.playHead != len(m.history)-2 || m.running {
		t.Fatalf("playHead = %d running = %v", m.playHead, m.running)
	}
	_, shownT := m.shown()
	if shownT >= m.t {
		t.Errorf("replay shows t=%v, live t=%v", shownT, m.t)
	}
	m = update(m, key("]"))
	m = update(m, key("]"))
	if m.playHead != -1 {
		t.Errorf("scrubbing past the end should return to live, got %d", m.playHead)
	}
}

func TestRenderMap(t *testing.T) {
	m := newTestModel(t)
	lines := strings.Split(strings.TrimRight(m.renderMap(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("map has %d lines, want 8", len(lines))
	}
	if !strings.Contains(m.renderMap(), "◉") {
		t.Error("orbit marker missing")
	}

	m = update(m, key("f"))
	if !strings.ContainsRune(m.View(), '⠀') && !strings.Contains(m.View(), "pattern") {
		t.Error("co-rotating view not shown")
	}
}

func TestCanvasPlotPath(t *testing.T) {
	c := NewCanvas(4, 2)
	c.PlotPath([]analysis.Point{{X: -1, Y: -1}, {X: 1, Y: 1}}, 1)
	if c.Grid[1][0] == 0x2800 || c.Grid[0][3] == 0x2800 {
		t.Errorf("diagonal not drawn:\n%s", c)
	}

	c.Clear()
	c.PlotPath([]analysis.Point{{X: 100, Y: 100}, {X: 0, Y: 0}}, 1)
	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit != 1 {
		t.Errorf("far point should be skipped, %d cells lit", lit)
	}
}

func TestThemeRamp(t *testing.T) {
	th := GetTheme("minimal")
	ramp := th.ramp(3)
	if ramp[0] != "#000000" || ramp[2] != "#ffffff" || ramp[1] != "#808080" {
		t.Errorf("ramp = %v", ramp)
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length")
	}
}
