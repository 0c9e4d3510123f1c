package surfaceview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource/memory"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/preview"
)

func newSweep(t *testing.T) SweepFunc {
	t.Helper()
	src := memory.New()
	scripts := map[string]string{
		"bridge": "Echo Bridge online",
		"hangar": "Echo Hangar sealed\nBogus oops\"",
	}
	for _, id := range []string{"bridge", "hangar"} {
		sf := datasource.Surface{ID: id, Name: id, Script: scripts[id]}
		if err := src.AddSurface(sf, datasource.WidthMetrics{BasePanelWidth: 26, FontSize: 1}); err != nil {
			t.Fatalf("AddSurface() error = %v", err)
		}
	}

	d := driver.New(src, driver.Options{})
	return func(ctx context.Context) (*driver.Report, []datasource.Snapshot, error) {
		report, err := d.Sweep(ctx)
		if err != nil {
			return report, nil, err
		}
		snaps, err := d.Snapshots(report)
		return report, snaps, err
	}
}

func newModel(t *testing.T, sweep SweepFunc) Model {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Preview = preview.Options{Border: "none"}

	var m tea.Model = New(sweep, cfg)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m, _ = m.Update(m.(Model).runSweep())
	return m.(Model)
}

func press(m Model, key tea.KeyMsg) Model {
	next, _ := m.Update(key)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_NotReady(t *testing.T) {
	m := New(newSweep(t), DefaultConfig())
	if got := m.View(); got != "Loading surfaces..." {
		t.Errorf("View() before resize = %q", got)
	}
}

func TestModel_SweepDone(t *testing.T) {
	m := newModel(t, newSweep(t))

	if m.loading {
		t.Error("loading should be false after the sweep")
	}
	if len(m.snapshots) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(m.snapshots))
	}
	if m.sweeps != 1 {
		t.Errorf("sweeps = %d, want 1", m.sweeps)
	}

	view := m.View()
	for _, want := range []string{"Bridge online", "bridge", "hangar", "Surfaces: 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "Hangar sealed") {
		t.Error("only the selected surface should be shown")
	}
}

func TestModel_SelectSurface(t *testing.T) {
	m := newModel(t, newSweep(t))

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selected != 1 {
		t.Fatalf("selected after Tab = %d, want 1", m.selected)
	}
	if !strings.Contains(m.viewport.View(), "Hangar sealed") {
		t.Error("viewport should show the hangar surface")
	}
	if !strings.Contains(m.viewport.View(), "Bogus") {
		t.Error("viewport should list the hangar diagnostics")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selected != 0 {
		t.Errorf("selection should wrap to 0, got %d", m.selected)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.selected != 1 {
		t.Errorf("selection should wrap backwards to 1, got %d", m.selected)
	}
}

func TestModel_ShowAll(t *testing.T) {
	m := newModel(t, newSweep(t))
	m = press(m, runes("a"))

	content := m.viewport.View()
	if !strings.Contains(content, "Bridge online") || !strings.Contains(content, "Hangar sealed") {
		t.Errorf("show all should render every surface: %q", content)
	}
}

func TestModel_Pause(t *testing.T) {
	m := newModel(t, newSweep(t))
	m = press(m, runes("p"))
	if !m.paused {
		t.Fatal("p should pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("header should show the pause state")
	}

	next, _ := m.Update(tickMsg{})
	if next.(Model).loading {
		t.Error("a paused viewer must not start a sweep on tick")
	}

	m = press(m, runes("p"))
	next, _ = m.Update(tickMsg{})
	if !next.(Model).loading {
		t.Error("tick should start a sweep when running")
	}
}

func TestModel_Refresh(t *testing.T) {
	m := newModel(t, newSweep(t))
	next, cmd := m.Update(runes("r"))
	if !next.(Model).loading || cmd == nil {
		t.Error("r should start a sweep")
	}
}

func TestModel_SweepError(t *testing.T) {
	failing := func(ctx context.Context) (*driver.Report, []datasource.Snapshot, error) {
		return nil, nil, errors.New("world file vanished")
	}
	m := newModel(t, failing)

	if m.err == nil {
		t.Fatal("err should be set")
	}
	view := m.View()
	if !strings.Contains(view, "sweep failed") || !strings.Contains(view, "no surfaces") {
		t.Errorf("View() should report the failure: %q", view)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, newSweep(t))
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%v should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v should return tea.Quit", key)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q", got)
	}
}
