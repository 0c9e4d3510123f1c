// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     surfaceview
// Description: Bubbletea model showing live surface output
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package surfaceview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/preview"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/version"
)

// SweepFunc runs one sweep and returns the rendered surfaces
type SweepFunc func(ctx context.Context) (*driver.Report, []datasource.Snapshot, error)

// Config holds surface viewer configuration
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
	Preview  preview.Options
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Interval: 2 * time.Second,
		Timeout:  10 * time.Second,
		Preview:  preview.DefaultOptions(),
	}
}

// Model is the Bubbletea model for the surface viewer
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	loading bool
	paused  bool
	showAll bool
	err     error

	// Components
	viewport viewport.Model
	spinner  spinner.Model
	renderer *preview.Renderer

	// Sweep state
	snapshots []datasource.Snapshot
	report    *driver.Report
	selected  int
	sweeps    int

	// Configuration
	sweep    SweepFunc
	interval time.Duration
	timeout  time.Duration
}

// New creates a surface viewer
func New(sweep SweepFunc, cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return Model{
		spinner:  sp,
		renderer: preview.New(cfg.Preview),
		loading:  true,
		sweep:    sweep,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runSweep,
		tea.EnterAltScreen,
		m.tick(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Title + tab bar
		footerHeight := 3 // Status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case sweepDoneMsg:
		m.loading = false
		m.err = msg.err
		if msg.report != nil {
			m.report = msg.report
			m.sweeps++
		}
		if msg.err == nil {
			m.snapshots = msg.snapshots
			if m.selected >= len(m.snapshots) {
				m.selected = 0
			}
		}
		m.updateViewportContent()

	case tickMsg:
		if !m.paused && !m.loading {
			m.loading = true
			cmds = append(cmds, m.runSweep, m.spinner.Tick)
		}
		cmds = append(cmds, m.tick())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyRight:
		m.selectSurface(1)
		return m, nil

	case tea.KeyShiftTab, tea.KeyLeft:
		m.selectSurface(-1)
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil

	case tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit

		// Pause/Resume
		case "p", " ":
			m.paused = !m.paused
			return m, nil

		// Refresh
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.runSweep, m.spinner.Tick)

		// Toggle single/all surfaces
		case "a":
			m.showAll = !m.showAll
			m.updateViewportContent()
			return m, nil

		case "g":
			m.viewport.GotoTop()
			return m, nil

		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	return m, nil
}

// selectSurface moves the selection by delta, wrapping around
func (m *Model) selectSurface(delta int) {
	n := len(m.snapshots)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
	m.showAll = false
	m.updateViewportContent()
	m.viewport.GotoTop()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading surfaces..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderTabBar())
	b.WriteString("\n")

	b.WriteString(m.renderSurfaceArea())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the header with logo and state
func (m Model) renderHeader() string {
	logo := LogoStyle.Render(Logo)

	var status string
	switch {
	case m.err != nil:
		status = StatusErrorStyle.Render("sweep failed")
	case m.report != nil && len(m.report.Failed()) > 0:
		status = StatusWarnStyle.Render(fmt.Sprintf("%d surface(s) failed", len(m.report.Failed())))
	default:
		status = StatusOKStyle.Render("live")
	}

	pauseStatus := ""
	if m.paused {
		pauseStatus = "  " + StatusWarnStyle.Render("PAUSED")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		logo,
		strings.Repeat(" ", 3),
		status,
		pauseStatus,
	)

	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderTabBar renders one tab per surface
func (m Model) renderTabBar() string {
	if len(m.snapshots) == 0 {
		return HelpDescStyle.Render("no surfaces")
	}

	tabs := make([]string, len(m.snapshots))
	for i, snap := range m.snapshots {
		label := snap.Name
		if label == "" {
			label = snap.ID
		}
		if m.showAll || i == m.selected {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = TabStyle.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

// renderSurfaceArea renders the viewport holding the surface previews
func (m Model) renderSurfaceArea() string {
	style := SurfacePanelStyle.Width(m.width - 2).Height(m.viewport.Height)
	return style.Render(m.viewport.View())
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	leftPart := HelpDescStyle.Render("no sweep yet")
	if m.report != nil {
		leftPart = HelpDescStyle.Render(fmt.Sprintf("Run %s  Surfaces: %d  Diagnostics: %d",
			shortID(m.report.RunID), len(m.report.Surfaces), m.report.DiagnosticCount()))
	}

	centerPart := HelpDescStyle.Render("v" + version.App)

	var rightPart string
	switch {
	case m.loading:
		rightPart = m.spinner.View() + " Sweeping..."
	case m.err != nil:
		rightPart = StatusErrorStyle.Render(m.err.Error())
	default:
		rightPart = StatusOKStyle.Render(fmt.Sprintf("every %s", m.interval))
	}

	leftLen := lipgloss.Width(leftPart)
	centerLen := lipgloss.Width(centerPart)
	rightLen := lipgloss.Width(rightPart)
	availableSpace := m.width - leftLen - centerLen - rightLen - 4
	if availableSpace < 2 {
		availableSpace = 2
	}
	leftPadding := availableSpace / 2
	rightPadding := availableSpace - leftPadding

	content := leftPart + strings.Repeat(" ", leftPadding) + centerPart + strings.Repeat(" ", rightPadding) + rightPart

	return StatusBarStyle.Width(m.width - 2).Render(content)
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Tab", "Next"),
		RenderKeyHint("a", "All"),
		RenderKeyHint("p", "Pause"),
		RenderKeyHint("r", "Refresh"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}

	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the selected surfaces into the viewport
func (m *Model) updateViewportContent() {
	if len(m.snapshots) == 0 {
		m.viewport.SetContent("")
		return
	}

	var content string
	if m.showAll {
		content = m.renderer.RenderAll(m.snapshots)
	} else {
		content = m.renderer.Render(m.snapshots[m.selected])
	}

	if m.report != nil {
		if diags := m.surfaceDiagnostics(); diags != "" {
			content += "\n\n" + diags
		}
	}
	m.viewport.SetContent(content)
}

// surfaceDiagnostics lists the diagnostics of the visible surfaces
func (m Model) surfaceDiagnostics() string {
	var lines []string
	for _, result := range m.report.Surfaces {
		if !m.showAll && result.SurfaceID != m.snapshots[m.selected].ID {
			continue
		}
		for _, d := range result.Diagnostics {
			lines = append(lines, StatusWarnStyle.Render(d.String()))
		}
		if result.Err != nil {
			lines = append(lines, StatusErrorStyle.Render(result.SurfaceID+": "+result.Err.Error()))
		}
	}
	return strings.Join(lines, "\n")
}

// runSweep runs one sweep with a timeout
func (m Model) runSweep() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	report, snaps, err := m.sweep(ctx)
	return sweepDoneMsg{report: report, snapshots: snaps, err: err}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the surface viewer
func Run(sweep SweepFunc, cfg Config) error {
	p := tea.NewProgram(New(sweep, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
