package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

func snapshot(output string) datasource.Snapshot {
	return datasource.Snapshot{
		Surface: datasource.Surface{ID: "bridge", Name: "Bridge [LCD]"},
		Metrics: datasource.WidthMetrics{BasePanelWidth: 26, FontSize: 2},
		Color:   datasource.Color{R: 255},
		Output:  output,
	}
}

func TestRender_BoxWidth(t *testing.T) {
	r := New(Options{Border: "rounded"})
	out := r.Render(snapshot("short\nthis line is far too long for the panel"))

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("Render() has %d lines, want title, top, 2 rows, bottom:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Bridge [LCD] (bridge)") || !strings.Contains(lines[0], "13 cols") {
		t.Errorf("title = %q", lines[0])
	}
	for _, line := range lines[1:] {
		if w := lipgloss.Width(line); w != 15 {
			t.Errorf("box line %q width = %d, want 15", line, w)
		}
	}
	if !strings.Contains(lines[3], "this line is") || strings.Contains(lines[3], "far") {
		t.Errorf("long line not clipped: %q", lines[3])
	}
}

func TestRender_NoBorder(t *testing.T) {
	r := New(Options{Border: "none"})
	out := r.Render(snapshot("a"))

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Render() = %q", out)
	}
	if lipgloss.Width(lines[1]) != 13 {
		t.Errorf("content width = %d, want 13", lipgloss.Width(lines[1]))
	}
}

func TestRenderAll(t *testing.T) {
	r := New(DefaultOptions())
	out := r.RenderAll([]datasource.Snapshot{snapshot("a"), snapshot("b")})
	if strings.Count(out, "Bridge [LCD]") != 2 {
		t.Errorf("RenderAll() = %q", out)
	}
}

func TestPlain(t *testing.T) {
	snap := snapshot("hello")
	snap.Name = ""
	if got := Plain(snap); got != "== bridge ==\nhello" {
		t.Errorf("Plain() = %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		line     string
		width    int
		expected string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abc"},
		{"──", 2, "──"},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		if got := fit(tt.line, tt.width); got != tt.expected {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.expected)
		}
	}
}
