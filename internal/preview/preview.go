// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     preview
// Description: Terminal rendering of surface output
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package preview draws rendered surfaces in the terminal as boxes that
// are exactly as wide as the panel, in the color the script set.
package preview

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

// Color Palette
var (
	ColorTitle  = lipgloss.Color("#8B5CF6") // Violet
	ColorMuted  = lipgloss.Color("#6B7280") // Gray
	ColorBorder = lipgloss.Color("#5f87af")
)

// Options configures a Renderer
type Options struct {
	Border      string // rounded, normal, double or none
	BorderColor string
	UseColor    bool // Render text in the surface color
}

// DefaultOptions returns the default preview options
func DefaultOptions() Options {
	return Options{
		Border:      "rounded",
		BorderColor: string(ColorBorder),
		UseColor:    true,
	}
}

// Renderer draws surface snapshots
type Renderer struct {
	opts  Options
	title lipgloss.Style
	meta  lipgloss.Style
	box   lipgloss.Style
}

// New creates a renderer
func New(opts Options) *Renderer {
	box := lipgloss.NewStyle()
	if border, ok := borderFor(opts.Border); ok {
		color := ColorBorder
		if opts.BorderColor != "" {
			color = lipgloss.Color(opts.BorderColor)
		}
		box = box.Border(border).BorderForeground(color)
	}

	return &Renderer{
		opts:  opts,
		title: lipgloss.NewStyle().Foreground(ColorTitle).Bold(true),
		meta:  lipgloss.NewStyle().Foreground(ColorMuted),
		box:   box,
	}
}

// Render draws one surface: a title line and a box holding the output
// clipped and padded to the panel width
func (r *Renderer) Render(snap datasource.Snapshot) string {
	width := snap.Width()
	if width < 1 {
		width = 1
	}

	lines := strings.Split(snap.Output, "\n")
	for i, line := range lines {
		lines[i] = fit(line, width)
	}

	text := lipgloss.NewStyle()
	if r.opts.UseColor {
		text = text.Foreground(lipgloss.Color(snap.Color.Hex()))
	}

	header := r.title.Render(displayName(snap)) + " " +
		r.meta.Render(fmt.Sprintf("%d cols", snap.Width()))
	return header + "\n" + r.box.Render(text.Render(strings.Join(lines, "\n")))
}

// RenderAll draws every snapshot, separated by blank lines
func (r *Renderer) RenderAll(snaps []datasource.Snapshot) string {
	parts := make([]string, len(snaps))
	for i, snap := range snaps {
		parts[i] = r.Render(snap)
	}
	return strings.Join(parts, "\n\n")
}

// Plain renders a surface without styling
func Plain(snap datasource.Snapshot) string {
	return fmt.Sprintf("== %s ==\n%s", displayName(snap), snap.Output)
}

func displayName(snap datasource.Snapshot) string {
	if snap.Name == "" || snap.Name == snap.ID {
		return snap.ID
	}
	return fmt.Sprintf("%s (%s)", snap.Name, snap.ID)
}

// fit clips or pads line to exactly width runes
func fit(line string, width int) string {
	n := utf8.RuneCountInString(line)
	switch {
	case n > width:
		return string([]rune(line)[:width])
	case n < width:
		return line + strings.Repeat(" ", width-n)
	default:
		return line
	}
}

func borderFor(name string) (lipgloss.Border, bool) {
	switch name {
	case "none":
		return lipgloss.Border{}, false
	case "normal":
		return lipgloss.NormalBorder(), true
	case "double":
		return lipgloss.DoubleBorder(), true
	default:
		return lipgloss.RoundedBorder(), true
	}
}
