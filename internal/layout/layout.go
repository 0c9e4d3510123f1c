// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     layout
// Description: Fixed-width text layout for monospace panels
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package layout formats single lines of text for a panel that is a given
// number of monospace columns wide. Widths are counted in runes.
package layout

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultRule is the rune used by HorizontalRule
	DefaultRule = '─'

	// DefaultMinGap is the minimum number of spaces between two columns
	DefaultMinGap = 2
)

// Options configures an Engine
type Options struct {
	RuleRune rune
	MinGap   int
}

// DefaultOptions returns the default layout options
func DefaultOptions() Options {
	return Options{
		RuleRune: DefaultRule,
		MinGap:   DefaultMinGap,
	}
}

// Engine lays out lines with a fixed set of options
type Engine struct {
	opts Options
}

// New creates an engine; zero option fields fall back to the defaults
func New(opts Options) *Engine {
	if opts.RuleRune == 0 {
		opts.RuleRune = DefaultRule
	}
	if opts.MinGap <= 0 {
		opts.MinGap = DefaultMinGap
	}
	return &Engine{opts: opts}
}

var defaultEngine = New(DefaultOptions())

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.opts
}

// Rule returns the rule rune repeated width times
func (e *Engine) Rule(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(string(e.opts.RuleRune), width)
}

// Center centers text in width columns. Negative padding is clamped to zero
// and text wider than the panel is cut at the panel edge.
func (e *Engine) Center(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = truncate(text, width)
	left := width/2 - runeLen(text)/2
	if left < 0 {
		left = 0
	}
	return spaces(left) + text
}

// TwoColumn puts left and right at the panel edges. Each side gets at most
// half the width minus one column, less if a wider minimum gap is set.
func (e *Engine) TwoColumn(left, right string, width int) string {
	limit := min(width/2-1, (width-e.opts.MinGap)/2)
	if limit < 0 {
		limit = 0
	}
	left = truncate(left, limit)
	right = truncate(right, limit)

	free := width - runeLen(left) - runeLen(right)
	// a panel narrower than the minimum gap only gets what it has
	gap := max(free, min(e.opts.MinGap, width))
	return left + spaces(gap) + right
}

// EvenColumns splits width into len(fields) equal columns. The last column
// absorbs the division remainder. With an even field count, odd-indexed
// columns are right-aligned so label/value pairs read as a centered table.
func (e *Engine) EvenColumns(fields []string, width int) string {
	n := len(fields)
	if n == 0 || width <= 0 {
		return ""
	}

	colWidth := width / n
	remainder := width - colWidth*n
	limit := colWidth - 1
	if limit < 0 {
		limit = 0
	}

	var b strings.Builder
	for i, field := range fields {
		text := truncate(field, limit)
		pad := colWidth - runeLen(text)
		last := i == n-1

		switch {
		case n%2 == 0 && i%2 == 1:
			if last {
				pad += remainder
			}
			b.WriteString(spaces(pad))
			b.WriteString(text)
		case last:
			b.WriteString(spaces(remainder))
			b.WriteString(text)
			b.WriteString(spaces(pad))
		default:
			b.WriteString(text)
			b.WriteString(spaces(pad))
		}
	}
	return b.String()
}

// HorizontalRule returns a full-width rule with the default options
func HorizontalRule(width int) string {
	return defaultEngine.Rule(width)
}

// Center centers text with the default options
func Center(text string, width int) string {
	return defaultEngine.Center(text, width)
}

// TwoColumn lays out two columns with the default options
func TwoColumn(left, right string, width int) string {
	return defaultEngine.TwoColumn(left, right, width)
}

// EvenColumns lays out even columns with the default options
func EvenColumns(fields []string, width int) string {
	return defaultEngine.EvenColumns(fields, width)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runeLen(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
