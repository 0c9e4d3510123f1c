package datasource

import "math"

// Base panel widths in monospace columns at font size 1
const (
	DefaultPanelWidth = 26
	WidePanelWidth    = 53
	CornerPanelWidth  = 106
)

// Font sizes a panel accepts
const (
	MinFontSize = 0.1
	MaxFontSize = 10.0
)

// MaxColumns is the widest panel at the smallest font size
const MaxColumns = 1060

// WidthMetrics holds the surface parameters that determine its column count
type WidthMetrics struct {
	BasePanelWidth     float64
	TextPaddingPercent float64
	FontSize           float64
}

// BasePanelWidth returns the base width for a panel block subtype
func BasePanelWidth(subtype string) float64 {
	switch subtype {
	case "LargeLCDPanelWide":
		return WidePanelWidth
	case "LargeBlockCorner_LCD_1",
		"LargeBlockCorner_LCD_2",
		"LargeBlockCorner_LCD_Flat_1",
		"LargeBlockCorner_LCD_Flat_2":
		return CornerPanelWidth
	default:
		return DefaultPanelWidth
	}
}

// Columns computes the usable column count, capped at MaxColumns:
// floor((base - base*padding/100*2) / fontSize)
func Columns(m WidthMetrics) int {
	if m.FontSize <= 0 {
		return 0
	}
	usable := m.BasePanelWidth - m.BasePanelWidth*m.TextPaddingPercent/100*2
	cols := math.Floor(usable / m.FontSize)
	switch {
	case cols < 0:
		return 0
	case cols > MaxColumns:
		return MaxColumns
	}
	return int(cols)
}
