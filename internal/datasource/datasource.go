// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     datasource
// Description: Contract between the interpreter and the world it renders
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package datasource defines everything the interpreter needs from the
// outside world: the list of display surfaces, their width metrics, the
// side effects a script may request and the entity lookups used by the
// status and cargo commands.
package datasource

import (
	"context"
	"errors"
	"fmt"
)

// ErrSurfaceNotFound is returned by adapters for an unknown surface ID
var ErrSurfaceNotFound = errors.New("surface not found")

// Surface is a display surface together with its script source
type Surface struct {
	ID     string
	Name   string
	Script string
}

// EntityRef identifies an entity returned by a grid enumeration
type EntityRef struct {
	Name         string
	HasInventory bool
}

// Item is a single inventory stack
type Item struct {
	Category string  // e.g. "MyObjectBuilder_Ore"
	Subtype  string  // e.g. "Iron"
	Amount   float64 // raw amount as reported by the container
}

// DataSource is the collaborator the interpreter calls for every lookup
// and side effect. Lookups report their outcome as a Lookup tag instead of
// an error so each command can map it to its own fallback text.
type DataSource interface {
	// Surfaces
	ListSurfaces(ctx context.Context) ([]Surface, error)
	WidthMetrics(surfaceID string) (WidthMetrics, error)
	SetColor(surfaceID string, r, g, b int) error
	SetFontSize(surfaceID string, size float64) error
	WriteOutput(surfaceID, text string) error

	// Entity lookups
	LookupBoolProperty(entity, property string) (bool, Lookup)
	LookupStatus(entity string) (Status, Kind, Lookup)
	LookupInventory(entity string) ([]Item, Lookup)
	LookupPartner(connector string) (string, Lookup)
	LookupGridSiblings(entity string) ([]EntityRef, Lookup)
}

// Color is a surface foreground color
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DefaultColor is the color of a surface no script has colored yet
var DefaultColor = Color{R: 255, G: 255, B: 255}

// Clamp limits every channel to 0..255
func (c Color) Clamp() Color {
	return Color{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
}

// Hex returns the color as #rrggbb
func (c Color) Hex() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Snapshot is the last rendered state of a surface
type Snapshot struct {
	Surface
	Metrics WidthMetrics
	Color   Color
	Output  string
}

// Width returns the current panel width in columns
func (s Snapshot) Width() int {
	return Columns(s.Metrics)
}

// Snapshotter is implemented by adapters that keep rendered output so
// hosts can display it
type Snapshotter interface {
	Snapshot(surfaceID string) (Snapshot, error)
}
