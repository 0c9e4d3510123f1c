// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management for the binary and its formats
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package version

// Version constants
const (
	// Application version
	App = "1.0.0"

	// Script language version, bumped when command semantics change
	Language = "1.0.0"

	// Version of the websocket frame format
	Frames = "1.0.0"

	// Version of the SQLite schema
	Schema = "1.0.0"
)

// Build information, set with -ldflags
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "frames":
		return Frames
	case "schema":
		return Schema
	default:
		return App
	}
}
