// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     broadcast
// Description: Frame messages sent to websocket clients
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package broadcast

import (
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/interpreter"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/version"
)

// Message types
const (
	TypeFrame = "frame"
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"
)

// Frame is the rendered state of all surfaces after one sweep
type Frame struct {
	Type        string                   `json:"type"`
	Version     string                   `json:"version"`
	RunID       string                   `json:"run_id"`
	Surfaces    []SurfaceFrame           `json:"surfaces"`
	Diagnostics []interpreter.Diagnostic `json:"diagnostics,omitempty"`
}

// SurfaceFrame is one surface inside a frame
type SurfaceFrame struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Text  string `json:"text"`
	Width int    `json:"width"`
	Color string `json:"color"`
}

// NewFrame builds a frame from a sweep report and the surface snapshots
func NewFrame(report *driver.Report, snaps []datasource.Snapshot) Frame {
	frame := Frame{
		Type:     TypeFrame,
		Version:  version.Frames,
		Surfaces: make([]SurfaceFrame, 0, len(snaps)),
	}
	if report != nil {
		frame.RunID = report.RunID
		frame.Diagnostics = report.Diagnostics()
	}

	for _, snap := range snaps {
		frame.Surfaces = append(frame.Surfaces, SurfaceFrame{
			ID:    snap.ID,
			Name:  snap.Name,
			Text:  snap.Output,
			Width: snap.Width(),
			Color: snap.Color.Hex(),
		})
	}
	return frame
}

// Message is a client request
type Message struct {
	Type string `json:"type"` // "ping"
}

// Response is sent for client requests
type Response struct {
	Type    string       `json:"type"` // "pong", "error"
	Payload *ErrorDetail `json:"payload,omitempty"`
}

// ErrorDetail describes a rejected request
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
