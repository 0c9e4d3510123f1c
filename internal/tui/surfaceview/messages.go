// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     surfaceview
// Description: Message types for async operations in the surface viewer
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package surfaceview

import (
	"time"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
)

// sweepDoneMsg is sent when a sweep finished
type sweepDoneMsg struct {
	report    *driver.Report
	snapshots []datasource.Snapshot
	err       error
}

// tickMsg is used for periodic sweeps
type tickMsg time.Time
