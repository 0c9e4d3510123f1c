// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     driver
// Description: Evaluation sweeps over all surfaces of a data source
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package driver runs scripts. A sweep lists every surface of a data
// source, evaluates its script and writes the rendered text back. One
// failing surface never stops the others.
package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/interpreter"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/script"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// Options configures a Driver
type Options struct {
	Interpreter *interpreter.Interpreter // Defaults to the built-in commands
	Logger      *logging.Logger
}

// Driver evaluates surface scripts
type Driver struct {
	source datasource.DataSource
	interp *interpreter.Interpreter
	logger *logging.Logger
}

// New creates a driver for source
func New(source datasource.DataSource, opts Options) *Driver {
	if opts.Logger == nil {
		opts.Logger = logging.New("driver")
	}
	if opts.Interpreter == nil {
		opts.Interpreter = interpreter.New(source, interpreter.Options{Logger: opts.Logger})
	}

	return &Driver{
		source: source,
		interp: opts.Interpreter,
		logger: opts.Logger,
	}
}

// Sweep evaluates every surface once. The returned error is set when the
// surfaces cannot be listed or ctx is cancelled; the report then holds the
// surfaces finished so far.
func (d *Driver) Sweep(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
	logger := d.logger.WithFields("run_id", report.RunID)

	surfaces, err := d.source.ListSurfaces(ctx)
	if err != nil {
		report.Duration = time.Since(report.Started)
		return report, fmt.Errorf("failed to list surfaces: %w", err)
	}

	logger.Debug("Sweep started", "surfaces", len(surfaces))

	for _, sf := range surfaces {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(report.Started)
			logger.Warn("Sweep cancelled", "done", len(report.Surfaces), "total", len(surfaces))
			return report, err
		}

		result := d.evaluate(sf, logger)
		if result.Err != nil {
			logger.Error("Surface failed", "surface", sf.ID, "error", result.Err)
		}
		report.Surfaces = append(report.Surfaces, result)
	}

	report.Duration = time.Since(report.Started)
	logger.Info("Sweep finished",
		"surfaces", len(report.Surfaces),
		"failed", len(report.Failed()),
		"diagnostics", report.DiagnosticCount(),
		"duration", report.Duration,
	)
	return report, nil
}

// Evaluate runs text as the script of a single surface and writes the
// result to it
func (d *Driver) Evaluate(surfaceID, text string) Result {
	return d.evaluate(datasource.Surface{ID: surfaceID, Script: text}, d.logger)
}

func (d *Driver) evaluate(sf datasource.Surface, logger *logging.Logger) (result Result) {
	start := time.Now()
	result = Result{SurfaceID: sf.ID, Name: sf.Name}
	logger = logger.WithFields("surface", sf.ID)

	// Session.Execute recovers per command; this catches the rest of the
	// surface evaluation.
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("evaluation panicked: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	records, lineErrs := script.Tokenize(sf.Script)
	for _, le := range lineErrs {
		logger.Warn("Skipping malformed script line", "line", le.Line, "error", le.Err)
		result.Diagnostics = append(result.Diagnostics, lineDiagnostic(sf.ID, le))
	}

	session := d.interp.Begin(sf.ID)
	outputs := make([]string, 0, len(records))
	for _, rec := range records {
		out, err := session.Execute(rec)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, session.Diagnostics()...)
			result.Err = err
			return result
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	}
	result.Diagnostics = append(result.Diagnostics, session.Diagnostics()...)
	result.Output = strings.Join(outputs, "\n")

	if err := d.source.WriteOutput(sf.ID, result.Output); err != nil {
		result.Err = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	logger.Debug("Surface rendered", "commands", len(records), "diagnostics", len(result.Diagnostics))
	return result
}

// Snapshots returns the rendered state of every surface in the report.
// The data source must implement datasource.Snapshotter.
func (d *Driver) Snapshots(report *Report) ([]datasource.Snapshot, error) {
	snapshotter, ok := d.source.(datasource.Snapshotter)
	if !ok {
		return nil, fmt.Errorf("data source %T does not keep snapshots", d.source)
	}

	snaps := make([]datasource.Snapshot, 0, len(report.Surfaces))
	for _, result := range report.Surfaces {
		snap, err := snapshotter.Snapshot(result.SurfaceID)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func lineDiagnostic(surfaceID string, le *script.LineError) interpreter.Diagnostic {
	command := ""
	if fields := strings.Fields(le.Text); len(fields) > 0 {
		command = fields[0]
	}
	return interpreter.Diagnostic{
		Kind:    interpreter.ParseError,
		Surface: surfaceID,
		Command: command,
		Line:    le.Line,
		Message: le.Err.Error(),
	}
}
