// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     interpreter
// Description: Command dispatch for tokenized panel scripts
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package interpreter executes command records against a data source.
// Every command produces at most one output string; the empty string
// means the command renders nothing. Failures never abort an evaluation:
// they become an inline text line and a Diagnostic.
package interpreter

import (
	"fmt"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/layout"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/script"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// Options configures an Interpreter
type Options struct {
	Registry *Registry      // Defaults to Builtins()
	Layout   *layout.Engine // Defaults to layout.New(layout.DefaultOptions())
	Logger   *logging.Logger
}

// Interpreter dispatches commands for any number of surfaces. It holds no
// per-surface state; each evaluation runs in its own Session.
type Interpreter struct {
	registry *Registry
	source   datasource.DataSource
	layout   *layout.Engine
	logger   *logging.Logger
}

// New creates an interpreter reading from and writing to source
func New(source datasource.DataSource, opts Options) *Interpreter {
	if opts.Registry == nil {
		opts.Registry = Builtins()
	}
	if opts.Layout == nil {
		opts.Layout = layout.New(layout.DefaultOptions())
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("interpreter")
	}

	return &Interpreter{
		registry: opts.Registry,
		source:   source,
		layout:   opts.Layout,
		logger:   opts.Logger,
	}
}

// Registry returns the dispatch table
func (in *Interpreter) Registry() *Registry {
	return in.registry
}

// Begin starts the evaluation of one surface with a fresh variable store
func (in *Interpreter) Begin(surfaceID string) *Session {
	return &Session{
		in:        in,
		surfaceID: surfaceID,
		vars:      script.NewVariables(),
		logger:    in.logger.WithFields("surface", surfaceID),
	}
}

// Session is the state of a single surface evaluation
type Session struct {
	in          *Interpreter
	surfaceID   string
	vars        *script.Variables
	diagnostics []Diagnostic
	logger      *logging.Logger
}

// Diagnostics returns the diagnostics recorded so far
func (s *Session) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

// Execute substitutes variables into the record's arguments and runs the
// matching handler. The width is read from the data source on every call.
// The returned error is set only when the surface metrics are unavailable.
// A panicking handler is recovered into an internal diagnostic line.
func (s *Session) Execute(rec script.CommandRecord) (out string, err error) {
	handler, ok := s.in.registry.Lookup(rec.Name)
	if !ok {
		s.logger.Debug("Unknown command ignored", "command", rec.Name, "line", rec.Line)
		return "", nil
	}

	metrics, err := s.in.source.WidthMetrics(s.surfaceID)
	if err != nil {
		return "", fmt.Errorf("width metrics for %s: %w", s.surfaceID, err)
	}

	call := &Call{
		Name:      rec.Name,
		Line:      rec.Line,
		Args:      s.vars.SubstituteAll(rec.Args),
		SurfaceID: s.surfaceID,
		Width:     datasource.Columns(metrics),
		Vars:      s.vars,
		Source:    s.in.source,
		Layout:    s.in.layout,
		Logger:    s.logger,
		session:   s,
	}

	s.logger.Debug("Dispatching command",
		"command", call.Name,
		"line", call.Line,
		"args", len(call.Args),
		"width", call.Width,
	)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Command panicked", "command", call.Name, "line", call.Line, "panic", r)
			out = fmt.Sprintf("%s: internal error", call.Name)
			call.Fail(InternalError, fmt.Sprintf("%s: %v", out, r))
			err = nil
		}
	}()

	return handler(call), nil
}

func (s *Session) record(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	s.logger.Debug("Command diagnostic",
		"kind", d.Kind.String(),
		"command", d.Command,
		"line", d.Line,
		"message", d.Message,
	)
}
