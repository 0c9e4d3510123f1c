package driver

import (
	"time"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/interpreter"
)

// Result is the outcome of evaluating one surface
type Result struct {
	SurfaceID   string
	Name        string
	Output      string
	Diagnostics []interpreter.Diagnostic
	Err         error
	Duration    time.Duration
}

// Report summarizes a sweep
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Surfaces []Result
}

// Failed returns the surfaces whose evaluation failed
func (r *Report) Failed() []Result {
	var failed []Result
	for _, s := range r.Surfaces {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Diagnostics returns the diagnostics of all surfaces in sweep order
func (r *Report) Diagnostics() []interpreter.Diagnostic {
	var all []interpreter.Diagnostic
	for _, s := range r.Surfaces {
		all = append(all, s.Diagnostics...)
	}
	return all
}

// DiagnosticCount returns the number of diagnostics over all surfaces
func (r *Report) DiagnosticCount() int {
	n := 0
	for _, s := range r.Surfaces {
		n += len(s.Diagnostics)
	}
	return n
}
