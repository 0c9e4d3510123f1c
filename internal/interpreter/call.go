package interpreter

import (
	"strings"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/layout"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/script"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// Handler renders one command. It returns the text to display, possibly
// several lines joined with "\n", or "" for no output.
type Handler func(c *Call) string

// Call is everything a handler may use while executing one command
type Call struct {
	Name      string
	Line      int
	Args      []string // Already substituted
	SurfaceID string
	Width     int // Panel width in columns at the time of the call

	Vars   *script.Variables
	Source datasource.DataSource
	Layout *layout.Engine
	Logger *logging.Logger

	session *Session
}

// Arg returns the i-th argument or "" when it is missing
func (c *Call) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Usage records a usage diagnostic and returns the usage line built from
// the expected parameter names
func (c *Call) Usage(params ...string) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(": Expected args:")
	for _, p := range params {
		b.WriteString(` "<` + p + `>"`)
	}
	msg := b.String()
	c.Fail(UsageError, msg)
	return msg
}

// Fail records a diagnostic of the given kind
func (c *Call) Fail(kind Kind, msg string) {
	if c.session == nil {
		return
	}
	c.session.record(Diagnostic{
		Kind:    kind,
		Surface: c.SurfaceID,
		Command: c.Name,
		Line:    c.Line,
		Message: msg,
	})
}

// TwoColumn lays out left and right at the current width
func (c *Call) TwoColumn(left, right string) string {
	return c.Layout.TwoColumn(left, right, c.Width)
}
