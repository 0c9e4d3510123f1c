package interpreter

import (
	"fmt"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

var statusParams = []string{"block", "text", "true text", "false text", "error text"}

// cmdPropBool renders "property, true|false text". Four arguments leave
// the error text blank.
func cmdPropBool(c *Call) string {
	if len(c.Args) != 4 && len(c.Args) != 5 {
		return c.Usage("block", "property", "true text", "false text", "error text")
	}

	block, property := c.Args[0], c.Args[1]
	value, lookup := c.Source.LookupBoolProperty(block, property)
	if !lookup.OK() {
		c.lookupFailed(block, lookup)
		return c.TwoColumn(property, c.Arg(4))
	}
	if value {
		return c.TwoColumn(property, c.Args[2])
	}
	return c.TwoColumn(property, c.Args[3])
}

func cmdConnected(c *Call) string {
	return statusFlag(c, datasource.KindConnector, datasource.StatusConnected)
}

func cmdExtending(c *Call) string {
	return statusFlag(c, datasource.KindPiston, datasource.StatusExtending)
}

func cmdRetracting(c *Call) string {
	return statusFlag(c, datasource.KindPiston, datasource.StatusRetracting)
}

// statusFlag renders "text, true|false text" depending on whether the
// entity of the given kind is in the wanted state
func statusFlag(c *Call, kind datasource.Kind, want datasource.Status) string {
	if len(c.Args) != 5 {
		return c.Usage(statusParams...)
	}

	status, ok := c.status(c.Args[0], kind)
	if !ok {
		return c.TwoColumn(c.Args[1], c.Args[4])
	}
	if status == want {
		return c.TwoColumn(c.Args[1], c.Args[2])
	}
	return c.TwoColumn(c.Args[1], c.Args[3])
}

func cmdPistonStatus(c *Call) string {
	if len(c.Args) != 6 {
		return c.Usage("block", "text", "stopped text", "retracting text", "extending text", "error text")
	}

	status, ok := c.status(c.Args[0], datasource.KindPiston)
	if !ok {
		return c.TwoColumn(c.Args[1], c.Args[5])
	}

	text := c.Args[2]
	switch status {
	case datasource.StatusRetracting:
		text = c.Args[3]
	case datasource.StatusExtending:
		text = c.Args[4]
	}
	return c.TwoColumn(c.Args[1], text)
}

// status looks up the entity and checks its kind. A failed lookup is
// recorded as a diagnostic.
func (c *Call) status(entity string, kind datasource.Kind) (datasource.Status, bool) {
	status, got, lookup := c.Source.LookupStatus(entity)
	if !lookup.OK() {
		c.lookupFailed(entity, lookup)
		return datasource.StatusUnknown, false
	}
	if got != kind {
		c.lookupFailed(entity, datasource.WrongKind)
		return datasource.StatusUnknown, false
	}
	return status, true
}

func (c *Call) lookupFailed(entity string, lookup datasource.Lookup) {
	c.Fail(LookupError, fmt.Sprintf("%s: %s", entity, lookup))
}
