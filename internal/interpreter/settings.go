package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

func cmdData(c *Call) string {
	if len(c.Args) != 2 {
		return c.Usage("key", "value")
	}
	key, value := c.Args[0], c.Args[1]
	if err := c.Vars.Define(key, value); err != nil {
		msg := fmt.Sprintf("Error: Variable '%s' is already defined", key)
		c.Fail(StoreError, msg)
		return msg
	}
	return ""
}

func cmdColor(c *Call) string {
	if len(c.Args) != 3 {
		return c.Usage("red", "green", "blue")
	}

	var rgb [3]int
	for i, arg := range c.Args {
		v, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			msg := "Error: Unable to parse arguments. Make sure they are integers"
			c.Fail(ParseError, msg)
			return msg
		}
		rgb[i] = v
	}

	if err := c.Source.SetColor(c.SurfaceID, rgb[0], rgb[1], rgb[2]); err != nil {
		c.Logger.Warn("Failed to set color", "error", err)
	}
	return ""
}

func cmdFontSize(c *Call) string {
	if len(c.Args) != 1 {
		return c.Usage("font size")
	}

	size, err := strconv.ParseFloat(strings.TrimSpace(c.Args[0]), 64)
	if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
		msg := "Error: Unable to parse argument. Make sure it is a number"
		c.Fail(ParseError, msg)
		return msg
	}
	if size < datasource.MinFontSize || size > datasource.MaxFontSize {
		msg := fmt.Sprintf("Error: Font size must be between %g and %g", datasource.MinFontSize, datasource.MaxFontSize)
		c.Fail(ParseError, msg)
		return msg
	}

	if err := c.Source.SetFontSize(c.SurfaceID, size); err != nil {
		c.Logger.Warn("Failed to set font size", "error", err)
	}
	return ""
}
