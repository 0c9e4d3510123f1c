package interpreter

func cmdHLine(c *Call) string {
	return c.Layout.Rule(c.Width)
}

// cmdEcho keeps a line for empty text so blank lines survive the join
func cmdEcho(c *Call) string {
	if text := c.Arg(0); text != "" {
		return text
	}
	return " "
}

func cmdCenter(c *Call) string {
	return c.Layout.Center(c.Arg(0), c.Width)
}

func cmdTwoCol(c *Call) string {
	if len(c.Args) != 2 {
		return c.Usage("left", "right")
	}
	return c.TwoColumn(c.Args[0], c.Args[1])
}

func cmdCol(c *Call) string {
	return c.Layout.EvenColumns(c.Args, c.Width)
}
