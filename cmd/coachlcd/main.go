package main

import (
	"os"

	"github.com/Coach97/SpaceEngineers-CoachLCD/cmd/coachlcd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
