package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/preview"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
	mutedColor = color.New(color.Faint)
)

// printSurfaces writes the snapshots, styled or plain
func printSurfaces(w io.Writer, snaps []datasource.Snapshot, styled bool, opts preview.Options) {
	if styled {
		fmt.Fprintln(w, preview.New(opts).RenderAll(snaps))
		return
	}
	for i, snap := range snaps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, preview.Plain(snap))
	}
}

// printReport writes diagnostics and failures of a sweep
func printReport(w io.Writer, report *driver.Report) {
	for _, d := range report.Diagnostics() {
		warnColor.Fprintln(w, d.String())
	}
	for _, failed := range report.Failed() {
		errorColor.Fprintf(w, "%s: %v\n", failed.SurfaceID, failed.Err)
	}
	mutedColor.Fprintf(w, "run %s: %d surface(s), %d diagnostic(s), %d failed in %s\n",
		report.RunID, len(report.Surfaces), report.DiagnosticCount(), len(report.Failed()), report.Duration)
}
