package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/tui/surfaceview"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"view"},
	Short:   "Live terminal view of all surfaces",
	Long: `Starts an interactive view that sweeps every schedule.interval and
shows the rendered surfaces with their diagnostics.

Shortcuts:
  Tab / Left / Right   Select surface
  a                    Show all surfaces
  p / Space            Pause/Resume
  r                    Sweep now
  g / G                Top / Bottom
  q / Ctrl+C           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log output would tear the alternate screen
	logging.Configure(logging.LoggerConfig{Level: cfg.General.LogLevel, Output: io.Discard})

	live, err := newLiveSession(cfg)
	if err != nil {
		printError("failed to open "+describeSource(cfg), err)
		return err
	}
	defer live.Close()

	viewCfg := surfaceview.DefaultConfig()
	viewCfg.Interval = cfg.Schedule.Interval.Duration
	viewCfg.Preview = previewOptions(cfg)

	return surfaceview.Run(live.SweepSnapshots, viewCfg)
}
