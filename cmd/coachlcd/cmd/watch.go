package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/scheduler"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

var watchPreview bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sweep on a schedule and when the world file changes",
	Long: `Sweeps all surfaces every schedule.interval and prints them.

For file sources the world file is watched as well: a change reloads the
world and triggers a sweep right away. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&watchPreview, "preview", "p", true, "Draw surfaces as boxes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	live, err := newLiveSession(cfg)
	if err != nil {
		printError("failed to open "+describeSource(cfg), err)
		return err
	}
	defer live.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	sweep := func(ctx context.Context) (*driver.Report, error) {
		report, snaps, err := live.SweepSnapshots(ctx)
		if err == nil {
			printSurfaces(out, snaps, watchPreview, previewOptions(cfg))
		}
		return report, err
	}

	sched, err := scheduler.New(scheduler.SweepFunc(sweep), scheduler.Options{
		Interval: cfg.Schedule.Interval.Duration,
		OnReport: func(report *driver.Report, err error) {
			if report != nil {
				printReport(os.Stderr, report)
			}
		},
	})
	if err != nil {
		return err
	}

	if watchesWorld(cfg) {
		go watchWorld(ctx, live, sched)
	}

	sched.Start()
	<-ctx.Done()
	return sched.Stop()
}

// watchWorld reloads the session and sweeps when the world file changes
func watchWorld(ctx context.Context, live *liveSession, sched *scheduler.Scheduler) {
	logger := logging.New("watch")
	err := scheduler.Watch(ctx, cfg.Source.World, cfg.Schedule.Debounce.Duration, func() {
		if err := live.Reload(); err != nil {
			return
		}
		if !sched.Trigger() {
			logger.Debug("Sweep in progress, change picked up by the next one")
		}
	})
	if err != nil {
		logger.Error("Watching world file failed", "error", err)
	}
}
