package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/broadcast"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/scheduler"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/health"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/version"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Broadcast rendered surfaces over websocket",
	Long: `Sweeps all surfaces on schedule and pushes every result as a frame to
websocket clients connected at /ws. /healthz answers "ok"; /health
returns a JSON report on the data source and sweep freshness.

Frame format:
  {"type":"frame","version":"1.0.0","run_id":"...",
   "surfaces":[{"id":"bridge","text":"...","width":26,"color":"#ffffff"}]}`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New("serve")

	live, err := newLiveSession(cfg)
	if err != nil {
		printError("failed to open "+describeSource(cfg), err)
		return err
	}
	defer live.Close()

	var lastSweep atomic.Int64
	checks := health.NewRegistry(cfg.General.Name, version.App)
	checks.Register(health.SourceCheck("source", live.Probe))
	checks.Register(health.SweepCheck("sweep", func() time.Time {
		if ns := lastSweep.Load(); ns != 0 {
			return time.Unix(0, ns)
		}
		return time.Time{}
	}, 3*cfg.Schedule.Interval.Duration))

	hub := broadcast.NewHub(broadcast.Options{
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		PingInterval: cfg.Server.PingInterval.Duration,
		Health:       checks.Handler(5 * time.Second),
	})
	defer hub.Close()

	sweep := func(ctx context.Context) (*driver.Report, error) {
		report, snaps, err := live.SweepSnapshots(ctx)
		if err != nil {
			return report, err
		}
		lastSweep.Store(time.Now().UnixNano())
		if err := hub.Publish(broadcast.NewFrame(report, snaps)); err != nil {
			logger.Error("Failed to publish frame", "error", err)
		}
		return report, nil
	}

	sched, err := scheduler.New(scheduler.SweepFunc(sweep), scheduler.Options{
		Interval: cfg.Schedule.Interval.Duration,
	})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchesWorld(cfg) {
		go watchWorld(ctx, live, sched)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Broadcast server listening", "addr", addr, "source", describeSource(cfg))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sched.Start()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		printError("server failed", err)
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub.Close()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("Server shutdown failed", "error", serr)
	}
	if serr := sched.Stop(); serr != nil && err == nil {
		err = serr
	}
	return err
}
