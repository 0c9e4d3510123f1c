package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource/sqlite"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/interpreter"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/layout"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/preview"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/world"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/config"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// session is an opened data source with a driver over it
type session struct {
	source datasource.DataSource
	driver *driver.Driver
	close  func() error
}

// openSession opens the configured data source
func openSession(cfg *config.Config) (*session, error) {
	var (
		src     datasource.DataSource
		closeFn = func() error { return nil }
	)

	switch cfg.Source.Type {
	case config.SourceSQLite:
		store, err := sqlite.Open(sqlite.Config{
			Path:       cfg.Source.Database,
			NameSuffix: cfg.SurfaceSuffix(),
		})
		if err != nil {
			return nil, err
		}
		src, closeFn = store, store.Close

	default:
		w, err := world.Load(cfg.Source.World, world.Options{Encoding: cfg.Source.Encoding})
		if err != nil {
			return nil, err
		}
		mem, err := w.Build(cfg.SurfaceSuffix())
		if err != nil {
			return nil, err
		}
		src = mem
	}

	logger := logging.New("driver")
	interp := interpreter.New(src, interpreter.Options{
		Layout: layout.New(layout.Options{
			RuleRune: cfg.RuleRune(),
			MinGap:   cfg.Layout.MinGap,
		}),
		Logger: logging.New("interpreter"),
	})

	return &session{
		source: src,
		driver: driver.New(src, driver.Options{Interpreter: interp, Logger: logger}),
		close:  closeFn,
	}, nil
}

// sweep evaluates all surfaces and collects their snapshots
func (s *session) sweep(ctx context.Context) (*driver.Report, []datasource.Snapshot, error) {
	report, err := s.driver.Sweep(ctx)
	if err != nil {
		return report, nil, err
	}
	snaps, err := s.driver.Snapshots(report)
	if err != nil {
		return report, nil, err
	}
	return report, snaps, nil
}

// evaluate runs text as the script of one surface
func (s *session) evaluate(surfaceID, text string) (*driver.Report, []datasource.Snapshot, error) {
	report := &driver.Report{
		RunID:    "single",
		Started:  time.Now(),
		Surfaces: []driver.Result{s.driver.Evaluate(surfaceID, text)},
	}
	report.Duration = time.Since(report.Started)

	if report.Surfaces[0].Err != nil {
		return report, nil, nil
	}
	snaps, err := s.driver.Snapshots(report)
	if err != nil {
		return report, nil, err
	}
	return report, snaps, nil
}

// readScript reads a script file decoded from encoding
func readScript(path, encoding string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := world.DecodeScript(data, encoding)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

// liveSession holds the current session and replaces it when the world
// file changes
type liveSession struct {
	cfg    *config.Config
	logger *logging.Logger

	mu      sync.Mutex
	current *session
}

func newLiveSession(cfg *config.Config) (*liveSession, error) {
	s, err := openSession(cfg)
	if err != nil {
		return nil, err
	}
	return &liveSession{
		cfg:     cfg,
		logger:  logging.New("session"),
		current: s,
	}, nil
}

// Sweep implements scheduler.Sweeper
func (l *liveSession) Sweep(ctx context.Context) (*driver.Report, error) {
	report, _, err := l.SweepSnapshots(ctx)
	return report, err
}

// SweepSnapshots sweeps the current session
func (l *liveSession) SweepSnapshots(ctx context.Context) (*driver.Report, []datasource.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.sweep(ctx)
}

// Probe lists the surfaces of the current source
func (l *liveSession) Probe(ctx context.Context) error {
	l.mu.Lock()
	src := l.current.source
	l.mu.Unlock()

	_, err := src.ListSurfaces(ctx)
	return err
}

// Reload reopens the data source. On failure the previous one stays.
func (l *liveSession) Reload() error {
	next, err := openSession(l.cfg)
	if err != nil {
		l.logger.Warn("Reload failed, keeping previous world", "error", err)
		return err
	}

	l.mu.Lock()
	prev := l.current
	l.current = next
	l.mu.Unlock()

	l.logger.Info("World reloaded", "world", l.cfg.Source.World)
	return prev.close()
}

// Close closes the current session
func (l *liveSession) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.close()
}

// watchesWorld reports whether the world file should be watched
func watchesWorld(cfg *config.Config) bool {
	return cfg.Schedule.Watch && cfg.Source.Type == config.SourceFile
}

func previewOptions(cfg *config.Config) preview.Options {
	return preview.Options{
		Border:      cfg.Preview.Border,
		BorderColor: cfg.Preview.BorderColor,
		UseColor:    cfg.Preview.UseColor,
	}
}

func describeSource(cfg *config.Config) string {
	if cfg.Source.Type == config.SourceSQLite {
		return fmt.Sprintf("sqlite:%s", cfg.Source.Database)
	}
	return fmt.Sprintf("file:%s", cfg.Source.World)
}
