package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/config"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

var (
	cfgFile    string
	verbose    bool
	sourceType string
	worldFile  string
	dbFile     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coachlcd",
	Short: "CoachLCD - Panel script interpreter",
	Long: `CoachLCD renders text panels from small scripts.

Each display surface carries a script of one command per line. A sweep
evaluates every script against the world (connectors, pistons, cargo
containers) and writes the rendered text back to the surface.

Commands:
  run      - Sweep once and print the surfaces
  check    - Validate scripts without rendering
  watch    - Sweep on a schedule and when the world file changes
  tui      - Live terminal view of all surfaces
  serve    - Broadcast rendered surfaces over websocket
  import   - Seed the SQLite store from a world file`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./configs/coachlcd.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&sourceType, "source", "", "Data source: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&worldFile, "world", "", "World file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "SQLite database path")
}

// loadConfig loads the configuration and applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if sourceType != "" {
		cfg.Source.Type = sourceType
	}
	if worldFile != "" {
		cfg.Source.World = worldFile
	}
	if dbFile != "" {
		cfg.Source.Database = dbFile
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Configure(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	})
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
