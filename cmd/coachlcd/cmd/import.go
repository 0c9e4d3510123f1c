package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource/sqlite"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/world"
)

var importCmd = &cobra.Command{
	Use:   "import [world file]",
	Short: "Seed the SQLite store from a world file",
	Long: `Loads a world file (YAML or TOML) and replaces the content of the SQLite
store with its surfaces and entities. Rendered output is reset.

Without an argument the configured world file is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := cfg.Source.World
	if len(args) == 1 {
		path = args[0]
	}

	w, err := world.Load(path, world.Options{Encoding: cfg.Source.Encoding})
	if err != nil {
		printError("failed to load world", err)
		return err
	}

	store, err := sqlite.Open(sqlite.Config{
		Path:       cfg.Source.Database,
		NameSuffix: cfg.SurfaceSuffix(),
	})
	if err != nil {
		printError("failed to open database", err)
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Import(ctx, w); err != nil {
		printError("import failed", err)
		return err
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		return err
	}
	okColor.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", path, cfg.Source.Database)
	for _, key := range []string{"surfaces", "entities", "properties", "inventory"} {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-11s %v\n", key+":", stats[key])
	}
	return nil
}
