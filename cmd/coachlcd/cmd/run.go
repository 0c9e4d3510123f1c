package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	runPreview bool
	runScript  string
	runSurface string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sweep all surfaces once and print them",
	Long: `Evaluates the script of every surface once, writes the output back to
the data source and prints the rendered surfaces.

With --preview each surface is drawn as a box exactly as wide as the
panel, in the color its script set.

With --script and --surface only that surface is evaluated, using the
script file in place of its own script.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runPreview, "preview", "p", false, "Draw surfaces as boxes")
	runCmd.Flags().StringVar(&runScript, "script", "", "Script file to evaluate instead of the surface script")
	runCmd.Flags().StringVar(&runSurface, "surface", "", "Surface to evaluate --script on")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := openSession(cfg)
	if err != nil {
		printError("failed to open "+describeSource(cfg), err)
		return err
	}
	defer s.close()

	if runScript != "" || runSurface != "" {
		return runOne(cmd.OutOrStdout(), s, runSurface, runScript)
	}

	report, snaps, err := s.sweep(context.Background())
	if err != nil {
		printError("sweep failed", err)
		return err
	}

	printSurfaces(cmd.OutOrStdout(), snaps, runPreview, previewOptions(cfg))
	printReport(os.Stderr, report)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d surface(s) failed", len(failed))
	}
	return nil
}

// runOne evaluates a script file on a single surface
func runOne(w io.Writer, s *session, surfaceID, path string) error {
	if surfaceID == "" || path == "" {
		return fmt.Errorf("--script and --surface must be used together")
	}

	text, err := readScript(path, cfg.Source.Encoding)
	if err != nil {
		return err
	}

	report, snaps, err := s.evaluate(surfaceID, text)
	if err != nil {
		printError("evaluation failed", err)
		return err
	}

	printSurfaces(w, snaps, runPreview, previewOptions(cfg))
	printReport(os.Stderr, report)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("surface %s failed: %w", surfaceID, failed[0].Err)
	}
	return nil
}
