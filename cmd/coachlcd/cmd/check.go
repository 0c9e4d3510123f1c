package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/interpreter"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/script"
)

var checkCmd = &cobra.Command{
	Use:   "check [script files...]",
	Short: "Validate scripts without rendering",
	Long: `Tokenizes scripts and reports malformed lines and unknown commands.

Without arguments the scripts of all surfaces in the data source are
checked. Script files are decoded with the configured source encoding.
The command fails when any problem is found.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkTarget is one script to check
type checkTarget struct {
	name string
	text string
}

func runCheck(cmd *cobra.Command, args []string) error {
	targets, err := checkTargets(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	problems := 0
	for _, t := range targets {
		problems += checkScript(out, t)
	}

	if problems > 0 {
		errorColor.Fprintf(out, "%d problem(s) in %d script(s)\n", problems, len(targets))
		return fmt.Errorf("check failed")
	}
	okColor.Fprintf(out, "%d script(s) ok\n", len(targets))
	return nil
}

func checkTargets(files []string) ([]checkTarget, error) {
	if len(files) > 0 {
		targets := make([]checkTarget, 0, len(files))
		for _, path := range files {
			text, err := readScript(path, cfg.Source.Encoding)
			if err != nil {
				return nil, err
			}
			targets = append(targets, checkTarget{name: path, text: text})
		}
		return targets, nil
	}

	s, err := openSession(cfg)
	if err != nil {
		printError("failed to open "+describeSource(cfg), err)
		return nil, err
	}
	defer s.close()

	surfaces, err := s.source.ListSurfaces(context.Background())
	if err != nil {
		return nil, err
	}
	targets := make([]checkTarget, 0, len(surfaces))
	for _, sf := range surfaces {
		targets = append(targets, checkTarget{name: sf.ID, text: sf.Script})
	}
	return targets, nil
}

// checkScript prints the problems of one script and returns their count
func checkScript(w io.Writer, t checkTarget) int {
	registry := interpreter.Builtins()
	records, lineErrs := script.Tokenize(t.text)

	problems := 0
	for _, le := range lineErrs {
		errorColor.Fprintf(w, "%s:%d: %v\n", t.name, le.Line, le.Err)
		problems++
	}
	for _, rec := range records {
		if !registry.Has(rec.Name) {
			warnColor.Fprintf(w, "%s:%d: unknown command %q (known: %s)\n",
				t.name, rec.Line, rec.Name, strings.Join(interpreter.Commands(), ", "))
			problems++
		}
	}
	if problems == 0 {
		mutedColor.Fprintf(w, "%s: %d command(s)\n", t.name, len(records))
	}
	return problems
}
