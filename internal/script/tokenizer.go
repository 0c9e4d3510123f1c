// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     script
// Description: Line tokenizer for panel scripts
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package script turns panel script text into command records and holds
// the per-evaluation variable store used for ${name} substitution.
//
// A script is a sequence of lines of the form
//
//	CommandName "argument with spaces" bare-argument
//
// Arguments are separated by single spaces. A token starting with a double
// quote opens an argument that collects following tokens until a token
// ending with a double quote closes it. There is no escape for an embedded
// quote character.
package script

import (
	"errors"
	"fmt"
	"strings"
)

const quote = `"`

// ErrUnclosedQuote is reported for a closing quote that has no open argument
var ErrUnclosedQuote = errors.New("closing quote without an open argument")

// CommandRecord is one parsed script line
type CommandRecord struct {
	Line int      // 1-based source line number
	Name string   // Command name, case-sensitive
	Args []string // Arguments with quoted segments rejoined
}

// String renders the record back into script syntax
func (c CommandRecord) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteString(" ")
		b.WriteString(quote + arg + quote)
	}
	return b.String()
}

// LineError describes a script line that could not be tokenized
type LineError struct {
	Line int
	Text string
	Err  error
}

// Error implements the error interface
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

// Unwrap returns the underlying cause
func (e *LineError) Unwrap() error {
	return e.Err
}

// Tokenize splits script text into command records. Lines that fail to
// tokenize are skipped and reported; they never stop later lines.
func Tokenize(text string) ([]CommandRecord, []*LineError) {
	var records []CommandRecord
	var lineErrors []*LineError

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		record, ok, err := TokenizeLine(line)
		if err != nil {
			lineErrors = append(lineErrors, &LineError{Line: i + 1, Text: line, Err: err})
			continue
		}
		if !ok {
			continue
		}

		record.Line = i + 1
		records = append(records, record)
	}

	return records, lineErrors
}

// TokenizeLine tokenizes a single line. ok is false for lines that carry
// no command (leading space).
func TokenizeLine(line string) (record CommandRecord, ok bool, err error) {
	tokens := strings.Split(line, " ")
	if len(tokens) == 0 || tokens[0] == "" {
		return CommandRecord{}, false, nil
	}

	var f fold
	for _, token := range tokens[1:] {
		if err := f.push(token); err != nil {
			return CommandRecord{}, false, err
		}
	}

	return CommandRecord{Name: tokens[0], Args: f.args()}, true, nil
}

// fold accumulates tokens into arguments. open marks that the last
// argument was started by a lone leading quote and is still collecting.
type fold struct {
	buffers []*strings.Builder
	open    bool
}

func (f *fold) push(token string) error {
	starts := strings.HasPrefix(token, quote)
	ends := strings.HasSuffix(token, quote)

	switch {
	case starts && ends && len(token) >= 2:
		f.start(token[1 : len(token)-1])
		f.open = false
	case starts:
		f.start(token[1:])
		f.open = true
	case ends:
		if !f.open {
			return fmt.Errorf("%w: %s", ErrUnclosedQuote, token)
		}
		f.extend(token[:len(token)-1])
		f.open = false
	case f.open:
		f.extend(token)
	case token == "":
		// runs of spaces between arguments
	default:
		f.start(token)
	}
	return nil
}

func (f *fold) start(text string) {
	b := &strings.Builder{}
	b.WriteString(text)
	f.buffers = append(f.buffers, b)
}

func (f *fold) extend(text string) {
	last := f.buffers[len(f.buffers)-1]
	last.WriteString(" ")
	last.WriteString(text)
}

func (f *fold) args() []string {
	args := make([]string, len(f.buffers))
	for i, b := range f.buffers {
		args[i] = b.String()
	}
	return args
}
