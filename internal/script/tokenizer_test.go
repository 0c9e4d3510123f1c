package script

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []CommandRecord
	}{
		{
			name:     "quoted multi-word argument",
			input:    `Echo "hello world"`,
			expected: []CommandRecord{{Line: 1, Name: "Echo", Args: []string{"hello world"}}},
		},
		{
			name:     "two quoted arguments",
			input:    `TwoCol "a" "b"`,
			expected: []CommandRecord{{Line: 1, Name: "TwoCol", Args: []string{"a", "b"}}},
		},
		{
			name:     "bare words",
			input:    `Data x foo`,
			expected: []CommandRecord{{Line: 1, Name: "Data", Args: []string{"x", "foo"}}},
		},
		{
			name:     "no arguments",
			input:    `HLine`,
			expected: []CommandRecord{{Line: 1, Name: "HLine", Args: []string{}}},
		},
		{
			name:     "three word argument",
			input:    `Center "one two three"`,
			expected: []CommandRecord{{Line: 1, Name: "Center", Args: []string{"one two three"}}},
		},
		{
			name:     "standalone quote opens empty argument",
			input:    `Echo "`,
			expected: []CommandRecord{{Line: 1, Name: "Echo", Args: []string{""}}},
		},
		{
			name:     "empty quoted argument",
			input:    `TwoCol "" "x"`,
			expected: []CommandRecord{{Line: 1, Name: "TwoCol", Args: []string{"", "x"}}},
		},
		{
			name:     "unterminated quote keeps accumulated text",
			input:    `Echo "never closed here`,
			expected: []CommandRecord{{Line: 1, Name: "Echo", Args: []string{"never closed here"}}},
		},
		{
			name:     "double space inside quotes is kept",
			input:    `Echo "a  b"`,
			expected: []CommandRecord{{Line: 1, Name: "Echo", Args: []string{"a  b"}}},
		},
		{
			name:     "double space between arguments is ignored",
			input:    `TwoCol "a"  "b"`,
			expected: []CommandRecord{{Line: 1, Name: "TwoCol", Args: []string{"a", "b"}}},
		},
		{
			name:  "blank and indented lines are skipped",
			input: "HLine\n\n  Echo \"x\"\nEcho \"y\"",
			expected: []CommandRecord{
				{Line: 1, Name: "HLine", Args: []string{}},
				{Line: 4, Name: "Echo", Args: []string{"y"}},
			},
		},
		{
			name:     "carriage returns are stripped",
			input:    "Echo \"a\"\r\nHLine\r\n",
			expected: []CommandRecord{{Line: 1, Name: "Echo", Args: []string{"a"}}, {Line: 2, Name: "HLine", Args: []string{}}},
		},
		{
			name:     "mixed quoted and bare",
			input:    `PropBool "Main Door" Open "Open" "Closed" "n/a"`,
			expected: []CommandRecord{{Line: 1, Name: "PropBool", Args: []string{"Main Door", "Open", "Open", "Closed", "n/a"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, lineErrors := Tokenize(tt.input)
			if len(lineErrors) != 0 {
				t.Fatalf("unexpected line errors: %v", lineErrors)
			}
			if !reflect.DeepEqual(records, tt.expected) {
				t.Errorf("Tokenize() = %#v, want %#v", records, tt.expected)
			}
		})
	}
}

func TestTokenize_MalformedLineIsSkipped(t *testing.T) {
	records, lineErrors := Tokenize("Echo oops\"\nEcho \"ok\"")

	if len(lineErrors) != 1 {
		t.Fatalf("expected 1 line error, got %d", len(lineErrors))
	}
	if lineErrors[0].Line != 1 {
		t.Errorf("line error line = %d, want 1", lineErrors[0].Line)
	}
	if !errors.Is(lineErrors[0], ErrUnclosedQuote) {
		t.Errorf("line error should wrap ErrUnclosedQuote: %v", lineErrors[0])
	}
	if !strings.Contains(lineErrors[0].Error(), "line 1") {
		t.Errorf("Error() = %q, should name the line", lineErrors[0].Error())
	}

	if len(records) != 1 || records[0].Name != "Echo" || records[0].Args[0] != "ok" {
		t.Errorf("records = %#v, want the valid Echo line", records)
	}
}

func TestTokenize_ClosingQuoteAfterClosedArgument(t *testing.T) {
	_, lineErrors := Tokenize(`TwoCol "a" b"`)
	if len(lineErrors) != 1 {
		t.Fatalf("expected a line error, got %d", len(lineErrors))
	}
}

func TestCommandRecord_String(t *testing.T) {
	record := CommandRecord{Name: "TwoCol", Args: []string{"left side", "right"}}
	if got := record.String(); got != `TwoCol "left side" "right"` {
		t.Errorf("String() = %q", got)
	}
}

func TestTokenize_QuotedRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("quoted arguments survive tokenization", prop.ForAll(
		func(words [][]string) bool {
			args := make([]string, 0, len(words))
			for _, w := range words {
				args = append(args, strings.Join(w, " "))
			}

			line := CommandRecord{Name: "Col", Args: args}.String()
			record, ok, err := TokenizeLine(line)
			if err != nil || !ok {
				return false
			}
			if len(args) == 0 {
				return len(record.Args) == 0
			}
			return reflect.DeepEqual(record.Args, args)
		},
		gen.SliceOf(gen.SliceOfN(2, gen.Identifier())),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
