package interpreter

import "fmt"

// Kind classifies a command failure
type Kind int

const (
	UsageError    Kind = iota // Wrong argument count
	ParseError                // Malformed numeric argument or quoting
	LookupError               // Entity missing, wrong kind or unsupported query
	StoreError                // Duplicate variable key
	InternalError             // Handler panicked
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case UsageError:
		return "usage"
	case ParseError:
		return "parse"
	case LookupError:
		return "lookup"
	case StoreError:
		return "store"
	case InternalError:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is a recovered failure of a single command
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Surface string `json:"surface"`
	Command string `json:"command"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// String formats the diagnostic for terminal output
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s error in %s: %s", d.Surface, d.Line, d.Kind, d.Command, d.Message)
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its name
func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range []Kind{UsageError, ParseError, LookupError, StoreError, InternalError} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", text)
}
