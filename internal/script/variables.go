package script

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateKey is returned when a variable is defined twice
var ErrDuplicateKey = errors.New("variable already defined")

// Variables is the ordered variable store of a single evaluation.
// The zero value is ready to use.
type Variables struct {
	keys   []string
	values map[string]string
}

// NewVariables creates an empty store
func NewVariables() *Variables {
	return &Variables{values: make(map[string]string)}
}

// Define adds key with value. Redefinition fails and keeps the first value.
func (v *Variables) Define(key, value string) error {
	if v.values == nil {
		v.values = make(map[string]string)
	}
	if _, exists := v.values[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	v.keys = append(v.keys, key)
	v.values[key] = value
	return nil
}

// Substitute replaces every ${key} placeholder in arg. Entries are applied
// in definition order, each one to the text already rewritten by the
// entries before it.
func (v *Variables) Substitute(arg string) string {
	for _, key := range v.keys {
		arg = strings.ReplaceAll(arg, "${"+key+"}", v.values[key])
	}
	return arg
}

// SubstituteAll returns a substituted copy of args
func (v *Variables) SubstituteAll(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = v.Substitute(arg)
	}
	return out
}
