// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     interpreter
// Description: Name-keyed command dispatch table
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package interpreter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps case-sensitive command names to handlers
type Registry struct {
	handlers map[string]Handler
	mutex    sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under name
func (r *Registry) Register(name string, h Handler) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("command name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("command name %q contains whitespace", name)
	}
	if h == nil {
		return fmt.Errorf("handler for %s cannot be nil", name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(name string, h Handler) {
	if err := r.Register(name, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler for name
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all registered names in sorted order
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns a registry with every built-in command
func Builtins() *Registry {
	r := NewRegistry()

	// Settings
	r.MustRegister("Data", cmdData)
	r.MustRegister("Color", cmdColor)
	r.MustRegister("FontSize", cmdFontSize)

	// Text rendering
	r.MustRegister("HLine", cmdHLine)
	r.MustRegister("Echo", cmdEcho)
	r.MustRegister("Center", cmdCenter)
	r.MustRegister("TwoCol", cmdTwoCol)
	r.MustRegister("Col", cmdCol)

	// Property displays
	r.MustRegister("PropBool", cmdPropBool)
	r.MustRegister("Connected", cmdConnected)
	r.MustRegister("Extending", cmdExtending)
	r.MustRegister("Retracting", cmdRetracting)
	r.MustRegister("PistonStatus", cmdPistonStatus)

	// Inventories
	r.MustRegister("Cargo", cmdCargo)
	r.MustRegister("ConnectedCargo", cmdConnectedCargo)

	return r
}

// Commands lists the names of the built-in commands
func Commands() []string {
	return Builtins().Names()
}
