// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     world
// Description: World files describing surfaces and entities
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package world loads world files. A world file lists display surfaces
// with their scripts and the entities scripts may query. It is written in
// YAML or TOML and turned into an in-memory data source or imported into
// the SQLite store.
package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource/memory"
)

// World is the content of a world file
type World struct {
	Surfaces []Surface `yaml:"surfaces" toml:"surfaces"`
	Entities []Entity  `yaml:"entities" toml:"entities"`
}

// Surface describes a display surface
type Surface struct {
	ID          string  `yaml:"id" toml:"id"`
	Name        string  `yaml:"name" toml:"name"`
	Subtype     string  `yaml:"subtype" toml:"subtype"`
	TextPadding float64 `yaml:"text_padding" toml:"text_padding"` // Percent per side
	FontSize    float64 `yaml:"font_size" toml:"font_size"`       // 0 means 1
	Script      string  `yaml:"script" toml:"script"`
	ScriptFile  string  `yaml:"script_file" toml:"script_file"` // Relative to the world file
}

// Entity describes a named block
type Entity struct {
	Name       string          `yaml:"name" toml:"name"`
	Kind       string          `yaml:"kind" toml:"kind"`
	Status     string          `yaml:"status" toml:"status"`
	Grid       string          `yaml:"grid" toml:"grid"`
	Partner    string          `yaml:"partner" toml:"partner"`
	Properties map[string]bool `yaml:"properties" toml:"properties"`
	Inventory  []Item          `yaml:"inventory" toml:"inventory"`
}

// Item is an inventory stack
type Item struct {
	Category string  `yaml:"category" toml:"category"`
	Subtype  string  `yaml:"subtype" toml:"subtype"`
	Amount   float64 `yaml:"amount" toml:"amount"`
}

// Options controls how a world file is loaded
type Options struct {
	Encoding string // Encoding of script files, default utf-8
}

// Load reads a world file. The format is chosen by extension; script
// files are read relative to the world file and decoded to UTF-8.
func Load(path string, opts Options) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world: %w", err)
	}

	w, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range w.Surfaces {
		sf := &w.Surfaces[i]
		if sf.ScriptFile == "" {
			continue
		}
		file := sf.ScriptFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("surface %s: failed to read script: %w", sf.ID, err)
		}
		text, err := DecodeScript(raw, opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("surface %s: %w", sf.ID, err)
		}
		sf.Script = text
	}

	return w, nil
}

// Parse decodes a world in the given format ("yaml" or "toml")
func Parse(data []byte, format string) (*World, error) {
	var w World
	var err error
	switch format {
	case "toml":
		_, err = toml.Decode(string(data), &w)
	case "yaml":
		err = yaml.Unmarshal(data, &w)
	default:
		return nil, fmt.Errorf("unsupported world format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse world: %w", err)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks for missing and duplicate identifiers and unknown kinds
func (w *World) Validate() error {
	var errs []error

	ids := make(map[string]bool, len(w.Surfaces))
	for i, sf := range w.Surfaces {
		switch {
		case sf.ID == "":
			errs = append(errs, fmt.Errorf("surface #%d has no id", i+1))
		case ids[sf.ID]:
			errs = append(errs, fmt.Errorf("duplicate surface id %q", sf.ID))
		}
		ids[sf.ID] = true
		if sf.Script != "" && sf.ScriptFile != "" {
			errs = append(errs, fmt.Errorf("surface %q sets both script and script_file", sf.ID))
		}
		if sf.FontSize < 0 || sf.TextPadding < 0 {
			errs = append(errs, fmt.Errorf("surface %q has negative metrics", sf.ID))
		}
	}

	names := make(map[string]bool, len(w.Entities))
	for i, e := range w.Entities {
		switch {
		case e.Name == "":
			errs = append(errs, fmt.Errorf("entity #%d has no name", i+1))
		case names[e.Name]:
			errs = append(errs, fmt.Errorf("duplicate entity name %q", e.Name))
		}
		names[e.Name] = true
		if !validKind(e.Kind) {
			errs = append(errs, fmt.Errorf("entity %q has unknown kind %q", e.Name, e.Kind))
		}
	}

	return errors.Join(errs...)
}

// Metrics returns the width metrics of the surface
func (sf Surface) Metrics() datasource.WidthMetrics {
	fontSize := sf.FontSize
	if fontSize == 0 {
		fontSize = 1
	}
	return datasource.WidthMetrics{
		BasePanelWidth:     datasource.BasePanelWidth(sf.Subtype),
		TextPaddingPercent: sf.TextPadding,
		FontSize:           fontSize,
	}
}

// Matches reports whether the surface name ends with suffix. An empty
// suffix matches every surface.
func (sf Surface) Matches(suffix string) bool {
	return suffix == "" || strings.HasSuffix(sf.Name, suffix)
}

// Items converts the inventory to data source items
func (e Entity) Items() []datasource.Item {
	if e.Inventory == nil {
		return nil
	}
	items := make([]datasource.Item, len(e.Inventory))
	for i, it := range e.Inventory {
		items[i] = datasource.Item{Category: it.Category, Subtype: it.Subtype, Amount: it.Amount}
	}
	return items
}

// Build creates an in-memory data source holding the surfaces whose name
// ends with suffix and all entities
func (w *World) Build(suffix string) (*memory.Source, error) {
	src := memory.New()

	for _, sf := range w.Surfaces {
		if !sf.Matches(suffix) {
			continue
		}
		surface := datasource.Surface{ID: sf.ID, Name: sf.Name, Script: sf.Script}
		if err := src.AddSurface(surface, sf.Metrics()); err != nil {
			return nil, err
		}
	}

	for _, e := range w.Entities {
		entity := memory.Entity{
			Name:       e.Name,
			Kind:       datasource.ParseKind(e.Kind),
			Status:     datasource.ParseStatus(e.Status),
			Grid:       e.Grid,
			Partner:    e.Partner,
			Properties: e.Properties,
			Inventory:  e.Items(),
		}
		if err := src.AddEntity(entity); err != nil {
			return nil, err
		}
	}

	return src, nil
}

func validKind(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "block", "connector", "piston", "container", "cargo":
		return true
	default:
		return false
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
