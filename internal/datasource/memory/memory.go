// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     memory
// Description: In-memory data source for worlds loaded from files and tests
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package memory implements datasource.DataSource over a world held in
// memory. It is safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

// Entity is a named block in the world
type Entity struct {
	Name       string
	Kind       datasource.Kind
	Status     datasource.Status
	Grid       string          // Grid identity shared by entities on one grid
	Partner    string          // Docked connector, for connectors
	Properties map[string]bool // Boolean terminal properties
	Inventory  []datasource.Item
}

// HasInventory reports whether the entity carries an inventory
func (e Entity) HasInventory() bool {
	return e.Kind == datasource.KindContainer || e.Inventory != nil
}

type surface struct {
	snapshot datasource.Snapshot
	writes   int
}

// Source is an in-memory world
type Source struct {
	surfaces map[string]*surface
	order    []string
	entities map[string]*Entity
	names    []string
	calls    map[string]int
	mutex    sync.RWMutex
}

var _ datasource.DataSource = (*Source)(nil)
var _ datasource.Snapshotter = (*Source)(nil)

// New creates an empty world
func New() *Source {
	return &Source{
		surfaces: make(map[string]*surface),
		entities: make(map[string]*Entity),
		calls:    make(map[string]int),
	}
}

// AddSurface adds a display surface with its width metrics
func (s *Source) AddSurface(sf datasource.Surface, metrics datasource.WidthMetrics) error {
	if sf.ID == "" {
		return fmt.Errorf("surface ID cannot be empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.surfaces[sf.ID]; exists {
		return fmt.Errorf("surface %s already exists", sf.ID)
	}
	s.surfaces[sf.ID] = &surface{snapshot: datasource.Snapshot{
		Surface: sf,
		Metrics: metrics,
		Color:   datasource.DefaultColor,
	}}
	s.order = append(s.order, sf.ID)
	return nil
}

// AddEntity adds a named entity
func (s *Source) AddEntity(e Entity) error {
	if e.Name == "" {
		return fmt.Errorf("entity name cannot be empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entities[e.Name]; exists {
		return fmt.Errorf("entity %s already exists", e.Name)
	}
	stored := e
	s.entities[e.Name] = &stored
	s.names = append(s.names, e.Name)
	return nil
}

// SetScript replaces the script of a surface
func (s *Source) SetScript(surfaceID, text string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sf, ok := s.surfaces[surfaceID]
	if !ok {
		return fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
	}
	sf.snapshot.Script = text
	return nil
}

// ListSurfaces returns the surfaces in insertion order
func (s *Source) ListSurfaces(ctx context.Context) ([]datasource.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]datasource.Surface, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.surfaces[id].snapshot.Surface)
	}
	return out, nil
}

// WidthMetrics returns the current metrics of a surface
func (s *Source) WidthMetrics(surfaceID string) (datasource.WidthMetrics, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sf, ok := s.surfaces[surfaceID]
	if !ok {
		return datasource.WidthMetrics{}, fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
	}
	return sf.snapshot.Metrics, nil
}

// SetColor sets the foreground color, clamped to 0..255
func (s *Source) SetColor(surfaceID string, r, g, b int) error {
	return s.update(surfaceID, func(sf *surface) {
		sf.snapshot.Color = datasource.Color{R: r, G: g, B: b}.Clamp()
	})
}

// SetFontSize sets the font size, which changes the column count
func (s *Source) SetFontSize(surfaceID string, size float64) error {
	return s.update(surfaceID, func(sf *surface) {
		sf.snapshot.Metrics.FontSize = size
	})
}

// WriteOutput stores the rendered text of a surface
func (s *Source) WriteOutput(surfaceID, text string) error {
	return s.update(surfaceID, func(sf *surface) {
		sf.snapshot.Output = text
		sf.writes++
	})
}

// Snapshot returns the current state of a surface
func (s *Source) Snapshot(surfaceID string) (datasource.Snapshot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sf, ok := s.surfaces[surfaceID]
	if !ok {
		return datasource.Snapshot{}, fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
	}
	return sf.snapshot, nil
}

// Writes returns how often output was written to a surface
func (s *Source) Writes(surfaceID string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if sf, ok := s.surfaces[surfaceID]; ok {
		return sf.writes
	}
	return 0
}

// Calls returns how often a lookup method was called, e.g. "LookupInventory"
func (s *Source) Calls(method string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.calls[method]
}

// LookupBoolProperty reads a boolean terminal property
func (s *Source) LookupBoolProperty(entity, property string) (bool, datasource.Lookup) {
	e, lookup := s.entity("LookupBoolProperty", entity)
	if !lookup.OK() {
		return false, lookup
	}
	value, ok := e.Properties[property]
	if !ok {
		return false, datasource.Unsupported
	}
	return value, datasource.Found
}

// LookupStatus returns the status and kind of an entity
func (s *Source) LookupStatus(entity string) (datasource.Status, datasource.Kind, datasource.Lookup) {
	e, lookup := s.entity("LookupStatus", entity)
	if !lookup.OK() {
		return datasource.StatusUnknown, datasource.KindBlock, lookup
	}
	return e.Status, e.Kind, datasource.Found
}

// LookupInventory returns a copy of the entity's inventory
func (s *Source) LookupInventory(entity string) ([]datasource.Item, datasource.Lookup) {
	e, lookup := s.entity("LookupInventory", entity)
	if !lookup.OK() {
		return nil, lookup
	}
	if !e.HasInventory() {
		return nil, datasource.Unsupported
	}
	items := make([]datasource.Item, len(e.Inventory))
	copy(items, e.Inventory)
	return items, datasource.Found
}

// LookupPartner returns the connector docked to connector
func (s *Source) LookupPartner(connector string) (string, datasource.Lookup) {
	e, lookup := s.entity("LookupPartner", connector)
	if !lookup.OK() {
		return "", lookup
	}
	if e.Kind != datasource.KindConnector {
		return "", datasource.WrongKind
	}
	if e.Partner == "" || e.Status != datasource.StatusConnected {
		return "", datasource.Detached
	}

	s.mutex.RLock()
	_, exists := s.entities[e.Partner]
	s.mutex.RUnlock()
	if !exists {
		return "", datasource.NotFound
	}
	return e.Partner, datasource.Found
}

// LookupGridSiblings returns every entity on the grid of entity,
// including entity itself
func (s *Source) LookupGridSiblings(entity string) ([]datasource.EntityRef, datasource.Lookup) {
	e, lookup := s.entity("LookupGridSiblings", entity)
	if !lookup.OK() {
		return nil, lookup
	}
	if e.Grid == "" {
		return nil, datasource.Detached
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var refs []datasource.EntityRef
	for _, name := range s.names {
		other := s.entities[name]
		if other.Grid == e.Grid {
			refs = append(refs, datasource.EntityRef{Name: other.Name, HasInventory: other.HasInventory()})
		}
	}
	return refs, datasource.Found
}

// entity counts the call and returns a copy of the named entity
func (s *Source) entity(method, name string) (Entity, datasource.Lookup) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls[method]++
	e, ok := s.entities[name]
	if !ok {
		return Entity{}, datasource.NotFound
	}
	return *e, datasource.Found
}

func (s *Source) update(surfaceID string, fn func(*surface)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sf, ok := s.surfaces[surfaceID]
	if !ok {
		return fmt.Errorf("%w: %s", datasource.ErrSurfaceNotFound, surfaceID)
	}
	fn(sf)
	return nil
}
