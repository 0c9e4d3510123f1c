package sqlite

import (
	"database/sql"
	"errors"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
)

type entityRow struct {
	name         string
	kind         datasource.Kind
	status       datasource.Status
	grid         string
	partner      string
	hasInventory bool
}

// LookupBoolProperty reads a boolean terminal property
func (s *Store) LookupBoolProperty(entity, property string) (bool, datasource.Lookup) {
	if _, lookup := s.entity(entity); !lookup.OK() {
		return false, lookup
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var value bool
	err := s.db.QueryRow(`SELECT value FROM properties WHERE entity = ? AND name = ?`, entity, property).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Property lookup failed", "entity", entity, "property", property, "error", err)
		}
		return false, datasource.Unsupported
	}
	return value, datasource.Found
}

// LookupStatus returns the status and kind of an entity
func (s *Store) LookupStatus(entity string) (datasource.Status, datasource.Kind, datasource.Lookup) {
	e, lookup := s.entity(entity)
	if !lookup.OK() {
		return datasource.StatusUnknown, datasource.KindBlock, lookup
	}
	return e.status, e.kind, datasource.Found
}

// LookupInventory returns the entity's inventory in stored order
func (s *Store) LookupInventory(entity string) ([]datasource.Item, datasource.Lookup) {
	e, lookup := s.entity(entity)
	if !lookup.OK() {
		return nil, lookup
	}
	if !e.hasInventory {
		return nil, datasource.Unsupported
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT category, subtype, amount FROM inventory
		WHERE entity = ? ORDER BY position
	`, entity)
	if err != nil {
		s.logger.Warn("Inventory lookup failed", "entity", entity, "error", err)
		return nil, datasource.Unsupported
	}
	defer rows.Close()

	items := []datasource.Item{}
	for rows.Next() {
		var item datasource.Item
		if err := rows.Scan(&item.Category, &item.Subtype, &item.Amount); err != nil {
			s.logger.Warn("Inventory scan failed", "entity", entity, "error", err)
			return nil, datasource.Unsupported
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, datasource.Unsupported
	}
	return items, datasource.Found
}

// LookupPartner returns the connector docked to connector
func (s *Store) LookupPartner(connector string) (string, datasource.Lookup) {
	e, lookup := s.entity(connector)
	if !lookup.OK() {
		return "", lookup
	}
	if e.kind != datasource.KindConnector {
		return "", datasource.WrongKind
	}
	if e.partner == "" || e.status != datasource.StatusConnected {
		return "", datasource.Detached
	}
	if _, lookup := s.entity(e.partner); !lookup.OK() {
		return "", lookup
	}
	return e.partner, datasource.Found
}

// LookupGridSiblings returns every entity on the grid of entity
func (s *Store) LookupGridSiblings(entity string) ([]datasource.EntityRef, datasource.Lookup) {
	e, lookup := s.entity(entity)
	if !lookup.OK() {
		return nil, lookup
	}
	if e.grid == "" {
		return nil, datasource.Detached
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT name, has_inventory FROM entities WHERE grid = ? ORDER BY position`, e.grid)
	if err != nil {
		s.logger.Warn("Grid lookup failed", "entity", entity, "error", err)
		return nil, datasource.Unsupported
	}
	defer rows.Close()

	var refs []datasource.EntityRef
	for rows.Next() {
		var ref datasource.EntityRef
		if err := rows.Scan(&ref.Name, &ref.HasInventory); err != nil {
			return nil, datasource.Unsupported
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, datasource.Unsupported
	}
	return refs, datasource.Found
}

func (s *Store) entity(name string) (entityRow, datasource.Lookup) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e entityRow
	var kind, status string
	err := s.db.QueryRow(`
		SELECT name, kind, status, grid, partner, has_inventory
		FROM entities WHERE name = ?
	`, name).Scan(&e.name, &kind, &status, &e.grid, &e.partner, &e.hasInventory)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entityRow{}, datasource.NotFound
		}
		s.logger.Warn("Entity lookup failed", "entity", name, "error", err)
		return entityRow{}, datasource.Unsupported
	}

	e.kind = datasource.ParseKind(kind)
	e.status = datasource.ParseStatus(status)
	return e, datasource.Found
}
