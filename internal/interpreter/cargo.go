// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     interpreter
// Description: Inventory listings for containers and docked grids
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package interpreter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/layout"
)

const (
	// NotConnected is emitted by ConnectedCargo for an undocked connector
	NotConnected = "Not connected"

	categoryPrefix = "MyObjectBuilder_"
)

func cmdCargo(c *Call) string {
	if len(c.Args) != 1 {
		return c.Usage("block")
	}

	block := c.Args[0]
	items, lookup := c.Source.LookupInventory(block)
	if !lookup.OK() {
		c.lookupFailed(block, lookup)
		return fmt.Sprintf("Cargo: Unable to read inventory of '%s'", block)
	}
	return renderItems(c, items, false)
}

// cmdConnectedCargo lists everything stored on the grid docked to a
// connector. The inventories are only read once the connector reports a
// connected state.
func cmdConnectedCargo(c *Call) string {
	if len(c.Args) != 1 && len(c.Args) != 2 {
		return c.Usage("connector", "wide")
	}

	connector := c.Args[0]
	failed := func(entity string, lookup datasource.Lookup) string {
		c.lookupFailed(entity, lookup)
		return fmt.Sprintf("ConnectedCargo: Unable to read cargo through '%s'", connector)
	}

	status, kind, lookup := c.Source.LookupStatus(connector)
	if !lookup.OK() {
		return failed(connector, lookup)
	}
	if kind != datasource.KindConnector {
		return failed(connector, datasource.WrongKind)
	}
	if status != datasource.StatusConnected {
		return NotConnected
	}

	partner, lookup := c.Source.LookupPartner(connector)
	if !lookup.OK() {
		return failed(connector, lookup)
	}
	siblings, lookup := c.Source.LookupGridSiblings(partner)
	if !lookup.OK() {
		return failed(partner, lookup)
	}

	var stacks []datasource.Item
	for _, sibling := range siblings {
		if !sibling.HasInventory {
			continue
		}
		items, lookup := c.Source.LookupInventory(sibling.Name)
		if !lookup.OK() {
			return failed(sibling.Name, lookup)
		}
		stacks = append(stacks, items...)
	}

	return renderItems(c, MergeItems(stacks), c.Arg(1) == "true")
}

// MergeItems sums the amounts of stacks sharing category and subtype.
// The first occurrence decides the position in the result.
func MergeItems(items []datasource.Item) []datasource.Item {
	type key struct{ category, subtype string }

	index := make(map[key]int, len(items))
	merged := make([]datasource.Item, 0, len(items))
	for _, item := range items {
		k := key{item.Category, item.Subtype}
		if i, ok := index[k]; ok {
			merged[i].Amount += item.Amount
			continue
		}
		index[k] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// ItemLabel returns the display name of an item stack
func ItemLabel(item datasource.Item) string {
	category := strings.TrimPrefix(item.Category, categoryPrefix)
	if category == "Component" || item.Subtype == "Ice" {
		return item.Subtype
	}
	return item.Subtype + " " + category
}

// ItemAmount returns the amount in magnitude shorthand, in grams for ores
func ItemAmount(item datasource.Item) string {
	unit := ""
	if strings.Contains(strings.ToLower(item.Category), "ore") {
		unit = "g"
	}
	return layout.MagnitudeShorthand(strconv.FormatFloat(item.Amount, 'f', -1, 64), unit)
}

// renderItems lists items sorted by subtype, one per two-column line or,
// in wide mode, two per four-column line
func renderItems(c *Call, items []datasource.Item, wide bool) string {
	sorted := make([]datasource.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Subtype < sorted[j].Subtype
	})

	lines := make([]string, 0, len(sorted))
	if !wide {
		for _, item := range sorted {
			lines = append(lines, c.TwoColumn(ItemLabel(item), ItemAmount(item)))
		}
		return strings.Join(lines, "\n")
	}

	row := make([]string, 0, 4)
	for _, item := range sorted {
		row = append(row, ItemLabel(item), ItemAmount(item))
		if len(row) == 4 {
			lines = append(lines, c.Layout.EvenColumns(row, c.Width))
			row = row[:0]
		}
	}
	if len(row) == 2 {
		row = append(row, "", "")
		lines = append(lines, c.Layout.EvenColumns(row, c.Width))
	}
	return strings.Join(lines, "\n")
}
