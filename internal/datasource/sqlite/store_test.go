package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/world"
)

const testWorld = `
surfaces:
  - id: bridge
    name: "Bridge [LCD]"
    subtype: LargeLCDPanelWide
    script: |
      Color 10 20 30
      ConnectedCargo "Dock A"
  - id: hidden
    name: "Hidden panel"
    script: Echo hidden
entities:
  - name: Dock A
    kind: connector
    status: Connected
    grid: main
    partner: Dock B
  - name: Dock B
    kind: connector
    status: Connected
    grid: ship
    partner: Dock A
  - name: Hold
    kind: container
    grid: ship
    inventory:
      - {category: MyObjectBuilder_Ore, subtype: Iron, amount: 1000}
      - {category: MyObjectBuilder_Ingot, subtype: Gold, amount: 20}
  - name: Door
    properties: {OnOff: true}
`

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "data", "test.db")
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	w, err := world.Parse([]byte(testWorld), "yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := store.Import(context.Background(), w); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return store
}

func TestStore_Import(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	want := map[string]int{"surfaces": 2, "entities": 4, "properties": 1, "inventory": 2}
	for table, n := range want {
		if stats[table] != n {
			t.Errorf("%s = %v, want %d", table, stats[table], n)
		}
	}

	// a second import replaces the first
	w, _ := world.Parse([]byte("surfaces:\n  - id: only\n    name: Only [LCD]\n"), "yaml")
	if err := store.Import(context.Background(), w); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	surfaces, err := store.ListSurfaces(context.Background())
	if err != nil {
		t.Fatalf("ListSurfaces() error = %v", err)
	}
	if len(surfaces) != 1 || surfaces[0].ID != "only" {
		t.Errorf("ListSurfaces() after reimport = %v", surfaces)
	}
}

func TestStore_Surfaces(t *testing.T) {
	store := newTestStore(t)

	surfaces, err := store.ListSurfaces(context.Background())
	if err != nil {
		t.Fatalf("ListSurfaces() error = %v", err)
	}
	if len(surfaces) != 1 || surfaces[0].ID != "bridge" {
		t.Fatalf("ListSurfaces() = %v, want only bridge", surfaces)
	}

	m, err := store.WidthMetrics("bridge")
	if err != nil {
		t.Fatalf("WidthMetrics() error = %v", err)
	}
	if datasource.Columns(m) != 53 {
		t.Errorf("Columns() = %d, want 53", datasource.Columns(m))
	}

	if err := store.SetFontSize("bridge", 2); err != nil {
		t.Fatalf("SetFontSize() error = %v", err)
	}
	if m, _ := store.WidthMetrics("bridge"); datasource.Columns(m) != 26 {
		t.Errorf("Columns() after SetFontSize(2) = %d, want 26", datasource.Columns(m))
	}

	if err := store.WriteOutput("missing", "x"); !errors.Is(err, datasource.ErrSurfaceNotFound) {
		t.Errorf("WriteOutput(missing) error = %v, want ErrSurfaceNotFound", err)
	}
}

func TestStore_Lookups(t *testing.T) {
	store := newTestStore(t)

	if v, lookup := store.LookupBoolProperty("Door", "OnOff"); !lookup.OK() || !v {
		t.Errorf("LookupBoolProperty() = %v, %v", v, lookup)
	}
	if _, lookup := store.LookupBoolProperty("Door", "Locked"); lookup != datasource.Unsupported {
		t.Errorf("missing property = %v, want unsupported", lookup)
	}
	if _, _, lookup := store.LookupStatus("Nope"); lookup != datasource.NotFound {
		t.Errorf("LookupStatus(Nope) = %v, want not found", lookup)
	}
	if _, lookup := store.LookupInventory("Door"); lookup != datasource.Unsupported {
		t.Errorf("LookupInventory(Door) = %v, want unsupported", lookup)
	}

	items, lookup := store.LookupInventory("Hold")
	if !lookup.OK() || len(items) != 2 || items[0].Subtype != "Iron" || items[1].Amount != 20 {
		t.Errorf("LookupInventory(Hold) = %v, %v", items, lookup)
	}

	partner, lookup := store.LookupPartner("Dock A")
	if !lookup.OK() || partner != "Dock B" {
		t.Errorf("LookupPartner() = %q, %v", partner, lookup)
	}

	siblings, lookup := store.LookupGridSiblings("Dock B")
	if !lookup.OK() || len(siblings) != 2 {
		t.Fatalf("LookupGridSiblings() = %v, %v", siblings, lookup)
	}
	if siblings[0].HasInventory || !siblings[1].HasInventory {
		t.Errorf("HasInventory flags = %v", siblings)
	}
}

func TestStore_Sweep(t *testing.T) {
	store := newTestStore(t)

	report, err := driver.New(store, driver.Options{}).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(report.Failed()) != 0 {
		t.Fatalf("failed surfaces: %v", report.Failed())
	}

	snap, err := store.Snapshot("bridge")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Color != (datasource.Color{R: 10, G: 20, B: 30}) {
		t.Errorf("Color = %+v", snap.Color)
	}
	out, _ := store.Output("bridge")
	if out == "" || out != snap.Output {
		t.Errorf("Output() = %q", out)
	}
}
