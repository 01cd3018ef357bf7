// Package observers maintains the mutable, per-building-type, per-ware,
// per-economy, per-site bookkeeping spec.md §3 describes, plus the Blocked
// Field list. Registration is grounded on engine/systems/production.go's
// TechTree descriptor tables (map[name]*Def, populated once at startup);
// running counters are generalized from that static table into the
// mutable cnt_built/cnt_under_construction/stocklevel fields spec.md §3
// names.
package observers

import (
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// cmpOrdered is the less-than-style comparator slices.SortFunc wants,
// generalized over every observer id type so every accessor below sorts
// the same way.
func cmpOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Handle is an Economy Observer's stable identity (spec.md §9).
type Handle = uuid.UUID

// BuildingObserver is the per-building-type running state (spec.md §3,
// "Building Observer"). Kind is populated once from the descriptor at
// registration — the tagged-enum replacement for runtime-typed dispatch
// spec.md §9 calls for.
type BuildingObserver struct {
	ID         hostapi.BuildingTypeID
	Name       string
	Descriptor hostapi.BuildingDescriptor
	Kind       hostapi.BuildingKind

	CntBuilt             int
	CntUnderConstruction int
	CntTarget            int
	Unoccupied           int
	CurrentStats         int
	Stocklevel           int
	StocklevelTime       hostapi.Tick

	ConstructionDecisionTime hostapi.Tick
	LastDismantleTime        hostapi.Tick
}

// WareObserver is the per-ware running state (spec.md §3, "Ware Observer").
// Producers/Consumers are derived from every registered BuildingObserver's
// descriptor Outputs/Inputs, not tracked independently.
type WareObserver struct {
	ID           hostapi.WareID
	Preciousness int
	Producers    []hostapi.BuildingTypeID
	Consumers    []hostapi.BuildingTypeID
}

// EconomyObserver is the per-economy running state (spec.md §3, "Economy
// Observer").
type EconomyObserver struct {
	Handle                Handle
	Economy               hostapi.EconomyID
	Flags                 []hostapi.FlagID
	FailedConnectionTries int
}

// SiteObserver is the per-production/mine-site running state (spec.md §3,
// "Site Observer").
type SiteObserver struct {
	Site             hostapi.SiteID
	Coord            hexmap.Coord
	BuildingID       hostapi.BuildingTypeID
	BuiltTime        hostapi.Tick
	UnoccupiedTill   hostapi.Tick
	StatsZero        bool
	NoResourcesCount int
	// Stopped mirrors the last StartStopBuilding toggle the Site Supervisor
	// issued for a supporting site (spec.md §4.5, "start/stop by stocklevel
	// bands"), since the command queue gives no readback.
	Stopped bool
}

// MilitarySiteObserver is the per-military-site running state (spec.md §3,
// "Military Site Observer").
type MilitarySiteObserver struct {
	Site          hostapi.SiteID
	Coord         hexmap.Coord
	BuildingID    hostapi.BuildingTypeID
	Checks        int
	EnemiesNearby bool
}

// BlockedField is a temporary reservation preventing reconsideration of a
// tile (spec.md §3, §8 invariant 3: removed before any scan uses it once
// expired).
type BlockedField struct {
	Coord        hexmap.Coord
	BlockedUntil hostapi.Tick
}

// Table is the central registry for every observer kind plus the blocked
// field list. One Table per AI player.
type Table struct {
	buildings map[hostapi.BuildingTypeID]*BuildingObserver
	wares     map[hostapi.WareID]*WareObserver
	economies map[hostapi.EconomyID]*EconomyObserver
	sites     map[hostapi.SiteID]*SiteObserver
	military  map[hostapi.SiteID]*MilitarySiteObserver
	blocked   []BlockedField
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		buildings: make(map[hostapi.BuildingTypeID]*BuildingObserver),
		wares:     make(map[hostapi.WareID]*WareObserver),
		economies: make(map[hostapi.EconomyID]*EconomyObserver),
		sites:     make(map[hostapi.SiteID]*SiteObserver),
		military:  make(map[hostapi.SiteID]*MilitarySiteObserver),
	}
}

// RegisterBuilding installs a BuildingObserver for a descriptor, wiring its
// inputs/outputs into the relevant WareObservers' producer/consumer lists.
// Descriptors are late-initialization static data (spec.md §6): call this
// once per known building type before think(tick) runs.
func (t *Table) RegisterBuilding(desc hostapi.BuildingDescriptor) *BuildingObserver {
	bo := &BuildingObserver{
		ID:         desc.ID,
		Name:       desc.Name,
		Descriptor: desc,
		Kind:       desc.Kind,
	}
	t.buildings[desc.ID] = bo
	for _, w := range desc.Outputs {
		t.wareObserver(w).Producers = append(t.wareObserver(w).Producers, desc.ID)
	}
	for _, w := range desc.Inputs {
		t.wareObserver(w).Consumers = append(t.wareObserver(w).Consumers, desc.ID)
	}
	return bo
}

// RegisterWare installs a WareObserver, preserving any producer/consumer
// links a prior RegisterBuilding call already recorded.
func (t *Table) RegisterWare(desc hostapi.WareDescriptor) *WareObserver {
	wo := t.wareObserver(desc.ID)
	wo.Preciousness = desc.Preciousness
	return wo
}

func (t *Table) wareObserver(id hostapi.WareID) *WareObserver {
	wo, ok := t.wares[id]
	if !ok {
		wo = &WareObserver{ID: id}
		t.wares[id] = wo
	}
	return wo
}

// Building looks up a building observer by type id.
func (t *Table) Building(id hostapi.BuildingTypeID) (*BuildingObserver, bool) {
	bo, ok := t.buildings[id]
	return bo, ok
}

// Buildings returns every registered building observer, sorted by type id
// so scans over it are deterministic given the same table contents
// (spec.md §1/§8: think(t) must produce identical commands across runs).
func (t *Table) Buildings() []*BuildingObserver {
	out := make([]*BuildingObserver, 0, len(t.buildings))
	for _, bo := range t.buildings {
		out = append(out, bo)
	}
	slices.SortFunc(out, func(a, b *BuildingObserver) int { return cmpOrdered(a.ID, b.ID) })
	return out
}

// Ware looks up a ware observer by id.
func (t *Table) Ware(id hostapi.WareID) (*WareObserver, bool) {
	wo, ok := t.wares[id]
	return wo, ok
}

// Site looks up a production/mine site observer.
func (t *Table) Site(id hostapi.SiteID) (*SiteObserver, bool) {
	so, ok := t.sites[id]
	return so, ok
}

// Sites returns every live production/mine site observer, sorted by site
// id so rotation order is deterministic given the same table contents
// (spec.md §1/§8).
func (t *Table) Sites() []*SiteObserver {
	out := make([]*SiteObserver, 0, len(t.sites))
	for _, so := range t.sites {
		out = append(out, so)
	}
	slices.SortFunc(out, func(a, b *SiteObserver) int { return cmpOrdered(a.Site, b.Site) })
	return out
}

// MilitarySite looks up a military site observer.
func (t *Table) MilitarySite(id hostapi.SiteID) (*MilitarySiteObserver, bool) {
	mo, ok := t.military[id]
	return mo, ok
}

// MilitarySites returns every live military site observer, sorted by site
// id so rotation order is deterministic given the same table contents
// (spec.md §1/§8).
func (t *Table) MilitarySites() []*MilitarySiteObserver {
	out := make([]*MilitarySiteObserver, 0, len(t.military))
	for _, mo := range t.military {
		out = append(out, mo)
	}
	slices.SortFunc(out, func(a, b *MilitarySiteObserver) int { return cmpOrdered(a.Site, b.Site) })
	return out
}

// economyObserver returns the EconomyObserver for id, creating one (with a
// fresh stable handle) on first reference.
func (t *Table) economyObserver(id hostapi.EconomyID) *EconomyObserver {
	eo, ok := t.economies[id]
	if !ok {
		eo = &EconomyObserver{Handle: uuid.New(), Economy: id}
		t.economies[id] = eo
	}
	return eo
}

// Economy looks up an economy observer.
func (t *Table) Economy(id hostapi.EconomyID) (*EconomyObserver, bool) {
	eo, ok := t.economies[id]
	return eo, ok
}

// Economies returns every known economy observer, sorted by economy id so
// rotation order is deterministic given the same table contents (spec.md
// §1/§8).
func (t *Table) Economies() []*EconomyObserver {
	out := make([]*EconomyObserver, 0, len(t.economies))
	for _, eo := range t.economies {
		out = append(out, eo)
	}
	slices.SortFunc(out, func(a, b *EconomyObserver) int { return cmpOrdered(a.Economy, b.Economy) })
	return out
}
