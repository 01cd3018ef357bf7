// Package fields maintains the three field indices spec.md §3/§4.2
// describes: Buildable, Mineable, and Unusable. Each owned tile lives in
// exactly one of the three (spec.md §8, invariant 1); a periodic sweep
// reclassifies tiles as build-capability or ownership changes and refreshes
// the feature vector a buildable field carries.
//
// The bookkeeping shape (rotating queues, "stale after N seconds past due")
// is grounded on engine/systems/fow.go's per-tile reveal/decay pass in the
// teacher repo, generalized from a visible/explored/shroud fog grid to a
// buildable/mineable/unusable ownership classification.
package fields

import (
	"github.com/google/uuid"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// Handle is the stable identity of one field entry (spec.md §9: circular
// references become IDs and lookup tables indexed by stable handles).
type Handle = uuid.UUID

// BuildableField is one owned tile with build-cap >= Small (spec.md §3).
type BuildableField struct {
	Handle Handle
	Coord  hexmap.Coord

	TreesNearby    int
	StonesNearby   int
	WaterNearby    int
	DistantWater   int
	FishNearby     int // -1 = never computed (Open Question, spec.md §9)
	CrittersNearby int

	UnownedLandNearby         int
	UnownedMinesPotentialNearby int
	NearBorder                bool // unowned land within 4

	GroundWater int // monotonically non-increasing

	ProducersNearby map[hostapi.WareID]int
	ConsumersNearby map[hostapi.WareID]int
	SpaceConsumersNearby int

	MilitaryCapacity             int
	MilitaryPresence             int
	MilitaryStationed            int
	MilitaryInConstructionNearby int
	MilitaryLoneliness           int // in [0,1000]

	EnemyNearby     bool
	EnemyLastSeen   hostapi.Tick
	Preferred       bool

	// updateCount drives the slow-feature (fish/critters) rescan cadence:
	// every 10th call to UpdateBuildableField recomputes them.
	updateCount int

	NextUpdateDue hostapi.Tick
}

// MineableField is an owned tile with build-cap Mine (spec.md §3).
type MineableField struct {
	Handle        Handle
	Coord         hexmap.Coord
	MinesNearby   int
	PreferredFlag bool
	NextUpdateDue hostapi.Tick
}

// UnusableField is an owned tile not yet classifiable as buildable or
// mineable (spec.md §3).
type UnusableField struct {
	Handle        Handle
	Coord         hexmap.Coord
	NextUpdateDue hostapi.Tick
}

// sweep batch sizes, spec.md §4.2.
const (
	buildableSweepBatch = 25
	mineableSweepBatch  = 40
	unusableSweepBatch  = 50
)

// staleAfter is the construction-scoring staleness threshold, spec.md §4.3/§7.
const staleAfter = 8 * hostapi.Second

// Index holds the three field queues and a coord->handle lookup used by
// Event Hooks to find a field in O(1) (spec.md §4.8).
type Index struct {
	buildable []BuildableField
	mineable  []MineableField
	unusable  []UnusableField

	byCoord map[hexmap.Coord]location
}

type kind uint8

const (
	kindBuildable kind = iota
	kindMineable
	kindUnusable
)

type location struct {
	k   kind
	idx int
}

// NewIndex creates an empty field index.
func NewIndex() *Index {
	return &Index{byCoord: make(map[hexmap.Coord]location)}
}

// GainField records a newly owned tile as unusable (spec.md §4.8, "Field
// ownership gained: append to unusable list").
func (ix *Index) GainField(c hexmap.Coord, now hostapi.Tick) {
	if _, ok := ix.byCoord[c]; ok {
		return
	}
	f := UnusableField{Handle: uuid.New(), Coord: c, NextUpdateDue: now}
	ix.unusable = append(ix.unusable, f)
	ix.byCoord[c] = location{kindUnusable, len(ix.unusable) - 1}
}

// LoseField removes a tile from whichever index currently holds it
// (spec.md §3, "destroyed on LOST").
func (ix *Index) LoseField(c hexmap.Coord) {
	loc, ok := ix.byCoord[c]
	if !ok {
		return
	}
	delete(ix.byCoord, c)
	switch loc.k {
	case kindBuildable:
		ix.removeBuildable(loc.idx)
	case kindMineable:
		ix.removeMineable(loc.idx)
	case kindUnusable:
		ix.removeUnusable(loc.idx)
	}
}

func (ix *Index) removeBuildable(i int) {
	last := len(ix.buildable) - 1
	ix.buildable[i] = ix.buildable[last]
	ix.buildable = ix.buildable[:last]
	if i <= last-1 {
		ix.byCoord[ix.buildable[i].Coord] = location{kindBuildable, i}
	}
}

func (ix *Index) removeMineable(i int) {
	last := len(ix.mineable) - 1
	ix.mineable[i] = ix.mineable[last]
	ix.mineable = ix.mineable[:last]
	if i <= last-1 {
		ix.byCoord[ix.mineable[i].Coord] = location{kindMineable, i}
	}
}

func (ix *Index) removeUnusable(i int) {
	last := len(ix.unusable) - 1
	ix.unusable[i] = ix.unusable[last]
	ix.unusable = ix.unusable[:last]
	if i <= last-1 {
		ix.byCoord[ix.unusable[i].Coord] = location{kindUnusable, i}
	}
}

// Buildable returns the live buildable field list (read-only view).
func (ix *Index) Buildable() []BuildableField { return ix.buildable }

// Mineable returns the live mineable field list.
func (ix *Index) Mineable() []MineableField { return ix.mineable }

// Unusable returns the live unusable field list.
func (ix *Index) Unusable() []UnusableField { return ix.unusable }

// IsStale reports whether a buildable field's feature vector is too old to
// trust for construction scoring (spec.md §4.3, "Fields with
// next_update_due < now - 8 s are skipped as stale").
func IsStale(f BuildableField, now hostapi.Tick) bool {
	return f.NextUpdateDue < now-staleAfter
}

func newBuildableFeatures() (producers, consumers map[hostapi.WareID]int) {
	return make(map[hostapi.WareID]int), make(map[hostapi.WareID]int)
}
