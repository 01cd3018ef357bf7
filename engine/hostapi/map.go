package hostapi

import "github.com/ironhearth/tribeai/engine/hexmap"

// ImmovableKind classifies what FindImmovables returns an immovable as.
type ImmovableKind uint8

const (
	ImmNone ImmovableKind = iota
	ImmTree
	ImmStone
	ImmFlag
	ImmRoad
	ImmConstructionSite
	ImmProductionSite
	ImmMine
	ImmMilitarySite
	ImmWarehouse
	ImmTrainingSite
)

// Immovable is a read-only view of a map object, enough for the Field Index
// to classify it (spec.md §4.2).
type Immovable struct {
	ID              ImmovableID
	Kind            ImmovableKind
	Coord           hexmap.Coord
	Owner           PlayerID
	HasSite         bool   // true if Kind is a building kind with a live SiteID
	Site            SiteID // valid when HasSite
	TypeID          BuildingTypeID
	SoldiersPresent int // live garrison, meaningful only for ImmMilitarySite
}

// TerrainKind is a coarse terrain classification used by the buildable
// field feature scan (water_nearby, distant_water).
type TerrainKind uint8

const (
	TerrainNone TerrainKind = iota
	TerrainWater
)

// Bob is a map creature (spec.md §6 "find_bobs"); the AI only cares about
// critters for the critters_nearby feature.
type Bob struct {
	ID       ImmovableID
	IsCritter bool
}

// FieldFilter narrows FindFields/FindReachableFields results.
type FieldFilter func(owner PlayerID, cap hexmap.BuildCap, resourceAmount int) bool

// StepChecker decides whether a path/BFS may cross a given coordinate,
// e.g. "flaggable tiles only" for road search.
type StepChecker func(c hexmap.Coord) bool

// Map is the narrow read interface onto the host's tile map and its
// immovables (spec.md §6, "Map & geometry").
type Map interface {
	// InBounds reports whether c lies on the map.
	InBounds(c hexmap.Coord) bool
	// Owner returns the owning player of a tile, or 0 if unowned.
	Owner(c hexmap.Coord) PlayerID
	// BuildCaps returns the build-capability bitmask of a tile.
	BuildCaps(c hexmap.Coord) hexmap.BuildCap
	// ResourceAmount returns the remaining resource amount under a tile
	// (ground water level for buildable fields, ore/mineral amount for
	// mineable fields).
	ResourceAmount(c hexmap.Coord) int
	// ResourceAt returns the resource id under a mineable tile, if any.
	ResourceAt(c hexmap.Coord) (ResourceID, bool)
	// Terrain classifies a tile for the water_nearby/distant_water scan.
	Terrain(c hexmap.Coord) TerrainKind
	// FishAmount returns the schooling-fish count at a tile.
	FishAmount(c hexmap.Coord) int

	// FindFields returns coordinates within radius of center matching filter.
	FindFields(center hexmap.Coord, radius int, filter FieldFilter) []hexmap.Coord
	// FindImmovables returns immovables within radius of center.
	FindImmovables(center hexmap.Coord, radius int) []Immovable
	// FindBobs returns bobs (creatures) within radius of center.
	FindBobs(center hexmap.Coord, radius int) []Bob
	// FindReachableFields walks outward from center up to radius steps,
	// following only coordinates step allows, returning those matching
	// filter.
	FindReachableFields(center hexmap.Coord, radius int, step StepChecker, filter FieldFilter) []hexmap.Coord
	// FindPath returns a path from a tile to b following only coordinates
	// step allows, or nil if none exists.
	FindPath(a, b hexmap.Coord, step StepChecker) []hexmap.Coord
}
