package hostapi

// PlayerID identifies a player (including the AI itself).
type PlayerID int

// BuildingTypeID identifies a building descriptor in the tribe's static
// tables (spec.md §6, "Descriptors").
type BuildingTypeID string

// WareID identifies a ware type.
type WareID string

// ResourceID identifies an underlying mine resource (spec.md §6, "Resource
// id lookup by name").
type ResourceID string

// ImmovableID identifies any long-lived map object: building, flag, road,
// tree, stone, resource marker (see GLOSSARY).
type ImmovableID uint64

// FlagID identifies a flag, the transport graph node.
type FlagID uint64

// EconomyID identifies a connected component of flags through roads.
type EconomyID uint64

// SiteID identifies a production site, mine, or military site instance —
// the same value as the ImmovableID of the building occupying the tile.
type SiteID = ImmovableID

// SoldierPreference is the preference set on a military site (spec.md §6).
type SoldierPreference uint8

const (
	PreferRookies SoldierPreference = iota
	PreferHeroes
)

// BuildingKind tags what a Building Observer's descriptor represents
// (spec.md §9, "runtime-typed dispatch on descriptor kind becomes a tagged
// enum on Building Observer").
type BuildingKind uint8

const (
	KindBoring BuildingKind = iota
	KindProductionSite
	KindMine
	KindMilitarySite
	KindWarehouse
	KindTrainingSite
	KindConstructionSite
)
