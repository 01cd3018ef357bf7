package hostapi

import "github.com/ironhearth/tribeai/engine/hexmap"

// Flag is a read-only view of one flag (spec.md §6, "Flags expose
// base_flag position, current_wares count, neighbors via roads, economy
// pointer").
type Flag interface {
	ID() FlagID
	Position() hexmap.Coord
	CurrentWares() int
	Neighbors() []FlagID // flags reachable via one road
	Economy() EconomyID
}

// Economy is a read-only view of one connected component of flags
// (spec.md §6, "Economy: warehouse list, stock_ware(ware), needs_ware(ware)").
type Economy interface {
	ID() EconomyID
	Warehouses() []SiteID
	StockWare(w WareID) int
	NeedsWare(w WareID) bool
	Flags() []FlagID
}

// Economies is the lookup table from EconomyID to Economy, backing the
// per-economy bookkeeping of the Economy Observer (spec.md §3).
type Economies interface {
	Economy(id EconomyID) (Economy, bool)
	Flag(id FlagID) (Flag, bool)
}
