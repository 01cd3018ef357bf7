package hostapi

// Player is the narrow view onto the host's player-facing queries (spec.md
// §6, "Player").
type Player interface {
	// ID returns this player's own id.
	ID() PlayerID
	// IsHostile reports whether other is an enemy of this player.
	IsHostile(other PlayerID) bool
	// BuildingTypeAllowed reports whether the player's tribe may build bid.
	BuildingTypeAllowed(bid BuildingTypeID) bool
	// WorkersAvailable reports whether the player has the worker types bid
	// needs sitting idle and ready to staff a new or upgraded site (spec.md
	// §4.5, "workers available" gate on upgrades and mine dismantling).
	WorkersAvailable(bid BuildingTypeID) bool
	// FindAttackSoldiers returns the number of soldiers this player can
	// send to attack the given flag right now.
	FindAttackSoldiers(flag FlagID) int
}
