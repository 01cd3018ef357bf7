package hostapi

import "github.com/ironhearth/tribeai/engine/hexmap"

// CommandQueue is the fire-and-forget host command sink (spec.md §6,
// "Command queue"). Every method returns nothing: there is no feedback
// channel (spec.md §7), so the engine never blocks on or inspects the
// result of a command it issues.
type CommandQueue interface {
	Build(player PlayerID, at hexmap.Coord, bid BuildingTypeID)
	BuildFlag(player PlayerID, at hexmap.Coord)
	BuildRoad(player PlayerID, path []hexmap.Coord)
	Dismantle(site SiteID)
	Bulldoze(imm ImmovableID)
	EnhanceBuilding(site SiteID, bid BuildingTypeID)
	StartStopBuilding(site SiteID)
	ChangeSoldierCapacity(site SiteID, delta int)
	SetSoldierPreference(site SiteID, pref SoldierPreference)
	EnemyFlagAction(target FlagID, attackingPlayer PlayerID, attackers int)
}
