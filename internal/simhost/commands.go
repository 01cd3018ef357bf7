package simhost

import (
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// CmdKind identifies which CommandQueue method produced a Command record,
// grounded on engine/network/commands.go's CmdType-tagged GameCommand —
// generalized from a binary-encodable wire record to an in-memory,
// inspectable one since simhost never crosses a network boundary.
type CmdKind uint8

const (
	CmdBuild CmdKind = iota
	CmdBuildFlag
	CmdBuildRoad
	CmdDismantle
	CmdBulldoze
	CmdEnhanceBuilding
	CmdStartStopBuilding
	CmdChangeSoldierCapacity
	CmdSetSoldierPreference
	CmdEnemyFlagAction
)

// Command is one recorded CommandQueue call.
type Command struct {
	Kind     CmdKind
	Player   hostapi.PlayerID
	At       hexmap.Coord
	Path     []hexmap.Coord
	Building hostapi.BuildingTypeID
	Site     hostapi.SiteID
	Imm      hostapi.ImmovableID
	Delta    int
	Pref     hostapi.SoldierPreference
	Flag     hostapi.FlagID
	Attacker hostapi.PlayerID
	Strength int
}

// CommandLog records every CommandQueue call in issue order, standing in
// for a live command queue the way engine/network/commands.go's GameCommand
// stands in for an applied game action.
type CommandLog struct {
	Commands []Command
}

// Build implements hostapi.CommandQueue.
func (l *CommandLog) Build(player hostapi.PlayerID, at hexmap.Coord, bid hostapi.BuildingTypeID) {
	l.Commands = append(l.Commands, Command{Kind: CmdBuild, Player: player, At: at, Building: bid})
}

// BuildFlag implements hostapi.CommandQueue.
func (l *CommandLog) BuildFlag(player hostapi.PlayerID, at hexmap.Coord) {
	l.Commands = append(l.Commands, Command{Kind: CmdBuildFlag, Player: player, At: at})
}

// BuildRoad implements hostapi.CommandQueue.
func (l *CommandLog) BuildRoad(player hostapi.PlayerID, path []hexmap.Coord) {
	l.Commands = append(l.Commands, Command{Kind: CmdBuildRoad, Player: player, Path: path})
}

// Dismantle implements hostapi.CommandQueue.
func (l *CommandLog) Dismantle(site hostapi.SiteID) {
	l.Commands = append(l.Commands, Command{Kind: CmdDismantle, Site: site})
}

// Bulldoze implements hostapi.CommandQueue.
func (l *CommandLog) Bulldoze(imm hostapi.ImmovableID) {
	l.Commands = append(l.Commands, Command{Kind: CmdBulldoze, Imm: imm})
}

// EnhanceBuilding implements hostapi.CommandQueue.
func (l *CommandLog) EnhanceBuilding(site hostapi.SiteID, bid hostapi.BuildingTypeID) {
	l.Commands = append(l.Commands, Command{Kind: CmdEnhanceBuilding, Site: site, Building: bid})
}

// StartStopBuilding implements hostapi.CommandQueue.
func (l *CommandLog) StartStopBuilding(site hostapi.SiteID) {
	l.Commands = append(l.Commands, Command{Kind: CmdStartStopBuilding, Site: site})
}

// ChangeSoldierCapacity implements hostapi.CommandQueue.
func (l *CommandLog) ChangeSoldierCapacity(site hostapi.SiteID, delta int) {
	l.Commands = append(l.Commands, Command{Kind: CmdChangeSoldierCapacity, Site: site, Delta: delta})
}

// SetSoldierPreference implements hostapi.CommandQueue.
func (l *CommandLog) SetSoldierPreference(site hostapi.SiteID, pref hostapi.SoldierPreference) {
	l.Commands = append(l.Commands, Command{Kind: CmdSetSoldierPreference, Site: site, Pref: pref})
}

// EnemyFlagAction implements hostapi.CommandQueue.
func (l *CommandLog) EnemyFlagAction(target hostapi.FlagID, attackingPlayer hostapi.PlayerID, attackers int) {
	l.Commands = append(l.Commands, Command{Kind: CmdEnemyFlagAction, Flag: target, Attacker: attackingPlayer, Strength: attackers})
}

// Last returns the most recently recorded command, if any.
func (l *CommandLog) Last() (Command, bool) {
	if len(l.Commands) == 0 {
		return Command{}, false
	}
	return l.Commands[len(l.Commands)-1], true
}
