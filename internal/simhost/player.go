package simhost

import "github.com/ironhearth/tribeai/engine/hostapi"

// PlayerView is a per-player hostapi.Player implementation, grounded on
// engine/core/player.go's Player record but narrowed to the read-only
// queries the AI engine actually issues.
type PlayerView struct {
	Self     hostapi.PlayerID
	Hostiles map[hostapi.PlayerID]bool
	Allowed  map[hostapi.BuildingTypeID]bool
	Workers  map[hostapi.BuildingTypeID]bool
	// Attackers, keyed by flag, is how many soldiers FindAttackSoldiers
	// reports available against that flag.
	Attackers map[hostapi.FlagID]int
}

// NewPlayerView creates a PlayerView with empty lookup tables.
func NewPlayerView(self hostapi.PlayerID) *PlayerView {
	return &PlayerView{
		Self:      self,
		Hostiles:  make(map[hostapi.PlayerID]bool),
		Allowed:   make(map[hostapi.BuildingTypeID]bool),
		Workers:   make(map[hostapi.BuildingTypeID]bool),
		Attackers: make(map[hostapi.FlagID]int),
	}
}

// ID implements hostapi.Player.
func (p *PlayerView) ID() hostapi.PlayerID { return p.Self }

// IsHostile implements hostapi.Player.
func (p *PlayerView) IsHostile(other hostapi.PlayerID) bool { return p.Hostiles[other] }

// BuildingTypeAllowed implements hostapi.Player. Unlisted building types
// default to allowed, matching a tribe with no explicit restrictions.
func (p *PlayerView) BuildingTypeAllowed(bid hostapi.BuildingTypeID) bool {
	if v, ok := p.Allowed[bid]; ok {
		return v
	}
	return true
}

// WorkersAvailable implements hostapi.Player. Unlisted building types
// default to staffed, matching an idle worker pool with no shortage.
func (p *PlayerView) WorkersAvailable(bid hostapi.BuildingTypeID) bool {
	if v, ok := p.Workers[bid]; ok {
		return v
	}
	return true
}

// FindAttackSoldiers implements hostapi.Player.
func (p *PlayerView) FindAttackSoldiers(flag hostapi.FlagID) int {
	return p.Attackers[flag]
}
