// Package attack implements the Attack Planner (spec.md §4.7): an
// opponent-strength gate followed by a sampled scan of own military sites
// for an attackable enemy target.
//
// Grounded on engine/ai/ai.go's launchAttack (enemy-position scan filtered
// by allegiance, then committing every available unit to one target) and
// ThreatAssessment (distance-falloff weapon-damage summation over nearby
// non-allied entities), generalized from per-unit threat summation to
// per-site found_attackers/present_defenders scoring.
package attack

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// Personality selects the strength-ratio threshold an opponent must fall
// below to be considered attackable (spec.md §4.7).
type Personality int

const (
	Normal Personality = iota
	Aggressive
	Defensive
)

func (p Personality) threshold() int {
	switch p {
	case Aggressive:
		return 80
	case Defensive:
		return 120
	default:
		return 100
	}
}

const (
	// noTargetCooldown is the "~2 min" wait spec.md §4.7 calls for when no
	// opponent clears the strength-ratio gate — the same span as the
	// scheduler's own AttackMaxInterval, applied as a deterministic floor
	// rather than a re-jittered draw.
	noTargetCooldown = 2 * hostapi.Minute

	minScoreToAttack           = 2
	warehousePriorityMultiplier = 2
	flagSearchRadius           = 1
)

// Planner runs the Attack Planner cadence over one AI player's known
// military sites.
type Planner struct {
	Host        hostapi.Host
	Table       *observers.Table
	Personality Personality

	blockedUntil hostapi.Tick
}

// New creates a Planner over the given host collaborators and state.
func New(host hostapi.Host, tbl *observers.Table, personality Personality) *Planner {
	return &Planner{Host: host, Table: tbl, Personality: personality}
}

// Attempt runs one Attack Planner pass (spec.md §4.7): gate opponents by
// strength ratio, then sample own military sites for the best attackable
// target and emit at most one enemy_flag_action.
func (p *Planner) Attempt(now hostapi.Tick) bool {
	if now < p.blockedUntil {
		return false
	}

	sites := p.ownSites()
	attackable := p.attackableOpponents(sites)
	if len(attackable) == 0 {
		p.blockedUntil = now + noTargetCooldown
		return false
	}

	sample := p.sampleSites(now, sites)

	var (
		bestFlag      hostapi.FlagID
		bestAttackers int
		bestScore     int
		found         bool
	)
	for _, so := range sample {
		flag, attackers, score, ok := p.bestTargetAt(so, attackable)
		if !ok {
			continue
		}
		if !found || score > bestScore {
			bestFlag, bestAttackers, bestScore, found = flag, attackers, score, true
		}
	}
	if !found {
		return false
	}
	p.Host.Commands.EnemyFlagAction(bestFlag, p.Host.Player.ID(), bestAttackers)
	return true
}

// ownSites returns every known military site observer. Table.MilitarySites
// already sorts by site id, so sampling is deterministic given the same
// table contents.
func (p *Planner) ownSites() []*observers.MilitarySiteObserver {
	return p.Table.MilitarySites()
}

// attackableOpponents scans every own military site's vision range for
// enemy owners, then gates each by the ratio
// own_military_strength*100/opponent_military_strength against the
// personality threshold (spec.md §4.7). A zero opponent-strength sample
// defaults to attackable; a missing sample defaults to not attackable.
func (p *Planner) attackableOpponents(sites []*observers.MilitarySiteObserver) map[hostapi.PlayerID]bool {
	opponents := make(map[hostapi.PlayerID]bool)
	for _, so := range sites {
		desc, ok := p.Host.Descriptors.Building(so.BuildingID)
		if !ok {
			continue
		}
		for _, imm := range p.Host.Map.FindImmovables(so.Coord, desc.VisionRange) {
			if imm.Owner == 0 || imm.Owner == p.Host.Player.ID() {
				continue
			}
			if !p.Host.Player.IsHostile(imm.Owner) {
				continue
			}
			opponents[imm.Owner] = true
		}
	}

	own, _ := p.Host.Stats.MilitaryStrength(p.Host.Player.ID())

	attackable := make(map[hostapi.PlayerID]bool)
	for opp := range opponents {
		oppStrength, ok := p.Host.Stats.MilitaryStrength(opp)
		if !ok {
			continue
		}
		if oppStrength == 0 {
			attackable[opp] = true
			continue
		}
		ratio := own * 100 / oppStrength
		if ratio >= p.Personality.threshold() {
			attackable[opp] = true
		}
	}
	return attackable
}

// sampleSites picks militarysites/6+1 of sites, deterministically from
// game time (spec.md §4.7), via a Fisher-Yates shuffle seeded by an
// xxhash of now and the shuffle position — never wall-clock or any other
// external entropy, so the same tick sequence samples identically.
func (p *Planner) sampleSites(now hostapi.Tick, sites []*observers.MilitarySiteObserver) []*observers.MilitarySiteObserver {
	n := len(sites)/6 + 1
	if n > len(sites) {
		n = len(sites)
	}
	idx := make([]int, len(sites))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := int(seededDraw(now, i) % uint64(i+1))
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]*observers.MilitarySiteObserver, n)
	for i := 0; i < n; i++ {
		out[i] = sites[idx[i]]
	}
	return out
}

func seededDraw(now hostapi.Tick, salt int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(now))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(salt)))
	return xxhash.Sum64(buf[:])
}

// bestTargetAt scans attackable immovables within so's vision range and
// returns the highest-scoring target's flag (spec.md §4.7).
func (p *Planner) bestTargetAt(so *observers.MilitarySiteObserver, attackable map[hostapi.PlayerID]bool) (hostapi.FlagID, int, int, bool) {
	desc, ok := p.Host.Descriptors.Building(so.BuildingID)
	if !ok {
		return 0, 0, 0, false
	}

	var (
		bestFlag      hostapi.FlagID
		bestAttackers int
		bestScore     int
		found         bool
	)
	for _, imm := range p.Host.Map.FindImmovables(so.Coord, desc.VisionRange) {
		if !attackable[imm.Owner] {
			continue
		}
		if imm.Kind != hostapi.ImmMilitarySite && imm.Kind != hostapi.ImmWarehouse {
			continue
		}
		flag, ok := p.flagNear(imm.Coord)
		if !ok {
			continue
		}
		attackers := p.Host.Player.FindAttackSoldiers(flag)
		if attackers == 0 {
			continue
		}

		score := attackers
		if imm.Kind == hostapi.ImmWarehouse {
			// Warehouses are assumed empty: no defender count, no
			// nearby-defender penalty, just a priority push.
			score *= warehousePriorityMultiplier
		} else {
			defenders := imm.SoldiersPresent
			penalty := defenders * p.defendReadyNearby(imm, desc)
			score = attackers - defenders - penalty
		}

		if score < minScoreToAttack {
			continue
		}
		if !found || score > bestScore {
			bestFlag, bestAttackers, bestScore, found = flag, attackers, score, true
		}
	}
	return bestFlag, bestAttackers, bestScore, found
}

// defendReadyNearby counts other garrisoned military sites the same owner
// holds within the target's own vision range — reinforcements that could
// answer the attack (spec.md §4.7, "nearby-defender penalty proportional
// to defenders × defend-ready-nearby enemies").
func (p *Planner) defendReadyNearby(target hostapi.Immovable, fallback hostapi.BuildingDescriptor) int {
	radius := fallback.VisionRange
	if targetDesc, ok := p.Host.Descriptors.Building(target.TypeID); ok {
		radius = targetDesc.VisionRange
	}

	count := 0
	for _, imm := range p.Host.Map.FindImmovables(target.Coord, radius) {
		if imm.ID == target.ID {
			continue
		}
		if imm.Owner != target.Owner || imm.Kind != hostapi.ImmMilitarySite {
			continue
		}
		if imm.SoldiersPresent > 0 {
			count++
		}
	}
	return count
}

// flagNear finds the flag immovable adjacent to a building tile — hostapi
// carries no direct building-to-flag lookup, so the flag is found the same
// way engine/roads locates a road immovable: a small-radius map query.
func (p *Planner) flagNear(coord hexmap.Coord) (hostapi.FlagID, bool) {
	for _, imm := range p.Host.Map.FindImmovables(coord, flagSearchRadius) {
		if imm.Kind == hostapi.ImmFlag {
			return hostapi.FlagID(imm.ID), true
		}
	}
	return 0, false
}
