// Package mines implements the Mine Planner (spec.md §4.4): pick the
// highest-priority (mineable field, mine building) pair and emit a build
// command, same gating/commit shape as engine/construction but scoped to
// mineable tiles and resource-id matching.
//
// Grounded on engine/ai/ai.go's aiBuildBuilding cooldown/priority pattern,
// generalized the way engine/construction does for buildable fields.
package mines

import (
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// Busy/idle rescheduling cadence, spec.md §4.4's closing sentence.
const (
	BusyInterval = 2 * hostapi.Second
	IdleInterval = 22 * hostapi.Second
)

// mineCooldown mirrors the Construction Planner's per-type 25 s cooldown
// (spec.md §4.3, reused here since §4.4 names no separate constant).
const mineCooldown = 25 * hostapi.Second

// noExistingMinePenalty / existingMinePenalty select the mines_nearby
// penalty multiplier (spec.md §4.4: "0 if no mine of this kind exists yet,
// 10 otherwise").
const (
	noExistingMinePenalty = 0
	existingMinePenalty   = 10
)

type candidate struct {
	field    *fields.MineableField
	bo       *observers.BuildingObserver
	priority int
}

// Planner runs the Mine Planner cadence.
type Planner struct {
	Host  hostapi.Host
	Index *fields.Index
	Table *observers.Table
}

// New creates a Planner over the given host collaborators and state.
func New(host hostapi.Host, ix *fields.Index, tbl *observers.Table) *Planner {
	return &Planner{Host: host, Index: ix, Table: tbl}
}

// Attempt scans every (mineable field, mine building) pair and, if a
// candidate scores >= 2, emits a Build command. It returns the cadence the
// caller should reschedule at next (busy if a mine was built, idle
// otherwise) alongside whether a command was emitted.
func (p *Planner) Attempt(now hostapi.Tick) (acted bool, next hostapi.Tick) {
	mineable := p.Index.Mineable()

	var best *candidate
	for _, bo := range p.Table.Buildings() {
		if bo.Kind != hostapi.KindMine {
			continue
		}
		if !p.Host.Player.BuildingTypeAllowed(bo.ID) {
			continue
		}
		if now-bo.ConstructionDecisionTime < mineCooldown {
			continue
		}
		resource := bo.Descriptor.Hints.MinesResource
		penalty := noExistingMinePenalty
		if bo.CntBuilt > 0 {
			penalty = existingMinePenalty
		}

		for i := range mineable {
			f := &mineable[i]
			if p.Table.IsBlocked(f.Coord, now) {
				continue
			}
			rid, ok := p.Host.Map.ResourceAt(f.Coord)
			if !ok || rid != resource {
				continue
			}
			priority := p.Host.Map.ResourceAmount(f.Coord) - f.MinesNearby*penalty
			if priority < 2 {
				continue
			}
			if best == nil || priority > best.priority {
				best = &candidate{field: f, bo: bo, priority: priority}
			}
		}
	}

	if best == nil {
		return false, now + IdleInterval
	}

	p.Host.Commands.Build(p.Host.Player.ID(), best.field.Coord, best.bo.ID)
	p.Table.Block(best.field.Coord, now+120*hostapi.Second)
	best.bo.ConstructionDecisionTime = now
	return true, now + BusyInterval
}
