package construction

import (
	"golang.org/x/exp/slices"

	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// Final-decision bookkeeping constants, spec.md §4.3's closing paragraph.
const (
	blockedFieldLife         = 120 * hostapi.Second
	spaceConsumerBlockRadius = 3
	spaceConsumerBlockLife   = 45 * hostapi.Minute
	militaryBlockRadius      = 6
	militaryBlockLife        = 25 * hostapi.Second
	militaryDecisionRewind   = 12500 * hostapi.Millisecond
)

type candidate struct {
	field    *fields.BuildableField
	bo       *observers.BuildingObserver
	priority int
}

// mapBounds adapts hostapi.Map to hexmap.Bounds for the blocked-field ring
// walk, the same adapter engine/fields/sweep.go uses for feature scans.
type mapBounds struct{ m hostapi.Map }

func (b mapBounds) Contains(c hexmap.Coord) bool { return b.m.InBounds(c) }

// Planner runs the Construction Planner cadence (spec.md §4.3): once per
// construction tick, scan every (buildable field, candidate building) pair
// and emit the single highest-priority command.
type Planner struct {
	Host  hostapi.Host
	Index *fields.Index
	Table *observers.Table
}

// New creates a Planner over the given host collaborators and state.
func New(host hostapi.Host, ix *fields.Index, tbl *observers.Table) *Planner {
	return &Planner{Host: host, Index: ix, Table: tbl}
}

// Attempt scores every gated candidate and issues a Build command for the
// winner, returning true if a command was emitted (spec.md §4.1's
// short-circuit-on-first-command scheduling).
func (p *Planner) Attempt(now hostapi.Tick) bool {
	regime := computeRegime(p.Host, p.Index, p.Table, now)

	buildings := p.Table.Buildings()
	buildable := p.Index.Buildable()

	var candidates []candidate
	for i := range buildable {
		f := &buildable[i]
		for _, bo := range buildings {
			switch bo.Kind {
			case hostapi.KindConstructionSite, hostapi.KindBoring:
				continue
			}
			if !allowed(p.Host, p.Table, bo, f, now) {
				continue
			}
			priority := scoreCandidate(p.Host, p.Table, regime, bo, f, now)
			if priority <= 0 {
				continue
			}
			candidates = append(candidates, candidate{field: f, bo: bo, priority: priority})
		}
	}
	if len(candidates) == 0 {
		return false
	}

	slices.SortFunc(candidates, func(a, b candidate) int { return b.priority - a.priority })
	best := candidates[0]
	p.commit(best, now)
	return true
}

func (p *Planner) commit(best candidate, now hostapi.Tick) {
	p.Host.Commands.Build(p.Host.Player.ID(), best.field.Coord, best.bo.ID)
	p.Table.Block(best.field.Coord, now+blockedFieldLife)

	isMilitary := best.bo.Kind == hostapi.KindMilitarySite
	isTreePlanter := best.bo.Descriptor.Hints.PlantsTrees

	switch {
	case isMilitary:
		for _, c := range hexmap.Region(best.field.Coord, militaryBlockRadius, mapBounds{p.Host.Map}) {
			p.Table.Block(c, now+militaryBlockLife)
		}
		best.bo.ConstructionDecisionTime = now - militaryDecisionRewind
	case best.bo.Descriptor.Hints.SpaceConsumer && !isTreePlanter:
		for _, c := range hexmap.Region(best.field.Coord, spaceConsumerBlockRadius, mapBounds{p.Host.Map}) {
			p.Table.Block(c, now+spaceConsumerBlockLife)
		}
		best.bo.ConstructionDecisionTime = now
	default:
		best.bo.ConstructionDecisionTime = now
	}
}
