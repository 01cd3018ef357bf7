// Package advisor assembles the Field Index, Event Hooks, observer table,
// and every planner into the single think(current_tick) entry point spec.md
// §4.1 describes, replaying engine/ai/ai.go's AIController role (one struct
// per player holding every collaborator, one exported Think call) but
// delegating the actual decisions to the engine's own packages instead of
// AIController's inline Widelands logic.
package advisor

import (
	"github.com/ironhearth/tribeai/engine/attack"
	"github.com/ironhearth/tribeai/engine/config"
	"github.com/ironhearth/tribeai/engine/construction"
	"github.com/ironhearth/tribeai/engine/events"
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/mines"
	"github.com/ironhearth/tribeai/engine/observers"
	"github.com/ironhearth/tribeai/engine/roads"
	"github.com/ironhearth/tribeai/engine/scheduler"
	"github.com/ironhearth/tribeai/engine/sites"
)

// Advisor owns one AI player's full decision state across ticks.
type Advisor struct {
	Host  hostapi.Host
	Index *fields.Index
	Hooks *events.Hooks
	Table *observers.Table

	scheduler *scheduler.Scheduler

	Construction *construction.Planner
	Mines        *mines.Planner
	Sites        *sites.Supervisor
	Roads        *roads.Planner
	Attack       *attack.Planner
}

// New wires every collaborator for host and registers the phase list at the
// cadences named in cfg, falling back to engine/scheduler's built-in
// constants for any zero value. No statistics-refresh or helper-site phase
// is registered, and the military check runs inside the "sites" phase at
// the production-check cadence.
func New(host hostapi.Host, cfg config.Config) (*Advisor, error) {
	personality, err := cfg.Personality()
	if err != nil {
		return nil, err
	}

	ix := fields.NewIndex()
	hooks := events.NewHooks(ix)
	hooks.Bind(host.Notify)

	tbl := observers.New()
	for _, bid := range host.Descriptors.AllBuildings() {
		desc, ok := host.Descriptors.Building(bid)
		if !ok {
			continue
		}
		tbl.RegisterBuilding(desc)
	}

	sweeper := &fields.Sweeper{Host: host, PlayerID: host.Player.ID(), Index: ix}

	a := &Advisor{
		Host:         host,
		Index:        ix,
		Hooks:        hooks,
		Table:        tbl,
		scheduler:    scheduler.New(),
		Construction: construction.New(host, ix, tbl),
		Mines:        mines.New(host, ix, tbl),
		Sites:        sites.New(host, tbl),
		Roads:        roads.New(host, tbl),
		Attack:       attack.New(host, tbl, personality),
	}

	c := cfg.Cadences
	sec := func(n int, fallback hostapi.Tick) hostapi.Tick {
		if n <= 0 {
			return fallback
		}
		return hostapi.Tick(n) * hostapi.Second
	}

	a.scheduler.Register("buildable_sweep", scheduler.Fixed(
		sec(c.BuildableSweepSeconds, scheduler.BuildableSweepInterval),
		sweeper.SweepBuildable,
	))
	a.scheduler.Register("unusable_sweep", scheduler.Fixed(
		sec(c.UnusableSweepSeconds, scheduler.UnusableSweepInterval),
		func(now hostapi.Tick) bool { sweeper.SweepUnusable(now); return false },
	))
	// Mine check (spec.md §4.1) refreshes mineable-field feature vectors —
	// distinct from the Mine Planner's own busy/idle construction cadence
	// below, which self-paces via mines.BusyInterval/IdleInterval.
	a.scheduler.Register("mineable_sweep", scheduler.Fixed(
		sec(c.MineCheckSeconds, scheduler.MineCheckInterval),
		func(now hostapi.Tick) bool { sweeper.SweepMineable(now); return false },
	))
	a.scheduler.Register("construction", scheduler.Fixed(
		sec(c.ConstructionSeconds, scheduler.ConstructionInterval),
		a.Construction.Attempt,
	))
	// mines.Planner.Attempt already returns (acted bool, nextDue Tick) in
	// its own busy/idle shape, so it is registered directly rather than
	// wrapped in Fixed/BusyIdle.
	a.scheduler.Register("mine_construction", a.Mines.Attempt)
	// Production-site and military-site checks share one rotation —
	// sites.Supervisor visits both kinds of site in a single Attempt — so
	// they run on the shorter of the two named cadences (spec.md §4.1:
	// production 4s, military 5s).
	a.scheduler.Register("sites", scheduler.Fixed(
		sec(c.ProductionCheckSeconds, scheduler.ProductionCheckInterval),
		func(now hostapi.Tick) bool { a.Sites.Attempt(now); return false },
	))
	a.scheduler.Register("roads", scheduler.Fixed(
		sec(c.RoadImprovementSeconds, scheduler.RoadImprovementInterval),
		a.Roads.Attempt,
	))
	a.scheduler.Register("attack", scheduler.Jittered(
		sec(c.AttackMinSeconds, scheduler.AttackMinInterval),
		sec(c.AttackMaxSeconds, scheduler.AttackMaxInterval),
		a.Attack.Attempt,
	))

	return a, nil
}

// Think runs one tick: drain any notifications Event Hooks queued since the
// last call, reconcile the observer table against them, expire stale
// blocked fields, then let the scheduler run whichever phases are due
// (spec.md §4.1/§4.8).
func (a *Advisor) Think(now hostapi.Tick) {
	a.Hooks.SetTick(now)

	alerts := a.Hooks.DrainImmovableAlerts()
	a.Table.Reconcile(now, alerts, a.Host.Economies)
	for _, alert := range a.Hooks.DrainResourceAlerts() {
		a.Table.NoteOutOfResources(alert)
	}
	a.Table.PruneExpired(now)

	a.scheduler.Think(now)
}

// Due exposes a named phase's next due tick, chiefly for tests.
func (a *Advisor) Due(name string) (hostapi.Tick, bool) {
	return a.scheduler.Due(name)
}
