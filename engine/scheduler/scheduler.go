// Package scheduler runs the cooperative, tick-driven phase list described
// in spec.md §4.1: each phase has its own due-time and reschedules itself
// after running; Think(tick) stops at the first phase that issues a
// command this tick so no single call does unbounded work.
//
// The accumulator/cadence shape is grounded on engine/core/gameloop.go's
// fixed-timestep loop and engine/ai/ai.go's AIController.tickTimer/
// thinkInterval per-controller cadence, generalized from "one interval for
// the whole controller" to "one interval per phase".
package scheduler

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/ironhearth/tribeai/engine/hostapi"
)

// Cadences named in spec.md §4.1.
const (
	BuildableSweepInterval  = 6 * hostapi.Second
	UnusableSweepInterval   = 6 * hostapi.Second
	RoadImprovementInterval = 1 * hostapi.Second
	StatisticsInterval      = 10 * hostapi.Second
	ConstructionInterval    = 2 * hostapi.Second
	ProductionCheckInterval = 4 * hostapi.Second
	MineCheckInterval       = 7 * hostapi.Second
	MilitaryCheckInterval   = 5 * hostapi.Second
	AttackMinInterval       = 40 * hostapi.Second
	AttackMaxInterval       = 120 * hostapi.Second
	HelperSiteInterval      = 180 * hostapi.Second
	MineConstructionBusy    = 2 * hostapi.Second
	MineConstructionIdle    = 22 * hostapi.Second
)

// PhaseFunc runs one phase and reports whether it issued a command (acted)
// along with the tick its next run is due.
type PhaseFunc func(now hostapi.Tick) (acted bool, nextDue hostapi.Tick)

type phase struct {
	name string
	due  hostapi.Tick
	fn   PhaseFunc
}

// Scheduler holds the ordered phase list for one AI player.
type Scheduler struct {
	phases []*phase
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Register adds a phase, due on the very first Think call.
func (s *Scheduler) Register(name string, fn PhaseFunc) {
	s.phases = append(s.phases, &phase{name: name, fn: fn})
}

// Think runs due phases in registration order and stops at the first one
// that acted this tick (spec.md §4.1: bounds per-tick cost to one acting
// phase).
func (s *Scheduler) Think(now hostapi.Tick) {
	for _, p := range s.phases {
		if p.due > now {
			continue
		}
		acted, next := p.fn(now)
		p.due = next
		if acted {
			return
		}
	}
}

// Due reports the next due tick for a named phase, chiefly for tests.
func (s *Scheduler) Due(name string) (hostapi.Tick, bool) {
	for _, p := range s.phases {
		if p.name == name {
			return p.due, true
		}
	}
	return 0, false
}

// Fixed wraps fn with a constant reschedule interval regardless of outcome
// — the common case (sweeps, statistics, construction, production/mine/
// military-site checks).
func Fixed(interval hostapi.Tick, fn func(now hostapi.Tick) bool) PhaseFunc {
	return func(now hostapi.Tick) (bool, hostapi.Tick) {
		acted := fn(now)
		return acted, now + interval
	}
}

// BusyIdle reschedules sooner after an acting run and later after an idle
// one — the Mine Construction phase's busy/idle cadence (spec.md §4.1).
func BusyIdle(busy, idle hostapi.Tick, fn func(now hostapi.Tick) bool) PhaseFunc {
	return func(now hostapi.Tick) (bool, hostapi.Tick) {
		acted := fn(now)
		if acted {
			return acted, now + busy
		}
		return acted, now + idle
	}
}

// Jittered picks the next due tick pseudo-randomly in [min, max). The
// stream is seeded only from game time (xxhash of the current tick), never
// from wall-clock or any other external entropy, so two runs fed the same
// tick sequence reschedule identically (spec.md §5).
func Jittered(min, max hostapi.Tick, fn func(now hostapi.Tick) bool) PhaseFunc {
	span := uint64(max - min)
	return func(now hostapi.Tick) (bool, hostapi.Tick) {
		acted := fn(now)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(now))
		offset := hostapi.Tick(xxhash.Sum64(buf[:]) % span)
		return acted, now + min + offset
	}
}
