// Package roads implements the Road Optimizer (spec.md §4.6): splitting
// overlong roads, bulldozing dead-end flags, and proposing shortcut roads
// that cut the real walking distance between flags.
//
// Grounded on engine/pathfind/astar.go's container/heap nodeHeap/node{p,g,f}
// priority-queue walk, retargeted from grid cells to flags: the Dijkstra
// walk below uses the same heap.Interface shape with a flag as the node and
// a FindPath call's length as edge weight instead of a heuristic.
package roads

import (
	"container/heap"
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// Thresholds and cadences, spec.md §4.6.
const (
	splitMinPathSteps  = 3
	splitMinFreeSpots  = 20
	freeSpotScanRadius = 2

	shortcutWideRadius       = 13
	shortcutWideMinReduction = 20
	shortcutNarrowRadius     = 9
	shortcutNarrowMinReduction = 0
	shortcutNarrowWares      = 6

	// rotationWide/rotationNarrow gate create_shortcut_road's "every 200th
	// tick"/"every 10th tick" triggers. Tick is game-time milliseconds
	// (hostapi.Tick), not a think-call counter, so these are read against
	// Planner.calls, the count of Attempt invocations, the same way the
	// original AI reads its own per-think call counter.
	rotationWide   = 200
	rotationNarrow = 10

	sameEconomyVirtualCost  = 50
	crossEconomyVirtualCost = 100

	blockAfterBulldoze = 15 * hostapi.Minute
)

// Planner runs the Road Optimizer cadence over every known economy.
type Planner struct {
	Host  hostapi.Host
	Table *observers.Table

	calls int
}

// New creates a Planner over the given host collaborators and state.
func New(host hostapi.Host, tbl *observers.Table) *Planner {
	return &Planner{Host: host, Table: tbl}
}

// Attempt runs one Road Optimizer pass: split overlong roads first, then
// rotate every economy's flags for dead-end bulldozing and shortcut
// candidates (spec.md §4.6). It emits at most one command, matching the
// "first phase to emit a command returns" ordering guarantee (spec.md §5).
// The caller is responsible for the inhibit_road_building throttle between
// calls.
func (p *Planner) Attempt(now hostapi.Tick) bool {
	p.calls++
	if p.splitOverlongRoads(now) {
		return true
	}
	return p.rotateFlags(now)
}

// splitOverlongRoads walks every flag-to-neighbor pair once (skipping the
// mirror edge by comparing ids) looking for a road to split or bulldoze.
func (p *Planner) splitOverlongRoads(now hostapi.Tick) bool {
	for _, eo := range p.Table.Economies() {
		for _, fid := range eo.Flags {
			flag, ok := p.Host.Economies.Flag(fid)
			if !ok {
				continue
			}
			for _, nid := range flag.Neighbors() {
				if nid <= fid {
					continue
				}
				neighbor, ok := p.Host.Economies.Flag(nid)
				if !ok {
					continue
				}
				if p.trySplitRoad(flag, neighbor) {
					return true
				}
			}
		}
	}
	return false
}

func (p *Planner) trySplitRoad(a, b hostapi.Flag) bool {
	path := p.Host.Map.FindPath(a.Position(), b.Position(), p.roadStepChecker)
	if len(path) < 2 {
		return false
	}
	if len(path)-1 <= splitMinPathSteps {
		return false
	}
	if p.countFreeSpots(path) < splitMinFreeSpots {
		return false
	}
	if split, ok := findSplitPoint(path, p.Host.Map); ok {
		p.Host.Commands.BuildFlag(p.Host.Player.ID(), split)
		return true
	}
	p.bulldozeRoadAlong(path)
	return true
}

// findSplitPoint walks path from both ends inward, skipping the two flag
// endpoints, for the first flag-capable tile (spec.md §4.6).
func findSplitPoint(path []hexmap.Coord, m hostapi.Map) (hexmap.Coord, bool) {
	lo, hi := 1, len(path)-2
	for lo <= hi {
		if m.BuildCaps(path[lo]).BuildableAtLeast(hexmap.CapFlag) {
			return path[lo], true
		}
		if hi != lo && m.BuildCaps(path[hi]).BuildableAtLeast(hexmap.CapFlag) {
			return path[hi], true
		}
		lo++
		hi--
	}
	return hexmap.Coord{}, false
}

// bulldozeRoadAlong locates the road immovable crossing path and bulldozes
// it. Immovable carries no path of its own, only a single Coord, so the
// road is found by querying the map at a representative tile.
func (p *Planner) bulldozeRoadAlong(path []hexmap.Coord) {
	mid := path[len(path)/2]
	for _, imm := range p.Host.Map.FindImmovables(mid, 0) {
		if imm.Kind == hostapi.ImmRoad {
			p.Host.Commands.Bulldoze(imm.ID)
			return
		}
	}
}

// countFreeSpots de-duplicates unowned buildable tiles near path via a hash
// set, the "free spots" gate on road splitting (spec.md §4.6).
func (p *Planner) countFreeSpots(path []hexmap.Coord) int {
	seen := make(map[uint64]struct{})
	filter := func(owner hostapi.PlayerID, cap hexmap.BuildCap, _ int) bool {
		return owner == 0 && cap.IsBuildable()
	}
	for _, tile := range path {
		for _, c := range p.Host.Map.FindFields(tile, freeSpotScanRadius, filter) {
			seen[coordHash(c)] = struct{}{}
		}
	}
	return len(seen)
}

// rotateFlags iterates every economy's flags, bulldozing dead ends and
// attempting shortcut roads per spec.md §4.6.
func (p *Planner) rotateFlags(now hostapi.Tick) bool {
	for _, eo := range p.Table.Economies() {
		for i := 0; i < len(eo.Flags); i++ {
			fid := eo.Flags[i]
			flag, ok := p.Host.Economies.Flag(fid)
			if !ok {
				continue
			}

			if len(flag.Neighbors()) <= 1 && flag.CurrentWares() == 0 {
				p.Host.Commands.Bulldoze(hostapi.ImmovableID(fid))
				eo.Flags = append(eo.Flags[:i:i], eo.Flags[i+1:]...)
				return true
			}

			wide := len(flag.Neighbors()) <= 1 || p.calls%rotationWide == 0
			if wide && p.createShortcutRoad(flag, eo, shortcutWideRadius, shortcutWideMinReduction, now) {
				return true
			}

			narrow := flag.CurrentWares() > shortcutNarrowWares && p.calls%rotationNarrow == 0
			if narrow && p.createShortcutRoad(flag, eo, shortcutNarrowRadius, shortcutNarrowMinReduction, now) {
				return true
			}
		}
	}
	return false
}

// createShortcutRoad implements spec.md §4.6's named operation: escalate
// failed_connection_tries when the flag's economy has no warehouse, bulldoze
// and block past the backoff ceiling, otherwise search for a real shortcut.
func (p *Planner) createShortcutRoad(flag hostapi.Flag, eo *observers.EconomyObserver, radius, minReduction int, now hostapi.Tick) bool {
	hasWarehouse := false
	if econ, ok := p.Host.Economies.Economy(flag.Economy()); ok {
		hasWarehouse = len(econ.Warehouses()) > 0
	}
	if !hasWarehouse {
		eo.FailedConnectionTries++
		maxTries := 3 + len(eo.Flags)*len(eo.Flags)
		if eo.FailedConnectionTries > maxTries {
			p.Host.Commands.Bulldoze(hostapi.ImmovableID(flag.ID()))
			p.Table.Block(flag.Position(), now+blockAfterBulldoze)
			return true
		}
	}

	candidates := p.collectCandidates(flag, radius)
	if len(candidates) == 0 {
		return false
	}
	p.applyRealDistances(flag, candidates, radius)
	sort.Slice(candidates, func(i, j int) bool {
		return (candidates[i].cost - float64(candidates[i].crow)) > (candidates[j].cost - float64(candidates[j].crow))
	})

	for _, cand := range candidates {
		if cand.crow < 2 || cand.crow >= radius-2 {
			continue
		}
		path := p.Host.Map.FindPath(flag.Position(), cand.coord, p.roadStepChecker)
		if len(path) < 2 {
			continue
		}
		newLen := float64(len(path) - 1)
		if cand.cost-newLen >= float64(minReduction) {
			p.Host.Commands.BuildRoad(p.Host.Player.ID(), path)
			return true
		}
	}
	return false
}

// candidate is one reachable flag/road/flaggable tile considered as a
// shortcut-road endpoint (spec.md §4.6).
type candidate struct {
	coord  hexmap.Coord
	flag   hostapi.FlagID
	isFlag bool
	crow   int
	cost   float64
}

// collectCandidates gathers every flag/road/flaggable tile reachable on
// foot from flag within radius, de-duplicated by a hash set, each seeded
// with its virtual-distance-plus-crow-flies cost (spec.md §4.6).
func (p *Planner) collectCandidates(flag hostapi.Flag, radius int) []*candidate {
	seen := make(map[uint64]struct{})
	var out []*candidate

	filter := func(owner hostapi.PlayerID, cap hexmap.BuildCap, _ int) bool {
		return owner == p.Host.Player.ID() && cap.BuildableAtLeast(hexmap.CapFlag)
	}
	for _, c := range p.Host.Map.FindReachableFields(flag.Position(), radius, p.roadStepChecker, filter) {
		if c == flag.Position() {
			continue
		}
		h := coordHash(c)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		crow := hexmap.Distance(flag.Position(), c)
		virtual := crossEconomyVirtualCost
		var fid hostapi.FlagID
		isFlag := false
		for _, imm := range p.Host.Map.FindImmovables(c, 0) {
			if imm.Kind != hostapi.ImmFlag {
				continue
			}
			isFlag = true
			fid = hostapi.FlagID(imm.ID)
			if other, ok := p.Host.Economies.Flag(fid); ok && other.Economy() == flag.Economy() {
				virtual = sameEconomyVirtualCost
			}
			break
		}
		out = append(out, &candidate{coord: c, flag: fid, isFlag: isFlag, crow: crow, cost: float64(virtual + crow)})
	}
	return out
}

// applyRealDistances replaces a flag-candidate's virtual cost with the real
// road distance from a priority-queue walk, where that is lower (spec.md
// §4.6).
func (p *Planner) applyRealDistances(flag hostapi.Flag, candidates []*candidate, radius int) {
	limit := float64(crossEconomyVirtualCost + radius)
	dist := p.flagDistances(flag, limit)
	for _, cand := range candidates {
		if !cand.isFlag {
			continue
		}
		if real, ok := dist[cand.flag]; ok && real < cand.cost {
			cand.cost = real
		}
	}
}

// roadStepChecker allows a path/BFS to cross tiles the player owns (or that
// are unowned, for frontier expansion into unclaimed land) and that are at
// least flag-capable — hostapi exposes no dedicated "is a road tile"
// predicate, so flag-capability is used as the walkable proxy.
func (p *Planner) roadStepChecker(c hexmap.Coord) bool {
	if !p.Host.Map.InBounds(c) {
		return false
	}
	owner := p.Host.Map.Owner(c)
	if owner != 0 && owner != p.Host.Player.ID() {
		return false
	}
	return p.Host.Map.BuildCaps(c).BuildableAtLeast(hexmap.CapFlag)
}

func coordHash(c hexmap.Coord) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(int64(c.X)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.Y)))
	return xxhash.Sum64(buf[:])
}

// flagNode is one entry in the Dijkstra frontier over the flag graph.
type flagNode struct {
	id   hostapi.FlagID
	dist float64
}

type flagHeap []*flagNode

func (h flagHeap) Len() int            { return len(h) }
func (h flagHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h flagHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *flagHeap) Push(x interface{}) { *h = append(*h, x.(*flagNode)) }
func (h *flagHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// flagDistances runs a priority-queue walk over existing roads from source,
// computing real road distance to every flag reachable within limit. Edge
// weight is a FindPath call's length between two adjacent flags; there is
// no heuristic, so this is a plain Dijkstra (spec.md §4.6, grounded on
// engine/pathfind/astar.go's nodeHeap/node{p,g,f} shape, retargeted from
// grid cells to flags).
func (p *Planner) flagDistances(source hostapi.Flag, limit float64) map[hostapi.FlagID]float64 {
	dist := map[hostapi.FlagID]float64{source.ID(): 0}
	open := &flagHeap{{id: source.ID(), dist: 0}}
	heap.Init(open)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*flagNode)
		if cur.dist > dist[cur.id] {
			continue
		}
		if cur.dist > limit {
			continue
		}
		flag, ok := p.Host.Economies.Flag(cur.id)
		if !ok {
			continue
		}
		for _, nid := range flag.Neighbors() {
			neighbor, ok := p.Host.Economies.Flag(nid)
			if !ok {
				continue
			}
			weight := p.edgeWeight(flag, neighbor)
			if math.IsInf(weight, 1) {
				continue
			}
			nd := cur.dist + weight
			if old, ok := dist[nid]; !ok || nd < old {
				dist[nid] = nd
				heap.Push(open, &flagNode{id: nid, dist: nd})
			}
		}
	}
	return dist
}

func (p *Planner) edgeWeight(a, b hostapi.Flag) float64 {
	path := p.Host.Map.FindPath(a.Position(), b.Position(), p.roadStepChecker)
	if len(path) < 2 {
		return math.Inf(1)
	}
	return float64(len(path) - 1)
}
