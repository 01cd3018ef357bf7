// Package simhost is an in-memory hostapi.Host implementation for tests
// and cmd/aidemo. It is grounded on engine/maplib/tilemap.go's tile grid
// (NewTileMap/At/InBounds storage shape) for World's tile store,
// engine/core/player.go's Player/PlayerManager for the per-player view, and
// engine/network/commands.go's command-record shape for CommandLog — a
// recorded, inspectable log in place of a live command queue.
package simhost

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// tile is one map cell's mutable state.
type tile struct {
	owner       hostapi.PlayerID
	caps        hexmap.BuildCap
	terrain     hostapi.TerrainKind
	resourceID  hostapi.ResourceID
	hasResource bool
	resourceAmt int
	fishAmt     int
}

type flagRecord struct {
	id        hostapi.FlagID
	pos       hexmap.Coord
	wares     int
	neighbors []hostapi.FlagID
	economy   hostapi.EconomyID
}

func (f flagRecord) ID() hostapi.FlagID          { return f.id }
func (f flagRecord) Position() hexmap.Coord       { return f.pos }
func (f flagRecord) CurrentWares() int           { return f.wares }
func (f flagRecord) Neighbors() []hostapi.FlagID { return f.neighbors }
func (f flagRecord) Economy() hostapi.EconomyID  { return f.economy }

type economyRecord struct {
	id         hostapi.EconomyID
	warehouses []hostapi.SiteID
	stock      map[hostapi.WareID]int
	needs      map[hostapi.WareID]bool
	flags      []hostapi.FlagID
}

func (e *economyRecord) ID() hostapi.EconomyID        { return e.id }
func (e *economyRecord) Warehouses() []hostapi.SiteID { return e.warehouses }
func (e *economyRecord) StockWare(w hostapi.WareID) int {
	return e.stock[w]
}
func (e *economyRecord) NeedsWare(w hostapi.WareID) bool {
	return e.needs[w]
}
func (e *economyRecord) Flags() []hostapi.FlagID { return e.flags }

// World is the in-memory map, economy table, statistics source, and
// notification bus. It implements hostapi.Map, hostapi.Economies,
// hostapi.Statistics and hostapi.NotificationBus.
type World struct {
	bounds hexmap.BoxBounds
	tiles  map[hexmap.Coord]*tile

	immovables map[hostapi.ImmovableID]hostapi.Immovable
	flags      map[hostapi.FlagID]*flagRecord
	economies  map[hostapi.EconomyID]*economyRecord

	strength map[hostapi.PlayerID]int
	hasStrength map[hostapi.PlayerID]bool
	statsPercent map[hostapi.SiteID]int
	crude        map[hostapi.SiteID][]bool

	handlers map[hostapi.NotificationKind][]hostapi.NotificationHandler
}

// NewWorld creates an empty World over a width x height board.
func NewWorld(width, height int) *World {
	return &World{
		bounds:       hexmap.BoxBounds{Width: width, Height: height},
		tiles:        make(map[hexmap.Coord]*tile),
		immovables:   make(map[hostapi.ImmovableID]hostapi.Immovable),
		flags:        make(map[hostapi.FlagID]*flagRecord),
		economies:    make(map[hostapi.EconomyID]*economyRecord),
		strength:     make(map[hostapi.PlayerID]int),
		hasStrength:  make(map[hostapi.PlayerID]bool),
		statsPercent: make(map[hostapi.SiteID]int),
		crude:        make(map[hostapi.SiteID][]bool),
		handlers:     make(map[hostapi.NotificationKind][]hostapi.NotificationHandler),
	}
}

func (w *World) tileAt(c hexmap.Coord) *tile {
	t, ok := w.tiles[c]
	if !ok {
		t = &tile{}
		w.tiles[c] = t
	}
	return t
}

// SetTile configures a tile's ownership, build capability, terrain and
// resources, creating the entry on first reference.
func (w *World) SetTile(c hexmap.Coord, owner hostapi.PlayerID, caps hexmap.BuildCap, terrain hostapi.TerrainKind) {
	t := w.tileAt(c)
	t.owner, t.caps, t.terrain = owner, caps, terrain
}

// SetResource configures the mineable resource under a tile.
func (w *World) SetResource(c hexmap.Coord, id hostapi.ResourceID, amount int) {
	t := w.tileAt(c)
	t.resourceID, t.hasResource, t.resourceAmt = id, true, amount
}

// SetFish sets the schooling-fish count at a tile.
func (w *World) SetFish(c hexmap.Coord, amount int) {
	w.tileAt(c).fishAmt = amount
}

// PlaceImmovable records an immovable at its coordinate, firing an
// ImmovableGained notification, and returns its generated id.
func (w *World) PlaceImmovable(imm hostapi.Immovable) hostapi.Immovable {
	if imm.ID == 0 {
		imm.ID = hostapi.ImmovableID(uuid.New().ID())
	}
	w.immovables[imm.ID] = imm
	w.fire(hostapi.Notification{
		Kind:  hostapi.NotifyImmovableGained,
		Player: imm.Owner,
		Immov: hostapi.ImmovableChange{Coord: imm.Coord, Imm: imm},
	})
	return imm
}

// RemoveImmovable deletes a previously placed immovable, firing
// ImmovableLost.
func (w *World) RemoveImmovable(id hostapi.ImmovableID) {
	imm, ok := w.immovables[id]
	if !ok {
		return
	}
	delete(w.immovables, id)
	w.fire(hostapi.Notification{
		Kind:  hostapi.NotifyImmovableLost,
		Player: imm.Owner,
		Immov: hostapi.ImmovableChange{Coord: imm.Coord, Imm: imm},
	})
}

// GrantField fires a FieldPossession-gained notification for c.
func (w *World) GrantField(c hexmap.Coord, owner hostapi.PlayerID) {
	w.tileAt(c).owner = owner
	w.fire(hostapi.Notification{
		Kind:    hostapi.NotifyFieldPossession,
		Player:  owner,
		Possess: hostapi.PossessionChange{Coord: c, Owner: owner, Gained: true},
	})
}

// LoseField fires a FieldPossession-lost notification for c.
func (w *World) LoseField(c hexmap.Coord) {
	w.tileAt(c).owner = 0
	w.fire(hostapi.Notification{
		Kind:    hostapi.NotifyFieldPossession,
		Possess: hostapi.PossessionChange{Coord: c, Gained: false},
	})
}

// NotifyOutOfResources fires a ProductionSiteOutOfResources notification.
func (w *World) NotifyOutOfResources(site hostapi.SiteID) {
	w.fire(hostapi.Notification{
		Kind:     hostapi.NotifyProductionSiteOutOfResources,
		OutOfRes: hostapi.OutOfResources{Site: site},
	})
}

// AddFlag registers a flag at a position, assigning it to an economy.
func (w *World) AddFlag(id hostapi.FlagID, pos hexmap.Coord, economy hostapi.EconomyID) {
	fr := &flagRecord{id: id, pos: pos, economy: economy}
	w.flags[id] = fr
	eo := w.economyOf(economy)
	eo.flags = append(eo.flags, id)
}

// ConnectFlags makes a and b mutual road neighbors.
func (w *World) ConnectFlags(a, b hostapi.FlagID) {
	if fa, ok := w.flags[a]; ok {
		fa.neighbors = append(fa.neighbors, b)
	}
	if fb, ok := w.flags[b]; ok {
		fb.neighbors = append(fb.neighbors, a)
	}
}

// SetFlagWares sets a flag's current ware count.
func (w *World) SetFlagWares(id hostapi.FlagID, wares int) {
	if f, ok := w.flags[id]; ok {
		f.wares = wares
	}
}

func (w *World) economyOf(id hostapi.EconomyID) *economyRecord {
	eo, ok := w.economies[id]
	if !ok {
		eo = &economyRecord{id: id, stock: make(map[hostapi.WareID]int), needs: make(map[hostapi.WareID]bool)}
		w.economies[id] = eo
	}
	return eo
}

// AddWarehouse records site as a warehouse belonging to economy.
func (w *World) AddWarehouse(economy hostapi.EconomyID, site hostapi.SiteID) {
	eo := w.economyOf(economy)
	eo.warehouses = append(eo.warehouses, site)
}

// SetStock sets an economy's ware stock level.
func (w *World) SetStock(economy hostapi.EconomyID, ware hostapi.WareID, amount int) {
	w.economyOf(economy).stock[ware] = amount
}

// SetNeedsWare sets whether an economy needs a ware.
func (w *World) SetNeedsWare(economy hostapi.EconomyID, ware hostapi.WareID, needs bool) {
	w.economyOf(economy).needs[ware] = needs
}

// SetMilitaryStrength sets a player's most recent military strength
// sample.
func (w *World) SetMilitaryStrength(p hostapi.PlayerID, value int) {
	w.strength[p] = value
	w.hasStrength[p] = true
}

// SetStatisticsPercent sets a site's production statistics percent.
func (w *World) SetStatisticsPercent(site hostapi.SiteID, percent int) {
	w.statsPercent[site] = percent
}

// PushCrudeStatistic appends one tick's production outcome for a site.
func (w *World) PushCrudeStatistic(site hostapi.SiteID, produced bool) {
	w.crude[site] = append(w.crude[site], produced)
}

func (w *World) fire(n hostapi.Notification) {
	for _, h := range w.handlers[n.Kind] {
		h(n)
	}
}

// --- hostapi.NotificationBus ---

// Subscribe implements hostapi.NotificationBus.
func (w *World) Subscribe(kind hostapi.NotificationKind, h hostapi.NotificationHandler) {
	w.handlers[kind] = append(w.handlers[kind], h)
}

// --- hostapi.Map ---

func (w *World) InBounds(c hexmap.Coord) bool { return w.bounds.Contains(c) }

func (w *World) Owner(c hexmap.Coord) hostapi.PlayerID {
	if t, ok := w.tiles[c]; ok {
		return t.owner
	}
	return 0
}

func (w *World) BuildCaps(c hexmap.Coord) hexmap.BuildCap {
	if t, ok := w.tiles[c]; ok {
		return t.caps
	}
	return hexmap.CapNone
}

func (w *World) ResourceAmount(c hexmap.Coord) int {
	if t, ok := w.tiles[c]; ok {
		return t.resourceAmt
	}
	return 0
}

func (w *World) ResourceAt(c hexmap.Coord) (hostapi.ResourceID, bool) {
	if t, ok := w.tiles[c]; ok && t.hasResource {
		return t.resourceID, true
	}
	return "", false
}

func (w *World) Terrain(c hexmap.Coord) hostapi.TerrainKind {
	if t, ok := w.tiles[c]; ok {
		return t.terrain
	}
	return hostapi.TerrainNone
}

func (w *World) FishAmount(c hexmap.Coord) int {
	if t, ok := w.tiles[c]; ok {
		return t.fishAmt
	}
	return 0
}

func (w *World) FindFields(center hexmap.Coord, radius int, filter hostapi.FieldFilter) []hexmap.Coord {
	var out []hexmap.Coord
	for _, c := range hexmap.Region(center, radius, w.bounds) {
		t := w.tiles[c]
		var owner hostapi.PlayerID
		var caps hexmap.BuildCap
		var amt int
		if t != nil {
			owner, caps, amt = t.owner, t.caps, t.resourceAmt
		}
		if filter(owner, caps, amt) {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

func (w *World) FindImmovables(center hexmap.Coord, radius int) []hostapi.Immovable {
	var out []hostapi.Immovable
	ids := make([]hostapi.ImmovableID, 0, len(w.immovables))
	for id := range w.immovables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		imm := w.immovables[id]
		if hexmap.Distance(center, imm.Coord) <= radius {
			out = append(out, imm)
		}
	}
	return out
}

func (w *World) FindBobs(hexmap.Coord, int) []hostapi.Bob { return nil }

func (w *World) FindReachableFields(center hexmap.Coord, radius int, step hostapi.StepChecker, filter hostapi.FieldFilter) []hexmap.Coord {
	visited := map[hexmap.Coord]int{center: 0}
	queue := []hexmap.Coord{center}
	var out []hexmap.Coord
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= radius {
			continue
		}
		for _, n := range cur.Neighbors() {
			if !w.InBounds(n) || !step(n) {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = depth + 1
			queue = append(queue, n)
		}
	}
	for c, depth := range visited {
		if c == center {
			continue
		}
		t := w.tiles[c]
		var owner hostapi.PlayerID
		var caps hexmap.BuildCap
		var amt int
		if t != nil {
			owner, caps, amt = t.owner, t.caps, t.resourceAmt
		}
		if depth <= radius && filter(owner, caps, amt) {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

func (w *World) FindPath(a, b hexmap.Coord, step hostapi.StepChecker) []hexmap.Coord {
	if a == b {
		return []hexmap.Coord{a}
	}
	type node struct {
		c    hexmap.Coord
		prev hexmap.Coord
		has  bool
	}
	visited := map[hexmap.Coord]node{a: {c: a}}
	queue := []hexmap.Coord{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == b {
			var path []hexmap.Coord
			for c := b; ; {
				path = append([]hexmap.Coord{c}, path...)
				n := visited[c]
				if !n.has {
					break
				}
				c = n.prev
			}
			return path
		}
		for _, n := range cur.Neighbors() {
			if !w.InBounds(n) || (n != b && !step(n)) {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = node{c: n, prev: cur, has: true}
			queue = append(queue, n)
		}
	}
	return nil
}

func sortCoords(cs []hexmap.Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}

// --- hostapi.Economies ---

func (w *World) Economy(id hostapi.EconomyID) (hostapi.Economy, bool) {
	eo, ok := w.economies[id]
	return eo, ok
}

func (w *World) Flag(id hostapi.FlagID) (hostapi.Flag, bool) {
	f, ok := w.flags[id]
	if !ok {
		return nil, false
	}
	return f, true
}

// --- hostapi.Statistics ---

func (w *World) MilitaryStrength(p hostapi.PlayerID) (int, bool) {
	if !w.hasStrength[p] {
		return 0, false
	}
	return w.strength[p], true
}

func (w *World) StatisticsPercent(site hostapi.SiteID) int { return w.statsPercent[site] }

func (w *World) CrudeStatistics(site hostapi.SiteID) []bool { return w.crude[site] }
