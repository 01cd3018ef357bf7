package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// fakeMap is a minimal hostapi.Map double: a bounded box with per-tile
// owner/build-cap/terrain state set directly by tests, grounded on the
// same table-driven fixture style okanyucel2's rebellion/economy tests use.
type fakeMap struct {
	bounds     hexmap.BoxBounds
	owner      map[hexmap.Coord]hostapi.PlayerID
	caps       map[hexmap.Coord]hexmap.BuildCap
	terrain    map[hexmap.Coord]hostapi.TerrainKind
	fish       map[hexmap.Coord]int
	immovables []hostapi.Immovable
	bobs       []hostapi.Bob
}

func newFakeMap(w, h int) *fakeMap {
	return &fakeMap{
		bounds:  hexmap.BoxBounds{Width: w, Height: h},
		owner:   make(map[hexmap.Coord]hostapi.PlayerID),
		caps:    make(map[hexmap.Coord]hexmap.BuildCap),
		terrain: make(map[hexmap.Coord]hostapi.TerrainKind),
		fish:    make(map[hexmap.Coord]int),
	}
}

func (m *fakeMap) InBounds(c hexmap.Coord) bool           { return m.bounds.Contains(c) }
func (m *fakeMap) Owner(c hexmap.Coord) hostapi.PlayerID  { return m.owner[c] }
func (m *fakeMap) BuildCaps(c hexmap.Coord) hexmap.BuildCap { return m.caps[c] }
func (m *fakeMap) ResourceAmount(c hexmap.Coord) int      { return 0 }
func (m *fakeMap) ResourceAt(c hexmap.Coord) (hostapi.ResourceID, bool) {
	return "", false
}
func (m *fakeMap) Terrain(c hexmap.Coord) hostapi.TerrainKind { return m.terrain[c] }
func (m *fakeMap) FishAmount(c hexmap.Coord) int              { return m.fish[c] }

func (m *fakeMap) FindFields(center hexmap.Coord, radius int, filter hostapi.FieldFilter) []hexmap.Coord {
	var out []hexmap.Coord
	for _, c := range hexmap.Region(center, radius, m.bounds) {
		if filter == nil || filter(m.Owner(c), m.BuildCaps(c), m.ResourceAmount(c)) {
			out = append(out, c)
		}
	}
	return out
}

func (m *fakeMap) FindImmovables(center hexmap.Coord, radius int) []hostapi.Immovable {
	var out []hostapi.Immovable
	for _, imm := range m.immovables {
		if hexmap.Distance(center, imm.Coord) <= radius {
			out = append(out, imm)
		}
	}
	return out
}

func (m *fakeMap) FindBobs(center hexmap.Coord, radius int) []hostapi.Bob {
	return m.bobs
}

func (m *fakeMap) FindReachableFields(center hexmap.Coord, radius int, step hostapi.StepChecker, filter hostapi.FieldFilter) []hexmap.Coord {
	return nil
}

func (m *fakeMap) FindPath(a, b hexmap.Coord, step hostapi.StepChecker) []hexmap.Coord {
	return nil
}

type fakePlayer struct {
	self     hostapi.PlayerID
	hostiles map[hostapi.PlayerID]bool
}

func (p fakePlayer) ID() hostapi.PlayerID                                   { return p.self }
func (p fakePlayer) IsHostile(other hostapi.PlayerID) bool                  { return p.hostiles[other] }
func (p fakePlayer) BuildingTypeAllowed(hostapi.BuildingTypeID) bool        { return true }
func (p fakePlayer) WorkersAvailable(hostapi.BuildingTypeID) bool           { return true }
func (p fakePlayer) FindAttackSoldiers(hostapi.FlagID) int                  { return 0 }

type fakeDescriptors struct {
	buildings map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor
}

func (d fakeDescriptors) Building(id hostapi.BuildingTypeID) (hostapi.BuildingDescriptor, bool) {
	b, ok := d.buildings[id]
	return b, ok
}
func (d fakeDescriptors) AllBuildings() []hostapi.BuildingTypeID { return nil }
func (d fakeDescriptors) Ware(hostapi.WareID) (hostapi.WareDescriptor, bool) {
	return hostapi.WareDescriptor{}, false
}
func (d fakeDescriptors) ResourceByName(string) (hostapi.ResourceID, bool) {
	return "", false
}

func newTestHost(m *fakeMap, self hostapi.PlayerID) hostapi.Host {
	return hostapi.Host{
		Map:         m,
		Player:      fakePlayer{self: self, hostiles: map[hostapi.PlayerID]bool{2: true}},
		Descriptors: fakeDescriptors{buildings: make(map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor)},
	}
}

func TestGainFieldStartsUnusable(t *testing.T) {
	ix := NewIndex()
	ix.GainField(hexmap.Coord{X: 1, Y: 1}, 0)
	require.Len(t, ix.Unusable(), 1)
	assert.Empty(t, ix.Buildable())
	assert.Empty(t, ix.Mineable())
}

func TestSweepUnusablePromotesToBuildable(t *testing.T) {
	m := newFakeMap(10, 10)
	c := hexmap.Coord{X: 3, Y: 3}
	m.owner[c] = 1
	m.caps[c] = hexmap.CapSmall | hexmap.CapFlag

	ix := NewIndex()
	ix.GainField(c, 0)

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.SweepUnusable(100)

	assert.Empty(t, ix.Unusable())
	require.Len(t, ix.Buildable(), 1)
	assert.Equal(t, c, ix.Buildable()[0].Coord)
	assert.Equal(t, -1, ix.Buildable()[0].FishNearby)
}

func TestSweepUnusablePromotesToMineable(t *testing.T) {
	m := newFakeMap(10, 10)
	c := hexmap.Coord{X: 2, Y: 2}
	m.owner[c] = 1
	m.caps[c] = hexmap.CapMine

	ix := NewIndex()
	ix.GainField(c, 0)

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.SweepUnusable(100)

	assert.Empty(t, ix.Unusable())
	require.Len(t, ix.Mineable(), 1)
	assert.Equal(t, c, ix.Mineable()[0].Coord)
}

func TestSweepUnusableRotatesWhenStillUnclassifiable(t *testing.T) {
	m := newFakeMap(10, 10)
	c := hexmap.Coord{X: 4, Y: 4}
	m.owner[c] = 1
	m.caps[c] = hexmap.CapNone

	ix := NewIndex()
	ix.GainField(c, 0)
	handleBefore := ix.Unusable()[0].Handle

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.SweepUnusable(100)

	require.Len(t, ix.Unusable(), 1)
	assert.Equal(t, handleBefore, ix.Unusable()[0].Handle)
	assert.Equal(t, hostapi.Tick(100), ix.Unusable()[0].NextUpdateDue)
}

func TestSweepUnusableDropsLostOwnership(t *testing.T) {
	m := newFakeMap(10, 10)
	c := hexmap.Coord{X: 5, Y: 5}
	// never owned by player 1

	ix := NewIndex()
	ix.GainField(c, 0)
	m.owner[c] = 2

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.SweepUnusable(100)

	assert.Empty(t, ix.Unusable())
	assert.Empty(t, ix.Buildable())
	assert.Empty(t, ix.Mineable())
}

func TestUpdateBuildableFieldCountsTreesAndStones(t *testing.T) {
	m := newFakeMap(20, 20)
	center := hexmap.Coord{X: 10, Y: 10}
	m.owner[center] = 1
	m.caps[center] = hexmap.CapSmall

	m.immovables = []hostapi.Immovable{
		{Kind: hostapi.ImmTree, Coord: hexmap.Coord{X: 10, Y: 9}},
		{Kind: hostapi.ImmTree, Coord: hexmap.Coord{X: 11, Y: 10}},
		{Kind: hostapi.ImmStone, Coord: hexmap.Coord{X: 9, Y: 10}},
	}

	ix := NewIndex()
	f := BuildableField{Coord: center, FishNearby: -1}
	ix.buildable = append(ix.buildable, f)
	ix.byCoord[center] = location{kindBuildable, 0}

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.UpdateBuildableField(&ix.buildable[0], waterRadius, false, 0)

	assert.Equal(t, 2, ix.buildable[0].TreesNearby)
	assert.Equal(t, 1, ix.buildable[0].StonesNearby)
	assert.Equal(t, 0, ix.buildable[0].FishNearby, "first scan always resolves the -1 sentinel")
}

func TestUpdateBuildableFieldSkipsFishRescanOffCadence(t *testing.T) {
	m := newFakeMap(20, 20)
	center := hexmap.Coord{X: 5, Y: 5}
	m.owner[center] = 1
	m.caps[center] = hexmap.CapSmall
	m.fish[center] = 4

	ix := NewIndex()
	ix.buildable = append(ix.buildable, BuildableField{Coord: center, FishNearby: -1})
	ix.byCoord[center] = location{kindBuildable, 0}

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.UpdateBuildableField(&ix.buildable[0], waterRadius, false, 0)
	require.Equal(t, 4, ix.buildable[0].FishNearby)

	m.fish[center] = 99 // would change the count if rescanned
	s.UpdateBuildableField(&ix.buildable[0], waterRadius, false, hostapi.Tick(6*hostapi.Second))
	assert.Equal(t, 4, ix.buildable[0].FishNearby, "fish/critters only rescan every 10th update")
}

func TestUpdateBuildableFieldWaterAndDistantWaterAreExclusive(t *testing.T) {
	m := newFakeMap(30, 30)
	center := hexmap.Coord{X: 15, Y: 15}
	m.owner[center] = 1
	m.caps[center] = hexmap.CapSmall
	far := hexmap.Coord{X: 15, Y: 15 + distantWaterRadius}
	// clamp into bounds
	if far.Y >= 30 {
		far.Y = 29
	}
	m.terrain[far] = hostapi.TerrainWater

	ix := NewIndex()
	ix.buildable = append(ix.buildable, BuildableField{Coord: center, FishNearby: -1})
	ix.byCoord[center] = location{kindBuildable, 0}

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.UpdateBuildableField(&ix.buildable[0], waterRadius, false, 0)

	assert.Equal(t, 0, ix.buildable[0].WaterNearby)
	assert.Equal(t, 1, ix.buildable[0].DistantWater)
}

func TestUpdateMineableFieldCountsNearbyMines(t *testing.T) {
	m := newFakeMap(10, 10)
	center := hexmap.Coord{X: 5, Y: 5}
	m.owner[center] = 1
	m.caps[center] = hexmap.CapMine
	m.immovables = []hostapi.Immovable{
		{Kind: hostapi.ImmMine, Coord: hexmap.Coord{X: 5, Y: 4}},
	}

	ix := NewIndex()
	ix.mineable = append(ix.mineable, MineableField{Coord: center})
	ix.byCoord[center] = location{kindMineable, 0}

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.UpdateMineableField(&ix.mineable[0], 0)

	assert.Equal(t, 1, ix.mineable[0].MinesNearby)
	assert.Equal(t, hostapi.Tick(7*hostapi.Second), ix.mineable[0].NextUpdateDue)
}

func TestIsStaleUsesEightSecondThreshold(t *testing.T) {
	f := BuildableField{NextUpdateDue: 1000}
	assert.False(t, IsStale(f, hostapi.Tick(1000)+staleAfter))
	assert.True(t, IsStale(f, hostapi.Tick(1000)+staleAfter+1))
}

func TestSweepBuildableReclassifiesWhenCapChanges(t *testing.T) {
	m := newFakeMap(10, 10)
	c := hexmap.Coord{X: 2, Y: 2}
	m.owner[c] = 1
	m.caps[c] = hexmap.CapMine // no longer buildable

	ix := NewIndex()
	ix.buildable = append(ix.buildable, BuildableField{Coord: c, FishNearby: -1})
	ix.byCoord[c] = location{kindBuildable, 0}

	s := &Sweeper{Host: newTestHost(m, 1), PlayerID: 1, Index: ix}
	s.SweepBuildable(100)

	assert.Empty(t, ix.Buildable())
	require.Len(t, ix.Mineable(), 1)
	assert.Equal(t, c, ix.Mineable()[0].Coord)
}
