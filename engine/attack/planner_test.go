package attack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhearth/tribeai/engine/events"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

type fakeMap struct {
	bounds     hexmap.BoxBounds
	immovables map[hexmap.Coord][]hostapi.Immovable
}

func newFakeMap() *fakeMap {
	return &fakeMap{bounds: hexmap.BoxBounds{Width: 60, Height: 60}, immovables: make(map[hexmap.Coord][]hostapi.Immovable)}
}

func (m *fakeMap) InBounds(c hexmap.Coord) bool           { return m.bounds.Contains(c) }
func (m *fakeMap) Owner(hexmap.Coord) hostapi.PlayerID    { return 1 }
func (m *fakeMap) BuildCaps(hexmap.Coord) hexmap.BuildCap { return hexmap.CapSmall }
func (m *fakeMap) ResourceAmount(hexmap.Coord) int        { return 0 }
func (m *fakeMap) ResourceAt(hexmap.Coord) (hostapi.ResourceID, bool) {
	return "", false
}
func (m *fakeMap) Terrain(hexmap.Coord) hostapi.TerrainKind { return hostapi.TerrainNone }
func (m *fakeMap) FishAmount(hexmap.Coord) int              { return 0 }
func (m *fakeMap) FindFields(hexmap.Coord, int, hostapi.FieldFilter) []hexmap.Coord {
	return nil
}
func (m *fakeMap) FindImmovables(c hexmap.Coord, radius int) []hostapi.Immovable {
	return m.immovables[c]
}
func (m *fakeMap) FindBobs(hexmap.Coord, int) []hostapi.Bob { return nil }
func (m *fakeMap) FindReachableFields(hexmap.Coord, int, hostapi.StepChecker, hostapi.FieldFilter) []hexmap.Coord {
	return nil
}
func (m *fakeMap) FindPath(hexmap.Coord, hexmap.Coord, hostapi.StepChecker) []hexmap.Coord {
	return nil
}

type fakePlayer struct {
	hostiles   map[hostapi.PlayerID]bool
	attackers  map[hostapi.FlagID]int
}

func (p fakePlayer) ID() hostapi.PlayerID                          { return 1 }
func (p fakePlayer) IsHostile(other hostapi.PlayerID) bool         { return p.hostiles[other] }
func (fakePlayer) BuildingTypeAllowed(hostapi.BuildingTypeID) bool { return true }
func (fakePlayer) WorkersAvailable(hostapi.BuildingTypeID) bool    { return true }
func (p fakePlayer) FindAttackSoldiers(flag hostapi.FlagID) int    { return p.attackers[flag] }

type fakeDescriptors struct {
	byID map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor
}

func (d fakeDescriptors) Building(id hostapi.BuildingTypeID) (hostapi.BuildingDescriptor, bool) {
	desc, ok := d.byID[id]
	return desc, ok
}
func (d fakeDescriptors) AllBuildings() []hostapi.BuildingTypeID { return nil }
func (d fakeDescriptors) Ware(hostapi.WareID) (hostapi.WareDescriptor, bool) {
	return hostapi.WareDescriptor{}, false
}
func (d fakeDescriptors) ResourceByName(string) (hostapi.ResourceID, bool) { return "", false }

type fakeStats struct {
	strength map[hostapi.PlayerID]int
	known    map[hostapi.PlayerID]bool
}

func (s fakeStats) MilitaryStrength(p hostapi.PlayerID) (int, bool) {
	if !s.known[p] {
		return 0, false
	}
	return s.strength[p], true
}
func (s fakeStats) StatisticsPercent(hostapi.SiteID) int  { return 0 }
func (s fakeStats) CrudeStatistics(hostapi.SiteID) []bool { return nil }

type commandLog struct {
	flagActions []struct {
		target    hostapi.FlagID
		attacker  hostapi.PlayerID
		attackers int
	}
}

func (c *commandLog) Build(hostapi.PlayerID, hexmap.Coord, hostapi.BuildingTypeID) {}
func (c *commandLog) BuildFlag(hostapi.PlayerID, hexmap.Coord)                     {}
func (c *commandLog) BuildRoad(hostapi.PlayerID, []hexmap.Coord)                   {}
func (c *commandLog) Dismantle(hostapi.SiteID)                                     {}
func (c *commandLog) Bulldoze(hostapi.ImmovableID)                                 {}
func (c *commandLog) EnhanceBuilding(hostapi.SiteID, hostapi.BuildingTypeID)       {}
func (c *commandLog) StartStopBuilding(hostapi.SiteID)                             {}
func (c *commandLog) ChangeSoldierCapacity(hostapi.SiteID, int)                    {}
func (c *commandLog) SetSoldierPreference(hostapi.SiteID, hostapi.SoldierPreference) {}
func (c *commandLog) EnemyFlagAction(target hostapi.FlagID, attacker hostapi.PlayerID, attackers int) {
	c.flagActions = append(c.flagActions, struct {
		target    hostapi.FlagID
		attacker  hostapi.PlayerID
		attackers int
	}{target, attacker, attackers})
}

func seedMilitarySite(tbl *observers.Table, c hexmap.Coord, site hostapi.SiteID, bid hostapi.BuildingTypeID) {
	tbl.Reconcile(0, []events.ImmovableAlert{{
		Tick:   0,
		Gained: true,
		Change: hostapi.ImmovableChange{Coord: c, Imm: hostapi.Immovable{ID: hostapi.ImmovableID(site), Kind: hostapi.ImmMilitarySite, Coord: c, Owner: 1, HasSite: true, Site: site, TypeID: bid}},
	}}, nil)
}

func TestAttemptBlocksWhenNoOpponentAttackable(t *testing.T) {
	m := newFakeMap()
	c := hexmap.Coord{X: 5, Y: 5}
	enemyCoord := hexmap.Coord{X: 6, Y: 5}
	m.immovables[c] = []hostapi.Immovable{
		{ID: 40, Kind: hostapi.ImmMilitarySite, Coord: enemyCoord, Owner: 2, SoldiersPresent: 3},
	}

	cmds := &commandLog{}
	tbl := observers.New()
	host := hostapi.Host{
		Map:         m,
		Player:      fakePlayer{hostiles: map[hostapi.PlayerID]bool{2: true}},
		Descriptors: fakeDescriptors{byID: map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor{"keep": {ID: "keep", VisionRange: 2}}},
		Commands:    cmds,
		Stats:       fakeStats{known: map[hostapi.PlayerID]bool{1: true, 2: true}, strength: map[hostapi.PlayerID]int{1: 10, 2: 100}},
	}
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "keep", VisionRange: 2})
	seedMilitarySite(tbl, c, 1, "keep")

	p := New(host, tbl, Normal)
	acted := p.Attempt(1000)
	assert.False(t, acted)
	assert.Empty(t, cmds.flagActions)

	assert.False(t, p.Attempt(1000+hostapi.Second))
	// still within the cooldown window set by the first Attempt call
	assert.False(t, p.Attempt(1000+hostapi.Minute))
	// past the cooldown: reconsiders, but the opponent is still too strong
	assert.False(t, p.Attempt(1000+2*hostapi.Minute+1))
}

func TestAttemptEmitsEnemyFlagActionAgainstWeakerOpponent(t *testing.T) {
	m := newFakeMap()
	ownCoord := hexmap.Coord{X: 0, Y: 0}
	targetCoord := hexmap.Coord{X: 2, Y: 0}
	flagCoord := hexmap.Coord{X: 1, Y: 0}

	m.immovables[ownCoord] = []hostapi.Immovable{
		{ID: 70, Kind: hostapi.ImmMilitarySite, Coord: targetCoord, Owner: 2, TypeID: "enemy_keep", SoldiersPresent: 1},
	}
	m.immovables[targetCoord] = []hostapi.Immovable{
		{ID: 80, Kind: hostapi.ImmFlag, Coord: flagCoord, Owner: 2},
	}

	cmds := &commandLog{}
	tbl := observers.New()
	host := hostapi.Host{
		Map: m,
		Player: fakePlayer{
			hostiles:  map[hostapi.PlayerID]bool{2: true},
			attackers: map[hostapi.FlagID]int{80: 5},
		},
		Descriptors: fakeDescriptors{byID: map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor{
			"keep":       {ID: "keep", VisionRange: 3},
			"enemy_keep": {ID: "enemy_keep", VisionRange: 2},
		}},
		Commands: cmds,
		Stats:    fakeStats{known: map[hostapi.PlayerID]bool{1: true, 2: true}, strength: map[hostapi.PlayerID]int{1: 100, 2: 50}},
	}
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "keep", VisionRange: 3})
	seedMilitarySite(tbl, ownCoord, 1, "keep")

	p := New(host, tbl, Normal)
	acted := p.Attempt(1000)
	require.True(t, acted)
	require.Len(t, cmds.flagActions, 1)
	assert.Equal(t, hostapi.FlagID(80), cmds.flagActions[0].target)
	assert.Equal(t, hostapi.PlayerID(1), cmds.flagActions[0].attacker)
	assert.Equal(t, 5, cmds.flagActions[0].attackers)
}

func TestAttemptSkipsWhenNoAttackSoldiersAvailable(t *testing.T) {
	m := newFakeMap()
	ownCoord := hexmap.Coord{X: 0, Y: 0}
	targetCoord := hexmap.Coord{X: 2, Y: 0}
	flagCoord := hexmap.Coord{X: 1, Y: 0}

	m.immovables[ownCoord] = []hostapi.Immovable{
		{ID: 70, Kind: hostapi.ImmMilitarySite, Coord: targetCoord, Owner: 2, TypeID: "enemy_keep", SoldiersPresent: 1},
	}
	m.immovables[targetCoord] = []hostapi.Immovable{
		{ID: 80, Kind: hostapi.ImmFlag, Coord: flagCoord, Owner: 2},
	}

	cmds := &commandLog{}
	tbl := observers.New()
	host := hostapi.Host{
		Map: m,
		Player: fakePlayer{
			hostiles:  map[hostapi.PlayerID]bool{2: true},
			attackers: map[hostapi.FlagID]int{},
		},
		Descriptors: fakeDescriptors{byID: map[hostapi.BuildingTypeID]hostapi.BuildingDescriptor{
			"keep":       {ID: "keep", VisionRange: 3},
			"enemy_keep": {ID: "enemy_keep", VisionRange: 2},
		}},
		Commands: cmds,
		Stats:    fakeStats{known: map[hostapi.PlayerID]bool{1: true, 2: true}, strength: map[hostapi.PlayerID]int{1: 100, 2: 50}},
	}
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "keep", VisionRange: 3})
	seedMilitarySite(tbl, ownCoord, 1, "keep")

	p := New(host, tbl, Normal)
	acted := p.Attempt(1000)
	assert.False(t, acted)
	assert.Empty(t, cmds.flagActions)
}

func TestPersonalityThresholds(t *testing.T) {
	assert.Equal(t, 80, Aggressive.threshold())
	assert.Equal(t, 100, Normal.threshold())
	assert.Equal(t, 120, Defensive.threshold())
}
