package observers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhearth/tribeai/engine/events"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

func TestRegisterBuildingWiresWareProducersAndConsumers(t *testing.T) {
	tbl := New()
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{
		ID:      "lumberjack",
		Kind:    hostapi.KindProductionSite,
		Outputs: []hostapi.WareID{"log"},
	})
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{
		ID:      "sawmill",
		Kind:    hostapi.KindProductionSite,
		Inputs:  []hostapi.WareID{"log"},
		Outputs: []hostapi.WareID{"plank"},
	})

	logWare, ok := tbl.Ware("log")
	require.True(t, ok)
	assert.Equal(t, []hostapi.BuildingTypeID{"lumberjack"}, logWare.Producers)
	assert.Equal(t, []hostapi.BuildingTypeID{"sawmill"}, logWare.Consumers)
}

func TestMustBuildingPanicsOnUnknownType(t *testing.T) {
	tbl := New()
	assert.Panics(t, func() { tbl.MustBuilding("nonexistent") })
}

func TestReconcileTracksConstructionThenCompletion(t *testing.T) {
	tbl := New()
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "well", Kind: hostapi.KindProductionSite})

	csAlert := events.ImmovableAlert{
		Gained: true,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmConstructionSite, TypeID: "well"}},
	}
	tbl.Reconcile(0, []events.ImmovableAlert{csAlert}, nil)
	bo, _ := tbl.Building("well")
	assert.Equal(t, 1, bo.CntUnderConstruction)
	assert.Equal(t, 0, bo.CntBuilt)

	finishedAlert := events.ImmovableAlert{
		Gained: true,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmProductionSite, TypeID: "well", Site: 7}},
	}
	tbl.Reconcile(100, []events.ImmovableAlert{finishedAlert}, nil)
	assert.Equal(t, 1, bo.CntBuilt)

	so, ok := tbl.Site(7)
	require.True(t, ok)
	assert.Equal(t, hostapi.Tick(100), so.BuiltTime)

	lostAlert := events.ImmovableAlert{
		Gained: false,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmProductionSite, TypeID: "well", Site: 7}},
	}
	tbl.Reconcile(200, []events.ImmovableAlert{lostAlert}, nil)
	assert.Equal(t, 0, bo.CntBuilt)
	_, ok = tbl.Site(7)
	assert.False(t, ok)
}

func TestReconcileMilitarySiteGainAndLoss(t *testing.T) {
	tbl := New()
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "barracks", Kind: hostapi.KindMilitarySite})

	gain := events.ImmovableAlert{
		Gained: true,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmMilitarySite, TypeID: "barracks", Site: 3}},
	}
	tbl.Reconcile(0, []events.ImmovableAlert{gain}, nil)
	_, ok := tbl.MilitarySite(3)
	assert.True(t, ok)

	lose := gain
	lose.Gained = false
	tbl.Reconcile(0, []events.ImmovableAlert{lose}, nil)
	_, ok = tbl.MilitarySite(3)
	assert.False(t, ok)
}

func TestGainThenLoseRestoresCountsExactly(t *testing.T) {
	tbl := New()
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "quarry", Kind: hostapi.KindProductionSite})

	alert := events.ImmovableAlert{
		Gained: true,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmProductionSite, TypeID: "quarry", Site: 1}},
	}
	tbl.Reconcile(0, []events.ImmovableAlert{alert}, nil)
	inverse := alert
	inverse.Gained = false
	tbl.Reconcile(0, []events.ImmovableAlert{inverse}, nil)

	bo, _ := tbl.Building("quarry")
	assert.Equal(t, 0, bo.CntBuilt)
	assert.Equal(t, 0, bo.CntUnderConstruction)
}

func TestBlockedFieldExpiresBeforeNextScan(t *testing.T) {
	tbl := New()
	c := hexmap.Coord{X: 1, Y: 1}
	tbl.Block(c, 100)

	assert.True(t, tbl.IsBlocked(c, 50))
	assert.False(t, tbl.IsBlocked(c, 100), "blocked_until_tick > t is required, equal is not blocked")
	assert.Empty(t, tbl.Blocked(100))
}

func TestNoteOutOfResourcesIncrementsSiteCounter(t *testing.T) {
	tbl := New()
	tbl.RegisterBuilding(hostapi.BuildingDescriptor{ID: "mine", Kind: hostapi.KindMine})
	gain := events.ImmovableAlert{
		Gained: true,
		Change: hostapi.ImmovableChange{Imm: hostapi.Immovable{Kind: hostapi.ImmMine, TypeID: "mine", Site: 9}},
	}
	tbl.Reconcile(0, []events.ImmovableAlert{gain}, nil)

	tbl.NoteOutOfResources(events.ResourceAlert{Site: 9})
	tbl.NoteOutOfResources(events.ResourceAlert{Site: 9})

	so, ok := tbl.Site(9)
	require.True(t, ok)
	assert.Equal(t, 2, so.NoResourcesCount)
}
