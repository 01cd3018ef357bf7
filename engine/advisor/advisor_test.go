package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhearth/tribeai/engine/config"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/internal/simhost"
)

func newTestHost() (*simhost.World, *simhost.PlayerView, *simhost.DescriptorTable, hostapi.Host) {
	world := simhost.NewWorld(30, 30)
	player := simhost.NewPlayerView(1)
	descriptors := simhost.NewDescriptorTable()
	descriptors.AddBuilding(hostapi.BuildingDescriptor{ID: "keep", Kind: hostapi.KindMilitarySite, Size: hostapi.SizeSmall, VisionRange: 3})

	host := hostapi.Host{
		Map:         world,
		Player:      player,
		Descriptors: descriptors,
		Economies:   world,
		Commands:    &simhost.CommandLog{},
		Notify:      world,
		Stats:       world,
	}
	return world, player, descriptors, host
}

func TestNewRegistersEveryNamedPhase(t *testing.T) {
	_, _, _, host := newTestHost()

	a, err := New(host, config.Default())
	require.NoError(t, err)

	for _, name := range []string{
		"buildable_sweep", "unusable_sweep", "mineable_sweep",
		"construction", "mine_construction", "sites", "roads", "attack",
	} {
		_, ok := a.Due(name)
		assert.True(t, ok, "phase %q should be registered", name)
	}
}

func TestNewRejectsUnknownPersonality(t *testing.T) {
	_, _, _, host := newTestHost()

	cfg := config.Default()
	cfg.PersonalityName = "bogus"
	_, err := New(host, cfg)
	assert.ErrorIs(t, err, config.ErrInvalidPersonality)
}

func TestThinkDrainsOwnershipGainIntoFieldIndex(t *testing.T) {
	world, _, _, host := newTestHost()

	a, err := New(host, config.Default())
	require.NoError(t, err)

	c := hexmap.Coord{X: 5, Y: 5}
	world.SetTile(c, 1, hexmap.CapSmall, hostapi.TerrainNone)
	world.GrantField(c, 1)

	// The gained field enters as Unusable; the unusable sweep, due on the
	// first Think, then promotes the owned small-buildable tile.
	a.Think(0)

	assert.Len(t, a.Index.Buildable(), 1)
	assert.Equal(t, c, a.Index.Buildable()[0].Coord)
}

func TestThinkReconcilesImmovableGainIntoObserverTable(t *testing.T) {
	world, _, descriptors, host := newTestHost()

	a, err := New(host, config.Default())
	require.NoError(t, err)

	c := hexmap.Coord{X: 6, Y: 6}
	desc, ok := descriptors.Building("keep")
	require.True(t, ok)

	world.PlaceImmovable(hostapi.Immovable{
		ID: 1, Kind: hostapi.ImmMilitarySite, Coord: c, Owner: 1,
		HasSite: true, Site: 1, TypeID: desc.ID,
	})

	a.Think(0)

	_, ok = a.Table.MilitarySite(1)
	assert.True(t, ok)
}

func TestThinkDoesNotPanicAcrossManyTicks(t *testing.T) {
	_, _, _, host := newTestHost()

	a, err := New(host, config.Default())
	require.NoError(t, err)

	for tick := hostapi.Tick(0); tick < 300*hostapi.Second; tick += hostapi.Second {
		a.Think(tick)
	}
}
