// Command aidemo runs the advisor engine against an in-memory host for a
// fixed number of ticks and prints the commands it would have issued.
//
// Grounded on the teacher's cmd/game/main.go (flag-parsed entry point, a
// hand-built demo map, a fixed-timestep loop) with every rendering/audio/
// input concern stripped: this binary has no window, no sprites, nothing
// to draw — it exists to drive engine/advisor.Advisor the way the teacher's
// main.go drives ebiten.Game.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/ironhearth/tribeai/engine/advisor"
	"github.com/ironhearth/tribeai/engine/config"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/internal/simhost"
)

const mapSize = 12

func main() {
	ticks := flag.Int("ticks", 600, "number of game-time seconds to simulate")
	configPath := flag.String("config", "aidemo.toml", "path to the AI config file (created with defaults if missing)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	_, _, host := buildDemoHost()

	adv, err := advisor.New(host, cfg)
	if err != nil {
		log.Error("wire advisor", "err", err)
		os.Exit(1)
	}

	log.Info("starting demo run", "ticks", *ticks, "personality", cfg.PersonalityName)

	commands := host.Commands.(*simhost.CommandLog)
	issued := 0
	for t := 0; t < *ticks; t++ {
		now := hostapi.Tick(t) * hostapi.Second
		adv.Think(now)
		for ; issued < len(commands.Commands); issued++ {
			logCommand(log, now, commands.Commands[issued])
		}
	}

	log.Info("demo run complete", "commands_issued", len(commands.Commands),
		"buildable_fields", len(adv.Index.Buildable()),
		"mineable_fields", len(adv.Index.Mineable()),
		"unusable_fields", len(adv.Index.Unusable()))
}

func logCommand(log *slog.Logger, now hostapi.Tick, c simhost.Command) {
	log.Info("command", "tick", int64(now), "kind", commandKindName(c.Kind),
		"site", uint64(c.Site), "building", string(c.Building), "flag", uint64(c.Flag))
}

func commandKindName(k simhost.CmdKind) string {
	switch k {
	case simhost.CmdBuild:
		return "build"
	case simhost.CmdBuildFlag:
		return "build_flag"
	case simhost.CmdBuildRoad:
		return "build_road"
	case simhost.CmdDismantle:
		return "dismantle"
	case simhost.CmdBulldoze:
		return "bulldoze"
	case simhost.CmdEnhanceBuilding:
		return "enhance_building"
	case simhost.CmdStartStopBuilding:
		return "start_stop_building"
	case simhost.CmdChangeSoldierCapacity:
		return "change_soldier_capacity"
	case simhost.CmdSetSoldierPreference:
		return "set_soldier_preference"
	case simhost.CmdEnemyFlagAction:
		return "enemy_flag_action"
	default:
		return "unknown"
	}
}

// buildDemoHost assembles a small owned territory with a keep and its flag,
// a stone-bearing mineable tile, and a rival keep with its flag within
// sighting range for the Attack Planner to consider. No production site is
// placed; sawmill and quarry are only registered as descriptors. Enough surface for
// every planner to have something to look at without attempting to model a
// full game.
func buildDemoHost() (*simhost.World, *simhost.DescriptorTable, hostapi.Host) {
	world := simhost.NewWorld(mapSize, mapSize)

	descriptors := simhost.NewDescriptorTable()
	descriptors.AddBuilding(hostapi.BuildingDescriptor{
		ID: "keep", Name: "Keep", Kind: hostapi.KindMilitarySite,
		Size: hostapi.SizeSmall, VisionRange: 4, MaxSoldiers: 3,
	})
	descriptors.AddBuilding(hostapi.BuildingDescriptor{
		ID: "sawmill", Name: "Sawmill", Kind: hostapi.KindProductionSite,
		Size: hostapi.SizeMedium, VisionRange: 2,
		Inputs: []hostapi.WareID{"log"}, Outputs: []hostapi.WareID{"plank"},
	})
	descriptors.AddBuilding(hostapi.BuildingDescriptor{
		ID: "quarry", Name: "Quarry", Kind: hostapi.KindProductionSite,
		Size: hostapi.SizeSmall, VisionRange: 2,
		Hints: hostapi.BuildingHints{NeedStones: true, IsStoneProducer: true},
		Outputs: []hostapi.WareID{"stone"},
	})
	descriptors.AddWare(hostapi.WareDescriptor{ID: "log", Preciousness: 4})
	descriptors.AddWare(hostapi.WareDescriptor{ID: "plank", Preciousness: 8})
	descriptors.AddWare(hostapi.WareDescriptor{ID: "stone", Preciousness: 6})
	descriptors.AddResourceName("stone", "res_stone")

	player := simhost.NewPlayerView(1)
	player.Hostiles[2] = true
	player.Attackers[100] = 4

	for x := 0; x < mapSize; x++ {
		for y := 0; y < mapSize; y++ {
			c := hexmap.Coord{X: x, Y: y}
			owner := hostapi.PlayerID(0)
			if x < mapSize/2 {
				owner = 1
			} else {
				owner = 2
			}
			world.SetTile(c, owner, hexmap.CapFlag|hexmap.CapSmall|hexmap.CapMedium, hostapi.TerrainNone)
		}
	}
	world.SetResource(hexmap.Coord{X: 2, Y: 4}, "res_stone", 400)
	world.SetTile(hexmap.Coord{X: 2, Y: 4}, 1, hexmap.CapMine, hostapi.TerrainNone)

	for x := 0; x < mapSize/2; x++ {
		for y := 0; y < mapSize; y++ {
			world.GrantField(hexmap.Coord{X: x, Y: y}, 1)
		}
	}

	keepCoord := hexmap.Coord{X: 3, Y: 2}
	world.PlaceImmovable(hostapi.Immovable{
		ID: 1, Kind: hostapi.ImmMilitarySite, Coord: keepCoord, Owner: 1,
		HasSite: true, Site: 1, TypeID: "keep", SoldiersPresent: 2,
	})
	world.AddFlag(50, hexmap.Coord{X: 3, Y: 3}, 500)
	world.SetMilitaryStrength(1, 120)

	enemyKeepCoord := hexmap.Coord{X: 6, Y: 2}
	world.PlaceImmovable(hostapi.Immovable{
		ID: 2, Kind: hostapi.ImmMilitarySite, Coord: enemyKeepCoord, Owner: 2,
		HasSite: true, Site: 2, TypeID: "keep", SoldiersPresent: 1,
	})
	world.AddFlag(100, hexmap.Coord{X: 6, Y: 3}, 501)
	world.SetMilitaryStrength(2, 40)

	host := hostapi.Host{
		Map:         world,
		Player:      player,
		Descriptors: descriptors,
		Economies:   world,
		Commands:    &simhost.CommandLog{},
		Notify:      world,
		Stats:       world,
	}
	return world, descriptors, host
}
