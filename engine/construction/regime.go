// Package construction implements the Construction Planner (spec.md §4.3):
// per construction cadence, scan buildable fields × candidate building
// observers and emit the single highest-priority build command.
//
// Grounded on engine/ai/ai.go's aiBuildBuilding/build-order gating
// (prerequisite checks before a build attempt) and enriched with the
// multi-criteria weighted-scoring style of
// other_examples/52843349_Solifugus-teraglest__internal-engine-ai_managers.go.go
// (ProductionOrder/EconomicTarget priority fields, sorted candidates) and
// other_examples/b82e3972_freeeve-polite-betrayal__api-internal-bot-strategy_hard.go.go
// (multi-factor weighted scoring of candidate actions) — both reference
// files, not teachers.
package construction

import (
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// ExpansionMode gates whether new military sites may be started (spec.md
// §4.3).
type ExpansionMode uint8

const (
	PushExpansion ExpansionMode = iota
	ResourcesOrDefense
	DefenseOnly
	NoNewMilitary
)

// enemySeenGrace is the "unless an enemy was seen within the last 2
// minutes" override window for new_buildings_stop (spec.md §4.3).
const enemySeenGrace = 120 * hostapi.Second

// Regime is the strategic snapshot recomputed on every construction
// attempt (spec.md §4.3, "Strategic regime").
type Regime struct {
	FreeSmall, FreeMedium, FreeBig int

	NewBuildingsStop bool
	ExpansionMode    ExpansionMode

	ResourceNecessityMines     int // [0,255]
	ResourceNecessityTerritory int // [0,255]
	ResourceNecessityWater     int // [0,255]
}

func computeRegime(host hostapi.Host, ix *fields.Index, tbl *observers.Table, now hostapi.Tick) Regime {
	var r Regime

	for _, f := range ix.Buildable() {
		if len(host.Map.FindImmovables(f.Coord, 0)) > 0 {
			continue // occupied, not a free spot
		}
		cap := host.Map.BuildCaps(f.Coord)
		switch {
		case cap.BuildableAtLeast(hexmap.CapBig):
			r.FreeBig++
		case cap.BuildableAtLeast(hexmap.CapMedium):
			r.FreeMedium++
		case cap.BuildableAtLeast(hexmap.CapSmall):
			r.FreeSmall++
		}
	}
	freeSpots := r.FreeSmall + r.FreeMedium + r.FreeBig

	var constructionSites, productionSites, mines, militarySites int
	var militaryUnoccupiedOrBuilding int
	var fishers int
	for _, bo := range tbl.Buildings() {
		constructionSites += bo.CntUnderConstruction
		switch bo.Kind {
		case hostapi.KindProductionSite:
			productionSites += bo.CntBuilt
		case hostapi.KindMine:
			mines += bo.CntBuilt
		case hostapi.KindMilitarySite:
			militarySites += bo.CntBuilt
			militaryUnoccupiedOrBuilding += bo.Unoccupied + bo.CntUnderConstruction
		}
		if bo.Descriptor.Hints.IsFisher {
			fishers += bo.CntBuilt
		}
	}

	enemySeenRecently := false
	for _, f := range ix.Buildable() {
		if f.EnemyNearby && now-f.EnemyLastSeen <= enemySeenGrace {
			enemySeenRecently = true
			break
		}
	}

	stop := constructionSites > productionSites/7+2 ||
		freeSpots*3/2+5 < productionSites ||
		productionSites+constructionSites > 3*(militarySites+constructionSites) ||
		mines < 3
	r.NewBuildingsStop = stop && !enemySeenRecently

	threshold := militarySites/40 + 2
	switch {
	case militaryUnoccupiedOrBuilding < threshold:
		r.ExpansionMode = PushExpansion
	case militaryUnoccupiedOrBuilding < threshold*2:
		r.ExpansionMode = ResourcesOrDefense
	case militaryUnoccupiedOrBuilding < threshold*3:
		r.ExpansionMode = DefenseOnly
	default:
		r.ExpansionMode = NoNewMilitary
	}

	virtualMineCount := mines + len(ix.Mineable())/10
	r.ResourceNecessityMines = linInterp(virtualMineCount, 5, 14, 255, 0)

	if r.FreeBig <= 2 {
		r.ResourceNecessityTerritory = 255
	} else {
		r.ResourceNecessityTerritory = clamp(productionSites*255/maxInt(freeSpots, 1), 0, 255)
	}

	switch fishers {
	case 0:
		r.ResourceNecessityWater = 255
	case 1:
		r.ResourceNecessityWater = 150
	default:
		r.ResourceNecessityWater = 18
	}

	return r
}

// linInterp maps v linearly from [loV,hiV] to [loOut,hiOut], clamping
// outside the domain (spec.md §4.3, "255 when ≤5, 0 when >14, linear in
// between").
func linInterp(v, loV, hiV, loOut, hiOut int) int {
	if v <= loV {
		return loOut
	}
	if v > hiV {
		return hiOut
	}
	return loOut + (v-loV)*(hiOut-loOut)/(hiV-loV)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
