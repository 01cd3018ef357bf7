package construction

import (
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// scoreCandidate computes the design-level per-kind priority for placing
// bo's building type on f (spec.md §4.3, "Per-kind scoring"). A result <= 0
// means the candidate is not worth considering.
func scoreCandidate(host hostapi.Host, tbl *observers.Table, r Regime, bo *observers.BuildingObserver, f *fields.BuildableField, now hostapi.Tick) int {
	h := bo.Descriptor.Hints
	var priority int

	switch {
	case h.MinesWater:
		priority = scoreWell(bo, f)
	case h.NeedTrees && h.IsLogProducer:
		priority = scoreLumberjack(tbl, r, bo, f)
	case h.NeedStones:
		priority = scoreQuarry(bo, f)
	case h.IsHunter:
		priority = scoreHunter(bo, f)
	case h.IsFisher:
		priority = scoreFisher(bo, f)
	case h.PlantsTrees:
		priority = scoreRanger(tbl, r, bo, f)
	case h.ProductionHintWare != "":
		priority = scoreBreederOrKeeper(bo, f)
	case h.Recruitment:
		priority = scoreRecruitment(tbl, bo)
	case bo.Descriptor.Kind == hostapi.KindMilitarySite:
		priority = scoreMilitary(r, bo, f, now)
	case bo.Descriptor.Kind == hostapi.KindWarehouse:
		priority = scoreWarehouse(tbl, bo, f)
	case bo.Descriptor.Kind == hostapi.KindTrainingSite:
		priority = scoreTrainingSite(tbl, bo, f)
	default:
		priority = scoreGenericProduction(host, tbl, bo, f, now)
	}

	if priority <= 0 {
		return priority
	}
	return applyFinalPriors(host, priority, bo, f)
}

func scoreWell(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.GroundWater < 2 {
		return 0
	}
	if bo.Stocklevel >= 40 {
		return 0
	}
	priority := f.GroundWater * 10
	if bo.CntBuilt == 0 && bo.CntUnderConstruction == 0 {
		priority += 200
	}
	return priority
}

func scoreLumberjack(tbl *observers.Table, r Regime, bo *observers.BuildingObserver, f *fields.BuildableField) int {
	target := 3 + (countMines(tbl)+countProductionSites(tbl))/15
	existing := bo.CntBuilt + bo.CntUnderConstruction
	if existing >= target {
		return 0
	}

	priority := f.TreesNearby
	switch existing {
	case 0:
		priority += 500
	case 1:
		priority += 400 + f.TreesNearby
	default:
		if f.TreesNearby < 2 {
			return 0
		}
	}
	priority -= sameOutputProducersNearby(bo, f) * 10
	if r.NewBuildingsStop && existing >= 2 {
		priority -= 1000
	}
	return priority
}

func scoreQuarry(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.StonesNearby == 0 {
		return 0
	}
	priority := f.StonesNearby
	if bo.CntBuilt == 0 && bo.CntUnderConstruction == 0 {
		priority += 150
	}
	if bo.Stocklevel == 0 {
		priority *= 2
	}
	priority -= sameOutputProducersNearby(bo, f) * 10
	if f.NearBorder {
		priority /= 2
	}
	return priority
}

func scoreHunter(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.CrittersNearby < 5 {
		return 0
	}
	priority := f.CrittersNearby * 8
	priority -= sameOutputProducersNearby(bo, f) * 10
	return priority
}

func scoreFisher(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.WaterNearby < 2 {
		return 0
	}
	if bo.Stocklevel >= 50 {
		return 0
	}
	if sameOutputProducersNearby(bo, f) > 0 {
		return 0
	}
	return f.WaterNearby * 6
}

func scoreRanger(tbl *observers.Table, r Regime, bo *observers.BuildingObserver, f *fields.BuildableField) int {
	target := 2 + (countMines(tbl)+countProductionSites(tbl))/15
	existing := bo.CntBuilt + bo.CntUnderConstruction
	if existing > 2*target {
		return 0
	}
	if bo.Stocklevel >= 40 {
		return 0
	}
	priority := 20 - f.TreesNearby*2 // sparser trees score higher
	if priority < 0 {
		priority = 0
	}
	priority += sameInputConsumersNearby(bo, f) * 5
	return priority
}

func scoreBreederOrKeeper(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	h := bo.Descriptor.Hints
	if h.ProductionHintWare == "" {
		return 0
	}
	if _, ok := f.ProducersNearby[h.ProductionHintWare]; !ok {
		return 0
	}
	if bo.Stocklevel >= 50 {
		return 0
	}
	if h.NeedWater && f.WaterNearby == 0 {
		return 0
	}
	return f.ProducersNearby[h.ProductionHintWare] * 15
}

func scoreRecruitment(tbl *observers.Table, bo *observers.BuildingObserver) int {
	allowance := (countProductionSites(tbl) + countMines(tbl)) / 30
	if bo.CntBuilt+bo.CntUnderConstruction >= maxInt(allowance, 1) {
		return 0
	}
	return 50
}

func scoreGenericProduction(host hostapi.Host, tbl *observers.Table, bo *observers.BuildingObserver, f *fields.BuildableField, now hostapi.Tick) int {
	h := bo.Descriptor.Hints
	forced := h.ForcedAfterSecs > 0 && int64(now/hostapi.Second) > h.ForcedAfterSecs && bo.CntBuilt == 0 && bo.CntUnderConstruction == 0

	maxNeeded := maxNeededPreciousness(host, bo.Descriptor.Outputs)
	if !forced && maxNeeded == 0 {
		return 0
	}

	priority := maxNeeded + 20
	if forced {
		priority += 300
	}
	if h.SpaceConsumer {
		priority += f.SpaceConsumersNearby * 5
	}
	for _, w := range bo.Descriptor.Outputs {
		priority -= f.ProducersNearby[w] * 10
	}
	return priority
}

func maxNeededPreciousness(host hostapi.Host, outputs []hostapi.WareID) int {
	best := 0
	for _, w := range outputs {
		wd, ok := host.Descriptors.Ware(w)
		if !ok {
			continue
		}
		if wd.Preciousness > best {
			best = wd.Preciousness
		}
	}
	return best
}

func scoreMilitary(r Regime, bo *observers.BuildingObserver, f *fields.BuildableField, now hostapi.Tick) int {
	if f.UnownedLandNearby == 0 {
		return 0
	}
	if r.ExpansionMode == NoNewMilitary {
		return 0
	}
	if r.ExpansionMode == DefenseOnly && !f.EnemyNearby {
		return 0
	}
	if f.MilitaryInConstructionNearby > 0 && !f.EnemyNearby {
		return 0
	}

	priority := f.UnownedLandNearby*r.ResourceNecessityTerritory/255 +
		f.UnownedMinesPotentialNearby*r.ResourceNecessityMines/255 +
		f.StonesNearby/2 +
		f.MilitaryLoneliness/10 +
		f.WaterNearby*r.ResourceNecessityWater/255 -
		60

	if r.ExpansionMode == PushExpansion {
		priority += 200
	}
	if f.EnemyNearby && f.MilitaryCapacity < 3 {
		priority += 400
	}
	return priority
}

// scoreWarehouse caps at roughly one warehouse per 35 production+mine sites
// (spec.md §4.3): no warehouse at all below 35, then at most
// floor(sites/35) built-or-under-construction at any count above that.
func scoreWarehouse(tbl *observers.Table, bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.NearBorder {
		return 0
	}
	allowance := (countProductionSites(tbl) + countMines(tbl)) / 35
	if bo.CntBuilt+bo.CntUnderConstruction >= allowance {
		return 0
	}
	priority := 100
	if f.EnemyNearby || f.UnownedLandNearby > 0 {
		priority /= 2
	}
	return priority
}

// scoreTrainingSite caps at one after the 20th production site, then one
// more every 50 production sites after that (spec.md §4.3).
func scoreTrainingSite(tbl *observers.Table, bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.NearBorder {
		return 0
	}
	production := countProductionSites(tbl)
	if production < 20 {
		return 0
	}
	allowance := 1 + (production-20)/50
	if bo.CntBuilt+bo.CntUnderConstruction >= allowance {
		return 0
	}
	return 75
}

// applyFinalPriors applies spec.md §4.3's closing multiplicative priors.
func applyFinalPriors(host hostapi.Host, priority int, bo *observers.BuildingObserver, f *fields.BuildableField) int {
	if f.Preferred {
		priority++
	}
	maxSize := hostapi.SizeSmall
	for _, size := range []hostapi.BuildSize{hostapi.SizeMedium, hostapi.SizeBig} {
		if sizeFits(host.Map.BuildCaps(f.Coord), size) {
			maxSize = size
		}
	}
	priority -= 5 * (int(maxSize) - int(bo.Descriptor.Size))
	if f.NearBorder && bo.Descriptor.Kind == hostapi.KindProductionSite && !bo.Descriptor.Hints.ExpansionType {
		priority /= 2
	}
	return priority
}

func countMines(tbl *observers.Table) int {
	n := 0
	for _, bo := range tbl.Buildings() {
		if bo.Kind == hostapi.KindMine {
			n += bo.CntBuilt
		}
	}
	return n
}

func countProductionSites(tbl *observers.Table) int {
	n := 0
	for _, bo := range tbl.Buildings() {
		if bo.Kind == hostapi.KindProductionSite {
			n += bo.CntBuilt
		}
	}
	return n
}

func sameOutputProducersNearby(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	n := 0
	for _, w := range bo.Descriptor.Outputs {
		n += f.ProducersNearby[w]
	}
	return n
}

func sameInputConsumersNearby(bo *observers.BuildingObserver, f *fields.BuildableField) int {
	n := 0
	for _, w := range bo.Descriptor.Inputs {
		n += f.ConsumersNearby[w]
	}
	return n
}
