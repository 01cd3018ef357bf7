package fields

import (
	"github.com/google/uuid"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

func newHandle() Handle { return uuid.New() }

// Radii used by the feature-vector scan, spec.md §4.2.
const (
	waterRadius         = 5
	distantWaterRadius  = 14
	fishRadius          = 6
	critterRadius       = 6
	borderRadius        = 4
	minMilitaryRadius   = 10
	slowFeatureInterval = 10 // fish/critters re-scanned every 10th update
)

// Sweeper owns the field-classification and feature-refresh passes of
// spec.md §4.2. It holds no state of its own beyond a per-field update
// counter (carried on the field itself) so that Think(tick) can run it
// freely.
type Sweeper struct {
	Host     hostapi.Host
	PlayerID hostapi.PlayerID
	Index    *Index
}

type mapBounds struct{ m hostapi.Map }

func (b mapBounds) Contains(c hexmap.Coord) bool { return b.m.InBounds(c) }

func (s *Sweeper) region(center hexmap.Coord, radius int) []hexmap.Coord {
	return hexmap.Region(center, radius, mapBounds{s.Host.Map})
}

// SweepUnusable promotes up to unusableSweepBatch stale unusable fields,
// per spec.md §4.2 ("Unusable sweep: at most 50 per call, promote to
// buildable or mineable when build-cap appears, else rotate").
func (s *Sweeper) SweepUnusable(now hostapi.Tick) {
	examined := 0
	pending := append([]UnusableField(nil), s.Index.unusable...)
	for _, f := range pending {
		if examined == unusableSweepBatch {
			break
		}
		if f.NextUpdateDue > now {
			continue
		}
		examined++

		if s.Host.Map.Owner(f.Coord) != s.PlayerID {
			s.Index.LoseField(f.Coord)
			continue
		}
		cap := s.Host.Map.BuildCaps(f.Coord)
		if cap.IsMineable() || cap.IsBuildable() {
			s.reclassifyHandle(f.Coord, f.Handle, cap, now)
			continue
		}
		// still unclassifiable: rotate to the back for the next sweep
		s.Index.LoseField(f.Coord)
		f.NextUpdateDue = now
		s.Index.unusable = append(s.Index.unusable, f)
		s.Index.byCoord[f.Coord] = location{kindUnusable, len(s.Index.unusable) - 1}
	}
}

// SweepBuildable refreshes up to buildableSweepBatch due buildable fields
// (spec.md §4.2).
func (s *Sweeper) SweepBuildable(now hostapi.Tick) bool {
	return s.sweepBuildableN(now, buildableSweepBatch)
}

func (s *Sweeper) sweepBuildableN(now hostapi.Tick, batch int) bool {
	changed := false
	examined := 0
	for i := 0; i < len(s.Index.buildable) && examined < batch; i++ {
		f := s.Index.buildable[i]
		if f.NextUpdateDue > now {
			continue
		}
		examined++
		changed = true

		if s.Host.Map.Owner(f.Coord) != s.PlayerID {
			s.Index.LoseField(f.Coord)
			i--
			continue
		}
		cap := s.Host.Map.BuildCaps(f.Coord)
		if !cap.IsBuildable() {
			s.reclassify(f.Coord, cap, now)
			i--
			continue
		}
		s.UpdateBuildableField(&s.Index.buildable[i], waterRadius, false, now)
		s.rotateBuildableToBack(i)
		i--
	}
	return changed
}

func (s *Sweeper) rotateBuildableToBack(idx int) {
	f := s.Index.buildable[idx]
	last := len(s.Index.buildable) - 1
	copy(s.Index.buildable[idx:last], s.Index.buildable[idx+1:])
	s.Index.buildable[last] = f
	for i := idx; i <= last; i++ {
		s.Index.byCoord[s.Index.buildable[i].Coord] = location{kindBuildable, i}
	}
}

// SweepMineable refreshes up to mineableSweepBatch due mineable fields.
func (s *Sweeper) SweepMineable(now hostapi.Tick) {
	n := len(s.Index.mineable)
	examined := 0
	for i := 0; i < n && examined < mineableSweepBatch; i++ {
		if i >= len(s.Index.mineable) {
			break
		}
		f := s.Index.mineable[i]
		if f.NextUpdateDue > now {
			continue
		}
		examined++
		if s.Host.Map.Owner(f.Coord) != s.PlayerID {
			s.Index.LoseField(f.Coord)
			n--
			i--
			continue
		}
		cap := s.Host.Map.BuildCaps(f.Coord)
		if !cap.IsMineable() {
			s.reclassify(f.Coord, cap, now)
			n--
			i--
			continue
		}
		s.UpdateMineableField(&s.Index.mineable[i], now)
	}
}

// reclassify moves the field at c into whichever queue its current
// build-cap belongs to, minting a fresh handle (used when a field's own
// queue already rejected it this sweep, so no caller still holds its old
// handle).
func (s *Sweeper) reclassify(c hexmap.Coord, cap hexmap.BuildCap, now hostapi.Tick) {
	s.Index.LoseField(c)
	s.insertByCap(c, newHandle(), cap, now)
}

// reclassifyHandle is reclassify but keeps the caller-supplied handle
// stable across the move (spec.md §9, stable handles).
func (s *Sweeper) reclassifyHandle(c hexmap.Coord, h Handle, cap hexmap.BuildCap, now hostapi.Tick) {
	s.Index.LoseField(c)
	s.insertByCap(c, h, cap, now)
}

func (s *Sweeper) insertByCap(c hexmap.Coord, h Handle, cap hexmap.BuildCap, now hostapi.Tick) {
	switch {
	case cap.IsMineable():
		mf := MineableField{Handle: h, Coord: c, NextUpdateDue: now}
		s.Index.mineable = append(s.Index.mineable, mf)
		s.Index.byCoord[c] = location{kindMineable, len(s.Index.mineable) - 1}
	case cap.IsBuildable():
		bf := BuildableField{Handle: h, Coord: c, NextUpdateDue: now, FishNearby: -1}
		s.Index.buildable = append(s.Index.buildable, bf)
		s.Index.byCoord[c] = location{kindBuildable, len(s.Index.buildable) - 1}
	default:
		uf := UnusableField{Handle: h, Coord: c, NextUpdateDue: now}
		s.Index.unusable = append(s.Index.unusable, uf)
		s.Index.byCoord[c] = location{kindUnusable, len(s.Index.unusable) - 1}
	}
}

// UpdateMineableField recomputes mines_nearby and preferred-flag state for
// one mineable tile (spec.md §4.2).
func (s *Sweeper) UpdateMineableField(f *MineableField, now hostapi.Tick) {
	count := 0
	for _, imm := range s.Host.Map.FindImmovables(f.Coord, 4) {
		if imm.Kind == hostapi.ImmMine {
			count++
		}
	}
	f.MinesNearby = count
	f.PreferredFlag = isPreferred(s.Host.Map, f.Coord)
	f.NextUpdateDue = now + 7*hostapi.Second
}

// UpdateBuildableField recomputes the full feature vector for one buildable
// tile (spec.md §4.2). militaryOnly widens the military re-scan radius to
// at least 10 without recomputing the slower-changing features.
func (s *Sweeper) UpdateBuildableField(f *BuildableField, radius int, militaryOnly bool, now hostapi.Tick) {
	if militaryOnly {
		f.MilitaryLoneliness = 1000
		s.scanMilitary(f, maxInt(radius, minMilitaryRadius))
		f.NextUpdateDue = now
		return
	}

	first := f.FishNearby == -1 && f.updateCount == 0
	f.updateCount++
	count := f.updateCount

	// Reset per-update accumulators (military metrics always reset, spec.md §4.2).
	f.MilitaryCapacity = 0
	f.MilitaryPresence = 0
	f.MilitaryStationed = 0
	f.MilitaryInConstructionNearby = 0
	f.MilitaryLoneliness = 1000
	f.ProducersNearby, f.ConsumersNearby = newBuildableFeatures()
	f.SpaceConsumersNearby = 0
	f.TreesNearby = 0
	f.EnemyNearby = false
	// Stones do not regrow: each rescan recounts only what FindImmovables
	// still reports, so a mined stone simply stops contributing.
	f.StonesNearby = 0

	immovables := s.Host.Map.FindImmovables(f.Coord, radius)
	for _, imm := range immovables {
		s.classifyImmovable(f, imm, now)
	}

	s.scanMilitary(f, maxInt(radius, minMilitaryRadius))

	f.WaterNearby = s.countWater(f.Coord, waterRadius)
	if f.WaterNearby == 0 {
		if s.countWater(f.Coord, distantWaterRadius) > 0 {
			f.DistantWater = 1
		} else {
			f.DistantWater = 0
		}
	} else {
		f.DistantWater = 0
	}

	if first || count%slowFeatureInterval == 0 {
		f.FishNearby = s.countFish(f.Coord, fishRadius)
		f.CrittersNearby = s.countCritters(f.Coord, critterRadius)
	}

	f.UnownedLandNearby, f.UnownedMinesPotentialNearby = s.countUnowned(f.Coord, radius)
	f.NearBorder = s.hasUnownedWithin(f.Coord, borderRadius)
	f.Preferred = isPreferred(s.Host.Map, f.Coord)
	f.NextUpdateDue = now + 6*hostapi.Second
}

func (s *Sweeper) classifyImmovable(f *BuildableField, imm hostapi.Immovable, now hostapi.Tick) {
	if imm.Owner != 0 && imm.Owner != s.PlayerID && s.Host.Player.IsHostile(imm.Owner) {
		f.EnemyNearby = true
		f.EnemyLastSeen = now
	}

	switch imm.Kind {
	case hostapi.ImmTree:
		f.TreesNearby++
	case hostapi.ImmStone:
		f.StonesNearby++
	case hostapi.ImmConstructionSite, hostapi.ImmProductionSite:
		desc, ok := s.Host.Descriptors.Building(imm.TypeID)
		if !ok {
			return
		}
		for _, w := range desc.Outputs {
			f.ProducersNearby[w]++
		}
		for _, w := range desc.Inputs {
			f.ConsumersNearby[w]++
		}
		if desc.Hints.SpaceConsumer {
			f.SpaceConsumersNearby++
		}
		if imm.Kind == hostapi.ImmConstructionSite && desc.Kind == hostapi.KindMilitarySite {
			f.MilitaryInConstructionNearby++
		}
	case hostapi.ImmMilitarySite:
		if imm.Owner != s.PlayerID {
			return
		}
		desc, ok := s.Host.Descriptors.Building(imm.TypeID)
		if ok {
			f.MilitaryCapacity += desc.MaxSoldiers
		}
		f.MilitaryPresence += imm.SoldiersPresent
		if imm.SoldiersPresent > 0 {
			f.MilitaryStationed++
		}
	}
}

func (s *Sweeper) scanMilitary(f *BuildableField, radius int) {
	for _, imm := range s.Host.Map.FindImmovables(f.Coord, radius) {
		if imm.Kind != hostapi.ImmMilitarySite || imm.Owner != s.PlayerID {
			continue
		}
		d := hexmap.Distance(f.Coord, imm.Coord)
		if d > radius {
			continue
		}
		f.MilitaryLoneliness = f.MilitaryLoneliness * minInt(d, radius) / radius
	}
}

func (s *Sweeper) countWater(c hexmap.Coord, radius int) int {
	count := 0
	for _, n := range s.region(c, radius) {
		if s.Host.Map.Terrain(n) == hostapi.TerrainWater {
			count++
		}
	}
	return count
}

func (s *Sweeper) countFish(c hexmap.Coord, radius int) int {
	total := 0
	for _, n := range s.region(c, radius) {
		total += s.Host.Map.FishAmount(n)
	}
	return total
}

func (s *Sweeper) countCritters(c hexmap.Coord, radius int) int {
	count := 0
	for _, b := range s.Host.Map.FindBobs(c, radius) {
		if b.IsCritter {
			count++
		}
	}
	return count
}

func (s *Sweeper) countUnowned(c hexmap.Coord, radius int) (land, minePotential int) {
	for _, n := range s.region(c, radius) {
		if s.Host.Map.Owner(n) != 0 {
			continue
		}
		cap := s.Host.Map.BuildCaps(n)
		if cap.IsBuildable() {
			land++
		}
		if cap.IsMineable() {
			minePotential++
		}
	}
	return
}

func (s *Sweeper) hasUnownedWithin(c hexmap.Coord, radius int) bool {
	for _, n := range s.region(c, radius) {
		if s.Host.Map.Owner(n) == 0 {
			return true
		}
	}
	return false
}

// isPreferred reports whether the SE neighbor already hosts a flag or a
// road on a flaggable tile (spec.md §3, "preferred tile").
func isPreferred(m hostapi.Map, c hexmap.Coord) bool {
	se := c.SE()
	if !m.InBounds(se) {
		return false
	}
	for _, imm := range m.FindImmovables(se, 0) {
		if imm.Kind == hostapi.ImmFlag {
			return true
		}
		if imm.Kind == hostapi.ImmRoad && m.BuildCaps(se).BuildableAtLeast(hexmap.CapFlag) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
