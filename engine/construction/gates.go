package construction

import (
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/observers"
)

// constructionCooldown is the minimum gap between decisions for a building
// type, waived for tree producers (spec.md §4.3).
const constructionCooldown = 25 * hostapi.Second

func sizeFits(cap hexmap.BuildCap, size hostapi.BuildSize) bool {
	switch size {
	case hostapi.SizeSmall:
		return cap.BuildableAtLeast(hexmap.CapSmall)
	case hostapi.SizeMedium:
		return cap.BuildableAtLeast(hexmap.CapMedium)
	case hostapi.SizeBig:
		return cap.BuildableAtLeast(hexmap.CapBig)
	default:
		return false
	}
}

// allowed enforces the per-candidate gates in spec.md §4.3's listed order.
func allowed(host hostapi.Host, tbl *observers.Table, bo *observers.BuildingObserver, f *fields.BuildableField, now hostapi.Tick) bool {
	if !host.Player.BuildingTypeAllowed(bo.ID) {
		return false
	}
	if bo.Descriptor.Hints.ProhibitedTillSecs > 0 && int64(now/hostapi.Second) < bo.Descriptor.Hints.ProhibitedTillSecs {
		return false
	}
	if !sizeFits(host.Map.BuildCaps(f.Coord), bo.Descriptor.Size) {
		return false
	}
	if bo.Descriptor.IsMine {
		return false
	}
	isTreeProducer := bo.Descriptor.Hints.IsLogProducer || bo.Descriptor.Hints.PlantsTrees
	if !isTreeProducer && now-bo.ConstructionDecisionTime < constructionCooldown {
		return false
	}
	if bo.Unoccupied > 0 {
		return false
	}
	if bo.Descriptor.Kind != hostapi.KindMilitarySite && bo.CntUnderConstruction > 1 {
		return false
	}
	if fields.IsStale(*f, now) {
		return false
	}
	if tbl.IsBlocked(f.Coord, now) {
		return false
	}
	return true
}
