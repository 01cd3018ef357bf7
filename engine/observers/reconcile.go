package observers

import (
	"fmt"

	"github.com/ironhearth/tribeai/engine/events"
	"github.com/ironhearth/tribeai/engine/hexmap"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// MustBuilding looks up a building observer, panicking if the type was
// never registered — spec.md §7, "Unknown building name requested from
// observer table: fatal programmer error, abort". Planners that request an
// observer by a type id they themselves chose from Descriptors should use
// this; passive event reconciliation below degrades gracefully instead,
// since an out-of-order notification is not a programmer error.
func (t *Table) MustBuilding(id hostapi.BuildingTypeID) *BuildingObserver {
	bo, ok := t.buildings[id]
	if !ok {
		panic(fmt.Sprintf("observers: unknown building type %q", id))
	}
	return bo
}

// Reconcile applies one tick's worth of queued immovable alerts (spec.md
// §4.8, "Immovable gained"/"Immovable lost"). economies may be nil if the
// host has no flags yet; flag-to-economy assignment is skipped in that
// case. Buildings of a type never registered via RegisterBuilding are
// ignored rather than treated as a fatal error: notifications arrive
// asynchronously relative to tribe-data loading and should not crash the
// advisor (spec.md §7, "best-effort").
func (t *Table) Reconcile(now hostapi.Tick, alerts []events.ImmovableAlert, economies hostapi.Economies) {
	for _, a := range alerts {
		imm := a.Change.Imm
		switch imm.Kind {
		case hostapi.ImmConstructionSite:
			t.reconcileConstruction(imm, a.Gained)
		case hostapi.ImmProductionSite, hostapi.ImmMine, hostapi.ImmMilitarySite, hostapi.ImmWarehouse, hostapi.ImmTrainingSite:
			t.reconcileFinished(now, imm, a.Gained)
		case hostapi.ImmFlag:
			t.reconcileFlag(imm, a.Gained, economies)
		}
	}
}

func (t *Table) reconcileConstruction(imm hostapi.Immovable, gained bool) {
	bo, ok := t.buildings[imm.TypeID]
	if !ok {
		return
	}
	if gained {
		bo.CntUnderConstruction++
	} else if bo.CntUnderConstruction > 0 {
		bo.CntUnderConstruction--
	}
}

func (t *Table) reconcileFinished(now hostapi.Tick, imm hostapi.Immovable, gained bool) {
	bo, ok := t.buildings[imm.TypeID]
	if !ok {
		return
	}
	if gained {
		bo.CntBuilt++
		switch imm.Kind {
		case hostapi.ImmMilitarySite:
			t.military[imm.Site] = &MilitarySiteObserver{Site: imm.Site, Coord: imm.Coord, BuildingID: imm.TypeID}
		case hostapi.ImmProductionSite, hostapi.ImmMine:
			t.sites[imm.Site] = &SiteObserver{Site: imm.Site, Coord: imm.Coord, BuildingID: imm.TypeID, BuiltTime: now, UnoccupiedTill: now}
		}
		return
	}
	if bo.CntBuilt > 0 {
		bo.CntBuilt--
	}
	delete(t.sites, imm.Site)
	delete(t.military, imm.Site)
}

// reconcileFlag assigns a newly gained flag to its economy's flag list, or
// removes a lost one. FlagID and ImmovableID share the host's id space
// (like SiteID/ImmovableID, hostapi §6), so the flag's immovable id doubles
// as its FlagID.
func (t *Table) reconcileFlag(imm hostapi.Immovable, gained bool, economies hostapi.Economies) {
	if economies == nil {
		return
	}
	fid := hostapi.FlagID(imm.ID)
	flag, ok := economies.Flag(fid)
	if !ok {
		return
	}
	eo := t.economyObserver(flag.Economy())
	if gained {
		eo.Flags = append(eo.Flags, fid)
		return
	}
	for i, f := range eo.Flags {
		if f == fid {
			eo.Flags = append(eo.Flags[:i], eo.Flags[i+1:]...)
			break
		}
	}
}

// NoteOutOfResources applies a production-site-out-of-resources alert
// (spec.md §4.8, "increment its no_resources_count").
func (t *Table) NoteOutOfResources(alert events.ResourceAlert) {
	if so, ok := t.sites[alert.Site]; ok {
		so.NoResourcesCount++
	}
}

// Block reserves a tile until blockedUntil (spec.md §3, "Blocked Field").
func (t *Table) Block(c hexmap.Coord, blockedUntil hostapi.Tick) {
	t.blocked = append(t.blocked, BlockedField{Coord: c, BlockedUntil: blockedUntil})
}

// PruneExpired drops every blocked entry whose deadline has passed (spec.md
// §8 invariant 3: "otherwise it is removed before any scan uses it").
func (t *Table) PruneExpired(now hostapi.Tick) {
	live := t.blocked[:0]
	for _, b := range t.blocked {
		if b.BlockedUntil > now {
			live = append(live, b)
		}
	}
	t.blocked = live
}

// IsBlocked reports whether c is currently reserved, pruning expired
// entries first.
func (t *Table) IsBlocked(c hexmap.Coord, now hostapi.Tick) bool {
	t.PruneExpired(now)
	for _, b := range t.blocked {
		if b.Coord == c {
			return true
		}
	}
	return false
}

// Blocked returns the live blocked-field list (read-only view), pruning
// expired entries first.
func (t *Table) Blocked(now hostapi.Tick) []BlockedField {
	t.PruneExpired(now)
	return t.blocked
}
