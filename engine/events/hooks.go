// Package events translates host notifications into Field Index and
// observer updates (spec.md §4.8, "Event Hooks"). The dispatch shape is
// grounded on engine/core/events.go's EventBus: field-possession changes
// are applied the moment they arrive (the Field Index must stay correct
// within the same tick the sweep runs), while immovable and
// out-of-resources notifications are queued for the packages that react to
// them on their own cadence (observers, the Site Supervisor) and drained
// once per tick, the same way EventBus.Dispatch drains its queue.
package events

import (
	"github.com/ironhearth/tribeai/engine/fields"
	"github.com/ironhearth/tribeai/engine/hostapi"
)

// ImmovableAlert is one queued immovable-gained/lost notification.
type ImmovableAlert struct {
	Tick   hostapi.Tick
	Gained bool
	Change hostapi.ImmovableChange
}

// ResourceAlert is one queued production-site-out-of-resources notification.
type ResourceAlert struct {
	Tick hostapi.Tick
	Site hostapi.SiteID
}

// Hooks owns the queues fed by the host's notification bus and keeps the
// Field Index's ownership view current.
type Hooks struct {
	index *fields.Index
	now   hostapi.Tick

	immovables []ImmovableAlert
	resources  []ResourceAlert
}

// NewHooks creates a Hooks bound to the given Field Index.
func NewHooks(index *fields.Index) *Hooks {
	return &Hooks{index: index}
}

// SetTick stamps the game-time used for GainField and queued alerts; call
// once per Think(tick) before draining the bus.
func (h *Hooks) SetTick(now hostapi.Tick) {
	h.now = now
}

// Bind subscribes every notification kind the engine reacts to.
func (h *Hooks) Bind(bus hostapi.NotificationBus) {
	bus.Subscribe(hostapi.NotifyFieldPossession, h.handlePossession)
	bus.Subscribe(hostapi.NotifyImmovableGained, h.handleImmovableGained)
	bus.Subscribe(hostapi.NotifyImmovableLost, h.handleImmovableLost)
	bus.Subscribe(hostapi.NotifyProductionSiteOutOfResources, h.handleOutOfResources)
}

func (h *Hooks) handlePossession(n hostapi.Notification) {
	if n.Possess.Gained {
		h.index.GainField(n.Possess.Coord, h.now)
	} else {
		h.index.LoseField(n.Possess.Coord)
	}
}

func (h *Hooks) handleImmovableGained(n hostapi.Notification) {
	h.immovables = append(h.immovables, ImmovableAlert{Tick: h.now, Gained: true, Change: n.Immov})
}

func (h *Hooks) handleImmovableLost(n hostapi.Notification) {
	h.immovables = append(h.immovables, ImmovableAlert{Tick: h.now, Gained: false, Change: n.Immov})
}

func (h *Hooks) handleOutOfResources(n hostapi.Notification) {
	h.resources = append(h.resources, ResourceAlert{Tick: h.now, Site: n.OutOfRes.Site})
}

// DrainImmovableAlerts returns and clears the queued immovable changes.
func (h *Hooks) DrainImmovableAlerts() []ImmovableAlert {
	out := h.immovables
	h.immovables = nil
	return out
}

// DrainResourceAlerts returns and clears the queued out-of-resources alerts.
func (h *Hooks) DrainResourceAlerts() []ResourceAlert {
	out := h.resources
	h.resources = nil
	return out
}
