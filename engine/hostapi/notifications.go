package hostapi

import "github.com/ironhearth/tribeai/engine/hexmap"

// NotificationKind enumerates the three notification families the Event
// Hooks translate into observer/index updates (spec.md §4.8).
type NotificationKind uint8

const (
	NotifyFieldPossession NotificationKind = iota
	NotifyImmovableGained
	NotifyImmovableLost
	NotifyProductionSiteOutOfResources
)

// PossessionChange is the payload of a NotifyFieldPossession notification.
type PossessionChange struct {
	Coord  hexmap.Coord
	Owner  PlayerID // 0 means the field was lost (no longer owned)
	Gained bool
}

// ImmovableChange is the payload of NotifyImmovableGained/Lost.
type ImmovableChange struct {
	Coord hexmap.Coord
	Imm   Immovable
}

// OutOfResources is the payload of NotifyProductionSiteOutOfResources.
type OutOfResources struct {
	Site SiteID
}

// Notification is the envelope dispatched to subscribers.
type Notification struct {
	Kind     NotificationKind
	Player   PlayerID
	Possess  PossessionChange
	Immov    ImmovableChange
	OutOfRes OutOfResources
}

// NotificationHandler processes one notification.
type NotificationHandler func(Notification)

// NotificationBus is the host's event bus (spec.md §6, "Notification bus:
// subscribe callbacks for FieldPossession, Immovable gained/lost,
// ProductionSiteOutOfResources").
type NotificationBus interface {
	Subscribe(kind NotificationKind, h NotificationHandler)
}
