package entity

import "time"

// LifecycleEventType names a committed item transition.
type LifecycleEventType string

const (
	EventItemDiscarded        LifecycleEventType = "item.discarded"
	EventItemReserved         LifecycleEventType = "item.reserved"
	EventReservationCancelled LifecycleEventType = "item.reservation_cancelled"
	EventItemRecycled         LifecycleEventType = "item.recycled"
)

// LifecycleEvent is published after the transition committed.
type LifecycleEvent struct {
	ID             string             `json:"id"`
	Type           LifecycleEventType `json:"type"`
	ItemID         int64              `json:"itemId"`
	OrganizationID int64              `json:"organizationId,omitempty"`
	IndividualID   int64              `json:"individualId,omitempty"`
	OccurredAt     time.Time          `json:"occurredAt"`
}
