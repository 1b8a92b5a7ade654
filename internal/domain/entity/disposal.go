package entity

import "time"

// DisposalType is static reference data describing a material.
type DisposalType struct {
	ID                       int64
	Name                     string
	TransportCostCoefficient float64
	ScoreCoefficient         float64
}

// LifecycleState is derived from the reservation link and the recycled flag, never stored.
type LifecycleState string

const (
	StateAvailable LifecycleState = "AVAILABLE"
	StateReserved  LifecycleState = "RESERVED"
	StateRecycled  LifecycleState = "RECYCLED"
)

// DeriveState computes the lifecycle state of an item.
func DeriveState(reserved, recycled bool) LifecycleState {
	switch {
	case recycled:
		return StateRecycled
	case reserved:
		return StateReserved
	default:
		return StateAvailable
	}
}

// DisposalItem is one discarded batch of a single material.
type DisposalItem struct {
	ID            int64
	TypeID        int64
	IndividualID  int64
	Weight        float64
	Volume        float64
	Score         float64
	TransportCost float64
	DiscardedAt   time.Time
	Recycled      bool
}

// Reservation is an organization's claim on exactly one item.
type Reservation struct {
	ID             int64
	OrganizationID int64
	ItemID         int64
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Active reports whether the reservation has not been completed yet.
func (r *Reservation) Active() bool {
	return r.CompletedAt == nil
}
