package repository

import (
	"context"

	"greenhood/internal/domain/entity"
	"greenhood/internal/errors"
)

// Domain-specific errors for item and reservation persistence.
var (
	ErrDisposalTypeNotFound = errors.New("disposal type not found")
	ErrItemNotFound         = errors.New("disposal item not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	// ErrItemAlreadyReserved is returned when the item is already linked to a reservation.
	ErrItemAlreadyReserved = errors.New("item already reserved")
)

// DisposalRepository defines persistence of disposal types and items.
type DisposalRepository interface {
	ListDisposalTypes(ctx context.Context) ([]entity.DisposalType, error)
	FindDisposalTypeByID(ctx context.Context, id int64) (*entity.DisposalType, error)
	FindDisposalTypesByIDs(ctx context.Context, ids []int64) ([]entity.DisposalType, error)

	CreateItem(ctx context.Context, item *entity.DisposalItem) error
	FindItemByID(ctx context.Context, id int64) (*entity.DisposalItem, error)

	// IsItemReserved reports whether a reservation link exists for the item.
	IsItemReserved(ctx context.Context, itemID int64) (bool, error)

	// DeleteAvailableItem removes an owned item that was never reserved; returns affected rows.
	DeleteAvailableItem(ctx context.Context, individualID, itemID int64) (int64, error)

	// MarkRecycled flips the flag only on a reserved, not yet recycled item; returns affected rows.
	MarkRecycled(ctx context.Context, itemID int64) (int64, error)
}

// ReservationRepository defines persistence of reservations and their item link.
type ReservationRepository interface {
	// CreateReservation inserts the reservation and fills its generated ID.
	CreateReservation(ctx context.Context, reservation *entity.Reservation) error

	// LinkItem inserts the join row; a second link for the same item fails with ErrItemAlreadyReserved.
	LinkItem(ctx context.Context, reservationID, itemID int64) error

	FindActiveByItem(ctx context.Context, itemID int64) (*entity.Reservation, error)

	// DeleteActiveByItem deletes the not yet completed reservation of a not recycled item.
	DeleteActiveByItem(ctx context.Context, itemID int64) (int64, error)
}
