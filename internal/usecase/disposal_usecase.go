package usecase

import (
	"context"

	"greenhood/internal/domain/entity"
)

// DiscardInput describes one discarded batch.
type DiscardInput struct {
	IndividualID int64
	TypeID       int64
	Weight       float64
	Volume       float64
}

// DisposalUsecase defines the item lifecycle workflows.
// Each committed transition publishes a lifecycle event.
type DisposalUsecase interface {
	Discard(ctx context.Context, input *DiscardInput) (*entity.DisposalItem, error)
	// DeleteItem removes an owned item that was never reserved.
	DeleteItem(ctx context.Context, individualID, itemID int64) error

	Reserve(ctx context.Context, taxID string, itemID int64) (*entity.Reservation, error)
	// CancelReservation deletes the active reservation of the item.
	CancelReservation(ctx context.Context, itemID int64) error
	CompleteRecycling(ctx context.Context, itemID int64) error
}
