package usecase

import (
	"context"

	"greenhood/internal/domain/entity"
)

// AddressUsecase defines address deduplication and locality lookups.
type AddressUsecase interface {
	// ResolveOrCreate returns the id of the address with the tuple, creating it when absent.
	ResolveOrCreate(ctx context.Context, tuple entity.AddressTuple) (int64, error)
	AddressText(ctx context.Context, addressID int64) (string, error)

	Provinces(ctx context.Context) ([]entity.LocalityOption, error)
	Districts(ctx context.Context, provinceID int64) ([]entity.LocalityOption, error)
	Neighborhoods(ctx context.Context, districtID int64) ([]entity.LocalityOption, error)
	Streets(ctx context.Context, neighborhoodID int64) ([]entity.LocalityOption, error)
}
