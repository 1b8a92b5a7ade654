// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"greenhood/internal/domain/entity"
	"greenhood/internal/errors"
)

// ErrAddressNotFound is returned when no address matches.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines address and locality lookups.
type AddressRepository interface {
	// FindAddressByTuple returns ErrAddressNotFound when the tuple has never been stored.
	FindAddressByTuple(ctx context.Context, tuple entity.AddressTuple) (*entity.Address, error)

	// CreateAddress inserts the address and fills its generated ID.
	CreateAddress(ctx context.Context, address *entity.Address) error

	FindAddressByID(ctx context.Context, id int64) (*entity.Address, error)

	// AddressText renders the address as a single human-readable line.
	AddressText(ctx context.Context, id int64) (string, error)

	ListProvinces(ctx context.Context) ([]entity.LocalityOption, error)
	ListDistricts(ctx context.Context, provinceID int64) ([]entity.LocalityOption, error)
	ListNeighborhoods(ctx context.Context, districtID int64) ([]entity.LocalityOption, error)
	ListStreets(ctx context.Context, neighborhoodID int64) ([]entity.LocalityOption, error)
}
