// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "greenhood/internal/delivery/context"
	"greenhood/internal/domain/entity"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/repository"
	"greenhood/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ResolveOrCreate runs the lookup and the insert in one transaction.
func (srv *addressService) ResolveOrCreate(ctx context.Context, tuple entity.AddressTuple) (int64, error) {
	var addressID int64
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		id, err := resolveAddress(ctx, repoFactory.NewAddressRepository(), tuple)
		addressID = id

		return err
	})
	if err != nil {
		return 0, err
	}

	srv.log(ctx).Debug("Address resolved", slog.Int64("addressID", addressID))

	return addressID, nil
}

// resolveAddress reuses the stored address with the same tuple or inserts a new one.
func resolveAddress(ctx context.Context, addressRepo repository.AddressRepository, tuple entity.AddressTuple) (int64, error) {
	if err := validateAddress(tuple); err != nil {
		return 0, err
	}

	existing, err := addressRepo.FindAddressByTuple(ctx, tuple)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrAddressNotFound) {
		return 0, errors.Wrap(err, "failed to look up address")
	}

	address := &entity.Address{AddressTuple: tuple}
	if err := addressRepo.CreateAddress(ctx, address); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return 0, domainerrors.NewValidationFailure(domainerrors.KeyInvalidAddress)
		}

		return 0, errors.Wrap(err, "failed to create address")
	}

	return address.ID, nil
}

func validateAddress(tuple entity.AddressTuple) error {
	if tuple.ProvinceID <= 0 || tuple.DistrictID <= 0 || tuple.NeighborhoodID <= 0 || tuple.StreetID <= 0 ||
		tuple.BuildingNo <= 0 || tuple.FloorNo < 0 || tuple.DoorNo < 0 {
		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidAddress)
	}

	return nil
}

// AddressText returns an empty string for an unknown address.
func (srv *addressService) AddressText(ctx context.Context, addressID int64) (string, error) {
	var text string
	err := srv.txManager.Read(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		text, err = repoFactory.NewAddressRepository().AddressText(ctx, addressID)
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil
		}

		return err
	})

	return text, err
}

func (srv *addressService) Provinces(ctx context.Context) ([]entity.LocalityOption, error) {
	return srv.localities(ctx, func(repo repository.AddressRepository) ([]entity.LocalityOption, error) {
		return repo.ListProvinces(ctx)
	})
}

func (srv *addressService) Districts(ctx context.Context, provinceID int64) ([]entity.LocalityOption, error) {
	return srv.localities(ctx, func(repo repository.AddressRepository) ([]entity.LocalityOption, error) {
		return repo.ListDistricts(ctx, provinceID)
	})
}

func (srv *addressService) Neighborhoods(ctx context.Context, districtID int64) ([]entity.LocalityOption, error) {
	return srv.localities(ctx, func(repo repository.AddressRepository) ([]entity.LocalityOption, error) {
		return repo.ListNeighborhoods(ctx, districtID)
	})
}

func (srv *addressService) Streets(ctx context.Context, neighborhoodID int64) ([]entity.LocalityOption, error) {
	return srv.localities(ctx, func(repo repository.AddressRepository) ([]entity.LocalityOption, error) {
		return repo.ListStreets(ctx, neighborhoodID)
	})
}

func (srv *addressService) localities(ctx context.Context, list func(repository.AddressRepository) ([]entity.LocalityOption, error)) ([]entity.LocalityOption, error) {
	var options []entity.LocalityOption
	err := srv.txManager.Read(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		options, err = list(repoFactory.NewAddressRepository())

		return err
	})

	return options, err
}
