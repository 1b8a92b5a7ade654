package impl

import (
	"context"
	"log/slog"
	"math"
	"time"

	deliverycontext "greenhood/internal/delivery/context"
	"greenhood/internal/domain/entity"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/repository"
	"greenhood/internal/domain/service"
	"greenhood/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// disposalService implements the DisposalUsecase interface.
type disposalService struct {
	txManager repository.TransactionManager
	scorer    service.Scorer
	publisher service.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

// DisposalServiceParams holds dependencies for DisposalService, injected by Fx.
type DisposalServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Scorer    service.Scorer
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewDisposalService is the constructor for disposalService.
func NewDisposalService(params DisposalServiceParams) usecase.DisposalUsecase {
	return &disposalService{
		txManager: params.TxManager,
		scorer:    params.Scorer,
		publisher: params.Publisher,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    params.Logger,
	}
}

func (srv *disposalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Discard scores and stores a new available item.
func (srv *disposalService) Discard(ctx context.Context, input *usecase.DiscardInput) (*entity.DisposalItem, error) {
	if !isPositive(input.Weight) || !isPositive(input.Volume) {
		return nil, domainerrors.NewValidationFailure(domainerrors.KeyInvalidMeasure)
	}

	item := &entity.DisposalItem{
		TypeID:       input.TypeID,
		IndividualID: input.IndividualID,
		Weight:       input.Weight,
		Volume:       input.Volume,
		DiscardedAt:  srv.now(),
	}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		disposalRepo := repoFactory.NewDisposalRepository()

		disposalType, err := disposalRepo.FindDisposalTypeByID(ctx, input.TypeID)
		if errors.Is(err, repository.ErrDisposalTypeNotFound) {
			return domainerrors.NewValidationFailure(domainerrors.KeyUnknownDisposalType)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find disposal type")
		}
		item.Score, item.TransportCost = srv.scorer.Score(*disposalType, input.Weight, input.Volume)

		if err := disposalRepo.CreateItem(ctx, item); err != nil {
			// The type was found above, so a broken reference means the owner is gone.
			if errors.Is(err, repository.ErrDisposalTypeNotFound) {
				return domainerrors.NewValidationFailure(domainerrors.KeyNotLoggedIn)
			}

			return errors.Wrap(err, "failed to create item")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publish(ctx, entity.EventItemDiscarded, item.ID, 0, item.IndividualID)

	return item, nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// DeleteItem only removes an owned item that is neither reserved nor recycled.
func (srv *disposalService) DeleteItem(ctx context.Context, individualID, itemID int64) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rows, err := repoFactory.NewDisposalRepository().DeleteAvailableItem(ctx, individualID, itemID)

		return requireAffected(rows, err, domainerrors.KeyDeleteFailed)
	})
}

// Reserve links the item to a new reservation of the organization.
// Losing a race for the same item rolls back and fails with reservationfailed.
func (srv *disposalService) Reserve(ctx context.Context, taxID string, itemID int64) (*entity.Reservation, error) {
	reservationFailed := domainerrors.NewValidationFailure(domainerrors.KeyReservationFailed)

	reservation := &entity.Reservation{ItemID: itemID, CreatedAt: srv.now()}
	var item *entity.DisposalItem
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		organization, err := repoFactory.NewOrganizationRepository().FindOrganizationByTaxID(ctx, taxID)
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return reservationFailed
		}
		if err != nil {
			return errors.Wrap(err, "failed to find organization")
		}
		reservation.OrganizationID = organization.ID

		item, err = repoFactory.NewDisposalRepository().FindItemByID(ctx, itemID)
		if errors.Is(err, repository.ErrItemNotFound) {
			return reservationFailed
		}
		if err != nil {
			return errors.Wrap(err, "failed to find item")
		}
		if item.Recycled {
			return reservationFailed
		}

		reservationRepo := repoFactory.NewReservationRepository()
		if err := reservationRepo.CreateReservation(ctx, reservation); err != nil {
			return errors.Wrap(err, "failed to create reservation")
		}

		err = reservationRepo.LinkItem(ctx, reservation.ID, itemID)
		if errors.Is(err, repository.ErrItemAlreadyReserved) || errors.Is(err, repository.ErrItemNotFound) {
			return reservationFailed
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	srv.publish(ctx, entity.EventItemReserved, itemID, reservation.OrganizationID, item.IndividualID)

	return reservation, nil
}

// CancelReservation deletes the active reservation; the item becomes available again.
func (srv *disposalService) CancelReservation(ctx context.Context, itemID int64) error {
	var cancelled *entity.Reservation
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reservationRepo := repoFactory.NewReservationRepository()

		active, err := reservationRepo.FindActiveByItem(ctx, itemID)
		if errors.Is(err, repository.ErrReservationNotFound) {
			return domainerrors.NewValidationFailure(domainerrors.KeyCancelFailed)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reservation")
		}

		rows, err := reservationRepo.DeleteActiveByItem(ctx, itemID)
		if err := requireAffected(rows, err, domainerrors.KeyCancelFailed); err != nil {
			return err
		}
		cancelled = active

		return nil
	})
	if err != nil {
		return err
	}

	srv.publish(ctx, entity.EventReservationCancelled, itemID, cancelled.OrganizationID, 0)

	return nil
}

// CompleteRecycling marks a reserved item recycled; the store stamps the reservation completion.
func (srv *disposalService) CompleteRecycling(ctx context.Context, itemID int64) error {
	var (
		reservation *entity.Reservation
		item        *entity.DisposalItem
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		disposalRepo := repoFactory.NewDisposalRepository()

		active, err := repoFactory.NewReservationRepository().FindActiveByItem(ctx, itemID)
		if errors.Is(err, repository.ErrReservationNotFound) {
			return domainerrors.NewValidationFailure(domainerrors.KeyRecycleFailed)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reservation")
		}

		rows, err := disposalRepo.MarkRecycled(ctx, itemID)
		if err := requireAffected(rows, err, domainerrors.KeyRecycleFailed); err != nil {
			return err
		}

		item, err = disposalRepo.FindItemByID(ctx, itemID)
		if err != nil {
			return errors.Wrap(err, "failed to reload item")
		}
		reservation = active

		return nil
	})
	if err != nil {
		return err
	}

	srv.publish(ctx, entity.EventItemRecycled, itemID, reservation.OrganizationID, item.IndividualID)

	return nil
}

// publish sends a committed transition. Failures are logged only.
func (srv *disposalService) publish(ctx context.Context, eventType entity.LifecycleEventType, itemID, organizationID, individualID int64) {
	event := &entity.LifecycleEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		ItemID:         itemID,
		OrganizationID: organizationID,
		IndividualID:   individualID,
		OccurredAt:     srv.now(),
	}
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish lifecycle event",
			slog.String("event_type", string(eventType)),
			slog.Int64("item_id", itemID),
			slog.Any("error", err),
		)
	}
}
