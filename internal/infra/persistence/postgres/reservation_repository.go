package postgres

import (
	"context"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reservationRepository implements the repository.ReservationRepository interface.
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository is the constructor for reservationRepository.
func NewReservationRepository(db *gorm.DB) repository.ReservationRepository {
	return &reservationRepository{
		db: db,
	}
}

// CreateReservation inserts a reservation and fills its generated ID.
func (repo *reservationRepository) CreateReservation(ctx context.Context, reservation *entity.Reservation) error {
	reservationM := &model.ReservationModel{
		OrganizationID: reservation.OrganizationID,
		CreatedAt:      reservation.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(reservationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrOrganizationNotFound, "invalid organization reference")
		}

		return dbError(err, "failed to create reservation")
	}

	reservation.ID = reservationM.ID
	reservation.CreatedAt = reservationM.CreatedAt

	return nil
}

// LinkItem inserts the join row; the unique item index rejects a second link.
func (repo *reservationRepository) LinkItem(ctx context.Context, reservationID, itemID int64) error {
	link := &model.ReservationItemModel{ReservationID: reservationID, ItemID: itemID}

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrItemAlreadyReserved
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrItemNotFound, "invalid item reference")
		}

		return dbError(err, "failed to link reservation item")
	}

	return nil
}

// FindActiveByItem returns the not yet completed reservation linked to the item.
func (repo *reservationRepository) FindActiveByItem(ctx context.Context, itemID int64) (*entity.Reservation, error) {
	var reservationM model.ReservationModel

	err := repo.db.WithContext(ctx).
		Joins("JOIN reservation_items ri ON ri.reservation_id = reservations.id").
		Where("ri.item_id = ? AND reservations.completed_at IS NULL", itemID).
		First(&reservationM).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrReservationNotFound
		}

		return nil, dbError(err, "failed to find active reservation")
	}

	return &entity.Reservation{
		ID:             reservationM.ID,
		OrganizationID: reservationM.OrganizationID,
		ItemID:         itemID,
		CreatedAt:      reservationM.CreatedAt,
		CompletedAt:    reservationM.CompletedAt,
	}, nil
}

// DeleteActiveByItem deletes the active reservation of a not recycled item.
// The join row goes with it through the cascade.
func (repo *reservationRepository) DeleteActiveByItem(ctx context.Context, itemID int64) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("completed_at IS NULL").
		Where("id IN (SELECT ri.reservation_id FROM reservation_items ri "+
			"JOIN disposal_items di ON di.id = ri.item_id WHERE ri.item_id = ? AND di.recycled = ?)", itemID, false).
		Delete(&model.ReservationModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete reservation")
	}

	return result.RowsAffected, nil
}
