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

const reservedItemCondition = "EXISTS (SELECT 1 FROM reservation_items ri WHERE ri.item_id = disposal_items.id)"

// disposalRepository implements the repository.DisposalRepository interface.
type disposalRepository struct {
	db *gorm.DB
}

// NewDisposalRepository is the constructor for disposalRepository.
func NewDisposalRepository(db *gorm.DB) repository.DisposalRepository {
	return &disposalRepository{
		db: db,
	}
}

// ListDisposalTypes lists every disposal type ordered by ID.
func (repo *disposalRepository) ListDisposalTypes(ctx context.Context) ([]entity.DisposalType, error) {
	var typeModels []model.DisposalTypeModel

	if err := repo.db.WithContext(ctx).Order("id").Find(&typeModels).Error; err != nil {
		return nil, dbError(err, "failed to list disposal types")
	}

	return toDisposalTypesDomain(typeModels), nil
}

// FindDisposalTypeByID retrieves one disposal type.
func (repo *disposalRepository) FindDisposalTypeByID(ctx context.Context, id int64) (*entity.DisposalType, error) {
	var typeM model.DisposalTypeModel

	if err := repo.db.WithContext(ctx).First(&typeM, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrDisposalTypeNotFound
		}

		return nil, dbError(err, "failed to find disposal type")
	}

	return toDisposalTypeDomain(&typeM), nil
}

// FindDisposalTypesByIDs retrieves the known types among ids; unknown ids are skipped.
func (repo *disposalRepository) FindDisposalTypesByIDs(ctx context.Context, ids []int64) ([]entity.DisposalType, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var typeModels []model.DisposalTypeModel

	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&typeModels).Error; err != nil {
		return nil, dbError(err, "failed to find disposal types")
	}

	return toDisposalTypesDomain(typeModels), nil
}

// CreateItem inserts a discarded item and fills its generated ID.
func (repo *disposalRepository) CreateItem(ctx context.Context, item *entity.DisposalItem) error {
	itemM := fromDisposalItemDomain(item)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrDisposalTypeNotFound, "invalid item reference")
		}

		return dbError(err, "failed to create disposal item")
	}

	item.ID = itemM.ID

	return nil
}

// FindItemByID retrieves one item.
func (repo *disposalRepository) FindItemByID(ctx context.Context, id int64) (*entity.DisposalItem, error) {
	var itemM model.DisposalItemModel

	if err := repo.db.WithContext(ctx).First(&itemM, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrItemNotFound
		}

		return nil, dbError(err, "failed to find disposal item")
	}

	return toDisposalItemDomain(&itemM), nil
}

// IsItemReserved reports whether any reservation link references the item.
func (repo *disposalRepository) IsItemReserved(ctx context.Context, itemID int64) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ReservationItemModel{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return false, dbError(err, "failed to check item reservation")
	}

	return count > 0, nil
}

// DeleteAvailableItem removes an item the individual owns that was never reserved.
func (repo *disposalRepository) DeleteAvailableItem(ctx context.Context, individualID, itemID int64) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND individual_id = ? AND recycled = ?", itemID, individualID, false).
		Where("NOT " + reservedItemCondition).
		Delete(&model.DisposalItemModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete disposal item")
	}

	return result.RowsAffected, nil
}

// MarkRecycled flips the recycled flag of a reserved, not yet recycled item.
func (repo *disposalRepository) MarkRecycled(ctx context.Context, itemID int64) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.DisposalItemModel{}).
		Where("id = ? AND recycled = ?", itemID, false).
		Where(reservedItemCondition).
		Update("recycled", true)
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to mark item recycled")
	}

	return result.RowsAffected, nil
}

func toDisposalTypeDomain(data *model.DisposalTypeModel) *entity.DisposalType {
	if data == nil {
		return nil
	}

	return &entity.DisposalType{
		ID:                       data.ID,
		Name:                     data.Name,
		TransportCostCoefficient: data.TransportCostCoefficient,
		ScoreCoefficient:         data.ScoreCoefficient,
	}
}

func toDisposalTypesDomain(data []model.DisposalTypeModel) []entity.DisposalType {
	types := make([]entity.DisposalType, 0, len(data))
	for i := range data {
		types = append(types, *toDisposalTypeDomain(&data[i]))
	}

	return types
}

func toDisposalItemDomain(data *model.DisposalItemModel) *entity.DisposalItem {
	if data == nil {
		return nil
	}

	return &entity.DisposalItem{
		ID:            data.ID,
		TypeID:        data.DisposalTypeID,
		IndividualID:  data.IndividualID,
		Weight:        data.Weight,
		Volume:        data.Volume,
		Score:         data.Score,
		TransportCost: data.TransportCost,
		DiscardedAt:   data.DiscardedAt,
		Recycled:      data.Recycled,
	}
}

func fromDisposalItemDomain(data *entity.DisposalItem) *model.DisposalItemModel {
	if data == nil {
		return nil
	}

	return &model.DisposalItemModel{
		ID:             data.ID,
		DisposalTypeID: data.TypeID,
		IndividualID:   data.IndividualID,
		Weight:         data.Weight,
		Volume:         data.Volume,
		Score:          data.Score,
		TransportCost:  data.TransportCost,
		DiscardedAt:    data.DiscardedAt,
		Recycled:       data.Recycled,
	}
}
