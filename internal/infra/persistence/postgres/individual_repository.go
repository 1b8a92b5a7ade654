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

var individualUniqueColumns = map[repository.UniqueField]string{
	repository.FieldNationalID: "national_id",
	repository.FieldEmail:      "email",
	repository.FieldPhone:      "phone",
}

// individualRepository implements the repository.IndividualRepository interface.
type individualRepository struct {
	db *gorm.DB
}

// NewIndividualRepository is the constructor for individualRepository.
func NewIndividualRepository(db *gorm.DB) repository.IndividualRepository {
	return &individualRepository{
		db: db,
	}
}

// IsTaken reports whether another individual already holds the value.
func (repo *individualRepository) IsTaken(ctx context.Context, field repository.UniqueField, value string, excludeID int64) (bool, error) {
	column, ok := individualUniqueColumns[field]
	if !ok {
		return false, errors.Errorf("field %q is not unique for individuals", field)
	}

	return isTaken(ctx, repo.db, &model.IndividualModel{}, column, value, excludeID)
}

// CreateIndividual creates a new individual and fills its generated values.
func (repo *individualRepository) CreateIndividual(ctx context.Context, individual *entity.Individual) error {
	individualM := fromIndividualDomain(individual)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(individualM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrDuplicateActor, "individual")
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAddressNotFound, "invalid address reference")
		}

		return dbError(err, "failed to create individual")
	}

	individual.ID = individualM.ID
	individual.CreatedAt = individualM.CreatedAt

	return nil
}

// UpdateIndividual overwrites the mutable profile fields of an individual.
func (repo *individualRepository) UpdateIndividual(ctx context.Context, individual *entity.Individual) (int64, error) {
	individualM := fromIndividualDomain(individual)

	result := repo.db.WithContext(ctx).
		Model(&model.IndividualModel{}).
		Where("id = ?", individual.ID).
		Updates(map[string]any{
			"first_name":  individualM.FirstName,
			"middle_name": individualM.MiddleName,
			"last_name":   individualM.LastName,
			"birth_date":  individualM.BirthDate,
			"email":       individualM.Email,
			"phone":       individualM.Phone,
			"sex":         individualM.Sex,
			"address_id":  individualM.AddressID,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return 0, errors.Wrap(repository.ErrDuplicateActor, "individual")
		}

		return 0, dbError(result.Error, "failed to update individual")
	}

	return result.RowsAffected, nil
}

// FindIndividualByID retrieves an individual by its ID.
func (repo *individualRepository) FindIndividualByID(ctx context.Context, id int64) (*entity.Individual, error) {
	return repo.findBy(ctx, "id = ?", id)
}

// FindIndividualByNationalID retrieves an individual by national id.
func (repo *individualRepository) FindIndividualByNationalID(ctx context.Context, nationalID string) (*entity.Individual, error) {
	return repo.findBy(ctx, "national_id = ?", nationalID)
}

// FindIndividualByEmail retrieves an individual by e-mail address.
func (repo *individualRepository) FindIndividualByEmail(ctx context.Context, email string) (*entity.Individual, error) {
	return repo.findBy(ctx, "email = ?", email)
}

func (repo *individualRepository) findBy(ctx context.Context, cond string, arg any) (*entity.Individual, error) {
	var individualM model.IndividualModel

	if err := repo.db.WithContext(ctx).Where(cond, arg).First(&individualM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrIndividualNotFound
		}

		return nil, dbError(err, "failed to find individual")
	}

	return toIndividualDomain(&individualM), nil
}

// DeleteIndividual removes an individual; owned items and credentials cascade.
func (repo *individualRepository) DeleteIndividual(ctx context.Context, nationalID string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("national_id = ?", nationalID).
		Delete(&model.IndividualModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete individual")
	}

	return result.RowsAffected, nil
}

// isTaken counts rows other than excludeID holding value in column.
func isTaken(ctx context.Context, db *gorm.DB, table any, column, value string, excludeID int64) (bool, error) {
	var count int64

	if err := db.WithContext(ctx).
		Model(table).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&count).Error; err != nil {
		return false, dbError(err, "failed to check uniqueness of "+column)
	}

	return count > 0, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func toIndividualDomain(data *model.IndividualModel) *entity.Individual {
	if data == nil {
		return nil
	}

	return &entity.Individual{
		ID:         data.ID,
		NationalID: data.NationalID,
		FirstName:  data.FirstName,
		MiddleName: stringValue(data.MiddleName),
		LastName:   data.LastName,
		BirthDate:  data.BirthDate,
		Email:      stringValue(data.Email),
		Phone:      stringValue(data.Phone),
		Sex:        entity.Sex(data.Sex),
		AddressID:  data.AddressID,
		CreatedAt:  data.CreatedAt,
	}
}

func fromIndividualDomain(data *entity.Individual) *model.IndividualModel {
	if data == nil {
		return nil
	}

	return &model.IndividualModel{
		ID:         data.ID,
		NationalID: data.NationalID,
		FirstName:  data.FirstName,
		MiddleName: optionalString(data.MiddleName),
		LastName:   data.LastName,
		BirthDate:  data.BirthDate,
		Email:      optionalString(data.Email),
		Phone:      optionalString(data.Phone),
		Sex:        string(data.Sex),
		AddressID:  data.AddressID,
		CreatedAt:  data.CreatedAt,
	}
}
