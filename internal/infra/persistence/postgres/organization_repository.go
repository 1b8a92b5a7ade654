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

var organizationUniqueColumns = map[repository.UniqueField]string{
	repository.FieldTaxID: "tax_id",
	repository.FieldName:  "name",
	repository.FieldPhone: "phone",
	repository.FieldFax:   "fax",
}

// organizationRepository implements the repository.OrganizationRepository interface.
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository is the constructor for organizationRepository.
func NewOrganizationRepository(db *gorm.DB) repository.OrganizationRepository {
	return &organizationRepository{
		db: db,
	}
}

// IsTaken reports whether another organization already holds the value.
func (repo *organizationRepository) IsTaken(ctx context.Context, field repository.UniqueField, value string, excludeID int64) (bool, error) {
	column, ok := organizationUniqueColumns[field]
	if !ok {
		return false, errors.Errorf("field %q is not unique for organizations", field)
	}

	return isTaken(ctx, repo.db, &model.OrganizationModel{}, column, value, excludeID)
}

// CreateOrganization creates a new organization and fills its generated values.
func (repo *organizationRepository) CreateOrganization(ctx context.Context, organization *entity.Organization) error {
	organizationM := fromOrganizationDomain(organization)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(organizationM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrDuplicateActor, "organization")
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAddressNotFound, "invalid address reference")
		}

		return dbError(err, "failed to create organization")
	}

	organization.ID = organizationM.ID
	organization.CreatedAt = organizationM.CreatedAt

	return nil
}

// UpdateOrganization overwrites the mutable profile fields of an organization.
func (repo *organizationRepository) UpdateOrganization(ctx context.Context, organization *entity.Organization) (int64, error) {
	organizationM := fromOrganizationDomain(organization)

	result := repo.db.WithContext(ctx).
		Model(&model.OrganizationModel{}).
		Where("id = ?", organization.ID).
		Updates(map[string]any{
			"name":          organizationM.Name,
			"phone":         organizationM.Phone,
			"fax":           organizationM.Fax,
			"is_government": organizationM.IsGovernment,
			"address_id":    organizationM.AddressID,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return 0, errors.Wrap(repository.ErrDuplicateActor, "organization")
		}

		return 0, dbError(result.Error, "failed to update organization")
	}

	return result.RowsAffected, nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (repo *organizationRepository) FindOrganizationByID(ctx context.Context, id int64) (*entity.Organization, error) {
	return repo.findBy(ctx, "id = ?", id)
}

// FindOrganizationByTaxID retrieves an organization by tax id.
func (repo *organizationRepository) FindOrganizationByTaxID(ctx context.Context, taxID string) (*entity.Organization, error) {
	return repo.findBy(ctx, "tax_id = ?", taxID)
}

func (repo *organizationRepository) findBy(ctx context.Context, cond string, arg any) (*entity.Organization, error) {
	var organizationM model.OrganizationModel

	if err := repo.db.WithContext(ctx).Where(cond, arg).First(&organizationM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrOrganizationNotFound
		}

		return nil, dbError(err, "failed to find organization")
	}

	return toOrganizationDomain(&organizationM), nil
}

// DeleteOrganization removes an organization; reservations and credentials cascade.
func (repo *organizationRepository) DeleteOrganization(ctx context.Context, taxID string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("tax_id = ?", taxID).
		Delete(&model.OrganizationModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to delete organization")
	}

	return result.RowsAffected, nil
}

// ReplaceSupportedTypes deletes the current accepted set and inserts the new one in a single batch.
func (repo *organizationRepository) ReplaceSupportedTypes(ctx context.Context, organizationID int64, typeIDs []int64) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("organization_id = ?", organizationID).
		Delete(&model.OrganizationDisposalTypeModel{}).Error; err != nil {
		return dbError(err, "failed to clear supported types")
	}
	if len(typeIDs) == 0 {
		return nil
	}

	links := make([]model.OrganizationDisposalTypeModel, 0, len(typeIDs))
	seen := make(map[int64]struct{}, len(typeIDs))
	for _, id := range typeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, model.OrganizationDisposalTypeModel{OrganizationID: organizationID, DisposalTypeID: id})
	}

	if err := db.Omit(clause.Associations).Create(&links).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrDisposalTypeNotFound, "invalid disposal type reference")
		}

		return dbError(err, "failed to insert supported types")
	}

	return nil
}

// ListSupportedTypes lists the types an organization accepts, ordered by name.
func (repo *organizationRepository) ListSupportedTypes(ctx context.Context, organizationID int64) ([]entity.DisposalType, error) {
	var typeModels []model.DisposalTypeModel

	if err := repo.db.WithContext(ctx).
		Joins("JOIN organization_disposal_types odt ON odt.disposal_type_id = disposal_types.id").
		Where("odt.organization_id = ?", organizationID).
		Order("disposal_types.name").
		Find(&typeModels).Error; err != nil {
		return nil, dbError(err, "failed to list supported types")
	}

	return toDisposalTypesDomain(typeModels), nil
}

func toOrganizationDomain(data *model.OrganizationModel) *entity.Organization {
	if data == nil {
		return nil
	}

	return &entity.Organization{
		ID:           data.ID,
		TaxID:        data.TaxID,
		Name:         data.Name,
		Phone:        stringValue(data.Phone),
		Fax:          stringValue(data.Fax),
		IsGovernment: data.IsGovernment,
		AddressID:    data.AddressID,
		CreatedAt:    data.CreatedAt,
	}
}

func fromOrganizationDomain(data *entity.Organization) *model.OrganizationModel {
	if data == nil {
		return nil
	}

	return &model.OrganizationModel{
		ID:           data.ID,
		TaxID:        data.TaxID,
		Name:         data.Name,
		Phone:        optionalString(data.Phone),
		Fax:          optionalString(data.Fax),
		IsGovernment: data.IsGovernment,
		AddressID:    data.AddressID,
		CreatedAt:    data.CreatedAt,
	}
}
