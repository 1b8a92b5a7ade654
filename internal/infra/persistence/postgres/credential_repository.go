package postgres

import (
	"context"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements the repository.CredentialRepository interface
// over the per-kind credential tables.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func credentialTable(kind entity.ActorKind) (table any, ownerColumn string, err error) {
	switch kind {
	case entity.ActorIndividual:
		return &model.IndividualCredentialModel{}, "individual_id", nil
	case entity.ActorOrganization:
		return &model.OrganizationCredentialModel{}, "organization_id", nil
	default:
		return nil, "", errors.Errorf("unknown actor kind %q", kind)
	}
}

// CreateCredential stores the first password digest of an actor.
func (repo *credentialRepository) CreateCredential(ctx context.Context, kind entity.ActorKind, credential *entity.Credential) error {
	var row any
	switch kind {
	case entity.ActorIndividual:
		row = &model.IndividualCredentialModel{
			IndividualID:       credential.OwnerID,
			PasswordHash:       credential.PasswordHash,
			LastResetRequestAt: credential.LastResetRequestAt,
		}
	case entity.ActorOrganization:
		row = &model.OrganizationCredentialModel{
			OrganizationID:     credential.OwnerID,
			PasswordHash:       credential.PasswordHash,
			LastResetRequestAt: credential.LastResetRequestAt,
		}
	default:
		return errors.Errorf("unknown actor kind %q", kind)
	}

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrDuplicateActor, "credential")
		}

		return dbError(err, "failed to create credential")
	}

	return nil
}

// FindCredential retrieves the digest of one actor.
func (repo *credentialRepository) FindCredential(ctx context.Context, kind entity.ActorKind, ownerID int64) (*entity.Credential, error) {
	table, ownerColumn, err := credentialTable(kind)
	if err != nil {
		return nil, err
	}

	var row struct {
		PasswordHash       string
		LastResetRequestAt *time.Time
	}

	result := repo.db.WithContext(ctx).
		Model(table).
		Select("password_hash, last_reset_request_at").
		Where(ownerColumn+" = ?", ownerID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, dbError(result.Error, "failed to find credential")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrCredentialNotFound
	}

	return &entity.Credential{
		OwnerID:            ownerID,
		PasswordHash:       row.PasswordHash,
		LastResetRequestAt: row.LastResetRequestAt,
	}, nil
}

// UpdatePasswordHash replaces the digest of one actor.
func (repo *credentialRepository) UpdatePasswordHash(ctx context.Context, kind entity.ActorKind, ownerID int64, hash string) (int64, error) {
	return repo.update(ctx, kind, ownerID, map[string]any{"password_hash": hash})
}

// RecordPasswordReset replaces the digest and stamps the reset request time.
func (repo *credentialRepository) RecordPasswordReset(ctx context.Context, kind entity.ActorKind, ownerID int64, hash string, at time.Time) (int64, error) {
	return repo.update(ctx, kind, ownerID, map[string]any{
		"password_hash":         hash,
		"last_reset_request_at": at,
	})
}

func (repo *credentialRepository) update(ctx context.Context, kind entity.ActorKind, ownerID int64, values map[string]any) (int64, error) {
	table, ownerColumn, err := credentialTable(kind)
	if err != nil {
		return 0, err
	}

	result := repo.db.WithContext(ctx).
		Model(table).
		Where(ownerColumn+" = ?", ownerID).
		Updates(values)
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to update credential")
	}

	return result.RowsAffected, nil
}
