package repository

import (
	"context"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/errors"
)

// Domain-specific errors for actor persistence.
var (
	ErrIndividualNotFound   = errors.New("individual not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrCredentialNotFound   = errors.New("credential not found")
	// ErrDuplicateActor is returned when a unique column lost a race to a concurrent writer.
	ErrDuplicateActor = errors.New("actor already registered")
)

// UniqueField names a column that must be unique within its actor table.
type UniqueField string

const (
	FieldNationalID UniqueField = "national_id"
	FieldTaxID      UniqueField = "tax_id"
	FieldName       UniqueField = "name"
	FieldEmail      UniqueField = "email"
	FieldPhone      UniqueField = "phone"
	FieldFax        UniqueField = "fax"
)

// IndividualRepository defines persistence of individuals.
type IndividualRepository interface {
	// IsTaken reports whether another row (id != excludeID) already holds value in field.
	IsTaken(ctx context.Context, field UniqueField, value string, excludeID int64) (bool, error)

	CreateIndividual(ctx context.Context, individual *entity.Individual) error

	// UpdateIndividual returns the number of affected rows.
	UpdateIndividual(ctx context.Context, individual *entity.Individual) (int64, error)

	FindIndividualByID(ctx context.Context, id int64) (*entity.Individual, error)
	FindIndividualByNationalID(ctx context.Context, nationalID string) (*entity.Individual, error)
	FindIndividualByEmail(ctx context.Context, email string) (*entity.Individual, error)

	// DeleteIndividual returns the number of affected rows.
	DeleteIndividual(ctx context.Context, nationalID string) (int64, error)
}

// OrganizationRepository defines persistence of organizations and their accepted types.
type OrganizationRepository interface {
	IsTaken(ctx context.Context, field UniqueField, value string, excludeID int64) (bool, error)

	CreateOrganization(ctx context.Context, organization *entity.Organization) error
	UpdateOrganization(ctx context.Context, organization *entity.Organization) (int64, error)

	FindOrganizationByID(ctx context.Context, id int64) (*entity.Organization, error)
	FindOrganizationByTaxID(ctx context.Context, taxID string) (*entity.Organization, error)

	DeleteOrganization(ctx context.Context, taxID string) (int64, error)

	// ReplaceSupportedTypes swaps the accepted type set in one batch.
	ReplaceSupportedTypes(ctx context.Context, organizationID int64, typeIDs []int64) error
	ListSupportedTypes(ctx context.Context, organizationID int64) ([]entity.DisposalType, error)
}

// CredentialRepository defines persistence of password digests for both actor kinds.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, kind entity.ActorKind, credential *entity.Credential) error
	FindCredential(ctx context.Context, kind entity.ActorKind, ownerID int64) (*entity.Credential, error)

	// UpdatePasswordHash returns the number of affected rows.
	UpdatePasswordHash(ctx context.Context, kind entity.ActorKind, ownerID int64, hash string) (int64, error)

	// RecordPasswordReset stores a new digest together with the reset request time.
	RecordPasswordReset(ctx context.Context, kind entity.ActorKind, ownerID int64, hash string, at time.Time) (int64, error)
}
