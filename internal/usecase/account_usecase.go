// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"greenhood/internal/domain/entity"
)

// --- Input DTOs ---

// IndividualDetails holds the editable fields of an individual.
type IndividualDetails struct {
	NationalID string `validate:"gh_nationalid"`
	FirstName  string `validate:"gh_name"`
	MiddleName string `validate:"omitempty,gh_name"`
	LastName   string `validate:"gh_name"`
	BirthDate  string `validate:"gh_birthdate"`
	Email      string `validate:"gh_email"`
	Phone      string `validate:"gh_phone"`
	Sex        entity.Sex
	Address    entity.AddressTuple
}

// RegisterIndividualInput defines the data required to register an individual.
type RegisterIndividualInput struct {
	IndividualDetails
	Password string `validate:"gh_password"`
}

// UpdateIndividualInput replaces the details of an existing individual.
type UpdateIndividualInput struct {
	ID int64
	IndividualDetails
}

// OrganizationDetails holds the editable fields of an organization.
type OrganizationDetails struct {
	TaxID        string `validate:"gh_taxid"`
	Name         string `validate:"gh_orgname"`
	Phone        string `validate:"gh_phone"`
	Fax          string `validate:"gh_fax"`
	IsGovernment bool
	Address      entity.AddressTuple
	// SupportedTypeIDs must name at least one disposal type.
	SupportedTypeIDs []int64
}

// RegisterOrganizationInput defines the data required to register an organization.
type RegisterOrganizationInput struct {
	OrganizationDetails
	Password string `validate:"gh_password"`
}

// UpdateOrganizationInput replaces the details of an existing organization.
type UpdateOrganizationInput struct {
	ID int64
	OrganizationDetails
}

// LoginInput identifies an actor by national id or tax id.
type LoginInput struct {
	Kind       entity.ActorKind
	Identifier string
	Password   string
}

// --- Output DTOs ---

// AuthSession is the result of a successful login.
type AuthSession struct {
	Token     string
	Actor     entity.Actor
	ExpiresAt time.Time
}

// AccountUsecase defines registration, authentication and credential workflows.
type AccountUsecase interface {
	RegisterIndividual(ctx context.Context, input *RegisterIndividualInput) (*entity.Individual, error)
	RegisterOrganization(ctx context.Context, input *RegisterOrganizationInput) (*entity.Organization, error)
	UpdateIndividual(ctx context.Context, input *UpdateIndividualInput) (*entity.Individual, error)
	UpdateOrganization(ctx context.Context, input *UpdateOrganizationInput) (*entity.Organization, error)

	Authenticate(ctx context.Context, input *LoginInput) (*AuthSession, error)
	// Logout restores the default session identity.
	Logout(ctx context.Context)
	// ResolveToken returns the actor of a valid session token.
	ResolveToken(ctx context.Context, token string) (*entity.Actor, error)

	ChangePassword(ctx context.Context, actor entity.Actor, oldPassword, newPassword string) error
	// ResetPasswordByEmail mails a new random password to the individual owning email.
	// Unknown addresses succeed without doing anything.
	ResetPasswordByEmail(ctx context.Context, email string) error

	DeleteIndividual(ctx context.Context, nationalID string) error
	DeleteOrganization(ctx context.Context, taxID string) error
}
