package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"greenhood/config"
	deliverycontext "greenhood/internal/delivery/context"
	"greenhood/internal/domain/entity"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/repository"
	"greenhood/internal/domain/service"
	"greenhood/internal/domain/validation"
	"greenhood/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultResetCooldown = 300 * time.Second

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager       repository.TransactionManager
	validator       *validation.Validator
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	passwords       service.PasswordGenerator
	mailer          service.Mailer
	localizer       service.Localizer
	identity        repository.SessionIdentity
	defaultIdentity string
	resetCooldown   time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Validator    *validation.Validator
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Passwords    service.PasswordGenerator
	Mailer       service.Mailer
	Localizer    service.Localizer
	Identity     repository.SessionIdentity
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	cooldown := defaultResetCooldown
	if params.Config.Auth != nil && params.Config.Auth.ResetCooldown > 0 {
		cooldown = params.Config.Auth.ResetCooldown
	}
	defaultIdentity := ""
	if params.Config.Store != nil {
		defaultIdentity = params.Config.Store.Identity
	}

	return &accountService{
		txManager:       params.TxManager,
		validator:       params.Validator,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		passwords:       params.Passwords,
		mailer:          params.Mailer,
		localizer:       params.Localizer,
		identity:        params.Identity,
		defaultIdentity: defaultIdentity,
		resetCooldown:   cooldown,
		now:             func() time.Time { return time.Now().UTC() },
		logger:          params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Registration and profile updates ---

// RegisterIndividual validates the input, then stores address, individual and credential atomically.
func (srv *accountService) RegisterIndividual(ctx context.Context, input *usecase.RegisterIndividualInput) (*entity.Individual, error) {
	if err := srv.validateIndividual(input, &input.IndividualDetails); err != nil {
		return nil, err
	}
	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	individual := buildIndividual(&input.IndividualDetails)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		individualRepo := repoFactory.NewIndividualRepository()
		if err := checkUnique(ctx, individualRepo, individualUniqueChecks(individual)); err != nil {
			return err
		}

		addressID, err := resolveAddress(ctx, repoFactory.NewAddressRepository(), input.Address)
		if err != nil {
			return err
		}
		individual.AddressID = addressID

		if err := individualRepo.CreateIndividual(ctx, individual); err != nil {
			return actorWriteFailure(err, domainerrors.KeyDuplicateNationalID)
		}

		credential := &entity.Credential{OwnerID: individual.ID, PasswordHash: hash}

		return repoFactory.NewCredentialRepository().CreateCredential(ctx, entity.ActorIndividual, credential)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Individual registered", slog.Int64("individualID", individual.ID))

	return individual, nil
}

// RegisterOrganization validates the input, then stores address, organization, accepted types and credential atomically.
func (srv *accountService) RegisterOrganization(ctx context.Context, input *usecase.RegisterOrganizationInput) (*entity.Organization, error) {
	if err := srv.validateOrganization(input, &input.OrganizationDetails); err != nil {
		return nil, err
	}
	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	organization := buildOrganization(&input.OrganizationDetails)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		organizationRepo := repoFactory.NewOrganizationRepository()
		if err := checkUnique(ctx, organizationRepo, organizationUniqueChecks(organization)); err != nil {
			return err
		}

		addressID, err := resolveAddress(ctx, repoFactory.NewAddressRepository(), input.Address)
		if err != nil {
			return err
		}
		organization.AddressID = addressID

		if err := organizationRepo.CreateOrganization(ctx, organization); err != nil {
			return actorWriteFailure(err, domainerrors.KeyDuplicateTaxID)
		}
		if err := replaceSupportedTypes(ctx, organizationRepo, organization.ID, input.SupportedTypeIDs); err != nil {
			return err
		}

		credential := &entity.Credential{OwnerID: organization.ID, PasswordHash: hash}

		return repoFactory.NewCredentialRepository().CreateCredential(ctx, entity.ActorOrganization, credential)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Organization registered", slog.Int64("organizationID", organization.ID))

	return organization, nil
}

// UpdateIndividual replaces the profile of an individual, reusing or creating its address.
func (srv *accountService) UpdateIndividual(ctx context.Context, input *usecase.UpdateIndividualInput) (*entity.Individual, error) {
	if err := srv.validateIndividual(input, &input.IndividualDetails); err != nil {
		return nil, err
	}

	individual := buildIndividual(&input.IndividualDetails)
	individual.ID = input.ID
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		individualRepo := repoFactory.NewIndividualRepository()
		if err := checkUnique(ctx, individualRepo, individualUniqueChecks(individual)); err != nil {
			return err
		}

		addressID, err := resolveAddress(ctx, repoFactory.NewAddressRepository(), input.Address)
		if err != nil {
			return err
		}
		individual.AddressID = addressID

		rows, err := individualRepo.UpdateIndividual(ctx, individual)
		if err != nil {
			return actorWriteFailure(err, domainerrors.KeyDuplicateNationalID)
		}
		if rows == 0 {
			return domainerrors.NewValidationFailure(domainerrors.KeyProfileUpdateFailed)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return individual, nil
}

// UpdateOrganization replaces the profile and the accepted type set of an organization.
func (srv *accountService) UpdateOrganization(ctx context.Context, input *usecase.UpdateOrganizationInput) (*entity.Organization, error) {
	if err := srv.validateOrganization(input, &input.OrganizationDetails); err != nil {
		return nil, err
	}

	organization := buildOrganization(&input.OrganizationDetails)
	organization.ID = input.ID
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		organizationRepo := repoFactory.NewOrganizationRepository()
		if err := checkUnique(ctx, organizationRepo, organizationUniqueChecks(organization)); err != nil {
			return err
		}

		addressID, err := resolveAddress(ctx, repoFactory.NewAddressRepository(), input.Address)
		if err != nil {
			return err
		}
		organization.AddressID = addressID

		rows, err := organizationRepo.UpdateOrganization(ctx, organization)
		if err != nil {
			return actorWriteFailure(err, domainerrors.KeyDuplicateTaxID)
		}
		if rows == 0 {
			return domainerrors.NewValidationFailure(domainerrors.KeyProfileUpdateFailed)
		}

		return replaceSupportedTypes(ctx, organizationRepo, organization.ID, input.SupportedTypeIDs)
	})
	if err != nil {
		return nil, err
	}

	return organization, nil
}

func (srv *accountService) validateIndividual(input any, details *usecase.IndividualDetails) error {
	if err := srv.validator.Struct(input); err != nil {
		return err
	}
	if !details.Sex.Valid() {
		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidSex)
	}

	return validateAddress(details.Address)
}

func (srv *accountService) validateOrganization(input any, details *usecase.OrganizationDetails) error {
	if err := srv.validator.Struct(input); err != nil {
		return err
	}
	if len(details.SupportedTypeIDs) == 0 {
		return domainerrors.NewValidationFailure(domainerrors.KeyNoDisposalTypes)
	}

	return validateAddress(details.Address)
}

func buildIndividual(details *usecase.IndividualDetails) *entity.Individual {
	birthDate, _ := validation.ParseBirthDate(details.BirthDate)

	return &entity.Individual{
		NationalID: details.NationalID,
		FirstName:  details.FirstName,
		MiddleName: details.MiddleName,
		LastName:   details.LastName,
		BirthDate:  birthDate,
		Email:      strings.TrimSpace(details.Email),
		Phone:      validation.NormalizePhone(details.Phone),
		Sex:        details.Sex,
	}
}

func buildOrganization(details *usecase.OrganizationDetails) *entity.Organization {
	return &entity.Organization{
		TaxID:        details.TaxID,
		Name:         strings.TrimSpace(details.Name),
		Phone:        validation.NormalizePhone(details.Phone),
		Fax:          details.Fax,
		IsGovernment: details.IsGovernment,
	}
}

type uniqueChecker interface {
	IsTaken(ctx context.Context, field repository.UniqueField, value string, excludeID int64) (bool, error)
}

type uniqueCheck struct {
	field     repository.UniqueField
	value     string
	excludeID int64
	key       string
}

func individualUniqueChecks(individual *entity.Individual) []uniqueCheck {
	return []uniqueCheck{
		{field: repository.FieldNationalID, value: individual.NationalID, excludeID: individual.ID, key: domainerrors.KeyDuplicateNationalID},
		{field: repository.FieldEmail, value: individual.Email, excludeID: individual.ID, key: domainerrors.KeyDuplicateEmail},
		{field: repository.FieldPhone, value: individual.Phone, excludeID: individual.ID, key: domainerrors.KeyDuplicatePhone},
	}
}

func organizationUniqueChecks(organization *entity.Organization) []uniqueCheck {
	return []uniqueCheck{
		{field: repository.FieldTaxID, value: organization.TaxID, excludeID: organization.ID, key: domainerrors.KeyDuplicateTaxID},
		{field: repository.FieldName, value: organization.Name, excludeID: organization.ID, key: domainerrors.KeyDuplicateOrgName},
		{field: repository.FieldPhone, value: organization.Phone, excludeID: organization.ID, key: domainerrors.KeyDuplicatePhone},
		{field: repository.FieldFax, value: organization.Fax, excludeID: organization.ID, key: domainerrors.KeyDuplicateFax},
	}
}

// checkUnique fails with the key of the first taken value. Empty optional values are skipped.
func checkUnique(ctx context.Context, repo uniqueChecker, checks []uniqueCheck) error {
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		taken, err := repo.IsTaken(ctx, check.field, check.value, check.excludeID)
		if err != nil {
			return errors.Wrapf(err, "failed to check %s", check.field)
		}
		if taken {
			return domainerrors.NewValidationFailure(check.key)
		}
	}

	return nil
}

// actorWriteFailure maps constraint errors of an actor insert or update to rejections.
func actorWriteFailure(err error, duplicateKey string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateActor):
		return domainerrors.NewValidationFailure(duplicateKey)
	case errors.Is(err, repository.ErrAddressNotFound):
		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidAddress)
	default:
		return errors.Wrap(err, "failed to write actor")
	}
}

func replaceSupportedTypes(ctx context.Context, repo repository.OrganizationRepository, organizationID int64, typeIDs []int64) error {
	err := repo.ReplaceSupportedTypes(ctx, organizationID, typeIDs)
	if errors.Is(err, repository.ErrDisposalTypeNotFound) {
		return domainerrors.NewValidationFailure(domainerrors.KeyUnknownDisposalType)
	}

	return err
}

// --- Authentication ---

// Authenticate verifies the password of the actor and switches the session identity to it.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthSession, error) {
	if !input.Kind.Valid() || input.Identifier == "" || input.Password == "" {
		return nil, domainerrors.NewValidationFailure(domainerrors.KeyInvalidCredentials)
	}

	var actor *entity.Actor
	err := srv.txManager.Read(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findActor(ctx, repoFactory, input.Kind, input.Identifier)
		if err != nil {
			return err
		}

		credential, err := repoFactory.NewCredentialRepository().FindCredential(ctx, input.Kind, found.ID)
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return domainerrors.NewValidationFailure(domainerrors.KeyInvalidCredentials)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find credential")
		}
		if !srv.hasher.Check(input.Password, credential.PasswordHash) {
			return domainerrors.NewValidationFailure(domainerrors.KeyInvalidCredentials)
		}
		actor = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := srv.tokenService.GenerateToken(*actor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}
	srv.identity.SetIdentity(actor.Identifier)

	srv.log(ctx).Info("Actor logged in", slog.String("kind", string(actor.Kind)), slog.Int64("actorID", actor.ID))

	return &usecase.AuthSession{
		Token:     token,
		Actor:     *actor,
		ExpiresAt: srv.now().Add(srv.tokenService.TokenDuration()),
	}, nil
}

func findActor(ctx context.Context, repoFactory repository.RepositoryFactory, kind entity.ActorKind, identifier string) (*entity.Actor, error) {
	switch kind {
	case entity.ActorIndividual:
		individual, err := repoFactory.NewIndividualRepository().FindIndividualByNationalID(ctx, identifier)
		if errors.Is(err, repository.ErrIndividualNotFound) {
			return nil, domainerrors.NewValidationFailure(domainerrors.KeyInvalidCredentials)
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to find individual")
		}

		return &entity.Actor{Kind: kind, ID: individual.ID, Identifier: individual.NationalID, DisplayName: individual.FullName()}, nil
	default:
		organization, err := repoFactory.NewOrganizationRepository().FindOrganizationByTaxID(ctx, identifier)
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, domainerrors.NewValidationFailure(domainerrors.KeyInvalidCredentials)
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to find organization")
		}

		return &entity.Actor{Kind: kind, ID: organization.ID, Identifier: organization.TaxID, DisplayName: organization.Name}, nil
	}
}

func (srv *accountService) Logout(ctx context.Context) {
	srv.identity.SetIdentity(srv.defaultIdentity)
	srv.log(ctx).Info("Actor logged out")
}

// ResolveToken rejects expired or forged tokens with notloggedin.
func (srv *accountService) ResolveToken(_ context.Context, token string) (*entity.Actor, error) {
	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		return nil, domainerrors.NewValidationFailure(domainerrors.KeyNotLoggedIn)
	}
	actor := claims.Actor()

	return &actor, nil
}

// --- Credentials ---

// ChangePassword replaces the digest after verifying the old password.
func (srv *accountService) ChangePassword(ctx context.Context, actor entity.Actor, oldPassword, newPassword string) error {
	if !validation.IsStrongPassword(newPassword) {
		return domainerrors.NewValidationFailure(domainerrors.KeyWeakPassword)
	}
	hash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.NewCredentialRepository()

		credential, err := credentialRepo.FindCredential(ctx, actor.Kind, actor.ID)
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return domainerrors.NewValidationFailure(domainerrors.KeyOldPasswordNoMatch)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find credential")
		}
		if !srv.hasher.Check(oldPassword, credential.PasswordHash) {
			return domainerrors.NewValidationFailure(domainerrors.KeyOldPasswordNoMatch)
		}

		rows, err := credentialRepo.UpdatePasswordHash(ctx, actor.Kind, actor.ID, hash)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domainerrors.NewValidationFailure(domainerrors.KeyOldPasswordNoMatch)
		}

		return nil
	})
}

// ResetPasswordByEmail persists a random password, then mails it.
// A mail failure is returned even though the new password is already stored.
func (srv *accountService) ResetPasswordByEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !validation.IsValidEmail(email) {
		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidEmail)
	}

	var (
		recipient *entity.Individual
		password  string
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		individual, err := repoFactory.NewIndividualRepository().FindIndividualByEmail(ctx, email)
		if errors.Is(err, repository.ErrIndividualNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to find individual by email")
		}

		credentialRepo := repoFactory.NewCredentialRepository()
		credential, err := credentialRepo.FindCredential(ctx, entity.ActorIndividual, individual.ID)
		if err != nil {
			return errors.Wrap(err, "failed to find credential")
		}

		now := srv.now()
		if credential.LastResetRequestAt != nil {
			if elapsed := now.Sub(*credential.LastResetRequestAt); elapsed < srv.resetCooldown {
				remaining := int((srv.resetCooldown - elapsed) / time.Second)

				return domainerrors.NewValidationFailure(domainerrors.KeyResetCooldown, remaining)
			}
		}

		password, err = srv.passwords.Generate()
		if err != nil {
			return errors.Wrap(err, "failed to generate password")
		}
		hash, err := srv.hasher.Hash(password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}
		if _, err := credentialRepo.RecordPasswordReset(ctx, entity.ActorIndividual, individual.ID, hash, now); err != nil {
			return err
		}
		recipient = individual

		return nil
	})
	if err != nil {
		return err
	}
	if recipient == nil {
		srv.log(ctx).Debug("Password reset requested for unknown email")

		return nil
	}

	subject, body := buildResetMail(srv.localizer, recipient.FullName(), password)
	if err := srv.mailer.Send(ctx, recipient.Email, subject, body); err != nil {
		return errors.Wrap(err, "password was reset but the mail could not be sent")
	}

	srv.log(ctx).Info("Password reset mailed", slog.Int64("individualID", recipient.ID))

	return nil
}

// --- Account deletion ---

func (srv *accountService) DeleteIndividual(ctx context.Context, nationalID string) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rows, err := repoFactory.NewIndividualRepository().DeleteIndividual(ctx, nationalID)

		return requireAffected(rows, err, domainerrors.KeyDeleteFailed)
	})
}

func (srv *accountService) DeleteOrganization(ctx context.Context, taxID string) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rows, err := repoFactory.NewOrganizationRepository().DeleteOrganization(ctx, taxID)

		return requireAffected(rows, err, domainerrors.KeyDeleteFailed)
	})
}

// requireAffected turns a write that touched no rows into a rejection with key.
func requireAffected(rows int64, err error, key string) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return domainerrors.NewValidationFailure(key)
	}

	return nil
}
