package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"greenhood/config"
	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/domain/validation"
	"greenhood/internal/infra/auth"
	"greenhood/internal/infra/i18n"
	"greenhood/internal/infra/persistence/postgres"
	"greenhood/internal/infra/persistence/testdb"
	"greenhood/internal/infra/scoring"
	"greenhood/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)

	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *entity.LifecycleEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}

// eventTypes returns the published event types in call order.
func (m *mockPublisher) eventTypes() []entity.LifecycleEventType {
	var types []entity.LifecycleEventType
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			types = append(types, call.Arguments.Get(1).(*entity.LifecycleEvent).Type)
		}
	}

	return types
}

type recordingIdentity struct {
	mu      sync.Mutex
	current string
}

func (r *recordingIdentity) SetIdentity(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = identity
}

func (r *recordingIdentity) get() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// harness wires every service to a fresh seeded store with real infra adapters.
type harness struct {
	ctx       context.Context
	store     *testdb.Store
	txm       repository.TransactionManager
	mailer    *mockMailer
	publisher *mockPublisher
	identity  *recordingIdentity
	clock     time.Time

	accounts  *accountService
	disposals *disposalService
	addresses usecase.AddressUsecase
	dashboard *dashboardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := testdb.New(t)
	cfg := &config.Config{
		Store:        &config.StoreConfig{Identity: "guest"},
		Auth:         &config.AuthConfig{BcryptCost: bcrypt.MinCost, ResetCooldown: 300 * time.Second},
		Localization: &config.LocalizationConfig{Language: "en"},
	}
	cfg.SecretKey.Access = "test-secret"

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	localizer, err := i18n.NewLocalizer(cfg)
	require.NoError(t, err)

	h := &harness{
		ctx:       context.Background(),
		store:     store,
		txm:       postgres.NewTransactionManager(store.Provider(t)),
		mailer:    &mockMailer{},
		publisher: &mockPublisher{},
		identity:  &recordingIdentity{current: "guest"},
		clock:     time.Now().UTC().Truncate(time.Second),
	}
	h.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	now := func() time.Time { return h.clock }

	h.accounts = NewAccountService(AccountServiceParams{
		TxManager:    h.txm,
		Validator:    validation.NewWithClock(now),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokens,
		Passwords:    auth.NewPasswordGenerator(cfg),
		Mailer:       h.mailer,
		Localizer:    localizer,
		Identity:     h.identity,
		Config:       cfg,
		Logger:       testdb.Logger(),
	}).(*accountService)
	h.accounts.now = now

	h.disposals = NewDisposalService(DisposalServiceParams{
		TxManager: h.txm,
		Scorer:    scoring.NewScorer(),
		Publisher: h.publisher,
		Logger:    testdb.Logger(),
	}).(*disposalService)
	h.disposals.now = now

	h.addresses = NewAddressService(AddressServiceParams{TxManager: h.txm, Logger: testdb.Logger()})

	h.dashboard = NewDashboardService(DashboardServiceParams{TxManager: h.txm, Logger: testdb.Logger()}).(*dashboardService)
	h.dashboard.now = now

	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock = h.clock.Add(d)
}

func individualInput(nationalID, email, phone string, tuple entity.AddressTuple) *usecase.RegisterIndividualInput {
	return &usecase.RegisterIndividualInput{
		IndividualDetails: usecase.IndividualDetails{
			NationalID: nationalID,
			FirstName:  "Ayşe",
			LastName:   "Yılmaz",
			BirthDate:  "1990-05-17",
			Email:      email,
			Phone:      phone,
			Sex:        entity.SexFemale,
			Address:    tuple,
		},
		Password: "Secret123",
	}
}

func organizationInput(taxID, name string, tuple entity.AddressTuple, typeIDs ...int64) *usecase.RegisterOrganizationInput {
	return &usecase.RegisterOrganizationInput{
		OrganizationDetails: usecase.OrganizationDetails{
			TaxID:            taxID,
			Name:             name,
			Address:          tuple,
			SupportedTypeIDs: typeIDs,
		},
		Password: "Recycle99",
	}
}

func (h *harness) registerIndividual(t *testing.T, nationalID, email string, locality int) *entity.Individual {
	t.Helper()

	tuple := h.store.Localities[locality].Tuple(1, 1, int(nationalID[len(nationalID)-1]-'0')+1)
	individual, err := h.accounts.RegisterIndividual(h.ctx, individualInput(nationalID, email, "", tuple))
	require.NoError(t, err)

	return individual
}

func (h *harness) registerOrganization(t *testing.T, taxID, name string, types ...string) *entity.Organization {
	t.Helper()

	typeIDs := make([]int64, 0, len(types))
	for _, name := range types {
		typeIDs = append(typeIDs, h.store.TypeID(t, name))
	}
	organization, err := h.accounts.RegisterOrganization(h.ctx, organizationInput(taxID, name, h.store.Localities[1].Tuple(9, 0, 0), typeIDs...))
	require.NoError(t, err)

	return organization
}

func (h *harness) discard(t *testing.T, individualID int64, typeName string, weight, volume float64) *entity.DisposalItem {
	t.Helper()

	item, err := h.disposals.Discard(h.ctx, &usecase.DiscardInput{
		IndividualID: individualID,
		TypeID:       h.store.TypeID(t, typeName),
		Weight:       weight,
		Volume:       volume,
	})
	require.NoError(t, err)

	return item
}
