package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/errors"
	"greenhood/internal/infra/persistence/postgres"
	"greenhood/internal/infra/persistence/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *testdb.Store
	txm   repository.TransactionManager
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testdb.New(t)

	return &fixture{
		store: store,
		txm:   postgres.NewTransactionManager(store.Provider(t)),
		ctx:   context.Background(),
	}
}

func (f *fixture) address(t *testing.T, locality, door int) int64 {
	t.Helper()

	address := &entity.Address{AddressTuple: f.store.Localities[locality].Tuple(1, 2, door)}
	require.NoError(t, postgres.NewAddressRepository(f.store.DB).CreateAddress(f.ctx, address))

	return address.ID
}

func (f *fixture) individual(t *testing.T, nationalID string, locality int) *entity.Individual {
	t.Helper()

	individual := &entity.Individual{
		NationalID: nationalID,
		FirstName:  "Ayşe",
		LastName:   "Yılmaz",
		BirthDate:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Sex:        entity.SexFemale,
		AddressID:  f.address(t, locality, int(nationalID[len(nationalID)-1]-'0')+1),
	}
	require.NoError(t, postgres.NewIndividualRepository(f.store.DB).CreateIndividual(f.ctx, individual))

	return individual
}

func (f *fixture) organization(t *testing.T, taxID, name string) *entity.Organization {
	t.Helper()

	organization := &entity.Organization{
		TaxID:     taxID,
		Name:      name,
		AddressID: f.address(t, 0, 90+len(name)),
	}
	require.NoError(t, postgres.NewOrganizationRepository(f.store.DB).CreateOrganization(f.ctx, organization))

	return organization
}

func (f *fixture) item(t *testing.T, individualID int64, typeName string, weight, volume, score float64) *entity.DisposalItem {
	t.Helper()

	item := &entity.DisposalItem{
		TypeID:       f.store.TypeID(t, typeName),
		IndividualID: individualID,
		Weight:       weight,
		Volume:       volume,
		Score:        score,
		DiscardedAt:  time.Now().UTC(),
	}
	require.NoError(t, postgres.NewDisposalRepository(f.store.DB).CreateItem(f.ctx, item))

	return item
}

func (f *fixture) reserve(t *testing.T, organizationID, itemID int64) error {
	t.Helper()

	return f.reserveAt(t, organizationID, itemID, time.Now().UTC())
}

func (f *fixture) reserveAt(t *testing.T, organizationID, itemID int64, at time.Time) error {
	t.Helper()

	return f.txm.Execute(f.ctx, func(repos repository.RepositoryFactory) error {
		reservation := &entity.Reservation{OrganizationID: organizationID, CreatedAt: at}
		if err := repos.NewReservationRepository().CreateReservation(f.ctx, reservation); err != nil {
			return err
		}

		return repos.NewReservationRepository().LinkItem(f.ctx, reservation.ID, itemID)
	})
}

func TestAddressRepository_FindByTuple(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewAddressRepository(f.store.DB)
	tuple := f.store.Localities[0].Tuple(12, 3, 7)

	_, err := repo.FindAddressByTuple(f.ctx, tuple)
	assert.ErrorIs(t, err, repository.ErrAddressNotFound)

	address := &entity.Address{AddressTuple: tuple}
	require.NoError(t, repo.CreateAddress(f.ctx, address))
	require.NotZero(t, address.ID)

	found, err := repo.FindAddressByTuple(f.ctx, tuple)
	require.NoError(t, err)
	assert.Equal(t, address.ID, found.ID)
	assert.Equal(t, tuple, found.AddressTuple)

	duplicate := &entity.Address{AddressTuple: tuple}
	assert.Error(t, repo.CreateAddress(f.ctx, duplicate), "the tuple is unique")
}

func TestAddressRepository_AddressText(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewAddressRepository(f.store.DB)

	address := &entity.Address{AddressTuple: f.store.Localities[0].Tuple(12, 0, 7)}
	require.NoError(t, repo.CreateAddress(f.ctx, address))

	text, err := repo.AddressText(f.ctx, address.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kızılay Mah. Kızılay Caddesi Sok. No: 12, Daire: 7, Çankaya/Ankara", text)

	_, err = repo.AddressText(f.ctx, address.ID+100)
	assert.ErrorIs(t, err, repository.ErrAddressNotFound)
}

func TestAddressRepository_Localities(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewAddressRepository(f.store.DB)
	locality := f.store.Localities[0]

	provinces, err := repo.ListProvinces(f.ctx)
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, "Ankara", provinces[0].Name)

	districts, err := repo.ListDistricts(f.ctx, locality.ProvinceID)
	require.NoError(t, err)
	require.Len(t, districts, 1)

	neighborhoods, err := repo.ListNeighborhoods(f.ctx, locality.DistrictID)
	require.NoError(t, err)
	assert.Len(t, neighborhoods, 2)
	assert.Equal(t, "Bahçelievler", neighborhoods[0].Name, "ordered by name")

	streets, err := repo.ListStreets(f.ctx, locality.NeighborhoodID)
	require.NoError(t, err)
	require.Len(t, streets, 1)
	assert.Equal(t, locality.StreetID, streets[0].ID)
}

func TestIndividualRepository_UniquenessAndUpdate(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewIndividualRepository(f.store.DB)

	first := f.individual(t, "10000000001", 0)
	first.Email = "ayse@example.com"
	affected, err := repo.UpdateIndividual(f.ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	second := f.individual(t, "10000000002", 0)

	taken, err := repo.IsTaken(f.ctx, repository.FieldEmail, "ayse@example.com", second.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.IsTaken(f.ctx, repository.FieldEmail, "ayse@example.com", first.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own row is excluded")

	second.Email = "ayse@example.com"
	_, err = repo.UpdateIndividual(f.ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicateActor)

	_, err = repo.IsTaken(f.ctx, repository.FieldFax, "x", 0)
	assert.Error(t, err, "fax is not an individual column")

	found, err := repo.FindIndividualByEmail(f.ctx, "ayse@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Empty(t, found.Phone)

	missing := &entity.Individual{ID: 999, FirstName: "X", LastName: "Y", Sex: entity.SexMale, AddressID: first.AddressID}
	affected, err = repo.UpdateIndividual(f.ctx, missing)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestIndividualRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	individual := f.individual(t, "10000000001", 0)
	item := f.item(t, individual.ID, "Paper", 1, 1, 2)

	creds := postgres.NewCredentialRepository(f.store.DB)
	require.NoError(t, creds.CreateCredential(f.ctx, entity.ActorIndividual, &entity.Credential{OwnerID: individual.ID, PasswordHash: "digest"}))

	affected, err := postgres.NewIndividualRepository(f.store.DB).DeleteIndividual(f.ctx, individual.NationalID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = postgres.NewDisposalRepository(f.store.DB).FindItemByID(f.ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
	_, err = creds.FindCredential(f.ctx, entity.ActorIndividual, individual.ID)
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestOrganizationRepository_SupportedTypes(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewOrganizationRepository(f.store.DB)
	organization := f.organization(t, "1234567890", "Geri Dönüşüm A.Ş.")

	paper, glass := f.store.TypeID(t, "Paper"), f.store.TypeID(t, "Glass")
	require.NoError(t, repo.ReplaceSupportedTypes(f.ctx, organization.ID, []int64{paper, glass, paper}))

	types, err := repo.ListSupportedTypes(f.ctx, organization.ID)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Glass", types[0].Name)

	require.NoError(t, repo.ReplaceSupportedTypes(f.ctx, organization.ID, []int64{paper}))
	types, err = repo.ListSupportedTypes(f.ctx, organization.ID)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Paper", types[0].Name)

	err = repo.ReplaceSupportedTypes(f.ctx, organization.ID, []int64{9999})
	assert.ErrorIs(t, err, repository.ErrDisposalTypeNotFound)

	taken, err := repo.IsTaken(f.ctx, repository.FieldName, "Geri Dönüşüm A.Ş.", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCredentialRepository_ResetStampsTime(t *testing.T) {
	f := newFixture(t)
	repo := postgres.NewCredentialRepository(f.store.DB)
	organization := f.organization(t, "1234567890", "Geri")

	require.NoError(t, repo.CreateCredential(f.ctx, entity.ActorOrganization, &entity.Credential{OwnerID: organization.ID, PasswordHash: "old"}))

	credential, err := repo.FindCredential(f.ctx, entity.ActorOrganization, organization.ID)
	require.NoError(t, err)
	assert.Equal(t, "old", credential.PasswordHash)
	assert.Nil(t, credential.LastResetRequestAt)

	at := time.Now().UTC().Truncate(time.Second)
	affected, err := repo.RecordPasswordReset(f.ctx, entity.ActorOrganization, organization.ID, "new", at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	credential, err = repo.FindCredential(f.ctx, entity.ActorOrganization, organization.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", credential.PasswordHash)
	require.NotNil(t, credential.LastResetRequestAt)
	assert.True(t, at.Equal(*credential.LastResetRequestAt))

	_, err = repo.FindCredential(f.ctx, entity.ActorIndividual, organization.ID)
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)

	_, err = repo.UpdatePasswordHash(f.ctx, entity.ActorKind("robot"), organization.ID, "x")
	assert.Error(t, err)
}

func TestReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	individual := f.individual(t, "10000000001", 0)
	organization := f.organization(t, "1234567890", "Geri")
	item := f.item(t, individual.ID, "Paper", 10, 2, 20)

	disposals := postgres.NewDisposalRepository(f.store.DB)
	reservations := postgres.NewReservationRepository(f.store.DB)

	affected, err := disposals.MarkRecycled(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected, "an available item cannot be recycled")

	require.NoError(t, f.reserve(t, organization.ID, item.ID))

	reserved, err := disposals.IsItemReserved(f.ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, reserved)

	affected, err = disposals.DeleteAvailableItem(f.ctx, individual.ID, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected, "a reserved item cannot be removed")

	active, err := reservations.FindActiveByItem(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, organization.ID, active.OrganizationID)
	assert.True(t, active.Active())

	affected, err = disposals.MarkRecycled(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = disposals.MarkRecycled(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected, "recycling twice is a no-op")

	_, err = reservations.FindActiveByItem(f.ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound, "the trigger completed the reservation")

	affected, err = reservations.DeleteActiveByItem(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected, "a completed reservation cannot be cancelled")

	reserved, err = disposals.IsItemReserved(f.ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestDashboardRepository_OrganizationStatsWindows(t *testing.T) {
	f := newFixture(t)
	individual := f.individual(t, "10000000001", 0)
	organization := f.organization(t, "1234567890", "Geri")
	old := f.item(t, individual.ID, "Paper", 10, 2, 20)
	fresh := f.item(t, individual.ID, "Glass", 4, 1, 10)

	now := time.Now().UTC()
	require.NoError(t, f.reserveAt(t, organization.ID, old.ID, now.AddDate(0, 0, -60)))
	require.NoError(t, f.reserveAt(t, organization.ID, fresh.ID, now.Add(-time.Hour)))
	affected, err := postgres.NewDisposalRepository(f.store.DB).MarkRecycled(f.ctx, old.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	dashboard := postgres.NewDashboardRepository(f.store.DB)

	lastMonth := now.AddDate(0, -1, 0)
	stats, err := dashboard.OrganizationStats(f.ctx, "1234567890", &lastMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.RecycledCount, "recycled inside the window although reserved before it")
	assert.InDelta(t, 10.0, stats.RecycledWeight, 1e-9)
	assert.InDelta(t, 20.0, stats.TotalScore, 1e-9)
	assert.Equal(t, int64(1), stats.ReservedCount, "only the reservation made inside the window")
	assert.InDelta(t, 4.0, stats.ReservedWeight, 1e-9)

	stats, err = dashboard.OrganizationStats(f.ctx, "1234567890", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReservedCount, "reservations include items recycled later")
	assert.InDelta(t, 14.0, stats.ReservedWeight, 1e-9)
	assert.Equal(t, int64(1), stats.RecycledCount)
	assert.InDelta(t, 20.0, stats.TotalScore, 1e-9)

	stats, err = dashboard.OrganizationStats(f.ctx, "9999999999", nil)
	require.NoError(t, err)
	assert.Zero(t, *stats)
}

func TestReservationCancelCascadesJoinRow(t *testing.T) {
	f := newFixture(t)
	individual := f.individual(t, "10000000001", 0)
	organization := f.organization(t, "1234567890", "Geri")
	item := f.item(t, individual.ID, "Glass", 1, 1, 2.5)

	require.NoError(t, f.reserve(t, organization.ID, item.ID))

	affected, err := postgres.NewReservationRepository(f.store.DB).DeleteActiveByItem(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reserved, err := postgres.NewDisposalRepository(f.store.DB).IsItemReserved(f.ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, reserved)

	affected, err = postgres.NewDisposalRepository(f.store.DB).DeleteAvailableItem(f.ctx, individual.ID+1, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected, "only the owner may remove an item")
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	f := newFixture(t)
	organization := f.organization(t, "1234567890", "Geri")
	individual := f.individual(t, "10000000001", 0)
	item := f.item(t, individual.ID, "Metal", 1, 1, 4)
	require.NoError(t, f.reserve(t, organization.ID, item.ID))

	err := f.reserve(t, organization.ID, item.ID)
	require.ErrorIs(t, err, repository.ErrItemAlreadyReserved)

	var count int64
	require.NoError(t, f.store.DB.Table("reservations").Count(&count).Error)
	assert.Equal(t, int64(1), count, "the losing reservation row was rolled back")
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	f := newFixture(t)

	assert.Panics(t, func() {
		_ = f.txm.Execute(f.ctx, func(repos repository.RepositoryFactory) error {
			address := &entity.Address{AddressTuple: f.store.Localities[0].Tuple(1, 1, 1)}
			require.NoError(t, repos.NewAddressRepository().CreateAddress(f.ctx, address))
			panic("boom")
		})
	})

	_, err := postgres.NewAddressRepository(f.store.DB).FindAddressByTuple(f.ctx, f.store.Localities[0].Tuple(1, 1, 1))
	assert.ErrorIs(t, err, repository.ErrAddressNotFound)
}

func TestConcurrentReservationsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	individual := f.individual(t, "10000000001", 0)
	item := f.item(t, individual.ID, "Plastic", 1, 1, 3)
	organizations := []*entity.Organization{
		f.organization(t, "1000000001", "A"),
		f.organization(t, "1000000002", "BB"),
		f.organization(t, "1000000003", "CCC"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(organizations))
	for i, organization := range organizations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.txm.Execute(f.ctx, func(repos repository.RepositoryFactory) error {
				reservation := &entity.Reservation{OrganizationID: organization.ID, CreatedAt: time.Now().UTC()}
				if err := repos.NewReservationRepository().CreateReservation(f.ctx, reservation); err != nil {
					return err
				}

				return repos.NewReservationRepository().LinkItem(f.ctx, reservation.ID, item.ID)
			})
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++

			continue
		}
		assert.ErrorIs(t, err, repository.ErrItemAlreadyReserved)
	}
	assert.Equal(t, 1, winners)

	var count int64
	require.NoError(t, f.store.DB.Table("reservations").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCredentialRepository_UnknownKind(t *testing.T) {
	f := newFixture(t)

	err := postgres.NewCredentialRepository(f.store.DB).CreateCredential(f.ctx, entity.ActorKind("robot"), &entity.Credential{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrDuplicateActor))
}
