package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/errors"
	"greenhood/internal/infra/persistence/postgres"
	"greenhood/internal/infra/persistence/testdb"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tagQuery = regexp.QuoteMeta("SELECT set_config('app.current_user', $1, false)")

func newMockProvider(t *testing.T, acquireTimeout time.Duration) (*postgres.Provider, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	provider, err := postgres.NewSessionProvider(db, postgres.PostgresSessionTagger{}, acquireTimeout, "guest", testdb.Logger())
	require.NoError(t, err)

	return provider, mock, sqlDB
}

func TestProvider_AcquireTagsSession(t *testing.T) {
	provider, mock, _ := newMockProvider(t, time.Second)

	mock.ExpectExec(tagQuery).WithArgs("USER_guest").WillReturnResult(sqlmock.NewResult(0, 1))

	session, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session.DB())

	require.NoError(t, session.Release())
	require.NoError(t, session.Release(), "second release is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_SetIdentityAffectsNextSession(t *testing.T) {
	provider, mock, _ := newMockProvider(t, time.Second)

	provider.SetIdentity("12345678901")
	mock.ExpectExec(tagQuery).WithArgs("USER_12345678901").WillReturnResult(sqlmock.NewResult(0, 1))

	err := provider.WithSession(context.Background(), func(db *gorm.DB) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678901", provider.Identity())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_TagFailureFailsAcquisition(t *testing.T) {
	provider, mock, _ := newMockProvider(t, time.Second)

	mock.ExpectExec(tagQuery).WithArgs("USER_guest").WillReturnError(errors.New("permission denied"))

	session, err := provider.Acquire(context.Background())
	require.Error(t, err)
	assert.Nil(t, session)

	_, isStore := errors.AsType[*domainerrors.DatabaseExecuteError](err)
	assert.True(t, isStore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_AcquireTimeoutIsPoolExhausted(t *testing.T) {
	provider, mock, sqlDB := newMockProvider(t, 50*time.Millisecond)
	sqlDB.SetMaxOpenConns(1)

	mock.ExpectExec(tagQuery).WithArgs("USER_guest").WillReturnResult(sqlmock.NewResult(0, 1))

	held, err := provider.Acquire(context.Background())
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	_, err = provider.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPoolExhausted)
}

func TestProvider_CancelledCallerIsNotPoolExhaustion(t *testing.T) {
	provider, _, _ := newMockProvider(t, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Acquire(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrPoolExhausted)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_ShutdownIsIdempotent(t *testing.T) {
	provider, mock, _ := newMockProvider(t, time.Second)

	mock.ExpectClose()

	require.NoError(t, provider.Shutdown())
	require.NoError(t, provider.Shutdown())

	_, err := provider.Acquire(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSessionProvider_RejectsNonPositiveTimeout(t *testing.T) {
	store := testdb.New(t)

	_, err := postgres.NewSessionProvider(store.DB, testdb.NoopTagger{}, 0, "guest", testdb.Logger())
	assert.Error(t, err)
}

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		want     string
	}{
		{name: "plain", identity: "guest", want: "USER_guest"},
		{name: "digits", identity: "12345678901", want: "USER_12345678901"},
		{name: "strips punctuation", identity: "o'brien; DROP", want: "USER_obrienDROP"},
		{name: "strips non ascii letters", identity: "çağrı_1", want: "USER_ar_1"},
		{name: "empty", identity: "", want: "USER_ANONYMOUS"},
		{name: "nothing left", identity: "-- ;", want: "USER_ANONYMOUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postgres.SanitizeIdentity(tt.identity))
		})
	}
}
