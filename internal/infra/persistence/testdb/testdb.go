// Package testdb builds throwaway SQLite stores with the production schema for package tests.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/infra/persistence/model"
	"greenhood/internal/infra/persistence/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const recycleTrigger = `
CREATE TRIGGER trg_disposal_items_recycled AFTER UPDATE OF recycled ON disposal_items
WHEN NEW.recycled = 1 AND OLD.recycled = 0
BEGIN
	UPDATE reservations SET completed_at = CURRENT_TIMESTAMP
	WHERE id IN (SELECT reservation_id FROM reservation_items WHERE item_id = NEW.id);
END;`

// Disposal types seeded into every store, mirroring the reference data migration.
var DisposalTypes = []model.DisposalTypeModel{
	{Name: "Paper", TransportCostCoefficient: 1.5, ScoreCoefficient: 2.0},
	{Name: "Plastic", TransportCostCoefficient: 2.0, ScoreCoefficient: 3.0},
	{Name: "Glass", TransportCostCoefficient: 2.5, ScoreCoefficient: 2.5},
	{Name: "Metal", TransportCostCoefficient: 3.0, ScoreCoefficient: 4.0},
}

// Locality holds the ids of one seeded province/district/neighborhood/street chain.
type Locality struct {
	ProvinceID     int64
	DistrictID     int64
	NeighborhoodID int64
	StreetID       int64
}

// Tuple returns an address tuple on this street.
func (l Locality) Tuple(building, floor, door int) entity.AddressTuple {
	return entity.AddressTuple{
		ProvinceID:     l.ProvinceID,
		DistrictID:     l.DistrictID,
		NeighborhoodID: l.NeighborhoodID,
		StreetID:       l.StreetID,
		BuildingNo:     building,
		FloorNo:        floor,
		DoorNo:         door,
	}
}

// Store is a seeded test database.
type Store struct {
	DB *gorm.DB
	// Localities are two streets in two different neighborhoods of one district.
	Localities [2]Locality
}

// New opens a private in-memory database, migrates the schema and seeds reference data.
// A single pooled connection keeps every session on the same database.
func New(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(model.All()...))
	require.NoError(t, db.Exec(recycleTrigger).Error)

	store := &Store{DB: db}
	store.seed(t)

	return store
}

func (s *Store) seed(t *testing.T) {
	t.Helper()

	types := make([]model.DisposalTypeModel, len(DisposalTypes))
	copy(types, DisposalTypes)
	require.NoError(t, s.DB.Create(&types).Error)

	province := model.ProvinceModel{Name: "Ankara"}
	require.NoError(t, s.DB.Create(&province).Error)
	district := model.DistrictModel{ProvinceID: province.ID, Name: "Çankaya"}
	require.NoError(t, s.DB.Omit("Province").Create(&district).Error)

	for i, name := range []string{"Kızılay", "Bahçelievler"} {
		neighborhood := model.NeighborhoodModel{DistrictID: district.ID, Name: name}
		require.NoError(t, s.DB.Omit("District").Create(&neighborhood).Error)
		street := model.StreetModel{NeighborhoodID: neighborhood.ID, Name: name + " Caddesi"}
		require.NoError(t, s.DB.Omit("Neighborhood").Create(&street).Error)

		s.Localities[i] = Locality{
			ProvinceID:     province.ID,
			DistrictID:     district.ID,
			NeighborhoodID: neighborhood.ID,
			StreetID:       street.ID,
		}
	}
}

// TypeID returns the id of a seeded disposal type.
func (s *Store) TypeID(t *testing.T, name string) int64 {
	t.Helper()

	var typeM model.DisposalTypeModel
	require.NoError(t, s.DB.Where("name = ?", name).First(&typeM).Error)

	return typeM.ID
}

// NoopTagger accepts every session without touching the connection.
type NoopTagger struct{}

// TagSession implements postgres.SessionTagger.
func (NoopTagger) TagSession(context.Context, *sql.Conn, string) error {
	return nil
}

// Provider wraps the store in a connection provider that skips session tagging.
func (s *Store) Provider(t *testing.T) *postgres.Provider {
	t.Helper()

	provider, err := postgres.NewSessionProvider(s.DB, NoopTagger{}, 5*time.Second, "test", Logger())
	require.NoError(t, err)

	return provider
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
