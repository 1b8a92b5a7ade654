package postgres

import (
	"context"
	"strings"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// dashboardRepository implements the repository.DashboardRepository interface.
// Every method is a single read statement; nothing here mutates state.
type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository is the constructor for dashboardRepository.
func NewDashboardRepository(db *gorm.DB) repository.DashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

type leaderboardRow struct {
	FirstName  string
	MiddleName *string
	LastName   string
	Name       string
	Identifier string
	Score      float64
}

func (r *leaderboardRow) toEntry() entity.LeaderboardEntry {
	name := r.Name
	if name == "" {
		name = entity.JoinName(r.FirstName, stringValue(r.MiddleName), r.LastName)
	}

	return entity.LeaderboardEntry{Name: name, Identifier: r.Identifier, Score: r.Score}
}

func toLeaderboard(rows []leaderboardRow) []entity.LeaderboardEntry {
	entries := make([]entity.LeaderboardEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntry())
	}

	return entries
}

func (repo *dashboardRepository) individualLeaderboard(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table("individuals AS i").
		Select("i.first_name, i.middle_name, i.last_name, i.national_id AS identifier, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.score ELSE 0 END), 0) AS score", true).
		Joins("LEFT JOIN disposal_items di ON di.individual_id = i.id").
		Group("i.id, i.first_name, i.middle_name, i.last_name, i.national_id").
		Order("score DESC, i.id")
}

// TopIndividuals ranks individuals by the score of their recycled items.
func (repo *dashboardRepository) TopIndividuals(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	var rows []leaderboardRow

	if err := repo.individualLeaderboard(ctx).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, dbError(err, "failed to rank individuals")
	}

	return toLeaderboard(rows), nil
}

// TopOrganizations ranks organizations by the score of the items they recycled.
func (repo *dashboardRepository) TopOrganizations(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	var rows []leaderboardRow

	err := repo.db.WithContext(ctx).
		Table("organizations AS o").
		Select("o.name, o.tax_id AS identifier, COALESCE(SUM(di.score), 0) AS score").
		Joins("LEFT JOIN reservations r ON r.organization_id = o.id").
		Joins("LEFT JOIN reservation_items ri ON ri.reservation_id = r.id").
		Joins("LEFT JOIN disposal_items di ON di.id = ri.item_id AND di.recycled = ?", true).
		Group("o.id, o.name, o.tax_id").
		Order("score DESC, o.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "failed to rank organizations")
	}

	return toLeaderboard(rows), nil
}

const neighborhoodOfIndividual = "(SELECT a2.neighborhood_id FROM individuals i2 " +
	"JOIN addresses a2 ON a2.id = i2.address_id WHERE i2.national_id = ?)"

// NeighborhoodLeaderboard ranks the individuals living in the caller's neighborhood.
func (repo *dashboardRepository) NeighborhoodLeaderboard(ctx context.Context, nationalID string, limit int) ([]entity.LeaderboardEntry, error) {
	var rows []leaderboardRow

	err := repo.individualLeaderboard(ctx).
		Joins("JOIN addresses a ON a.id = i.address_id").
		Where("a.neighborhood_id = "+neighborhoodOfIndividual, nationalID).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "failed to rank neighborhood")
	}

	return toLeaderboard(rows), nil
}

// NeighborhoodName returns the neighborhood of an individual, or "" when unknown.
func (repo *dashboardRepository) NeighborhoodName(ctx context.Context, nationalID string) (string, error) {
	var names []string

	err := repo.db.WithContext(ctx).
		Table("individuals AS i").
		Select("n.name").
		Joins("JOIN addresses a ON a.id = i.address_id").
		Joins("JOIN neighborhoods n ON n.id = a.neighborhood_id").
		Where("i.national_id = ?", nationalID).
		Limit(1).
		Pluck("n.name", &names).Error
	if err != nil {
		return "", dbError(err, "failed to find neighborhood")
	}
	if len(names) == 0 {
		return "", nil
	}

	return names[0], nil
}

type recordRow struct {
	ItemID           int64
	TypeName         string
	Weight           float64
	Volume           float64
	Score            float64
	TransportCost    float64
	DiscardedAt      time.Time
	Recycled         bool
	ReservationID    *int64
	ReservedAt       *time.Time
	RecycledAt       *time.Time
	FirstName        string
	MiddleName       *string
	LastName         string
	OrganizationName *string
}

func (r *recordRow) toRecord() entity.DisposalRecord {
	record := entity.DisposalRecord{
		ItemID:           r.ItemID,
		TypeName:         r.TypeName,
		Weight:           r.Weight,
		Volume:           r.Volume,
		Score:            r.Score,
		TransportCost:    r.TransportCost,
		DiscardedAt:      r.DiscardedAt,
		ReservedAt:       r.ReservedAt,
		Reserved:         r.ReservationID != nil,
		Recycled:         r.Recycled,
		IndividualName:   entity.JoinName(r.FirstName, stringValue(r.MiddleName), r.LastName),
		OrganizationName: stringValue(r.OrganizationName),
	}
	if r.Recycled {
		record.RecycledAt = r.RecycledAt
	}

	return record
}

// records is the shared item listing: every item with its type, owner and optional reservation.
func (repo *dashboardRepository) records(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table("disposal_items AS di").
		Select("di.id AS item_id, dt.name AS type_name, di.weight, di.volume, di.score, di.transport_cost, " +
			"di.discarded_at, di.recycled, ri.reservation_id, r.created_at AS reserved_at, r.completed_at AS recycled_at, " +
			"i.first_name, i.middle_name, i.last_name, o.name AS organization_name").
		Joins("JOIN disposal_types dt ON dt.id = di.disposal_type_id").
		Joins("JOIN individuals i ON i.id = di.individual_id").
		Joins("LEFT JOIN reservation_items ri ON ri.item_id = di.id").
		Joins("LEFT JOIN reservations r ON r.id = ri.reservation_id").
		Joins("LEFT JOIN organizations o ON o.id = r.organization_id")
}

func scanRecords(query *gorm.DB, details string) ([]entity.DisposalRecord, error) {
	var rows []recordRow

	if err := query.Scan(&rows).Error; err != nil {
		return nil, dbError(err, details)
	}

	records := make([]entity.DisposalRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toRecord())
	}

	return records, nil
}

// RecentDiscards lists the newest items.
func (repo *dashboardRepository) RecentDiscards(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return scanRecords(repo.records(ctx).
		Order("di.discarded_at DESC, di.id DESC").
		Limit(limit), "failed to list recent discards")
}

// RecentRecycled lists the most recently recycled items.
func (repo *dashboardRepository) RecentRecycled(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return scanRecords(repo.records(ctx).
		Where("di.recycled = ?", true).
		Order("r.completed_at DESC, di.id DESC").
		Limit(limit), "failed to list recent recycled items")
}

// RecentReservations lists the newest reservations, recycled or not.
func (repo *dashboardRepository) RecentReservations(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return scanRecords(repo.records(ctx).
		Where("ri.reservation_id IS NOT NULL").
		Order("r.created_at DESC, r.id DESC").
		Limit(limit), "failed to list recent reservations")
}

// IndividualStats aggregates the items an individual discarded since the given time (nil for all).
func (repo *dashboardRepository) IndividualStats(ctx context.Context, nationalID string, since *time.Time) (*entity.IndividualStats, error) {
	var stats entity.IndividualStats

	query := repo.db.WithContext(ctx).
		Table("disposal_items AS di").
		Select("COUNT(di.id) AS total_count, "+
			"COALESCE(SUM(di.weight), 0) AS total_weight, "+
			"COALESCE(SUM(di.volume), 0) AS total_volume, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.score ELSE 0 END), 0) AS total_score, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN 1 ELSE 0 END), 0) AS recycled_count, "+
			"COALESCE(SUM(CASE WHEN ri.reservation_id IS NOT NULL AND di.recycled = ? THEN 1 ELSE 0 END), 0) AS reserved_count",
			true, true, false).
		Joins("JOIN individuals i ON i.id = di.individual_id").
		Joins("LEFT JOIN reservation_items ri ON ri.item_id = di.id").
		Where("i.national_id = ?", nationalID)
	if since != nil {
		query = query.Where("di.discarded_at >= ?", *since)
	}

	if err := query.Scan(&stats).Error; err != nil {
		return nil, dbError(err, "failed to aggregate individual statistics")
	}

	return &stats, nil
}

// OrganizationStats aggregates what an organization did since the given time (nil for all).
// Reservations count by reservation time, recycled items by completion time. A recycled item
// reserved inside the window counts in both.
func (repo *dashboardRepository) OrganizationStats(ctx context.Context, taxID string, since *time.Time) (*entity.OrganizationStats, error) {
	var stats entity.OrganizationStats

	reserved, reservedArgs := "1 = 1", []any{}
	recycled, recycledArgs := "di.recycled = ?", []any{true}
	if since != nil {
		reserved, reservedArgs = "r.created_at >= ?", []any{*since}
		recycled, recycledArgs = "di.recycled = ? AND r.completed_at >= ?", []any{true, *since}
	}

	columns := []struct {
		cond  string
		args  []any
		value string
		alias string
	}{
		{reserved, reservedArgs, "1", "reserved_count"},
		{reserved, reservedArgs, "di.weight", "reserved_weight"},
		{reserved, reservedArgs, "di.volume", "reserved_volume"},
		{recycled, recycledArgs, "1", "recycled_count"},
		{recycled, recycledArgs, "di.weight", "recycled_weight"},
		{recycled, recycledArgs, "di.volume", "recycled_volume"},
		{recycled, recycledArgs, "di.score", "total_score"},
	}
	selects := make([]string, 0, len(columns))
	var args []any
	for _, column := range columns {
		selects = append(selects, "COALESCE(SUM(CASE WHEN "+column.cond+" THEN "+column.value+" ELSE 0 END), 0) AS "+column.alias)
		args = append(args, column.args...)
	}

	query := repo.db.WithContext(ctx).
		Table("reservations AS r").
		Select(strings.Join(selects, ", "), args...).
		Joins("JOIN organizations o ON o.id = r.organization_id").
		Joins("JOIN reservation_items ri ON ri.reservation_id = r.id").
		Joins("JOIN disposal_items di ON di.id = ri.item_id").
		Where("o.tax_id = ?", taxID)
	if since != nil {
		query = query.Where("(("+reserved+") OR ("+recycled+"))", append(append([]any{}, reservedArgs...), recycledArgs...)...)
	}

	if err := query.Scan(&stats).Error; err != nil {
		return nil, dbError(err, "failed to aggregate organization statistics")
	}

	return &stats, nil
}

// AvailableItems lists unreserved items matching every set predicate of the filter.
func (repo *dashboardRepository) AvailableItems(ctx context.Context, filter entity.AvailableFilter, taxID string) ([]entity.DisposalRecord, error) {
	query := repo.records(ctx).
		Where("ri.reservation_id IS NULL AND di.recycled = ?", false)

	if len(filter.TypeNames) > 0 {
		query = query.Where("dt.name IN ?", filter.TypeNames)
	}
	if filter.MinWeight != nil {
		query = query.Where("di.weight >= ?", *filter.MinWeight)
	}
	if filter.MaxWeight != nil {
		query = query.Where("di.weight <= ?", *filter.MaxWeight)
	}
	if filter.MinVolume != nil {
		query = query.Where("di.volume >= ?", *filter.MinVolume)
	}
	if filter.MaxVolume != nil {
		query = query.Where("di.volume <= ?", *filter.MaxVolume)
	}
	if filter.From != nil {
		query = query.Where("di.discarded_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("di.discarded_at <= ?", *filter.To)
	}
	if filter.OnlyAllowed && taxID != "" {
		query = query.Where("di.disposal_type_id IN (SELECT odt.disposal_type_id FROM organization_disposal_types odt "+
			"JOIN organizations ao ON ao.id = odt.organization_id WHERE ao.tax_id = ?)", taxID)
	}

	return scanRecords(query.Order("di.discarded_at DESC, di.id DESC"), "failed to list available items")
}

// OrganizationReserved lists the items an organization holds but has not recycled yet.
func (repo *dashboardRepository) OrganizationReserved(ctx context.Context, taxID string) ([]entity.DisposalRecord, error) {
	return scanRecords(repo.records(ctx).
		Where("o.tax_id = ? AND di.recycled = ?", taxID, false).
		Order("r.created_at DESC, di.id DESC"), "failed to list reserved items")
}

// OrganizationRecycled lists the items an organization recycled.
func (repo *dashboardRepository) OrganizationRecycled(ctx context.Context, taxID string) ([]entity.DisposalRecord, error) {
	return scanRecords(repo.records(ctx).
		Where("o.tax_id = ? AND di.recycled = ?", taxID, true).
		Order("r.completed_at DESC, di.id DESC"), "failed to list recycled items")
}

// IndividualHistory lists the items an individual discarded since the given time (nil for all).
func (repo *dashboardRepository) IndividualHistory(ctx context.Context, nationalID string, since *time.Time) ([]entity.DisposalRecord, error) {
	query := repo.records(ctx).Where("i.national_id = ?", nationalID)
	if since != nil {
		query = query.Where("di.discarded_at >= ?", *since)
	}

	return scanRecords(query.Order("di.discarded_at DESC, di.id DESC"), "failed to list individual history")
}

type measureTotals struct {
	TotalWeight    float64
	TotalVolume    float64
	ReservedWeight float64
	ReservedVolume float64
	RecycledWeight float64
	RecycledVolume float64
	TotalScore     float64
}

// IndividualProfile returns the profile of an individual, or nil when unknown.
func (repo *dashboardRepository) IndividualProfile(ctx context.Context, nationalID string) (*entity.IndividualProfile, error) {
	individual, err := NewIndividualRepository(repo.db).FindIndividualByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, repository.ErrIndividualNotFound) {
			return nil, nil
		}

		return nil, err
	}

	addressText, err := repo.addressText(ctx, individual.AddressID)
	if err != nil {
		return nil, err
	}

	var totals measureTotals
	err = repo.db.WithContext(ctx).
		Model(&model.DisposalItemModel{}).
		Select("COALESCE(SUM(weight), 0) AS total_weight, "+
			"COALESCE(SUM(volume), 0) AS total_volume, "+
			"COALESCE(SUM(CASE WHEN recycled = ? THEN weight ELSE 0 END), 0) AS recycled_weight, "+
			"COALESCE(SUM(CASE WHEN recycled = ? THEN volume ELSE 0 END), 0) AS recycled_volume, "+
			"COALESCE(SUM(CASE WHEN recycled = ? THEN score ELSE 0 END), 0) AS total_score",
			true, true, true).
		Where("individual_id = ?", individual.ID).
		Scan(&totals).Error
	if err != nil {
		return nil, dbError(err, "failed to aggregate individual profile")
	}

	return &entity.IndividualProfile{
		Individual:     *individual,
		Age:            entity.AgeOn(individual.BirthDate, time.Now()),
		AddressText:    addressText,
		TotalWeight:    totals.TotalWeight,
		TotalVolume:    totals.TotalVolume,
		RecycledWeight: totals.RecycledWeight,
		RecycledVolume: totals.RecycledVolume,
		TotalScore:     totals.TotalScore,
	}, nil
}

// OrganizationProfile returns the profile of an organization, or nil when unknown.
func (repo *dashboardRepository) OrganizationProfile(ctx context.Context, taxID string) (*entity.OrganizationProfile, error) {
	organizations := NewOrganizationRepository(repo.db)

	organization, err := organizations.FindOrganizationByTaxID(ctx, taxID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, nil
		}

		return nil, err
	}

	addressText, err := repo.addressText(ctx, organization.AddressID)
	if err != nil {
		return nil, err
	}

	types, err := organizations.ListSupportedTypes(ctx, organization.ID)
	if err != nil {
		return nil, err
	}
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, t.Name)
	}

	var totals measureTotals
	err = repo.db.WithContext(ctx).
		Table("reservations AS r").
		Select("COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.weight ELSE 0 END), 0) AS reserved_weight, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.volume ELSE 0 END), 0) AS reserved_volume, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.weight ELSE 0 END), 0) AS recycled_weight, "+
			"COALESCE(SUM(CASE WHEN di.recycled = ? THEN di.volume ELSE 0 END), 0) AS recycled_volume",
			false, false, true, true).
		Joins("JOIN reservation_items ri ON ri.reservation_id = r.id").
		Joins("JOIN disposal_items di ON di.id = ri.item_id").
		Where("r.organization_id = ?", organization.ID).
		Scan(&totals).Error
	if err != nil {
		return nil, dbError(err, "failed to aggregate organization profile")
	}

	return &entity.OrganizationProfile{
		Organization:   *organization,
		AddressText:    addressText,
		SupportedTypes: typeNames,
		ReservedWeight: totals.ReservedWeight,
		ReservedVolume: totals.ReservedVolume,
		RecycledWeight: totals.RecycledWeight,
		RecycledVolume: totals.RecycledVolume,
	}, nil
}

// addressText renders the address, tolerating a dangling reference with an empty string.
func (repo *dashboardRepository) addressText(ctx context.Context, addressID int64) (string, error) {
	text, err := NewAddressRepository(repo.db).AddressText(ctx, addressID)
	if err != nil && !errors.Is(err, repository.ErrAddressNotFound) {
		return "", err
	}

	return text, nil
}
