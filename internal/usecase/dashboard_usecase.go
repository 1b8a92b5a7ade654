package usecase

import (
	"context"

	"greenhood/internal/domain/entity"
)

// NeighborhoodBoard is the leaderboard of the caller's neighborhood.
type NeighborhoodBoard struct {
	Neighborhood string
	Entries      []entity.LeaderboardEntry
}

// DashboardUsecase defines the read-only queries. Each call holds one session and no transaction.
// Limits outside (0, MaxLimit] fall back to DefaultLimit.
type DashboardUsecase interface {
	TopIndividuals(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	TopOrganizations(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	NeighborhoodLeaderboard(ctx context.Context, nationalID string, limit int) (*NeighborhoodBoard, error)

	RecentDiscards(ctx context.Context, limit int) ([]entity.DisposalRecord, error)
	RecentRecycled(ctx context.Context, limit int) ([]entity.DisposalRecord, error)
	RecentReservations(ctx context.Context, limit int) ([]entity.DisposalRecord, error)

	IndividualStats(ctx context.Context, nationalID string, statsRange entity.StatsRange) (*entity.IndividualStats, error)
	OrganizationStats(ctx context.Context, taxID string, statsRange entity.StatsRange) (*entity.OrganizationStats, error)

	AvailableItems(ctx context.Context, filter entity.AvailableFilter, taxID string) ([]entity.DisposalRecord, error)
	OrganizationReserved(ctx context.Context, taxID string) ([]entity.DisposalRecord, error)
	OrganizationRecycled(ctx context.Context, taxID string) ([]entity.DisposalRecord, error)
	// IndividualHistory lists the caller's items of the last days; zero days means all.
	IndividualHistory(ctx context.Context, nationalID string, days int) ([]entity.DisposalRecord, error)

	IndividualProfile(ctx context.Context, nationalID string) (*entity.IndividualProfile, error)
	OrganizationProfile(ctx context.Context, taxID string) (*entity.OrganizationProfile, error)

	DisposalTypes(ctx context.Context) ([]entity.DisposalType, error)
	OrganizationTypes(ctx context.Context, taxID string) ([]entity.DisposalType, error)
}

// Query limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)
