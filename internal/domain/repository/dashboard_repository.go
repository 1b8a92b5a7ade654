package repository

import (
	"context"
	"time"

	"greenhood/internal/domain/entity"
)

// DashboardRepository defines the read-only aggregation queries.
// Profile lookups return nil without an error when nothing matches.
type DashboardRepository interface {
	TopIndividuals(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	TopOrganizations(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	NeighborhoodLeaderboard(ctx context.Context, nationalID string, limit int) ([]entity.LeaderboardEntry, error)
	NeighborhoodName(ctx context.Context, nationalID string) (string, error)

	RecentDiscards(ctx context.Context, limit int) ([]entity.DisposalRecord, error)
	RecentRecycled(ctx context.Context, limit int) ([]entity.DisposalRecord, error)
	RecentReservations(ctx context.Context, limit int) ([]entity.DisposalRecord, error)

	IndividualStats(ctx context.Context, nationalID string, since *time.Time) (*entity.IndividualStats, error)
	OrganizationStats(ctx context.Context, taxID string, since *time.Time) (*entity.OrganizationStats, error)

	// AvailableItems lists unreserved items; taxID scopes OnlyAllowed and may be empty.
	AvailableItems(ctx context.Context, filter entity.AvailableFilter, taxID string) ([]entity.DisposalRecord, error)

	OrganizationReserved(ctx context.Context, taxID string) ([]entity.DisposalRecord, error)
	OrganizationRecycled(ctx context.Context, taxID string) ([]entity.DisposalRecord, error)
	IndividualHistory(ctx context.Context, nationalID string, since *time.Time) ([]entity.DisposalRecord, error)

	IndividualProfile(ctx context.Context, nationalID string) (*entity.IndividualProfile, error)
	OrganizationProfile(ctx context.Context, taxID string) (*entity.OrganizationProfile, error)
}
