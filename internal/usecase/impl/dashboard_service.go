package impl

import (
	"context"
	"log/slog"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/repository"
	"greenhood/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dashboardService implements the DashboardUsecase interface on read-only sessions.
type dashboardService struct {
	txManager repository.TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

// DashboardServiceParams holds dependencies for DashboardService, injected by Fx.
type DashboardServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(params DashboardServiceParams) usecase.DashboardUsecase {
	return &dashboardService{
		txManager: params.TxManager,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    params.Logger,
	}
}

// query runs fn on one session and returns its value.
func query[T any](ctx context.Context, txManager repository.TransactionManager, fn func(repository.RepositoryFactory) (T, error)) (T, error) {
	var result T
	err := txManager.Read(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		result, err = fn(repoFactory)

		return err
	})

	return result, err
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > usecase.MaxLimit {
		return usecase.DefaultLimit
	}

	return limit
}

func (srv *dashboardService) TopIndividuals(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.LeaderboardEntry, error) {
		return f.NewDashboardRepository().TopIndividuals(ctx, clampLimit(limit))
	})
}

func (srv *dashboardService) TopOrganizations(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.LeaderboardEntry, error) {
		return f.NewDashboardRepository().TopOrganizations(ctx, clampLimit(limit))
	})
}

// NeighborhoodLeaderboard resolves the name and the ranking on the same session.
func (srv *dashboardService) NeighborhoodLeaderboard(ctx context.Context, nationalID string, limit int) (*usecase.NeighborhoodBoard, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) (*usecase.NeighborhoodBoard, error) {
		dashboardRepo := f.NewDashboardRepository()

		name, err := dashboardRepo.NeighborhoodName(ctx, nationalID)
		if err != nil {
			return nil, err
		}
		entries, err := dashboardRepo.NeighborhoodLeaderboard(ctx, nationalID, clampLimit(limit))
		if err != nil {
			return nil, err
		}

		return &usecase.NeighborhoodBoard{Neighborhood: name, Entries: entries}, nil
	})
}

func (srv *dashboardService) RecentDiscards(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().RecentDiscards(ctx, clampLimit(limit))
	})
}

func (srv *dashboardService) RecentRecycled(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().RecentRecycled(ctx, clampLimit(limit))
	})
}

func (srv *dashboardService) RecentReservations(ctx context.Context, limit int) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().RecentReservations(ctx, clampLimit(limit))
	})
}

func (srv *dashboardService) IndividualStats(ctx context.Context, nationalID string, statsRange entity.StatsRange) (*entity.IndividualStats, error) {
	since := statsRange.Since(srv.now())

	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) (*entity.IndividualStats, error) {
		return f.NewDashboardRepository().IndividualStats(ctx, nationalID, since)
	})
}

func (srv *dashboardService) OrganizationStats(ctx context.Context, taxID string, statsRange entity.StatsRange) (*entity.OrganizationStats, error) {
	since := statsRange.Since(srv.now())

	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) (*entity.OrganizationStats, error) {
		return f.NewDashboardRepository().OrganizationStats(ctx, taxID, since)
	})
}

func (srv *dashboardService) AvailableItems(ctx context.Context, filter entity.AvailableFilter, taxID string) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().AvailableItems(ctx, filter, taxID)
	})
}

func (srv *dashboardService) OrganizationReserved(ctx context.Context, taxID string) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().OrganizationReserved(ctx, taxID)
	})
}

func (srv *dashboardService) OrganizationRecycled(ctx context.Context, taxID string) ([]entity.DisposalRecord, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().OrganizationRecycled(ctx, taxID)
	})
}

func (srv *dashboardService) IndividualHistory(ctx context.Context, nationalID string, days int) ([]entity.DisposalRecord, error) {
	var since *time.Time
	if days > 0 {
		from := srv.now().AddDate(0, 0, -days)
		since = &from
	}

	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalRecord, error) {
		return f.NewDashboardRepository().IndividualHistory(ctx, nationalID, since)
	})
}

func (srv *dashboardService) IndividualProfile(ctx context.Context, nationalID string) (*entity.IndividualProfile, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) (*entity.IndividualProfile, error) {
		return f.NewDashboardRepository().IndividualProfile(ctx, nationalID)
	})
}

func (srv *dashboardService) OrganizationProfile(ctx context.Context, taxID string) (*entity.OrganizationProfile, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) (*entity.OrganizationProfile, error) {
		return f.NewDashboardRepository().OrganizationProfile(ctx, taxID)
	})
}

func (srv *dashboardService) DisposalTypes(ctx context.Context) ([]entity.DisposalType, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalType, error) {
		return f.NewDisposalRepository().ListDisposalTypes(ctx)
	})
}

// OrganizationTypes returns nothing for an unknown tax id.
func (srv *dashboardService) OrganizationTypes(ctx context.Context, taxID string) ([]entity.DisposalType, error) {
	return query(ctx, srv.txManager, func(f repository.RepositoryFactory) ([]entity.DisposalType, error) {
		organizationRepo := f.NewOrganizationRepository()

		organization, err := organizationRepo.FindOrganizationByTaxID(ctx, taxID)
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		return organizationRepo.ListSupportedTypes(ctx, organization.ID)
	})
}
