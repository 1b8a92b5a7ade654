package main

import (
	"context"
	"log/slog"
	"os"

	"greenhood/config"
	"greenhood/internal/delivery"
	"greenhood/internal/delivery/api"
	"greenhood/internal/delivery/api/router/handler"
	"greenhood/internal/delivery/console"
	"greenhood/internal/delivery/ui"
	"greenhood/internal/domain/repository"
	"greenhood/internal/domain/validation"
	"greenhood/internal/infra/auth"
	"greenhood/internal/infra/i18n"
	logs "greenhood/internal/infra/log"
	"greenhood/internal/infra/mail"
	"greenhood/internal/infra/persistence/postgres"
	"greenhood/internal/infra/pubsub"
	"greenhood/internal/infra/scoring"
	"greenhood/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		postgres.NewProvider,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			newSessionIdentity,
			newPoolShutdowner,
		),
	)
}

// newSessionIdentity exposes the provider's identity switch to the account workflows.
func newSessionIdentity(provider *postgres.Provider) repository.SessionIdentity {
	return provider
}

// newPoolShutdowner lets the console presenter close the pool before exiting.
func newPoolShutdowner(provider *postgres.Provider) console.Shutdowner {
	return provider
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			validation.New,
			auth.NewBcryptHasher,
			auth.NewJWTService,
			auth.NewPasswordGenerator,
			scoring.NewScorer,
			i18n.NewLocalizer,
			mail.NewMailer,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAddressService,
			impl.NewAccountService,
			impl.NewDisposalService,
			impl.NewDashboardService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewDashboardHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			ui.NewEventLoop,
			ui.NewRunner,
			console.NewTerminal,
			console.NewPresenter,
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				console.NewConsole,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startServer launches every delivery once the lifecycle hooks have connected the store.
func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, delivery := range params.Deliveries {
				go func() {
					if err := delivery.Serve(ctx); err != nil {
						slog.Error("Failed to start server", slog.Any("error", err))
						os.Exit(1)
					}
				}()
			}

			return nil
		},
	})
}
