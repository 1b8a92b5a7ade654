package console

import (
	"fmt"
	"log/slog"
	"os"

	"greenhood/internal/delivery/ui"

	"go.uber.org/fx"
)

// Shutdowner releases the connection pool.
type Shutdowner interface {
	Shutdown() error
}

type presenter struct {
	term     *Terminal
	provider Shutdowner
	exit     func(code int)
	logger   *slog.Logger
}

// PresenterParams holds dependencies for the console presenter, injected by Fx
type PresenterParams struct {
	fx.In

	Terminal *Terminal
	Provider Shutdowner
	Logger   *slog.Logger
}

// NewPresenter prints messages on the terminal and terminates the process on demand.
func NewPresenter(params PresenterParams) ui.Presenter {
	return &presenter{
		term:     params.Terminal,
		provider: params.Provider,
		exit:     os.Exit,
		logger:   params.Logger,
	}
}

func (p *presenter) ShowInfo(message string) {
	fmt.Fprintln(p.term, message)
}

func (p *presenter) ShowWarning(message string) {
	fmt.Fprintln(p.term, "! "+message)
}

// ForceTerminate shuts the pool down on a best-effort basis and exits with status 0.
func (p *presenter) ForceTerminate() {
	if err := p.provider.Shutdown(); err != nil {
		p.logger.Warn("Failed to shut down connection provider", slog.Any("error", err))
	}
	p.logger.Info("Terminating after connectivity loss")
	p.exit(0)
}
