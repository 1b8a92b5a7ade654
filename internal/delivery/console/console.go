// Package console is the interactive front end. Each input line is parsed by a cobra
// command tree and the resulting work is issued through the task runner.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"greenhood/config"
	"greenhood/internal/delivery"
	"greenhood/internal/delivery/ui"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/entity"
	"greenhood/internal/domain/service"
	"greenhood/internal/errors"
	"greenhood/internal/usecase"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// Console reads commands from standard input until EOF or exit.
type Console struct {
	cfg        *config.Config
	runner     *ui.Runner
	accounts   usecase.AccountUsecase
	disposals  usecase.DisposalUsecase
	addresses  usecase.AddressUsecase
	dashboard  usecase.DashboardUsecase
	localizer  service.Localizer
	term       *Terminal
	shutdowner fx.Shutdowner
	logger     *slog.Logger
	in         io.Reader

	mu    sync.Mutex
	token string
}

// ConsoleParams holds dependencies for Console, injected by Fx
type ConsoleParams struct {
	fx.In

	Config     *config.Config
	Runner     *ui.Runner
	Accounts   usecase.AccountUsecase
	Disposals  usecase.DisposalUsecase
	Addresses  usecase.AddressUsecase
	Dashboard  usecase.DashboardUsecase
	Localizer  service.Localizer
	Terminal   *Terminal
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
}

// NewConsole creates the shell delivery.
func NewConsole(params ConsoleParams) delivery.Delivery {
	return newConsole(params, os.Stdin)
}

func newConsole(params ConsoleParams, in io.Reader) *Console {
	return &Console{
		cfg:        params.Config,
		runner:     params.Runner,
		accounts:   params.Accounts,
		disposals:  params.Disposals,
		addresses:  params.Addresses,
		dashboard:  params.Dashboard,
		localizer:  params.Localizer,
		term:       params.Terminal,
		shutdowner: params.Shutdowner,
		logger:     params.Logger,
		in:         in,
	}
}

// Serve runs the read loop. Leaving it stops the application.
func (c *Console) Serve(ctx context.Context) error {
	if !c.cfg.Console.Enabled {
		c.logger.Info("Console disabled")

		return nil
	}

	scanner := bufio.NewScanner(c.in)
	c.prompt()
	for scanner.Scan() {
		if c.Execute(ctx, scanner.Text()) {
			break
		}
		c.prompt()
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read console input")
	}

	c.runner.Wait()

	return errors.WithStack(c.shutdowner.Shutdown())
}

// Execute parses and issues one input line. It reports whether the user asked to leave.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	args, err := splitLine(line)
	if err != nil {
		c.printf("! %s\n", c.localizer.Get(domainerrors.KeyInvalidInput, err))

		return false
	}
	if len(args) == 0 {
		return false
	}
	if args[0] == "exit" || args[0] == "quit" {
		return true
	}

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.term)
	root.SetErr(c.term)
	if err := root.ExecuteContext(ctx); err != nil {
		c.printf("! %s\n", c.localizer.Get(domainerrors.KeyInvalidInput, err))
	}

	return false
}

func (c *Console) prompt() {
	c.printf("%s", c.cfg.Console.Prompt)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.term, format, args...)
}

func (c *Console) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "greenhood",
		Short:         "Household disposal coordination",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.passwordCommand(),
		c.updateCommand(),
		c.profileCommand(),
		c.accountCommand(),
		c.discardCommand(),
		c.itemCommand(),
		c.reserveCommand(),
		c.cancelCommand(),
		c.recycleCommand(),
		c.availableCommand(),
		c.leaderboardCommand(),
		c.feedCommand(),
		c.statsCommand(),
		c.historyCommand(),
		c.organizationItemsCommand(),
		c.typesCommand(),
		c.localitiesCommand(),
	)

	return root
}

// issue hands work to the runner under the command path as task name.
func (c *Console) issue(cmd *cobra.Command, work ui.Task) {
	c.runner.Run(cmd.CommandPath(), work, nil)
}

func (c *Console) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

func (c *Console) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.token
}

// actor resolves the logged-in actor and checks it is one of kinds.
func (c *Console) actor(ctx context.Context, kinds ...entity.ActorKind) (*entity.Actor, error) {
	token := c.currentToken()
	if token == "" {
		return nil, domainerrors.NewValidationFailure(domainerrors.KeyNotLoggedIn)
	}

	actor, err := c.accounts.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return actor, nil
	}
	for _, kind := range kinds {
		if actor.Kind == kind {
			return actor, nil
		}
	}

	return nil, domainerrors.NewValidationFailure(domainerrors.KeyForbiddenAction)
}

// splitLine splits a line into arguments with shell quoting and backslash escapes.
func splitLine(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, errors.Wrap(err, "failed to split input")
	}

	return args, nil
}
