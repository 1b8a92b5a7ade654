package ui

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "greenhood/internal/delivery/context"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/service"
	"greenhood/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Task is a unit of background work. The context carries the task logger and id.
type Task func(ctx context.Context) error

// Runner executes tasks off the presentation goroutine and turns their outcome into
// presenter calls posted to the event loop.
type Runner struct {
	loop      *EventLoop
	presenter Presenter
	localizer service.Localizer
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// RunnerParams holds dependencies for Runner, injected by Fx
type RunnerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Loop      *EventLoop
	Presenter Presenter
	Localizer service.Localizer
	Logger    *slog.Logger
}

// NewRunner creates a Runner that drains its tasks before the event loop stops.
func NewRunner(params RunnerParams) *Runner {
	runner := NewStandaloneRunner(params.Loop, params.Presenter, params.Localizer, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			runner.Wait()

			return nil
		},
	})

	return runner
}

// NewStandaloneRunner creates a Runner without lifecycle hooks.
func NewStandaloneRunner(loop *EventLoop, presenter Presenter, localizer service.Localizer, logger *slog.Logger) *Runner {
	return &Runner{
		loop:      loop,
		presenter: presenter,
		localizer: localizer,
		logger:    logger,
	}
}

// Run starts work on its own goroutine and returns immediately. onDone may be nil;
// otherwise it runs exactly once after the outcome of work was posted.
func (r *Runner) Run(name string, work Task, onDone Task) {
	taskID := uuid.NewString()
	logger := r.logger.With(slog.String("task", name), slog.String("task_id", taskID))
	ctx := deliverycontext.WithLogger(deliverycontext.WithRequestID(context.Background(), taskID), logger)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.respond(logger, protect(ctx, work))

		if onDone != nil {
			if err := protect(ctx, onDone); err != nil {
				logger.Warn("Task completion hook failed", slog.Any("error", err))
			}
		}
	}()
}

// Inform posts a localized information message.
func (r *Runner) Inform(key string, args ...any) {
	message := r.localizer.Get(key, args...)
	r.loop.Post(func() {
		r.presenter.ShowInfo(message)
	})
}

// Show posts preformatted text as an information message.
func (r *Runner) Show(text string) {
	r.loop.Post(func() {
		r.presenter.ShowInfo(text)
	})
}

// Post schedules fn on the event loop.
func (r *Runner) Post(fn func()) {
	r.loop.Post(fn)
}

// Wait blocks until every issued task and its completion hook finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) respond(logger *slog.Logger, err error) {
	kind := Classify(err)

	switch kind {
	case KindNone:
		return
	case KindValidation:
		failure, _ := domainerrors.IsValidationFailure(err)
		logger.Info("Task rejected", slog.String("key", failure.Key))
		r.warn(r.localizer.Get(failure.Key, failure.Args...))
	case KindConnectivity:
		logger.Error("Store unreachable, terminating", slog.Any("error", err))
		r.warn(r.localizer.Get(domainerrors.KeyNetworkWarning))
		r.loop.Post(r.presenter.ForceTerminate)
	case KindStore:
		logger.Error("Store rejected the task", slog.Any("error", err))
		r.warn(r.localizer.Get(domainerrors.KeyErrorDB))
	case KindUnexpected:
		logger.Error("Task failed unexpectedly", slog.Any("error", err))
		r.warn(r.localizer.Get(domainerrors.KeyErrorUnexpected))
	}
}

func (r *Runner) warn(message string) {
	r.loop.Post(func() {
		r.presenter.ShowWarning(message)
	})
}

// protect runs task and converts a panic into an error.
func protect(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()

	return task(ctx)
}
