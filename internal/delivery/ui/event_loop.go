package ui

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/fx"
)

// EventLoop runs posted callbacks one at a time, in posting order, on a single goroutine.
// The queue is unbounded so Post never blocks the caller.
type EventLoop struct {
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	started bool
	stopped bool
	done    chan struct{}
}

// EventLoopParams holds dependencies for EventLoop, injected by Fx
type EventLoopParams struct {
	fx.In

	Lc     fx.Lifecycle
	Logger *slog.Logger
}

// NewEventLoop creates the loop and ties it to the application lifecycle.
func NewEventLoop(params EventLoopParams) *EventLoop {
	loop := NewStandaloneEventLoop(params.Logger)

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			loop.Start()

			return nil
		},
		OnStop: func(context.Context) error {
			loop.Stop()

			return nil
		},
	})

	return loop
}

// NewStandaloneEventLoop creates a loop the caller starts and stops.
func NewStandaloneEventLoop(logger *slog.Logger) *EventLoop {
	loop := &EventLoop{
		logger: logger,
		done:   make(chan struct{}),
	}
	loop.cond = sync.NewCond(&loop.mu)

	return loop
}

// Start launches the loop goroutine. Later calls, and calls after Stop, are no-ops.
func (l *EventLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started || l.stopped {
		return
	}
	l.started = true

	go l.run()
}

// Post enqueues fn. Callbacks posted after Stop are dropped.
func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		l.logger.Debug("Event loop stopped, dropping callback")

		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Stop runs what is already queued, then ends the loop and waits for it.
func (l *EventLoop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done

		return
	}
	l.stopped = true
	started := l.started
	l.cond.Signal()
	l.mu.Unlock()

	if !started {
		close(l.done)

		return
	}
	<-l.done
}

func (l *EventLoop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()

			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(fn)
	}
}

func (l *EventLoop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event loop callback panicked", slog.Any("panic", r))
		}
	}()

	fn()
}
