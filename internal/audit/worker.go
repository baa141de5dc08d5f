package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueueFull is returned by Enqueue when the worker cannot keep up.
var ErrQueueFull = errors.New("audit queue full")

const defaultQueueSize = 256

// Worker consumes audit events from a buffered channel and persists them, so
// callers on a hot path never wait on a sink.
type Worker struct {
	publisher *Publisher
	inbox     chan Event
	logger    *slog.Logger
}

type WorkerOption func(*Worker)

func WithQueueSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.inbox = make(chan Event, n)
		}
	}
}

func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(publisher *Publisher, opts ...WorkerOption) *Worker {
	w := &Worker{
		publisher: publisher,
		inbox:     make(chan Event, defaultQueueSize),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue never blocks; a full queue drops the event.
func (w *Worker) Enqueue(event Event) error {
	select {
	case w.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run drains the queue until ctx is cancelled. Sink failures are logged and
// do not stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to publish audit event",
					"action", string(event.Action),
					"error", err,
				)
			}
		}
	}
}
