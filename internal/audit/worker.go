package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher is the downstream sink for decision records.
type Publisher interface {
	Publish(ctx context.Context, decision Decision) error
}

// Worker drains the decision inbox and fans each record out to the store and
// the publisher. The engine emits without blocking; a full inbox drops the
// record with a log line rather than stalling a conversation turn.
type Worker struct {
	logger    *slog.Logger
	store     Store
	publisher Publisher
	inbox     chan Decision
}

func NewWorker(logger *slog.Logger, store Store, publisher Publisher, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		logger:    logger,
		store:     store,
		publisher: publisher,
		inbox:     make(chan Decision, buffer),
	}
}

// Emit queues a decision for recording. Never blocks the caller.
func (w *Worker) Emit(ctx context.Context, decision Decision) {
	select {
	case w.inbox <- decision:
	default:
		w.logger.ErrorContext(ctx, "audit inbox full, dropping decision",
			"decision_id", decision.ID,
			"conversation_id", decision.ConversationID,
		)
	}
}

// Run processes the inbox until ctx is cancelled, then drains what is left.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case decision := <-w.inbox:
			w.record(ctx, decision)
		}
	}
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case decision := <-w.inbox:
			w.record(ctx, decision)
		default:
			return
		}
	}
}

func (w *Worker) record(ctx context.Context, decision Decision) {
	if w.store != nil {
		if err := w.store.Append(ctx, decision); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist decision",
				"decision_id", decision.ID,
				"error", err.Error(),
			)
		}
	}
	if w.publisher != nil {
		if err := w.publisher.Publish(ctx, decision); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish decision",
				"decision_id", decision.ID,
				"error", err.Error(),
			)
		}
	}
}
