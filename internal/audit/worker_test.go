package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fakeStore struct {
	mu       sync.Mutex
	appended []Decision
	fail     bool
}

func (f *fakeStore) Append(_ context.Context, d Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("store down")
	}
	f.appended = append(f.appended, d)
	return nil
}

func (f *fakeStore) all() []Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Decision{}, f.appended...)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []Decision
}

func (f *fakePublisher) Publish(_ context.Context, d Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, d)
	return nil
}

func (f *fakePublisher) all() []Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Decision{}, f.published...)
}

type WorkerSuite struct {
	suite.Suite

	store     *fakeStore
	publisher *fakePublisher
	worker    *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.store = &fakeStore{}
	s.publisher = &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.worker = NewWorker(logger, s.store, s.publisher, 8)
}

func (s *WorkerSuite) decision() Decision {
	return Decision{
		ID:             uuid.New(),
		ConversationID: "c1",
		FinalState:     "eligible_ml",
		EligibilityTag: "ML",
		DecidedAt:      time.Now().UTC(),
	}
}

func (s *WorkerSuite) TestFanOut() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()

	d := s.decision()
	s.worker.Emit(ctx, d)

	s.Eventually(func() bool {
		return len(s.store.all()) == 1 && len(s.publisher.all()) == 1
	}, time.Second, 10*time.Millisecond)
	s.Equal(d.ID, s.store.all()[0].ID)
	s.Equal(d.ID, s.publisher.all()[0].ID)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *WorkerSuite) TestDrainsOnShutdown() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Queued before Run: the shutdown path must still record it.
	s.worker.Emit(context.Background(), s.decision())

	err := s.worker.Run(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Len(s.store.all(), 1)
	s.Len(s.publisher.all(), 1)
}

func (s *WorkerSuite) TestStoreFailureDoesNotStopPublishing() {
	s.store.fail = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()

	s.worker.Emit(ctx, s.decision())

	s.Eventually(func() bool {
		return len(s.publisher.all()) == 1
	}, time.Second, 10*time.Millisecond)
	s.Empty(s.store.all())

	cancel()
	<-done
}

func (s *WorkerSuite) TestFullInboxDropsInsteadOfBlocking() {
	for i := 0; i < 20; i++ {
		s.worker.Emit(context.Background(), s.decision())
	}
	// No Run loop is draining; Emit must have returned regardless.
}
