package facts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"codee/internal/city"
	"codee/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite

	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore(30*time.Minute, WithClock(func() time.Time { return s.now }))
}

func (s *InMemoryStoreSuite) TestGetSave() {
	ctx := context.Background()

	s.Run("unknown conversation is not found", func() {
		_, err := s.store.Get(ctx, "conv-unknown")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("saved facts round-trip", func() {
		age := 22.0
		c := city.Stains
		s.Require().NoError(s.store.Save(ctx, "conv-1", &Facts{Age: &age, City: &c}))

		got, err := s.store.Get(ctx, "conv-1")
		s.Require().NoError(err)
		s.Equal(22.0, *got.Age)
		s.Equal(city.Stains, *got.City)
		s.Nil(got.RSA)
	})

	s.Run("returned facts are a copy", func() {
		age := 30.0
		s.Require().NoError(s.store.Save(ctx, "conv-2", &Facts{Age: &age}))

		got, _ := s.store.Get(ctx, "conv-2")
		other := 99.0
		got.Age = &other

		again, _ := s.store.Get(ctx, "conv-2")
		s.Equal(30.0, *again.Age)
	})
}

func (s *InMemoryStoreSuite) TestExpiry() {
	ctx := context.Background()
	age := 22.0
	s.Require().NoError(s.store.Save(ctx, "conv-1", &Facts{Age: &age}))

	s.Run("facts survive within the ttl", func() {
		s.now = s.now.Add(29 * time.Minute)
		_, err := s.store.Get(ctx, "conv-1")
		s.NoError(err)
	})

	s.Run("reads slide the expiry", func() {
		s.now = s.now.Add(29 * time.Minute)
		_, err := s.store.Get(ctx, "conv-1")
		s.NoError(err)
	})

	s.Run("facts expire after the ttl without activity", func() {
		s.now = s.now.Add(31 * time.Minute)
		_, err := s.store.Get(ctx, "conv-1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("purge drops expired entries", func() {
		s.Equal(1, s.store.Purge())
		s.Equal(0, s.store.Purge())
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	ctx := context.Background()
	age := 22.0
	s.Require().NoError(s.store.Save(ctx, "conv-1", &Facts{Age: &age}))
	s.Require().NoError(s.store.Delete(ctx, "conv-1"))

	_, err := s.store.Get(ctx, "conv-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func TestLockerSerializesSameConversation(t *testing.T) {
	locker := NewLocker()

	var mu sync.Mutex
	order := []int{}

	release := locker.Lock("conv-1")

	done := make(chan struct{})
	go func() {
		r := locker.Lock("conv-1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		r()
		close(done)
	}()

	// The second locker must wait until the first releases.
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	release()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected first holder to finish before second, got %v", order)
	}
}
