//go:build integration

package facts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"codee/internal/city"
	"codee/internal/facts"
	"codee/pkg/platform/sentinel"
	"codee/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *facts.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = facts.NewRedisStore(s.redis.Client, 30*time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	age := 22.5
	rsa := false
	c := city.SaintDenis

	err := s.store.Save(ctx, "conv-1", &facts.Facts{Age: &age, RSA: &rsa, City: &c})
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, "conv-1")
	s.Require().NoError(err)
	s.Equal(22.5, *got.Age)
	s.False(*got.RSA)
	s.Equal(city.SaintDenis, *got.City)
	s.Nil(got.Schooling)
}

func (s *RedisStoreSuite) TestMissReturnsErrNotFound() {
	_, err := s.store.Get(context.Background(), "conv-unknown")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestPendingConfirmationRoundTrip() {
	ctx := context.Background()
	age := 19.0
	f := &facts.Facts{
		Age: &age,
		Pending: &facts.PendingConfirmation{
			SuggestedCity: city.Pierrefitte,
			Score:         82,
			ResumeState:   "city_verification_young_no_rsa",
		},
	}
	s.Require().NoError(s.store.Save(ctx, "conv-1", f))

	got, err := s.store.Get(ctx, "conv-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.Pending)
	s.Equal(city.Pierrefitte, got.Pending.SuggestedCity)
	s.Equal(82, got.Pending.Score)
	s.Equal("city_verification_young_no_rsa", got.Pending.ResumeState)
}

func (s *RedisStoreSuite) TestReadSlidesExpiry() {
	ctx := context.Background()
	age := 22.0
	s.Require().NoError(s.store.Save(ctx, "conv-1", &facts.Facts{Age: &age}))

	key := "facts:conv:conv-1"
	s.Require().NoError(s.redis.Client.Expire(ctx, key, 5*time.Second).Err())

	_, err := s.store.Get(ctx, "conv-1")
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 5*time.Second)
}

func (s *RedisStoreSuite) TestTTLEviction() {
	ctx := context.Background()
	short := facts.NewRedisStore(s.redis.Client, 50*time.Millisecond)
	age := 22.0
	s.Require().NoError(short.Save(ctx, "conv-1", &facts.Facts{Age: &age}))

	time.Sleep(90 * time.Millisecond)

	_, err := short.Get(ctx, "conv-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	age := 22.0
	s.Require().NoError(s.store.Save(ctx, "conv-1", &facts.Facts{Age: &age}))
	s.Require().NoError(s.store.Delete(ctx, "conv-1"))

	_, err := s.store.Get(ctx, "conv-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
