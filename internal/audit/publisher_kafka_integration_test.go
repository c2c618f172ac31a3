//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"codee/internal/audit"
	"codee/pkg/testutil/containers"
)

const testTopic = "codee.audit.decisions.test"

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer := s.redpanda.NewClient(s.T(), kgo.AllowAutoTopicCreation())
	publisher := audit.NewKafkaPublisher(producer, testTopic)

	age := 20.0
	sent := audit.Decision{
		ID:             uuid.New(),
		ConversationID: "conv-1",
		FinalState:     "eligible_plie",
		EligibilityTag: "PLIE",
		Age:            &age,
		City:           "la-courneuve",
		DecidedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(publisher.Publish(ctx, sent))

	consumer := s.redpanda.NewClient(s.T(),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().NotEmpty(records)

	record := records[len(records)-1]
	s.Equal("conv-1", string(record.Key))

	var got audit.Decision
	s.Require().NoError(json.Unmarshal(record.Value, &got))
	s.Equal(sent.ID, got.ID)
	s.Equal("PLIE", got.EligibilityTag)
	s.Equal("la-courneuve", got.City)
	s.Equal(20.0, *got.Age)
}
