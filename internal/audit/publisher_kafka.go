package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher publishes decision records to the audit topic. Records are
// keyed by conversation id so all decisions of one conversation land on the
// same partition in order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(client *kgo.Client, topic string) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, decision Decision) error {
	value, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshal decision %s: %w", decision.ID, err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(decision.ConversationID),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish decision %s: %w", decision.ID, err)
	}
	return nil
}
