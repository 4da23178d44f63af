// Package publisher provides audit.Publisher implementations.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
)

// Kafka publishes audit events to a Kafka topic. Production is asynchronous;
// delivery failures are logged, never surfaced to the caller, because audit
// completeness must not block the user-facing flow.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects a franz-go producer to the given seed brokers.
func NewKafka(seeds []string, topic string, logger *slog.Logger) (*Kafka, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("kafka seed brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

// Emit serializes the event and produces it asynchronously.
func (k *Kafka) Emit(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Action),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && k.logger != nil {
			k.logger.Warn("audit event delivery failed", "action", event.Action, "error", err)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	if err := k.client.Flush(ctx); err != nil {
		return err
	}
	k.client.Close()
	return nil
}
