// Package feed mirrors persisted activity events onto a Kafka topic for
// analytics consumers. The firehose is strictly best-effort: it runs after
// the durable write and a publishing failure never reaches a handler.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"resona/internal/activity"
	"resona/internal/platform/metrics"
)

type Publisher struct {
	client  *kgo.Client
	topic   string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPublisher connects to the brokers and makes sure the topic exists.
// An empty broker list yields a nil Publisher, which is a valid "feed
// disabled" configuration.
func NewPublisher(ctx context.Context, brokers []string, topic string, m *metrics.Metrics, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Publisher{client: client, topic: topic, metrics: m, logger: logger}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	_, err := adm.CreateTopic(ctx, 1, -1, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return err
	}
	return nil
}

// Publish produces one event, keyed by actor so a consumer sees each user's
// events in order. Fire-and-forget; errors are logged and counted only.
func (p *Publisher) Publish(ctx context.Context, event activity.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.FeedPublishErrors.Inc()
		p.logger.ErrorContext(ctx, "feed event marshal failed", "error", err, "event_id", event.ID.String())
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Actor.String()),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.metrics.FeedPublishErrors.Inc()
			p.logger.ErrorContext(ctx, "feed publish failed", "error", err, "event_id", event.ID.String())
		}
	})
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close(ctx context.Context) {
	if p == nil {
		return
	}
	if err := p.client.Flush(ctx); err != nil {
		p.logger.WarnContext(ctx, "feed flush on close failed", "error", err)
	}
	p.client.Close()
}
