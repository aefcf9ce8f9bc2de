package repository

import (
	"context"
	"fmt"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgkafka "MarketLens/pkg/kafka"
)

// KafkaAlertEvents publishes fired alerts to a Kafka topic, keyed by
// symbol so per-symbol ordering holds across partitions.
type KafkaAlertEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertEvents creates a Kafka-backed alert event publisher.
func NewKafkaAlertEvents(producer *pkgkafka.Producer, topic string) domrepo.AlertEvents {
	return &KafkaAlertEvents{producer: producer, topic: topic}
}

// Publish sends one alert event.
func (p *KafkaAlertEvents) Publish(ctx context.Context, ev *models.AlertEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish alert event: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaAlertEvents) Close() error {
	return p.producer.Close()
}

// NopAlertEvents discards events. Used when Kafka is disabled.
type NopAlertEvents struct{}

// NewNopAlertEvents creates a no-op publisher.
func NewNopAlertEvents() domrepo.AlertEvents { return NopAlertEvents{} }

func (NopAlertEvents) Publish(context.Context, *models.AlertEvent) error { return nil }
func (NopAlertEvents) Close() error                                      { return nil }
