package repository

import (
	"context"
	"fmt"
	"time"

	"OddsCast/internal/domain/models"
	domrepo "OddsCast/internal/domain/repository"
	pkgkafka "OddsCast/pkg/kafka"
)

// KafkaPublisher mirrors accepted snapshots to a Kafka topic for
// downstream consumers. The file log remains the source of truth.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka snapshot publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, s *models.Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	key := []byte(s.Timestamp.UTC().Format(time.RFC3339))
	if err := p.producer.Publish(ctx, p.topic, key, s); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
