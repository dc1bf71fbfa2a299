package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yeremiapane/tablesession-api/config"
)

// Publisher is the interface the relay uses to hand events to a broker.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// NewPublisher builds the publisher selected by events.transport.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.Events.Transport {
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case "rabbitmq":
		return NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	case "log":
		return NewLogPublisher(), nil
	}
	return nil, fmt.Errorf("unsupported events transport %q", cfg.Events.Transport)
}

// Envelope is the message body handed to brokers.
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	CompanyID   string          `json:"company_id"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}
