package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQPublisher struct {
	conn  *amqp.Connection
	chn   Channel
	queue string
}

// NewRabbitMQPublisher dials the broker and declares a durable queue.
func NewRabbitMQPublisher(url, queue string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	_, err = chn.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		chn.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitMQPublisher{conn: conn, chn: chn, queue: queue}, nil
}

func NewRabbitMQPublisherWithChannel(chn Channel, queue string) *RabbitMQPublisher {
	return &RabbitMQPublisher{chn: chn, queue: queue}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal rabbitmq body: %w", err)
	}
	return p.chn.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			CorrelationId: key,
			Body:          body,
		},
	)
}

func (p *RabbitMQPublisher) Close() error {
	if err := p.chn.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
