// Package queue publishes durable document-upload events to RabbitMQ.
// Consumers downstream (indexers, trainers) are outside this backend.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DocumentUploaded announces that a document revision landed in object
// storage.
type DocumentUploaded struct {
	DocumentID    string    `json:"document_id"`
	ClientID      string    `json:"client_id"`
	RawURL        string    `json:"raw_url"`
	VersionNumber int       `json:"version_number"`
	UploadedBy    string    `json:"uploaded_by"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// EventPublisher is the surface services publish through.
type EventPublisher interface {
	PublishDocumentUploaded(ctx context.Context, event DocumentUploaded) error
	Close() error
}

// AMQPPublisher implements EventPublisher on a RabbitMQ queue.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPPublisher connects to RabbitMQ and declares the durable queue.
func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Durable, non-exclusive point-to-point queue
	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{
		conn:    conn,
		channel: channel,
		queue:   queueName,
	}, nil
}

// PublishDocumentUploaded sends one persistent message to the queue.
func (p *AMQPPublisher) PublishDocumentUploaded(ctx context.Context, event DocumentUploaded) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish document uploaded: %w", err)
	}

	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	return p.conn.Close()
}
