package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends JSON events to durable queues on RabbitMQ.  It dials a
// connection per publish; event volume is one message per booking or
// payment write, so a long-lived channel is not worth the reconnect
// handling.
type Publisher struct {
	url string
	log *logrus.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *logrus.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// publishDialTimeout caps the TCP dial of a publish so a silent broker
// cannot hold a request past its own deadline.
const publishDialTimeout = 2 * time.Second

func dialTimeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < publishDialTimeout {
			return max(left, time.Millisecond)
		}
	}
	return publishDialTimeout
}

// Publish marshals event and publishes it as a persistent message to the
// named queue.  Failures are returned to the caller, which decides how to
// log them.
func (p *Publisher) Publish(ctx context.Context, queueName string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", queueName, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish to %s: %w", queueName, err)
	}
	p.log.WithFields(logrus.Fields{"queue": queueName, "message_id": msg.MessageId}).Debug("rabbitmq: event published")
	return nil
}
