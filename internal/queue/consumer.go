package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditConsumer appends every booking and payment event to a log file,
// one line per event.
type AuditConsumer struct {
	url  string
	path string
	log  *logrus.Logger
}

// NewAuditConsumer returns a consumer reading from the broker at url and
// writing to path.
func NewAuditConsumer(url, path string, log *logrus.Logger) *AuditConsumer {
	return &AuditConsumer{url: url, path: path, log: log}
}

// Run connects to RabbitMQ, declares both event queues and consumes them
// until ctx is cancelled.  Lost connections are re-dialled with
// exponential backoff capped at 30s.  Run only returns ctx.Err().
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(a.url)
		if err != nil {
			a.log.WithError(err).Warnf("audit-consumer: dial failed; retrying in %s", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.WithError(err).Warn("audit-consumer: consume loop ended; reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.log.WithError(err).Warn("audit-consumer: set QoS failed")
	}

	merged := make(chan amqp.Delivery)
	for _, q := range []string{BookingEventsQueue, PaymentEventsQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		go func(in <-chan amqp.Delivery) {
			for d := range in {
				select {
				case merged <- d:
				case <-ctx.Done():
					return
				}
			}
		}(msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cerr := <-closed:
			if cerr != nil {
				return cerr
			}
			return errors.New("connection closed")
		case d := <-merged:
			if err := a.handle(d.RoutingKey, d.MessageId, d.Body); err != nil {
				a.log.WithError(err).WithField("queue", d.RoutingKey).Error("audit-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AuditConsumer) handle(queueName, messageID string, body []byte) error {
	line, err := formatAuditLine(queueName, messageID, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// formatAuditLine renders one event as a single human readable line.
func formatAuditLine(queueName, messageID string, body []byte) (string, error) {
	switch queueName {
	case BookingEventsQueue:
		var ev BookingEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal booking event: %w", err)
		}
		return fmt.Sprintf("[%s] Booking %s | message_id=%s | booking_id=%d | user_id=%d | hotel_id=%d | room_id=%d\n",
			ev.OccurredAt, ev.Action, messageID, ev.BookingID, ev.UserID, ev.HotelID, ev.RoomID), nil
	case PaymentEventsQueue:
		var ev PaymentProcessedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal payment event: %w", err)
		}
		return fmt.Sprintf("[%s] Payment processed | message_id=%s | payment_id=%d | ticket_id=%d | user_id=%d | value=%d | card=%s ****%s\n",
			ev.ProcessedAt, messageID, ev.PaymentID, ev.TicketID, ev.UserID, ev.Value, ev.CardIssuer, ev.CardLastDigits), nil
	}
	return "", fmt.Errorf("unknown queue %q", queueName)
}
