package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAuditLineBooking(t *testing.T) {
	body := []byte(`{"action":"moved","booking_id":7,"user_id":3,"room_id":12,"hotel_id":2,"occurred_at":"2024-01-02T03:04:05Z"}`)

	line, err := formatAuditLine(BookingEventsQueue, "m-1", body)

	require.NoError(t, err)
	assert.Equal(t, "[2024-01-02T03:04:05Z] Booking moved | message_id=m-1 | booking_id=7 | user_id=3 | hotel_id=2 | room_id=12\n", line)
}

func TestFormatAuditLinePayment(t *testing.T) {
	body := []byte(`{"payment_id":1,"ticket_id":9,"user_id":3,"value":25000,"card_issuer":"VISA","card_last_digits":"4242","processed_at":"t"}`)

	line, err := formatAuditLine(PaymentEventsQueue, "m-2", body)

	require.NoError(t, err)
	assert.Contains(t, line, "payment_id=1 | ticket_id=9")
	assert.Contains(t, line, "card=VISA ****4242")
}

func TestFormatAuditLineRejectsUnknownQueueAndBadJSON(t *testing.T) {
	_, err := formatAuditLine("other", "m", []byte(`{}`))
	assert.Error(t, err)

	_, err = formatAuditLine(BookingEventsQueue, "m", []byte(`{`))
	assert.Error(t, err)
}

func TestAuditConsumerHandleAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.log")
	a := NewAuditConsumer("amqp://unused", path, logrus.New())

	body := []byte(`{"action":"created","booking_id":1,"user_id":1,"room_id":1,"hotel_id":1,"occurred_at":"t"}`)
	require.NoError(t, a.handle(BookingEventsQueue, "a", body))
	require.NoError(t, a.handle(BookingEventsQueue, "b", body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "message_id=a")
	assert.Contains(t, string(data), "message_id=b")
}
