package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

func sampleReservation() model.Reservation {
	return model.Reservation{
		ID:         7,
		CarID:      3,
		UserID:     9,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		TotalPrice: 10000,
		Status:     model.StatusConfirmed,
	}
}

func TestFormatAuditLine(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ev := NewReservationEvent(EventReservationConfirmed, sampleReservation(), at)
	ev.EventID = "e1"

	line := FormatAuditLine(ev)
	assert.Equal(t,
		"[2024-01-01T12:00:00Z] reservation.confirmed | event_id=e1 | reservation_id=7 | user_id=9 | car_id=3 | status=confirmed | 2024-01-01T00:00:00Z -> 2024-01-03T00:00:00Z | total=100.00\n",
		line)

	pay := NewPaymentEvent(model.Payment{ID: 4, Amount: 10000}, sampleReservation(), at)
	assert.Contains(t, FormatAuditLine(pay), "| payment_id=4 | amount=100.00")
	assert.Equal(t, EventPaymentCaptured, pay.Type)
	assert.NotEmpty(t, pay.EventID)
}

func TestAuditConsumerHandleAppends(t *testing.T) {
	dir := t.TempDir()
	a := &AuditConsumer{LogPath: filepath.Join(dir, "logs", "rental.log"), Log: zap.NewNop()}

	body, err := json.Marshal(NewReservationEvent(EventReservationCancelled, sampleReservation(), time.Now()))
	require.NoError(t, err)
	require.NoError(t, a.handle(body))
	require.NoError(t, a.handle(body))

	data, err := os.ReadFile(a.LogPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(string(data)))

	assert.Error(t, a.handle([]byte("{not json")))
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
