package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

func TestNewPaymentEvent(t *testing.T) {
	r := model.Reservation{
		ID: 11, CarID: 1, UserID: 7,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		TotalPrice: model.Dollars(116),
		Status:     model.StatusConfirmed,
	}
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	ev := NewPaymentEvent(model.Payment{ID: 3, Amount: model.Dollars(116)}, r, at)

	_, err := uuid.Parse(ev.EventID)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, ev.Type)
	assert.Equal(t, "2024-01-01T08:30:00Z", ev.OccurredAt)

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"payment_id":3`)
	assert.Contains(t, string(b), `"amount":116.00`)
	assert.Contains(t, string(b), `"start_date":"2024-01-01T00:00:00Z"`)
}
