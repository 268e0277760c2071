// Package queue carries rental domain events over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

// QueueName is the durable queue all rental events are routed to.
const QueueName = "rental.events"

const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
	EventPaymentCaptured      = "payment.captured"
)

// RentalEvent is the payload published after a reservation or payment
// commits. It carries enough to audit the change without a DB read.
type RentalEvent struct {
	EventID       string      `json:"event_id"`
	Type          string      `json:"type"`
	OccurredAt    string      `json:"occurred_at"`
	ReservationID int64       `json:"reservation_id"`
	CarID         int64       `json:"car_id"`
	UserID        int64       `json:"user_id"`
	StartDate     string      `json:"start_date,omitempty"`
	EndDate       string      `json:"end_date,omitempty"`
	Status        string      `json:"status,omitempty"`
	TotalPrice    model.Money `json:"total_price"`
	PaymentID     int64       `json:"payment_id,omitempty"`
	Amount        model.Money `json:"amount,omitempty"`
}

// NewReservationEvent snapshots r under the given event type.
func NewReservationEvent(typ string, r model.Reservation, at time.Time) RentalEvent {
	return RentalEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		OccurredAt:    at.UTC().Format(time.RFC3339),
		ReservationID: r.ID,
		CarID:         r.CarID,
		UserID:        r.UserID,
		StartDate:     r.StartDate.UTC().Format(time.RFC3339),
		EndDate:       r.EndDate.UTC().Format(time.RFC3339),
		Status:        string(r.Status),
		TotalPrice:    r.TotalPrice,
	}
}

// NewPaymentEvent snapshots a captured payment of r.
func NewPaymentEvent(p model.Payment, r model.Reservation, at time.Time) RentalEvent {
	ev := NewReservationEvent(EventPaymentCaptured, r, at)
	ev.PaymentID = p.ID
	ev.Amount = p.Amount
	return ev
}
