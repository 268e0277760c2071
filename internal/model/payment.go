package model

import "time"

const PaymentCaptured = "captured"

// Payment is a captured charge against a reservation. Only the last four
// card digits are ever stored.
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	ReservationID int64     `db:"reservation_id" json:"reservationId"`
	UserID        int64     `db:"user_id" json:"userId"`
	Amount        Money     `db:"amount" json:"amount"`
	Method        string    `db:"method" json:"method"`
	CardLast4     *string   `db:"card_last4" json:"cardLast4"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	UserID        *int64
	ReservationID *int64
}
