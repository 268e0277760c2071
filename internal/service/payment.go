package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/metrics"
	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/queue"
	"github.com/iliyamo/car-rental-booking/internal/repository"
	"github.com/iliyamo/car-rental-booking/internal/telemetry"
)

// CapturePaymentInput carries raw card details. Only the last four digits
// outlive the request.
type CapturePaymentInput struct {
	ReservationID int64
	CardNumber    string
	CardName      string
	Expiry        string
	CVC           string
	Method        string
}

// PaymentService records a captured payment per reservation after a
// shape check of the card. No money moves.
type PaymentService struct {
	tx        TxRunner
	payments  PaymentReader
	publisher queue.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewPaymentService(tx TxRunner, payments PaymentReader, publisher queue.Publisher, log *zap.Logger) *PaymentService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &PaymentService{tx: tx, payments: payments, publisher: publisher, log: log, now: time.Now}
}

// Capture validates the card and stores one captured payment for the
// reservation, charging its total.
func (s *PaymentService) Capture(ctx context.Context, in CapturePaymentInput, actor Actor) (model.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentService.Capture")
	defer span.End()
	span.SetAttributes(attribute.Int64("reservation.id", in.ReservationID))

	if in.ReservationID <= 0 || strings.TrimSpace(in.CardNumber) == "" || strings.TrimSpace(in.CardName) == "" ||
		strings.TrimSpace(in.Expiry) == "" || strings.TrimSpace(in.CVC) == "" {
		metrics.PaymentsRejectedTotal.WithLabelValues("missing_fields").Inc()
		return model.Payment{}, validationf("reservationId, cardNumber, cardName, expiry and cvc are required")
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		metrics.PaymentsRejectedTotal.WithLabelValues("missing_method").Inc()
		return model.Payment{}, validationf("payment method is required")
	}
	if err := ValidateCard(in.CardNumber, in.Expiry, in.CVC); err != nil {
		metrics.PaymentsRejectedTotal.WithLabelValues("invalid_card").Inc()
		return model.Payment{}, err
	}
	number := NormalizeCardNumber(in.CardNumber)
	last4 := number[len(number)-4:]

	var (
		payment     model.Payment
		reservation model.Reservation
	)
	err := s.tx.InTx(ctx, func(q repository.Queries) error {
		r, err := q.GetReservationForUpdate(ctx, in.ReservationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundf("reservation %d not found", in.ReservationID)
			}
			return err
		}
		if !actor.owns(r) {
			return notFoundf("reservation %d not found", in.ReservationID)
		}
		if r.Status == model.StatusCancelled {
			return conflictf("cannot pay for a cancelled reservation")
		}
		if _, err := q.GetPaymentByReservation(ctx, r.ID); err == nil {
			return conflictf("payment already exists for this reservation")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		payment = model.Payment{
			ReservationID: r.ID,
			UserID:        r.UserID,
			Amount:        r.TotalPrice,
			Method:        method,
			CardLast4:     &last4,
			Status:        model.PaymentCaptured,
		}
		if err := q.InsertPayment(ctx, &payment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflictf("payment already exists for this reservation")
			}
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.PaymentsRejectedTotal.WithLabelValues("conflict").Inc()
		}
		return model.Payment{}, err
	}

	metrics.PaymentsCapturedTotal.Inc()
	ev := queue.NewPaymentEvent(payment, reservation, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		metrics.EventsPublishFailedTotal.WithLabelValues(ev.Type).Inc()
		s.log.Warn("publish event failed", zap.String("type", ev.Type), zap.Int64("payment_id", payment.ID), zap.Error(err))
	}
	return payment, nil
}

// List returns payments newest first. Non-admins only see their own.
func (s *PaymentService) List(ctx context.Context, f model.PaymentFilter, actor Actor) ([]model.Payment, error) {
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}
	return s.payments.List(ctx, f)
}
