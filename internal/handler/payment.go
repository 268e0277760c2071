package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

// PaymentProcessor captures and lists payments.
type PaymentProcessor interface {
	Capture(ctx context.Context, in service.CapturePaymentInput, actor service.Actor) (model.Payment, error)
	List(ctx context.Context, f model.PaymentFilter, actor service.Actor) ([]model.Payment, error)
}

type PaymentHandler struct {
	Payments PaymentProcessor
	Log      *zap.Logger
}

func NewPaymentHandler(payments PaymentProcessor, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Log: log}
}

type capturePaymentReq struct {
	ReservationID int64  `json:"reservationId"`
	CardNumber    string `json:"cardNumber"`
	CardName      string `json:"cardName"`
	Expiry        string `json:"expiry"`
	CVC           string `json:"cvc"`
	Method        string `json:"method"`
}

// Capture handles POST /api/payments.
func (h *PaymentHandler) Capture(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	var req capturePaymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	p, err := h.Payments.Capture(c.Request().Context(), service.CapturePaymentInput{
		ReservationID: req.ReservationID,
		CardNumber:    req.CardNumber,
		CardName:      req.CardName,
		Expiry:        req.Expiry,
		CVC:           req.CVC,
		Method:        req.Method,
	}, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /api/payments?userId&reservationId.
func (h *PaymentHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	var f model.PaymentFilter
	var ok bool
	if f.UserID, ok = queryID(c, "userId"); !ok {
		return badRequest(c, "invalid userId")
	}
	if f.ReservationID, ok = queryID(c, "reservationId"); !ok {
		return badRequest(c, "invalid reservationId")
	}
	list, err := h.Payments.List(c.Request().Context(), f, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if list == nil {
		list = []model.Payment{}
	}
	return c.JSON(http.StatusOK, list)
}
