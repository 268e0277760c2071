package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

// ReservationEngine is the reservation lifecycle the handlers drive.
type ReservationEngine interface {
	Create(ctx context.Context, in service.CreateReservationInput) (model.Reservation, error)
	Update(ctx context.Context, id int64, in service.UpdateReservationInput, actor service.Actor) (model.Reservation, error)
	Cancel(ctx context.Context, id int64, actor service.Actor) (model.Reservation, error)
	Get(ctx context.Context, id int64, actor service.Actor) (model.Reservation, error)
	List(ctx context.Context, f model.ReservationFilter, actor service.Actor) ([]model.Reservation, error)
}

// ReservationHandler serves /api/reservations. The booking user is always
// the authenticated one.
type ReservationHandler struct {
	Engine ReservationEngine
	Log    *zap.Logger
}

func NewReservationHandler(engine ReservationEngine, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Engine: engine, Log: log}
}

// createReservationReq ignores any userId in the body. totalPrice is
// advisory and kept raw so a malformed value never rejects the booking.
type createReservationReq struct {
	CarID      int64           `json:"carId"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	TotalPrice json.RawMessage `json:"totalPrice"`
	GPS        bool            `json:"gps"`
	TollPass   bool            `json:"tollPass"`
}

// updateReservationReq leaves absent fields unchanged. A client totalPrice
// is accepted and discarded.
type updateReservationReq struct {
	StartDate  *string         `json:"startDate"`
	EndDate    *string         `json:"endDate"`
	TotalPrice json.RawMessage `json:"totalPrice"`
	GPS        *bool           `json:"gps"`
	TollPass   *bool           `json:"tollPass"`
}

type mutationResp struct {
	Success     bool              `json:"success"`
	Reservation model.Reservation `json:"reservation"`
}

// advisoryPrice reads a client-computed total rounded to cents. Anything
// that is not a finite number yields nil.
func advisoryPrice(raw json.RawMessage) *model.Money {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1e15 {
		return nil
	}
	m := model.Money(math.Round(f * 100))
	return &m
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// Create handles POST /api/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.CarID <= 0 {
		return badRequest(c, "carId is required")
	}
	r, err := h.Engine.Create(c.Request().Context(), service.CreateReservationInput{
		CarID:       req.CarID,
		UserID:      actor.UserID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GPS:         req.GPS,
		TollPass:    req.TollPass,
		ClientPrice: advisoryPrice(req.TotalPrice),
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /api/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	r, err := h.Engine.Update(c.Request().Context(), id, service.UpdateReservationInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		GPS:       req.GPS,
		TollPass:  req.TollPass,
	}, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mutationResp{Success: true, Reservation: r})
}

// Cancel handles DELETE /api/reservations/:id. The row is kept with status
// cancelled.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := h.Engine.Cancel(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mutationResp{Success: true, Reservation: r})
}

// Get handles GET /api/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := h.Engine.Get(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, r)
}

// List handles GET /api/reservations?userId&status. userId only takes
// effect for admins.
func (h *ReservationHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return unauthorized(c)
	}
	var f model.ReservationFilter
	uid, ok := queryID(c, "userId")
	if !ok {
		return badRequest(c, "invalid userId")
	}
	f.UserID = uid
	if raw := c.QueryParam("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		f.Status = st
	}
	list, err := h.Engine.List(c.Request().Context(), f, actor)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, list)
}
