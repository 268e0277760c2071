package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

// Reporter builds the rental reports.
type Reporter interface {
	DailyRentals(ctx context.Context, startRaw, endRaw string) ([]model.DailyRentals, error)
	UserRentals(ctx context.Context, userID int64, startRaw, endRaw string) ([]model.UserRentals, error)
}

type ReportHandler struct {
	Reports Reporter
	Log     *zap.Logger
}

func NewReportHandler(reports Reporter, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, Log: log}
}

// DailyRentals handles GET /api/reports/daily-rentals. Admin only; the
// route enforces the role.
func (h *ReportHandler) DailyRentals(c echo.Context) error {
	rows, err := h.Reports.DailyRentals(c.Request().Context(), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if rows == nil {
		rows = []model.DailyRentals{}
	}
	return c.JSON(http.StatusOK, rows)
}

// UserRentals handles GET /api/reports/user-rentals for the caller.
func (h *ReportHandler) UserRentals(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	rows, err := h.Reports.UserRentals(c.Request().Context(), uid, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if rows == nil {
		rows = []model.UserRentals{}
	}
	return c.JSON(http.StatusOK, rows)
}
