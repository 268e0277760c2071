package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/middleware"
	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Create(ctx context.Context, in service.CreateReservationInput) (model.Reservation, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) Update(ctx context.Context, id int64, in service.UpdateReservationInput, actor service.Actor) (model.Reservation, error) {
	args := m.Called(ctx, id, in, actor)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) Cancel(ctx context.Context, id int64, actor service.Actor) (model.Reservation, error) {
	args := m.Called(ctx, id, actor)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) Get(ctx context.Context, id int64, actor service.Actor) (model.Reservation, error) {
	args := m.Called(ctx, id, actor)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) List(ctx context.Context, f model.ReservationFilter, actor service.Actor) ([]model.Reservation, error) {
	args := m.Called(ctx, f, actor)
	return args.Get(0).([]model.Reservation), args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Capture(ctx context.Context, in service.CapturePaymentInput, actor service.Actor) (model.Payment, error) {
	args := m.Called(ctx, in, actor)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *mockPayments) List(ctx context.Context, f model.PaymentFilter, actor service.Actor) ([]model.Payment, error) {
	args := m.Called(ctx, f, actor)
	return args.Get(0).([]model.Payment), args.Error(1)
}

type mockCars struct{ mock.Mock }

func (m *mockCars) List(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *mockCars) GetByID(ctx context.Context, id int64) (model.Car, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Car), args.Error(1)
}

type mockAvailability struct{ mock.Mock }

func (m *mockAvailability) CheckAvailability(ctx context.Context, carID int64, startRaw, endRaw string) (service.Availability, error) {
	args := m.Called(ctx, carID, startRaw, endRaw)
	return args.Get(0).(service.Availability), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, username, password, role string, cost int) (model.User, error) {
	args := m.Called(ctx, username, password, role, cost)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) StoreRefresh(ctx context.Context, userID int64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokens) ValidateRefresh(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokens) RevokeAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) DailyRentals(ctx context.Context, startRaw, endRaw string) ([]model.DailyRentals, error) {
	args := m.Called(ctx, startRaw, endRaw)
	return args.Get(0).([]model.DailyRentals), args.Error(1)
}

func (m *mockReporter) UserRentals(ctx context.Context, userID int64, startRaw, endRaw string) ([]model.UserRentals, error) {
	args := m.Called(ctx, userID, startRaw, endRaw)
	return args.Get(0).([]model.UserRentals), args.Error(1)
}

// newRequest builds a context for method/target with an optional JSON body.
func newRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser marks c as authenticated.
func asUser(c echo.Context, id int64, role string) echo.Context {
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextRole, role)
	return c
}

var testLog = zap.NewNop()
