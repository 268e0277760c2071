package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

func sampleReservation() model.Reservation {
	return model.Reservation{
		ID:         11,
		CarID:      1,
		UserID:     7,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		TotalPrice: model.Dollars(100),
		Status:     model.StatusConfirmed,
	}
}

func TestCreateReservationUsesSessionUser(t *testing.T) {
	engine := new(mockEngine)
	h := NewReservationHandler(engine, testLog)

	engine.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateReservationInput) bool {
		return in.UserID == 7 && in.CarID == 1 && in.StartDate == "2024-01-01" &&
			in.ClientPrice != nil && *in.ClientPrice == model.Dollars(100)
	})).Return(sampleReservation(), nil).Once()

	c, rec := newRequest(http.MethodPost, "/api/reservations",
		`{"carId":1,"userId":99,"startDate":"2024-01-01","endDate":"2024-01-03","totalPrice":100}`)
	require.NoError(t, h.Create(asUser(c, 7, model.RoleCustomer)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPrice":100.00`)
	assert.Contains(t, rec.Body.String(), `"userId":7`)
	engine.AssertExpectations(t)
}

func TestCreateReservationToleratesClientPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  *model.Money
	}{
		{"float drift", `269.96999999999997`, moneyp(26997)},
		{"exponent", `1e2`, moneyp(10000)},
		{"quoted", `"116.00"`, moneyp(11600)},
		{"garbage", `"abc"`, nil},
		{"object", `{"v":1}`, nil},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			h := NewReservationHandler(engine, testLog)
			engine.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateReservationInput) bool {
				if tt.want == nil {
					return in.ClientPrice == nil
				}
				return in.ClientPrice != nil && *in.ClientPrice == *tt.want
			})).Return(sampleReservation(), nil).Once()

			c, rec := newRequest(http.MethodPost, "/api/reservations",
				`{"carId":1,"startDate":"2024-01-01","endDate":"2024-01-03","totalPrice":`+tt.price+`}`)
			require.NoError(t, h.Create(asUser(c, 7, model.RoleCustomer)))
			assert.Equal(t, http.StatusCreated, rec.Code)
			engine.AssertExpectations(t)
		})
	}
}

func moneyp(m model.Money) *model.Money { return &m }

func TestCreateReservationErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"conflict", &service.Error{Kind: service.ErrConflict, Message: "car 1 is already booked"}, http.StatusConflict, `{"error":"car 1 is already booked"}`},
		{"validation", &service.Error{Kind: service.ErrValidation, Message: "endDate must be after startDate"}, http.StatusBadRequest, `{"error":"endDate must be after startDate"}`},
		{"missing car", &service.Error{Kind: service.ErrNotFound, Message: "car 9 not found"}, http.StatusNotFound, `{"error":"car 9 not found"}`},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(mockEngine)
			h := NewReservationHandler(engine, testLog)
			engine.On("Create", mock.Anything, mock.Anything).Return(model.Reservation{}, tt.err)

			c, rec := newRequest(http.MethodPost, "/api/reservations",
				`{"carId":1,"startDate":"2024-01-01","endDate":"2024-01-03"}`)
			require.NoError(t, h.Create(asUser(c, 7, model.RoleCustomer)))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestCreateReservationRequiresSessionAndCar(t *testing.T) {
	h := NewReservationHandler(new(mockEngine), testLog)

	c, rec := newRequest(http.MethodPost, "/api/reservations", `{"carId":1}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newRequest(http.MethodPost, "/api/reservations", `{"startDate":"2024-01-01"}`)
	require.NoError(t, h.Create(asUser(c, 7, model.RoleCustomer)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReservationWrapsResult(t *testing.T) {
	engine := new(mockEngine)
	h := NewReservationHandler(engine, testLog)
	actor := service.Actor{UserID: 7, Role: model.RoleCustomer}

	engine.On("Update", mock.Anything, int64(11), mock.MatchedBy(func(in service.UpdateReservationInput) bool {
		return in.StartDate == nil && in.EndDate != nil && *in.EndDate == "2024-01-04" &&
			in.GPS != nil && *in.GPS && in.TollPass == nil
	}), actor).Return(sampleReservation(), nil).Once()

	c, rec := newRequest(http.MethodPut, "/api/reservations/11", `{"endDate":"2024-01-04","gps":true,"totalPrice":1}`)
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.Update(asUser(c, 7, model.RoleCustomer)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"reservation":{"id":11`)
	engine.AssertExpectations(t)
}

func TestCancelReservation(t *testing.T) {
	engine := new(mockEngine)
	h := NewReservationHandler(engine, testLog)
	cancelled := sampleReservation()
	cancelled.Status = model.StatusCancelled
	engine.On("Cancel", mock.Anything, int64(11), mock.Anything).Return(cancelled, nil)

	c, rec := newRequest(http.MethodDelete, "/api/reservations/11", "")
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.Cancel(asUser(c, 7, model.RoleCustomer)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

	c, rec = newRequest(http.MethodDelete, "/api/reservations/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Cancel(asUser(c, 7, model.RoleCustomer)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReservationNotOwned(t *testing.T) {
	engine := new(mockEngine)
	h := NewReservationHandler(engine, testLog)
	engine.On("Get", mock.Anything, int64(11), mock.Anything).
		Return(model.Reservation{}, &service.Error{Kind: service.ErrNotFound, Message: "reservation 11 not found"})

	c, rec := newRequest(http.MethodGet, "/api/reservations/11", "")
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.Get(asUser(c, 8, model.RoleCustomer)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReservationsFilters(t *testing.T) {
	engine := new(mockEngine)
	h := NewReservationHandler(engine, testLog)
	admin := service.Actor{UserID: 1, Role: model.RoleAdmin}

	engine.On("List", mock.Anything, mock.MatchedBy(func(f model.ReservationFilter) bool {
		return f.UserID != nil && *f.UserID == 7 && f.Status == model.StatusConfirmed
	}), admin).Return([]model.Reservation(nil), nil).Once()

	c, rec := newRequest(http.MethodGet, "/api/reservations?userId=7&status=confirmed", "")
	require.NoError(t, h.List(asUser(c, 1, model.RoleAdmin)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	engine.AssertExpectations(t)

	c, rec = newRequest(http.MethodGet, "/api/reservations?status=booked", "")
	require.NoError(t, h.List(asUser(c, 1, model.RoleAdmin)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newRequest(http.MethodGet, "/api/reservations?userId=x", "")
	require.NoError(t, h.List(asUser(c, 1, model.RoleAdmin)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
