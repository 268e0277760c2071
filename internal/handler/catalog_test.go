package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/repository"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

func TestParseCarFilter(t *testing.T) {
	c, _ := newRequest(http.MethodGet, "/api/cars?minPrice=40&maxPrice=60.5&type=SUV&locationId=3", "")
	f, err := parseCarFilter(c)
	require.NoError(t, err)
	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, model.Dollars(40), *f.MinPrice)
	assert.Equal(t, model.Money(6050), *f.MaxPrice)
	assert.Equal(t, "SUV", f.Type)
	require.NotNil(t, f.LocationID)
	assert.Equal(t, int64(3), *f.LocationID)

	c, _ = newRequest(http.MethodGet, "/api/cars?type=All+Types", "")
	f, err = parseCarFilter(c)
	require.NoError(t, err)
	assert.Empty(t, f.Type)

	for _, q := range []string{"minPrice=abc", "maxPrice=1.234", "minPrice=90&maxPrice=10", "locationId=zero"} {
		c, _ = newRequest(http.MethodGet, "/api/cars?"+q, "")
		_, err = parseCarFilter(c)
		assert.Error(t, err, q)
	}
}

func TestListCars(t *testing.T) {
	cars := new(mockCars)
	h := NewCatalogHandler(cars, nil, nil, testLog)
	cars.On("List", mock.Anything, model.CarFilter{Type: "Sedan"}).
		Return([]model.Car{{ID: 2, Model: "Camry", Type: "Sedan", PricePerDay: model.Dollars(45)}}, nil)

	c, rec := newRequest(http.MethodGet, "/api/cars?type=Sedan", "")
	require.NoError(t, h.ListCars(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price_per_day":45.00`)

	c, rec = newRequest(http.MethodGet, "/api/cars?minPrice=x", "")
	require.NoError(t, h.ListCars(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCarNotFound(t *testing.T) {
	cars := new(mockCars)
	h := NewCatalogHandler(cars, nil, nil, testLog)
	cars.On("GetByID", mock.Anything, int64(99)).Return(model.Car{}, repository.ErrNotFound)

	c, rec := newRequest(http.MethodGet, "/api/cars/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.GetCar(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCarAvailability(t *testing.T) {
	avail := new(mockAvailability)
	h := NewCatalogHandler(nil, nil, avail, testLog)
	conflict := int64(5)
	avail.On("CheckAvailability", mock.Anything, int64(1), "2024-01-01", "2024-01-03").
		Return(service.Availability{CarID: 1, StartDate: "2024-01-01", EndDate: "2024-01-03", ConflictingReservationID: &conflict}, nil)

	c, rec := newRequest(http.MethodGet, "/api/cars/1/availability?startDate=2024-01-01&endDate=2024-01-03", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CarAvailability(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":false`)
	assert.Contains(t, rec.Body.String(), `"conflictingReservationId":5`)
}
