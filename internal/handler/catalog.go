package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

// CarCatalog reads cars.
type CarCatalog interface {
	List(ctx context.Context, f model.CarFilter) ([]model.Car, error)
	GetByID(ctx context.Context, id int64) (model.Car, error)
}

// LocationSearcher looks up pickup locations by name.
type LocationSearcher interface {
	Search(ctx context.Context, query string) ([]model.Location, error)
}

// AvailabilityChecker answers interval availability for a car.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, carID int64, startRaw, endRaw string) (service.Availability, error)
}

// CatalogHandler serves the public car and location endpoints.
type CatalogHandler struct {
	Cars         CarCatalog
	Locations    LocationSearcher
	Availability AvailabilityChecker
	Log          *zap.Logger
}

func NewCatalogHandler(cars CarCatalog, locations LocationSearcher, availability AvailabilityChecker, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Cars: cars, Locations: locations, Availability: availability, Log: log}
}

// allTypes is the catalog UI's "no type filter" choice.
const allTypes = "All Types"

// parseCarFilter reads minPrice, maxPrice, type and locationId.
func parseCarFilter(c echo.Context) (model.CarFilter, error) {
	var f model.CarFilter
	for name, dst := range map[string]**model.Money{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			continue
		}
		m, err := model.ParseMoney(raw)
		if err != nil || m < 0 {
			return f, errors.New("invalid " + name)
		}
		*dst = &m
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, errors.New("minPrice exceeds maxPrice")
	}
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" && t != allTypes {
		f.Type = t
	}
	loc, ok := queryID(c, "locationId")
	if !ok {
		return f, errors.New("invalid locationId")
	}
	f.LocationID = loc
	return f, nil
}

// ListCars handles GET /api/cars.
func (h *CatalogHandler) ListCars(c echo.Context) error {
	f, err := parseCarFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	cars, err := h.Cars.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if cars == nil {
		cars = []model.Car{}
	}
	return c.JSON(http.StatusOK, cars)
}

// GetCar handles GET /api/cars/:id.
func (h *CatalogHandler) GetCar(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid car id")
	}
	car, err := h.Cars.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, car)
}

// CarAvailability handles GET /api/cars/:id/availability.
func (h *CatalogHandler) CarAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid car id")
	}
	a, err := h.Availability.CheckAvailability(c.Request().Context(), id, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListLocations handles GET /api/locations?query=.
func (h *CatalogHandler) ListLocations(c echo.Context) error {
	locs, err := h.Locations.Search(c.Request().Context(), strings.TrimSpace(c.QueryParam("query")))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if locs == nil {
		locs = []model.Location{}
	}
	return c.JSON(http.StatusOK, locs)
}
