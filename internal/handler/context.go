package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/car-rental-booking/internal/middleware"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

var errNoUser = errors.New("no user in context")

// getUserID reads the id JWTAuth stored on the context.
func getUserID(c echo.Context) (int64, error) {
	id, ok := c.Get(middleware.ContextUserID).(int64)
	if !ok || id <= 0 {
		return 0, errNoUser
	}
	return id, nil
}

// actorFrom builds the service actor for the authenticated caller.
func actorFrom(c echo.Context) (service.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return service.Actor{}, err
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return service.Actor{UserID: id, Role: role}, nil
}

func requestID(c echo.Context) string {
	rid, _ := c.Get(middleware.ContextRequestID).(string)
	return rid
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter.
func queryID(c echo.Context, name string) (*int64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
