package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/repository"
	"github.com/iliyamo/car-rental-booking/internal/service"
)

// statusFor maps domain error kinds to HTTP status codes. Zero means the
// error is not a domain error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}
	return 0
}

// respondError writes {"error": msg}. Unclassified errors are logged and
// answered with a generic 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	if status := statusFor(err); status != 0 {
		var se *service.Error
		if errors.As(err, &se) {
			return c.JSON(status, echo.Map{"error": se.Message})
		}
		return c.JSON(status, echo.Map{"error": http.StatusText(status)})
	}
	log.Error("request failed",
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
