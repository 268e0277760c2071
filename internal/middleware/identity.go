package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user id for keys and logs, or
// "anon" before authentication.
func currentUserID(c echo.Context) string {
	if id, ok := c.Get(ContextUserID).(int64); ok && id > 0 {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
