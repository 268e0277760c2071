package router // package router registers the HTTP routes of the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/car-rental-booking/internal/handler"
	"github.com/iliyamo/car-rental-booking/internal/middleware"
	"github.com/iliyamo/car-rental-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers signup, login, refresh and logout under /api, and
// the protected /api/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api", limit)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/api/me", a.Me, middleware.JWTAuth(jwtSecret), limit)
}

// RegisterCatalog registers the public car and location browse endpoints.
// Listings pass through the response cache; interval availability is
// always answered live from reservations.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/api", limit, cache)
	g.GET("/cars", h.ListCars)
	g.GET("/cars/:id", h.GetCar)
	g.GET("/locations", h.ListLocations)

	e.GET("/api/cars/:id/availability", h.CarAvailability, limit)
}

// RegisterCustomer registers the endpoints any signed-in user may call.
// Ownership is enforced by the services.
func RegisterCustomer(e *echo.Echo, r *handler.ReservationHandler, p *handler.PaymentHandler, rep *handler.ReportHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
		limit,
	)
	g.GET("/reservations", r.List)
	g.POST("/reservations", r.Create)
	g.GET("/reservations/:id", r.Get)
	g.PUT("/reservations/:id", r.Update)
	g.DELETE("/reservations/:id", r.Cancel)

	g.POST("/payments", p.Capture)
	g.GET("/payments", p.List)

	g.GET("/reports/user-rentals", rep.UserRentals)
}

// RegisterAdmin registers the ADMIN-only reporting endpoints.
func RegisterAdmin(e *echo.Echo, rep *handler.ReportHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/reports",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
		limit,
	)
	g.GET("/daily-rentals", rep.DailyRentals)
}
