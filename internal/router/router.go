// Package router registers the HTTP routes of the seat manager.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/flight-seat-manager/internal/handler"
	"github.com/iliyamo/flight-seat-manager/internal/middleware"
)

// Options carries the middleware built from configuration.
type Options struct {
	JWTSecret string
	RateLimit echo.MiddlewareFunc // nil disables rate limiting
	Cache     echo.MiddlewareFunc // nil disables response caching
}

func orNop(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return mw
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterFlights registers the booking API under /v1/flights.  Every
// route needs a token; passengers may only touch their own booking and
// only admins may confirm flights.
func RegisterFlights(e *echo.Echo, h *handler.FlightHandler, opts Options) {
	g := e.Group("/v1/flights",
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireRole(middleware.RolePassenger, middleware.RoleAgent, middleware.RoleAdmin),
		orNop(opts.RateLimit),
	)

	cache := orNop(opts.Cache)
	g.GET("", h.ListFlights, cache)
	g.GET("/:code", h.GetFlight, cache)
	g.GET("/:code/seats", h.SeatMap, cache)
	g.GET("/:code/seats/:seat", h.SeatAvailability)

	p := g.Group("/:code/passengers/:passenger", middleware.RequireSelf("passenger"))
	p.POST("/seat", h.AssignSeat)
	p.PUT("/seat", h.ChangeSeat)
	p.GET("/alternatives", h.Alternatives)
	p.POST("/transfer", h.ChangeFlight)
	p.POST("/subscriptions", h.Subscribe)

	g.POST("/:code/confirm", h.Confirm, middleware.RequireRole(middleware.RoleAdmin))
}
