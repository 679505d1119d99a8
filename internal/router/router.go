// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers the session endpoints.  Login is rate limited per
// client address when a limiter is configured.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, l ratelimit.Limiter, rl config.RateLimitConfig) {
	if !rl.Enabled {
		l = nil
	}
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login, middleware.RateLimit(l, "login", rl.Login))
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	auth.GET("/me", a.Me)
}

// RegisterRooms registers the room catalogue and the day grid.  The room
// list is served through the response cache when Redis is available.
func RegisterRooms(e *echo.Echo, h *handler.RoomHandler, jwtSecret string, cache config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	g.GET("/rooms", h.ListRooms, middleware.ResponseCache(cache, rdb))
	g.GET("/rooms/:id", h.GetRoom)
	g.GET("/rooms/:id/schedule", h.Schedule)
	g.GET("/slots", h.Slots)
}

// RegisterReservations registers reservation reads, mutations and the
// dashboard.  Mutations are rate limited inside the booking service.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	g.GET("/reservations", h.List)
	g.GET("/reservations/mine", h.Mine)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations", h.Create)
	g.PUT("/reservations/:id", h.Update)
	g.DELETE("/reservations/:id", h.Delete)
	g.GET("/dashboard", h.Dashboard)
}
