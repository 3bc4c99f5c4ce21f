package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/middleware"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// guard chain. Unauthenticated operations live under /v1/auth; protected
// endpoints share the same prefix but run RequireAuth + RequireActive first.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users repository.UserStore, jwtSecret string) {
	// Public operations: these handlers create or exchange tokens themselves.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/password-reset", a.PasswordReset)
	g.POST("/password-reset/confirm", a.PasswordResetConfirm)

	// Protected operations: the guard chain verifies the access token, loads
	// the user with a fresh lookup and re-checks the active flag.
	p := e.Group("/v1/auth")
	p.Use(middleware.RequireAuth(jwtSecret, users))
	p.Use(middleware.RequireActive())
	p.POST("/logout", a.Logout)
	p.GET("/me", a.Me)
	p.PUT("/change-password", a.ChangePassword)
	p.GET("/verify-token", a.VerifyToken)
}

// RegisterUsers registers the admin user-management routes. All of them sit
// behind the full guard chain including RequireAdmin. The listing and search
// endpoints additionally flow through the Redis response cache; rdb may be
// nil, in which case caching is disabled.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, users repository.UserStore, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/users")
	g.Use(middleware.RequireAuth(jwtSecret, users))
	g.Use(middleware.RequireActive())
	g.Use(middleware.RequireAdmin())

	cached := middleware.NewRedisCache(cacheCfg, rdb)
	g.GET("", u.List, cached)
	g.GET("/search", u.Search, cached)
	g.GET("/:id", u.Get)
	g.PUT("/:id", u.Update)
	g.DELETE("/:id", u.Delete)
}
