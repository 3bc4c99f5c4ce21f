package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// userContextKey is where the guard chain stores the authenticated user.
const userContextKey = "user"

// lookupTimeout bounds the store lookup performed during authentication.
const lookupTimeout = 5 * time.Second

// CurrentUser returns the user loaded by RequireAuth or OptionalAuth, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userContextKey).(*model.User)
	return u, ok
}

// RequireAuth returns an Echo middleware that validates a Bearer access token
// and loads the subject user from the store. Every failure mode — missing
// header, bad signature, wrong kind, expired token, unknown subject, inactive
// account — collapses into the same 401 response so unauthenticated callers
// cannot distinguish them. On success the user is stored in the context for
// downstream middleware and handlers.
func RequireAuth(secret string, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := authenticate(c, secret, users)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// RequireActive re-checks the already-loaded user's active flag. Unlike
// RequireAuth, the caller has proven a valid token here, so a distinct
// response does not leak account state to strangers.
func RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects authenticated users without admin privileges.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}
			if !u.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// OptionalAuth follows the same verification path as RequireAuth but lets the
// request through without a user when credentials are absent or invalid. Use
// it for routes that behave differently for anonymous callers.
func OptionalAuth(secret string, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u, ok := authenticate(c, secret, users); ok {
				c.Set(userContextKey, u)
			}
			return next(c)
		}
	}
}

// authenticate runs the shared verification path: extract the bearer token,
// verify it as an access token, and load the subject with a fresh store
// lookup so revoked/deactivated accounts are caught even while their tokens
// are still formally valid.
func authenticate(c echo.Context, secret string, users repository.UserStore) (*model.User, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	claims, err := utils.VerifyToken(secret, raw, utils.TokenKindAccess)
	if err != nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), lookupTimeout)
	defer cancel()

	u, err := users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, false
	}
	if !u.IsActive {
		return nil, false
	}
	return u, true
}
