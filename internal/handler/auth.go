package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/middleware"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/service"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    repository.UserStore
	validate *validator.Validate
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, validate: validator.New()}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

type loginReq struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type resetReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetConfirmReq struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// fieldErrors flattens validator output into field -> message.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field())] = "failed on " + fe.Tag()
		}
	}
	return out
}

// checkPasswordStrength enforces the content rules that validator tags cannot
// express: at least one digit and one uppercase letter.
func checkPasswordStrength(p string) error {
	var digit, upper bool
	for _, r := range p {
		digit = digit || unicode.IsDigit(r)
		upper = upper || unicode.IsUpper(r)
	}
	if !digit {
		return errors.New("password must contain at least one digit")
	}
	if !upper {
		return errors.New("password must contain at least one uppercase letter")
	}
	return nil
}

// Register creates a new account and returns the public profile.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}
	if err := checkPasswordStrength(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Users.Create(ctx, &model.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      false,
	})
	if err != nil {
		// The store's unique index resolves concurrent registrations; both
		// duplicate cases surface as the same conflict path.
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	// Best effort: a publish failure must never fail the registration.
	_ = service.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		RegisteredAt: u.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials and returns a token pair. Unknown identifier and
// wrong password produce byte-identical responses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email/username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email/username or password"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
	}

	pair, err := utils.NewTokenPair(h.Cfg.JWTSecret, u.ID, u.Username, u.Email,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute,
		time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a valid refresh token for a brand-new pair. The old
// refresh token stays independently valid until its own expiry; there is no
// server-side revocation.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	claims, err := utils.VerifyToken(h.Cfg.JWTSecret, strings.TrimSpace(req.RefreshToken), utils.TokenKindRefresh)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or inactive"})
	}

	pair, err := utils.NewTokenPair(h.Cfg.JWTSecret, u.ID, u.Username, u.Email,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute,
		time.Duration(h.Cfg.RefreshTTLDays)*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout is a client-side operation with stateless JWTs; the server only
// confirms. Revocation would need a deny-list, which this service does not
// keep.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}

// Me returns the authenticated user's public profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword requires the current password before accepting a new one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}
	if err := checkPasswordStrength(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incorrect old password"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
}

// VerifyToken reports token validity plus a compact view of the subject.
// Reaching this handler already proves the access token passed the guard
// chain.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":     true,
		"user_id":   u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"is_active": u.IsActive,
		"is_admin":  u.IsAdmin,
	})
}

// PasswordReset issues a password_reset token for an existing active account.
// The response is identical whether or not the email exists, so the endpoint
// cannot be used to probe for accounts. With no mail delivery in this
// service, the token is written to the server log.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if u, err := h.Users.GetByEmail(ctx, req.Email); err == nil && u.IsActive {
		tok, err := utils.NewResetToken(h.Cfg.JWTSecret, u.ID, time.Duration(h.Cfg.ResetTTLMin)*time.Minute)
		if err == nil {
			log.Printf("password reset token issued for user %d: %s", u.ID, tok)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "if the email is registered, a reset token has been issued"})
}

// PasswordResetConfirm validates a password_reset token and stores the new
// password hash.
func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	var req resetConfirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}
	if err := checkPasswordStrength(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	uid, err := utils.VerifyResetToken(h.Cfg.JWTSecret, req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password has been reset"})
}
