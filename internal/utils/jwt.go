package utils // package utils provides token issuance/verification and hashing helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "type" claim. Encoding the kind as an explicit
// claim means a refresh token can never be replayed against an endpoint that
// expects an access token, even though both are signed with the same secret.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
	TokenKindReset   = "password_reset"
)

// ErrInvalidToken is the single error returned for every verification
// failure: bad signature, wrong signing method, malformed input, missing or
// mismatched kind, or expiry in the past. Callers must not learn which.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID    uint64
	Username  string
	Email     string
	Kind      string
	ExpiresAt time.Time
}

// TokenPair is the response shape returned by login and refresh. ExpiresIn is
// the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewToken builds and signs an HS256 JWT of the given kind. Claims: sub (user
// ID), username, email, type, iat and exp (now+ttl, UTC).
func NewToken(secret, kind string, userID uint64, username, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"email":    email,
		"type":     kind,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// NewResetToken issues a password_reset token carrying only the subject and
// expiry. Reset tokens never grant API access because their kind differs.
func NewResetToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": TokenKindReset,
		"exp":  now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyToken decodes raw, checks the signature and validates that the token
// carries the expected kind and a future expiry. All failure modes collapse
// into ErrInvalidToken.
func VerifyToken(secret, raw, kind string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	if kindClaim, _ := mc["type"].(string); kindClaim != kind {
		return Claims{}, ErrInvalidToken
	}
	exp, ok := numericClaim(mc["exp"])
	if !ok || !time.Now().UTC().Before(time.Unix(int64(exp), 0)) {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := numericClaim(mc["sub"])
	if !ok || sub == 0 {
		return Claims{}, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	email, _ := mc["email"].(string)
	return Claims{
		UserID:    sub,
		Username:  username,
		Email:     email,
		Kind:      kind,
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}, nil
}

// VerifyResetToken validates a password_reset token and returns the subject
// user ID.
func VerifyResetToken(secret, raw string) (uint64, error) {
	claims, err := VerifyToken(secret, raw, TokenKindReset)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// NewTokenPair issues one access and one refresh token sharing the same
// identity claims.
func NewTokenPair(secret string, userID uint64, username, email string, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	access, err := NewToken(secret, TokenKindAccess, userID, username, email, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := NewToken(secret, TokenKindRefresh, userID, username, email, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(accessTTL / time.Second),
	}, nil
}

// numericClaim normalizes JSON-decoded claim values. Numbers arrive as
// float64; some issuers encode numeric strings.
func numericClaim(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
