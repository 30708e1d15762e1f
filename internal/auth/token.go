// Package auth provides JWT token generation and validation for the blog API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers via POST /api/users (password is bcrypt-hashed, never stored raw)
// 2. User logs in via POST /api/login with username + password
// 3. Server verifies the password hash and issues a signed JWT
// 4. Client sends the token on mutating requests: Authorization: Bearer <token>
// 5. The token-extractor middleware attaches the raw token to the request
//    context; handlers that need auth validate it and recover the user id
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (userID, expiry) is inside the signed token,
// and the HMAC signature ensures nobody can tamper with it without the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/bloglist/internal/apperror"
)

// tokenLifetime is how long an issued token stays valid.
// After expiry the client has to log in again.
const tokenLifetime = time.Hour

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — it is the process-wide signing
// secret loaded from configuration at startup and injected here, never read
// from an ambient global.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: signing secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the internal user id — the principal
// recovered by Validate.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying, which is all a single-server deployment needs.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests (a negative duration produces an already-expired token).
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "bloglist",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the principal
// user id stored in the "sub" claim.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "bloglist" (rejects tokens minted by other apps)
//   - Algorithm is HS256 (jwt.WithValidMethods prevents algorithm
//     confusion attacks, e.g. a token claiming alg "none")
//
// TAGGED FAILURES:
// Every failure is returned as an apperror.ErrUnauthorized-wrapped error
// carrying a human-readable reason. Callers distinguish "bad token" from a
// store failure with errors.Is(err, apperror.ErrUnauthorized) instead of
// inspecting error strings, and the HTTP layer surfaces the message in a
// 401 body.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("bloglist"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.Unauthorized("token expired")
		}
		return "", apperror.Unauthorized(fmt.Sprintf("invalid token: %v", err))
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", apperror.Unauthorized("invalid token claims")
	}

	if c.Subject == "" {
		return "", apperror.Unauthorized("token has no subject")
	}

	return c.Subject, nil
}
