// Package auth provides JWT token handling, password hashing, and the
// authentication middleware for the jobs API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers or logs in with email + password
// 2. Server verifies the credentials and issues a signed JWT
// 3. The client sends it back on every request as "Authorization: Bearer <jwt>"
// 4. Middleware validates the token, resolves the account, and sets the
//    userID in the request context
//
// WHY JWT?
// JWT is stateless — the server doesn't need a session store. Everything
// needed (userID, expiry) is inside the signed token, and the HMAC signature
// ensures nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure kinds.
//
// Callers treat all three identically (reject with an authentication error),
// but they are distinct values so tests can assert exactly why a token was
// rejected.
var (
	// ErrTokenExpired: the token was valid once but is past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid: the token parsed but the signature or claims don't check out.
	ErrTokenInvalid = errors.New("auth: token invalid")
	// ErrTokenMalformed: the string isn't a JWT at all.
	ErrTokenMalformed = errors.New("auth: token malformed")
)

// DefaultTokenLifetime is the session token expiry used when no lifetime is
// configured: 30 days, so a returning user stays logged in.
const DefaultTokenLifetime = 30 * 24 * time.Hour

// AccessTokenLifetime is the expiry of the short-lived token issued in the
// login response body, alongside the session token.
const AccessTokenLifetime = time.Hour

const issuer = "jobs-api"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret and session
// token lifetime. A non-positive lifetime falls back to DefaultTokenLifetime.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{secret: []byte(secret), lifetime: lifetime}, nil
}

// claims is the JWT payload. We use the standard "sub" (Subject) claim to
// store the user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID, using the
// service's configured lifetime.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.lifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used for the
// short-lived access token at login, and by tests to mint expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID it
// encodes (the "sub" claim).
//
// Failures are classified as ErrTokenExpired, ErrTokenMalformed, or
// ErrTokenInvalid. Passing jwt.WithValidMethods pins the algorithm to HS256,
// which blocks algorithm-confusion attacks ("alg":"none" tokens).
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
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}

	if c.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c.Subject, nil
}
