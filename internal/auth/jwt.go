// Package auth provides JWT token issuance/verification, bcrypt password
// hashing, and the HTTP middleware that authenticates API calls.
//
// AUTHENTICATION FLOW:
//  1. POST /api/signup stores the user with a bcrypt password hash
//  2. POST /api/login verifies credentials and issues a signed JWT
//  3. The client presents the token on every call: Authorization: Bearer <jwt>
//  4. Middleware verifies the token and puts the caller's identity (user ID
//     and role) into the request context
//
// The token is stateless — no session storage. Everything the server needs
// (subject, role, validity window) lives inside the signed payload, and the
// HMAC signature makes it tamper-evident. Claims are readable by anyone who
// holds the token; they are signed, not encrypted.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sakif/mentor-match/internal/model"
)

// TokenLifetime is how long an issued token stays valid. Expiry is the only
// way a token stops working — there is no revocation list.
const TokenLifetime = time.Hour

// ErrInvalidToken is the single failure returned by Verify. A caller cannot
// tell a malformed token from an expired one from a forged one; every
// rejection looks the same. Uniform rejection means no partial trust and
// nothing for an attacker to learn from the error.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the signed JWT payload.
//
// It is a fixed struct, not an open-ended map — a token can only ever carry
// these named fields, which closes the door on claim-injection through
// unexpected keys. Subject holds the internal user ID; Email, Name, and
// Role are auxiliary claims so the API layer can act on the caller's role
// without a DB lookup.
type Claims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens.
//
// The HMAC secret, issuer, and audience are fixed at construction and never
// mutated afterwards — configuration is injected here once at startup
// rather than read from ambient globals.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a TokenService.
// The secret should be at least 32 bytes of random data in production
// (e.g. JWT_SECRET=$(openssl rand -hex 32)); anything under 16 characters
// is rejected outright.
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("auth: issuer and audience must be set")
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Issue creates and signs a JWT for the given user.
//
// Claims: sub = user ID, plus email/name/role; iss and aud fixed per
// service; iat and nbf = now; exp = now + exactly 1 hour; jti = a fresh xid.
// xid strings start with a timestamp, so the jti is unique per issuance —
// it only needs to distinguish tokens, not be unguessable.
//
// Signing: HS256 (HMAC-SHA256), symmetric — the same secret signs and
// verifies.
func (s *TokenService) Issue(user *model.User) (string, error) {
	return s.IssueWithLifetime(user, TokenLifetime)
}

// IssueWithLifetime creates a token with a custom lifetime.
// Exported for tests that need an already-expired token; production code
// goes through Issue.
func (s *TokenService) IssueWithLifetime(user *model.User, lifetime time.Duration) (string, error) {
	if !user.Role.Valid() {
		return "", fmt.Errorf("auth: refusing to issue token for invalid role %q", user.Role)
	}

	now := time.Now()
	c := Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a JWT string and returns its claims.
//
// Checks performed: HS256 signature (only — no algorithm confusion),
// issuer, audience, expiration, and not-before. Any failure, structural or
// cryptographic, returns ErrInvalidToken with no further detail.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" || !c.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return c, nil
}
