package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/finleydale/gatehouse/internal/infrastructure/logging"
)

// Token identity embedded in and required of every token this service
// signs. Tokens minted for other audiences are rejected at verification.
const (
	TokenIssuer   = "gatehouse-core"
	TokenAudience = "gatehouse-clients"
)

// TokenType discriminates access tokens from refresh tokens so one can
// never be presented where the other is expected.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims extends JWT standard claims with Gatehouse-specific fields.
// Access tokens carry email and role; refresh tokens carry the subject only.
type Claims struct {
	jwt.RegisteredClaims
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role,omitempty"`
	TokenType TokenType `json:"type"`
}

// TokenManager issues and verifies the two token classes. Access and
// refresh tokens are signed with independent secrets so a leaked access
// secret cannot forge long-lived refresh tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager builds a token manager from the two signing secrets and
// per-class TTLs. An empty refresh secret falls back to the access secret;
// this is logged once as a warning since it weakens key separation.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, log *logging.Logger) *TokenManager {
	if refreshSecret == "" {
		refreshSecret = accessSecret
		if log != nil {
			log.Warn("refresh token secret not set, falling back to access token secret")
		}
	}

	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccess creates a signed access token for a user. Access tokens are
// short-lived and validated by signature only (no DB hit).
func (m *TokenManager) IssueAccess(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			ID:        uuid.NewString(),
		},
		Email:     user.Email,
		Role:      user.Role,
		TokenType: TokenTypeAccess,
	}

	return m.sign(claims, m.accessSecret)
}

// IssueRefresh creates a signed refresh token carrying only the user ID.
// Profile fields are looked up fresh at exchange time, so a stale refresh
// token never propagates an outdated role into a new access token.
func (m *TokenManager) IssueRefresh(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
			ID:        uuid.NewString(),
		},
		TokenType: TokenTypeRefresh,
	}

	return m.sign(claims, m.refreshSecret)
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.accessSecret, TokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.refreshSecret, TokenTypeRefresh)
}

// Decode parses a token without verifying its signature or expiry.
// Returns nil if the token cannot be parsed at all. Intended for
// diagnostics only; never use the result for authorisation.
func (m *TokenManager) Decode(tokenString string) *Claims {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

func (m *TokenManager) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", claims.TokenType, err)
	}
	return signed, nil
}

// verify checks signature, expiry, issuer, audience, and token type.
func (m *TokenManager) verify(tokenString string, secret []byte, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTokenTypeMismatch, claims.TokenType, want)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	return claims, nil
}

// classifyTokenError maps jwt library errors onto the package sentinels
// so callers can branch with errors.Is without importing jwt.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return fmt.Errorf("%w: %w", ErrTokenWrongIssuer, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}
