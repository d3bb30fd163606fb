package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type TokenManagerConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// TokenManager signs and verifies HS256 access tokens carrying the
// principal's identity, role, and business capabilities.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration

	now func() time.Time
}

type accessClaims struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Capabilities []string `json:"businesses"`
	jwt.RegisteredClaims
}

func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token manager: secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *TokenManager) Issue(_ context.Context, principal user.Principal) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	caps := make([]string, 0, len(principal.Capabilities))
	for _, c := range principal.Capabilities {
		caps = append(caps, string(c))
	}
	claims := accessClaims{
		Name:         principal.Name,
		Email:        principal.Email,
		Role:         string(principal.Role),
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", principal.UserID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses a signed token and reconstructs the principal. Expired or
// tampered tokens fail verification.
func (m *TokenManager) Verify(_ context.Context, token string) (user.Principal, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return user.Principal{}, fmt.Errorf("parse access token: %w", err)
	}
	if !parsed.Valid {
		return user.Principal{}, fmt.Errorf("access token is not valid")
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return user.Principal{}, fmt.Errorf("parse access token subject: %w", err)
	}

	caps := make([]user.Capability, 0, len(claims.Capabilities))
	for _, c := range claims.Capabilities {
		if capability, ok := user.ParseCapability(c); ok {
			caps = append(caps, capability)
		}
	}
	return user.Principal{
		UserID:       userID,
		Name:         claims.Name,
		Email:        claims.Email,
		Role:         user.Role(claims.Role),
		Capabilities: caps,
	}, nil
}
