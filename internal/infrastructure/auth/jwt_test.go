package auth

import (
	"context"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

func newTestManager(t *testing.T, at time.Time) *TokenManager {
	t.Helper()
	manager, err := NewTokenManager(TokenManagerConfig{
		Secret:   "test-secret",
		Issuer:   "panel-central",
		TokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	manager.now = func() time.Time { return at }
	return manager
}

func TestTokenManagerRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, at)

	principal := user.Principal{
		UserID:       42,
		Name:         "Ana",
		Email:        "ana@example.com",
		Role:         user.RoleEditor,
		Capabilities: []user.Capability{user.CapabilityDuelazo, user.CapabilityStyly},
	}

	token, expiresAt, err := manager.Issue(context.Background(), principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := at.Add(time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	got, err := manager.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UserID != principal.UserID || got.Email != principal.Email || got.Role != principal.Role {
		t.Fatalf("principal mismatch: %+v", got)
	}
	if len(got.Capabilities) != 2 || got.Capabilities[0] != user.CapabilityDuelazo {
		t.Fatalf("capabilities mismatch: %v", got.Capabilities)
	}
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, at)

	token, _, err := manager.Issue(context.Background(), user.Principal{UserID: 7})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	manager.now = func() time.Time { return at.Add(2 * time.Hour) }
	if _, err := manager.Verify(context.Background(), token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestTokenManagerRejectsTampering(t *testing.T) {
	t.Parallel()

	at := time.Now()
	manager := newTestManager(t, at)

	token, _, err := manager.Issue(context.Background(), user.Principal{UserID: 7})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := newTestManager(t, at)
	other.secret = []byte("different-secret")
	if _, err := other.Verify(context.Background(), token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager(TokenManagerConfig{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
