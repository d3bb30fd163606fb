package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

type stubVerifier struct {
	principal user.Principal
	err       error
}

func (v stubVerifier) Verify(_ context.Context, _ string) (user.Principal, error) {
	return v.principal, v.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	handler := RequireAuth(stubVerifier{}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	handler := RequireAuth(stubVerifier{}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_VerifierRejects(t *testing.T) {
	handler := RequireAuth(stubVerifier{err: fmt.Errorf("token expired")}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_PropagatesPrincipal(t *testing.T) {
	principal := user.Principal{UserID: 7, Name: "Dana", Role: user.RoleEditor, Capabilities: []user.Capability{user.CapabilityDuelazo}}
	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatalf("expected principal in request context")
		}
		seen = got
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(stubVerifier{principal: principal}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen.UserID != principal.UserID {
		t.Fatalf("expected principal user id %d, got %d", principal.UserID, seen.UserID)
	}
}

func TestRequireCapability_DeniesWithoutGrant(t *testing.T) {
	principal := user.Principal{UserID: 7, Role: user.RoleEditor, Capabilities: []user.Capability{user.CapabilityStyly}}
	handler := RequireCapability(user.CapabilityDuelazo, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestRequireCapability_AdminPassesImplicitly(t *testing.T) {
	principal := user.Principal{UserID: 1, Role: user.RoleAdmin}
	handler := RequireCapability(user.CapabilityDuelazo, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequireBusinessCapability_ResolvesPathSegment(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /v1/content/{business}/ideas", RequireBusinessCapability(okHandler()))

	principal := user.Principal{UserID: 7, Role: user.RoleEditor, Capabilities: []user.Capability{user.CapabilitySpacebox}}

	req := httptest.NewRequest(http.MethodGet, "/v1/content/spacebox/ideas", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for granted business, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/content/nosotros/ideas", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for missing business grant, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/content/unknown/ideas", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown business, got %d", rec.Code)
	}
}

func TestRequireAdmin_DeniesEditor(t *testing.T) {
	principal := user.Principal{UserID: 7, Role: user.RoleEditor}
	handler := RequireAdmin(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req = req.WithContext(withPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
