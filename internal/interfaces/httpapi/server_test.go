package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/panelcentral/backoffice/internal/domain/user"
	"github.com/panelcentral/backoffice/internal/platform/logging"
)

func newTestRouter(verifier TokenVerifier) http.Handler {
	handler := NewHandler(nil, nil, nil, nil, nil, nil, nil, logging.NewNop())
	return NewRouter(handler, verifier, logging.NewNop(), []string{"*"})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestRouter_ProtectedRouteRequiresToken(t *testing.T) {
	router := newTestRouter(stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_PoolRouteRequiresDuelazoCapability(t *testing.T) {
	principal := user.Principal{UserID: 7, Role: user.RoleEditor, Capabilities: []user.Capability{user.CapabilityStyly}}
	router := newTestRouter(stubVerifier{principal: principal})

	req := httptest.NewRequest(http.MethodGet, "/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer editor-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestRouter_AdminRouteDeniesEditor(t *testing.T) {
	principal := user.Principal{UserID: 7, Role: user.RoleEditor, Capabilities: []user.Capability{user.CapabilityDuelazo}}
	router := newTestRouter(stubVerifier{principal: principal})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer editor-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
