package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/pkg/jwt"
)

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	svc := jwt.NewService("secret", time.Minute, time.Hour)
	handler := Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddlewarePassesClaims(t *testing.T) {
	svc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, "affiliate")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotID uuid.UUID
	var gotRole string
	handler := Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotID != userID {
		t.Fatalf("expected user id %s in context, got %s", userID, gotID)
	}
	if gotRole != "affiliate" {
		t.Fatalf("expected role affiliate, got %q", gotRole)
	}
}

func TestRequireAdminBlocksOtherRoles(t *testing.T) {
	called := false
	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), RoleKey, "user"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if called {
		t.Fatal("handler must not run for non-admin")
	}
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
