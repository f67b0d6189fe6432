package credit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/middleware"
)

func authAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestTransactionsEndpointReturnsLedger(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.balances[userID] = 10

	svc := credit.NewService(repo)
	if err := svc.Spend(context.Background(), userID, 1, "video prompt"); err != nil {
		t.Fatalf("spend failed: %v", err)
	}

	handler := credit.NewHandler(svc)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	handler.Routes(authAs(userID)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Success bool                 `json:"success"`
		Data    []credit.Transaction `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.Data) != 1 {
		t.Fatalf("expected one ledger entry, got %+v", body)
	}
	if body.Data[0].Amount != -1 || body.Data[0].Type != credit.TxTypeDeduction {
		t.Fatalf("unexpected entry %+v", body.Data[0])
	}
}

func TestTransactionsEndpointRequiresAuth(t *testing.T) {
	handler := credit.NewHandler(credit.NewService(newFakeRepo()))

	passthrough := func(next http.Handler) http.Handler { return next }
	rr := httptest.NewRecorder()
	handler.Routes(passthrough).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
