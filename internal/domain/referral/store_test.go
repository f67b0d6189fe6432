package referral_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/promptgen/promptgen-api/internal/domain/referral"
)

func TestConsumeIsReadOnce(t *testing.T) {
	store := referral.NewStore(referral.NewMemoryBackend(), time.Hour)
	ctx := context.Background()

	if err := store.Capture(ctx, "visitor-1", "aff-abc"); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	code, err := store.Consume(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if code != "aff-abc" {
		t.Fatalf("expected aff-abc, got %q", code)
	}

	if _, err := store.Consume(ctx, "visitor-1"); !errors.Is(err, referral.ErrNoCapture) {
		t.Fatalf("second consume must miss, got %v", err)
	}
}

func TestCaptureReplacesEarlierCode(t *testing.T) {
	store := referral.NewStore(referral.NewMemoryBackend(), time.Hour)
	ctx := context.Background()

	_ = store.Capture(ctx, "visitor-1", "aff-old")
	_ = store.Capture(ctx, "visitor-1", "aff-new")

	code, err := store.Consume(ctx, "visitor-1")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if code != "aff-new" {
		t.Fatalf("expected aff-new, got %q", code)
	}
}

func TestCaptureHandlerSetsVisitorCookie(t *testing.T) {
	store := referral.NewStore(referral.NewMemoryBackend(), time.Hour)
	handler := referral.NewHandler(store, 24*time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/referral/capture?ref=aff-abc", nil)
	rec := httptest.NewRecorder()
	handler.Capture(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var visitor string
	for _, c := range rec.Result().Cookies() {
		if c.Name == referral.VisitorCookie {
			visitor = c.Value
		}
	}
	if visitor == "" {
		t.Fatal("visitor cookie not set")
	}

	code, err := store.Consume(context.Background(), visitor)
	if err != nil || code != "aff-abc" {
		t.Fatalf("expected captured aff-abc for visitor, got %q err %v", code, err)
	}
}

func TestCaptureHandlerRequiresRef(t *testing.T) {
	store := referral.NewStore(referral.NewMemoryBackend(), time.Hour)
	handler := referral.NewHandler(store, 24*time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/referral/capture", nil)
	rec := httptest.NewRecorder()
	handler.Capture(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
