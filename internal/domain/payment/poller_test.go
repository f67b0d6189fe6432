package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/payment"
)

func TestPollerStopsOnPaid(t *testing.T) {
	svc, _, provider, _, _ := newTestService("merchant@example.com")
	ctx := context.Background()
	userID := uuid.New()

	charge, err := svc.CreatePixCharge(ctx, userID, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	poller := payment.NewStatusPoller(svc, 5*time.Millisecond)

	watchCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	events := poller.Watch(watchCtx, userID, charge.ID)

	first, ok := <-events
	if !ok || first.Status != payment.StatusPending {
		t.Fatalf("expected initial pending event, got %v ok=%v", first, ok)
	}

	if err := provider.ConfirmCharge(charge.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	var last payment.StatusResponse
	for event := range events {
		last = event
	}
	if last.Status != payment.StatusPaid {
		t.Fatalf("expected final paid event, got %v", last)
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	svc, _, _, _, _ := newTestService("merchant@example.com")
	userID := uuid.New()

	charge, err := svc.CreatePixCharge(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	poller := payment.NewStatusPoller(svc, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	events := poller.Watch(ctx, userID, charge.ID)

	<-events // initial pending observation
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			// One buffered event may slip through; the channel must still close.
			if _, ok := <-events; ok {
				t.Fatal("expected channel to close after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
