package pix

import (
	"context"
	"testing"
	"time"
)

func TestSandboxConfirmsAfterDelay(t *testing.T) {
	s := NewSandbox(10 * time.Second)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.Track("pix_1")

	status, err := s.Status(context.Background(), "pix_1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != ChargePending {
		t.Fatalf("expected pending before the delay, got %s", status)
	}

	now = now.Add(11 * time.Second)
	status, err = s.Status(context.Background(), "pix_1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != ChargePaid {
		t.Fatalf("expected paid after the delay, got %s", status)
	}
}

func TestSandboxWebhookConfirm(t *testing.T) {
	s := NewSandbox(0) // webhook-only mode
	s.Track("pix_2")

	status, _ := s.Status(context.Background(), "pix_2")
	if status != ChargePending {
		t.Fatalf("expected pending, got %s", status)
	}

	if err := s.ConfirmCharge("pix_2"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	status, _ = s.Status(context.Background(), "pix_2")
	if status != ChargePaid {
		t.Fatalf("expected paid after webhook confirm, got %s", status)
	}

	if err := s.ConfirmCharge("missing"); err != ErrChargeNotFound {
		t.Fatalf("expected ErrChargeNotFound, got %v", err)
	}
}

func TestSandboxUnknownCharge(t *testing.T) {
	s := NewSandbox(time.Second)
	if _, err := s.Status(context.Background(), "nope"); err != ErrChargeNotFound {
		t.Fatalf("expected ErrChargeNotFound, got %v", err)
	}
}

func TestSandboxCardPayment(t *testing.T) {
	s := NewSandbox(time.Second)

	// 4242424242424242 passes Luhn.
	res, err := s.ChargeCard(context.Background(), CardRequest{Token: "4242424242424242", Amount: 45})
	if err != nil {
		t.Fatalf("charge card: %v", err)
	}
	if !res.Approved {
		t.Fatalf("expected approval, got %q", res.Message)
	}

	res, err = s.ChargeCard(context.Background(), CardRequest{Token: "4000000000000002", Amount: 45})
	if err != nil {
		t.Fatalf("charge card: %v", err)
	}
	if res.Approved {
		t.Fatal("sandbox decline token must be rejected")
	}

	if _, err := s.ChargeCard(context.Background(), CardRequest{Token: "4242424242424242", Amount: 0}); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
