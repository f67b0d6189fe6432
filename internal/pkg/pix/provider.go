package pix

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrChargeNotFound = errors.New("charge not found")

// ChargeStatus is the provider-side status of a charge.
type ChargeStatus string

const (
	ChargePending ChargeStatus = "pending"
	ChargePaid    ChargeStatus = "paid"
)

// CardRequest carries a tokenized card payment attempt.
type CardRequest struct {
	Token  string
	Amount float64
	Holder string
}

// CardResult is the synchronous outcome of a card payment.
type CardResult struct {
	ID       string
	Approved bool
	Message  string
}

// Provider abstracts the remote payment backend. The sandbox implementation
// stands in for Mercado Pago in development and tests.
type Provider interface {
	// Track registers a freshly created charge with the provider.
	Track(chargeID string)
	// Status returns the provider-side status of a charge.
	Status(ctx context.Context, chargeID string) (ChargeStatus, error)
	// ConfirmCharge marks a charge paid (webhook path).
	ConfirmCharge(chargeID string) error
	// ChargeCard runs a synchronous card payment.
	ChargeCard(ctx context.Context, req CardRequest) (CardResult, error)
}

// Sandbox is an in-memory provider that confirms every tracked charge after
// a fixed delay, mirroring a buyer scanning and paying the QR code.
type Sandbox struct {
	mu           sync.Mutex
	charges      map[string]sandboxCharge
	confirmAfter time.Duration
	now          func() time.Time
}

type sandboxCharge struct {
	confirmAt time.Time
	paid      bool
}

// NewSandbox creates a sandbox provider. confirmAfter <= 0 means charges
// stay pending until confirmed through the webhook path.
func NewSandbox(confirmAfter time.Duration) *Sandbox {
	return &Sandbox{
		charges:      make(map[string]sandboxCharge),
		confirmAfter: confirmAfter,
		now:          time.Now,
	}
}

func (s *Sandbox) Track(chargeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := sandboxCharge{}
	if s.confirmAfter > 0 {
		c.confirmAt = s.now().Add(s.confirmAfter)
	}
	s.charges[chargeID] = c
}

func (s *Sandbox) Status(ctx context.Context, chargeID string) (ChargeStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[chargeID]
	if !ok {
		return "", ErrChargeNotFound
	}
	if c.paid {
		return ChargePaid, nil
	}
	if !c.confirmAt.IsZero() && !s.now().Before(c.confirmAt) {
		c.paid = true
		s.charges[chargeID] = c
		return ChargePaid, nil
	}
	return ChargePending, nil
}

func (s *Sandbox) ConfirmCharge(chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.charges[chargeID]
	if !ok {
		return ErrChargeNotFound
	}
	c.paid = true
	s.charges[chargeID] = c
	return nil
}

// ChargeCard approves any card whose token passes a Luhn check. Tokens
// ending in "0002" are rejected, matching common sandbox conventions.
func (s *Sandbox) ChargeCard(ctx context.Context, req CardRequest) (CardResult, error) {
	if err := ctx.Err(); err != nil {
		return CardResult{}, err
	}
	if req.Amount <= 0 {
		return CardResult{}, ErrInvalidAmount
	}

	digits := strings.TrimSpace(req.Token)
	if digits == "" || strings.HasSuffix(digits, "0002") || !luhnValid(digits) {
		return CardResult{
			ID:       "card_" + digits,
			Approved: false,
			Message:  "Payment rejected by the card issuer.",
		}, nil
	}

	return CardResult{
		ID:       "card_" + digits,
		Approved: true,
		Message:  "Payment approved.",
	}, nil
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0 && len(number) > 0
}
