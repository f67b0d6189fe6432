package payment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/pkg/pix"
)

const notConfiguredMessage = "PIX payments are not configured on this server. " +
	"Set the merchant PIX key to enable credit purchases."

// CreditGranter is the slice of the session store the service needs.
type CreditGranter interface {
	AddCredits(ctx context.Context, userID uuid.UUID, amount int, txType credit.TxType, description string, referenceID *string) error
}

// CommissionRecorder accrues affiliate commission for a confirmed purchase.
type CommissionRecorder interface {
	RecordPurchase(ctx context.Context, userID uuid.UUID, chargeID string, amountPaid float64, credits int) error
}

// Config carries the merchant identity for PIX payloads.
type Config struct {
	PixKey       string
	MerchantName string
	MerchantCity string
}

// Service handles charge lifecycle and the exactly-once paid transition.
type Service struct {
	repo       Repository
	provider   pix.Provider
	sessions   CreditGranter
	affiliates CommissionRecorder
	cfg        Config
}

// NewService creates payment service
func NewService(repo Repository, provider pix.Provider, sessions CreditGranter, affiliates CommissionRecorder, cfg Config) *Service {
	return &Service{
		repo:       repo,
		provider:   provider,
		sessions:   sessions,
		affiliates: affiliates,
		cfg:        cfg,
	}
}

// Configured reports whether a merchant PIX key is present.
func (s *Service) Configured() bool {
	return s.cfg.PixKey != ""
}

// CreatePixCharge builds the BR Code for a credit package and persists a
// pending charge. Without a merchant key it returns the terminal
// not-configured sentinel instead.
func (s *Service) CreatePixCharge(ctx context.Context, userID uuid.UUID, credits int) (*Charge, error) {
	pkg, ok := PackageByCredits(credits)
	if !ok {
		return nil, ErrUnknownPackage
	}

	if !s.Configured() {
		return &Charge{
			ID:            NotConfiguredID,
			UserID:        userID,
			Method:        MethodPix,
			AmountBRL:     pkg.PriceBRL,
			Credits:       pkg.Credits,
			Status:        StatusNotConfigured,
			CopyPasteCode: notConfiguredMessage,
			Message:       notConfiguredMessage,
		}, nil
	}

	payload := pix.BuildPayload(s.cfg.PixKey, fmt.Sprintf("%.2f", pkg.PriceBRL), s.cfg.MerchantName, s.cfg.MerchantCity)

	charge := &Charge{
		ID:            uuid.NewString(),
		UserID:        userID,
		Method:        MethodPix,
		AmountBRL:     pkg.PriceBRL,
		Credits:       pkg.Credits,
		Status:        StatusPending,
		CopyPasteCode: payload,
		QRCodeURL:     qrCodeURL(payload),
	}

	if err := s.repo.Create(ctx, charge); err != nil {
		return nil, err
	}

	s.provider.Track(charge.ID)
	return charge, nil
}

// CreateCardPayment runs a synchronous card charge. An approved payment goes
// through the same confirm path as PIX so the grant stays exactly-once.
func (s *Service) CreateCardPayment(ctx context.Context, userID uuid.UUID, req *CreateCardPaymentRequest) (*Charge, error) {
	pkg, ok := PackageByCredits(req.Credits)
	if !ok {
		return nil, ErrUnknownPackage
	}

	result, err := s.provider.ChargeCard(ctx, pix.CardRequest{
		Token:  req.CardToken,
		Amount: pkg.PriceBRL,
		Holder: req.CardHolder,
	})
	if err != nil {
		return nil, fmt.Errorf("card charge: %w", err)
	}

	charge := &Charge{
		ID:        uuid.NewString(),
		UserID:    userID,
		Method:    MethodCard,
		AmountBRL: pkg.PriceBRL,
		Credits:   pkg.Credits,
		Status:    StatusPending,
		Message:   result.Message,
	}
	if err := s.repo.Create(ctx, charge); err != nil {
		return nil, err
	}

	if !result.Approved {
		if err := s.repo.MarkFailed(ctx, charge.ID, result.Message); err != nil {
			return nil, err
		}
		charge.Status = StatusFailed
		return charge, nil
	}

	if err := s.confirm(ctx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

// GetStatus returns the current charge status, consulting the provider for
// pending charges. The first observation of a paid charge applies the grant
// and commission side effects exactly once.
func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID, chargeID string) (*Charge, error) {
	if chargeID == NotConfiguredID {
		return &Charge{
			ID:      NotConfiguredID,
			UserID:  userID,
			Method:  MethodPix,
			Status:  StatusNotConfigured,
			Message: notConfiguredMessage,
		}, nil
	}

	charge, err := s.repo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, ErrChargeNotFound
	}
	if charge.UserID != userID {
		return nil, ErrNotOwner
	}
	if charge.Terminal() {
		return charge, nil
	}

	status, err := s.provider.Status(ctx, chargeID)
	if err != nil {
		// A provider that lost the charge (restart) leaves it pending.
		if err == pix.ErrChargeNotFound {
			return charge, nil
		}
		return nil, err
	}

	if status == pix.ChargePaid {
		if err := s.confirm(ctx, charge); err != nil {
			return nil, err
		}
	}
	return charge, nil
}

// ConfirmWebhook marks a charge paid from the provider callback path.
func (s *Service) ConfirmWebhook(ctx context.Context, chargeID string) (*Charge, error) {
	charge, err := s.repo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, ErrChargeNotFound
	}

	_ = s.provider.ConfirmCharge(chargeID)

	if !charge.Terminal() {
		if err := s.confirm(ctx, charge); err != nil {
			return nil, err
		}
	}
	return charge, nil
}

// ListByUser returns the user's purchase history.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Charge, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// confirm applies the exactly-once paid transition. Only the caller that
// wins the pending to paid CAS runs the side effects.
func (s *Service) confirm(ctx context.Context, charge *Charge) error {
	won, err := s.repo.MarkPaid(ctx, charge.ID)
	if err != nil {
		return err
	}
	charge.Status = StatusPaid
	if !won {
		return nil
	}

	ref := charge.ID
	if err := s.sessions.AddCredits(ctx, charge.UserID, charge.Credits, credit.TxTypePurchase, "credit purchase", &ref); err != nil {
		return fmt.Errorf("grant purchased credits: %w", err)
	}

	if s.affiliates != nil {
		if err := s.affiliates.RecordPurchase(ctx, charge.UserID, charge.ID, charge.AmountBRL, charge.Credits); err != nil {
			// Commission bookkeeping must not fail the purchase.
			log.Error().Err(err).Str("charge_id", charge.ID).Msg("failed to record purchase commission")
		}
	}
	return nil
}

func qrCodeURL(payload string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(payload)
}
