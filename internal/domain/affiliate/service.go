package affiliate

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/domain/user"
)

// Service records purchases and accrues affiliate commission.
type Service struct {
	repo        Repository
	users       user.Repository
	defaultRate float64
}

// NewService creates affiliate service
func NewService(repo Repository, users user.Repository, defaultRate float64) *Service {
	return &Service{repo: repo, users: users, defaultRate: defaultRate}
}

// RecordPurchase writes the purchase transaction and, when the payer was
// referred by an affiliate, adds amountPaid * rate to that affiliate's
// earned total. The caller guarantees at most one call per charge.
func (s *Service) RecordPurchase(ctx context.Context, userID uuid.UUID, chargeID string, amountPaid float64, credits int) error {
	tx := &PurchaseTransaction{
		ID:               uuid.New(),
		UserID:           userID,
		ChargeID:         chargeID,
		AmountPaid:       amountPaid,
		CreditsPurchased: credits,
	}

	payer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if payer != nil && payer.ReferredBy.Valid {
		owner, err := s.users.GetByAffiliateID(ctx, payer.ReferredBy.String)
		if err != nil {
			return err
		}
		if owner != nil && owner.IsAffiliate() {
			rate := owner.EffectiveCommissionRate(s.defaultRate)
			commission := amountPaid * rate

			if err := s.users.AddCommission(ctx, owner.ID, commission); err != nil {
				return err
			}
			tx.AffiliateCode = sql.NullString{String: payer.ReferredBy.String, Valid: true}
			tx.CommissionAmount = sql.NullFloat64{Float64: commission, Valid: true}

			log.Info().
				Str("charge_id", chargeID).
				Str("affiliate_code", payer.ReferredBy.String).
				Float64("commission", commission).
				Msg("affiliate commission accrued")
		}
	}

	return s.repo.Insert(ctx, tx)
}

// GetDashboard returns the affiliate's code, rate, earnings and attributed
// sales.
func (s *Service) GetDashboard(ctx context.Context, affiliateUserID uuid.UUID) (*Dashboard, error) {
	u, err := s.users.GetByID(ctx, affiliateUserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsAffiliate() || !u.AffiliateID.Valid {
		return nil, ErrNotAffiliate
	}

	txs, err := s.repo.ListByAffiliate(ctx, u.AffiliateID.String, 100, 0)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		AffiliateCode:    u.AffiliateID.String,
		CommissionRate:   u.EffectiveCommissionRate(s.defaultRate),
		CommissionEarned: u.CommissionEarned,
		ReferredSales:    len(txs),
		Transactions:     txs,
	}, nil
}

// ListTransactions returns all purchase transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]PurchaseTransaction, error) {
	return s.repo.ListAll(ctx, limit, offset)
}

// TotalRevenue returns the sum of all confirmed purchases.
func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	return s.repo.TotalRevenue(ctx)
}
