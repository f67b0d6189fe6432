package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/affiliate"
	"github.com/promptgen/promptgen-api/internal/domain/content"
	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/domain/user"
)

// CreditGranter is the slice of the session store the service needs.
type CreditGranter interface {
	AddCredits(ctx context.Context, userID uuid.UUID, amount int, txType credit.TxType, description string, referenceID *string) error
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// SalesReader exposes the purchase records admins review.
type SalesReader interface {
	ListTransactions(ctx context.Context, limit, offset int) ([]affiliate.PurchaseTransaction, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// AnnouncementWriter sets and clears the site banner.
type AnnouncementWriter interface {
	Set(ctx context.Context, a *content.Announcement) error
	Clear(ctx context.Context) error
}

// Service implements admin operations.
type Service struct {
	users         user.Repository
	sessions      CreditGranter
	sales         SalesReader
	announcements AnnouncementWriter
	defaultRate   float64
}

// NewService creates admin service
func NewService(users user.Repository, sessions CreditGranter, sales SalesReader, announcements AnnouncementWriter, defaultRate float64) *Service {
	return &Service{
		users:         users,
		sessions:      sessions,
		sales:         sales,
		announcements: announcements,
		defaultRate:   defaultRate,
	}
}

// ListUsers returns users for the admin dashboard.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]UserSummary, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{
			ID:               u.ID.String(),
			Email:            u.Email,
			Role:             string(u.Role),
			CreditBalance:    u.CreditBalance,
			CommissionEarned: u.CommissionEarned,
			CreatedAt:        u.CreatedAt.Format(time.RFC3339),
		}
		if u.AffiliateID.Valid {
			summary.AffiliateID = u.AffiliateID.String
		}
		if u.CommissionRate.Valid {
			summary.CommissionRate = u.CommissionRate.Float64
		}
		if u.ReferredBy.Valid {
			summary.ReferredBy = u.ReferredBy.String
		}
		out = append(out, summary)
	}
	return out, nil
}

// GrantCredits adds credits to a user's balance. The grant is visible on the
// user's next profile fetch.
func (s *Service) GrantCredits(ctx context.Context, userID uuid.UUID, amount int) error {
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	return s.sessions.AddCredits(ctx, userID, amount, credit.TxTypeAdminGrant, "admin credit grant", nil)
}

// SetRole changes a user's role. Promotion to affiliate provisions the
// affiliate code and the default commission rate when unset.
func (s *Service) SetRole(ctx context.Context, userID uuid.UUID, role user.Role) error {
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	var affiliateID *string
	var rate *float64
	if role == user.RoleAffiliate {
		if !target.AffiliateID.Valid {
			code := "aff-" + userID.String()
			affiliateID = &code
		}
		if !target.CommissionRate.Valid {
			r := s.defaultRate
			rate = &r
		}
	}

	if err := s.users.SetRole(ctx, userID, role, affiliateID, rate); err != nil {
		return err
	}
	s.sessions.Invalidate(ctx, userID)
	return nil
}

// SetCommissionRate updates an affiliate's commission rate.
func (s *Service) SetCommissionRate(ctx context.Context, userID uuid.UUID, rate float64) error {
	if rate < 0 || rate > 1 {
		return ErrInvalidRate
	}
	return s.users.SetCommissionRate(ctx, userID, rate)
}

// ListTransactions returns all purchase transactions.
func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]affiliate.PurchaseTransaction, error) {
	return s.sales.ListTransactions(ctx, limit, offset)
}

// TotalRevenue returns the sum of confirmed purchases.
func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	return s.sales.TotalRevenue(ctx)
}

// SetAnnouncement replaces the site banner, assigning an id when absent.
func (s *Service) SetAnnouncement(ctx context.Context, req *SetAnnouncementRequest) (*content.Announcement, error) {
	a := &content.Announcement{ID: req.ID, Message: req.Message}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := s.announcements.Set(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ClearAnnouncement removes the site banner.
func (s *Service) ClearAnnouncement(ctx context.Context) error {
	return s.announcements.Clear(ctx)
}
