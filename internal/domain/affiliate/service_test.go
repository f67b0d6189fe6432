package affiliate_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/affiliate"
	"github.com/promptgen/promptgen-api/internal/domain/user"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByAffiliateID(_ context.Context, code string) (*user.User, error) {
	for _, u := range f.users {
		if u.AffiliateID.Valid && u.AffiliateID.String == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) SetRole(_ context.Context, _ uuid.UUID, _ user.Role, _ *string, _ *float64) error {
	return nil
}

func (f *fakeUserRepo) SetCommissionRate(_ context.Context, _ uuid.UUID, _ float64) error {
	return nil
}

func (f *fakeUserRepo) AddCommission(_ context.Context, id uuid.UUID, amount float64) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.CommissionEarned += amount
	return nil
}

type fakeTxRepo struct {
	txs []affiliate.PurchaseTransaction
}

func (f *fakeTxRepo) Insert(_ context.Context, tx *affiliate.PurchaseTransaction) error {
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakeTxRepo) ListAll(_ context.Context, _, _ int) ([]affiliate.PurchaseTransaction, error) {
	return f.txs, nil
}

func (f *fakeTxRepo) ListByAffiliate(_ context.Context, code string, _, _ int) ([]affiliate.PurchaseTransaction, error) {
	out := make([]affiliate.PurchaseTransaction, 0)
	for _, tx := range f.txs {
		if tx.AffiliateCode.Valid && tx.AffiliateCode.String == code {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) TotalRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, tx := range f.txs {
		total += tx.AmountPaid
	}
	return total, nil
}

func seedUsers(affiliateRate sql.NullFloat64, earned float64) (*fakeUserRepo, uuid.UUID, uuid.UUID) {
	affiliateID := uuid.New()
	payerID := uuid.New()

	affiliateUser := &user.User{
		ID:               affiliateID,
		Email:            "partner@example.com",
		Role:             user.RoleAffiliate,
		CommissionRate:   affiliateRate,
		CommissionEarned: earned,
	}
	affiliateUser.AffiliateID = sql.NullString{String: "aff-partner", Valid: true}

	payer := &user.User{
		ID:    payerID,
		Email: "payer@example.com",
		Role:  user.RoleUser,
	}
	payer.ReferredBy = sql.NullString{String: "aff-partner", Valid: true}

	return &fakeUserRepo{users: map[uuid.UUID]*user.User{
		affiliateID: affiliateUser,
		payerID:     payer,
	}}, affiliateID, payerID
}

func TestRecordPurchaseDefaultCommission(t *testing.T) {
	users, affiliateID, payerID := seedUsers(sql.NullFloat64{}, 0)
	txRepo := &fakeTxRepo{}
	svc := affiliate.NewService(txRepo, users, 0.10)

	if err := svc.RecordPurchase(context.Background(), payerID, "charge-1", 45.00, 50); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if got := users.users[affiliateID].CommissionEarned; got != 4.50 {
		t.Fatalf("expected commission 4.50, got %v", got)
	}
	if len(txRepo.txs) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txRepo.txs))
	}
	tx := txRepo.txs[0]
	if !tx.AffiliateCode.Valid || tx.AffiliateCode.String != "aff-partner" {
		t.Fatalf("expected affiliate code recorded, got %+v", tx.AffiliateCode)
	}
	if !tx.CommissionAmount.Valid || tx.CommissionAmount.Float64 != 4.50 {
		t.Fatalf("expected commission 4.50 recorded, got %+v", tx.CommissionAmount)
	}
}

func TestRecordPurchaseAddsToPriorEarnings(t *testing.T) {
	users, affiliateID, payerID := seedUsers(sql.NullFloat64{Float64: 0.25, Valid: true}, 12.00)
	svc := affiliate.NewService(&fakeTxRepo{}, users, 0.10)

	if err := svc.RecordPurchase(context.Background(), payerID, "charge-2", 80.00, 100); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// 12.00 prior + 80.00 * 0.25
	if got := users.users[affiliateID].CommissionEarned; got != 32.00 {
		t.Fatalf("expected commission total 32.00, got %v", got)
	}
}

func TestRecordPurchaseWithoutReferrer(t *testing.T) {
	payerID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{
		payerID: {ID: payerID, Email: "solo@example.com", Role: user.RoleUser},
	}}
	txRepo := &fakeTxRepo{}
	svc := affiliate.NewService(txRepo, users, 0.10)

	if err := svc.RecordPurchase(context.Background(), payerID, "charge-3", 10.00, 10); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if len(txRepo.txs) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txRepo.txs))
	}
	if txRepo.txs[0].AffiliateCode.Valid {
		t.Fatal("transaction must not carry an affiliate code")
	}
}

func TestGetDashboard(t *testing.T) {
	users, affiliateID, payerID := seedUsers(sql.NullFloat64{}, 0)
	txRepo := &fakeTxRepo{}
	svc := affiliate.NewService(txRepo, users, 0.10)
	ctx := context.Background()

	_ = svc.RecordPurchase(ctx, payerID, "charge-1", 45.00, 50)
	_ = svc.RecordPurchase(ctx, payerID, "charge-2", 10.00, 10)

	dash, err := svc.GetDashboard(ctx, affiliateID)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dash.AffiliateCode != "aff-partner" {
		t.Fatalf("unexpected code %q", dash.AffiliateCode)
	}
	if dash.CommissionRate != 0.10 {
		t.Fatalf("expected default rate 0.10, got %v", dash.CommissionRate)
	}
	if dash.ReferredSales != 2 {
		t.Fatalf("expected 2 referred sales, got %d", dash.ReferredSales)
	}
	if dash.CommissionEarned != 5.50 {
		t.Fatalf("expected earned 5.50, got %v", dash.CommissionEarned)
	}
}

func TestGetDashboardRequiresAffiliate(t *testing.T) {
	payerID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{
		payerID: {ID: payerID, Role: user.RoleUser},
	}}
	svc := affiliate.NewService(&fakeTxRepo{}, users, 0.10)

	_, err := svc.GetDashboard(context.Background(), payerID)
	if !errors.Is(err, affiliate.ErrNotAffiliate) {
		t.Fatalf("expected ErrNotAffiliate, got %v", err)
	}
}
