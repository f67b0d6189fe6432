package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/auth"
	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/domain/referral"
	"github.com/promptgen/promptgen-api/internal/domain/session"
	"github.com/promptgen/promptgen-api/internal/domain/user"
	"github.com/promptgen/promptgen-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByAffiliateID(_ context.Context, affiliateID string) (*user.User, error) {
	for _, u := range f.users {
		if u.AffiliateID.Valid && u.AffiliateID.String == affiliateID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, id uuid.UUID, role user.Role, affiliateID *string, commissionRate *float64) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Role = role
	if affiliateID != nil {
		u.AffiliateID.String = *affiliateID
		u.AffiliateID.Valid = true
	}
	if commissionRate != nil {
		u.CommissionRate.Float64 = *commissionRate
		u.CommissionRate.Valid = true
	}
	return nil
}

func (f *fakeUserRepo) SetCommissionRate(_ context.Context, id uuid.UUID, rate float64) error {
	u, ok := f.users[id]
	if !ok || u.Role != user.RoleAffiliate {
		return user.ErrNotAffiliate
	}
	u.CommissionRate.Float64 = rate
	u.CommissionRate.Valid = true
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

// fakeCreditService mutates the fake repo's balances directly so that session
// reloads observe the grant.
type fakeCreditService struct {
	repo *fakeUserRepo
}

func (f *fakeCreditService) Spend(_ context.Context, userID uuid.UUID, amount int, _ string) error {
	u, ok := f.repo.users[userID]
	if !ok {
		return credit.ErrUserNotFound
	}
	if u.CreditBalance < amount {
		return credit.ErrInsufficientCredits
	}
	u.CreditBalance -= amount
	return nil
}

func (f *fakeCreditService) Add(_ context.Context, userID uuid.UUID, amount int, _ credit.TxType, _ string, _ *string) error {
	u, ok := f.repo.users[userID]
	if !ok {
		return credit.ErrUserNotFound
	}
	u.CreditBalance += amount
	return nil
}

func (f *fakeCreditService) GetBalance(_ context.Context, userID uuid.UUID) (int, error) {
	u, ok := f.repo.users[userID]
	if !ok {
		return 0, credit.ErrUserNotFound
	}
	return u.CreditBalance, nil
}

func (f *fakeCreditService) ListTransactions(_ context.Context, _ uuid.UUID, _ credit.Pagination) ([]credit.Transaction, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepo, *referral.Store) {
	t.Helper()
	repo := newFakeUserRepo()
	credits := &fakeCreditService{repo: repo}
	sessions := session.NewStore(session.NewMemoryCache(), credits, repo)
	referrals := referral.NewStore(referral.NewMemoryBackend(), time.Hour)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return auth.NewService(repo, jwtService, nil, credits, sessions, referrals, 5), repo, referrals
}

func seedAffiliate(repo *fakeUserRepo, code string) {
	id := uuid.New()
	repo.users[id] = &user.User{
		ID:    id,
		Email: code + "@affiliates.test",
		Role:  user.RoleAffiliate,
	}
	repo.users[id].AffiliateID.String = code
	repo.users[id].AffiliateID.Valid = true
}

func TestRegisterGrantsWelcomeCredits(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "New@Example.com",
		Password: "str0ngpassword",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if resp.User.CreditBalance != 5 {
		t.Fatalf("expected 5 welcome credits, got %d", resp.User.CreditBalance)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair")
	}

	stored, _ := repo.GetByEmail(context.Background(), "new@example.com")
	if stored == nil {
		t.Fatal("email must be normalized to lower case")
	}
	if stored.CreditBalance != 5 {
		t.Fatalf("expected persisted balance 5, got %d", stored.CreditBalance)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := &auth.RegisterRequest{Email: "dup@example.com", Password: "str0ngpassword"}
	if _, err := svc.Register(ctx, req, ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, &auth.RegisterRequest{Email: "dup@example.com", Password: "otherpassword1"}, "")
	if !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// racingUserRepo simulates a concurrent registration slipping in between the
// existence check and the insert: the lookup sees nothing, the insert hits
// the unique index.
type racingUserRepo struct {
	*fakeUserRepo
}

func (r *racingUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}

func (r *racingUserRepo) Create(_ context.Context, _ *user.User) error {
	return user.ErrDuplicateEmail
}

func TestRegisterConcurrentDuplicateMapsToEmailExists(t *testing.T) {
	repo := &racingUserRepo{fakeUserRepo: newFakeUserRepo()}
	credits := &fakeCreditService{repo: repo.fakeUserRepo}
	sessions := session.NewStore(session.NewMemoryCache(), credits, repo)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	svc := auth.NewService(repo, jwtService, nil, credits, sessions, nil, 5)

	_, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "race@example.com",
		Password: "str0ngpassword",
	}, "")
	if !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterAttachesAffiliateReferral(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedAffiliate(repo, "aff-partner")

	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:        "ref@example.com",
		Password:     "str0ngpassword",
		ReferralCode: "aff-partner",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stored := repo.users[resp.User.ID]
	if !stored.ReferredBy.Valid || stored.ReferredBy.String != "aff-partner" {
		t.Fatalf("expected referred_by aff-partner, got %+v", stored.ReferredBy)
	}
}

func TestRegisterDropsUnknownReferralCode(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:        "noref@example.com",
		Password:     "str0ngpassword",
		ReferralCode: "aff-nobody",
	}, "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if repo.users[resp.User.ID].ReferredBy.Valid {
		t.Fatal("unknown referral code must be dropped")
	}
}

func TestRegisterConsumesVisitorCapture(t *testing.T) {
	svc, repo, referrals := newTestService(t)
	seedAffiliate(repo, "aff-partner")
	ctx := context.Background()

	if err := referrals.Capture(ctx, "visitor-9", "aff-partner"); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	resp, err := svc.Register(ctx, &auth.RegisterRequest{
		Email:    "captured@example.com",
		Password: "str0ngpassword",
	}, "visitor-9")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stored := repo.users[resp.User.ID]
	if !stored.ReferredBy.Valid || stored.ReferredBy.String != "aff-partner" {
		t.Fatalf("expected captured referral attached, got %+v", stored.ReferredBy)
	}

	// The capture is consumed: a second registration from the same visitor
	// carries no referral.
	resp2, err := svc.Register(ctx, &auth.RegisterRequest{
		Email:    "second@example.com",
		Password: "str0ngpassword",
	}, "visitor-9")
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	if repo.users[resp2.User.ID].ReferredBy.Valid {
		t.Fatal("capture must be read-once")
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &auth.RegisterRequest{Email: "login@example.com", Password: "str0ngpassword"}, ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, &auth.LoginRequest{Email: "login@example.com", Password: "wrongpassword"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Login(ctx, &auth.LoginRequest{Email: "login@example.com", Password: "str0ngpassword"}); err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
}
