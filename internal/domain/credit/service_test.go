package credit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
)

// fakeRepo keeps balances in memory and mirrors the repository's
// insufficient-balance behavior.
type fakeRepo struct {
	balances map[uuid.UUID]int
	ledger   []credit.Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: make(map[uuid.UUID]int)}
}

func (f *fakeRepo) Spend(_ context.Context, userID uuid.UUID, amount int, description string) error {
	balance, ok := f.balances[userID]
	if !ok {
		return credit.ErrUserNotFound
	}
	if balance < amount {
		return credit.ErrInsufficientCredits
	}
	f.balances[userID] = balance - amount
	f.ledger = append(f.ledger, credit.Transaction{
		UserID:      userID,
		Amount:      -amount,
		Type:        credit.TxTypeDeduction,
		Description: description,
	})
	return nil
}

func (f *fakeRepo) Add(_ context.Context, userID uuid.UUID, amount int, txType credit.TxType, description string, referenceID *string) error {
	if _, ok := f.balances[userID]; !ok {
		return credit.ErrUserNotFound
	}
	f.balances[userID] += amount
	f.ledger = append(f.ledger, credit.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		ReferenceID: referenceID,
	})
	return nil
}

func (f *fakeRepo) GetBalance(_ context.Context, userID uuid.UUID) (int, error) {
	balance, ok := f.balances[userID]
	if !ok {
		return 0, credit.ErrUserNotFound
	}
	return balance, nil
}

func (f *fakeRepo) ListTransactions(_ context.Context, userID uuid.UUID, _ credit.Pagination) ([]credit.Transaction, error) {
	out := make([]credit.Transaction, 0)
	for _, tx := range f.ledger {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func TestSpendDeductsAndRecordsLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := credit.NewService(repo)

	userID := uuid.New()
	repo.balances[userID] = 5

	if err := svc.Spend(context.Background(), userID, 1, "video prompt generation"); err != nil {
		t.Fatalf("spend failed: %v", err)
	}

	balance, err := svc.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance != 4 {
		t.Fatalf("expected balance 4, got %d", balance)
	}

	txs, err := svc.ListTransactions(context.Background(), userID, credit.Pagination{})
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != -1 || txs[0].Type != credit.TxTypeDeduction {
		t.Fatalf("unexpected ledger: %+v", txs)
	}
}

func TestSpendInsufficientCredits(t *testing.T) {
	repo := newFakeRepo()
	svc := credit.NewService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1

	err := svc.Spend(context.Background(), userID, 5, "full video generation")
	if !errors.Is(err, credit.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	balance, _ := svc.GetBalance(context.Background(), userID)
	if balance != 1 {
		t.Fatalf("balance must be untouched, got %d", balance)
	}
	if len(repo.ledger) != 0 {
		t.Fatalf("no ledger entry expected on failed spend")
	}
}

func TestSpendRejectsNonPositiveAmount(t *testing.T) {
	svc := credit.NewService(newFakeRepo())

	for _, amount := range []int{0, -3} {
		if err := svc.Spend(context.Background(), uuid.New(), amount, "x"); !errors.Is(err, credit.ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestAddGrantsCredits(t *testing.T) {
	repo := newFakeRepo()
	svc := credit.NewService(repo)

	userID := uuid.New()
	repo.balances[userID] = 20

	if err := svc.Add(context.Background(), userID, 100, credit.TxTypeAdminGrant, "admin grant", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	balance, _ := svc.GetBalance(context.Background(), userID)
	if balance != 120 {
		t.Fatalf("expected balance 120, got %d", balance)
	}
}
