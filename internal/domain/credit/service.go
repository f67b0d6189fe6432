package credit

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes credit operations to the rest of the application.
type Service interface {
	Spend(ctx context.Context, userID uuid.UUID, amount int, description string) error
	Add(ctx context.Context, userID uuid.UUID, amount int, txType TxType, description string, referenceID *string) error
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error)
}

type service struct {
	repo Repository
}

// NewService creates a new credit service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Spend(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.Spend(ctx, userID, amount, description)
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, amount int, txType TxType, description string, referenceID *string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.Add(ctx, userID, amount, txType, description, referenceID)
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, p)
}
