package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Spend(ctx context.Context, userID uuid.UUID, amount int, description string) error
	Add(ctx context.Context, userID uuid.UUID, amount int, txType TxType, description string, referenceID *string) error
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error)
}

// CreditRepository provides the credit ledger and balance operations.
type CreditRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Spend atomically deducts from the balance and records the ledger entry.
// The conditional UPDATE keeps the balance from going negative under
// concurrent spends.
func (r *CreditRepository) Spend(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx2, `
		UPDATE users
		SET credit_balance = credit_balance - $2, updated_at = now()
		WHERE id = $1 AND credit_balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: update user balance", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		if exists, err := r.userExists(ctx2, tx, userID); err != nil {
			return err
		} else if !exists {
			return ErrUserNotFound
		}
		return ErrInsufficientCredits
	}

	if err := r.insertLedger(ctx2, tx, userID, -amount, TxTypeDeduction, description, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

// Add credits to a user and record the ledger entry in the same transaction.
func (r *CreditRepository) Add(ctx context.Context, userID uuid.UUID, amount int, txType TxType, description string, referenceID *string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx2, `
		UPDATE users
		SET credit_balance = credit_balance + $2, updated_at = now()
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: update user balance", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if err := r.insertLedger(ctx2, tx, userID, amount, txType, description, referenceID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *CreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT credit_balance FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}
	return balance, nil
}

func (r *CreditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}

	txs := make([]Transaction, 0)
	err := r.db.SelectContext(ctx2, &txs, `
		SELECT id, user_id, amount, type, description, reference_id, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions", ErrInternal)
	}
	return txs, nil
}

func (r *CreditRepository) insertLedger(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, description string, referenceID *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, type, description, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), userID, amount, string(txType), description, referenceID)
	if err != nil {
		return fmt.Errorf("%w: insert ledger entry", ErrInternal)
	}
	return nil
}

func (r *CreditRepository) userExists(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("%w: check user", ErrInternal)
	}
	return exists, nil
}
