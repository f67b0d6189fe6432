package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines charge data access
type Repository interface {
	Create(ctx context.Context, c *Charge) error
	GetByID(ctx context.Context, id string) (*Charge, error)
	MarkPaid(ctx context.Context, id string) (bool, error)
	MarkFailed(ctx context.Context, id, message string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Charge, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Charge) error {
	query := `
		INSERT INTO payments (id, user_id, method, amount_brl, credits, status, copy_paste_code, qr_code_url, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Method,
		c.AmountBRL,
		c.Credits,
		c.Status,
		c.CopyPasteCode,
		c.QRCodeURL,
		c.Message,
	)
	if err != nil {
		return fmt.Errorf("payment repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Charge, error) {
	var c Charge
	err := r.db.GetContext(ctx, &c, `
		SELECT id, user_id, method, amount_brl, credits, status, copy_paste_code, qr_code_url, message, paid_at, created_at
		FROM payments WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// MarkPaid flips a pending charge to paid. The conditional UPDATE is the
// exactly-once guard: only the caller that wins the transition may apply the
// paid side effects.
func (r *repository) MarkPaid(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'paid', paid_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, fmt.Errorf("payment repository mark paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) MarkFailed(ctx context.Context, id, message string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'failed', message = $2
		WHERE id = $1 AND status = 'pending'
	`, id, message)
	if err != nil {
		return fmt.Errorf("payment repository mark failed: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Charge, error) {
	if limit <= 0 {
		limit = 50
	}
	charges := make([]Charge, 0)
	err := r.db.SelectContext(ctx, &charges, `
		SELECT id, user_id, method, amount_brl, credits, status, copy_paste_code, qr_code_url, message, paid_at, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("payment repository list: %w", err)
	}
	return charges, nil
}
