package affiliate

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines purchase transaction data access
type Repository interface {
	Insert(ctx context.Context, tx *PurchaseTransaction) error
	ListAll(ctx context.Context, limit, offset int) ([]PurchaseTransaction, error)
	ListByAffiliate(ctx context.Context, affiliateCode string, limit, offset int) ([]PurchaseTransaction, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates purchase transaction repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, tx *PurchaseTransaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO purchase_transactions (id, user_id, charge_id, amount_paid, credits_purchased, affiliate_code, commission_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, tx.ID, tx.UserID, tx.ChargeID, tx.AmountPaid, tx.CreditsPurchased, tx.AffiliateCode, tx.CommissionAmount)
	if err != nil {
		return fmt.Errorf("affiliate repository insert: %w", err)
	}
	return nil
}

func (r *repository) ListAll(ctx context.Context, limit, offset int) ([]PurchaseTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	txs := make([]PurchaseTransaction, 0)
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, charge_id, amount_paid, credits_purchased, affiliate_code, commission_amount, created_at
		FROM purchase_transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("affiliate repository list: %w", err)
	}
	return txs, nil
}

func (r *repository) ListByAffiliate(ctx context.Context, affiliateCode string, limit, offset int) ([]PurchaseTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	txs := make([]PurchaseTransaction, 0)
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, charge_id, amount_paid, credits_purchased, affiliate_code, commission_amount, created_at
		FROM purchase_transactions
		WHERE affiliate_code = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, affiliateCode, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("affiliate repository list by affiliate: %w", err)
	}
	return txs, nil
}

func (r *repository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(amount_paid), 0) FROM purchase_transactions`)
	if err != nil {
		return 0, fmt.Errorf("affiliate repository total revenue: %w", err)
	}
	return total, nil
}
