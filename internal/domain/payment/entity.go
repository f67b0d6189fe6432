package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents charge status
type Status string

const (
	StatusPending       Status = "pending"
	StatusPaid          Status = "paid"
	StatusFailed        Status = "failed"
	StatusNotConfigured Status = "not_configured"
)

// Method represents the payment method
type Method string

const (
	MethodPix  Method = "pix"
	MethodCard Method = "card"
)

// NotConfiguredID is the sentinel charge id returned when no merchant PIX
// key is configured. Such charges are terminal and never persisted.
const NotConfiguredID = "not-configured"

// Charge represents a credit purchase attempt. The id is a uuid string for
// real charges and the sentinel for the not-configured case.
type Charge struct {
	ID            string       `db:"id" json:"id"`
	UserID        uuid.UUID    `db:"user_id" json:"user_id"`
	Method        Method       `db:"method" json:"method"`
	AmountBRL     float64      `db:"amount_brl" json:"amount_brl"`
	Credits       int          `db:"credits" json:"credits"`
	Status        Status       `db:"status" json:"status"`
	CopyPasteCode string       `db:"copy_paste_code" json:"copy_paste_code,omitempty"`
	QRCodeURL     string       `db:"qr_code_url" json:"qr_code_url,omitempty"`
	Message       string       `db:"message" json:"message,omitempty"`
	PaidAt        sql.NullTime `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// Terminal reports whether the charge can no longer change state.
func (c *Charge) Terminal() bool {
	return c.Status == StatusPaid || c.Status == StatusFailed || c.Status == StatusNotConfigured
}

// Package is a purchasable credit bundle.
type Package struct {
	Credits  int     `json:"credits"`
	PriceBRL float64 `json:"price_brl"`
}

// Packages is the fixed credit catalog.
var Packages = []Package{
	{Credits: 10, PriceBRL: 10.00},
	{Credits: 50, PriceBRL: 45.00},
	{Credits: 100, PriceBRL: 80.00},
}

// PackageByCredits resolves a catalog entry, false when the size is not sold.
func PackageByCredits(credits int) (Package, bool) {
	for _, p := range Packages {
		if p.Credits == credits {
			return p, true
		}
	}
	return Package{}, false
}
