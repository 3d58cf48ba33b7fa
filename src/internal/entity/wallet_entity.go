package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletAccount struct {
	UserID      string          `json:"userId" db:"user_id"`
	Balance     decimal.Decimal `json:"balance" db:"balance"`
	TotalEarned decimal.Decimal `json:"totalEarned" db:"total_earned"`
	TotalSpent  decimal.Decimal `json:"totalSpent" db:"total_spent"`
	Version     int64           `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Reconciled reports balance == totalEarned - totalSpent.
func (w *WalletAccount) Reconciled() bool {
	return w.Balance.Equal(w.TotalEarned.Sub(w.TotalSpent))
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type WalletTransaction struct {
	ID               string          `json:"id" db:"id"`
	UserID           string          `json:"userId" db:"user_id"`
	Type             TransactionType `json:"type" db:"type"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Reason           string          `json:"reason" db:"reason"`
	RelatedBookingID *string         `json:"relatedBookingId" db:"related_booking_id"`
	BalanceAfter     decimal.Decimal `json:"balanceAfter" db:"balance_after"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}

// WalletTotals is the ledger side of the reconciliation check.
type WalletTotals struct {
	Credits decimal.Decimal `db:"credits"`
	Debits  decimal.Decimal `db:"debits"`
}
