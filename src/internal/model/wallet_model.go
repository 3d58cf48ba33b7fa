package model

import (
	"settlement-service/src/internal/entity"

	"github.com/shopspring/decimal"
)

type WalletMutationRequest struct {
	Actor     Actor           `json:"-"`
	UserID    string          `json:"-" validate:"required,max=64"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason" validate:"required,notblank,max=255"`
	BookingID *string         `json:"bookingId" validate:"omitempty,max=64"`
}

type GetWalletRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	Limit  int    `json:"limit" validate:"min=0,max=500"`
}

type RefundPaymentRequest struct {
	Actor     Actor  `json:"-"`
	BookingID string `json:"-" validate:"required,max=64"`
	PaymentID string `json:"paymentId" validate:"required,max=64"`
	Reason    string `json:"reason" validate:"required,notblank,max=255"`
}

type WalletResponse struct {
	Wallet       entity.WalletAccount       `json:"wallet"`
	Transactions []entity.WalletTransaction `json:"transactions"`
}

type WalletMutationResponse struct {
	Wallet      entity.WalletAccount     `json:"wallet"`
	Transaction entity.WalletTransaction `json:"transaction"`
}

type RefundResponse struct {
	Booking     BookingResponse          `json:"booking"`
	Payment     entity.Payment           `json:"payment"`
	Wallet      entity.WalletAccount     `json:"wallet"`
	Transaction entity.WalletTransaction `json:"transaction"`
}

type ReconcileResponse struct {
	UserID       string          `json:"userId"`
	Balance      decimal.Decimal `json:"balance"`
	TotalEarned  decimal.Decimal `json:"totalEarned"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	LedgerCredit decimal.Decimal `json:"ledgerCredits"`
	LedgerDebit  decimal.Decimal `json:"ledgerDebits"`
	Consistent   bool            `json:"consistent"`
}
