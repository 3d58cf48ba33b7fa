package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodWallet  PaymentMethod = "wallet"
	PaymentMethodMoyasar PaymentMethod = "moyasar"
	PaymentMethodTabby   PaymentMethod = "tabby"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Payment struct {
	ID                   string          `json:"id" db:"id"`
	BookingID            string          `json:"bookingId" db:"booking_id"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	Method               PaymentMethod   `json:"method" db:"method"`
	Status               PaymentStatus   `json:"status" db:"status"`
	GatewayTransactionID *string         `json:"gatewayTransactionId" db:"gateway_transaction_id"`
	RefundTransactionID  *string         `json:"refundTransactionId,omitempty" db:"refund_transaction_id"`
	RefundedAt           *time.Time      `json:"refundedAt,omitempty" db:"refunded_at"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}
