package entity

import (
	"time"

	"settlement-service/src/internal/lifecycle"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID                 string           `json:"id" db:"id"`
	CustomerID         string           `json:"customerId" db:"customer_id"`
	ServiceID          string           `json:"serviceId" db:"service_id"`
	TechnicianID       *string          `json:"technicianId" db:"technician_id"`
	ScheduledDate      string           `json:"scheduledDate" db:"scheduled_date"`
	ScheduledTime      string           `json:"scheduledTime" db:"scheduled_time"`
	Status             lifecycle.Status `json:"status" db:"status"`
	TotalAmount        decimal.Decimal  `json:"totalAmount" db:"total_amount"`
	PaymentID          *string          `json:"paymentId" db:"payment_id"`
	Notes              *string          `json:"notes,omitempty" db:"notes"`
	CancellationReason *string          `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	Version            int64            `json:"version" db:"version"`
	CreatedAt          time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time        `json:"updatedAt" db:"updated_at"`
}

// TechnicianValue returns the assigned technician or "".
func (b *Booking) TechnicianValue() string {
	if b.TechnicianID == nil {
		return ""
	}
	return *b.TechnicianID
}
