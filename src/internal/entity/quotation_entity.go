package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationApproved QuotationStatus = "approved"
	QuotationRejected QuotationStatus = "rejected"
)

type Quotation struct {
	ID              string          `json:"id" db:"id"`
	BookingID       string          `json:"bookingId" db:"booking_id"`
	TechnicianID    string          `json:"technicianId" db:"technician_id"`
	AdditionalCost  decimal.Decimal `json:"additionalCost" db:"additional_cost"`
	SparePartsTotal decimal.Decimal `json:"sparePartsTotal" db:"spare_parts_total"`
	VATAmount       decimal.Decimal `json:"vatAmount" db:"vat_amount"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          QuotationStatus `json:"status" db:"status"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	DecidedBy       *string         `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt       *time.Time      `json:"decidedAt,omitempty" db:"decided_at"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`

	LineItems []QuotationLineItem `json:"lineItems" db:"-"`
}

type QuotationLineItem struct {
	ID          string          `json:"id" db:"id"`
	QuotationID string          `json:"quotationId" db:"quotation_id"`
	SparePartID string          `json:"sparePartId" db:"spare_part_id"`
	Name        string          `json:"name" db:"name"`
	Quantity    int64           `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal   decimal.Decimal `json:"lineTotal" db:"line_total"`
}
