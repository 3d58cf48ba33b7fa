package model

import (
	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/pricing"

	"github.com/shopspring/decimal"
)

// SparePartRequest is one typed line item as sent by the admin screen.
type SparePartRequest struct {
	SparePartID string          `json:"sparePartId" validate:"required,max=64"`
	Name        string          `json:"name" validate:"max=255"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type CreateQuotationRequest struct {
	Actor          Actor              `json:"-"`
	BookingID      string             `json:"bookingId" validate:"required,max=64"`
	TechnicianID   string             `json:"technicianId" validate:"required,max=64"`
	AdditionalCost decimal.Decimal    `json:"additionalCost"`
	SpareParts     []SparePartRequest `json:"spareParts" validate:"max=100,dive"`
	Notes          *string            `json:"notes" validate:"omitempty,max=1000"`
}

type DecideQuotationRequest struct {
	Actor       Actor  `json:"-"`
	QuotationID string `json:"-" validate:"required,max=64"`
	Status      string `json:"status" validate:"required,oneof=approved rejected"`
	// Final asks approval to complete the booking. Only read when the
	// approval policy is "caller".
	Final bool `json:"final"`
}

type GetQuotationRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type QuotationResponse struct {
	Quotation entity.Quotation   `json:"quotation"`
	Breakdown *pricing.Breakdown `json:"breakdown,omitempty"`
	Booking   *BookingResponse   `json:"booking,omitempty"`
}
