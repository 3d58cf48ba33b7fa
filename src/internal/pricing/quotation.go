// Package pricing computes quotation totals.
package pricing

import (
	"fmt"

	httpError "settlement-service/src/pkg/http-error"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the configured 15% VAT.
var DefaultVATRate = decimal.RequireFromString("0.15")

// LineItem is one spare part on a quotation.
type LineItem struct {
	SparePartID string
	Name        string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// LineTotal is quantity x unit price for one item.
type LineTotal struct {
	SparePartID string          `json:"sparePartId"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type Breakdown struct {
	AdditionalCost  decimal.Decimal `json:"additionalCost"`
	SparePartsTotal decimal.Decimal `json:"sparePartsTotal"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	VATRate         decimal.Decimal `json:"vatRate"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Lines           []LineTotal     `json:"lines"`
}

type Calculator struct {
	VATRate decimal.Decimal
}

func NewCalculator(vatRate decimal.Decimal) (Calculator, error) {
	if vatRate.IsNegative() || vatRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Calculator{}, fmt.Errorf("vat rate must be in [0, 1), got %s", vatRate)
	}
	return Calculator{VATRate: vatRate}, nil
}

// Compute is pure: the same inputs always give the same breakdown.
func (c Calculator) Compute(additionalCost decimal.Decimal, items []LineItem) (Breakdown, error) {
	if additionalCost.IsNegative() {
		return Breakdown{}, httpError.NewValidationError("additionalCost must not be negative")
	}
	if !IsCurrency(additionalCost) {
		return Breakdown{}, httpError.NewValidationError("additionalCost must have at most 2 decimal places")
	}

	spare := decimal.Zero
	lines := make([]LineTotal, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return Breakdown{}, httpError.NewValidationError(fmt.Sprintf("spareParts[%d].quantity must be a positive integer", i))
		}
		if item.UnitPrice.IsNegative() {
			return Breakdown{}, httpError.NewValidationError(fmt.Sprintf("spareParts[%d].unitPrice must not be negative", i))
		}
		if !IsCurrency(item.UnitPrice) {
			return Breakdown{}, httpError.NewValidationError(fmt.Sprintf("spareParts[%d].unitPrice must have at most 2 decimal places", i))
		}
		total := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		spare = spare.Add(total)
		lines = append(lines, LineTotal{
			SparePartID: item.SparePartID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       total,
		})
	}

	subtotal := additionalCost.Add(spare)
	vat := RoundCurrency(subtotal.Mul(c.VATRate))

	return Breakdown{
		AdditionalCost:  additionalCost,
		SparePartsTotal: spare,
		Subtotal:        subtotal,
		VATRate:         c.VATRate,
		VATAmount:       vat,
		TotalAmount:     subtotal.Add(vat),
		Lines:           lines,
	}, nil
}

// RoundCurrency rounds half-up (away from zero) to 2 decimal places.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsCurrency reports whether d fits a 2 decimal place money column unchanged.
func IsCurrency(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
