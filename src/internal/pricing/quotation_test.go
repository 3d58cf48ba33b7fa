package pricing

import (
	"errors"
	"testing"

	httpError "settlement-service/src/pkg/http-error"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeExample(t *testing.T) {
	calc, err := NewCalculator(DefaultVATRate)
	require.NoError(t, err)

	got, err := calc.Compute(d("100"), []LineItem{{SparePartID: "sp-1", Quantity: 2, UnitPrice: d("25")}})
	require.NoError(t, err)

	assert.True(t, got.SparePartsTotal.Equal(d("50")), got.SparePartsTotal.String())
	assert.True(t, got.Subtotal.Equal(d("150")))
	assert.Equal(t, "22.50", got.VATAmount.StringFixed(2))
	assert.Equal(t, "172.50", got.TotalAmount.StringFixed(2))
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].Total.Equal(d("50")))
}

func TestComputeArithmeticInvariant(t *testing.T) {
	calc := Calculator{VATRate: DefaultVATRate}
	inputs := []struct {
		additional string
		items      []LineItem
	}{
		{"0", nil},
		{"0.01", nil},
		{"33.33", []LineItem{{Quantity: 3, UnitPrice: d("0.07")}}},
		{"199.99", []LineItem{{Quantity: 1, UnitPrice: d("10.05")}, {Quantity: 7, UnitPrice: d("3.33")}}},
		{"12.5", []LineItem{{Quantity: 4, UnitPrice: d("0")}}},
	}
	for _, in := range inputs {
		got, err := calc.Compute(d(in.additional), in.items)
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(got.AdditionalCost.Add(got.SparePartsTotal).Add(got.VATAmount)))
		assert.True(t, got.VATAmount.Equal(got.AdditionalCost.Add(got.SparePartsTotal).Mul(DefaultVATRate).Round(2)))
		assert.LessOrEqual(t, -got.VATAmount.Exponent(), int32(2))
	}
}

func TestRoundCurrencyHalfUp(t *testing.T) {
	assert.Equal(t, "0.01", RoundCurrency(d("0.005")).StringFixed(2))
	assert.Equal(t, "2.68", RoundCurrency(d("2.675")).StringFixed(2))
	assert.Equal(t, "1.00", RoundCurrency(d("0.9951")).StringFixed(2))
	assert.Equal(t, "0.00", RoundCurrency(d("0.004")).StringFixed(2))
}

func TestComputeIsIdempotent(t *testing.T) {
	calc := Calculator{VATRate: DefaultVATRate}
	items := []LineItem{{SparePartID: "sp-9", Quantity: 3, UnitPrice: d("19.99")}}

	a, err := calc.Compute(d("45.10"), items)
	require.NoError(t, err)
	b, err := calc.Compute(d("45.10"), items)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a.TotalAmount.String(), b.TotalAmount.String())
}

func TestComputeValidation(t *testing.T) {
	calc := Calculator{VATRate: DefaultVATRate}

	_, err := calc.Compute(d("-1"), nil)
	assert.True(t, errors.Is(err, httpError.ErrValidation))

	_, err = calc.Compute(d("10"), []LineItem{{Quantity: 0, UnitPrice: d("1")}})
	assert.True(t, errors.Is(err, httpError.ErrValidation))

	_, err = calc.Compute(d("10"), []LineItem{{Quantity: -2, UnitPrice: d("1")}})
	assert.True(t, errors.Is(err, httpError.ErrValidation))

	_, err = calc.Compute(d("10"), []LineItem{{Quantity: 1, UnitPrice: d("-0.01")}})
	assert.True(t, errors.Is(err, httpError.ErrValidation))
}

func TestComputeRejectsSubCentInputs(t *testing.T) {
	calc := Calculator{VATRate: DefaultVATRate}

	_, err := calc.Compute(d("10.005"), []LineItem{{Quantity: 1, UnitPrice: d("0.12")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpError.ErrValidation))
	assert.Contains(t, err.Error(), "additionalCost")

	_, err = calc.Compute(d("10"), []LineItem{{Quantity: 1, UnitPrice: d("1")}, {Quantity: 1, UnitPrice: d("0.125")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpError.ErrValidation))
	assert.Contains(t, err.Error(), "spareParts[1].unitPrice")

	// trailing zeros are fine
	got, err := calc.Compute(d("10.500"), []LineItem{{Quantity: 3, UnitPrice: d("0.1000")}})
	require.NoError(t, err)
	assert.Equal(t, "10.80", got.Subtotal.StringFixed(2))
}

func TestComputeTotalsSurviveCurrencyColumns(t *testing.T) {
	calc := Calculator{VATRate: DefaultVATRate}
	got, err := calc.Compute(d("10.01"), []LineItem{{Quantity: 7, UnitPrice: d("0.13")}, {Quantity: 2, UnitPrice: d("19.99")}})
	require.NoError(t, err)

	for _, v := range []decimal.Decimal{got.AdditionalCost, got.SparePartsTotal, got.VATAmount, got.TotalAmount} {
		assert.True(t, IsCurrency(v), v.String())
	}
	stored := got.AdditionalCost.Round(2).Add(got.SparePartsTotal.Round(2)).Add(got.VATAmount.Round(2))
	assert.True(t, stored.Equal(got.TotalAmount.Round(2)))
}

func TestNewCalculatorRejectsBadRate(t *testing.T) {
	_, err := NewCalculator(d("-0.1"))
	assert.Error(t, err)
	_, err = NewCalculator(d("1"))
	assert.Error(t, err)
}
