package calc_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTaxAmount(t *testing.T) {
	// basis 198.00 at 19% -> 37.62
	got := calc.TaxAmount(d("198.00"), d("19"))
	assert.True(t, got.Equal(d("37.62")), "expected 37.62, got %s", got)
}

func TestTaxAmount_Rounding(t *testing.T) {
	got := calc.TaxAmount(d("33.33"), d("19"))
	assert.True(t, got.Equal(d("6.33")), "expected 6.33, got %s", got)
}

func TestFormatAmount_TwoDecimals(t *testing.T) {
	assert.Equal(t, "198.00", calc.FormatAmount(d("198")))
	assert.Equal(t, "37.62", calc.FormatAmount(d("37.624")))
}

func TestFormatQuantity_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "10", calc.FormatQuantity(d("10.0000")))
	assert.Equal(t, "2.5", calc.FormatQuantity(d("2.5000")))
	assert.Equal(t, "0.1235", calc.FormatQuantity(d("0.12345")))
}

func twoLineInvoice() *model.Invoice {
	inv := model.NewInvoice()
	inv.AddTradeLineItem(&model.TradeLineItem{
		Name:           "Trennblätter A4",
		BilledQuantity: model.Quantity{Amount: d("20"), Unit: model.UnitPiece},
		NetPrice:       model.Price{Amount: d("9.90")},
		Tax:            model.Tax{TypeCode: "VAT", CategoryCode: model.TaxCategoryStandard, Percent: d("19")},
	})
	inv.AddTradeLineItem(&model.TradeLineItem{
		Name:           "Joghurt Banane",
		BilledQuantity: model.Quantity{Amount: d("50"), Unit: model.UnitPiece},
		NetPrice:       model.Price{Amount: d("5.50")},
		Tax:            model.Tax{TypeCode: "VAT", CategoryCode: model.TaxCategoryStandard, Percent: d("7")},
	})
	return inv
}

func TestAggregateTaxes_GroupsByCategoryAndRate(t *testing.T) {
	inv := twoLineInvoice()

	taxes := calc.AggregateTaxes(inv)
	require.Len(t, taxes, 2)

	assert.True(t, taxes[0].Basis.Equal(d("198.00")))
	require.NotNil(t, taxes[0].Amount)
	assert.True(t, taxes[0].Amount.Equal(d("37.62")))

	assert.True(t, taxes[1].Basis.Equal(d("275.00")))
	require.NotNil(t, taxes[1].Amount)
	assert.True(t, taxes[1].Amount.Equal(d("19.25")))
}

func TestAggregateTaxes_DocumentAllowanceReducesBasis(t *testing.T) {
	inv := twoLineInvoice()
	inv.AddAllowanceCharge(model.AllowanceCharge{
		ChargeIndicator: false,
		ActualAmount:    d("10.00"),
		Reason:          "Rabatt",
		Tax:             model.Tax{TypeCode: "VAT", CategoryCode: model.TaxCategoryStandard, Percent: d("19")},
	})

	taxes := calc.AggregateTaxes(inv)
	require.Len(t, taxes, 2)
	assert.True(t, taxes[0].Basis.Equal(d("188.00")), "got %s", taxes[0].Basis)
}

func TestReconcile_FillsDerivableTotals(t *testing.T) {
	inv := twoLineInvoice()
	inv.Taxes = calc.AggregateTaxes(inv)

	warnings := calc.Reconcile(inv, calc.DefaultOptions())
	require.Empty(t, warnings)

	require.NotNil(t, inv.Totals.LineTotal)
	assert.True(t, inv.Totals.LineTotal.Equal(d("473.00")))
	require.NotNil(t, inv.Totals.TaxBasis)
	assert.True(t, inv.Totals.TaxBasis.Equal(d("473.00")))
	require.NotNil(t, inv.Totals.TaxTotal)
	assert.True(t, inv.Totals.TaxTotal.Equal(d("56.87")))
	require.NotNil(t, inv.Totals.GrandTotal)
	assert.True(t, inv.Totals.GrandTotal.Equal(d("529.87")))
	require.NotNil(t, inv.Totals.DuePayable)
	assert.True(t, inv.Totals.DuePayable.Equal(d("529.87")))
}

func TestReconcile_BackfillsTaxAmount(t *testing.T) {
	inv := model.NewInvoice()
	inv.AddTax(model.Tax{
		Basis:        d("198.00"),
		Percent:      d("19"),
		TypeCode:     "VAT",
		CategoryCode: model.TaxCategoryStandard,
	})

	calc.Reconcile(inv, calc.DefaultOptions())

	require.NotNil(t, inv.Taxes[0].Amount)
	assert.True(t, inv.Taxes[0].Amount.Equal(d("37.62")))
}

func TestReconcile_GrandTotalIncludesRounding(t *testing.T) {
	inv := model.NewInvoice()
	inv.Totals.TaxBasis = model.D(d("100.00"))
	inv.Totals.TaxTotal = model.D(d("19.00"))
	inv.Totals.Rounding = model.D(d("0.01"))

	calc.Reconcile(inv, calc.DefaultOptions())

	require.NotNil(t, inv.Totals.GrandTotal)
	assert.True(t, inv.Totals.GrandTotal.Equal(d("119.01")))
}

func TestReconcile_PrepaidReducesDuePayable(t *testing.T) {
	inv := model.NewInvoice()
	inv.Totals.TaxBasis = model.D(d("100.00"))
	inv.Totals.TaxTotal = model.D(d("19.00"))
	inv.Totals.Prepaid = model.D(d("50.00"))

	calc.Reconcile(inv, calc.DefaultOptions())

	require.NotNil(t, inv.Totals.DuePayable)
	assert.True(t, inv.Totals.DuePayable.Equal(d("69.00")))
}

func TestReconcile_MismatchIsWarningNotError(t *testing.T) {
	inv := twoLineInvoice()
	inv.Taxes = calc.AggregateTaxes(inv)
	inv.Totals.TaxTotal = model.D(d("60.00")) // stated, off by 3.13

	warnings := calc.Reconcile(inv, calc.DefaultOptions())

	require.Len(t, warnings, 1)
	assert.Equal(t, "tax total", warnings[0].Field)
	assert.Equal(t, "60.00", warnings[0].Stated)
	assert.Equal(t, "56.87", warnings[0].Computed)
}

func TestReconcile_WithinToleranceIsClean(t *testing.T) {
	inv := twoLineInvoice()
	inv.Taxes = calc.AggregateTaxes(inv)
	inv.Totals.TaxTotal = model.D(d("56.88")) // one cent off

	warnings := calc.Reconcile(inv, calc.DefaultOptions())
	assert.Empty(t, warnings)
}

func TestReconcile_CustomTolerance(t *testing.T) {
	inv := twoLineInvoice()
	inv.Taxes = calc.AggregateTaxes(inv)
	inv.Totals.TaxTotal = model.D(d("56.37")) // half a euro off

	warnings := calc.Reconcile(inv, calc.Options{Tolerance: d("1.00")})
	assert.Empty(t, warnings)
}

func TestReconcile_TrustedStatedTotalsKept(t *testing.T) {
	// stated totals within tolerance are kept verbatim, not overwritten
	inv := twoLineInvoice()
	inv.Taxes = calc.AggregateTaxes(inv)
	inv.Totals.LineTotal = model.D(d("473.01"))

	calc.Reconcile(inv, calc.DefaultOptions())
	assert.True(t, inv.Totals.LineTotal.Equal(d("473.01")))
}
