// Package calc is the shared numeric logic behind the writers and readers:
// deriving line totals, aggregating taxes per category, filling totals the
// source omitted, and checking stated against computed values. All public
// totals are expressed to exactly two decimal places; intermediate per-unit
// math keeps full precision.
package calc

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/model"
)

// Zero is decimal zero
var Zero = decimal.Zero

// DefaultTolerance is the acceptable gap between a stated total and the value
// recomputed from detail. Real-world documents are known to diverge by a cent
// and must still load; the originating standards mandate no specific value,
// so it stays configurable.
var DefaultTolerance = decimal.New(1, -2) // 0.01

// Options configures a reconciliation run
type Options struct {
	Tolerance decimal.Decimal
}

// DefaultOptions returns the default reconciliation options
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// Round2 rounds to the two decimal places every public total carries
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TaxAmount computes basis * percent / 100 rounded to two decimals
func TaxAmount(basis, percent decimal.Decimal) decimal.Decimal {
	return basis.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// LineTotals returns the rounded net amount per line and their sum
func LineTotals(lines []*model.TradeLineItem) (perLine []decimal.Decimal, total decimal.Decimal) {
	perLine = make([]decimal.Decimal, len(lines))
	for i, li := range lines {
		perLine[i] = Round2(li.NetAmount())
		total = total.Add(perLine[i])
	}
	return perLine, total
}

// AggregateTaxes builds the document-level tax breakdown from line detail and
// document-level allowances/charges, grouped by (type, category, percent).
// Order follows first appearance.
func AggregateTaxes(inv *model.Invoice) []model.Tax {
	type key struct {
		typeCode, categoryCode, percent string
	}
	index := map[key]int{}
	var out []model.Tax

	add := func(t model.Tax, basis decimal.Decimal) {
		k := key{t.TypeCode, t.CategoryCode, t.Percent.String()}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, model.Tax{
				TypeCode:            t.TypeCode,
				CategoryCode:        t.CategoryCode,
				Percent:             t.Percent,
				ExemptionReason:     t.ExemptionReason,
				ExemptionReasonCode: t.ExemptionReasonCode,
			})
			i = len(out) - 1
		}
		out[i].Basis = out[i].Basis.Add(basis)
	}

	for _, li := range inv.Lines {
		add(li.Tax, Round2(li.NetAmount()))
	}
	for _, ac := range inv.AllowanceCharges {
		amount := ac.ActualAmount
		if !ac.ChargeIndicator {
			amount = amount.Neg()
		}
		add(ac.Tax, amount)
	}

	for i := range out {
		out[i].Basis = Round2(out[i].Basis)
		amount := TaxAmount(out[i].Basis, out[i].Percent)
		out[i].Amount = &amount
	}
	return out
}

// Reconcile fills every derivable field the document omitted and returns
// advisory warnings for stated values that disagree with the computed ones
// beyond the tolerance. It never fails: inconsistent documents still load.
func Reconcile(inv *model.Invoice, opts Options) []model.ReconciliationWarning {
	if opts.Tolerance.IsZero() {
		opts.Tolerance = DefaultTolerance
	}
	var warnings []model.ReconciliationWarning

	check := func(field string, stated *decimal.Decimal, computed decimal.Decimal) {
		if stated == nil {
			return
		}
		if stated.Sub(computed).Abs().GreaterThan(opts.Tolerance) {
			warnings = append(warnings, model.ReconciliationWarning{
				Field:    field,
				Stated:   stated.StringFixed(2),
				Computed: computed.StringFixed(2),
			})
		}
	}

	// a document without a stated tax breakdown gets one derived from its
	// line and allowance/charge detail
	if len(inv.Taxes) == 0 && len(inv.Lines) > 0 {
		inv.Taxes = AggregateTaxes(inv)
	}

	// per-entry tax amounts: trust, but backfill and check
	for i := range inv.Taxes {
		computed := TaxAmount(inv.Taxes[i].Basis, inv.Taxes[i].Percent)
		if inv.Taxes[i].Amount == nil {
			inv.Taxes[i].Amount = &computed
		} else {
			check("tax amount", inv.Taxes[i].Amount, computed)
		}
	}

	totals := &inv.Totals

	if len(inv.Lines) > 0 {
		_, lineTotal := LineTotals(inv.Lines)
		if totals.LineTotal == nil {
			totals.LineTotal = model.D(Round2(lineTotal))
		} else {
			check("line total", totals.LineTotal, Round2(lineTotal))
		}
	}

	var charges, allowances decimal.Decimal
	for _, ac := range inv.AllowanceCharges {
		if ac.ChargeIndicator {
			charges = charges.Add(ac.ActualAmount)
		} else {
			allowances = allowances.Add(ac.ActualAmount)
		}
	}
	for _, sc := range inv.ServiceCharges {
		charges = charges.Add(sc.Amount)
	}
	if len(inv.AllowanceCharges) > 0 || len(inv.ServiceCharges) > 0 {
		if totals.ChargeTotal == nil {
			totals.ChargeTotal = model.D(Round2(charges))
		}
		if totals.AllowanceTotal == nil {
			totals.AllowanceTotal = model.D(Round2(allowances))
		}
	}

	if totals.TaxBasis == nil && totals.LineTotal != nil {
		basis := *totals.LineTotal
		if totals.ChargeTotal != nil {
			basis = basis.Add(*totals.ChargeTotal)
		}
		if totals.AllowanceTotal != nil {
			basis = basis.Sub(*totals.AllowanceTotal)
		}
		totals.TaxBasis = model.D(Round2(basis))
	}

	var taxTotal decimal.Decimal
	for _, t := range inv.Taxes {
		if t.Amount != nil {
			taxTotal = taxTotal.Add(*t.Amount)
		}
	}
	if len(inv.Taxes) > 0 {
		if totals.TaxTotal == nil {
			totals.TaxTotal = model.D(Round2(taxTotal))
		} else {
			check("tax total", totals.TaxTotal, Round2(taxTotal))
		}
	}

	if totals.TaxBasis != nil && totals.TaxTotal != nil {
		grand := totals.TaxBasis.Add(*totals.TaxTotal)
		if totals.Rounding != nil {
			grand = grand.Add(*totals.Rounding)
		}
		if totals.GrandTotal == nil {
			totals.GrandTotal = model.D(Round2(grand))
		} else {
			check("grand total", totals.GrandTotal, Round2(grand))
		}
	}

	if totals.GrandTotal != nil {
		due := *totals.GrandTotal
		if totals.Prepaid != nil {
			due = due.Sub(*totals.Prepaid)
		}
		if totals.DuePayable == nil {
			totals.DuePayable = model.D(Round2(due))
		} else if totals.Prepaid != nil {
			check("due payable", totals.DuePayable, Round2(due))
		}
	}

	return warnings
}

// FormatAmount renders a monetary amount with exactly two decimal digits
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatQuantity renders a quantity with up to four decimal digits, trailing
// zeros trimmed down to a whole-number minimum.
func FormatQuantity(d decimal.Decimal) string {
	s := d.Round(4).String()
	return s
}

// FormatPercent renders a rate with exactly two decimal digits
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2)
}
