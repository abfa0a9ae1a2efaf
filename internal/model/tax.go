package model

import "github.com/shopspring/decimal"

// Tax is one applicable trade tax: either a document-level breakdown entry or
// a line item's single applicable tax.
type Tax struct {
	// Basis is the taxable amount this entry applies to
	Basis decimal.Decimal
	// Percent is the rate, e.g. 19 for 19%
	Percent decimal.Decimal
	// Amount is the calculated tax. Nil means the source omitted it and the
	// reconciler may derive basis * percent / 100.
	Amount *decimal.Decimal

	// TypeCode is the UNTDID 5153 duty/tax type, almost always "VAT"
	TypeCode string
	// CategoryCode is the UNTDID 5305 category ("S", "Z", "E", "AE", ...)
	CategoryCode string

	ExemptionReason     string
	ExemptionReasonCode string

	// AllowanceChargeBasisAmount carries the allowance/charge sum already
	// excluded from Basis, when the source keeps them separate.
	AllowanceChargeBasisAmount *decimal.Decimal
}

// AllowanceCharge is a document- or line-level allowance (discount) or charge.
type AllowanceCharge struct {
	// ChargeIndicator: true = charge, false = allowance
	ChargeIndicator bool
	Currency        string
	BasisAmount     *decimal.Decimal
	ActualAmount    decimal.Decimal
	Percent         *decimal.Decimal
	Reason          string
	ReasonCode      string
	Tax             Tax
}

// ServiceCharge is a logistics service charge (Extended profile)
type ServiceCharge struct {
	Description string
	Amount      decimal.Decimal
	Taxes       []Tax
}
