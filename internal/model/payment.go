package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDiscount is a structured early-payment (Skonto) record
type PaymentDiscount struct {
	DueDays      int
	Percent      decimal.Decimal
	BasisAmount  *decimal.Decimal
	ActualAmount *decimal.Decimal
}

// PaymentTerms is one payment-term entry: free text, an optional due date,
// and an optional structured discount record.
type PaymentTerms struct {
	Description string
	DueDate     *time.Time
	Discount    *PaymentDiscount
}

// PaymentCard carries card payment details. The standards require the primary
// account number to be truncated; callers pass it pre-masked.
type PaymentCard struct {
	ID         string
	HolderName string
}

// PaymentMeans is the tagged payment-instruction variant: bank transfer,
// SEPA direct debit, or card, discriminated by TypeCode.
type PaymentMeans struct {
	// TypeCode is the UNTDID 4461 means code ("30", "58", "59", "48", ...)
	TypeCode    string
	Information string

	// SEPA fields, meaningful for direct debit (TypeCode "59")
	SEPACreditorID       string
	SEPAMandateReference string

	Card *PaymentCard
}

// IsDirectDebit reports whether the means is a (SEPA) direct debit
func (m *PaymentMeans) IsDirectDebit() bool {
	return m != nil && (m.TypeCode == PaymentMeansSEPADebit || m.TypeCode == PaymentMeansDirectDebit)
}

// BankAccount is a creditor or debitor financial account
type BankAccount struct {
	IBAN        string
	BIC         string
	AccountName string
	BankName    string
	// ID is the proprietary (non-IBAN) account number, pre-SEPA documents
	ID string
}
