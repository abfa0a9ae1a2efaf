// Package model holds the in-memory invoice document graph. It carries no
// format knowledge; the codec packages decide what of it reaches the wire.
package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Note is a free-text invoice note with optional UNTDID qualifiers
type Note struct {
	Text        string
	SubjectCode string // UNTDID 4451
	ContentCode string
}

// Totals is the document-level monetary block. Every field is independently
// nullable because the profiles disagree on which are mandatory.
type Totals struct {
	LineTotal      *decimal.Decimal
	ChargeTotal    *decimal.Decimal
	AllowanceTotal *decimal.Decimal
	TaxBasis       *decimal.Decimal
	TaxTotal       *decimal.Decimal
	GrandTotal     *decimal.Decimal
	Prepaid        *decimal.Decimal
	DuePayable     *decimal.Decimal
	Rounding       *decimal.Decimal
}

// Invoice is the root aggregate. It owns every nested entity exclusively;
// loading a document always yields a fresh, fully-owned graph.
type Invoice struct {
	Number   string
	TypeCode string // UNTDID 1001, "380" for a commercial invoice
	Currency string

	IssueDate    *time.Time
	DeliveryDate *time.Time

	// BillingPeriodStart/End cover the whole document; lines may carry their own
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time

	Format  Format
	Profile Profile
	Version Version
	IsTest  bool

	// BusinessProcess is the BT-23 business process context, when stated
	BusinessProcess string

	// BuyerReference is the buyer's routing reference (mandatory in XRechnung)
	BuyerReference string

	Notes []Note

	Seller *Party
	Buyer  *Party

	Invoicee       *Party
	Payee          *Party
	ShipTo         *Party
	ShipFrom       *Party
	UltimateShipTo *Party

	Lines []*TradeLineItem
	Taxes []Tax

	AllowanceCharges []AllowanceCharge
	ServiceCharges   []ServiceCharge

	PaymentTerms []*PaymentTerms
	PaymentMeans *PaymentMeans

	CreditorAccounts []BankAccount
	DebitorAccounts  []BankAccount

	References []ReferencedDocument

	Totals Totals

	// Warnings is filled by totals reconciliation after a load; it never
	// blocks the load itself.
	Warnings []ReconciliationWarning
}

// NewInvoice returns an invoice with the common defaults: a normal commercial
// invoice in EUR.
func NewInvoice() *Invoice {
	return &Invoice{
		TypeCode: TypeCodeInvoice,
		Currency: "EUR",
		Seller:   &Party{},
		Buyer:    &Party{},
	}
}

// AddTradeLineItem appends a line. An empty LineID is replaced by the next
// sequential integer string ("1", "2", ...) in insertion order; explicit IDs
// are kept verbatim.
func (inv *Invoice) AddTradeLineItem(item *TradeLineItem) *TradeLineItem {
	if item.LineID == "" {
		item.LineID = inv.nextLineID()
	}
	inv.Lines = append(inv.Lines, item)
	return item
}

func (inv *Invoice) nextLineID() string {
	next := 1
	for {
		id := strconv.Itoa(next)
		if inv.LineByID(id) == nil {
			return id
		}
		next++
	}
}

// LineByID returns the line with the given ID, or nil
func (inv *Invoice) LineByID(id string) *TradeLineItem {
	for _, li := range inv.Lines {
		if li.LineID == id {
			return li
		}
	}
	return nil
}

// AddNote appends a free-text note
func (inv *Invoice) AddNote(text, subjectCode string) {
	inv.Notes = append(inv.Notes, Note{Text: text, SubjectCode: subjectCode})
}

// AddTax appends a document-level tax breakdown entry
func (inv *Invoice) AddTax(tax Tax) {
	inv.Taxes = append(inv.Taxes, tax)
}

// AddAllowanceCharge appends a document-level allowance or charge
func (inv *Invoice) AddAllowanceCharge(ac AllowanceCharge) {
	inv.AllowanceCharges = append(inv.AllowanceCharges, ac)
}

// AddPaymentTerms appends a payment-term entry
func (inv *Invoice) AddPaymentTerms(pt *PaymentTerms) {
	inv.PaymentTerms = append(inv.PaymentTerms, pt)
}

// AddReference appends a referenced document
func (inv *Invoice) AddReference(doc ReferencedDocument) {
	inv.References = append(inv.References, doc)
}

// ReferencesOfKind returns all references of one kind, in document order
func (inv *Invoice) ReferencesOfKind(kind DocumentKind) []ReferencedDocument {
	var out []ReferencedDocument
	for _, r := range inv.References {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// FirstReferenceOfKind returns the first reference of one kind, or nil
func (inv *Invoice) FirstReferenceOfKind(kind DocumentKind) *ReferencedDocument {
	for i := range inv.References {
		if inv.References[i].Kind == kind {
			return &inv.References[i]
		}
	}
	return nil
}

// D is shorthand for an owned decimal pointer, for the nullable Totals fields
func D(d decimal.Decimal) *decimal.Decimal {
	return &d
}
