// Package einvoice provides a public API for the invoice-document codec.
//
// This package exposes the invoice model together with serialization to and
// from the CII and UBL XML grammars, format/version detection, and
// capability-matrix validation.
//
// Example usage:
//
//	inv, err := einvoice.Load(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(inv.Number, inv.Totals.GrandTotal)
package einvoice

import "github.com/rezonia/einvoice-codec/internal/model"

// Re-export core types for public API
type (
	Invoice            = model.Invoice
	Party              = model.Party
	Contact            = model.Contact
	GlobalID           = model.GlobalID
	LegalOrganization  = model.LegalOrganization
	ElectronicAddress  = model.ElectronicAddress
	Characteristic     = model.Characteristic
	TradeLineItem      = model.TradeLineItem
	Quantity           = model.Quantity
	Price              = model.Price
	Tax                = model.Tax
	AllowanceCharge    = model.AllowanceCharge
	PaymentTerms       = model.PaymentTerms
	PaymentDiscount    = model.PaymentDiscount
	PaymentMeans       = model.PaymentMeans
	BankAccount        = model.BankAccount
	ReferencedDocument = model.ReferencedDocument
	Attachment         = model.Attachment
	Note               = model.Note
	Totals             = model.Totals

	Format       = model.Format
	Version      = model.Version
	Profile      = model.Profile
	DocumentKind = model.DocumentKind
)

// Re-export formats
const (
	FormatCII = model.FormatCII
	FormatUBL = model.FormatUBL
)

// Re-export standard revisions
const (
	Version1  = model.Version1
	Version20 = model.Version20
	Version21 = model.Version21
	Version22 = model.Version22
	Version23 = model.Version23
)

// Re-export conformance profiles
const (
	ProfileMinimum    = model.ProfileMinimum
	ProfileEReporting = model.ProfileEReporting
	ProfileBasicWL    = model.ProfileBasicWL
	ProfileBasic      = model.ProfileBasic
	ProfileComfort    = model.ProfileComfort
	ProfileExtended   = model.ProfileExtended
	ProfileXRechnung1 = model.ProfileXRechnung1
	ProfileXRechnung  = model.ProfileXRechnung
)

// Re-export error types
type (
	UnsupportedError      = model.UnsupportedError
	ParseError            = model.ParseError
	FormatDetectionError  = model.FormatDetectionError
	ReconciliationWarning = model.ReconciliationWarning
)

// NewInvoice creates an invoice with sensible defaults
func NewInvoice() *Invoice {
	return model.NewInvoice()
}

// ParseFormat parses a format name such as "cii" or "UBL".
func ParseFormat(s string) Format { return model.ParseFormat(s) }

// ParseVersion parses a revision tag such as "2.3".
func ParseVersion(s string) Version { return model.ParseVersion(s) }

// ParseProfile parses a profile name; "en16931" is accepted as an alias
// for Comfort.
func ParseProfile(s string) Profile { return model.ParseProfile(s) }

// Re-export zero values for unknown enum results
const (
	FormatUnknown  = model.FormatUnknown
	VersionUnknown = model.VersionUnknown
	ProfileUnknown = model.ProfileUnknown
)
