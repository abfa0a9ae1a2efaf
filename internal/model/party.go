package model

import "strings"

// GlobalID is a scheme-qualified party or product identifier (GLN, DUNS, ...)
type GlobalID struct {
	SchemeID string // ISO 6523 ICD, e.g. "0088" for GLN
	ID       string
}

// Well-known ISO 6523 scheme identifiers
const (
	SchemeGLN  = "0088"
	SchemeDUNS = "0060"
	SchemeODETTE = "0177"
)

// LegalOrganization is the trade party's registered legal entity record
type LegalOrganization struct {
	ID          GlobalID
	TradingName string
}

// Contact carries the optional contact block of a trade party
type Contact struct {
	Name    string
	OrgUnit string
	Email   string
	Phone   string
	Fax     string
}

// ElectronicAddress is the e-delivery routing address (EAS scheme + value)
type ElectronicAddress struct {
	SchemeID string // EAS code, e.g. "EM" for email, "9930" for German VAT id
	Address  string
}

// Party is a trade party: seller, buyer, or one of the optional roles
// (invoicee, payee, ship-to, ship-from, ultimate ship-to).
type Party struct {
	// ID is the plain, seller-assigned identifier
	ID string
	// GlobalID is the scheme-qualified identifier, nil when absent
	GlobalID *GlobalID

	Name        string
	Description string // Extended profile only

	Street             string
	AddressLine2       string
	AddressLine3       string
	Postcode           string
	City               string
	Country            string // ISO 3166-1 alpha-2
	CountrySubdivision string

	LegalOrganization *LegalOrganization
	Contact           *Contact
	ElectronicAddress *ElectronicAddress

	// VATRegistration is the "VA"-scheme tax registration (VAT id);
	// TaxRegistration the "FC"-scheme one (local tax number).
	VATRegistration string
	TaxRegistration string
}

// SetGlobalID validates and sets the scheme-qualified identifier. The party is
// unchanged when the scheme is malformed.
func (p *Party) SetGlobalID(schemeID, id string) error {
	schemeID = strings.TrimSpace(schemeID)
	if schemeID == "" {
		return NewUnsupportedError("global ID requires a non-empty scheme identifier")
	}
	for _, r := range schemeID {
		if r < '0' || r > '9' {
			return NewUnsupportedError("global ID scheme must be an ISO 6523 numeric code, got " + schemeID)
		}
	}
	p.GlobalID = &GlobalID{SchemeID: schemeID, ID: id}
	return nil
}
