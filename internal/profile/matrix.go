// Package profile is the capability matrix: a pure decision table answering,
// for a (format, version, profile, field) tuple, whether the field is
// forbidden, optional, or mandatory on the wire. Both writers consult it
// before emitting a block; readers imply it when reconstructing defaults.
// Unknown combinations resolve to Forbidden, never to an error.
package profile

import "github.com/rezonia/einvoice-codec/internal/model"

// Availability is the matrix answer for one field
type Availability int

const (
	Forbidden Availability = iota
	Optional
	Mandatory
)

func (a Availability) String() string {
	switch a {
	case Optional:
		return "Optional"
	case Mandatory:
		return "Mandatory"
	default:
		return "Forbidden"
	}
}

// Field identifies one model element or attribute group the matrix rules on
type Field int

const (
	FieldLineItems Field = iota
	FieldNotes
	FieldBuyerReference
	FieldDeliveryDate
	FieldBillingPeriod
	FieldInvoicee
	FieldPayee
	FieldShipTo
	FieldShipFrom
	FieldUltimateShipTo
	FieldPartyContact
	FieldPartyGlobalID
	FieldLegalOrganization
	FieldElectronicAddress
	FieldAllowanceCharges
	FieldServiceCharges
	FieldPaymentTerms
	FieldPaymentTermsDiscount
	FieldPaymentMeans
	FieldBankAccounts
	FieldSEPAFields
	FieldTaxDetail
	FieldTaxExemptionReason
	FieldTotalsLineTotal
	FieldTotalsTaxBasis
	FieldTotalsRounding
	FieldTotalsPrepaid
	FieldReferenceOrder
	FieldReferenceContract
	FieldReferenceDeliveryNote
	FieldReferenceInvoice
	FieldReferenceDespatchAdvice
	FieldReferenceAdditional
	FieldLineNotes
	FieldLineGrossPrice
	FieldLineAllowanceCharges
	FieldLineReferences
	FieldLineBillingPeriod
	FieldLineCharacteristics
	FieldLineIncludedItems
	FieldLineAccountingAccount
	FieldLineShipTo
	fieldCount
)

var fieldNames = [fieldCount]string{
	"line items",
	"notes",
	"buyer reference",
	"delivery date",
	"billing period",
	"invoicee party",
	"payee party",
	"ship-to party",
	"ship-from party",
	"ultimate ship-to party",
	"party contact",
	"party global identifier",
	"legal organization",
	"electronic address",
	"allowances and charges",
	"logistics service charges",
	"payment terms",
	"payment discount terms",
	"payment means",
	"bank accounts",
	"SEPA fields",
	"tax detail",
	"tax exemption reason",
	"line total",
	"tax basis total",
	"rounding amount",
	"prepaid amount",
	"order reference",
	"contract reference",
	"delivery note reference",
	"preceding invoice reference",
	"despatch advice reference",
	"additional references",
	"line notes",
	"line gross price",
	"line allowances and charges",
	"line references",
	"line billing period",
	"line characteristics",
	"line included items",
	"line accounting account",
	"line ship-to party",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown field"
	}
	return fieldNames[f]
}

// Profiles are linearly ordered by richness; the cross-cutting XRechnung
// variants sit at the EN16931 (Comfort) level with their own overlays.
const (
	rankTaxReport = 0 // Minimum, EReporting
	rankBasicWL   = 1
	rankBasic     = 2
	rankComfort   = 3 // Comfort, XRechnung1, XRechnung
	rankExtended  = 4
	rankNever     = 99
)

// Rank returns the richness rank of a profile, -1 for unknown
func Rank(p model.Profile) int {
	switch p {
	case model.ProfileMinimum, model.ProfileEReporting:
		return rankTaxReport
	case model.ProfileBasicWL:
		return rankBasicWL
	case model.ProfileBasic:
		return rankBasic
	case model.ProfileComfort, model.ProfileXRechnung1, model.ProfileXRechnung:
		return rankComfort
	case model.ProfileExtended:
		return rankExtended
	default:
		return -1
	}
}

const (
	fmtCII uint8 = 1 << iota
	fmtUBL
	fmtAny = fmtCII | fmtUBL
)

type rule struct {
	// minRank is the first profile rank at which the field may appear
	minRank int
	// mandatoryRank is the first rank at which it must appear (rankNever:
	// never mandatory by rank alone)
	mandatoryRank int
	// minVersion gates fields that only exist from a revision onward
	minVersion model.Version
	formats    uint8
}

// The table encodes the profile ladder plus its documented exceptions.
// Invoicee and Payee full detail are Extended-only regardless of rank;
// the logistics extras (ultimate ship-to, service charges, included items,
// line-level ship-to) likewise. The rounding amount starts at Comfort.
var rules = map[Field]rule{
	FieldLineItems:       {minRank: rankBasic, mandatoryRank: rankBasic, formats: fmtAny},
	FieldNotes:           {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldBuyerReference:  {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldDeliveryDate:    {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldBillingPeriod:   {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldInvoicee:        {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldPayee:           {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtAny},
	FieldShipTo:          {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldShipFrom:        {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldUltimateShipTo:  {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldPartyContact:    {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldPartyGlobalID:   {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldLegalOrganization: {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldElectronicAddress: {minRank: rankBasicWL, mandatoryRank: rankNever, minVersion: model.Version21, formats: fmtAny},
	FieldAllowanceCharges:  {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldServiceCharges:    {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldPaymentTerms:      {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldPaymentTermsDiscount: {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldPaymentMeans:         {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldBankAccounts:         {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldSEPAFields:           {minRank: rankBasicWL, mandatoryRank: rankNever, minVersion: model.Version20, formats: fmtAny},
	FieldTaxDetail:            {minRank: rankBasicWL, mandatoryRank: rankBasicWL, formats: fmtAny},
	FieldTaxExemptionReason:   {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldTotalsLineTotal:      {minRank: rankBasicWL, mandatoryRank: rankBasicWL, formats: fmtAny},
	FieldTotalsTaxBasis:       {minRank: rankTaxReport, mandatoryRank: rankTaxReport, formats: fmtAny},
	FieldTotalsRounding:       {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldTotalsPrepaid:        {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldReferenceOrder:       {minRank: rankTaxReport, mandatoryRank: rankNever, formats: fmtAny},
	FieldReferenceContract:    {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldReferenceDeliveryNote: {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldReferenceInvoice:      {minRank: rankBasicWL, mandatoryRank: rankNever, formats: fmtAny},
	FieldReferenceDespatchAdvice: {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldReferenceAdditional:     {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineNotes:               {minRank: rankBasic, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineGrossPrice:          {minRank: rankBasic, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineAllowanceCharges:    {minRank: rankBasic, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineReferences:          {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineBillingPeriod:       {minRank: rankBasic, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineCharacteristics:     {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineIncludedItems:       {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
	FieldLineAccountingAccount:   {minRank: rankComfort, mandatoryRank: rankNever, formats: fmtAny},
	FieldLineShipTo:              {minRank: rankExtended, mandatoryRank: rankNever, formats: fmtCII},
}

// XRechnung overlays: fields the cross-cutting profiles additionally require
var xrechnungMandatory = map[Field]bool{
	FieldBuyerReference:    true,
	FieldElectronicAddress: true,
	FieldPaymentMeans:      true,
}

// Lookup answers the matrix for one field. It is total: anything it does not
// recognize is Forbidden.
func Lookup(format model.Format, version model.Version, p model.Profile, field Field) Availability {
	if !SupportedCombination(format, version, p) {
		return Forbidden
	}
	r, ok := rules[field]
	if !ok {
		return Forbidden
	}
	rank := Rank(p)
	if rank < r.minRank {
		return Forbidden
	}
	if r.minVersion != model.VersionUnknown && version < r.minVersion {
		return Forbidden
	}
	switch format {
	case model.FormatCII:
		if r.formats&fmtCII == 0 {
			return Forbidden
		}
	case model.FormatUBL:
		if r.formats&fmtUBL == 0 {
			return Forbidden
		}
	}
	if isXRechnung(p) && xrechnungMandatory[field] {
		return Mandatory
	}
	if rank >= r.mandatoryRank {
		return Mandatory
	}
	return Optional
}

func isXRechnung(p model.Profile) bool {
	return p == model.ProfileXRechnung || p == model.ProfileXRechnung1
}

// SupportedCombination reports whether (format, version, profile) is
// structurally writable at all.
func SupportedCombination(format model.Format, version model.Version, p model.Profile) bool {
	if Rank(p) < 0 {
		return false
	}
	switch format {
	case model.FormatCII:
		switch version {
		case model.Version1:
			// the first revision knew only three profiles
			return p == model.ProfileBasic || p == model.ProfileComfort || p == model.ProfileExtended
		case model.Version20:
			return p != model.ProfileEReporting && !isXRechnung(p)
		case model.Version21, model.Version22, model.Version23:
			if p == model.ProfileEReporting {
				return version == model.Version23
			}
			return true
		default:
			return false
		}
	case model.FormatUBL:
		// UBL arrived with the newest revision and covers the EN16931-based
		// profiles only
		if version != model.Version23 {
			return false
		}
		switch p {
		case model.ProfileBasic, model.ProfileComfort, model.ProfileXRechnung1, model.ProfileXRechnung:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// ReferenceField maps a referenced-document kind to its matrix field, the
// single generic rule keyed by kind.
func ReferenceField(kind model.DocumentKind) Field {
	switch kind {
	case model.KindOrder:
		return FieldReferenceOrder
	case model.KindContract:
		return FieldReferenceContract
	case model.KindDeliveryNote:
		return FieldReferenceDeliveryNote
	case model.KindInvoice:
		return FieldReferenceInvoice
	case model.KindDespatchAdvice:
		return FieldReferenceDespatchAdvice
	case model.KindAdditional:
		return FieldReferenceAdditional
	default:
		return fieldCount // matches no rule, resolves to Forbidden
	}
}

// Fields enumerates every field the matrix knows, for exhaustive tests
func Fields() []Field {
	out := make([]Field, 0, int(fieldCount))
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// XRechnung restricts line-level tax categories to the EN16931 code list;
// Extended accepts anything the underlying code list has.
var en16931TaxCategories = map[string]bool{
	model.TaxCategoryStandard:     true,
	model.TaxCategoryZeroRated:    true,
	model.TaxCategoryExempt:       true,
	model.TaxCategoryReverse:      true,
	model.TaxCategoryIntraComm:    true,
	model.TaxCategoryExport:       true,
	model.TaxCategoryOutOfScope:   true,
	model.TaxCategoryCanaryIGIC:   true,
	model.TaxCategoryCeutaMelilla: true,
}

// TaxCategoryAllowed reports whether a line tax category code may be written
// under the given profile.
func TaxCategoryAllowed(p model.Profile, categoryCode string) bool {
	if p == model.ProfileExtended {
		return true
	}
	return en16931TaxCategories[categoryCode]
}
