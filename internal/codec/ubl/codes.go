package ubl

import (
	"strings"

	"github.com/rezonia/einvoice-codec/internal/model"
)

// OASIS UBL 2.1 Invoice namespaces
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// ProfileIDPeppol is the business-process identifier XRechnung mandates
const ProfileIDPeppol = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

// customizationID maps a profile to the CustomizationID the UBL rendition
// carries. Only the EN 16931 generation has a UBL mapping at all.
func customizationID(p model.Profile) string {
	switch p {
	case model.ProfileBasic:
		return "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	case model.ProfileComfort:
		return "urn:cen.eu:en16931:2017"
	case model.ProfileXRechnung1:
		return "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_1.2"
	case model.ProfileXRechnung:
		return "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_3.0"
	default:
		return ""
	}
}

// profileFromCustomization is the reverse lookup. An absent or foreign
// CustomizationID reads as plain EN 16931.
func profileFromCustomization(id string) model.Profile {
	switch {
	case strings.Contains(id, "xrechnung_1"):
		return model.ProfileXRechnung1
	case strings.Contains(id, "xrechnung"):
		return model.ProfileXRechnung
	case strings.Contains(id, "factur-x.eu:1p0:basic"):
		return model.ProfileBasic
	default:
		return model.ProfileComfort
	}
}

// The two grammars enumerate tax categories differently: CII uses the raw
// UNTDID 5305 list while UBL restricts itself to the UNCL 5305 subset and
// folds a few legacy CII codes into their modern equivalents. The writer
// maps forward, the reader backward; codes without a UBL equivalent are
// rejected upstream by the capability check.
var taxCategoryToUBL = map[string]string{
	model.TaxCategoryStandard:     "S",
	model.TaxCategoryZeroRated:    "Z",
	model.TaxCategoryExempt:       "E",
	model.TaxCategoryReverse:      "AE",
	model.TaxCategoryIntraComm:    "K",
	model.TaxCategoryExport:       "G",
	model.TaxCategoryOutOfScope:   "O",
	model.TaxCategoryCanaryIGIC:   "L",
	model.TaxCategoryCeutaMelilla: "M",
	// legacy CII-only codes folded into their UBL equivalents
	"A":  "S",
	"AA": "S",
	"AB": "E",
}

var taxCategoryFromUBL = map[string]string{
	"S":  model.TaxCategoryStandard,
	"Z":  model.TaxCategoryZeroRated,
	"E":  model.TaxCategoryExempt,
	"AE": model.TaxCategoryReverse,
	"K":  model.TaxCategoryIntraComm,
	"G":  model.TaxCategoryExport,
	"O":  model.TaxCategoryOutOfScope,
	"L":  model.TaxCategoryCanaryIGIC,
	"M":  model.TaxCategoryCeutaMelilla,
}

func toUBLTaxCategory(code string) string {
	if mapped, ok := taxCategoryToUBL[code]; ok {
		return mapped
	}
	return code
}

func fromUBLTaxCategory(code string) string {
	if mapped, ok := taxCategoryFromUBL[code]; ok {
		return mapped
	}
	return code
}

// taxSchemeID converts the CII tax type code to the UBL TaxScheme ID.
// CII says "VAT" or "VA" depending on revision habit; UBL always says "VAT".
func taxSchemeID(typeCode string) string {
	if typeCode == "" || typeCode == "VA" {
		return "VAT"
	}
	return typeCode
}

// directDebit reports whether the means code is one of the two direct-debit
// codes, for which UBL omits financial institution details entirely
func directDebit(meansCode string) bool {
	return meansCode == model.PaymentMeansSEPADebit || meansCode == model.PaymentMeansDirectDebit
}
