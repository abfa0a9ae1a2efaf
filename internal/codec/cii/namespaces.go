package cii

import (
	"strings"

	"github.com/rezonia/einvoice-codec/internal/model"
)

// Namespace URIs of the CII grammars. The first revision used the
// CrossIndustryDocument vocabulary; everything since 2.0 uses
// CrossIndustryInvoice. The 2.1 through 2.3 revisions share the 2.0
// namespaces and are told apart by the guideline context parameter.
const (
	NsRSM1 = "urn:ferd:CrossIndustryDocument:invoice:1p0"
	NsRAM1 = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:12"
	NsUDT1 = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:15"

	NsRSM2 = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NsRAM2 = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NsUDT2 = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NsQDT2 = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
)

// guideline IDs written into the document context parameter, per version and
// profile
func guidelineID(v model.Version, p model.Profile) string {
	if v == model.Version1 {
		switch p {
		case model.ProfileBasic:
			return "urn:ferd:CrossIndustryDocument:invoice:1p0:basic"
		case model.ProfileComfort:
			return "urn:ferd:CrossIndustryDocument:invoice:1p0:comfort"
		case model.ProfileExtended:
			return "urn:ferd:CrossIndustryDocument:invoice:1p0:extended"
		}
		return ""
	}
	if v == model.Version20 {
		switch p {
		case model.ProfileMinimum:
			return "urn:zugferd.de:2p0:minimum"
		case model.ProfileBasicWL:
			return "urn:zugferd.de:2p0:basicwl"
		case model.ProfileBasic:
			return "urn:cen.eu:en16931:2017#compliant#urn:zugferd.de:2p0:basic"
		case model.ProfileComfort:
			return "urn:cen.eu:en16931:2017"
		case model.ProfileExtended:
			return "urn:cen.eu:en16931:2017#conformant#urn:zugferd.de:2p0:extended"
		}
		return ""
	}
	switch p {
	case model.ProfileMinimum:
		return "urn:factur-x.eu:1p0:minimum"
	case model.ProfileEReporting:
		return "urn:factur-x.eu:1p0:ereporting"
	case model.ProfileBasicWL:
		return "urn:factur-x.eu:1p0:basicwl"
	case model.ProfileBasic:
		return "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	case model.ProfileComfort:
		return "urn:cen.eu:en16931:2017"
	case model.ProfileExtended:
		return "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"
	case model.ProfileXRechnung1:
		return "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_1.2"
	case model.ProfileXRechnung:
		return "urn:cen.eu:en16931:2017#compliant#urn:xoev-de:kosit:standard:xrechnung_3.0"
	}
	return ""
}

// ProfileFromGuideline is the reverse mapping used by readers
func ProfileFromGuideline(id string) model.Profile {
	switch {
	case id == "":
		return model.ProfileUnknown
	case strings.Contains(id, "xrechnung_1"):
		return model.ProfileXRechnung1
	case strings.Contains(id, "xrechnung"):
		return model.ProfileXRechnung
	case strings.Contains(id, "minimum"):
		return model.ProfileMinimum
	case strings.Contains(id, "ereporting"):
		return model.ProfileEReporting
	case strings.Contains(id, "basicwl"):
		return model.ProfileBasicWL
	case strings.Contains(id, "basic"):
		return model.ProfileBasic
	case strings.Contains(id, "extended"):
		return model.ProfileExtended
	case strings.Contains(id, "comfort"):
		return model.ProfileComfort
	case strings.Contains(id, "en16931"):
		return model.ProfileComfort
	}
	return model.ProfileUnknown
}
