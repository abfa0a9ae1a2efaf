package model

// Format identifies the XML wire grammar of a document
type Format int

const (
	FormatUnknown Format = iota
	// FormatCII is the UN/CEFACT Cross Industry Invoice grammar
	FormatCII
	// FormatUBL is the OASIS Universal Business Language Invoice grammar
	FormatUBL
)

func (f Format) String() string {
	switch f {
	case FormatCII:
		return "CII"
	case FormatUBL:
		return "UBL"
	default:
		return "Unknown"
	}
}

// ParseFormat parses a format name (case-sensitive, as printed by String)
func ParseFormat(s string) Format {
	switch s {
	case "CII", "cii":
		return FormatCII
	case "UBL", "ubl":
		return FormatUBL
	default:
		return FormatUnknown
	}
}

// Version identifies a standard revision. The 2.1 through 2.3 revisions share
// one namespace family; readers report the newest of the three.
type Version int

const (
	VersionUnknown Version = iota
	Version1
	Version20
	Version21
	Version22
	Version23
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "1.0"
	case Version20:
		return "2.0"
	case Version21:
		return "2.1"
	case Version22:
		return "2.2"
	case Version23:
		return "2.3"
	default:
		return "unknown"
	}
}

// ParseVersion parses a version tag such as "2.3"
func ParseVersion(s string) Version {
	switch s {
	case "1", "1.0":
		return Version1
	case "2", "2.0":
		return Version20
	case "2.1":
		return Version21
	case "2.2":
		return Version22
	case "2.3":
		return Version23
	default:
		return VersionUnknown
	}
}

// Profile names a conformance profile, i.e. the subset of fields a document
// may legally carry.
type Profile int

const (
	ProfileUnknown Profile = iota
	ProfileMinimum
	ProfileEReporting
	ProfileBasicWL
	ProfileBasic
	ProfileComfort
	ProfileExtended
	ProfileXRechnung1
	ProfileXRechnung
)

func (p Profile) String() string {
	switch p {
	case ProfileMinimum:
		return "Minimum"
	case ProfileEReporting:
		return "EReporting"
	case ProfileBasicWL:
		return "BasicWL"
	case ProfileBasic:
		return "Basic"
	case ProfileComfort:
		return "Comfort"
	case ProfileExtended:
		return "Extended"
	case ProfileXRechnung1:
		return "XRechnung1"
	case ProfileXRechnung:
		return "XRechnung"
	default:
		return "Unknown"
	}
}

// ParseProfile parses a profile name as printed by String. EN16931 is accepted
// as an alias for Comfort.
func ParseProfile(s string) Profile {
	switch s {
	case "Minimum", "minimum":
		return ProfileMinimum
	case "EReporting", "ereporting":
		return ProfileEReporting
	case "BasicWL", "basicwl":
		return ProfileBasicWL
	case "Basic", "basic":
		return ProfileBasic
	case "Comfort", "comfort", "EN16931", "en16931":
		return ProfileComfort
	case "Extended", "extended":
		return ProfileExtended
	case "XRechnung1", "xrechnung1":
		return ProfileXRechnung1
	case "XRechnung", "xrechnung":
		return ProfileXRechnung
	default:
		return ProfileUnknown
	}
}

// DocumentKind discriminates the referenced-document variants
type DocumentKind int

const (
	KindUnknownDocument DocumentKind = iota
	// KindOrder references the buyer order
	KindOrder
	// KindContract references the underlying contract
	KindContract
	// KindDeliveryNote references a delivery note
	KindDeliveryNote
	// KindInvoice references a preceding invoice (corrections, prepayments)
	KindInvoice
	// KindDespatchAdvice references a despatch advice
	KindDespatchAdvice
	// KindAdditional is a supporting document, possibly with an embedded
	// binary attachment
	KindAdditional
)

func (k DocumentKind) String() string {
	switch k {
	case KindOrder:
		return "Order"
	case KindContract:
		return "Contract"
	case KindDeliveryNote:
		return "DeliveryNote"
	case KindInvoice:
		return "Invoice"
	case KindDespatchAdvice:
		return "DespatchAdvice"
	case KindAdditional:
		return "Additional"
	default:
		return "Unknown"
	}
}

// Invoice type codes from UNTDID 1001. Only the codes the standards family
// actually transports are named here.
const (
	TypeCodeInvoice           = "380"
	TypeCodeCreditNote        = "381"
	TypeCodeCorrection        = "384"
	TypeCodePrepaymentInvoice = "386"
	TypeCodeSelfBilledInvoice = "389"
)

// Payment means type codes from UNTDID 4461
const (
	PaymentMeansTransfer    = "30"
	PaymentMeansSEPATrans   = "58"
	PaymentMeansSEPADebit   = "59"
	PaymentMeansCard        = "48"
	PaymentMeansDirectDebit = "49"
	PaymentMeansNotDefined  = "1"
)

// Tax category codes from UNTDID 5305
const (
	TaxCategoryStandard     = "S"
	TaxCategoryZeroRated    = "Z"
	TaxCategoryExempt       = "E"
	TaxCategoryReverse      = "AE"
	TaxCategoryIntraComm    = "K"
	TaxCategoryExport       = "G"
	TaxCategoryOutOfScope   = "O"
	TaxCategoryCanaryIGIC   = "L"
	TaxCategoryCeutaMelilla = "M"
)
