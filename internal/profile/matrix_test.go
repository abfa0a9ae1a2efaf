package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

func TestRank_Ordering(t *testing.T) {
	require.Less(t, profile.Rank(model.ProfileMinimum), profile.Rank(model.ProfileBasicWL))
	require.Less(t, profile.Rank(model.ProfileBasicWL), profile.Rank(model.ProfileBasic))
	require.Less(t, profile.Rank(model.ProfileBasic), profile.Rank(model.ProfileComfort))
	require.Less(t, profile.Rank(model.ProfileComfort), profile.Rank(model.ProfileExtended))
	assert.Equal(t, profile.Rank(model.ProfileMinimum), profile.Rank(model.ProfileEReporting))
	assert.Equal(t, -1, profile.Rank(model.ProfileUnknown))
}

func TestAvailability_LineItems(t *testing.T) {
	tests := []struct {
		name string
		p    model.Profile
		want profile.Availability
	}{
		{"forbidden for Minimum", model.ProfileMinimum, profile.Forbidden},
		{"forbidden for BasicWL", model.ProfileBasicWL, profile.Forbidden},
		{"mandatory for Basic", model.ProfileBasic, profile.Mandatory},
		{"mandatory for Extended", model.ProfileExtended, profile.Mandatory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profile.Lookup(model.FormatCII, model.Version23, tt.p, profile.FieldLineItems)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailability_InvoiceePayeeExtendedOnly(t *testing.T) {
	// full invoicee/payee detail is Extended-only regardless of rank elsewhere
	for _, p := range []model.Profile{model.ProfileBasic, model.ProfileComfort, model.ProfileXRechnung} {
		assert.Equal(t, profile.Forbidden,
			profile.Lookup(model.FormatCII, model.Version23, p, profile.FieldInvoicee),
			"invoicee must be forbidden for %s", p)
	}
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileExtended, profile.FieldInvoicee))
}

func TestAvailability_RoundingAmount(t *testing.T) {
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileBasic, profile.FieldTotalsRounding))
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileExtended, profile.FieldTotalsRounding))
}

func TestAvailability_ElectronicAddressNeedsNewVersion(t *testing.T) {
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.Version20, model.ProfileExtended, profile.FieldElectronicAddress))
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileExtended, profile.FieldElectronicAddress))
}

func TestAvailability_XRechnungOverlay(t *testing.T) {
	assert.Equal(t, profile.Mandatory,
		profile.Lookup(model.FormatUBL, model.Version23, model.ProfileXRechnung, profile.FieldBuyerReference))
	assert.Equal(t, profile.Mandatory,
		profile.Lookup(model.FormatUBL, model.Version23, model.ProfileXRechnung, profile.FieldElectronicAddress))
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileComfort, profile.FieldBuyerReference))
}

func TestAvailability_UnknownIsForbidden(t *testing.T) {
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatUnknown, model.Version23, model.ProfileBasic, profile.FieldNotes))
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.VersionUnknown, model.ProfileBasic, profile.FieldNotes))
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileUnknown, profile.FieldNotes))
}

func TestAvailability_TotalOverDomain(t *testing.T) {
	// every (format, version, profile, field) tuple must resolve without
	// panicking, including the unknowns
	formats := []model.Format{model.FormatUnknown, model.FormatCII, model.FormatUBL}
	versions := []model.Version{model.VersionUnknown, model.Version1, model.Version20, model.Version21, model.Version22, model.Version23}
	profiles := []model.Profile{
		model.ProfileUnknown, model.ProfileMinimum, model.ProfileEReporting,
		model.ProfileBasicWL, model.ProfileBasic, model.ProfileComfort,
		model.ProfileExtended, model.ProfileXRechnung1, model.ProfileXRechnung,
	}

	for _, f := range formats {
		for _, v := range versions {
			for _, p := range profiles {
				for _, field := range profile.Fields() {
					got := profile.Lookup(f, v, p, field)
					assert.Contains(t, []profile.Availability{profile.Forbidden, profile.Optional, profile.Mandatory}, got)
				}
			}
		}
	}
}

func TestSupportedCombination(t *testing.T) {
	tests := []struct {
		name string
		f    model.Format
		v    model.Version
		p    model.Profile
		want bool
	}{
		{"CII 1.0 Comfort", model.FormatCII, model.Version1, model.ProfileComfort, true},
		{"CII 1.0 Minimum", model.FormatCII, model.Version1, model.ProfileMinimum, false},
		{"CII 1.0 XRechnung", model.FormatCII, model.Version1, model.ProfileXRechnung, false},
		{"CII 2.0 Minimum", model.FormatCII, model.Version20, model.ProfileMinimum, true},
		{"CII 2.0 EReporting", model.FormatCII, model.Version20, model.ProfileEReporting, false},
		{"CII 2.3 EReporting", model.FormatCII, model.Version23, model.ProfileEReporting, true},
		{"CII 2.1 EReporting", model.FormatCII, model.Version21, model.ProfileEReporting, false},
		{"UBL predates 2.3", model.FormatUBL, model.Version20, model.ProfileXRechnung, false},
		{"UBL 2.3 XRechnung", model.FormatUBL, model.Version23, model.ProfileXRechnung, true},
		{"UBL 2.3 Basic", model.FormatUBL, model.Version23, model.ProfileBasic, true},
		{"UBL 2.3 Minimum", model.FormatUBL, model.Version23, model.ProfileMinimum, false},
		{"UBL 2.3 Extended", model.FormatUBL, model.Version23, model.ProfileExtended, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profile.SupportedCombination(tt.f, tt.v, tt.p))
		})
	}
}

func TestReferenceField_PerKind(t *testing.T) {
	// delivery-note references are an Extended-only CII feature
	f := profile.ReferenceField(model.KindDeliveryNote)
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileComfort, f))
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileExtended, f))

	// order references exist everywhere, down to Minimum
	assert.Equal(t, profile.Optional,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileMinimum, profile.ReferenceField(model.KindOrder)))

	// unknown kinds are Forbidden, not an error
	assert.Equal(t, profile.Forbidden,
		profile.Lookup(model.FormatCII, model.Version23, model.ProfileExtended, profile.ReferenceField(model.KindUnknownDocument)))
}

func TestTaxCategoryAllowed(t *testing.T) {
	assert.True(t, profile.TaxCategoryAllowed(model.ProfileXRechnung, model.TaxCategoryStandard))
	assert.False(t, profile.TaxCategoryAllowed(model.ProfileXRechnung, "B"))
	assert.True(t, profile.TaxCategoryAllowed(model.ProfileExtended, "B"))
}
