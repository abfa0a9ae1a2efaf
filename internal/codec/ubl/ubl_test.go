package ubl_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-codec/internal/codec/ubl"
	"github.com/rezonia/einvoice-codec/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleInvoice() *model.Invoice {
	inv := model.NewInvoice()
	inv.Number = "XR-2026-0815"
	inv.IssueDate = date(2026, time.May, 4)
	inv.BuyerReference = "04011000-12345-34"

	inv.Seller = &model.Party{
		ID:              "SELLER-001",
		Name:            "Lieferant GmbH",
		Street:          "Lieferantenstraße 20",
		Postcode:        "80333",
		City:            "München",
		Country:         "DE",
		VATRegistration: "DE123456789",
		ElectronicAddress: &model.ElectronicAddress{
			SchemeID: "EM",
			Address:  "rechnung@lieferant.example",
		},
	}
	inv.Buyer = &model.Party{
		ID:       "BUYER-042",
		Name:     "Kunde AG",
		Street:   "Kundenstraße 15",
		Postcode: "69115",
		City:     "Heidelberg",
		Country:  "DE",
		ElectronicAddress: &model.ElectronicAddress{
			SchemeID: "EM",
			Address:  "einkauf@kunde.example",
		},
	}

	inv.AddTradeLineItem(&model.TradeLineItem{
		Name:           "Beratungsleistung",
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(1), Unit: model.UnitDay},
		NetPrice:       model.Price{Amount: decimal.RequireFromString("198.00")},
		Tax: model.Tax{
			TypeCode:     "VAT",
			CategoryCode: model.TaxCategoryStandard,
			Percent:      decimal.NewFromInt(19),
		},
	})

	inv.PaymentMeans = &model.PaymentMeans{TypeCode: model.PaymentMeansSEPATrans}
	inv.CreditorAccounts = []model.BankAccount{{
		IBAN: "DE02120300000000202051",
		BIC:  "BYLADEM1001",
	}}
	inv.AddPaymentTerms(&model.PaymentTerms{
		Description: "Zahlbar innerhalb 30 Tagen netto.",
		DueDate:     date(2026, time.June, 3),
	})
	return inv
}

func writeUBL(t *testing.T, inv *model.Invoice, p model.Profile) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ubl.NewWriter(model.Version23, p).Write(inv, &buf))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	inv := sampleInvoice()
	data := writeUBL(t, inv, model.ProfileXRechnung)

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, model.FormatUBL, got.Format)
	assert.Equal(t, model.Version23, got.Version)
	assert.Equal(t, model.ProfileXRechnung, got.Profile)
	assert.Equal(t, "XR-2026-0815", got.Number)
	assert.Equal(t, "EUR", got.Currency)
	require.NotNil(t, got.IssueDate)
	assert.True(t, got.IssueDate.Equal(*inv.IssueDate))
	assert.Equal(t, "04011000-12345-34", got.BuyerReference)

	assert.Equal(t, "Lieferant GmbH", got.Seller.Name)
	assert.Equal(t, "SELLER-001", got.Seller.ID)
	assert.Equal(t, "DE123456789", got.Seller.VATRegistration)
	require.NotNil(t, got.Seller.ElectronicAddress)
	assert.Equal(t, "rechnung@lieferant.example", got.Seller.ElectronicAddress.Address)
	assert.Equal(t, "Kunde AG", got.Buyer.Name)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, "1", got.Lines[0].LineID)
	assert.True(t, got.Lines[0].NetPrice.Amount.Equal(decimal.RequireFromString("198.00")))
	assert.Equal(t, model.TaxCategoryStandard, got.Lines[0].Tax.CategoryCode)
	assert.True(t, got.Lines[0].Tax.Percent.Equal(decimal.NewFromInt(19)))

	require.NotNil(t, got.Totals.TaxTotal)
	assert.Equal(t, "37.62", got.Totals.TaxTotal.StringFixed(2))
	require.NotNil(t, got.Totals.GrandTotal)
	assert.Equal(t, "235.62", got.Totals.GrandTotal.StringFixed(2))
	assert.Empty(t, got.Warnings)

	require.Len(t, got.CreditorAccounts, 1)
	assert.Equal(t, "DE02120300000000202051", got.CreditorAccounts[0].IBAN)
	assert.Equal(t, "BYLADEM1001", got.CreditorAccounts[0].BIC)

	require.NotEmpty(t, got.PaymentTerms)
	assert.Equal(t, "Zahlbar innerhalb 30 Tagen netto.", got.PaymentTerms[0].Description)
	require.NotNil(t, got.PaymentTerms[0].DueDate)
	assert.True(t, got.PaymentTerms[0].DueDate.Equal(*inv.PaymentTerms[0].DueDate))
}

func TestSinglePartyIdentificationOnSeller(t *testing.T) {
	inv := sampleInvoice()
	data := writeUBL(t, inv, model.ProfileXRechnung)
	xml := string(data)

	assert.Equal(t, 1, strings.Count(xml, "<cac:PartyIdentification>"))

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "SELLER-001", got.Seller.ID)
	// the buyer identifier has no UBL home and does not survive
	assert.Empty(t, got.Buyer.ID)
}

func TestSkontoNoteSyntax(t *testing.T) {
	inv := sampleInvoice()
	basis := decimal.RequireFromString("123.45")
	inv.AddPaymentTerms(&model.PaymentTerms{Discount: &model.PaymentDiscount{
		DueDays: 14,
		Percent: decimal.NewFromInt(5),
	}})
	inv.AddPaymentTerms(&model.PaymentTerms{Discount: &model.PaymentDiscount{
		DueDays:     30,
		Percent:     decimal.RequireFromString("2.25"),
		BasisAmount: model.D(basis),
	}})

	data := writeUBL(t, inv, model.ProfileXRechnung)
	xml := string(data)

	assert.Equal(t, 1, strings.Count(xml, "<cac:PaymentTerms>"))
	assert.Contains(t, xml, "\n      #SKONTO#TAGE#14#PROZENT=5.00#\n")
	assert.Contains(t, xml, "\n      #SKONTO#TAGE#30#PROZENT=2.25#BASISBETRAG=123.45#\n")

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)

	var discounts []*model.PaymentDiscount
	for _, pt := range got.PaymentTerms {
		if pt.Discount != nil {
			discounts = append(discounts, pt.Discount)
		}
	}
	require.Len(t, discounts, 2)
	assert.Equal(t, 14, discounts[0].DueDays)
	assert.True(t, discounts[0].Percent.Equal(decimal.NewFromInt(5)))
	assert.Nil(t, discounts[0].BasisAmount)
	assert.Equal(t, 30, discounts[1].DueDays)
	assert.True(t, discounts[1].Percent.Equal(decimal.RequireFromString("2.25")))
	require.NotNil(t, discounts[1].BasisAmount)
	assert.True(t, discounts[1].BasisAmount.Equal(basis))
}

func TestSkontoSuppressedBelowComfort(t *testing.T) {
	inv := sampleInvoice()
	inv.AddPaymentTerms(&model.PaymentTerms{Discount: &model.PaymentDiscount{
		DueDays: 14,
		Percent: decimal.NewFromInt(5),
	}})

	data := writeUBL(t, inv, model.ProfileBasic)
	xml := string(data)

	assert.NotContains(t, xml, "#SKONTO#")
	// the free-text note survives without the token block
	assert.Contains(t, xml, "Zahlbar innerhalb 30 Tagen netto.")

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	for _, pt := range got.PaymentTerms {
		assert.Nil(t, pt.Discount)
	}
}

func TestMalformedSkontoRejected(t *testing.T) {
	inv := sampleInvoice()
	inv.AddPaymentTerms(&model.PaymentTerms{Discount: &model.PaymentDiscount{
		DueDays: 14,
		Percent: decimal.NewFromInt(5),
	}})
	data := writeUBL(t, inv, model.ProfileXRechnung)
	mutated := strings.Replace(string(data), "#SKONTO#TAGE#14#", "#SKONTO#TAGE#vierzehn#", 1)
	require.NotEqual(t, string(data), mutated)

	_, err := ubl.NewReader().Read(strings.NewReader(mutated))
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDirectDebitOmitsInstitution(t *testing.T) {
	inv := sampleInvoice()
	inv.PaymentMeans = &model.PaymentMeans{
		TypeCode:             model.PaymentMeansSEPADebit,
		SEPACreditorID:       "DE98ZZZ09999999999",
		SEPAMandateReference: "MANDATE-77",
	}
	inv.DebitorAccounts = []model.BankAccount{{IBAN: "DE75512108001245126199"}}
	data := writeUBL(t, inv, model.ProfileXRechnung)
	xml := string(data)

	assert.NotContains(t, xml, "FinancialInstitutionBranch")
	assert.Contains(t, xml, "<cac:PaymentMandate>")

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, got.PaymentMeans)
	assert.Equal(t, "MANDATE-77", got.PaymentMeans.SEPAMandateReference)
	assert.Equal(t, "DE98ZZZ09999999999", got.PaymentMeans.SEPACreditorID)
	require.Len(t, got.DebitorAccounts, 1)
	assert.Equal(t, "DE75512108001245126199", got.DebitorAccounts[0].IBAN)
	require.Len(t, got.CreditorAccounts, 1)
	assert.Empty(t, got.CreditorAccounts[0].BIC)
}

func TestHierarchicalLines(t *testing.T) {
	inv := sampleInvoice()
	inv.AddTradeLineItem(&model.TradeLineItem{
		ParentLineID:   "1",
		Name:           "Anreise",
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(1), Unit: model.UnitPiece},
		NetPrice:       model.Price{Amount: decimal.RequireFromString("50.00")},
		Tax: model.Tax{
			TypeCode:     "VAT",
			CategoryCode: model.TaxCategoryStandard,
			Percent:      decimal.NewFromInt(19),
		},
	})

	data := writeUBL(t, inv, model.ProfileXRechnung)
	assert.Contains(t, string(data), "<cac:SubInvoiceLine>")

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "", got.Lines[0].ParentLineID)
	assert.Equal(t, "1", got.Lines[1].ParentLineID)
	assert.Equal(t, "Anreise", got.Lines[1].Name)
}

func TestUnknownParentLineRejected(t *testing.T) {
	inv := sampleInvoice()
	inv.AddTradeLineItem(&model.TradeLineItem{
		ParentLineID:   "99",
		Name:           "Waise",
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(1), Unit: model.UnitPiece},
		NetPrice:       model.Price{Amount: decimal.NewFromInt(10)},
		Tax:            model.Tax{TypeCode: "VAT", CategoryCode: model.TaxCategoryStandard, Percent: decimal.NewFromInt(19)},
	})
	var buf bytes.Buffer
	err := ubl.NewWriter(model.Version23, model.ProfileXRechnung).Write(inv, &buf)
	var unsupported *model.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Zero(t, buf.Len())
}

func TestUnsupportedCombinations(t *testing.T) {
	tests := []struct {
		name    string
		version model.Version
		profile model.Profile
	}{
		{"extended has no ubl mapping", model.Version23, model.ProfileExtended},
		{"minimum has no ubl mapping", model.Version23, model.ProfileMinimum},
		{"ubl predates 2.0", model.Version20, model.ProfileXRechnung},
		{"ubl predates 1.0", model.Version1, model.ProfileComfort},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := ubl.NewWriter(tc.version, tc.profile).Write(sampleInvoice(), &buf)
			var unsupported *model.UnsupportedError
			require.ErrorAs(t, err, &unsupported)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestCustomizationProfiles(t *testing.T) {
	tests := []struct {
		profile model.Profile
		marker  string
	}{
		{model.ProfileBasic, "factur-x.eu:1p0:basic"},
		{model.ProfileComfort, "urn:cen.eu:en16931:2017"},
		{model.ProfileXRechnung1, "xrechnung_1.2"},
		{model.ProfileXRechnung, "xrechnung_3.0"},
	}
	for _, tc := range tests {
		t.Run(tc.profile.String(), func(t *testing.T) {
			data := writeUBL(t, sampleInvoice(), tc.profile)
			assert.Contains(t, string(data), tc.marker)

			got, err := ubl.NewReader().Read(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tc.profile, got.Profile)
		})
	}
}

func TestReadRejectsForeignRoot(t *testing.T) {
	_, err := ubl.NewReader().Read(strings.NewReader(`<CreditNote xmlns="urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"/>`))
	var detectErr *model.FormatDetectionError
	require.ErrorAs(t, err, &detectErr)
}

func TestNoteSubjectCodeConvention(t *testing.T) {
	inv := sampleInvoice()
	inv.AddNote("Es gelten unsere AGB.", "AAI")
	inv.AddNote("Freitext ohne Code.", "")

	data := writeUBL(t, inv, model.ProfileXRechnung)
	assert.Contains(t, string(data), "<cbc:Note>#AAI#Es gelten unsere AGB.</cbc:Note>")

	got, err := ubl.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "AAI", got.Notes[0].SubjectCode)
	assert.Equal(t, "Es gelten unsere AGB.", got.Notes[0].Text)
	assert.Empty(t, got.Notes[1].SubjectCode)
	assert.Equal(t, "Freitext ohne Code.", got.Notes[1].Text)
}
