package cii_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-codec/internal/codec/cii"
	"github.com/rezonia/einvoice-codec/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleInvoice() *model.Invoice {
	inv := model.NewInvoice()
	inv.Number = "RE-2026-0042"
	inv.IssueDate = date(2026, time.March, 15)
	inv.DeliveryDate = date(2026, time.March, 10)
	inv.BuyerReference = "04011000-12345-34"
	inv.AddNote("Es gelten unsere AGB.", "AAI")

	inv.Seller = &model.Party{
		Name:            "Lieferant GmbH",
		Street:          "Lieferantenstraße 20",
		Postcode:        "80333",
		City:            "München",
		Country:         "DE",
		VATRegistration: "DE123456789",
		TaxRegistration: "201/113/40209",
		Contact: &model.Contact{
			Name:  "Max Mustermann",
			Email: "max@lieferant.example",
			Phone: "+49 89 1234567",
		},
	}
	inv.Buyer = &model.Party{
		Name:     "Kunde AG",
		Street:   "Kundenstraße 15",
		Postcode: "69115",
		City:     "Heidelberg",
		Country:  "DE",
	}

	line1 := &model.TradeLineItem{
		Name:             "Trennblätter A4",
		SellerAssignedID: "TB100A4",
		BilledQuantity:   model.Quantity{Amount: decimal.NewFromInt(20), Unit: model.UnitPiece},
		NetPrice:         model.Price{Amount: decimal.RequireFromString("9.90")},
		Tax: model.Tax{
			TypeCode:     "VAT",
			CategoryCode: model.TaxCategoryStandard,
			Percent:      decimal.NewFromInt(19),
		},
	}
	line2 := &model.TradeLineItem{
		Name:             "Joghurt Banane",
		SellerAssignedID: "ARNR2",
		BilledQuantity:   model.Quantity{Amount: decimal.NewFromInt(50), Unit: model.UnitPiece},
		NetPrice:         model.Price{Amount: decimal.RequireFromString("5.50")},
		Tax: model.Tax{
			TypeCode:     "VAT",
			CategoryCode: model.TaxCategoryStandard,
			Percent:      decimal.NewFromInt(7),
		},
	}
	inv.AddTradeLineItem(line1)
	inv.AddTradeLineItem(line2)

	inv.PaymentMeans = &model.PaymentMeans{TypeCode: model.PaymentMeansSEPATrans}
	inv.CreditorAccounts = []model.BankAccount{{
		IBAN:        "DE02120300000000202051",
		BIC:         "BYLADEM1001",
		AccountName: "Lieferant GmbH",
	}}
	inv.AddPaymentTerms(&model.PaymentTerms{
		Description: "Zahlbar innerhalb 30 Tagen netto.",
		DueDate:     date(2026, time.April, 14),
	})
	inv.AddReference(model.ReferencedDocument{Kind: model.KindOrder, ID: "ORDER-4711"})
	return inv
}

func writeCII(t *testing.T, inv *model.Invoice, v model.Version, p model.Profile) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cii.NewWriter(v, p).Write(inv, &buf))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	inv := sampleInvoice()
	data := writeCII(t, inv, model.Version23, model.ProfileExtended)

	got, err := cii.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, model.Version23, got.Version)
	assert.Equal(t, model.ProfileExtended, got.Profile)
	assert.Equal(t, "RE-2026-0042", got.Number)
	assert.Equal(t, model.TypeCodeInvoice, got.TypeCode)
	assert.Equal(t, "EUR", got.Currency)
	require.NotNil(t, got.IssueDate)
	assert.True(t, got.IssueDate.Equal(*inv.IssueDate))
	require.NotNil(t, got.DeliveryDate)
	assert.True(t, got.DeliveryDate.Equal(*inv.DeliveryDate))
	assert.Equal(t, "04011000-12345-34", got.BuyerReference)

	assert.Equal(t, "Lieferant GmbH", got.Seller.Name)
	assert.Equal(t, "DE123456789", got.Seller.VATRegistration)
	assert.Equal(t, "201/113/40209", got.Seller.TaxRegistration)
	require.NotNil(t, got.Seller.Contact)
	assert.Equal(t, "max@lieferant.example", got.Seller.Contact.Email)
	assert.Equal(t, "Kunde AG", got.Buyer.Name)

	require.Len(t, got.Lines, 2)
	assert.Equal(t, "1", got.Lines[0].LineID)
	assert.Equal(t, "2", got.Lines[1].LineID)
	assert.True(t, got.Lines[0].BilledQuantity.Amount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, model.UnitPiece, got.Lines[0].BilledQuantity.Unit)
	assert.True(t, got.Lines[0].NetPrice.Amount.Equal(decimal.RequireFromString("9.90")))
	assert.True(t, got.Lines[1].Tax.Percent.Equal(decimal.NewFromInt(7)))

	require.NotNil(t, got.Totals.LineTotal)
	assert.Equal(t, "473.00", got.Totals.LineTotal.StringFixed(2))
	require.NotNil(t, got.Totals.TaxTotal)
	assert.Equal(t, "56.87", got.Totals.TaxTotal.StringFixed(2))
	require.NotNil(t, got.Totals.GrandTotal)
	assert.Equal(t, "529.87", got.Totals.GrandTotal.StringFixed(2))
	assert.Empty(t, got.Warnings)

	require.Len(t, got.CreditorAccounts, 1)
	assert.Equal(t, "DE02120300000000202051", got.CreditorAccounts[0].IBAN)
	assert.Equal(t, "BYLADEM1001", got.CreditorAccounts[0].BIC)
	require.NotNil(t, got.PaymentMeans)
	assert.Equal(t, model.PaymentMeansSEPATrans, got.PaymentMeans.TypeCode)

	require.Len(t, got.PaymentTerms, 1)
	assert.Equal(t, "Zahlbar innerhalb 30 Tagen netto.", got.PaymentTerms[0].Description)
	require.NotNil(t, got.PaymentTerms[0].DueDate)

	order := got.FirstReferenceOfKind(model.KindOrder)
	require.NotNil(t, order)
	assert.Equal(t, "ORDER-4711", order.ID)
}

func TestVersionDetection(t *testing.T) {
	tests := []struct {
		version model.Version
		profile model.Profile
		want    string
	}{
		{model.Version1, model.ProfileComfort, "1.0"},
		{model.Version20, model.ProfileBasic, "2.0"},
		{model.Version23, model.ProfileComfort, "2.3"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			data := writeCII(t, sampleInvoice(), tc.version, tc.profile)
			got, err := cii.NewReader().Read(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Version.String())
			assert.Equal(t, tc.profile, got.Profile)
		})
	}
}

func TestFirstRevisionGrammar(t *testing.T) {
	data := writeCII(t, sampleInvoice(), model.Version1, model.ProfileComfort)
	xml := string(data)

	assert.Contains(t, xml, "rsm:CrossIndustryDocument")
	assert.Contains(t, xml, "ram:SpecifiedExchangedDocumentContext")
	assert.Contains(t, xml, "ram:ApplicablePercent")
	assert.NotContains(t, xml, "ram:RateApplicablePercent")
	assert.Contains(t, xml, "ram:SpecifiedTradeSettlementMonetarySummation")

	// lines come after the settlement block in this revision
	settlementAt := strings.Index(xml, "ram:ApplicableSupplyChainTradeSettlement")
	lineAt := strings.Index(xml, "ram:IncludedSupplyChainTradeLineItem")
	require.Greater(t, settlementAt, 0)
	require.Greater(t, lineAt, 0)
	assert.Less(t, settlementAt, lineAt)

	got, err := cii.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, model.Version1, got.Version)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Tax.Percent.Equal(decimal.NewFromInt(19)))
}

func TestEmptyBICOmitsInstitution(t *testing.T) {
	inv := sampleInvoice()
	inv.CreditorAccounts[0].BIC = ""
	data := writeCII(t, inv, model.Version23, model.ProfileExtended)
	assert.NotContains(t, string(data), "PayeeSpecifiedCreditorFinancialInstitution")
	assert.NotContains(t, string(data), "ram:BICID")

	got, err := cii.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got.CreditorAccounts, 1)
	assert.Empty(t, got.CreditorAccounts[0].BIC)
}

func TestPaymentDiscountTerms(t *testing.T) {
	basis := decimal.RequireFromString("529.87")

	// the discount element is available from Comfort upward
	for _, p := range []model.Profile{model.ProfileComfort, model.ProfileExtended} {
		t.Run(p.String(), func(t *testing.T) {
			inv := sampleInvoice()
			inv.PaymentTerms[0].Discount = &model.PaymentDiscount{
				DueDays:     14,
				Percent:     decimal.NewFromInt(2),
				BasisAmount: model.D(basis),
			}
			data := writeCII(t, inv, model.Version23, p)
			assert.Contains(t, string(data), "ram:ApplicableTradePaymentDiscountTerms")

			got, err := cii.NewReader().Read(bytes.NewReader(data))
			require.NoError(t, err)
			require.Len(t, got.PaymentTerms, 1)
			disc := got.PaymentTerms[0].Discount
			require.NotNil(t, disc)
			assert.Equal(t, 14, disc.DueDays)
			assert.True(t, disc.Percent.Equal(decimal.NewFromInt(2)))
			require.NotNil(t, disc.BasisAmount)
			assert.True(t, disc.BasisAmount.Equal(basis))
		})
	}

	t.Run("suppressed below Comfort", func(t *testing.T) {
		inv := sampleInvoice()
		inv.PaymentTerms[0].Discount = &model.PaymentDiscount{
			DueDays: 14,
			Percent: decimal.NewFromInt(2),
		}
		data := writeCII(t, inv, model.Version23, model.ProfileBasic)
		assert.NotContains(t, string(data), "ram:ApplicableTradePaymentDiscountTerms")

		got, err := cii.NewReader().Read(bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, got.PaymentTerms, 1)
		assert.Nil(t, got.PaymentTerms[0].Discount)
	})
}

func TestRoundingAmountRoundTrip(t *testing.T) {
	rounding := decimal.RequireFromString("0.01")

	t.Run("kept from Comfort upward", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Totals.Rounding = model.D(rounding)
		data := writeCII(t, inv, model.Version23, model.ProfileExtended)
		assert.Contains(t, string(data), "ram:RoundingAmount")

		got, err := cii.NewReader().Read(bytes.NewReader(data))
		require.NoError(t, err)
		require.NotNil(t, got.Totals.Rounding)
		assert.True(t, got.Totals.Rounding.Equal(rounding))
		require.NotNil(t, got.Totals.GrandTotal)
		assert.Equal(t, "529.88", got.Totals.GrandTotal.StringFixed(2))
		assert.Empty(t, got.Warnings)
	})

	t.Run("dropped below Comfort", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Totals.Rounding = model.D(rounding)
		data := writeCII(t, inv, model.Version23, model.ProfileBasic)
		assert.NotContains(t, string(data), "ram:RoundingAmount")

		got, err := cii.NewReader().Read(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Nil(t, got.Totals.Rounding)
	})
}

func TestForbiddenPartiesFiltered(t *testing.T) {
	invoicee := &model.Party{
		Name:    "Rechnungsempfänger GmbH",
		Street:  "Empfängerweg 3",
		City:    "Berlin",
		Country: "DE",
	}

	inv := sampleInvoice()
	inv.Invoicee = invoicee
	data := writeCII(t, inv, model.Version23, model.ProfileMinimum)
	assert.NotContains(t, string(data), "ram:InvoiceeTradeParty")

	got, err := cii.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Nil(t, got.Invoicee)

	// Extended carries the party through
	inv = sampleInvoice()
	inv.Invoicee = invoicee
	data = writeCII(t, inv, model.Version23, model.ProfileExtended)
	got, err = cii.NewReader().Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, got.Invoicee)
	assert.Equal(t, "Rechnungsempfänger GmbH", got.Invoicee.Name)
}

func TestUnsupportedCombinations(t *testing.T) {
	tests := []struct {
		name    string
		version model.Version
		profile model.Profile
	}{
		{"basicwl on first revision", model.Version1, model.ProfileBasicWL},
		{"minimum on first revision", model.Version1, model.ProfileMinimum},
		{"xrechnung on 2.0", model.Version20, model.ProfileXRechnung},
		{"ereporting before 2.3", model.Version21, model.ProfileEReporting},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := cii.NewWriter(tc.version, tc.profile).Write(sampleInvoice(), &buf)
			var unsupported *model.UnsupportedError
			require.ErrorAs(t, err, &unsupported)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestDisallowedTaxCategory(t *testing.T) {
	inv := sampleInvoice()
	inv.Lines[0].Tax.CategoryCode = "XY"
	var buf bytes.Buffer
	err := cii.NewWriter(model.Version23, model.ProfileComfort).Write(inv, &buf)
	var unsupported *model.UnsupportedError
	require.ErrorAs(t, err, &unsupported)

	// Extended accepts arbitrary categories
	require.NoError(t, cii.NewWriter(model.Version23, model.ProfileExtended).Write(inv, &buf))
}

func TestReadRejectsMalformedXML(t *testing.T) {
	_, err := cii.NewReader().Read(strings.NewReader("<rsm:CrossIndustryInvoice"))
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReadRejectsMissingNumber(t *testing.T) {
	inv := sampleInvoice()
	data := writeCII(t, inv, model.Version23, model.ProfileComfort)
	mutated := strings.Replace(string(data), "<ram:ID>RE-2026-0042</ram:ID>", "", 1)

	_, err := cii.NewReader().Read(strings.NewReader(mutated))
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Path, "ram:ID")
}

func TestReadUnknownRoot(t *testing.T) {
	_, err := cii.NewReader().Read(strings.NewReader(`<Order xmlns="urn:example:order"/>`))
	var detectErr *model.FormatDetectionError
	require.ErrorAs(t, err, &detectErr)
}

func TestStatedTotalsMismatchWarns(t *testing.T) {
	inv := sampleInvoice()
	data := writeCII(t, inv, model.Version23, model.ProfileComfort)
	mutated := strings.Replace(string(data),
		"<ram:GrandTotalAmount>529.87</ram:GrandTotalAmount>",
		"<ram:GrandTotalAmount>530.99</ram:GrandTotalAmount>", 1)
	require.NotEqual(t, string(data), mutated)

	got, err := cii.NewReader().Read(strings.NewReader(mutated))
	require.NoError(t, err)
	require.NotEmpty(t, got.Warnings)
	assert.Equal(t, "grand total", got.Warnings[0].Field)
}
