package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-codec/internal/model"
)

func TestInvoice_Defaults(t *testing.T) {
	inv := model.NewInvoice()

	assert.Equal(t, model.TypeCodeInvoice, inv.TypeCode)
	assert.Equal(t, "EUR", inv.Currency)
	require.NotNil(t, inv.Seller)
	require.NotNil(t, inv.Buyer)
	assert.Empty(t, inv.Lines)
}

func TestInvoice_AddTradeLineItem_SequentialIDs(t *testing.T) {
	inv := model.NewInvoice()

	first := inv.AddTradeLineItem(&model.TradeLineItem{Name: "Widget"})
	second := inv.AddTradeLineItem(&model.TradeLineItem{Name: "Gadget"})

	assert.Equal(t, "1", first.LineID)
	assert.Equal(t, "2", second.LineID)
}

func TestInvoice_AddTradeLineItem_ExplicitIDs(t *testing.T) {
	inv := model.NewInvoice()

	inv.AddTradeLineItem(&model.TradeLineItem{LineID: "item-01"})
	inv.AddTradeLineItem(&model.TradeLineItem{LineID: "item-02"})

	assert.Equal(t, "item-01", inv.Lines[0].LineID)
	assert.Equal(t, "item-02", inv.Lines[1].LineID)
}

func TestInvoice_AddTradeLineItem_SkipsTakenIDs(t *testing.T) {
	inv := model.NewInvoice()

	inv.AddTradeLineItem(&model.TradeLineItem{LineID: "1"})
	auto := inv.AddTradeLineItem(&model.TradeLineItem{})

	assert.Equal(t, "2", auto.LineID)
}

func TestTradeLineItem_NetAmount(t *testing.T) {
	li := &model.TradeLineItem{
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(10), Unit: model.UnitPiece},
		NetPrice:       model.Price{Amount: decimal.RequireFromString("19.80")},
	}

	assert.True(t, li.NetAmount().Equal(decimal.RequireFromString("198.00")),
		"expected 198.00, got %s", li.NetAmount())
}

func TestTradeLineItem_NetAmount_BasisQuantity(t *testing.T) {
	// 250 pieces priced at 20.00 per 100 pieces
	li := &model.TradeLineItem{
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(250), Unit: model.UnitPiece},
		NetPrice: model.Price{
			Amount:   decimal.NewFromInt(20),
			Quantity: &model.Quantity{Amount: decimal.NewFromInt(100), Unit: model.UnitPiece},
		},
	}

	assert.True(t, li.NetAmount().Equal(decimal.NewFromInt(50)))
}

func TestTradeLineItem_NetAmount_AllowanceCharge(t *testing.T) {
	li := &model.TradeLineItem{
		BilledQuantity: model.Quantity{Amount: decimal.NewFromInt(1)},
		NetPrice:       model.Price{Amount: decimal.NewFromInt(100)},
		AllowanceCharges: []model.AllowanceCharge{
			{ChargeIndicator: false, ActualAmount: decimal.NewFromInt(10)},
			{ChargeIndicator: true, ActualAmount: decimal.NewFromInt(5)},
		},
	}

	assert.True(t, li.NetAmount().Equal(decimal.NewFromInt(95)))
}

func TestParty_SetGlobalID(t *testing.T) {
	p := &model.Party{}

	require.NoError(t, p.SetGlobalID(model.SchemeGLN, "4000001123452"))
	require.NotNil(t, p.GlobalID)
	assert.Equal(t, "0088", p.GlobalID.SchemeID)
	assert.Equal(t, "4000001123452", p.GlobalID.ID)
}

func TestParty_SetGlobalID_Invalid(t *testing.T) {
	p := &model.Party{}

	require.Error(t, p.SetGlobalID("", "123"))
	require.Error(t, p.SetGlobalID("GLN", "123"))
	assert.Nil(t, p.GlobalID, "party must stay unchanged on invalid input")
}

func TestResolveDate_QualifiedWins(t *testing.T) {
	got, err := model.ResolveDate(model.DateFormatYMD, "20240131", "2023-12-24", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestResolveDate_PlainFallback(t *testing.T) {
	got, err := model.ResolveDate("", "", "2023-12-24", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC), got)
}

func TestResolveDate_Default(t *testing.T) {
	def := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := model.ResolveDate("", "", "", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestResolveDate_MalformedIsError(t *testing.T) {
	_, err := model.ResolveDate(model.DateFormatYMD, "31.01.2024", "", time.Now())
	require.Error(t, err, "unparseable values must not fall through to the default")
}

func TestParseQualifiedDate_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		value  string
		want   time.Time
	}{
		{"102 full date", model.DateFormatYMD, "20240229", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"610 year-month", model.DateFormatYM, "202403", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseQualifiedDate(tt.format, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatQualifiedDate_RoundTrip(t *testing.T) {
	day := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	s := model.FormatQualifiedDate(model.DateFormatYMD, day)
	assert.Equal(t, "20241105", s)

	back, err := model.ParseQualifiedDate(model.DateFormatYMD, s)
	require.NoError(t, err)
	assert.Equal(t, day, back)
}

func TestMimeTypeForFilename(t *testing.T) {
	assert.Equal(t, "application/pdf", model.MimeTypeForFilename("timesheet.PDF"))
	assert.Equal(t, "text/csv", model.MimeTypeForFilename("detail.csv"))
	assert.Equal(t, "application/octet-stream", model.MimeTypeForFilename("unknown.bin"))
}

func TestNewAdditionalDocument(t *testing.T) {
	doc := model.NewAdditionalDocument("DOC-1", "Timesheet", "timesheet.pdf", []byte("%PDF-1.4"))

	assert.Equal(t, model.KindAdditional, doc.Kind)
	assert.Equal(t, "916", doc.TypeCode)
	require.NotNil(t, doc.Attachment)
	assert.Equal(t, "application/pdf", doc.Attachment.MimeType)
}

func TestInvoice_ReferencesOfKind(t *testing.T) {
	inv := model.NewInvoice()
	inv.AddReference(model.ReferencedDocument{Kind: model.KindOrder, ID: "PO-77"})
	inv.AddReference(model.ReferencedDocument{Kind: model.KindContract, ID: "C-1"})
	inv.AddReference(model.ReferencedDocument{Kind: model.KindOrder, ID: "PO-78"})

	orders := inv.ReferencesOfKind(model.KindOrder)
	require.Len(t, orders, 2)
	assert.Equal(t, "PO-77", orders[0].ID)
	assert.Equal(t, "PO-78", orders[1].ID)

	contract := inv.FirstReferenceOfKind(model.KindContract)
	require.NotNil(t, contract)
	assert.Equal(t, "C-1", contract.ID)

	assert.Nil(t, inv.FirstReferenceOfKind(model.KindDespatchAdvice))
}

func TestUnsupportedError_Format(t *testing.T) {
	err := model.NewUnsupportedCombination(model.FormatUBL, model.Version20, model.ProfileBasic, "no UBL mapping")

	require.Contains(t, err.Error(), "UBL")
	require.Contains(t, err.Error(), "2.0")
	require.Contains(t, err.Error(), "no UBL mapping")
}

func TestParseError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := model.NewParseError("rsm:ExchangedDocument/ram:ID", "missing", cause)

	require.Contains(t, err.Error(), "rsm:ExchangedDocument/ram:ID")
	require.ErrorIs(t, err, cause)
}

func TestFormatDetectionError(t *testing.T) {
	err := model.NewFormatDetectionError("Order", "urn:example:order")

	require.Contains(t, err.Error(), "Order")
	require.Contains(t, err.Error(), "urn:example:order")
}
