package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quantity couples an amount with its UN/ECE Recommendation 20 unit code
type Quantity struct {
	Amount decimal.Decimal
	Unit   string
}

// Common UN/ECE Rec 20 unit codes
const (
	UnitPiece = "H87" // piece
	UnitUnit  = "C62" // one (no unit)
	UnitHour  = "HUR"
	UnitDay   = "DAY"
	UnitKg    = "KGM"
	UnitLitre = "LTR"
	UnitMetre = "MTR"
)

// Price is a unit price with an optional basis quantity ("per 100 pieces")
type Price struct {
	Amount   decimal.Decimal
	Quantity *Quantity
}

// Characteristic is one product property (name/value pair)
type Characteristic struct {
	Description string
	Value       string
}

// IncludedItem is a sub-product contained in the line's product
type IncludedItem struct {
	Name     string
	GlobalID *GlobalID
	Quantity *Quantity
}

// TradeLineItem is one invoice line. LineID is assigned by
// Invoice.AddTradeLineItem when the caller leaves it empty.
type TradeLineItem struct {
	LineID string
	// ParentLineID references another line of the same invoice for
	// hierarchical (sub-)lines. Checked only when UBL needs the hierarchy.
	ParentLineID         string
	LineStatusCode       string
	LineStatusReasonCode string
	Notes                []string

	Name             string
	Description      string
	SellerAssignedID string
	BuyerAssignedID  string
	GlobalID         *GlobalID

	BilledQuantity     Quantity
	ChargeFreeQuantity *Quantity
	PackageQuantity    *Quantity

	GrossPrice *Price
	NetPrice   Price

	// Tax is the line's single applicable trade tax (type, category, percent)
	Tax Tax

	AllowanceCharges []AllowanceCharge
	References       []ReferencedDocument

	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time

	Characteristics []Characteristic
	IncludedItems   []IncludedItem

	// AccountingAccount is the buyer's accounting reference for this line
	AccountingAccount string

	ShipTo         *Party
	UltimateShipTo *Party

	// LineTotal is the net line amount. Nil when not yet reconciled.
	LineTotal *decimal.Decimal
}

// NetAmount returns the line's net total: net unit price times billed
// quantity, scaled by the price basis quantity when present. Intermediate
// precision is kept; callers round for presentation.
func (li *TradeLineItem) NetAmount() decimal.Decimal {
	amount := li.NetPrice.Amount.Mul(li.BilledQuantity.Amount)
	if q := li.NetPrice.Quantity; q != nil && !q.Amount.IsZero() {
		amount = amount.Div(q.Amount)
	}
	for _, ac := range li.AllowanceCharges {
		if ac.ChargeIndicator {
			amount = amount.Add(ac.ActualAmount)
		} else {
			amount = amount.Sub(ac.ActualAmount)
		}
	}
	return amount
}
