package einvoice

import (
	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

// Violation is one capability-matrix conflict between an invoice and a
// target rendition
type Violation struct {
	Field   string
	Message string
}

// Validate checks the invoice against the capability matrix for the target
// rendition without serializing: mandatory content that is absent and
// forbidden content that is present both report a violation. An empty result
// means the invoice maps cleanly. Totals are reconciled first, exactly as the
// writers would, so derivable totals never count as missing.
func Validate(inv *Invoice, format Format, version Version, p Profile) []Violation {
	inv.Warnings = calc.Reconcile(inv, calc.DefaultOptions())
	if !profile.SupportedCombination(format, version, p) {
		return []Violation{{
			Field:   "profile",
			Message: "profile " + p.String() + " has no " + format.String() + " " + version.String() + " mapping",
		}}
	}

	var out []Violation
	for _, f := range profile.Fields() {
		present := fieldPresent(inv, f)
		switch profile.Lookup(format, version, p, f) {
		case profile.Mandatory:
			if !present {
				out = append(out, Violation{Field: f.String(), Message: f.String() + " is mandatory for " + p.String()})
			}
		case profile.Forbidden:
			if present {
				out = append(out, Violation{Field: f.String(), Message: f.String() + " is not allowed in " + p.String()})
			}
		}
	}
	for _, li := range inv.Lines {
		if !profile.TaxCategoryAllowed(p, li.Tax.CategoryCode) {
			out = append(out, Violation{
				Field:   "line " + li.LineID,
				Message: "tax category " + li.Tax.CategoryCode + " not in the profile's code list",
			})
		}
	}
	return out
}

func anyParty(parties []*model.Party, pred func(*model.Party) bool) bool {
	for _, p := range parties {
		if p != nil && pred(p) {
			return true
		}
	}
	return false
}

func fieldPresent(inv *Invoice, f profile.Field) bool {
	headParties := []*model.Party{inv.Seller, inv.Buyer}

	switch f {
	case profile.FieldLineItems:
		return len(inv.Lines) > 0
	case profile.FieldNotes:
		return len(inv.Notes) > 0
	case profile.FieldBuyerReference:
		return inv.BuyerReference != ""
	case profile.FieldDeliveryDate:
		return inv.DeliveryDate != nil
	case profile.FieldBillingPeriod:
		return inv.BillingPeriodStart != nil || inv.BillingPeriodEnd != nil
	case profile.FieldInvoicee:
		return inv.Invoicee != nil
	case profile.FieldPayee:
		return inv.Payee != nil
	case profile.FieldShipTo:
		return inv.ShipTo != nil
	case profile.FieldShipFrom:
		return inv.ShipFrom != nil
	case profile.FieldUltimateShipTo:
		return inv.UltimateShipTo != nil
	case profile.FieldPartyContact:
		return anyParty(headParties, func(p *model.Party) bool { return p.Contact != nil })
	case profile.FieldPartyGlobalID:
		return anyParty(headParties, func(p *model.Party) bool { return p.GlobalID != nil })
	case profile.FieldLegalOrganization:
		return anyParty(headParties, func(p *model.Party) bool { return p.LegalOrganization != nil })
	case profile.FieldElectronicAddress:
		return anyParty(headParties, func(p *model.Party) bool { return p.ElectronicAddress != nil })
	case profile.FieldAllowanceCharges:
		return len(inv.AllowanceCharges) > 0
	case profile.FieldServiceCharges:
		return len(inv.ServiceCharges) > 0
	case profile.FieldPaymentTerms:
		return len(inv.PaymentTerms) > 0
	case profile.FieldPaymentTermsDiscount:
		for _, pt := range inv.PaymentTerms {
			if pt.Discount != nil {
				return true
			}
		}
		return false
	case profile.FieldPaymentMeans:
		return inv.PaymentMeans != nil
	case profile.FieldBankAccounts:
		return len(inv.CreditorAccounts) > 0 || len(inv.DebitorAccounts) > 0
	case profile.FieldSEPAFields:
		return inv.PaymentMeans != nil &&
			(inv.PaymentMeans.SEPACreditorID != "" || inv.PaymentMeans.SEPAMandateReference != "")
	case profile.FieldTaxDetail:
		return len(inv.Taxes) > 0
	case profile.FieldTaxExemptionReason:
		for _, t := range inv.Taxes {
			if t.ExemptionReason != "" || t.ExemptionReasonCode != "" {
				return true
			}
		}
		return false
	case profile.FieldTotalsLineTotal:
		return inv.Totals.LineTotal != nil
	case profile.FieldTotalsTaxBasis:
		return inv.Totals.TaxBasis != nil
	case profile.FieldTotalsRounding:
		return inv.Totals.Rounding != nil
	case profile.FieldTotalsPrepaid:
		return inv.Totals.Prepaid != nil
	case profile.FieldReferenceOrder:
		return inv.FirstReferenceOfKind(model.KindOrder) != nil
	case profile.FieldReferenceContract:
		return inv.FirstReferenceOfKind(model.KindContract) != nil
	case profile.FieldReferenceDeliveryNote:
		return inv.FirstReferenceOfKind(model.KindDeliveryNote) != nil
	case profile.FieldReferenceInvoice:
		return inv.FirstReferenceOfKind(model.KindInvoice) != nil
	case profile.FieldReferenceDespatchAdvice:
		return inv.FirstReferenceOfKind(model.KindDespatchAdvice) != nil
	case profile.FieldReferenceAdditional:
		return inv.FirstReferenceOfKind(model.KindAdditional) != nil
	case profile.FieldLineNotes:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return len(li.Notes) > 0 })
	case profile.FieldLineGrossPrice:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return li.GrossPrice != nil })
	case profile.FieldLineAllowanceCharges:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return len(li.AllowanceCharges) > 0 })
	case profile.FieldLineReferences:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return len(li.References) > 0 })
	case profile.FieldLineBillingPeriod:
		return anyLine(inv, func(li *model.TradeLineItem) bool {
			return li.BillingPeriodStart != nil || li.BillingPeriodEnd != nil
		})
	case profile.FieldLineCharacteristics:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return len(li.Characteristics) > 0 })
	case profile.FieldLineIncludedItems:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return len(li.IncludedItems) > 0 })
	case profile.FieldLineAccountingAccount:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return li.AccountingAccount != "" })
	case profile.FieldLineShipTo:
		return anyLine(inv, func(li *model.TradeLineItem) bool { return li.ShipTo != nil || li.UltimateShipTo != nil })
	}
	return false
}

func anyLine(inv *Invoice, pred func(*model.TradeLineItem) bool) bool {
	for _, li := range inv.Lines {
		if pred(li) {
			return true
		}
	}
	return false
}
