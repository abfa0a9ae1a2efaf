// Package cii serializes and parses the UN/CEFACT Cross Industry Invoice
// grammar across the five supported standard revisions.
package cii

import (
	"bytes"
	"encoding/base64"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

// Writer serializes an invoice into CII XML for one (version, profile) pair
type Writer struct {
	version model.Version
	profile model.Profile
}

// NewWriter creates a CII writer for the given version and profile
func NewWriter(version model.Version, p model.Profile) *Writer {
	return &Writer{version: version, profile: p}
}

// Write validates the combination, reconciles totals, and emits the document
// as UTF-8 XML. Nothing reaches out until the whole document built, so a
// failed save leaves the destination untouched.
func (w *Writer) Write(inv *model.Invoice, out io.Writer) error {
	if !profile.SupportedCombination(model.FormatCII, w.version, w.profile) {
		return model.NewUnsupportedCombination(model.FormatCII, w.version, w.profile, "no CII mapping for this combination")
	}
	if err := w.checkTaxCodes(inv); err != nil {
		return err
	}
	calc.Reconcile(inv, calc.DefaultOptions())

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	if w.version == model.Version1 {
		w.buildV1(doc, inv)
	} else {
		w.buildV2(doc, inv)
	}
	doc.Indent(2)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func (w *Writer) checkTaxCodes(inv *model.Invoice) error {
	for _, li := range inv.Lines {
		if li.Tax.CategoryCode != "" && !profile.TaxCategoryAllowed(w.profile, li.Tax.CategoryCode) {
			return model.NewUnsupportedCombination(model.FormatCII, w.version, w.profile,
				"line "+li.LineID+": tax category code "+li.Tax.CategoryCode+" not allowed")
		}
	}
	return nil
}

func (w *Writer) avail(f profile.Field) profile.Availability {
	return profile.Lookup(model.FormatCII, w.version, w.profile, f)
}

func (w *Writer) allowed(f profile.Field) bool {
	return w.avail(f) != profile.Forbidden
}

// buildV2 emits the CrossIndustryInvoice grammar (2.0 and the 2.1–2.3 family)
func (w *Writer) buildV2(doc *etree.Document, inv *model.Invoice) {
	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NsRSM2)
	root.CreateAttr("xmlns:ram", NsRAM2)
	root.CreateAttr("xmlns:udt", NsUDT2)
	root.CreateAttr("xmlns:qdt", NsQDT2)

	ctx := xmlutil.El(root, "rsm:ExchangedDocumentContext")
	if inv.IsTest {
		ind := xmlutil.El(ctx, "ram:TestIndicator")
		xmlutil.Text(ind, "udt:Indicator", "true")
	}
	if inv.BusinessProcess != "" {
		bp := xmlutil.El(ctx, "ram:BusinessProcessSpecifiedDocumentContextParameter")
		xmlutil.Text(bp, "ram:ID", inv.BusinessProcess)
	}
	guide := xmlutil.El(ctx, "ram:GuidelineSpecifiedDocumentContextParameter")
	xmlutil.Text(guide, "ram:ID", guidelineID(w.version, w.profile))

	exDoc := xmlutil.El(root, "rsm:ExchangedDocument")
	xmlutil.Text(exDoc, "ram:ID", inv.Number)
	xmlutil.Text(exDoc, "ram:TypeCode", inv.TypeCode)
	if inv.IssueDate != nil {
		writeUDTDate(exDoc, "ram:IssueDateTime", *inv.IssueDate)
	}
	if w.allowed(profile.FieldNotes) {
		for _, note := range inv.Notes {
			n := xmlutil.El(exDoc, "ram:IncludedNote")
			xmlutil.Text(n, "ram:Content", note.Text)
			xmlutil.TextIf(n, "ram:SubjectCode", note.SubjectCode)
		}
	}

	tx := xmlutil.El(root, "rsm:SupplyChainTradeTransaction")

	if w.allowed(profile.FieldLineItems) {
		for _, li := range inv.Lines {
			w.writeLineV2(tx, inv, li)
		}
	}

	agreement := xmlutil.El(tx, "ram:ApplicableHeaderTradeAgreement")
	if w.allowed(profile.FieldBuyerReference) {
		xmlutil.TextIf(agreement, "ram:BuyerReference", inv.BuyerReference)
	}
	w.writeParty(agreement, "ram:SellerTradeParty", inv.Seller, true)
	w.writeParty(agreement, "ram:BuyerTradeParty", inv.Buyer, true)
	if doc := inv.FirstReferenceOfKind(model.KindOrder); doc != nil && w.referenceAllowed(model.KindOrder) {
		w.writeReference(agreement, "ram:BuyerOrderReferencedDocument", *doc)
	}
	if doc := inv.FirstReferenceOfKind(model.KindContract); doc != nil && w.referenceAllowed(model.KindContract) {
		w.writeReference(agreement, "ram:ContractReferencedDocument", *doc)
	}
	if w.referenceAllowed(model.KindAdditional) {
		for _, doc := range inv.ReferencesOfKind(model.KindAdditional) {
			w.writeReference(agreement, "ram:AdditionalReferencedDocument", doc)
		}
	}

	delivery := xmlutil.El(tx, "ram:ApplicableHeaderTradeDelivery")
	if w.allowed(profile.FieldShipTo) && inv.ShipTo != nil {
		w.writeParty(delivery, "ram:ShipToTradeParty", inv.ShipTo, false)
	}
	if w.allowed(profile.FieldUltimateShipTo) && inv.UltimateShipTo != nil {
		w.writeParty(delivery, "ram:UltimateShipToTradeParty", inv.UltimateShipTo, false)
	}
	if w.allowed(profile.FieldShipFrom) && inv.ShipFrom != nil {
		w.writeParty(delivery, "ram:ShipFromTradeParty", inv.ShipFrom, false)
	}
	if w.allowed(profile.FieldDeliveryDate) && inv.DeliveryDate != nil {
		event := xmlutil.El(delivery, "ram:ActualDeliverySupplyChainEvent")
		writeUDTDate(event, "ram:OccurrenceDateTime", *inv.DeliveryDate)
	}
	if doc := inv.FirstReferenceOfKind(model.KindDespatchAdvice); doc != nil && w.referenceAllowed(model.KindDespatchAdvice) {
		w.writeReference(delivery, "ram:DespatchAdviceReferencedDocument", *doc)
	}
	if doc := inv.FirstReferenceOfKind(model.KindDeliveryNote); doc != nil && w.referenceAllowed(model.KindDeliveryNote) {
		w.writeReference(delivery, "ram:DeliveryNoteReferencedDocument", *doc)
	}

	settlement := xmlutil.El(tx, "ram:ApplicableHeaderTradeSettlement")
	w.writeSettlement(settlement, inv, "ram:SpecifiedTradeSettlementHeaderMonetarySummation")
}

func (w *Writer) writeSettlement(settlement *etree.Element, inv *model.Invoice, sumTag string) {
	means := inv.PaymentMeans
	if w.allowed(profile.FieldSEPAFields) && means != nil {
		xmlutil.TextIf(settlement, "ram:CreditorReferenceID", means.SEPACreditorID)
	}
	xmlutil.Text(settlement, "ram:InvoiceCurrencyCode", inv.Currency)
	if w.allowed(profile.FieldInvoicee) && inv.Invoicee != nil {
		w.writeParty(settlement, "ram:InvoiceeTradeParty", inv.Invoicee, true)
	}
	if w.allowed(profile.FieldPayee) && inv.Payee != nil {
		w.writeParty(settlement, "ram:PayeeTradeParty", inv.Payee, false)
	}
	if w.allowed(profile.FieldPaymentMeans) {
		w.writePaymentMeans(settlement, inv)
	}
	if w.allowed(profile.FieldTaxDetail) {
		for _, tax := range inv.Taxes {
			w.writeHeaderTax(settlement, tax)
		}
	}
	if w.allowed(profile.FieldBillingPeriod) && (inv.BillingPeriodStart != nil || inv.BillingPeriodEnd != nil) {
		writePeriod(settlement, inv.BillingPeriodStart, inv.BillingPeriodEnd)
	}
	if w.allowed(profile.FieldAllowanceCharges) {
		for _, ac := range inv.AllowanceCharges {
			w.writeAllowanceCharge(settlement, ac)
		}
	}
	if w.allowed(profile.FieldServiceCharges) {
		for _, sc := range inv.ServiceCharges {
			el := xmlutil.El(settlement, "ram:SpecifiedLogisticsServiceCharge")
			xmlutil.Text(el, "ram:Description", sc.Description)
			xmlutil.Text(el, "ram:AppliedAmount", calc.FormatAmount(sc.Amount))
			for _, t := range sc.Taxes {
				tt := xmlutil.El(el, "ram:AppliedTradeTax")
				xmlutil.Text(tt, "ram:TypeCode", t.TypeCode)
				xmlutil.Text(tt, "ram:CategoryCode", t.CategoryCode)
				xmlutil.Text(tt, w.rateTag(), calc.FormatPercent(t.Percent))
			}
		}
	}
	if w.allowed(profile.FieldPaymentTerms) {
		for _, pt := range inv.PaymentTerms {
			w.writePaymentTerms(settlement, inv, pt)
		}
	}

	sum := xmlutil.El(settlement, sumTag)
	totals := inv.Totals
	if w.allowed(profile.FieldTotalsLineTotal) {
		writeOptAmount(sum, "ram:LineTotalAmount", totals.LineTotal)
	}
	if w.allowed(profile.FieldAllowanceCharges) {
		writeOptAmount(sum, "ram:ChargeTotalAmount", totals.ChargeTotal)
		writeOptAmount(sum, "ram:AllowanceTotalAmount", totals.AllowanceTotal)
	}
	writeOptAmount(sum, "ram:TaxBasisTotalAmount", totals.TaxBasis)
	if totals.TaxTotal != nil {
		e := xmlutil.Text(sum, "ram:TaxTotalAmount", calc.FormatAmount(*totals.TaxTotal))
		e.CreateAttr("currencyID", inv.Currency)
	}
	if w.allowed(profile.FieldTotalsRounding) {
		writeOptAmount(sum, "ram:RoundingAmount", totals.Rounding)
	}
	writeOptAmount(sum, "ram:GrandTotalAmount", totals.GrandTotal)
	if w.allowed(profile.FieldTotalsPrepaid) {
		writeOptAmount(sum, "ram:TotalPrepaidAmount", totals.Prepaid)
	}
	writeOptAmount(sum, "ram:DuePayableAmount", totals.DuePayable)

	if w.referenceAllowed(model.KindInvoice) {
		for _, doc := range inv.ReferencesOfKind(model.KindInvoice) {
			w.writeReference(settlement, "ram:InvoiceReferencedDocument", doc)
		}
	}
}

func (w *Writer) writePaymentMeans(settlement *etree.Element, inv *model.Invoice) {
	means := inv.PaymentMeans
	if means == nil && len(inv.CreditorAccounts) == 0 {
		return
	}
	typeCode := model.PaymentMeansNotDefined
	info := ""
	if means != nil {
		typeCode = means.TypeCode
		info = means.Information
	}

	writeOne := func(creditor *model.BankAccount) {
		el := xmlutil.El(settlement, "ram:SpecifiedTradeSettlementPaymentMeans")
		xmlutil.Text(el, "ram:TypeCode", typeCode)
		xmlutil.TextIf(el, "ram:Information", info)
		if means != nil && means.Card != nil {
			card := xmlutil.El(el, "ram:ApplicableTradeSettlementFinancialCard")
			xmlutil.Text(card, "ram:ID", means.Card.ID)
			xmlutil.TextIf(card, "ram:CardholderName", means.Card.HolderName)
		}
		for _, debitor := range inv.DebitorAccounts {
			acct := xmlutil.El(el, "ram:PayerPartyDebtorFinancialAccount")
			xmlutil.TextIf(acct, "ram:IBANID", debitor.IBAN)
			xmlutil.TextIf(acct, "ram:ProprietaryID", debitor.ID)
			// an empty BIC must suppress the institution wrapper entirely;
			// an empty element is invalid against the schema
			if debitor.BIC != "" {
				inst := xmlutil.El(el, "ram:PayerSpecifiedDebtorFinancialInstitution")
				xmlutil.Text(inst, "ram:BICID", debitor.BIC)
			}
		}
		if creditor != nil {
			acct := xmlutil.El(el, "ram:PayeePartyCreditorFinancialAccount")
			xmlutil.TextIf(acct, "ram:IBANID", creditor.IBAN)
			xmlutil.TextIf(acct, "ram:AccountName", creditor.AccountName)
			xmlutil.TextIf(acct, "ram:ProprietaryID", creditor.ID)
			if creditor.BIC != "" {
				inst := xmlutil.El(el, "ram:PayeeSpecifiedCreditorFinancialInstitution")
				xmlutil.Text(inst, "ram:BICID", creditor.BIC)
			}
		}
	}

	if len(inv.CreditorAccounts) == 0 {
		writeOne(nil)
		return
	}
	for i := range inv.CreditorAccounts {
		writeOne(&inv.CreditorAccounts[i])
	}
}

func (w *Writer) writePaymentTerms(settlement *etree.Element, inv *model.Invoice, pt *model.PaymentTerms) {
	el := xmlutil.El(settlement, "ram:SpecifiedTradePaymentTerms")
	xmlutil.TextIf(el, "ram:Description", pt.Description)
	if pt.DueDate != nil {
		writeUDTDate(el, "ram:DueDateDateTime", *pt.DueDate)
	}
	if w.allowed(profile.FieldSEPAFields) && inv.PaymentMeans != nil {
		xmlutil.TextIf(el, "ram:DirectDebitMandateID", inv.PaymentMeans.SEPAMandateReference)
	}
	if pt.Discount != nil && w.avail(profile.FieldPaymentTermsDiscount) != profile.Forbidden {
		disc := xmlutil.El(el, "ram:ApplicableTradePaymentDiscountTerms")
		measure := xmlutil.Text(disc, "ram:BasisPeriodMeasure", intString(pt.Discount.DueDays))
		measure.CreateAttr("unitCode", model.UnitDay)
		writeOptAmount(disc, "ram:BasisAmount", pt.Discount.BasisAmount)
		xmlutil.Text(disc, "ram:CalculationPercent", calc.FormatPercent(pt.Discount.Percent))
		writeOptAmount(disc, "ram:ActualDiscountAmount", pt.Discount.ActualAmount)
	}
}

// rateTag returns the rate element name, which the first revision spelled
// without the "Rate" prefix
func (w *Writer) rateTag() string {
	if w.version == model.Version1 {
		return "ram:ApplicablePercent"
	}
	return "ram:RateApplicablePercent"
}

func (w *Writer) writeHeaderTax(settlement *etree.Element, tax model.Tax) {
	el := xmlutil.El(settlement, "ram:ApplicableTradeTax")
	if tax.Amount != nil {
		xmlutil.Text(el, "ram:CalculatedAmount", calc.FormatAmount(*tax.Amount))
	}
	xmlutil.Text(el, "ram:TypeCode", tax.TypeCode)
	if w.allowed(profile.FieldTaxExemptionReason) {
		xmlutil.TextIf(el, "ram:ExemptionReason", tax.ExemptionReason)
	}
	xmlutil.Text(el, "ram:BasisAmount", calc.FormatAmount(tax.Basis))
	// zero or absent allowance-charge basis suppresses the element
	if tax.AllowanceChargeBasisAmount != nil && !tax.AllowanceChargeBasisAmount.IsZero() {
		xmlutil.Text(el, "ram:AllowanceChargeBasisAmount", calc.FormatAmount(*tax.AllowanceChargeBasisAmount))
	}
	xmlutil.Text(el, "ram:CategoryCode", tax.CategoryCode)
	if w.allowed(profile.FieldTaxExemptionReason) {
		xmlutil.TextIf(el, "ram:ExemptionReasonCode", tax.ExemptionReasonCode)
	}
	xmlutil.Text(el, w.rateTag(), calc.FormatPercent(tax.Percent))
}

func (w *Writer) writeAllowanceCharge(parent *etree.Element, ac model.AllowanceCharge) {
	el := xmlutil.El(parent, "ram:SpecifiedTradeAllowanceCharge")
	ind := xmlutil.El(el, "ram:ChargeIndicator")
	xmlutil.Text(ind, "udt:Indicator", boolString(ac.ChargeIndicator))
	if ac.Percent != nil && !ac.Percent.IsZero() {
		xmlutil.Text(el, "ram:CalculationPercent", calc.FormatPercent(*ac.Percent))
	}
	if ac.BasisAmount != nil && !ac.BasisAmount.IsZero() {
		xmlutil.Text(el, "ram:BasisAmount", calc.FormatAmount(*ac.BasisAmount))
	}
	xmlutil.Text(el, "ram:ActualAmount", calc.FormatAmount(ac.ActualAmount))
	xmlutil.TextIf(el, "ram:ReasonCode", ac.ReasonCode)
	xmlutil.TextIf(el, "ram:Reason", ac.Reason)
	if ac.Tax.TypeCode != "" || ac.Tax.CategoryCode != "" {
		tt := xmlutil.El(el, "ram:CategoryTradeTax")
		xmlutil.Text(tt, "ram:TypeCode", ac.Tax.TypeCode)
		xmlutil.Text(tt, "ram:CategoryCode", ac.Tax.CategoryCode)
		xmlutil.Text(tt, w.rateTag(), calc.FormatPercent(ac.Tax.Percent))
	}
}

func (w *Writer) referenceAllowed(kind model.DocumentKind) bool {
	return w.allowed(profile.ReferenceField(kind))
}

func (w *Writer) writeReference(parent *etree.Element, tag string, doc model.ReferencedDocument) {
	el := xmlutil.El(parent, tag)
	xmlutil.Text(el, "ram:IssuerAssignedID", doc.ID)
	xmlutil.TextIf(el, "ram:URIID", doc.URI)
	xmlutil.TextIf(el, "ram:LineID", doc.LineID)
	xmlutil.TextIf(el, "ram:TypeCode", doc.TypeCode)
	xmlutil.TextIf(el, "ram:Name", doc.Name)
	if doc.Attachment != nil {
		bin := xmlutil.Text(el, "ram:AttachmentBinaryObject", base64.StdEncoding.EncodeToString(doc.Attachment.Data))
		bin.CreateAttr("mimeCode", doc.Attachment.MimeType)
		bin.CreateAttr("filename", doc.Attachment.Filename)
	}
	xmlutil.TextIf(el, "ram:ReferenceTypeCode", doc.ReferenceTypeCode)
	if doc.IssueDate != nil {
		w.writeFormattedDate(el, "ram:FormattedIssueDateTime", *doc.IssueDate)
	}
}

func (w *Writer) writeLineV2(tx *etree.Element, inv *model.Invoice, li *model.TradeLineItem) {
	line := xmlutil.El(tx, "ram:IncludedSupplyChainTradeLineItem")

	assoc := xmlutil.El(line, "ram:AssociatedDocumentLineDocument")
	xmlutil.Text(assoc, "ram:LineID", li.LineID)
	if w.profile == model.ProfileExtended {
		xmlutil.TextIf(assoc, "ram:ParentLineID", li.ParentLineID)
		xmlutil.TextIf(assoc, "ram:LineStatusCode", li.LineStatusCode)
		xmlutil.TextIf(assoc, "ram:LineStatusReasonCode", li.LineStatusReasonCode)
	}
	if w.allowed(profile.FieldLineNotes) {
		for _, note := range li.Notes {
			n := xmlutil.El(assoc, "ram:IncludedNote")
			xmlutil.Text(n, "ram:Content", note)
		}
	}

	product := xmlutil.El(line, "ram:SpecifiedTradeProduct")
	if li.GlobalID != nil {
		g := xmlutil.Text(product, "ram:GlobalID", li.GlobalID.ID)
		g.CreateAttr("schemeID", li.GlobalID.SchemeID)
	}
	xmlutil.TextIf(product, "ram:SellerAssignedID", li.SellerAssignedID)
	xmlutil.TextIf(product, "ram:BuyerAssignedID", li.BuyerAssignedID)
	xmlutil.Text(product, "ram:Name", li.Name)
	xmlutil.TextIf(product, "ram:Description", li.Description)
	if w.allowed(profile.FieldLineCharacteristics) {
		for _, ch := range li.Characteristics {
			c := xmlutil.El(product, "ram:ApplicableProductCharacteristic")
			xmlutil.Text(c, "ram:Description", ch.Description)
			xmlutil.Text(c, "ram:Value", ch.Value)
		}
	}
	if w.allowed(profile.FieldLineIncludedItems) {
		for _, inc := range li.IncludedItems {
			e := xmlutil.El(product, "ram:IncludedReferencedProduct")
			if inc.GlobalID != nil {
				g := xmlutil.Text(e, "ram:GlobalID", inc.GlobalID.ID)
				g.CreateAttr("schemeID", inc.GlobalID.SchemeID)
			}
			xmlutil.Text(e, "ram:Name", inc.Name)
			if inc.Quantity != nil {
				q := xmlutil.Text(e, "ram:UnitQuantity", calc.FormatQuantity(inc.Quantity.Amount))
				q.CreateAttr("unitCode", inc.Quantity.Unit)
			}
		}
	}

	agreement := xmlutil.El(line, "ram:SpecifiedLineTradeAgreement")
	if w.allowed(profile.FieldLineReferences) {
		for _, doc := range li.References {
			if doc.Kind == model.KindOrder {
				ref := xmlutil.El(agreement, "ram:BuyerOrderReferencedDocument")
				xmlutil.TextIf(ref, "ram:IssuerAssignedID", doc.ID)
				xmlutil.TextIf(ref, "ram:LineID", doc.LineID)
			}
		}
		for _, doc := range li.References {
			if doc.Kind == model.KindAdditional {
				w.writeReference(agreement, "ram:AdditionalReferencedDocument", doc)
			}
		}
	}
	if w.allowed(profile.FieldLineGrossPrice) && li.GrossPrice != nil {
		gross := xmlutil.El(agreement, "ram:GrossPriceProductTradePrice")
		xmlutil.Text(gross, "ram:ChargeAmount", calc.FormatAmount(li.GrossPrice.Amount))
		writeBasisQuantity(gross, li.GrossPrice.Quantity)
	}
	net := xmlutil.El(agreement, "ram:NetPriceProductTradePrice")
	xmlutil.Text(net, "ram:ChargeAmount", calc.FormatAmount(li.NetPrice.Amount))
	writeBasisQuantity(net, li.NetPrice.Quantity)

	delivery := xmlutil.El(line, "ram:SpecifiedLineTradeDelivery")
	billed := xmlutil.Text(delivery, "ram:BilledQuantity", calc.FormatQuantity(li.BilledQuantity.Amount))
	billed.CreateAttr("unitCode", li.BilledQuantity.Unit)
	if li.ChargeFreeQuantity != nil {
		q := xmlutil.Text(delivery, "ram:ChargeFreeQuantity", calc.FormatQuantity(li.ChargeFreeQuantity.Amount))
		q.CreateAttr("unitCode", li.ChargeFreeQuantity.Unit)
	}
	if li.PackageQuantity != nil {
		q := xmlutil.Text(delivery, "ram:PackageQuantity", calc.FormatQuantity(li.PackageQuantity.Amount))
		q.CreateAttr("unitCode", li.PackageQuantity.Unit)
	}
	if w.allowed(profile.FieldLineShipTo) {
		if li.ShipTo != nil {
			w.writeParty(delivery, "ram:ShipToTradeParty", li.ShipTo, false)
		}
		if li.UltimateShipTo != nil {
			w.writeParty(delivery, "ram:UltimateShipToTradeParty", li.UltimateShipTo, false)
		}
	}

	settlement := xmlutil.El(line, "ram:SpecifiedLineTradeSettlement")
	tax := xmlutil.El(settlement, "ram:ApplicableTradeTax")
	xmlutil.Text(tax, "ram:TypeCode", li.Tax.TypeCode)
	xmlutil.TextIf(tax, "ram:ExemptionReason", li.Tax.ExemptionReason)
	xmlutil.Text(tax, "ram:CategoryCode", li.Tax.CategoryCode)
	xmlutil.Text(tax, "ram:RateApplicablePercent", calc.FormatPercent(li.Tax.Percent))
	if w.allowed(profile.FieldLineBillingPeriod) && (li.BillingPeriodStart != nil || li.BillingPeriodEnd != nil) {
		writePeriod(settlement, li.BillingPeriodStart, li.BillingPeriodEnd)
	}
	if w.allowed(profile.FieldLineAllowanceCharges) {
		for _, ac := range li.AllowanceCharges {
			w.writeAllowanceCharge(settlement, ac)
		}
	}
	sum := xmlutil.El(settlement, "ram:SpecifiedTradeSettlementLineMonetarySummation")
	lineTotal := li.LineTotal
	if lineTotal == nil {
		lineTotal = model.D(calc.Round2(li.NetAmount()))
	}
	xmlutil.Text(sum, "ram:LineTotalAmount", calc.FormatAmount(*lineTotal))
	if w.allowed(profile.FieldLineAccountingAccount) && li.AccountingAccount != "" {
		acct := xmlutil.El(settlement, "ram:ReceivableSpecifiedTradeAccountingAccount")
		xmlutil.Text(acct, "ram:ID", li.AccountingAccount)
	}
}

func (w *Writer) writeParty(parent *etree.Element, tag string, p *model.Party, full bool) {
	if p == nil {
		return
	}
	el := xmlutil.El(parent, tag)
	xmlutil.TextIf(el, "ram:ID", p.ID)
	if w.allowed(profile.FieldPartyGlobalID) && p.GlobalID != nil {
		g := xmlutil.Text(el, "ram:GlobalID", p.GlobalID.ID)
		g.CreateAttr("schemeID", p.GlobalID.SchemeID)
	}
	xmlutil.Text(el, "ram:Name", p.Name)
	if w.profile == model.ProfileExtended {
		xmlutil.TextIf(el, "ram:Description", p.Description)
	}
	if w.allowed(profile.FieldLegalOrganization) && p.LegalOrganization != nil {
		lo := xmlutil.El(el, "ram:SpecifiedLegalOrganization")
		id := xmlutil.Text(lo, "ram:ID", p.LegalOrganization.ID.ID)
		if p.LegalOrganization.ID.SchemeID != "" {
			id.CreateAttr("schemeID", p.LegalOrganization.ID.SchemeID)
		}
		xmlutil.TextIf(lo, "ram:TradingBusinessName", p.LegalOrganization.TradingName)
	}
	if full && w.allowed(profile.FieldPartyContact) && p.Contact != nil {
		c := xmlutil.El(el, "ram:DefinedTradeContact")
		xmlutil.TextIf(c, "ram:PersonName", p.Contact.Name)
		xmlutil.TextIf(c, "ram:DepartmentName", p.Contact.OrgUnit)
		if p.Contact.Phone != "" {
			t := xmlutil.El(c, "ram:TelephoneUniversalCommunication")
			xmlutil.Text(t, "ram:CompleteNumber", p.Contact.Phone)
		}
		if p.Contact.Fax != "" {
			f := xmlutil.El(c, "ram:FaxUniversalCommunication")
			xmlutil.Text(f, "ram:CompleteNumber", p.Contact.Fax)
		}
		if p.Contact.Email != "" {
			m := xmlutil.El(c, "ram:EmailURIUniversalCommunication")
			xmlutil.Text(m, "ram:URIID", p.Contact.Email)
		}
	}
	if p.Street != "" || p.City != "" || p.Country != "" || p.Postcode != "" {
		addr := xmlutil.El(el, "ram:PostalTradeAddress")
		xmlutil.TextIf(addr, "ram:PostcodeCode", p.Postcode)
		xmlutil.TextIf(addr, "ram:LineOne", p.Street)
		xmlutil.TextIf(addr, "ram:LineTwo", p.AddressLine2)
		xmlutil.TextIf(addr, "ram:LineThree", p.AddressLine3)
		xmlutil.TextIf(addr, "ram:CityName", p.City)
		xmlutil.TextIf(addr, "ram:CountryID", p.Country)
		xmlutil.TextIf(addr, "ram:CountrySubDivisionName", p.CountrySubdivision)
	}
	if w.allowed(profile.FieldElectronicAddress) && p.ElectronicAddress != nil {
		uc := xmlutil.El(el, "ram:URIUniversalCommunication")
		uri := xmlutil.Text(uc, "ram:URIID", p.ElectronicAddress.Address)
		uri.CreateAttr("schemeID", p.ElectronicAddress.SchemeID)
	}
	if full {
		if p.VATRegistration != "" {
			reg := xmlutil.El(el, "ram:SpecifiedTaxRegistration")
			id := xmlutil.Text(reg, "ram:ID", p.VATRegistration)
			id.CreateAttr("schemeID", "VA")
		}
		if p.TaxRegistration != "" {
			reg := xmlutil.El(el, "ram:SpecifiedTaxRegistration")
			id := xmlutil.Text(reg, "ram:ID", p.TaxRegistration)
			id.CreateAttr("schemeID", "FC")
		}
	}
}

// writeUDTDate emits <tag><udt:DateTimeString format="102">...</udt:...></tag>
func writeUDTDate(parent *etree.Element, tag string, t time.Time) {
	el := xmlutil.El(parent, tag)
	ds := xmlutil.Text(el, "udt:DateTimeString", model.FormatQualifiedDate(model.DateFormatYMD, t))
	ds.CreateAttr("format", model.DateFormatYMD)
}

// writeFormattedDate emits the qdt-flavored variant used inside referenced
// documents on the 2.x grammar; the first revision used udt there as well.
func (w *Writer) writeFormattedDate(parent *etree.Element, tag string, t time.Time) {
	el := xmlutil.El(parent, tag)
	inner := "qdt:DateTimeString"
	if w.version == model.Version1 {
		inner = "udt:DateTimeString"
	}
	ds := xmlutil.Text(el, inner, model.FormatQualifiedDate(model.DateFormatYMD, t))
	ds.CreateAttr("format", model.DateFormatYMD)
}

func writePeriod(parent *etree.Element, start, end *time.Time) {
	period := xmlutil.El(parent, "ram:BillingSpecifiedPeriod")
	if start != nil {
		writeUDTDate(period, "ram:StartDateTime", *start)
	}
	if end != nil {
		writeUDTDate(period, "ram:EndDateTime", *end)
	}
}

func writeBasisQuantity(price *etree.Element, q *model.Quantity) {
	if q == nil {
		return
	}
	e := xmlutil.Text(price, "ram:BasisQuantity", calc.FormatQuantity(q.Amount))
	e.CreateAttr("unitCode", q.Unit)
}

func writeOptAmount(parent *etree.Element, tag string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	xmlutil.Text(parent, tag, calc.FormatAmount(*d))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intString(i int) string {
	return strconv.Itoa(i)
}
