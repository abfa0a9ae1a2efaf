package ubl

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

// Writer serializes an invoice into the UBL Invoice grammar
type Writer struct {
	version model.Version
	profile model.Profile
}

// NewWriter creates a UBL writer for the given target revision and profile
func NewWriter(version model.Version, p model.Profile) *Writer {
	return &Writer{version: version, profile: p}
}

// Write serializes the invoice. Combinations with no UBL mapping and tax
// codes outside the profile's code list fail before a single byte reaches
// the destination.
func (w *Writer) Write(inv *model.Invoice, out io.Writer) error {
	if !profile.SupportedCombination(model.FormatUBL, w.version, w.profile) {
		return model.NewUnsupportedCombination(model.FormatUBL, w.version, w.profile, "no UBL mapping for this revision and profile")
	}
	for _, li := range inv.Lines {
		if !profile.TaxCategoryAllowed(w.profile, li.Tax.CategoryCode) {
			return model.NewUnsupportedCombination(model.FormatUBL, w.version, w.profile,
				"tax category "+li.Tax.CategoryCode+" not in the profile's code list")
		}
		if li.ParentLineID != "" && inv.LineByID(li.ParentLineID) == nil {
			return model.NewUnsupportedError("line " + li.LineID + " references unknown parent line " + li.ParentLineID)
		}
	}
	inv.Warnings = calc.Reconcile(inv, calc.DefaultOptions())

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	w.build(doc, inv)
	doc.Indent(2)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func (w *Writer) avail(f profile.Field) profile.Availability {
	return profile.Lookup(model.FormatUBL, w.version, w.profile, f)
}

func (w *Writer) allowed(f profile.Field) bool {
	return w.avail(f) != profile.Forbidden
}

func (w *Writer) build(doc *etree.Document, inv *model.Invoice) {
	root := doc.CreateElement("ubl:Invoice")
	root.CreateAttr("xmlns:ubl", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCAC)
	root.CreateAttr("xmlns:cbc", NsCBC)

	xmlutil.Text(root, "cbc:CustomizationID", customizationID(w.profile))
	xmlutil.Text(root, "cbc:ProfileID", ProfileIDPeppol)
	xmlutil.Text(root, "cbc:ID", inv.Number)
	if inv.IssueDate != nil {
		xmlutil.Text(root, "cbc:IssueDate", isoDate(*inv.IssueDate))
	}
	if due := firstDueDate(inv); due != nil {
		xmlutil.Text(root, "cbc:DueDate", isoDate(*due))
	}
	xmlutil.Text(root, "cbc:InvoiceTypeCode", inv.TypeCode)
	if w.allowed(profile.FieldNotes) {
		for _, note := range inv.Notes {
			text := note.Text
			if note.SubjectCode != "" {
				text = "#" + note.SubjectCode + "#" + text
			}
			xmlutil.Text(root, "cbc:Note", text)
		}
	}
	xmlutil.Text(root, "cbc:DocumentCurrencyCode", inv.Currency)
	if w.allowed(profile.FieldBuyerReference) {
		xmlutil.TextIf(root, "cbc:BuyerReference", inv.BuyerReference)
	}

	if inv.BillingPeriodStart != nil || inv.BillingPeriodEnd != nil {
		period := xmlutil.El(root, "cac:InvoicePeriod")
		if inv.BillingPeriodStart != nil {
			xmlutil.Text(period, "cbc:StartDate", isoDate(*inv.BillingPeriodStart))
		}
		if inv.BillingPeriodEnd != nil {
			xmlutil.Text(period, "cbc:EndDate", isoDate(*inv.BillingPeriodEnd))
		}
	}
	if ref := inv.FirstReferenceOfKind(model.KindOrder); ref != nil {
		order := xmlutil.El(root, "cac:OrderReference")
		xmlutil.Text(order, "cbc:ID", ref.ID)
	}
	for _, ref := range inv.ReferencesOfKind(model.KindInvoice) {
		billing := xmlutil.El(root, "cac:BillingReference")
		w.writeDocReference(billing, "cac:InvoiceDocumentReference", ref)
	}
	if ref := inv.FirstReferenceOfKind(model.KindDespatchAdvice); ref != nil {
		w.writeDocReference(root, "cac:DespatchDocumentReference", *ref)
	}
	if ref := inv.FirstReferenceOfKind(model.KindDeliveryNote); ref != nil {
		w.writeDocReference(root, "cac:ReceiptDocumentReference", *ref)
	}
	if ref := inv.FirstReferenceOfKind(model.KindContract); ref != nil {
		w.writeDocReference(root, "cac:ContractDocumentReference", *ref)
	}
	for _, ref := range inv.ReferencesOfKind(model.KindAdditional) {
		w.writeDocReference(root, "cac:AdditionalDocumentReference", ref)
	}

	supplier := xmlutil.El(root, "cac:AccountingSupplierParty")
	w.writeParty(supplier, inv.Seller, true)
	customer := xmlutil.El(root, "cac:AccountingCustomerParty")
	w.writeParty(customer, inv.Buyer, false)
	if inv.Payee != nil && w.allowed(profile.FieldPayee) {
		w.writePayeeParty(root, inv.Payee)
	}

	w.writeDelivery(root, inv)
	w.writePaymentMeans(root, inv)
	w.writePaymentTerms(root, inv)

	for _, ac := range inv.AllowanceCharges {
		w.writeAllowanceCharge(root, ac, inv.Currency)
	}

	w.writeTaxTotal(root, inv)
	w.writeMonetaryTotal(root, inv)

	for _, li := range inv.Lines {
		if li.ParentLineID != "" {
			continue
		}
		line := w.writeLine(root, "cac:InvoiceLine", inv, li)
		for _, sub := range inv.Lines {
			if sub.ParentLineID == li.LineID {
				w.writeLine(line, "cac:SubInvoiceLine", inv, sub)
			}
		}
	}
}

// writeParty emits an AccountingSupplierParty/AccountingCustomerParty body.
// UBL allows at most one PartyIdentification in the document and only on the
// seller, so any buyer-side identifier stays unserialized.
func (w *Writer) writeParty(wrapper *etree.Element, p *model.Party, seller bool) {
	party := xmlutil.El(wrapper, "cac:Party")
	if p == nil {
		return
	}
	if p.ElectronicAddress != nil && w.allowed(profile.FieldElectronicAddress) {
		endpoint := xmlutil.Text(party, "cbc:EndpointID", p.ElectronicAddress.Address)
		endpoint.CreateAttr("schemeID", p.ElectronicAddress.SchemeID)
	}
	if seller {
		switch {
		case p.ID != "":
			pid := xmlutil.El(party, "cac:PartyIdentification")
			xmlutil.Text(pid, "cbc:ID", p.ID)
		case p.GlobalID != nil:
			pid := xmlutil.El(party, "cac:PartyIdentification")
			id := xmlutil.Text(pid, "cbc:ID", p.GlobalID.ID)
			id.CreateAttr("schemeID", p.GlobalID.SchemeID)
		}
	}
	if p.Name != "" {
		name := xmlutil.El(party, "cac:PartyName")
		xmlutil.Text(name, "cbc:Name", p.Name)
	}

	addr := xmlutil.El(party, "cac:PostalAddress")
	xmlutil.TextIf(addr, "cbc:StreetName", p.Street)
	xmlutil.TextIf(addr, "cbc:AdditionalStreetName", p.AddressLine2)
	xmlutil.TextIf(addr, "cbc:CityName", p.City)
	xmlutil.TextIf(addr, "cbc:PostalZone", p.Postcode)
	xmlutil.TextIf(addr, "cbc:CountrySubentity", p.CountrySubdivision)
	if p.AddressLine3 != "" {
		line := xmlutil.El(addr, "cac:AddressLine")
		xmlutil.Text(line, "cbc:Line", p.AddressLine3)
	}
	if p.Country != "" {
		country := xmlutil.El(addr, "cac:Country")
		xmlutil.Text(country, "cbc:IdentificationCode", p.Country)
	}

	if p.VATRegistration != "" {
		scheme := xmlutil.El(party, "cac:PartyTaxScheme")
		xmlutil.Text(scheme, "cbc:CompanyID", p.VATRegistration)
		ts := xmlutil.El(scheme, "cac:TaxScheme")
		xmlutil.Text(ts, "cbc:ID", "VAT")
	}
	if p.TaxRegistration != "" {
		scheme := xmlutil.El(party, "cac:PartyTaxScheme")
		xmlutil.Text(scheme, "cbc:CompanyID", p.TaxRegistration)
		ts := xmlutil.El(scheme, "cac:TaxScheme")
		xmlutil.Text(ts, "cbc:ID", "FC")
	}

	legal := xmlutil.El(party, "cac:PartyLegalEntity")
	xmlutil.Text(legal, "cbc:RegistrationName", p.Name)
	if p.LegalOrganization != nil {
		if p.LegalOrganization.ID.ID != "" {
			id := xmlutil.Text(legal, "cbc:CompanyID", p.LegalOrganization.ID.ID)
			if p.LegalOrganization.ID.SchemeID != "" {
				id.CreateAttr("schemeID", p.LegalOrganization.ID.SchemeID)
			}
		}
	}

	if p.Contact != nil {
		contact := xmlutil.El(party, "cac:Contact")
		xmlutil.TextIf(contact, "cbc:Name", p.Contact.Name)
		xmlutil.TextIf(contact, "cbc:Telephone", p.Contact.Phone)
		xmlutil.TextIf(contact, "cbc:ElectronicMail", p.Contact.Email)
	}
}

func (w *Writer) writePayeeParty(root *etree.Element, p *model.Party) {
	party := xmlutil.El(root, "cac:PayeeParty")
	if p.Name != "" {
		name := xmlutil.El(party, "cac:PartyName")
		xmlutil.Text(name, "cbc:Name", p.Name)
	}
	legal := xmlutil.El(party, "cac:PartyLegalEntity")
	xmlutil.Text(legal, "cbc:RegistrationName", p.Name)
}

func (w *Writer) writeDelivery(root *etree.Element, inv *model.Invoice) {
	if inv.DeliveryDate == nil && inv.ShipTo == nil {
		return
	}
	delivery := xmlutil.El(root, "cac:Delivery")
	if inv.DeliveryDate != nil {
		xmlutil.Text(delivery, "cbc:ActualDeliveryDate", isoDate(*inv.DeliveryDate))
	}
	if inv.ShipTo != nil && w.allowed(profile.FieldShipTo) {
		loc := xmlutil.El(delivery, "cac:DeliveryLocation")
		addr := xmlutil.El(loc, "cac:Address")
		xmlutil.TextIf(addr, "cbc:StreetName", inv.ShipTo.Street)
		xmlutil.TextIf(addr, "cbc:CityName", inv.ShipTo.City)
		xmlutil.TextIf(addr, "cbc:PostalZone", inv.ShipTo.Postcode)
		if inv.ShipTo.Country != "" {
			country := xmlutil.El(addr, "cac:Country")
			xmlutil.Text(country, "cbc:IdentificationCode", inv.ShipTo.Country)
		}
		if inv.ShipTo.Name != "" {
			dp := xmlutil.El(delivery, "cac:DeliveryParty")
			name := xmlutil.El(dp, "cac:PartyName")
			xmlutil.Text(name, "cbc:Name", inv.ShipTo.Name)
		}
	}
}

// writePaymentMeans emits one block per creditor account. Direct-debit means
// carry the mandate and the debited account but never financial institution
// details.
func (w *Writer) writePaymentMeans(root *etree.Element, inv *model.Invoice) {
	means := inv.PaymentMeans
	if means == nil && len(inv.CreditorAccounts) == 0 && len(inv.DebitorAccounts) == 0 {
		return
	}
	code := model.PaymentMeansNotDefined
	info := ""
	if means != nil {
		code = means.TypeCode
		info = means.Information
	}

	writeOne := func(creditor *model.BankAccount) {
		el := xmlutil.El(root, "cac:PaymentMeans")
		xmlutil.Text(el, "cbc:PaymentMeansCode", code)
		xmlutil.TextIf(el, "cbc:InstructionNote", info)
		if means != nil && means.SEPACreditorID != "" {
			xmlutil.Text(el, "cbc:PaymentID", means.SEPACreditorID)
		}
		if means != nil && means.Card != nil {
			card := xmlutil.El(el, "cac:CardAccount")
			xmlutil.Text(card, "cbc:PrimaryAccountNumberID", means.Card.ID)
			xmlutil.TextIf(card, "cbc:HolderName", means.Card.HolderName)
		}
		if creditor != nil {
			acct := xmlutil.El(el, "cac:PayeeFinancialAccount")
			xmlutil.Text(acct, "cbc:ID", creditor.IBAN)
			xmlutil.TextIf(acct, "cbc:Name", creditor.AccountName)
			if creditor.BIC != "" && !directDebit(code) {
				branch := xmlutil.El(acct, "cac:FinancialInstitutionBranch")
				xmlutil.Text(branch, "cbc:ID", creditor.BIC)
			}
		}
		if directDebit(code) && means != nil {
			mandate := xmlutil.El(el, "cac:PaymentMandate")
			xmlutil.Text(mandate, "cbc:ID", means.SEPAMandateReference)
			for _, debitor := range inv.DebitorAccounts {
				acct := xmlutil.El(mandate, "cac:PayerFinancialAccount")
				xmlutil.Text(acct, "cbc:ID", debitor.IBAN)
				break
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

// writePaymentTerms emits a single terms element whose note joins the
// free-text descriptions and the fixed-syntax skonto token lines
func (w *Writer) writePaymentTerms(root *etree.Element, inv *model.Invoice) {
	if len(inv.PaymentTerms) == 0 {
		return
	}
	var descriptions []string
	for _, pt := range inv.PaymentTerms {
		if pt.Description != "" {
			descriptions = append(descriptions, pt.Description)
		}
	}
	text := strings.Join(descriptions, "\n")
	if w.avail(profile.FieldPaymentTermsDiscount) != profile.Forbidden {
		if block := formatSkontoNote(inv.PaymentTerms); block != "" {
			text += block + "    "
		}
	}
	if text == "" {
		return
	}
	terms := xmlutil.El(root, "cac:PaymentTerms")
	xmlutil.Text(terms, "cbc:Note", text)
}

func (w *Writer) writeAllowanceCharge(root *etree.Element, ac model.AllowanceCharge, currency string) {
	el := xmlutil.El(root, "cac:AllowanceCharge")
	xmlutil.Text(el, "cbc:ChargeIndicator", boolString(ac.ChargeIndicator))
	xmlutil.TextIf(el, "cbc:AllowanceChargeReasonCode", ac.ReasonCode)
	xmlutil.TextIf(el, "cbc:AllowanceChargeReason", ac.Reason)
	if ac.Percent != nil && !ac.Percent.IsZero() {
		xmlutil.Text(el, "cbc:MultiplierFactorNumeric", calc.FormatPercent(*ac.Percent))
	}
	amount(el, "cbc:Amount", ac.ActualAmount, currency)
	if ac.BasisAmount != nil && !ac.BasisAmount.IsZero() {
		amount(el, "cbc:BaseAmount", *ac.BasisAmount, currency)
	}
	if ac.Tax.CategoryCode != "" {
		cat := xmlutil.El(el, "cac:TaxCategory")
		xmlutil.Text(cat, "cbc:ID", toUBLTaxCategory(ac.Tax.CategoryCode))
		xmlutil.Text(cat, "cbc:Percent", calc.FormatPercent(ac.Tax.Percent))
		ts := xmlutil.El(cat, "cac:TaxScheme")
		xmlutil.Text(ts, "cbc:ID", taxSchemeID(ac.Tax.TypeCode))
	}
}

func (w *Writer) writeTaxTotal(root *etree.Element, inv *model.Invoice) {
	if len(inv.Taxes) == 0 && inv.Totals.TaxTotal == nil {
		return
	}
	total := xmlutil.El(root, "cac:TaxTotal")
	if inv.Totals.TaxTotal != nil {
		amount(total, "cbc:TaxAmount", *inv.Totals.TaxTotal, inv.Currency)
	}
	for _, tax := range inv.Taxes {
		sub := xmlutil.El(total, "cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", tax.Basis, inv.Currency)
		if tax.Amount != nil {
			amount(sub, "cbc:TaxAmount", *tax.Amount, inv.Currency)
		}
		cat := xmlutil.El(sub, "cac:TaxCategory")
		xmlutil.Text(cat, "cbc:ID", toUBLTaxCategory(tax.CategoryCode))
		xmlutil.Text(cat, "cbc:Percent", calc.FormatPercent(tax.Percent))
		if w.allowed(profile.FieldTaxExemptionReason) {
			xmlutil.TextIf(cat, "cbc:TaxExemptionReasonCode", tax.ExemptionReasonCode)
			xmlutil.TextIf(cat, "cbc:TaxExemptionReason", tax.ExemptionReason)
		}
		ts := xmlutil.El(cat, "cac:TaxScheme")
		xmlutil.Text(ts, "cbc:ID", taxSchemeID(tax.TypeCode))
	}
}

func (w *Writer) writeMonetaryTotal(root *etree.Element, inv *model.Invoice) {
	totals := inv.Totals
	el := xmlutil.El(root, "cac:LegalMonetaryTotal")
	optAmount(el, "cbc:LineExtensionAmount", totals.LineTotal, inv.Currency)
	optAmount(el, "cbc:TaxExclusiveAmount", totals.TaxBasis, inv.Currency)
	optAmount(el, "cbc:TaxInclusiveAmount", totals.GrandTotal, inv.Currency)
	optAmount(el, "cbc:AllowanceTotalAmount", totals.AllowanceTotal, inv.Currency)
	optAmount(el, "cbc:ChargeTotalAmount", totals.ChargeTotal, inv.Currency)
	optAmount(el, "cbc:PrepaidAmount", totals.Prepaid, inv.Currency)
	if w.allowed(profile.FieldTotalsRounding) {
		optAmount(el, "cbc:PayableRoundingAmount", totals.Rounding, inv.Currency)
	}
	optAmount(el, "cbc:PayableAmount", totals.DuePayable, inv.Currency)
}

func (w *Writer) writeLine(parent *etree.Element, tag string, inv *model.Invoice, li *model.TradeLineItem) *etree.Element {
	line := xmlutil.El(parent, tag)
	xmlutil.Text(line, "cbc:ID", li.LineID)
	for _, note := range li.Notes {
		xmlutil.Text(line, "cbc:Note", note)
	}
	qty := xmlutil.Text(line, "cbc:InvoicedQuantity", calc.FormatQuantity(li.BilledQuantity.Amount))
	qty.CreateAttr("unitCode", li.BilledQuantity.Unit)
	net := li.NetAmount()
	if li.LineTotal != nil {
		net = *li.LineTotal
	}
	amount(line, "cbc:LineExtensionAmount", calc.Round2(net), inv.Currency)
	xmlutil.TextIf(line, "cbc:AccountingCost", li.AccountingAccount)

	if li.BillingPeriodStart != nil || li.BillingPeriodEnd != nil {
		period := xmlutil.El(line, "cac:InvoicePeriod")
		if li.BillingPeriodStart != nil {
			xmlutil.Text(period, "cbc:StartDate", isoDate(*li.BillingPeriodStart))
		}
		if li.BillingPeriodEnd != nil {
			xmlutil.Text(period, "cbc:EndDate", isoDate(*li.BillingPeriodEnd))
		}
	}
	for _, ref := range li.References {
		if ref.Kind == model.KindOrder {
			olr := xmlutil.El(line, "cac:OrderLineReference")
			lineID := ref.LineID
			if lineID == "" {
				lineID = li.LineID
			}
			xmlutil.Text(olr, "cbc:LineID", lineID)
		}
	}
	for _, ac := range li.AllowanceCharges {
		w.writeAllowanceCharge(line, ac, inv.Currency)
	}

	item := xmlutil.El(line, "cac:Item")
	xmlutil.TextIf(item, "cbc:Description", li.Description)
	xmlutil.Text(item, "cbc:Name", li.Name)
	if li.BuyerAssignedID != "" {
		id := xmlutil.El(item, "cac:BuyersItemIdentification")
		xmlutil.Text(id, "cbc:ID", li.BuyerAssignedID)
	}
	if li.SellerAssignedID != "" {
		id := xmlutil.El(item, "cac:SellersItemIdentification")
		xmlutil.Text(id, "cbc:ID", li.SellerAssignedID)
	}
	if li.GlobalID != nil {
		std := xmlutil.El(item, "cac:StandardItemIdentification")
		id := xmlutil.Text(std, "cbc:ID", li.GlobalID.ID)
		id.CreateAttr("schemeID", li.GlobalID.SchemeID)
	}
	cat := xmlutil.El(item, "cac:ClassifiedTaxCategory")
	xmlutil.Text(cat, "cbc:ID", toUBLTaxCategory(li.Tax.CategoryCode))
	xmlutil.Text(cat, "cbc:Percent", calc.FormatPercent(li.Tax.Percent))
	ts := xmlutil.El(cat, "cac:TaxScheme")
	xmlutil.Text(ts, "cbc:ID", taxSchemeID(li.Tax.TypeCode))
	for _, ch := range li.Characteristics {
		prop := xmlutil.El(item, "cac:AdditionalItemProperty")
		xmlutil.Text(prop, "cbc:Name", ch.Description)
		xmlutil.Text(prop, "cbc:Value", ch.Value)
	}

	price := xmlutil.El(line, "cac:Price")
	amount(price, "cbc:PriceAmount", li.NetPrice.Amount, inv.Currency)
	if li.NetPrice.Quantity != nil {
		base := xmlutil.Text(price, "cbc:BaseQuantity", calc.FormatQuantity(li.NetPrice.Quantity.Amount))
		base.CreateAttr("unitCode", li.NetPrice.Quantity.Unit)
	}
	if li.GrossPrice != nil && li.GrossPrice.Amount.GreaterThan(li.NetPrice.Amount) {
		ac := xmlutil.El(price, "cac:AllowanceCharge")
		xmlutil.Text(ac, "cbc:ChargeIndicator", "false")
		amount(ac, "cbc:Amount", li.GrossPrice.Amount.Sub(li.NetPrice.Amount), inv.Currency)
		amount(ac, "cbc:BaseAmount", li.GrossPrice.Amount, inv.Currency)
	}

	return line
}

func (w *Writer) writeDocReference(parent *etree.Element, tag string, ref model.ReferencedDocument) {
	el := xmlutil.El(parent, tag)
	xmlutil.Text(el, "cbc:ID", ref.ID)
	if ref.IssueDate != nil {
		xmlutil.Text(el, "cbc:IssueDate", isoDate(*ref.IssueDate))
	}
	xmlutil.TextIf(el, "cbc:DocumentTypeCode", ref.TypeCode)
	xmlutil.TextIf(el, "cbc:DocumentDescription", ref.Name)
	if ref.Attachment != nil {
		att := xmlutil.El(el, "cac:Attachment")
		bin := xmlutil.Text(att, "cbc:EmbeddedDocumentBinaryObject",
			base64.StdEncoding.EncodeToString(ref.Attachment.Data))
		bin.CreateAttr("mimeCode", ref.Attachment.MimeType)
		bin.CreateAttr("filename", ref.Attachment.Filename)
	} else if ref.URI != "" {
		att := xmlutil.El(el, "cac:Attachment")
		ext := xmlutil.El(att, "cac:ExternalReference")
		xmlutil.Text(ext, "cbc:URI", ref.URI)
	}
}

func firstDueDate(inv *model.Invoice) *time.Time {
	for _, pt := range inv.PaymentTerms {
		if pt.DueDate != nil {
			return pt.DueDate
		}
	}
	return nil
}

func amount(parent *etree.Element, tag string, d decimal.Decimal, currency string) *etree.Element {
	el := xmlutil.Text(parent, tag, calc.FormatAmount(d))
	el.CreateAttr("currencyID", currency)
	return el
}

func optAmount(parent *etree.Element, tag string, d *decimal.Decimal, currency string) {
	if d == nil {
		return
	}
	amount(parent, tag, *d, currency)
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
