package cii

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

// document names carried by the first revision's HeaderExchangedDocument
func documentName(typeCode string) string {
	switch typeCode {
	case model.TypeCodeCreditNote:
		return "GUTSCHRIFT"
	default:
		return "RECHNUNG"
	}
}

// buildV1 emits the original CrossIndustryDocument grammar: sections carry
// SupplyChain names, the monetary summation drops the "Header" infix, and the
// line items trail the settlement block instead of leading the transaction.
func (w *Writer) buildV1(doc *etree.Document, inv *model.Invoice) {
	root := doc.CreateElement("rsm:CrossIndustryDocument")
	root.CreateAttr("xmlns:rsm", NsRSM1)
	root.CreateAttr("xmlns:ram", NsRAM1)
	root.CreateAttr("xmlns:udt", NsUDT1)

	ctx := xmlutil.El(root, "rsm:SpecifiedExchangedDocumentContext")
	if inv.IsTest {
		ind := xmlutil.El(ctx, "ram:TestIndicator")
		xmlutil.Text(ind, "udt:Indicator", "true")
	}
	guide := xmlutil.El(ctx, "ram:GuidelineSpecifiedDocumentContextParameter")
	xmlutil.Text(guide, "ram:ID", guidelineID(w.version, w.profile))

	header := xmlutil.El(root, "rsm:HeaderExchangedDocument")
	xmlutil.Text(header, "ram:ID", inv.Number)
	xmlutil.Text(header, "ram:Name", documentName(inv.TypeCode))
	xmlutil.Text(header, "ram:TypeCode", inv.TypeCode)
	if inv.IssueDate != nil {
		writeUDTDate(header, "ram:IssueDateTime", *inv.IssueDate)
	}
	for _, note := range inv.Notes {
		n := xmlutil.El(header, "ram:IncludedNote")
		xmlutil.Text(n, "ram:Content", note.Text)
		xmlutil.TextIf(n, "ram:SubjectCode", note.SubjectCode)
	}

	tx := xmlutil.El(root, "rsm:SpecifiedSupplyChainTradeTransaction")

	agreement := xmlutil.El(tx, "ram:ApplicableSupplyChainTradeAgreement")
	xmlutil.TextIf(agreement, "ram:BuyerReference", inv.BuyerReference)
	w.writeParty(agreement, "ram:SellerTradeParty", inv.Seller, true)
	w.writeParty(agreement, "ram:BuyerTradeParty", inv.Buyer, true)
	if ref := inv.FirstReferenceOfKind(model.KindOrder); ref != nil {
		w.writeReference(agreement, "ram:BuyerOrderReferencedDocument", *ref)
	}
	if ref := inv.FirstReferenceOfKind(model.KindContract); ref != nil {
		w.writeReference(agreement, "ram:ContractReferencedDocument", *ref)
	}
	if w.referenceAllowed(model.KindAdditional) {
		for _, ref := range inv.ReferencesOfKind(model.KindAdditional) {
			w.writeReference(agreement, "ram:AdditionalReferencedDocument", ref)
		}
	}

	delivery := xmlutil.El(tx, "ram:ApplicableSupplyChainTradeDelivery")
	if inv.ShipTo != nil {
		w.writeParty(delivery, "ram:ShipToTradeParty", inv.ShipTo, false)
	}
	if w.allowed(profile.FieldUltimateShipTo) && inv.UltimateShipTo != nil {
		w.writeParty(delivery, "ram:UltimateShipToTradeParty", inv.UltimateShipTo, false)
	}
	if inv.DeliveryDate != nil {
		event := xmlutil.El(delivery, "ram:ActualDeliverySupplyChainEvent")
		writeUDTDate(event, "ram:OccurrenceDateTime", *inv.DeliveryDate)
	}
	if ref := inv.FirstReferenceOfKind(model.KindDeliveryNote); ref != nil && w.referenceAllowed(model.KindDeliveryNote) {
		w.writeReference(delivery, "ram:DeliveryNoteReferencedDocument", *ref)
	}

	settlement := xmlutil.El(tx, "ram:ApplicableSupplyChainTradeSettlement")
	w.writeSettlement(settlement, inv, "ram:SpecifiedTradeSettlementMonetarySummation")

	for _, li := range inv.Lines {
		w.writeLineV1(tx, li)
	}
}

func (w *Writer) writeLineV1(tx *etree.Element, li *model.TradeLineItem) {
	line := xmlutil.El(tx, "ram:IncludedSupplyChainTradeLineItem")

	assoc := xmlutil.El(line, "ram:AssociatedDocumentLineDocument")
	xmlutil.Text(assoc, "ram:LineID", li.LineID)
	for _, note := range li.Notes {
		n := xmlutil.El(assoc, "ram:IncludedNote")
		xmlutil.Text(n, "ram:Content", note)
	}

	agreement := xmlutil.El(line, "ram:SpecifiedSupplyChainTradeAgreement")
	if w.allowed(profile.FieldLineGrossPrice) && li.GrossPrice != nil {
		gross := xmlutil.El(agreement, "ram:GrossPriceProductTradePrice")
		xmlutil.Text(gross, "ram:ChargeAmount", calc.FormatAmount(li.GrossPrice.Amount))
		writeBasisQuantity(gross, li.GrossPrice.Quantity)
	}
	net := xmlutil.El(agreement, "ram:NetPriceProductTradePrice")
	xmlutil.Text(net, "ram:ChargeAmount", calc.FormatAmount(li.NetPrice.Amount))
	writeBasisQuantity(net, li.NetPrice.Quantity)

	delivery := xmlutil.El(line, "ram:SpecifiedSupplyChainTradeDelivery")
	billed := xmlutil.Text(delivery, "ram:BilledQuantity", calc.FormatQuantity(li.BilledQuantity.Amount))
	billed.CreateAttr("unitCode", li.BilledQuantity.Unit)

	settlement := xmlutil.El(line, "ram:SpecifiedSupplyChainTradeSettlement")
	tax := xmlutil.El(settlement, "ram:ApplicableTradeTax")
	xmlutil.Text(tax, "ram:TypeCode", li.Tax.TypeCode)
	xmlutil.Text(tax, "ram:CategoryCode", li.Tax.CategoryCode)
	xmlutil.Text(tax, "ram:ApplicablePercent", calc.FormatPercent(li.Tax.Percent))
	for _, ac := range li.AllowanceCharges {
		w.writeAllowanceCharge(settlement, ac)
	}
	sum := xmlutil.El(settlement, "ram:SpecifiedTradeSettlementMonetarySummation")
	lineTotal := li.LineTotal
	if lineTotal == nil {
		lineTotal = model.D(calc.Round2(li.NetAmount()))
	}
	xmlutil.Text(sum, "ram:LineTotalAmount", calc.FormatAmount(*lineTotal))

	// the first revision puts the product block last
	product := xmlutil.El(line, "ram:SpecifiedTradeProduct")
	if li.GlobalID != nil {
		g := xmlutil.Text(product, "ram:GlobalID", li.GlobalID.ID)
		g.CreateAttr("schemeID", li.GlobalID.SchemeID)
	}
	xmlutil.TextIf(product, "ram:SellerAssignedID", li.SellerAssignedID)
	xmlutil.TextIf(product, "ram:BuyerAssignedID", li.BuyerAssignedID)
	xmlutil.Text(product, "ram:Name", li.Name)
	xmlutil.TextIf(product, "ram:Description", li.Description)
}
