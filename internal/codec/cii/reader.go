package cii

import (
	"encoding/base64"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
)

// VersionOf determines the CII revision from a parsed root element. The first
// revision has its own vocabulary and namespace; the CrossIndustryInvoice
// vocabulary is split into 2.0 and the 2.1–2.3 family (reported as 2.3, all
// three sharing one namespace) via the guideline context parameter.
func VersionOf(root *etree.Element) (model.Version, error) {
	switch root.Tag {
	case "CrossIndustryDocument":
		for _, ns := range xmlutil.DeclaredNamespaces(root) {
			if ns == NsRAM1 || ns == NsRSM1 {
				return model.Version1, nil
			}
		}
		return model.VersionUnknown, model.NewFormatDetectionError(root.Tag, xmlutil.RootNamespace(root))
	case "CrossIndustryInvoice":
		known := false
		for _, ns := range xmlutil.DeclaredNamespaces(root) {
			if ns == NsRSM2 || ns == NsRAM2 {
				known = true
			}
		}
		if !known {
			return model.VersionUnknown, model.NewFormatDetectionError(root.Tag, xmlutil.RootNamespace(root))
		}
		// only the 2p0 marker separates 2.0 from the 2.1+ family; a 2.0
		// Comfort document carries the plain EN16931 guideline and reads
		// back as 2.3
		guideline := guidelineOf(root)
		if strings.Contains(guideline, "urn:zugferd.de:2p0") {
			return model.Version20, nil
		}
		return model.Version23, nil
	default:
		return model.VersionUnknown, model.NewFormatDetectionError(root.Tag, xmlutil.RootNamespace(root))
	}
}

func guidelineOf(root *etree.Element) string {
	ctx := xmlutil.Child(root, "ExchangedDocumentContext")
	if ctx == nil {
		ctx = xmlutil.Child(root, "SpecifiedExchangedDocumentContext")
	}
	return xmlutil.TextOf(ctx, "GuidelineSpecifiedDocumentContextParameter", "ID")
}

// Reader parses CII XML of any supported revision into an invoice
type Reader struct{}

// NewReader creates a CII reader
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the stream. Malformed XML or missing mandatory elements fail
// with a ParseError naming the offending path; a merely-absent optional
// element never does.
func (r *Reader) Read(in io.Reader) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(in); err != nil {
		return nil, model.NewParseError("/", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("/", "empty document", nil)
	}
	version, err := VersionOf(root)
	if err != nil {
		return nil, err
	}

	inv := &model.Invoice{Format: model.FormatCII, Version: version, Seller: &model.Party{}, Buyer: &model.Party{}}
	inv.Profile = ProfileFromGuideline(guidelineOf(root))
	if inv.Profile == model.ProfileUnknown {
		return nil, model.NewParseError("GuidelineSpecifiedDocumentContextParameter/ID", "missing or unrecognized guideline", nil)
	}

	ctx := firstOf(root, "ExchangedDocumentContext", "SpecifiedExchangedDocumentContext")
	if ind := xmlutil.TextOf(ctx, "TestIndicator", "Indicator"); ind == "true" {
		inv.IsTest = true
	}
	inv.BusinessProcess = xmlutil.TextOf(ctx, "BusinessProcessSpecifiedDocumentContextParameter", "ID")

	header := firstOf(root, "ExchangedDocument", "HeaderExchangedDocument")
	if header == nil {
		return nil, model.NewParseError("rsm:ExchangedDocument", "mandatory element missing", nil)
	}
	inv.Number = xmlutil.TextOf(header, "ID")
	if inv.Number == "" {
		return nil, model.NewParseError("rsm:ExchangedDocument/ram:ID", "mandatory element missing", nil)
	}
	inv.TypeCode = xmlutil.TextOf(header, "TypeCode")
	if t, err := readDate(xmlutil.Child(header, "IssueDateTime")); err != nil {
		return nil, err
	} else if t != nil {
		inv.IssueDate = t
	}
	for _, n := range xmlutil.Children(header, "IncludedNote") {
		inv.Notes = append(inv.Notes, model.Note{
			Text:        xmlutil.TextOf(n, "Content"),
			SubjectCode: xmlutil.TextOf(n, "SubjectCode"),
			ContentCode: xmlutil.TextOf(n, "ContentCode"),
		})
	}

	tx := firstOf(root, "SupplyChainTradeTransaction", "SpecifiedSupplyChainTradeTransaction")
	if tx == nil {
		return nil, model.NewParseError("rsm:SupplyChainTradeTransaction", "mandatory element missing", nil)
	}

	if err := r.readAgreement(tx, inv); err != nil {
		return nil, err
	}
	if err := r.readDelivery(tx, inv); err != nil {
		return nil, err
	}
	if err := r.readSettlement(tx, inv); err != nil {
		return nil, err
	}
	for _, lineEl := range xmlutil.Children(tx, "IncludedSupplyChainTradeLineItem") {
		li, err := r.readLine(lineEl)
		if err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, li)
	}

	inv.Warnings = calc.Reconcile(inv, calc.DefaultOptions())
	return inv, nil
}

func firstOf(parent *etree.Element, names ...string) *etree.Element {
	for _, name := range names {
		if e := xmlutil.Child(parent, name); e != nil {
			return e
		}
	}
	return nil
}

func (r *Reader) readAgreement(tx *etree.Element, inv *model.Invoice) error {
	agreement := firstOf(tx, "ApplicableHeaderTradeAgreement", "ApplicableSupplyChainTradeAgreement")
	if agreement == nil {
		return model.NewParseError("ram:ApplicableHeaderTradeAgreement", "mandatory element missing", nil)
	}
	inv.BuyerReference = xmlutil.TextOf(agreement, "BuyerReference")

	seller := xmlutil.Child(agreement, "SellerTradeParty")
	if seller == nil {
		return model.NewParseError("ram:SellerTradeParty", "mandatory element missing", nil)
	}
	inv.Seller = readParty(seller)

	buyer := xmlutil.Child(agreement, "BuyerTradeParty")
	if buyer == nil {
		return model.NewParseError("ram:BuyerTradeParty", "mandatory element missing", nil)
	}
	inv.Buyer = readParty(buyer)

	if ref, err := readReference(xmlutil.Child(agreement, "BuyerOrderReferencedDocument"), model.KindOrder); err != nil {
		return err
	} else if ref != nil {
		inv.References = append(inv.References, *ref)
	}
	if ref, err := readReference(xmlutil.Child(agreement, "ContractReferencedDocument"), model.KindContract); err != nil {
		return err
	} else if ref != nil {
		inv.References = append(inv.References, *ref)
	}
	for _, el := range xmlutil.Children(agreement, "AdditionalReferencedDocument") {
		ref, err := readReference(el, model.KindAdditional)
		if err != nil {
			return err
		}
		inv.References = append(inv.References, *ref)
	}
	return nil
}

func (r *Reader) readDelivery(tx *etree.Element, inv *model.Invoice) error {
	delivery := firstOf(tx, "ApplicableHeaderTradeDelivery", "ApplicableSupplyChainTradeDelivery")
	if delivery == nil {
		return nil
	}
	if el := xmlutil.Child(delivery, "ShipToTradeParty"); el != nil {
		inv.ShipTo = readParty(el)
	}
	if el := xmlutil.Child(delivery, "UltimateShipToTradeParty"); el != nil {
		inv.UltimateShipTo = readParty(el)
	}
	if el := xmlutil.Child(delivery, "ShipFromTradeParty"); el != nil {
		inv.ShipFrom = readParty(el)
	}
	if event := xmlutil.Child(delivery, "ActualDeliverySupplyChainEvent"); event != nil {
		t, err := readDate(xmlutil.Child(event, "OccurrenceDateTime"))
		if err != nil {
			return err
		}
		inv.DeliveryDate = t
	}
	if ref, err := readReference(xmlutil.Child(delivery, "DespatchAdviceReferencedDocument"), model.KindDespatchAdvice); err != nil {
		return err
	} else if ref != nil {
		inv.References = append(inv.References, *ref)
	}
	if ref, err := readReference(xmlutil.Child(delivery, "DeliveryNoteReferencedDocument"), model.KindDeliveryNote); err != nil {
		return err
	} else if ref != nil {
		inv.References = append(inv.References, *ref)
	}
	return nil
}

func (r *Reader) readSettlement(tx *etree.Element, inv *model.Invoice) error {
	settlement := firstOf(tx, "ApplicableHeaderTradeSettlement", "ApplicableSupplyChainTradeSettlement")
	if settlement == nil {
		return model.NewParseError("ram:ApplicableHeaderTradeSettlement", "mandatory element missing", nil)
	}
	inv.Currency = xmlutil.TextOf(settlement, "InvoiceCurrencyCode")

	if el := xmlutil.Child(settlement, "InvoiceeTradeParty"); el != nil {
		inv.Invoicee = readParty(el)
	}
	if el := xmlutil.Child(settlement, "PayeeTradeParty"); el != nil {
		inv.Payee = readParty(el)
	}

	for _, pm := range xmlutil.Children(settlement, "SpecifiedTradeSettlementPaymentMeans") {
		r.readPaymentMeans(pm, inv)
	}
	if creditorRef := xmlutil.TextOf(settlement, "CreditorReferenceID"); creditorRef != "" {
		if inv.PaymentMeans == nil {
			inv.PaymentMeans = &model.PaymentMeans{}
		}
		inv.PaymentMeans.SEPACreditorID = creditorRef
	}

	for _, taxEl := range xmlutil.Children(settlement, "ApplicableTradeTax") {
		tax, err := readTax(taxEl)
		if err != nil {
			return err
		}
		inv.Taxes = append(inv.Taxes, tax)
	}

	if period := xmlutil.Child(settlement, "BillingSpecifiedPeriod"); period != nil {
		start, end, err := readPeriod(period)
		if err != nil {
			return err
		}
		inv.BillingPeriodStart, inv.BillingPeriodEnd = start, end
	}

	for _, acEl := range xmlutil.Children(settlement, "SpecifiedTradeAllowanceCharge") {
		ac, err := readAllowanceCharge(acEl)
		if err != nil {
			return err
		}
		inv.AllowanceCharges = append(inv.AllowanceCharges, ac)
	}

	for _, scEl := range xmlutil.Children(settlement, "SpecifiedLogisticsServiceCharge") {
		sc := model.ServiceCharge{Description: xmlutil.TextOf(scEl, "Description")}
		if amt, ok := readDecimal(xmlutil.TextOf(scEl, "AppliedAmount")); ok {
			sc.Amount = amt
		}
		for _, t := range xmlutil.Children(scEl, "AppliedTradeTax") {
			tax, err := readTax(t)
			if err != nil {
				return err
			}
			sc.Taxes = append(sc.Taxes, tax)
		}
		inv.ServiceCharges = append(inv.ServiceCharges, sc)
	}

	for _, ptEl := range xmlutil.Children(settlement, "SpecifiedTradePaymentTerms") {
		pt, err := readPaymentTerms(ptEl, inv)
		if err != nil {
			return err
		}
		inv.PaymentTerms = append(inv.PaymentTerms, pt)
	}

	sum := firstOf(settlement, "SpecifiedTradeSettlementHeaderMonetarySummation", "SpecifiedTradeSettlementMonetarySummation")
	if sum == nil {
		return model.NewParseError("ram:SpecifiedTradeSettlementHeaderMonetarySummation", "mandatory element missing", nil)
	}
	totals := &inv.Totals
	totals.LineTotal = readOptAmount(sum, "LineTotalAmount")
	totals.ChargeTotal = readOptAmount(sum, "ChargeTotalAmount")
	totals.AllowanceTotal = readOptAmount(sum, "AllowanceTotalAmount")
	totals.TaxBasis = readOptAmount(sum, "TaxBasisTotalAmount")
	totals.TaxTotal = readOptAmount(sum, "TaxTotalAmount")
	totals.Rounding = readOptAmount(sum, "RoundingAmount")
	totals.GrandTotal = readOptAmount(sum, "GrandTotalAmount")
	totals.Prepaid = readOptAmount(sum, "TotalPrepaidAmount")
	totals.DuePayable = readOptAmount(sum, "DuePayableAmount")

	for _, el := range xmlutil.Children(settlement, "InvoiceReferencedDocument") {
		ref, err := readReference(el, model.KindInvoice)
		if err != nil {
			return err
		}
		inv.References = append(inv.References, *ref)
	}
	return nil
}

func (r *Reader) readPaymentMeans(pm *etree.Element, inv *model.Invoice) {
	if inv.PaymentMeans == nil {
		inv.PaymentMeans = &model.PaymentMeans{
			TypeCode:    xmlutil.TextOf(pm, "TypeCode"),
			Information: xmlutil.TextOf(pm, "Information"),
		}
		if card := xmlutil.Child(pm, "ApplicableTradeSettlementFinancialCard"); card != nil {
			inv.PaymentMeans.Card = &model.PaymentCard{
				ID:         xmlutil.TextOf(card, "ID"),
				HolderName: xmlutil.TextOf(card, "CardholderName"),
			}
		}
	}
	if acct := xmlutil.Child(pm, "PayerPartyDebtorFinancialAccount"); acct != nil {
		account := model.BankAccount{
			IBAN: xmlutil.TextOf(acct, "IBANID"),
			ID:   xmlutil.TextOf(acct, "ProprietaryID"),
			BIC:  xmlutil.TextOf(pm, "PayerSpecifiedDebtorFinancialInstitution", "BICID"),
		}
		inv.DebitorAccounts = append(inv.DebitorAccounts, account)
	}
	if acct := xmlutil.Child(pm, "PayeePartyCreditorFinancialAccount"); acct != nil {
		account := model.BankAccount{
			IBAN:        xmlutil.TextOf(acct, "IBANID"),
			AccountName: xmlutil.TextOf(acct, "AccountName"),
			ID:          xmlutil.TextOf(acct, "ProprietaryID"),
			BIC:         xmlutil.TextOf(pm, "PayeeSpecifiedCreditorFinancialInstitution", "BICID"),
		}
		inv.CreditorAccounts = append(inv.CreditorAccounts, account)
	}
}

func (r *Reader) readLine(lineEl *etree.Element) (*model.TradeLineItem, error) {
	li := &model.TradeLineItem{}

	assoc := xmlutil.Child(lineEl, "AssociatedDocumentLineDocument")
	if assoc != nil {
		li.LineID = xmlutil.TextOf(assoc, "LineID")
		li.ParentLineID = xmlutil.TextOf(assoc, "ParentLineID")
		li.LineStatusCode = xmlutil.TextOf(assoc, "LineStatusCode")
		li.LineStatusReasonCode = xmlutil.TextOf(assoc, "LineStatusReasonCode")
		for _, n := range xmlutil.Children(assoc, "IncludedNote") {
			li.Notes = append(li.Notes, xmlutil.TextOf(n, "Content"))
		}
	}

	if product := xmlutil.Child(lineEl, "SpecifiedTradeProduct"); product != nil {
		if g := xmlutil.Child(product, "GlobalID"); g != nil && strings.TrimSpace(g.Text()) != "" {
			li.GlobalID = &model.GlobalID{
				SchemeID: attrValue(g, "schemeID"),
				ID:       strings.TrimSpace(g.Text()),
			}
		}
		li.SellerAssignedID = xmlutil.TextOf(product, "SellerAssignedID")
		li.BuyerAssignedID = xmlutil.TextOf(product, "BuyerAssignedID")
		li.Name = xmlutil.TextOf(product, "Name")
		li.Description = xmlutil.TextOf(product, "Description")
		for _, ch := range xmlutil.Children(product, "ApplicableProductCharacteristic") {
			li.Characteristics = append(li.Characteristics, model.Characteristic{
				Description: xmlutil.TextOf(ch, "Description"),
				Value:       xmlutil.TextOf(ch, "Value"),
			})
		}
		for _, inc := range xmlutil.Children(product, "IncludedReferencedProduct") {
			item := model.IncludedItem{Name: xmlutil.TextOf(inc, "Name")}
			if g := xmlutil.Child(inc, "GlobalID"); g != nil {
				item.GlobalID = &model.GlobalID{SchemeID: attrValue(g, "schemeID"), ID: strings.TrimSpace(g.Text())}
			}
			if q := xmlutil.Child(inc, "UnitQuantity"); q != nil {
				if amt, ok := readDecimal(q.Text()); ok {
					item.Quantity = &model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
				}
			}
			li.IncludedItems = append(li.IncludedItems, item)
		}
	}

	agreement := firstOf(lineEl, "SpecifiedLineTradeAgreement", "SpecifiedSupplyChainTradeAgreement")
	if agreement != nil {
		if order := xmlutil.Child(agreement, "BuyerOrderReferencedDocument"); order != nil {
			li.References = append(li.References, model.ReferencedDocument{
				Kind:   model.KindOrder,
				ID:     xmlutil.TextOf(order, "IssuerAssignedID"),
				LineID: xmlutil.TextOf(order, "LineID"),
			})
		}
		for _, el := range xmlutil.Children(agreement, "AdditionalReferencedDocument") {
			ref, err := readReference(el, model.KindAdditional)
			if err != nil {
				return nil, err
			}
			li.References = append(li.References, *ref)
		}
		if gross := xmlutil.Child(agreement, "GrossPriceProductTradePrice"); gross != nil {
			price, err := readPrice(gross)
			if err != nil {
				return nil, err
			}
			li.GrossPrice = price
		}
		if net := xmlutil.Child(agreement, "NetPriceProductTradePrice"); net != nil {
			price, err := readPrice(net)
			if err != nil {
				return nil, err
			}
			li.NetPrice = *price
		}
	}

	delivery := firstOf(lineEl, "SpecifiedLineTradeDelivery", "SpecifiedSupplyChainTradeDelivery")
	if delivery != nil {
		if q := xmlutil.Child(delivery, "BilledQuantity"); q != nil {
			if amt, ok := readDecimal(q.Text()); ok {
				li.BilledQuantity = model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
			}
		}
		if q := xmlutil.Child(delivery, "ChargeFreeQuantity"); q != nil {
			if amt, ok := readDecimal(q.Text()); ok {
				li.ChargeFreeQuantity = &model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
			}
		}
		if q := xmlutil.Child(delivery, "PackageQuantity"); q != nil {
			if amt, ok := readDecimal(q.Text()); ok {
				li.PackageQuantity = &model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
			}
		}
		if el := xmlutil.Child(delivery, "ShipToTradeParty"); el != nil {
			li.ShipTo = readParty(el)
		}
		if el := xmlutil.Child(delivery, "UltimateShipToTradeParty"); el != nil {
			li.UltimateShipTo = readParty(el)
		}
	}

	settlement := firstOf(lineEl, "SpecifiedLineTradeSettlement", "SpecifiedSupplyChainTradeSettlement")
	if settlement != nil {
		if taxEl := xmlutil.Child(settlement, "ApplicableTradeTax"); taxEl != nil {
			tax, err := readTax(taxEl)
			if err != nil {
				return nil, err
			}
			li.Tax = tax
		}
		if period := xmlutil.Child(settlement, "BillingSpecifiedPeriod"); period != nil {
			start, end, err := readPeriod(period)
			if err != nil {
				return nil, err
			}
			li.BillingPeriodStart, li.BillingPeriodEnd = start, end
		}
		for _, acEl := range xmlutil.Children(settlement, "SpecifiedTradeAllowanceCharge") {
			ac, err := readAllowanceCharge(acEl)
			if err != nil {
				return nil, err
			}
			li.AllowanceCharges = append(li.AllowanceCharges, ac)
		}
		sum := firstOf(settlement, "SpecifiedTradeSettlementLineMonetarySummation", "SpecifiedTradeSettlementMonetarySummation")
		li.LineTotal = readOptAmount(sum, "LineTotalAmount")
		li.AccountingAccount = xmlutil.TextOf(settlement, "ReceivableSpecifiedTradeAccountingAccount", "ID")
	}

	return li, nil
}

func readParty(el *etree.Element) *model.Party {
	p := &model.Party{
		ID:   xmlutil.TextOf(el, "ID"),
		Name: xmlutil.TextOf(el, "Name"),
	}
	if g := xmlutil.Child(el, "GlobalID"); g != nil && strings.TrimSpace(g.Text()) != "" {
		p.GlobalID = &model.GlobalID{SchemeID: attrValue(g, "schemeID"), ID: strings.TrimSpace(g.Text())}
	}
	p.Description = xmlutil.TextOf(el, "Description")
	if lo := xmlutil.Child(el, "SpecifiedLegalOrganization"); lo != nil {
		org := &model.LegalOrganization{TradingName: xmlutil.TextOf(lo, "TradingBusinessName")}
		if id := xmlutil.Child(lo, "ID"); id != nil {
			org.ID = model.GlobalID{SchemeID: attrValue(id, "schemeID"), ID: strings.TrimSpace(id.Text())}
		}
		p.LegalOrganization = org
	}
	if c := xmlutil.Child(el, "DefinedTradeContact"); c != nil {
		p.Contact = &model.Contact{
			Name:    xmlutil.TextOf(c, "PersonName"),
			OrgUnit: xmlutil.TextOf(c, "DepartmentName"),
			Phone:   xmlutil.TextOf(c, "TelephoneUniversalCommunication", "CompleteNumber"),
			Fax:     xmlutil.TextOf(c, "FaxUniversalCommunication", "CompleteNumber"),
			Email:   xmlutil.TextOf(c, "EmailURIUniversalCommunication", "URIID"),
		}
	}
	if addr := xmlutil.Child(el, "PostalTradeAddress"); addr != nil {
		p.Postcode = xmlutil.TextOf(addr, "PostcodeCode")
		p.Street = xmlutil.TextOf(addr, "LineOne")
		p.AddressLine2 = xmlutil.TextOf(addr, "LineTwo")
		p.AddressLine3 = xmlutil.TextOf(addr, "LineThree")
		p.City = xmlutil.TextOf(addr, "CityName")
		p.Country = xmlutil.TextOf(addr, "CountryID")
		p.CountrySubdivision = xmlutil.TextOf(addr, "CountrySubDivisionName")
	}
	if uc := xmlutil.Child(el, "URIUniversalCommunication"); uc != nil {
		if uri := xmlutil.Child(uc, "URIID"); uri != nil {
			p.ElectronicAddress = &model.ElectronicAddress{
				SchemeID: attrValue(uri, "schemeID"),
				Address:  strings.TrimSpace(uri.Text()),
			}
		}
	}
	for _, reg := range xmlutil.Children(el, "SpecifiedTaxRegistration") {
		if id := xmlutil.Child(reg, "ID"); id != nil {
			switch attrValue(id, "schemeID") {
			case "FC":
				p.TaxRegistration = strings.TrimSpace(id.Text())
			default:
				p.VATRegistration = strings.TrimSpace(id.Text())
			}
		}
	}
	return p
}

func readTax(el *etree.Element) (model.Tax, error) {
	tax := model.Tax{
		TypeCode:            xmlutil.TextOf(el, "TypeCode"),
		CategoryCode:        xmlutil.TextOf(el, "CategoryCode"),
		ExemptionReason:     xmlutil.TextOf(el, "ExemptionReason"),
		ExemptionReasonCode: xmlutil.TextOf(el, "ExemptionReasonCode"),
	}
	rate := xmlutil.TextOf(el, "RateApplicablePercent")
	if rate == "" {
		rate = xmlutil.TextOf(el, "ApplicablePercent")
	}
	if rate != "" {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return tax, model.NewParseError(xmlutil.PathOf(el), "invalid percent "+rate, err)
		}
		tax.Percent = d
	}
	if basis, ok := readDecimal(xmlutil.TextOf(el, "BasisAmount")); ok {
		tax.Basis = basis
	}
	tax.Amount = readOptAmount(el, "CalculatedAmount")
	tax.AllowanceChargeBasisAmount = readOptAmount(el, "AllowanceChargeBasisAmount")
	return tax, nil
}

func readAllowanceCharge(el *etree.Element) (model.AllowanceCharge, error) {
	ac := model.AllowanceCharge{
		ChargeIndicator: xmlutil.TextOf(el, "ChargeIndicator", "Indicator") == "true",
		Reason:          xmlutil.TextOf(el, "Reason"),
		ReasonCode:      xmlutil.TextOf(el, "ReasonCode"),
	}
	if amt, ok := readDecimal(xmlutil.TextOf(el, "ActualAmount")); ok {
		ac.ActualAmount = amt
	}
	ac.BasisAmount = readOptAmount(el, "BasisAmount")
	ac.Percent = readOptAmount(el, "CalculationPercent")
	if tt := xmlutil.Child(el, "CategoryTradeTax"); tt != nil {
		tax, err := readTax(tt)
		if err != nil {
			return ac, err
		}
		ac.Tax = tax
	}
	return ac, nil
}

func readPaymentTerms(el *etree.Element, inv *model.Invoice) (*model.PaymentTerms, error) {
	pt := &model.PaymentTerms{Description: xmlutil.TextOf(el, "Description")}
	if due := xmlutil.Child(el, "DueDateDateTime"); due != nil {
		t, err := readDate(due)
		if err != nil {
			return nil, err
		}
		pt.DueDate = t
	}
	if mandate := xmlutil.TextOf(el, "DirectDebitMandateID"); mandate != "" {
		if inv.PaymentMeans == nil {
			inv.PaymentMeans = &model.PaymentMeans{TypeCode: model.PaymentMeansSEPADebit}
		}
		inv.PaymentMeans.SEPAMandateReference = mandate
	}
	if disc := xmlutil.Child(el, "ApplicableTradePaymentDiscountTerms"); disc != nil {
		d := &model.PaymentDiscount{}
		if days := xmlutil.TextOf(disc, "BasisPeriodMeasure"); days != "" {
			n, err := strconv.Atoi(days)
			if err != nil {
				return nil, model.NewParseError(xmlutil.PathOf(disc), "invalid day count "+days, err)
			}
			d.DueDays = n
		}
		if pct, ok := readDecimal(xmlutil.TextOf(disc, "CalculationPercent")); ok {
			d.Percent = pct
		}
		d.BasisAmount = readOptAmount(disc, "BasisAmount")
		d.ActualAmount = readOptAmount(disc, "ActualDiscountAmount")
		pt.Discount = d
	}
	return pt, nil
}

func readReference(el *etree.Element, kind model.DocumentKind) (*model.ReferencedDocument, error) {
	if el == nil {
		return nil, nil
	}
	ref := &model.ReferencedDocument{
		Kind:              kind,
		ID:                xmlutil.TextOf(el, "IssuerAssignedID"),
		URI:               xmlutil.TextOf(el, "URIID"),
		LineID:            xmlutil.TextOf(el, "LineID"),
		TypeCode:          xmlutil.TextOf(el, "TypeCode"),
		Name:              xmlutil.TextOf(el, "Name"),
		ReferenceTypeCode: xmlutil.TextOf(el, "ReferenceTypeCode"),
	}
	if ref.ID == "" {
		// the first revision carried the plain ID element
		ref.ID = xmlutil.TextOf(el, "ID")
	}
	if bin := xmlutil.Child(el, "AttachmentBinaryObject"); bin != nil {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(bin.Text()))
		if err != nil {
			return nil, model.NewParseError(xmlutil.PathOf(bin), "invalid base64 attachment", err)
		}
		ref.Attachment = &model.Attachment{
			Data:     data,
			Filename: attrValue(bin, "filename"),
			MimeType: attrValue(bin, "mimeCode"),
		}
	}
	if formatted := xmlutil.Child(el, "FormattedIssueDateTime"); formatted != nil {
		t, err := readDate(formatted)
		if err != nil {
			return nil, err
		}
		ref.IssueDate = t
	}
	return ref, nil
}

func readPrice(el *etree.Element) (*model.Price, error) {
	price := &model.Price{}
	if amt, ok := readDecimal(xmlutil.TextOf(el, "ChargeAmount")); ok {
		price.Amount = amt
	}
	if q := xmlutil.Child(el, "BasisQuantity"); q != nil {
		if amt, ok := readDecimal(q.Text()); ok {
			price.Quantity = &model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
		}
	}
	return price, nil
}

func readPeriod(period *etree.Element) (start, end *time.Time, err error) {
	if s := xmlutil.Child(period, "StartDateTime"); s != nil {
		start, err = readDate(s)
		if err != nil {
			return nil, nil, err
		}
	}
	if e := xmlutil.Child(period, "EndDateTime"); e != nil {
		end, err = readDate(e)
		if err != nil {
			return nil, nil, err
		}
	}
	return start, end, nil
}

// readDate resolves a date container: a qualified DateTimeString child wins,
// then the element's own ISO text. Returns nil (not an error) when the
// container is absent or empty.
func readDate(container *etree.Element) (*time.Time, error) {
	if container == nil {
		return nil, nil
	}
	var qualifiedFormat, qualifiedValue string
	if ds := xmlutil.Child(container, "DateTimeString"); ds != nil {
		qualifiedFormat = attrValue(ds, "format")
		qualifiedValue = strings.TrimSpace(ds.Text())
	}
	plain := strings.TrimSpace(container.Text())
	if qualifiedValue == "" && plain == "" {
		return nil, nil
	}
	t, err := model.ResolveDate(qualifiedFormat, qualifiedValue, plain, time.Time{})
	if err != nil {
		return nil, model.NewParseError(xmlutil.PathOf(container), "invalid date", err)
	}
	return &t, nil
}

func readOptAmount(parent *etree.Element, local string) *decimal.Decimal {
	if parent == nil {
		return nil
	}
	if d, ok := readDecimal(xmlutil.TextOf(parent, local)); ok {
		return &d
	}
	return nil
}

func readDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func attrValue(e *etree.Element, key string) string {
	if a := e.SelectAttr(key); a != nil {
		return a.Value
	}
	return ""
}
