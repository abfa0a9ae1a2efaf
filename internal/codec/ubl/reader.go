package ubl

import (
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
)

// Reader parses a UBL invoice document
type Reader struct{}

// NewReader creates a UBL reader
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the stream into an invoice. All UBL documents read as the
// newest revision, the UBL dialect having joined the family there.
func (r *Reader) Read(in io.Reader) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(in); err != nil {
		return nil, model.NewParseError("/", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("/", "empty document", nil)
	}
	if root.Tag != "Invoice" {
		return nil, model.NewFormatDetectionError(root.Tag, xmlutil.RootNamespace(root))
	}

	inv := &model.Invoice{
		Format:  model.FormatUBL,
		Version: model.Version23,
		Profile: profileFromCustomization(xmlutil.TextOf(root, "CustomizationID")),
		Seller:  &model.Party{},
		Buyer:   &model.Party{},
	}
	inv.Number = xmlutil.TextOf(root, "ID")
	if inv.Number == "" {
		return nil, model.NewParseError("cbc:ID", "mandatory element missing", nil)
	}
	inv.TypeCode = xmlutil.TextOf(root, "InvoiceTypeCode")
	inv.Currency = xmlutil.TextOf(root, "DocumentCurrencyCode")
	inv.BuyerReference = xmlutil.TextOf(root, "BuyerReference")
	inv.BusinessProcess = xmlutil.TextOf(root, "ProfileID")

	var err error
	if inv.IssueDate, err = readISODate(root, "IssueDate"); err != nil {
		return nil, err
	}
	dueDate, err := readISODate(root, "DueDate")
	if err != nil {
		return nil, err
	}

	for _, n := range xmlutil.Children(root, "Note") {
		inv.Notes = append(inv.Notes, parseNote(n.Text()))
	}

	if period := xmlutil.Child(root, "InvoicePeriod"); period != nil {
		if inv.BillingPeriodStart, err = readISODate(period, "StartDate"); err != nil {
			return nil, err
		}
		if inv.BillingPeriodEnd, err = readISODate(period, "EndDate"); err != nil {
			return nil, err
		}
	}

	if order := xmlutil.Child(root, "OrderReference"); order != nil {
		inv.References = append(inv.References, model.ReferencedDocument{
			Kind: model.KindOrder,
			ID:   xmlutil.TextOf(order, "ID"),
		})
	}
	for _, billing := range xmlutil.Children(root, "BillingReference") {
		if ref, err := readDocReference(xmlutil.Child(billing, "InvoiceDocumentReference"), model.KindInvoice); err != nil {
			return nil, err
		} else if ref != nil {
			inv.References = append(inv.References, *ref)
		}
	}
	singles := []struct {
		tag  string
		kind model.DocumentKind
	}{
		{"DespatchDocumentReference", model.KindDespatchAdvice},
		{"ReceiptDocumentReference", model.KindDeliveryNote},
		{"ContractDocumentReference", model.KindContract},
	}
	for _, s := range singles {
		if ref, err := readDocReference(xmlutil.Child(root, s.tag), s.kind); err != nil {
			return nil, err
		} else if ref != nil {
			inv.References = append(inv.References, *ref)
		}
	}
	for _, el := range xmlutil.Children(root, "AdditionalDocumentReference") {
		ref, err := readDocReference(el, model.KindAdditional)
		if err != nil {
			return nil, err
		}
		inv.References = append(inv.References, *ref)
	}

	if supplier := xmlutil.Child(root, "AccountingSupplierParty"); supplier != nil {
		inv.Seller = readUBLParty(xmlutil.Child(supplier, "Party"))
	}
	if inv.Seller == nil || inv.Seller.Name == "" {
		return nil, model.NewParseError("cac:AccountingSupplierParty", "mandatory element missing", nil)
	}
	if customer := xmlutil.Child(root, "AccountingCustomerParty"); customer != nil {
		inv.Buyer = readUBLParty(xmlutil.Child(customer, "Party"))
	}
	if inv.Buyer == nil || inv.Buyer.Name == "" {
		return nil, model.NewParseError("cac:AccountingCustomerParty", "mandatory element missing", nil)
	}
	if payee := xmlutil.Child(root, "PayeeParty"); payee != nil {
		inv.Payee = readUBLParty(payee)
	}

	if delivery := xmlutil.Child(root, "Delivery"); delivery != nil {
		if inv.DeliveryDate, err = readISODate(delivery, "ActualDeliveryDate"); err != nil {
			return nil, err
		}
		shipTo := &model.Party{}
		if loc := xmlutil.Child(delivery, "DeliveryLocation"); loc != nil {
			if addr := xmlutil.Child(loc, "Address"); addr != nil {
				shipTo.Street = xmlutil.TextOf(addr, "StreetName")
				shipTo.City = xmlutil.TextOf(addr, "CityName")
				shipTo.Postcode = xmlutil.TextOf(addr, "PostalZone")
				shipTo.Country = xmlutil.TextOf(addr, "Country", "IdentificationCode")
			}
		}
		shipTo.Name = xmlutil.TextOf(delivery, "DeliveryParty", "PartyName", "Name")
		if *shipTo != (model.Party{}) {
			inv.ShipTo = shipTo
		}
	}

	for _, pm := range xmlutil.Children(root, "PaymentMeans") {
		r.readPaymentMeans(pm, inv)
	}
	if err := r.readPaymentTerms(root, inv, dueDate); err != nil {
		return nil, err
	}

	for _, acEl := range xmlutil.Children(root, "AllowanceCharge") {
		ac, err := readUBLAllowanceCharge(acEl)
		if err != nil {
			return nil, err
		}
		inv.AllowanceCharges = append(inv.AllowanceCharges, ac)
	}

	if total := xmlutil.Child(root, "TaxTotal"); total != nil {
		inv.Totals.TaxTotal = readOptAmount(total, "TaxAmount")
		for _, sub := range xmlutil.Children(total, "TaxSubtotal") {
			tax := model.Tax{}
			if basis, ok := readDecimal(xmlutil.TextOf(sub, "TaxableAmount")); ok {
				tax.Basis = basis
			}
			tax.Amount = readOptAmount(sub, "TaxAmount")
			if cat := xmlutil.Child(sub, "TaxCategory"); cat != nil {
				tax.CategoryCode = fromUBLTaxCategory(xmlutil.TextOf(cat, "ID"))
				if pct, ok := readDecimal(xmlutil.TextOf(cat, "Percent")); ok {
					tax.Percent = pct
				}
				tax.ExemptionReason = xmlutil.TextOf(cat, "TaxExemptionReason")
				tax.ExemptionReasonCode = xmlutil.TextOf(cat, "TaxExemptionReasonCode")
				tax.TypeCode = xmlutil.TextOf(cat, "TaxScheme", "ID")
			}
			inv.Taxes = append(inv.Taxes, tax)
		}
	}

	if total := xmlutil.Child(root, "LegalMonetaryTotal"); total != nil {
		inv.Totals.LineTotal = readOptAmount(total, "LineExtensionAmount")
		inv.Totals.TaxBasis = readOptAmount(total, "TaxExclusiveAmount")
		inv.Totals.GrandTotal = readOptAmount(total, "TaxInclusiveAmount")
		inv.Totals.AllowanceTotal = readOptAmount(total, "AllowanceTotalAmount")
		inv.Totals.ChargeTotal = readOptAmount(total, "ChargeTotalAmount")
		inv.Totals.Prepaid = readOptAmount(total, "PrepaidAmount")
		inv.Totals.Rounding = readOptAmount(total, "PayableRoundingAmount")
		inv.Totals.DuePayable = readOptAmount(total, "PayableAmount")
	}

	for _, lineEl := range xmlutil.Children(root, "InvoiceLine") {
		if err := r.readLine(lineEl, "", inv); err != nil {
			return nil, err
		}
	}
	if len(inv.Lines) == 0 {
		return nil, model.NewParseError("cac:InvoiceLine", "mandatory element missing", nil)
	}

	inv.Warnings = calc.Reconcile(inv, calc.DefaultOptions())
	return inv, nil
}

func (r *Reader) readLine(lineEl *etree.Element, parentID string, inv *model.Invoice) error {
	li := &model.TradeLineItem{
		LineID:       xmlutil.TextOf(lineEl, "ID"),
		ParentLineID: parentID,
	}
	for _, n := range xmlutil.Children(lineEl, "Note") {
		li.Notes = append(li.Notes, n.Text())
	}
	if q := xmlutil.Child(lineEl, "InvoicedQuantity"); q != nil {
		amt, ok := readDecimal(q.Text())
		if !ok {
			return model.NewParseError(xmlutil.PathOf(q), "invalid quantity "+q.Text(), nil)
		}
		li.BilledQuantity = model.Quantity{Amount: amt, Unit: attrValue(q, "unitCode")}
	}
	li.LineTotal = readOptAmount(lineEl, "LineExtensionAmount")
	li.AccountingAccount = xmlutil.TextOf(lineEl, "AccountingCost")

	if period := xmlutil.Child(lineEl, "InvoicePeriod"); period != nil {
		var err error
		if li.BillingPeriodStart, err = readISODate(period, "StartDate"); err != nil {
			return err
		}
		if li.BillingPeriodEnd, err = readISODate(period, "EndDate"); err != nil {
			return err
		}
	}
	if olr := xmlutil.Child(lineEl, "OrderLineReference"); olr != nil {
		li.References = append(li.References, model.ReferencedDocument{
			Kind:   model.KindOrder,
			LineID: xmlutil.TextOf(olr, "LineID"),
		})
	}
	for _, acEl := range xmlutil.Children(lineEl, "AllowanceCharge") {
		ac, err := readUBLAllowanceCharge(acEl)
		if err != nil {
			return err
		}
		li.AllowanceCharges = append(li.AllowanceCharges, ac)
	}

	if item := xmlutil.Child(lineEl, "Item"); item != nil {
		li.Description = xmlutil.TextOf(item, "Description")
		li.Name = xmlutil.TextOf(item, "Name")
		li.BuyerAssignedID = xmlutil.TextOf(item, "BuyersItemIdentification", "ID")
		li.SellerAssignedID = xmlutil.TextOf(item, "SellersItemIdentification", "ID")
		if std := xmlutil.Child(item, "StandardItemIdentification"); std != nil {
			if id := xmlutil.Child(std, "ID"); id != nil {
				li.GlobalID = &model.GlobalID{SchemeID: attrValue(id, "schemeID"), ID: strings.TrimSpace(id.Text())}
			}
		}
		if cat := xmlutil.Child(item, "ClassifiedTaxCategory"); cat != nil {
			li.Tax.CategoryCode = fromUBLTaxCategory(xmlutil.TextOf(cat, "ID"))
			if pct, ok := readDecimal(xmlutil.TextOf(cat, "Percent")); ok {
				li.Tax.Percent = pct
			}
			li.Tax.TypeCode = xmlutil.TextOf(cat, "TaxScheme", "ID")
		}
		for _, prop := range xmlutil.Children(item, "AdditionalItemProperty") {
			li.Characteristics = append(li.Characteristics, model.Characteristic{
				Description: xmlutil.TextOf(prop, "Name"),
				Value:       xmlutil.TextOf(prop, "Value"),
			})
		}
	}

	if price := xmlutil.Child(lineEl, "Price"); price != nil {
		if amt, ok := readDecimal(xmlutil.TextOf(price, "PriceAmount")); ok {
			li.NetPrice.Amount = amt
		}
		if base := xmlutil.Child(price, "BaseQuantity"); base != nil {
			if amt, ok := readDecimal(base.Text()); ok {
				li.NetPrice.Quantity = &model.Quantity{Amount: amt, Unit: attrValue(base, "unitCode")}
			}
		}
		if ac := xmlutil.Child(price, "AllowanceCharge"); ac != nil {
			if gross, ok := readDecimal(xmlutil.TextOf(ac, "BaseAmount")); ok {
				li.GrossPrice = &model.Price{Amount: gross}
			}
		}
	}

	inv.Lines = append(inv.Lines, li)

	for _, sub := range xmlutil.Children(lineEl, "SubInvoiceLine") {
		if err := r.readLine(sub, li.LineID, inv); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readPaymentMeans(pm *etree.Element, inv *model.Invoice) {
	if inv.PaymentMeans == nil {
		inv.PaymentMeans = &model.PaymentMeans{
			TypeCode:       xmlutil.TextOf(pm, "PaymentMeansCode"),
			Information:    xmlutil.TextOf(pm, "InstructionNote"),
			SEPACreditorID: xmlutil.TextOf(pm, "PaymentID"),
		}
		if card := xmlutil.Child(pm, "CardAccount"); card != nil {
			inv.PaymentMeans.Card = &model.PaymentCard{
				ID:         xmlutil.TextOf(card, "PrimaryAccountNumberID"),
				HolderName: xmlutil.TextOf(card, "HolderName"),
			}
		}
	}
	if acct := xmlutil.Child(pm, "PayeeFinancialAccount"); acct != nil {
		inv.CreditorAccounts = append(inv.CreditorAccounts, model.BankAccount{
			IBAN:        xmlutil.TextOf(acct, "ID"),
			AccountName: xmlutil.TextOf(acct, "Name"),
			BIC:         xmlutil.TextOf(acct, "FinancialInstitutionBranch", "ID"),
		})
	}
	if mandate := xmlutil.Child(pm, "PaymentMandate"); mandate != nil {
		inv.PaymentMeans.SEPAMandateReference = xmlutil.TextOf(mandate, "ID")
		if iban := xmlutil.TextOf(mandate, "PayerFinancialAccount", "ID"); iban != "" {
			inv.DebitorAccounts = append(inv.DebitorAccounts, model.BankAccount{IBAN: iban})
		}
	}
}

// readPaymentTerms reverses writePaymentTerms: token lines become structured
// discount entries, the remaining text a description entry
func (r *Reader) readPaymentTerms(root *etree.Element, inv *model.Invoice, dueDate *time.Time) error {
	terms := xmlutil.Child(root, "PaymentTerms")
	if terms == nil {
		if dueDate != nil {
			inv.PaymentTerms = append(inv.PaymentTerms, &model.PaymentTerms{DueDate: dueDate})
		}
		return nil
	}
	var descriptions []string
	for _, n := range xmlutil.Children(terms, "Note") {
		for _, line := range strings.Split(n.Text(), "\n") {
			d, err := parseSkonto(line)
			if err != nil {
				return err
			}
			if d != nil {
				inv.PaymentTerms = append(inv.PaymentTerms, &model.PaymentTerms{Discount: d})
			} else if trimmed := strings.TrimSpace(line); trimmed != "" {
				descriptions = append(descriptions, trimmed)
			}
		}
	}
	if len(descriptions) > 0 || len(inv.PaymentTerms) == 0 {
		inv.PaymentTerms = append([]*model.PaymentTerms{{
			Description: strings.Join(descriptions, "\n"),
			DueDate:     dueDate,
		}}, inv.PaymentTerms...)
	} else if dueDate != nil {
		inv.PaymentTerms[0].DueDate = dueDate
	}
	return nil
}

func readUBLParty(el *etree.Element) *model.Party {
	if el == nil {
		return nil
	}
	p := &model.Party{}
	if endpoint := xmlutil.Child(el, "EndpointID"); endpoint != nil {
		p.ElectronicAddress = &model.ElectronicAddress{
			SchemeID: attrValue(endpoint, "schemeID"),
			Address:  strings.TrimSpace(endpoint.Text()),
		}
	}
	if pid := xmlutil.Child(el, "PartyIdentification"); pid != nil {
		if id := xmlutil.Child(pid, "ID"); id != nil {
			if scheme := attrValue(id, "schemeID"); scheme != "" {
				p.GlobalID = &model.GlobalID{SchemeID: scheme, ID: strings.TrimSpace(id.Text())}
			} else {
				p.ID = strings.TrimSpace(id.Text())
			}
		}
	}
	p.Name = xmlutil.TextOf(el, "PartyName", "Name")
	if addr := xmlutil.Child(el, "PostalAddress"); addr != nil {
		p.Street = xmlutil.TextOf(addr, "StreetName")
		p.AddressLine2 = xmlutil.TextOf(addr, "AdditionalStreetName")
		p.City = xmlutil.TextOf(addr, "CityName")
		p.Postcode = xmlutil.TextOf(addr, "PostalZone")
		p.CountrySubdivision = xmlutil.TextOf(addr, "CountrySubentity")
		p.AddressLine3 = xmlutil.TextOf(addr, "AddressLine", "Line")
		p.Country = xmlutil.TextOf(addr, "Country", "IdentificationCode")
	}
	for _, scheme := range xmlutil.Children(el, "PartyTaxScheme") {
		companyID := xmlutil.TextOf(scheme, "CompanyID")
		switch xmlutil.TextOf(scheme, "TaxScheme", "ID") {
		case "FC":
			p.TaxRegistration = companyID
		default:
			p.VATRegistration = companyID
		}
	}
	if legal := xmlutil.Child(el, "PartyLegalEntity"); legal != nil {
		if p.Name == "" {
			p.Name = xmlutil.TextOf(legal, "RegistrationName")
		}
		if id := xmlutil.Child(legal, "CompanyID"); id != nil {
			p.LegalOrganization = &model.LegalOrganization{
				ID: model.GlobalID{SchemeID: attrValue(id, "schemeID"), ID: strings.TrimSpace(id.Text())},
			}
		}
	}
	if contact := xmlutil.Child(el, "Contact"); contact != nil {
		p.Contact = &model.Contact{
			Name:  xmlutil.TextOf(contact, "Name"),
			Phone: xmlutil.TextOf(contact, "Telephone"),
			Email: xmlutil.TextOf(contact, "ElectronicMail"),
		}
	}
	return p
}

func readUBLAllowanceCharge(el *etree.Element) (model.AllowanceCharge, error) {
	ac := model.AllowanceCharge{
		ChargeIndicator: xmlutil.TextOf(el, "ChargeIndicator") == "true",
		ReasonCode:      xmlutil.TextOf(el, "AllowanceChargeReasonCode"),
		Reason:          xmlutil.TextOf(el, "AllowanceChargeReason"),
	}
	if amt, ok := readDecimal(xmlutil.TextOf(el, "Amount")); ok {
		ac.ActualAmount = amt
	}
	ac.BasisAmount = readOptAmount(el, "BaseAmount")
	ac.Percent = readOptAmount(el, "MultiplierFactorNumeric")
	if cat := xmlutil.Child(el, "TaxCategory"); cat != nil {
		ac.Tax.CategoryCode = fromUBLTaxCategory(xmlutil.TextOf(cat, "ID"))
		if pct, ok := readDecimal(xmlutil.TextOf(cat, "Percent")); ok {
			ac.Tax.Percent = pct
		}
		ac.Tax.TypeCode = xmlutil.TextOf(cat, "TaxScheme", "ID")
	}
	return ac, nil
}

func readDocReference(el *etree.Element, kind model.DocumentKind) (*model.ReferencedDocument, error) {
	if el == nil {
		return nil, nil
	}
	ref := &model.ReferencedDocument{
		Kind:     kind,
		ID:       xmlutil.TextOf(el, "ID"),
		TypeCode: xmlutil.TextOf(el, "DocumentTypeCode"),
		Name:     xmlutil.TextOf(el, "DocumentDescription"),
	}
	var err error
	if ref.IssueDate, err = readISODate(el, "IssueDate"); err != nil {
		return nil, err
	}
	if att := xmlutil.Child(el, "Attachment"); att != nil {
		if bin := xmlutil.Child(att, "EmbeddedDocumentBinaryObject"); bin != nil {
			data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(bin.Text()))
			if err != nil {
				return nil, model.NewParseError(xmlutil.PathOf(bin), "invalid base64 attachment", err)
			}
			ref.Attachment = &model.Attachment{
				Data:     data,
				MimeType: attrValue(bin, "mimeCode"),
				Filename: attrValue(bin, "filename"),
			}
		}
		ref.URI = xmlutil.TextOf(att, "ExternalReference", "URI")
	}
	return ref, nil
}

// parseNote splits the XRechnung subject-code convention "#CODE#text"
func parseNote(text string) model.Note {
	if strings.HasPrefix(text, "#") {
		if end := strings.Index(text[1:], "#"); end > 0 {
			code := text[1 : 1+end]
			if code == strings.ToUpper(code) && !strings.ContainsAny(code, " =") {
				return model.Note{SubjectCode: code, Text: text[end+2:]}
			}
		}
	}
	return model.Note{Text: text}
}

func readISODate(parent *etree.Element, local string) (*time.Time, error) {
	el := xmlutil.Child(parent, local)
	if el == nil {
		return nil, nil
	}
	s := strings.TrimSpace(el.Text())
	if s == "" {
		return nil, nil
	}
	t, err := model.ParseISODate(s)
	if err != nil {
		return nil, model.NewParseError(xmlutil.PathOf(el), "invalid date "+s, err)
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
