package ubl

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/einvoice-codec/internal/calc"
	"github.com/rezonia/einvoice-codec/internal/model"
)

// UBL has no structured element for German early-payment discount schedules,
// so they travel as fixed-syntax note lines:
//
//	#SKONTO#TAGE#14#PROZENT=2.00#BASISBETRAG=123.45#
//
// The base amount token is optional. Token syntax and indentation are fixed
// by the XRechnung specification and validators reject deviations.

const skontoTag = "#SKONTO#"

// skontoIndent puts the token lines two spaces deeper than the enclosing
// note element, which sits at depth two of the document tree
const skontoIndent = "      "

func formatSkonto(d *model.PaymentDiscount) string {
	var b strings.Builder
	b.WriteString(skontoTag)
	b.WriteString("TAGE#")
	b.WriteString(strconv.Itoa(d.DueDays))
	b.WriteString("#PROZENT=")
	b.WriteString(calc.FormatAmount(d.Percent))
	if d.BasisAmount != nil {
		b.WriteString("#BASISBETRAG=")
		b.WriteString(calc.FormatAmount(*d.BasisAmount))
	}
	b.WriteString("#")
	return b.String()
}

// formatSkontoNote renders one note block holding every discount term,
// one token line each
func formatSkontoNote(terms []*model.PaymentTerms) string {
	var lines []string
	for _, pt := range terms {
		if pt.Discount != nil {
			lines = append(lines, skontoIndent+formatSkonto(pt.Discount))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

// parseSkonto parses a single token line back into a structured discount.
// Returns nil for lines that are not skonto tokens at all; malformed token
// lines fail with a ParseError, silent data loss being worse than rejection.
func parseSkonto(line string) (*model.PaymentDiscount, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, skontoTag) {
		return nil, nil
	}
	body := strings.TrimPrefix(line, skontoTag)
	body = strings.TrimSuffix(body, "#")
	parts := strings.Split(body, "#")

	d := &model.PaymentDiscount{}
	seenDays, seenPercent := false, false
	for i := 0; i < len(parts); i++ {
		switch {
		case parts[i] == "TAGE":
			if i+1 >= len(parts) {
				return nil, model.NewParseError("cbc:Note", "skonto day count missing: "+line, nil)
			}
			i++
			n, err := strconv.Atoi(parts[i])
			if err != nil {
				return nil, model.NewParseError("cbc:Note", "invalid skonto day count "+parts[i], err)
			}
			d.DueDays = n
			seenDays = true
		case strings.HasPrefix(parts[i], "PROZENT="):
			v, err := decimal.NewFromString(strings.TrimPrefix(parts[i], "PROZENT="))
			if err != nil {
				return nil, model.NewParseError("cbc:Note", "invalid skonto percentage in "+line, err)
			}
			d.Percent = v
			seenPercent = true
		case strings.HasPrefix(parts[i], "BASISBETRAG="):
			v, err := decimal.NewFromString(strings.TrimPrefix(parts[i], "BASISBETRAG="))
			if err != nil {
				return nil, model.NewParseError("cbc:Note", "invalid skonto base amount in "+line, err)
			}
			d.BasisAmount = model.D(v)
		default:
			return nil, model.NewParseError("cbc:Note", "unknown skonto token "+parts[i], nil)
		}
	}
	if !seenDays || !seenPercent {
		return nil, model.NewParseError("cbc:Note", "incomplete skonto term: "+line, nil)
	}
	return d, nil
}

// parseSkontoNote splits a note into discount terms, one per token line
func parseSkontoNote(text string) ([]*model.PaymentDiscount, error) {
	var out []*model.PaymentDiscount
	for _, line := range strings.Split(text, "\n") {
		d, err := parseSkonto(line)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
