// Package codec dispatches between the CII and UBL wire grammars: format and
// revision sniffing, a load path that routes a document to the right reader,
// and a save path that routes an invoice to the right writer.
package codec

import (
	"bytes"
	"io"

	"github.com/rezonia/einvoice-codec/internal/codec/cii"
	"github.com/rezonia/einvoice-codec/internal/codec/ubl"
	"github.com/rezonia/einvoice-codec/internal/model"
)

// Load sniffs the format and parses the document into an invoice. Totals are
// reconciled on the way in; discrepancies surface as warnings on the invoice,
// never as errors.
func Load(r io.Reader) (*model.Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	format, _, err := DetectFormatBytes(data)
	if err != nil {
		return nil, err
	}
	switch format {
	case model.FormatCII:
		return cii.NewReader().Read(bytes.NewReader(data))
	case model.FormatUBL:
		return ubl.NewReader().Read(bytes.NewReader(data))
	}
	return nil, model.NewUnsupportedError("no reader for format " + format.String())
}

// LoadBytes is Load over an in-memory document
func LoadBytes(data []byte) (*model.Invoice, error) {
	return Load(bytes.NewReader(data))
}

// Save serializes the invoice in the requested format, revision and profile.
// Unsupported combinations fail before anything reaches the destination.
func Save(inv *model.Invoice, format model.Format, version model.Version, p model.Profile, out io.Writer) error {
	switch format {
	case model.FormatCII:
		return cii.NewWriter(version, p).Write(inv, out)
	case model.FormatUBL:
		return ubl.NewWriter(version, p).Write(inv, out)
	}
	return model.NewUnsupportedCombination(format, version, p, "no writer for format "+format.String())
}

// SaveBytes is Save into a fresh buffer
func SaveBytes(inv *model.Invoice, format model.Format, version model.Version, p model.Profile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(inv, format, version, p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
