package einvoice

import (
	"io"

	"github.com/rezonia/einvoice-codec/internal/codec"
	"github.com/rezonia/einvoice-codec/internal/profile"
)

// Load auto-detects the wire format and parses the document. Totals are
// reconciled on load; discrepancies land in Invoice.Warnings.
func Load(r io.Reader) (*Invoice, error) {
	return codec.Load(r)
}

// LoadBytes is Load over an in-memory document
func LoadBytes(data []byte) (*Invoice, error) {
	return codec.LoadBytes(data)
}

// Save serializes the invoice in the requested format, revision and profile.
// A failed save writes nothing to the destination.
func Save(inv *Invoice, format Format, version Version, p Profile, out io.Writer) error {
	return codec.Save(inv, format, version, p, out)
}

// SaveBytes is Save into a fresh buffer
func SaveBytes(inv *Invoice, format Format, version Version, p Profile) ([]byte, error) {
	return codec.SaveBytes(inv, format, version, p)
}

// DetectFormat identifies format and revision from the root element alone
func DetectFormat(r io.Reader) (Format, Version, error) {
	return codec.DetectFormat(r)
}

// GetVersion exposes revision detection alone
func GetVersion(r io.Reader) (Version, error) {
	return codec.GetVersion(r)
}

// SupportedCombination reports whether a format, revision and profile have a
// serialization mapping at all
func SupportedCombination(format Format, version Version, p Profile) bool {
	return profile.SupportedCombination(format, version, p)
}
