package codec

import (
	"bytes"
	"io"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-codec/internal/codec/cii"
	"github.com/rezonia/einvoice-codec/internal/codec/xmlutil"
	"github.com/rezonia/einvoice-codec/internal/model"
)

// DetectFormat identifies serialization format and standard revision from the
// root element alone, without parsing business content. CII documents carry
// the revision in their namespace family; UBL documents are always the newest
// revision, the UBL dialect having no earlier mapping.
func DetectFormat(r io.Reader) (model.Format, model.Version, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return model.FormatUnknown, model.VersionUnknown, model.NewParseError("/", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return model.FormatUnknown, model.VersionUnknown, model.NewParseError("/", "empty document", nil)
	}
	switch root.Tag {
	case "CrossIndustryDocument", "CrossIndustryInvoice":
		version, err := cii.VersionOf(root)
		if err != nil {
			return model.FormatUnknown, model.VersionUnknown, err
		}
		return model.FormatCII, version, nil
	case "Invoice", "CreditNote":
		return model.FormatUBL, model.Version23, nil
	}
	return model.FormatUnknown, model.VersionUnknown,
		model.NewFormatDetectionError(root.Tag, xmlutil.RootNamespace(root))
}

// DetectFormatBytes is DetectFormat over an in-memory document
func DetectFormatBytes(data []byte) (model.Format, model.Version, error) {
	return DetectFormat(bytes.NewReader(data))
}

// GetVersion exposes revision detection alone
func GetVersion(r io.Reader) (model.Version, error) {
	_, version, err := DetectFormat(r)
	return version, err
}
