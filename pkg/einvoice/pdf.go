package einvoice

import "github.com/rezonia/einvoice-codec/internal/facturx"

// EmbedPDF attaches the given invoice XML to a PDF under the conventional
// attachment name for the revision, returning the new PDF bytes.
func EmbedPDF(pdf, xml []byte, version Version) ([]byte, error) {
	return facturx.Embed(pdf, xml, version)
}

// ExtractPDF pulls the embedded invoice XML out of a hybrid PDF. It accepts
// any of the attachment names used across revisions.
func ExtractPDF(pdf []byte) ([]byte, error) {
	return facturx.Extract(pdf)
}

// AttachmentName returns the embedded-file name convention for a revision.
func AttachmentName(version Version) string {
	return facturx.AttachmentName(version)
}
