// Package facturx packages invoice XML into PDF/A containers and pulls it
// back out, using PDF embedded-file attachments under the names the hybrid
// e-invoice conventions reserve.
package facturx

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rezonia/einvoice-codec/internal/model"
)

// Attachment names reserved by the conventions. The first revision used its
// own name; everything since 2.0 attaches as factur-x.xml. Both plus the
// transitional zugferd name are recognized on extraction.
const (
	AttachmentNameV1      = "ZUGFeRD-invoice.xml"
	AttachmentNameCurrent = "factur-x.xml"
	attachmentNameZF2     = "zugferd-invoice.xml"
)

// AttachmentName returns the embedded-file name for a revision
func AttachmentName(version model.Version) string {
	if version == model.Version1 {
		return AttachmentNameV1
	}
	return AttachmentNameCurrent
}

// Embed attaches the invoice XML to the PDF under the revision's reserved
// name and returns the combined document
func Embed(pdf, xml []byte, version model.Version) ([]byte, error) {
	dir, err := os.MkdirTemp("", "facturx")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	// pdfcpu derives the embedded-file name from the path on disk
	path := filepath.Join(dir, AttachmentName(version))
	if err := os.WriteFile(path, xml, 0o600); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(pdf), &out, []string{path}, false, nil); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Extract returns the embedded invoice XML, trying the reserved names across
// all revisions. A PDF without one fails with a ParseError.
func Extract(pdf []byte) ([]byte, error) {
	listed, err := api.Attachments(bytes.NewReader(pdf), nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(listed))
	for i, a := range listed {
		names[i] = a.FileName
	}
	for _, candidate := range []string{AttachmentNameCurrent, attachmentNameZF2, AttachmentNameV1} {
		if !containsName(names, candidate) {
			continue
		}
		attachments, err := api.ExtractAttachmentsRaw(bytes.NewReader(pdf), "", []string{candidate}, nil)
		if err != nil {
			return nil, err
		}
		for _, a := range attachments {
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(a.Reader); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}
	return nil, model.NewParseError("/", "no embedded invoice attachment found", nil)
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		// pdfcpu lists attachments as "name (description)"
		if n == want || len(n) > len(want) && n[:len(want)] == want {
			return true
		}
	}
	return false
}
