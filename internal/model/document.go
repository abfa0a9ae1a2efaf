package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Attachment is an embedded binary document with its filename and the MIME
// type sniffed from the filename extension.
type Attachment struct {
	Data     []byte
	Filename string
	MimeType string
}

// MimeTypeForFilename maps a filename extension to the MIME types the
// standards allow for embedded attachments.
func MimeTypeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".ods":
		return "application/vnd.oasis.opendocument.spreadsheet"
	case ".xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}

// ReferencedDocument is the single kind-tagged reference type covering order,
// contract, delivery-note, preceding-invoice, despatch-advice, and additional
// supporting documents, at document or line level.
type ReferencedDocument struct {
	Kind      DocumentKind
	ID        string
	IssueDate *time.Time
	// LineID is set for per-line references
	LineID string
	// TypeCode is the UNTDID 1001 document type, e.g. "916" for additional
	// supporting documents
	TypeCode string
	// ReferenceTypeCode qualifies the ID (UNTDID 1153)
	ReferenceTypeCode string
	URI               string
	Name              string
	Attachment        *Attachment
}

// NewAdditionalDocument builds an additional supporting document reference
// with an embedded attachment; the MIME type is sniffed from the filename.
func NewAdditionalDocument(id, name, filename string, data []byte) ReferencedDocument {
	doc := ReferencedDocument{
		Kind:     KindAdditional,
		ID:       id,
		TypeCode: "916",
		Name:     name,
	}
	if len(data) > 0 {
		doc.Attachment = &Attachment{
			Data:     data,
			Filename: filename,
			MimeType: MimeTypeForFilename(filename),
		}
	}
	return doc
}
