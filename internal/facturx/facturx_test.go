package facturx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/einvoice-codec/internal/facturx"
	"github.com/rezonia/einvoice-codec/internal/model"
)

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "ZUGFeRD-invoice.xml", facturx.AttachmentName(model.Version1))
	assert.Equal(t, "factur-x.xml", facturx.AttachmentName(model.Version20))
	assert.Equal(t, "factur-x.xml", facturx.AttachmentName(model.Version23))
}

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := facturx.Extract([]byte("not a pdf"))
	assert.Error(t, err)
}
