package extractor

import (
	"testing"

	"ai-docchat-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestKindForMime(t *testing.T) {
	kind, err := KindForMime("application/pdf")
	assert.NoError(t, err)
	assert.Equal(t, KindPDF, kind)

	kind, err = KindForMime("text/plain")
	assert.NoError(t, err)
	assert.Equal(t, KindText, kind)

	_, err = KindForMime("image/png")
	assert.True(t, apperror.IsValidationError(err))
}

func TestExtractPlainText(t *testing.T) {
	text, err := Extract([]byte("hello document"), KindText)
	assert.NoError(t, err)
	assert.Equal(t, "hello document", text)
}

func TestExtractEmptyText(t *testing.T) {
	_, err := Extract([]byte("   \n\t  "), KindText)
	assert.True(t, apperror.IsValidationError(err))
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract([]byte("not a pdf at all"), KindPDF)
	assert.True(t, apperror.IsValidationError(err))
}
