package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"ai-docchat-be/pkg/apperror"

	"github.com/ledongthuc/pdf"
)

// Document content kinds.
const (
	KindPDF  = "PDF"
	KindText = "TEXT"
)

// KindForMime maps an upload MIME type to a content kind. Only PDF and
// plain text are supported.
func KindForMime(mime string) (string, error) {
	switch mime {
	case "application/pdf":
		return KindPDF, nil
	case "text/plain":
		return KindText, nil
	default:
		return "", apperror.NewValidationError("unsupported file type %q, only PDF and plain text are supported", mime)
	}
}

// Extract pulls plain text out of an uploaded file. Returns a
// ValidationError when no usable text could be extracted.
func Extract(content []byte, kind string) (string, error) {
	var text string
	var err error

	switch kind {
	case KindPDF:
		text, err = extractPDF(content)
		if err != nil {
			return "", apperror.NewValidationError("could not extract text from PDF: %v", err)
		}
	case KindText:
		text = string(content)
	default:
		return "", apperror.NewValidationError("unknown content kind %q", kind)
	}

	if strings.TrimSpace(text) == "" {
		return "", apperror.NewValidationError("could not extract text from file")
	}

	return text, nil
}

func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(text)
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
