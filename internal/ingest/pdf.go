package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nebulabyte/scout/internal/domain"
)

// ExtractPDFText extracts plain text from PDF bytes. Returns domain.ErrNoText
// when the document contains no extractable text.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not discard the rest.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "[Page %d]\n%s\n\n", pageNum, text)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", domain.ErrNoText
	}
	return out, nil
}

// ReadAllLimited reads r up to limit bytes, returning domain.ErrUploadTooLarge
// when the payload exceeds it.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrUploadTooLarge
	}
	return data, nil
}
