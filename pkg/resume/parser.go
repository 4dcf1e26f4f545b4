package resume

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"baliance.com/gooxml/document"
	pdf "github.com/ledongthuc/pdf"
)

var (
	reHSpaces  = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines = regexp.MustCompile(`\n+`)
)

// ExtractText extracts plain text from an uploaded resume by its MIME type.
// Legacy .doc has no extractor and yields empty text; callers treat that as a
// degenerate (low-scoring) resume rather than a failure.
func ExtractText(mimeType string, data []byte) (string, error) {
	switch NormalizeMimeType(mimeType) {
	case MimePDF:
		return extractTextFromPDF(data)
	case MimeDocx:
		return extractTextFromDocx(data)
	case MimeDoc:
		return "", nil
	default:
		return "", ValidateMimeType(mimeType)
	}
}

func extractTextFromPDF(data []byte) (text string, err error) {
	// pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		sb.WriteByte('\n')
	}
	return normalizeWhitespace(sb.String()), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reHSpaces.ReplaceAllString(s, " ")
	// Preserve newlines but collapse runs
	s = reNewlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
