// Package document turns uploaded answer attachments into text.
package document

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensions = map[string]string{
	".txt":  MIMEText,
	".pdf":  MIMEPDF,
	".docx": MIMEDocx,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// DetectMIME prefers the file extension and falls back to content sniffing.
func DetectMIME(filename string, data []byte) string {
	if mime, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime
}

func IsImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

func IsDocument(mime string) bool {
	switch mime {
	case MIMEText, MIMEPDF, MIMEDocx:
		return true
	}
	return false
}

// ExtractText returns the plain text of a text, pdf or docx document.
func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case MIMEText:
		return string(data), nil

	case MIMEPDF:
		return extractPDFText(bytes.NewReader(data))

	case MIMEDocx:
		return extractDocxText(bytes.NewReader(data))

	default:
		return "", fmt.Errorf("unsupported file type: %s", mime)
	}
}

func extractPDFText(reader *bytes.Reader) (string, error) {
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(reader *bytes.Reader) (string, error) {
	doc, err := docx.ReadDocxFromMemory(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripMarkup(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	tag          = regexp.MustCompile(`<[^>]+>`)
	blankRuns    = regexp.MustCompile(`[ \t]+`)
)

// stripMarkup reduces WordprocessingML to its text, one line per paragraph.
func stripMarkup(xml string) string {
	text := paragraphEnd.ReplaceAllString(xml, "\n")
	text = tag.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// Attachment is an uploaded file rendered as answer text.
type Attachment struct {
	Name string
	Text string
}

// AppendAttachments adds each document's text to answer under a header line.
func AppendAttachments(answer string, docs []Attachment) string {
	var b strings.Builder
	b.WriteString(answer)
	for _, d := range docs {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[document: %s]\n%s", d.Name, strings.TrimSpace(d.Text))
	}
	return b.String()
}

// ReadAll reads at most limit bytes from r.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}
