// Package extract pulls plain text and embedded metadata out of uploaded
// documents. PDF goes through ledongthuc/pdf; DOCX and ODT are zip archives
// read directly.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoText is returned when a document parsed cleanly but yielded no
// extractable text (encrypted PDFs, image-only scans, empty archives).
var ErrNoText = errors.New("no extractable text")

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatODT  Format = "odt"
)

// Metadata holds the embedded document properties common to all formats.
// Zero values mean the field was absent from the source.
type Metadata struct {
	Title    string            `json:"title,omitempty"`
	Author   string            `json:"author,omitempty"`
	Creator  string            `json:"creator,omitempty"`
	Producer string            `json:"producer,omitempty"`
	Created  time.Time         `json:"created,omitempty"`
	Modified time.Time         `json:"modified,omitempty"`
	Pages    int               `json:"pages,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

type Result struct {
	Format Format   `json:"format"`
	Text   string   `json:"-"`
	Meta   Metadata `json:"meta"`
}

var magicZip = []byte{0x50, 0x4b, 0x03, 0x04}

// Detect maps a filename plus leading bytes to a supported format. The
// extension decides the format; the magic bytes must agree.
func Detect(filename string, head []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		if !bytes.HasPrefix(head, []byte("%PDF-")) {
			return "", fmt.Errorf("%s: content is not a PDF", filename)
		}
		return FormatPDF, nil
	case ".docx":
		if !bytes.HasPrefix(head, magicZip) {
			return "", fmt.Errorf("%s: content is not a DOCX archive", filename)
		}
		return FormatDOCX, nil
	case ".odt":
		if !bytes.HasPrefix(head, magicZip) {
			return "", fmt.Errorf("%s: content is not an ODT archive", filename)
		}
		return FormatODT, nil
	default:
		return "", fmt.Errorf("unsupported document type %q", ext)
	}
}

// Extract runs the format-specific extractor over the full document bytes.
func Extract(format Format, data []byte) (*Result, error) {
	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	case FormatODT:
		return extractODT(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			continue
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n")
}
