package extract

import (
	"bytes"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads text page by page, grouping content items into lines by
// their Y coordinate so downstream line-oriented parsing (quiz segmentation)
// still works. The library panics on some malformed files, so every call
// into it is guarded.
func extractPDF(data []byte) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, ErrNoText
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	meta := pdfMetadata(reader)

	var b strings.Builder
	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = reader.NumPage()
	}()
	meta.Pages = pages

	for i := 1; i <= pages; i++ {
		func() {
			defer func() { _ = recover() }()
			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}
			content := page.Content()
			lastY := -1.0
			for _, item := range content.Text {
				if lastY >= 0 && item.Y != lastY {
					b.WriteByte('\n')
				} else if lastY >= 0 {
					b.WriteByte(' ')
				}
				b.WriteString(item.S)
				lastY = item.Y
			}
			b.WriteByte('\n')
		}()
	}

	text := normalizeText(b.String())
	if text == "" {
		return &Result{Format: FormatPDF, Meta: meta}, ErrNoText
	}
	return &Result{Format: FormatPDF, Text: text, Meta: meta}, nil
}

func pdfMetadata(reader *pdf.Reader) Metadata {
	var meta Metadata
	func() {
		defer func() { _ = recover() }()
		info := reader.Trailer().Key("Info")
		if info.IsNull() {
			return
		}
		meta.Title = pdfString(info.Key("Title"))
		meta.Author = pdfString(info.Key("Author"))
		meta.Creator = pdfString(info.Key("Creator"))
		meta.Producer = pdfString(info.Key("Producer"))
		meta.Created = parsePDFDate(pdfString(info.Key("CreationDate")))
		meta.Modified = parsePDFDate(pdfString(info.Key("ModDate")))
	}()
	return meta
}

func pdfString(v pdf.Value) string {
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// parsePDFDate handles the Info dictionary date form "D:YYYYMMDDHHmmSS"
// with an optional timezone suffix. Unparseable input yields the zero time.
func parsePDFDate(s string) time.Time {
	s = strings.TrimPrefix(s, "D:")
	if len(s) < 8 {
		return time.Time{}
	}
	// Strip apostrophes from offsets like +05'30'
	s = strings.ReplaceAll(s, "'", "")
	layouts := []string{
		"20060102150405-0700",
		"20060102150405Z",
		"20060102150405",
		"200601021504",
		"20060102",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
