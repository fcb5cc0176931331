package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// extractDOCX reads word/document.xml for text and docProps/core.xml plus
// docProps/app.xml for the embedded properties. Paragraph close tags become
// newlines before tags are stripped so line structure survives.
func extractDOCX(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: %w", err)
	}

	meta := docxMetadata(zr)

	raw, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return &Result{Format: FormatDOCX, Meta: meta}, ErrNoText
	}
	text := stripXML(raw, "</w:p>", "<w:br/>")
	if text == "" {
		return &Result{Format: FormatDOCX, Meta: meta}, ErrNoText
	}
	return &Result{Format: FormatDOCX, Text: text, Meta: meta}, nil
}

// extractODT reads content.xml for text and meta.xml for properties.
func extractODT(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("odt: %w", err)
	}

	meta := odtMetadata(zr)

	raw, err := readZipEntry(zr, "content.xml")
	if err != nil {
		return &Result{Format: FormatODT, Meta: meta}, ErrNoText
	}
	text := stripXML(raw, "</text:p>", "</text:h>", "<text:line-break/>")
	if text == "" {
		return &Result{Format: FormatODT, Meta: meta}, ErrNoText
	}
	return &Result{Format: FormatODT, Text: text, Meta: meta}, nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("zip entry %q not found", name)
}

func stripXML(raw []byte, lineBreakers ...string) string {
	s := string(raw)
	for _, b := range lineBreakers {
		s = strings.ReplaceAll(s, b, "\n")
	}
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&apos;", "'")
	return normalizeText(s)
}

type docxCoreProps struct {
	Title    string `xml:"title"`
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

type docxAppProps struct {
	Application string `xml:"Application"`
	Pages       int    `xml:"Pages"`
}

func docxMetadata(zr *zip.Reader) Metadata {
	var meta Metadata
	if raw, err := readZipEntry(zr, "docProps/core.xml"); err == nil {
		var core docxCoreProps
		if xml.Unmarshal(raw, &core) == nil {
			meta.Title = core.Title
			meta.Author = core.Creator
			meta.Created = parseW3CDate(core.Created)
			meta.Modified = parseW3CDate(core.Modified)
		}
	}
	if raw, err := readZipEntry(zr, "docProps/app.xml"); err == nil {
		var app docxAppProps
		if xml.Unmarshal(raw, &app) == nil {
			meta.Producer = app.Application
			meta.Pages = app.Pages
		}
	}
	return meta
}

type odtMeta struct {
	Title     string `xml:"meta>title"`
	Creator   string `xml:"meta>creator"`
	Generator string `xml:"meta>generator"`
	Created   string `xml:"meta>creation-date"`
	Modified  string `xml:"meta>date"`
}

func odtMetadata(zr *zip.Reader) Metadata {
	var meta Metadata
	raw, err := readZipEntry(zr, "meta.xml")
	if err != nil {
		return meta
	}
	var m odtMeta
	if xml.Unmarshal(raw, &m) != nil {
		return meta
	}
	meta.Title = m.Title
	meta.Author = m.Creator
	meta.Producer = m.Generator
	meta.Created = parseW3CDate(m.Created)
	meta.Modified = parseW3CDate(m.Modified)
	return meta
}

func parseW3CDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
