package extract

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	zipHead := []byte{0x50, 0x4b, 0x03, 0x04, 0x00}

	f, err := Detect("report.pdf", []byte("%PDF-1.7 rest"))
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = Detect("cv.DOCX", zipHead)
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	f, err = Detect("notes.odt", zipHead)
	require.NoError(t, err)
	assert.Equal(t, FormatODT, f)

	_, err = Detect("image.png", []byte{0x89, 0x50})
	assert.Error(t, err)

	// Extension and content must agree.
	_, err = Detect("fake.pdf", zipHead)
	assert.Error(t, err)
	_, err = Detect("fake.docx", []byte("%PDF-1.7"))
	assert.Error(t, err)
}

func TestExtractDOCX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?><w:document><w:body>` +
			`<w:p><w:r><w:t>First paragraph with &amp; escapes.</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"docProps/core.xml": `<?xml version="1.0"?>` +
			`<cp:coreProperties xmlns:cp="x" xmlns:dc="y" xmlns:dcterms="z">` +
			`<dc:title>Doc Title</dc:title><dc:creator>An Author</dc:creator>` +
			`<dcterms:created>2024-03-01T10:00:00Z</dcterms:created>` +
			`<dcterms:modified>2024-03-02T11:30:00Z</dcterms:modified>` +
			`</cp:coreProperties>`,
		"docProps/app.xml": `<?xml version="1.0"?><Properties>` +
			`<Application>Microsoft Office Word</Application><Pages>2</Pages></Properties>`,
	})

	res, err := extractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, res.Format)
	assert.Equal(t, "First paragraph with & escapes.\nSecond paragraph.", res.Text)
	assert.Equal(t, "Doc Title", res.Meta.Title)
	assert.Equal(t, "An Author", res.Meta.Author)
	assert.Equal(t, "Microsoft Office Word", res.Meta.Producer)
	assert.Equal(t, 2, res.Meta.Pages)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), res.Meta.Created)
	assert.Equal(t, time.Date(2024, 3, 2, 11, 30, 0, 0, time.UTC), res.Meta.Modified)
}

func TestExtractDOCXNoDocument(t *testing.T) {
	data := buildZip(t, map[string]string{"other.xml": "<x/>"})
	res, err := extractDOCX(data)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Empty(t, res.Text)
}

func TestExtractODT(t *testing.T) {
	data := buildZip(t, map[string]string{
		"content.xml": `<?xml version="1.0"?><office:document-content>` +
			`<office:body><office:text>` +
			`<text:h>Heading</text:h>` +
			`<text:p>Line one.</text:p>` +
			`<text:p>Line two.</text:p>` +
			`</office:text></office:body></office:document-content>`,
		"meta.xml": `<?xml version="1.0"?><office:document-meta><office:meta>` +
			`<dc:title>ODT Title</dc:title><dc:creator>Writer Person</dc:creator>` +
			`<meta:generator>LibreOffice/7.6</meta:generator>` +
			`<meta:creation-date>2023-11-05T08:00:00Z</meta:creation-date>` +
			`<dc:date>2023-11-06T08:00:00Z</dc:date>` +
			`</office:meta></office:document-meta>`,
	})

	res, err := extractODT(data)
	require.NoError(t, err)
	assert.Equal(t, "Heading\nLine one.\nLine two.", res.Text)
	assert.Equal(t, "ODT Title", res.Meta.Title)
	assert.Equal(t, "Writer Person", res.Meta.Author)
	assert.Equal(t, "LibreOffice/7.6", res.Meta.Producer)
	assert.Equal(t, 2023, res.Meta.Created.Year())
}

func TestExtractNotAZip(t *testing.T) {
	_, err := extractDOCX([]byte("definitely not a zip"))
	assert.Error(t, err)
	_, err = extractODT([]byte("nope"))
	assert.Error(t, err)
}

func TestExtractPDFGarbage(t *testing.T) {
	// Malformed PDFs must come back as errors, never panics.
	_, err := extractPDF([]byte("%PDF-1.4 garbage body with no xref"))
	assert.Error(t, err)
}

func TestParsePDFDate(t *testing.T) {
	got := parsePDFDate("D:20240115093000Z")
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), got)

	got = parsePDFDate("D:20240115093000+05'30'")
	assert.Equal(t, 2024, got.Year())
	assert.False(t, got.IsZero())

	assert.True(t, parsePDFDate("D:2024").IsZero())
	assert.True(t, parsePDFDate("").IsZero())

	got = parsePDFDate("D:20240115")
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeText(t *testing.T) {
	in := "  a   line \n\n\n  another\tline  \n"
	assert.Equal(t, "a line\nanother line", normalizeText(in))
}
