package doctext

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `<w:sectPr/></w:body></w:document>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func paragraph(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString(r)
	}
	b.WriteString("</w:p>")
	return b.String()
}

func run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            docHeader + body + docFooter,
		"word/_rels/document.xml.rels": rels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX_Paragraphs(t *testing.T) {
	data := buildDOCX(t,
		paragraph(run("Age: "), run("29"))+
			paragraph()+
			paragraph(run("Experience (Years): 4"))+
			paragraph(run("Skills:"), `<w:r><w:tab/></w:r>`, run("Excel, SAP")),
	)

	text, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Age: 29\nExperience (Years): 4\nSkills:\tExcel, SAP", text)
}

func TestExtractDOCX_TabStopsAreNotText(t *testing.T) {
	props := `<w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/><w:tab w:val="right" w:pos="9360"/></w:tabs></w:pPr>`
	data := buildDOCX(t, paragraph(props, run("Region: North"), `<w:r><w:tab/></w:r>`, run("EMEA")))

	text, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Region: North\tEMEA", text)
}

func TestExtractDOCX_TableCells(t *testing.T) {
	table := `<w:tbl><w:tr>` +
		`<w:tc>` + paragraph(run("Education: Bachelor's Degree")) + `</w:tc>` +
		`<w:tc>` + paragraph(run("Location: Lima")) + `</w:tc>` +
		`</w:tr></w:tbl>`
	data := buildDOCX(t, paragraph(run("Age: 31"))+table)

	text, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Age: 31\nEducation: Bachelor's Degree\nLocation: Lima", text)
}

func TestExtractDOCX_Escapes(t *testing.T) {
	data := buildDOCX(t, paragraph(run("Education: Master&#8217;s Degree &amp; MBA")))

	text, err := ExtractDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Education: Master’s Degree & MBA", text)
}

func TestExtractDOCX_NotZip(t *testing.T) {
	_, err := ExtractDOCX([]byte("plain text, not a zip"))
	assert.Error(t, err)
}

func TestParagraphsFromXML_MissingBody(t *testing.T) {
	_, err := paragraphsFromXML(`<w:document xmlns:w="x"></w:document>`)
	assert.Error(t, err)
}

func TestExtractPDF_Invalid(t *testing.T) {
	_, err := ExtractPDF([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("Dear hiring manager"), "Dear hiring manager"},
		{"utf8", []byte("Señor Müller"), "Señor Müller"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), "hello"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"empty", nil, ""},
		{"utf16le without bom", utf16LE("Dear hiring manager"), "Dear hiring manager"},
		{"utf16be without bom", utf16BE("Dear"), "Dear"},
		{"stray nul", []byte("Dear\x00 Sir"), "Dear Sir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(tt.in))
		})
	}
}

func utf16LE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0)
	}
	return out
}

func utf16BE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, 0, s[i])
	}
	return out
}

func TestDecodeText_Legacy(t *testing.T) {
	latin1 := []byte("I have worked as an accountant in S\xe3o Paulo for five years and I am fluent in Portugu\xeas and Espa\xf1ol.")

	out := DecodeText(latin1)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "accountant")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		file, ct, want string
	}{
		{"cv.DOCX", "", FormatDOCX},
		{"cv.pdf", "application/octet-stream", FormatPDF},
		{"letter.txt", "", FormatText},
		{"blob", "application/pdf", FormatPDF},
		{"blob", "text/plain; charset=utf-8", FormatText},
		{"cv.doc", "application/msword", ""},
	}
	for _, tt := range tests {
		t.Run(tt.file+"|"+tt.ct, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.file, tt.ct))
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("docx", func(t *testing.T) {
		text, err := Extract("cv.docx", "", buildDOCX(t, paragraph(run("Region: North"))))
		require.NoError(t, err)
		assert.Equal(t, "Region: North", text)
	})
	t.Run("unsupported", func(t *testing.T) {
		_, err := Extract("cv.odt", "", []byte("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
	t.Run("empty docx", func(t *testing.T) {
		_, err := Extract("cv.docx", "", buildDOCX(t, paragraph()))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})
	t.Run("blank text", func(t *testing.T) {
		_, err := Extract("letter.txt", "", []byte("  \n\t"))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})
}
