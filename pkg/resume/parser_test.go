package resume

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx assembles a minimal valid docx archive with one paragraph per
// input string.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	var doc bytes.Buffer
	doc.WriteString(`<w:document><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	_, err = w.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextDocx(t *testing.T) {
	data := buildDocx(t, "John Doe", "john.doe@example.com", "Go developer, 5 years")

	text, err := ExtractText("resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "John Doe\njohn.doe@example.com\nGo developer, 5 years", text)
}

func TestExtractTextDocxUppercaseExt(t *testing.T) {
	data := buildDocx(t, "John Doe")

	text, err := ExtractText("RESUME.DOCX", data)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", text)
}

func TestExtractTextDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText("resume.docx", buf.Bytes())
	require.Error(t, err)
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText("resume.txt", []byte("plain text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestExtractTextCorruptPdf(t *testing.T) {
	_, err := ExtractText("resume.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
}

func TestCollapseWhitespace(t *testing.T) {
	in := "  John\u00a0Doe \t Engineer \n\n\n  Go  \n"
	assert.Equal(t, "John Doe Engineer\nGo", collapseWhitespace(in))
	assert.Equal(t, "a b", collapseWhitespace("a\u00a0b"))
}
