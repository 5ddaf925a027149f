package export_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/pkg/export"
)

func result() *models.Result {
	return &models.Result{
		Method:      models.MethodBasicText,
		PrimaryText: "# Title\nplain body line",
	}
}

func TestRenderText(t *testing.T) {
	file, err := export.Render(result(), "paper.pdf", export.FormatText)
	require.NoError(t, err)

	assert.Equal(t, "paper_basic_text.txt", file.Name)
	assert.Equal(t, "text/plain", file.MIME)
	assert.Equal(t, []byte("# Title\nplain body line"), file.Data)
}

func TestRenderTextEmpty(t *testing.T) {
	res := &models.Result{Method: models.MethodOCR}

	file, err := export.Render(res, "paper.pdf", export.FormatText)
	require.NoError(t, err)
	assert.Empty(t, file.Data)
}

func TestRenderMarkdown(t *testing.T) {
	file, err := export.Render(result(), "paper.pdf", export.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "paper_basic_text.md", file.Name)
	assert.Equal(t, []byte("# Title\nplain body line"), file.Data)
}

func TestRenderXML(t *testing.T) {
	res := result()
	res.StructuredMarkup = "<TEI><text>hi</text></TEI>"

	file, err := export.Render(res, "paper.pdf", export.FormatXML)
	require.NoError(t, err)
	assert.Equal(t, []byte("<TEI><text>hi</text></TEI>"), file.Data)
}

func TestRenderXMLWithoutMarkup(t *testing.T) {
	_, err := export.Render(result(), "paper.pdf", export.FormatXML)
	assert.ErrorIs(t, err, export.ErrUnsupportedExport)
}

func TestRenderJSON(t *testing.T) {
	res := result()
	res.Tables = []models.Table{{{"h1", "h2"}, {"a", "b"}}}
	res.Metadata = map[string]interface{}{"title": "A Paper", "total_pages": 3}

	file, err := export.Render(res, "paper.pdf", export.FormatJSON)
	require.NoError(t, err)

	var decoded struct {
		Tables   []models.Table         `json:"tables"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(file.Data, &decoded))
	assert.Equal(t, res.Tables, decoded.Tables)
	assert.Equal(t, "A Paper", decoded.Metadata["title"])
}

func TestRenderJSONWithoutData(t *testing.T) {
	_, err := export.Render(result(), "paper.pdf", export.FormatJSON)
	assert.ErrorIs(t, err, export.ErrUnsupportedExport)
}

func TestRenderDocx(t *testing.T) {
	file, err := export.Render(result(), "paper.pdf", export.FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "paper_basic_text.docx", file.Name)

	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	var document string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
			document = string(data)
		}
	}

	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/styles.xml"])
	require.True(t, names["word/document.xml"])

	// Heading line styled, body line not.
	assert.Contains(t, document, `<w:pStyle w:val="Heading1"/>`)
	assert.Contains(t, document, "# Title")
	assert.Contains(t, document, "plain body line")
	assert.Equal(t, 1, strings.Count(document, "Heading1"))
}

func TestFilenameIncludesPageRange(t *testing.T) {
	res := result()
	res.PagesProcessed = models.PageRange{Start: 2, End: 7}

	file, err := export.Render(res, "paper.pdf", export.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "paper_basic_text_p2-7.txt", file.Name)
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`my file?.pdf`, "my_file_.pdf"},
		{`quoted"name".txt`, "quoted_name_.txt"},
		{"plain.txt", "plain.txt"},
		{"nested/path/name.md", "name.md"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, export.SafeFilename(tt.in))
		})
	}
}

func TestSafeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 200) + ".txt"
	safe := export.SafeFilename(long)
	assert.LessOrEqual(t, len(safe), 100)
	assert.True(t, strings.HasSuffix(safe, ".txt"))
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("docx")
	require.NoError(t, err)
	assert.Equal(t, export.FormatDOCX, f)

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}
