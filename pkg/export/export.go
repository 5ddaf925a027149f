package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xhad/pdfcompare/internal/models"
)

// ErrUnsupportedExport is returned when the requested format cannot be
// derived from the given result.
var ErrUnsupportedExport = errors.New("unsupported export")

// Format identifies one export output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatXML      Format = "xml"
	FormatJSON     Format = "json"
	FormatDOCX     Format = "docx"
)

// ParseFormat maps a user-supplied identifier to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatXML, FormatJSON, FormatDOCX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	case FormatXML:
		return ".xml"
	case FormatJSON:
		return ".json"
	case FormatDOCX:
		return ".docx"
	}
	return ""
}

func (f Format) mime() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatMarkdown:
		return "text/markdown"
	case FormatXML:
		return "application/xml"
	case FormatJSON:
		return "application/json"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// File is one prepared export payload.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Render serializes the result into the requested format. docName is the
// source document name used to derive the suggested filename.
func Render(result *models.Result, docName string, format Format) (*File, error) {
	data, err := renderData(result, format)
	if err != nil {
		return nil, err
	}
	return &File{
		Name: SafeFilename(exportBase(docName, result) + format.extension()),
		MIME: format.mime(),
		Data: data,
	}, nil
}

func renderData(result *models.Result, format Format) ([]byte, error) {
	switch format {
	case FormatText, FormatMarkdown:
		return []byte(result.PrimaryText), nil

	case FormatXML:
		if result.StructuredMarkup == "" {
			return nil, fmt.Errorf("%w: result has no structured markup", ErrUnsupportedExport)
		}
		return []byte(result.StructuredMarkup), nil

	case FormatJSON:
		if len(result.Tables) == 0 && len(result.Metadata) == 0 {
			return nil, fmt.Errorf("%w: result has no tables or metadata", ErrUnsupportedExport)
		}
		doc := struct {
			Tables   []models.Table         `json:"tables,omitempty"`
			Metadata map[string]interface{} `json:"metadata,omitempty"`
		}{
			Tables:   result.Tables,
			Metadata: result.Metadata,
		}
		return json.MarshalIndent(doc, "", "  ")

	case FormatDOCX:
		return buildDocx(result.PrimaryText)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedExport, format)
}

func exportBase(docName string, result *models.Result) string {
	base := strings.TrimSuffix(filepath.Base(docName), filepath.Ext(docName))
	if base == "" || base == "." {
		base = "output"
	}
	name := base + "_" + string(result.Method)
	if !result.PagesProcessed.All() {
		name += "_" + result.PagesProcessed.String()
	}
	return name
}

var unsafeFilenameRe = regexp.MustCompile(`[\\/*?:"<>|]`)

const maxFilenameLen = 100

// SafeFilename strips path components, replaces unsafe characters and
// spaces with underscores, and caps the length.
func SafeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, " ", "_")

	if len(name) > maxFilenameLen {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		if cut := maxFilenameLen - len(ext); cut > 0 && cut < len(stem) {
			stem = stem[:cut]
		}
		name = stem + ext
	}
	return name
}
