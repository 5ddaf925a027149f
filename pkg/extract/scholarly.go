package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

const (
	defaultScholarlyURL     = "http://localhost:8070"
	defaultScholarlyTimeout = 120 * time.Second

	// GROBID-compatible full-text endpoint.
	fulltextEndpoint = "/api/processFulltextDocument"
)

type ScholarlyConfig struct {
	ServerURL string
	Timeout   time.Duration
}

// ScholarlyMetadata sends the document to a scholarly-metadata service and
// normalizes the TEI XML it returns. The raw TEI is kept for export; the
// flattened header and body text become the primary text.
type ScholarlyMetadata struct {
	config ScholarlyConfig
	client *http.Client
}

func NewScholarlyMetadata(config ScholarlyConfig) *ScholarlyMetadata {
	if config.ServerURL == "" {
		config.ServerURL = defaultScholarlyURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultScholarlyTimeout
	}
	return &ScholarlyMetadata{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (s *ScholarlyMetadata) Method() models.Method { return models.MethodScholarlyMetadata }

func (s *ScholarlyMetadata) Extract(ctx context.Context, req types.ExtractRequest) (*models.Result, error) {
	tei, err := s.process(ctx, req.DocumentPath)
	if err != nil {
		return nil, err
	}

	result := parseTEI(tei)
	result.Method = s.Method()
	// The service always processes the whole document; the requested
	// range does not apply.
	result.PagesProcessed = models.PageRange{}
	if req.Pages != (models.PageRange{}) {
		result.Warnings = append(result.Warnings, "page range ignored: service processes full documents")
	}
	return result, nil
}

func (s *ScholarlyMetadata) process(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", classify(s.Method(), err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("input", filepath.Base(path))
	if err != nil {
		return "", newError(s.Method(), UnsupportedDocument, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", newError(s.Method(), UnsupportedDocument, err)
	}
	if err := mw.Close(); err != nil {
		return "", newError(s.Method(), UnsupportedDocument, err)
	}

	url := strings.TrimRight(s.config.ServerURL, "/") + fulltextEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", newError(s.Method(), BackendUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", classify(s.Method(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(s.Method(), BackendUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return string(data), nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", newError(s.Method(), UnsupportedDocument,
			fmt.Errorf("service rejected document: status %d: %s", resp.StatusCode, truncate(string(data), 200)))
	default:
		return "", newError(s.Method(), BackendUnavailable,
			fmt.Errorf("service error: status %d", resp.StatusCode))
	}
}

// parseTEI pulls title/authors/abstract out of the TEI header and flattens
// the document into plain text. Selectors are lowercase because the HTML
// tokenizer goquery sits on folds element names.
func parseTEI(tei string) *models.Result {
	result := &models.Result{
		StructuredMarkup: tei,
		Metadata:         map[string]interface{}{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tei))
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not parse TEI response: %v", err))
		return result
	}

	title := cleanWhitespace(doc.Find("teiheader titlestmt > title").First().Text())
	if title != "" {
		result.Metadata["title"] = title
	}

	var authors []string
	doc.Find("teiheader sourcedesc author persname").Each(func(_ int, sel *goquery.Selection) {
		name := cleanWhitespace(sel.Text())
		if name != "" {
			authors = append(authors, name)
		}
	})
	if len(authors) > 0 {
		result.Metadata["authors"] = strings.Join(authors, ", ")
	}

	abstract := cleanWhitespace(doc.Find("teiheader abstract").Text())
	if abstract != "" {
		result.Metadata["abstract"] = abstract
	}

	// The HTML tokenizer drops the nested <body> element, hoisting its
	// children under <text>, so the full text lives under "tei > text".
	var sections []string
	for _, s := range []string{title, abstract, cleanWhitespace(doc.Find("tei > text").Text())} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	result.PrimaryText = strings.Join(sections, "\n\n")

	return result
}

func cleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
