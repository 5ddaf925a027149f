package extract

import (
	"context"
	"fmt"
	"strings"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

const (
	defaultOCRLanguage = "eng"
	defaultOCRDPI      = 300
)

type OCRConfig struct {
	Language string // tesseract language(s), "+"-separated, e.g. "eng+fra"
	DPI      int
}

// OCR renders pages to images and recognizes them with tesseract.
type OCR struct {
	config OCRConfig
}

func NewOCR(config OCRConfig) *OCR {
	if config.Language == "" {
		config.Language = defaultOCRLanguage
	}
	if config.DPI <= 0 {
		config.DPI = defaultOCRDPI
	}
	return &OCR{config: config}
}

func (o *OCR) Method() models.Method { return models.MethodOCR }

func (o *OCR) Extract(ctx context.Context, req types.ExtractRequest) (*models.Result, error) {
	doc, err := fitz.New(req.DocumentPath)
	if err != nil {
		return nil, classify(o.Method(), err)
	}
	defer doc.Close()

	total := doc.NumPage()
	start, end, ok := req.Pages.Clamp(total)
	if !ok {
		return nil, newError(o.Method(), UnsupportedDocument,
			fmt.Errorf("page range %s selects nothing in a %d-page document", req.Pages, total))
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(o.config.Language, "+")...); err != nil {
		return nil, newError(o.Method(), BackendUnavailable,
			fmt.Errorf("set language %q: %w", o.config.Language, err))
	}

	var (
		pageTexts []string
		warnings  []string
	)

	for num := start; num <= end; num++ {
		if err := ctx.Err(); err != nil {
			// Timeout mid-document: keep whatever was recognized.
			if len(pageTexts) == 0 {
				return nil, newError(o.Method(), Timeout, err)
			}
			warnings = append(warnings, fmt.Sprintf("stopped at page %d: %v", num, err))
			break
		}

		text, err := o.recognizePage(client, doc, num)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ocr failed on page %d: %v", num, err))
			continue
		}
		pageTexts = append(pageTexts, text)
	}

	if len(pageTexts) == 0 && len(warnings) == end-start+1 {
		return nil, newError(o.Method(), BackendUnavailable,
			fmt.Errorf("ocr produced no output on any of %d pages", end-start+1))
	}

	return &models.Result{
		Method:         o.Method(),
		PrimaryText:    strings.Join(pageTexts, "\n\n"),
		Metadata:       documentMetadata(doc, total),
		PagesProcessed: models.PageRange{Start: start, End: end},
		Warnings:       warnings,
	}, nil
}

func (o *OCR) recognizePage(client *gosseract.Client, doc *fitz.Document, num int) (string, error) {
	// go-fitz pages are zero-based.
	img, err := doc.ImagePNG(num-1, float64(o.config.DPI))
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}

func documentMetadata(doc *fitz.Document, total int) map[string]interface{} {
	meta := map[string]interface{}{"total_pages": total}
	for key, value := range doc.Metadata() {
		if value != "" {
			meta[key] = value
		}
	}
	return meta
}
