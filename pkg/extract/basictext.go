package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

// BasicText extracts plain per-page text through the langchaingo PDF
// document loader.
type BasicText struct{}

func NewBasicText() *BasicText {
	return &BasicText{}
}

func (b *BasicText) Method() models.Method { return models.MethodBasicText }

func (b *BasicText) Extract(ctx context.Context, req types.ExtractRequest) (*models.Result, error) {
	f, err := os.Open(req.DocumentPath)
	if err != nil {
		return nil, classify(b.Method(), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, classify(b.Method(), err)
	}

	loader := documentloaders.NewPDF(f, info.Size())
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, classify(b.Method(), fmt.Errorf("load pdf: %w", err))
	}

	total := len(docs)
	start, end, ok := req.Pages.Clamp(total)
	if !ok {
		return nil, newError(b.Method(), UnsupportedDocument,
			fmt.Errorf("page range %s selects nothing in a %d-page document", req.Pages, total))
	}

	var warnings []string
	var pages []string
	for _, doc := range docs {
		page := pageNumber(doc.Metadata)
		if page < start || page > end {
			continue
		}
		if strings.TrimSpace(doc.PageContent) == "" {
			warnings = append(warnings, fmt.Sprintf("page %d produced no text", page))
		}
		pages = append(pages, doc.PageContent)
	}

	return &models.Result{
		Method:         b.Method(),
		PrimaryText:    strings.Join(pages, "\n"),
		Metadata:       map[string]interface{}{"total_pages": total},
		PagesProcessed: models.PageRange{Start: start, End: end},
		Warnings:       warnings,
	}, nil
}

func pageNumber(meta map[string]any) int {
	switch v := meta["page"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
