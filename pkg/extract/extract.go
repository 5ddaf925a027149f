// Package extract holds one adapter per PDF-extraction backend. Every
// adapter maps its method-specific output into the shared Result model and
// always populates PrimaryText; page-level failures accumulate as warnings
// while total failures surface as *ExtractionError.
package extract

import (
	"fmt"

	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

// New builds the adapter for a backend identifier.
func New(method models.Method, opts types.ExtractOptions) (types.Extractor, error) {
	switch method {
	case models.MethodBasicText:
		return NewBasicText(), nil
	case models.MethodLayoutTable:
		return NewLayoutTable(), nil
	case models.MethodOCR:
		return NewOCR(OCRConfig{Language: opts.Language, DPI: opts.DPI}), nil
	case models.MethodMarkupModel:
		return NewMarkupModel(MarkupConfig{Binary: opts.Binary, Timeout: opts.Timeout}), nil
	case models.MethodScholarlyMetadata:
		return NewScholarlyMetadata(ScholarlyConfig{ServerURL: opts.ServerURL}), nil
	}
	return nil, fmt.Errorf("unknown extraction method %q", method)
}
