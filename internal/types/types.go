package types

import (
	"context"
	"time"

	"github.com/xhad/pdfcompare/internal/models"
)

// Core interfaces
type Extractor interface {
	Method() models.Method
	Extract(ctx context.Context, req ExtractRequest) (*models.Result, error)
}

// ExtractRequest carries the per-invocation inputs every backend receives.
type ExtractRequest struct {
	DocumentPath string
	Pages        models.PageRange
}

// ExtractOptions holds the method-specific knobs. Each adapter reads only
// the fields that apply to it.
type ExtractOptions struct {
	Language  string        // OCR language(s), e.g. "eng" or "eng+fra"
	DPI       int           // OCR render resolution
	Timeout   time.Duration // markup model processing budget
	ServerURL string        // scholarly metadata service base URL
	Binary    string        // markup model executable name
}

type ChunkerConfig struct {
	ChunkSize    int
	ChunkOverlap int
}
