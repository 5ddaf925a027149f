// Package compare drives one comparison session: it runs the selected
// backends against a document, derives metrics and a chunking preview per
// result, and diffs the primary texts when two backends were selected.
package compare

import (
	"context"
	"fmt"

	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
	"github.com/xhad/pdfcompare/pkg/chunker"
	"github.com/xhad/pdfcompare/pkg/diff"
	"github.com/xhad/pdfcompare/pkg/metrics"
)

// Outcome holds everything one backend contributed to the session. Err is
// set when that backend failed entirely; the other backend's outcome is
// unaffected.
type Outcome struct {
	Method  models.Method
	Result  *models.Result
	Metrics metrics.Metrics
	Chunks  []string
	Err     error
}

// Comparison is the session output handed to the presentation layer.
type Comparison struct {
	Outcomes []Outcome

	// Diff is set only when both selected backends produced a result.
	Diff []diff.Segment
}

// Succeeded returns the results that were actually produced, in order.
func (c *Comparison) Succeeded() []*models.Result {
	var results []*models.Result
	for _, o := range c.Outcomes {
		if o.Err == nil {
			results = append(results, o.Result)
		}
	}
	return results
}

// Run executes one session over at most two extractors. Chunk configuration
// is validated before any extraction starts. Extractors run sequentially;
// none observes another's state.
func Run(ctx context.Context, extractors []types.Extractor, req types.ExtractRequest, cfg types.ChunkerConfig) (*Comparison, error) {
	if len(extractors) == 0 || len(extractors) > 2 {
		return nil, fmt.Errorf("a session compares one or two backends, got %d", len(extractors))
	}

	ch, err := chunker.NewWithConfig(chunker.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	comparison := &Comparison{}
	for _, ex := range extractors {
		outcome := Outcome{Method: ex.Method()}

		result, err := ex.Extract(ctx, req)
		if err != nil {
			outcome.Err = err
		} else {
			outcome.Result = result
			outcome.Metrics = metrics.Compute(result.PrimaryText)
			outcome.Chunks = ch.Split(result.PrimaryText)
		}
		comparison.Outcomes = append(comparison.Outcomes, outcome)
	}

	if results := comparison.Succeeded(); len(results) == 2 {
		comparison.Diff = diff.Compare(results[0].PrimaryText, results[1].PrimaryText)
	}
	return comparison, nil
}
