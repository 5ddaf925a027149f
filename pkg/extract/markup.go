package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

const (
	defaultMarkupBinary  = "nougat"
	defaultMarkupTimeout = 30 * time.Minute
)

type MarkupConfig struct {
	Binary  string
	Timeout time.Duration
}

// MarkupModel runs an ML document-to-markup model as an external process
// and collects the markdown/LaTeX it emits.
type MarkupModel struct {
	config MarkupConfig
}

func NewMarkupModel(config MarkupConfig) *MarkupModel {
	if config.Binary == "" {
		config.Binary = defaultMarkupBinary
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultMarkupTimeout
	}
	return &MarkupModel{config: config}
}

func (m *MarkupModel) Method() models.Method { return models.MethodMarkupModel }

func (m *MarkupModel) Extract(ctx context.Context, req types.ExtractRequest) (*models.Result, error) {
	if _, err := os.Stat(req.DocumentPath); err != nil {
		return nil, classify(m.Method(), err)
	}

	outDir, err := os.MkdirTemp("", "markup-model-*")
	if err != nil {
		return nil, newError(m.Method(), BackendUnavailable, err)
	}
	defer os.RemoveAll(outDir)

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.config.Binary, req.DocumentPath, "-o", outDir, "--no-skipping")
	output, err := cmd.CombinedOutput()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, newError(m.Method(), Timeout,
				fmt.Errorf("model run exceeded %s", m.config.Timeout))
		case errors.Is(err, exec.ErrNotFound):
			return nil, newError(m.Method(), BackendUnavailable,
				fmt.Errorf("%q not found in PATH", m.config.Binary))
		}
		return nil, newError(m.Method(), UnsupportedDocument,
			fmt.Errorf("model run failed: %w: %s", err, truncate(string(output), 500)))
	}

	stem := strings.TrimSuffix(filepath.Base(req.DocumentPath), filepath.Ext(req.DocumentPath))
	markdown, err := os.ReadFile(filepath.Join(outDir, stem+".mmd"))
	if err != nil {
		return nil, newError(m.Method(), UnsupportedDocument,
			fmt.Errorf("model produced no output file: %w", err))
	}

	text := string(markdown)
	return &models.Result{
		Method:      m.Method(),
		PrimaryText: text,
		Metadata: map[string]interface{}{
			"latex_blocks": CountLatexBlocks(text),
		},
		PagesProcessed: req.Pages,
	}, nil
}

// CountLatexBlocks counts the $$-delimited display math blocks in markup
// output. A dangling opener counts nothing.
func CountLatexBlocks(markdown string) int {
	count := 0
	open := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "$$") {
			if open {
				count++
			}
			open = !open
		}
	}
	return count
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
