package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
)

// Horizontal gap (points) between text runs on the same row beyond which
// the runs are treated as separate table cells.
const cellGap = 12.0

// LayoutTable extracts row-oriented text and recovers simple tables from
// the horizontal spacing of text runs.
type LayoutTable struct{}

func NewLayoutTable() *LayoutTable {
	return &LayoutTable{}
}

func (l *LayoutTable) Method() models.Method { return models.MethodLayoutTable }

func (l *LayoutTable) Extract(ctx context.Context, req types.ExtractRequest) (*models.Result, error) {
	f, reader, err := pdf.Open(req.DocumentPath)
	if err != nil {
		return nil, classify(l.Method(), err)
	}
	defer f.Close()

	total := reader.NumPage()
	start, end, ok := req.Pages.Clamp(total)
	if !ok {
		return nil, newError(l.Method(), UnsupportedDocument,
			fmt.Errorf("page range %s selects nothing in a %d-page document", req.Pages, total))
	}

	var (
		pageTexts []string
		tables    []models.Table
		warnings  []string
	)

	for num := start; num <= end; num++ {
		if err := ctx.Err(); err != nil {
			if len(pageTexts) == 0 {
				return nil, newError(l.Method(), Timeout, err)
			}
			warnings = append(warnings, fmt.Sprintf("stopped at page %d: %v", num, err))
			break
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d is empty or unreadable", num))
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", num, err))
			continue
		}

		lines, pageTables := splitRows(rows)
		pageTexts = append(pageTexts, strings.Join(lines, "\n"))
		tables = append(tables, pageTables...)
	}

	return &models.Result{
		Method:         l.Method(),
		PrimaryText:    strings.Join(pageTexts, "\n---\n"),
		Tables:         tables,
		Metadata:       map[string]interface{}{"total_pages": total},
		PagesProcessed: models.PageRange{Start: start, End: end},
		Warnings:       warnings,
	}, nil
}

// splitRows turns positioned rows into text lines, grouping consecutive
// multi-cell rows into tables. Rows of a table are padded to a common
// column count so each table stays rectangular.
func splitRows(rows pdf.Rows) ([]string, []models.Table) {
	var (
		lines   []string
		tables  []models.Table
		current models.Table
	)

	flush := func() {
		if len(current) > 1 {
			tables = append(tables, padTable(current))
		}
		current = nil
	}

	for _, row := range rows {
		cells := rowCells(row)
		lines = append(lines, strings.Join(cells, " "))

		if len(cells) > 1 {
			current = append(current, cells)
		} else {
			flush()
		}
	}
	flush()

	return lines, tables
}

// rowCells merges a row's text runs into cells, breaking on horizontal gaps.
func rowCells(row *pdf.Row) []string {
	var cells []string

	cell := strings.Builder{}
	prevEnd := 0.0

	for i, t := range row.Content {
		if i > 0 && t.X-prevEnd > cellGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		}
		cell.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return cells
}

func padTable(t models.Table) models.Table {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range t {
		for len(row) < width {
			row = append(row, "")
		}
		t[i] = row
	}
	return t
}
