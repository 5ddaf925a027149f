package models

import "fmt"

// Method identifies one extraction backend.
type Method string

const (
	MethodBasicText         Method = "basic_text"
	MethodLayoutTable       Method = "layout_table"
	MethodOCR               Method = "ocr"
	MethodMarkupModel       Method = "markup_model"
	MethodScholarlyMetadata Method = "scholarly_metadata"
)

// Methods lists every known backend identifier.
func Methods() []Method {
	return []Method{
		MethodBasicText,
		MethodLayoutTable,
		MethodOCR,
		MethodMarkupModel,
		MethodScholarlyMetadata,
	}
}

// ParseMethod maps a user-supplied identifier to a Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods() {
		if s == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown extraction method %q", s)
}

// Table is one tabular extract: rows of cell strings. Rows within a table
// share a column count; tables in the same result need not.
type Table [][]string

// PageRange is a 1-based inclusive page selection. The zero value means
// "all pages".
type PageRange struct {
	Start int
	End   int
}

// All reports whether the range selects every page.
func (r PageRange) All() bool {
	return r.Start == 0 && r.End == 0
}

// Clamp resolves the range against a document with total pages, returning
// concrete 1-based inclusive bounds. ok is false when the range selects
// nothing.
func (r PageRange) Clamp(total int) (start, end int, ok bool) {
	if r.All() {
		return 1, total, total >= 1
	}
	start = r.Start
	if start < 1 {
		start = 1
	}
	end = r.End
	if end > total {
		end = total
	}
	return start, end, start <= end
}

func (r PageRange) String() string {
	if r.All() {
		return "all"
	}
	return fmt.Sprintf("p%d-%d", r.Start, r.End)
}

// Result is the normalized output of one backend invocation on one document.
// It is immutable once produced; metrics, diffing and chunking are pure
// functions over it.
type Result struct {
	Method Method

	// PrimaryText is the canonical text representation, always present
	// (possibly empty) regardless of the backend's native output shape.
	PrimaryText string

	Tables   []Table
	Metadata map[string]interface{}

	// StructuredMarkup holds a raw structured document (e.g. TEI XML),
	// kept only for export.
	StructuredMarkup string

	PagesProcessed PageRange
	Warnings       []string
}
