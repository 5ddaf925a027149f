package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Extract config
	if c.Extract.OCRLanguage == "" {
		errors = append(errors, ValidationError{
			Field:   "extract.ocr_language",
			Message: "OCR language is required",
		})
	}

	if c.Extract.OCRDPI < 72 || c.Extract.OCRDPI > 600 {
		errors = append(errors, ValidationError{
			Field:   "extract.ocr_dpi",
			Message: "ocr_dpi must be between 72 and 600",
		})
	}

	if c.Extract.MarkupTimeout < 1 {
		errors = append(errors, ValidationError{
			Field:   "extract.markup_timeout",
			Message: "markup_timeout must be positive",
		})
	}

	if c.Extract.MetadataURL != "" {
		if u, err := url.Parse(c.Extract.MetadataURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "extract.metadata_url",
				Message: "invalid metadata server URL",
			})
		}
	}

	// Validate Chunker config
	if c.Chunker.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Chunker.ChunkOverlap < 0 || c.Chunker.ChunkOverlap >= c.Chunker.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	return errors
}
