package extract

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/xhad/pdfcompare/internal/models"
)

// ErrorKind classifies a total extraction failure.
type ErrorKind string

const (
	BackendUnavailable  ErrorKind = "backend_unavailable"
	UnsupportedDocument ErrorKind = "unsupported_document"
	Timeout             ErrorKind = "timeout"
)

// ExtractionError reports that one backend produced nothing usable. Partial
// degradation is reported through Result warnings instead.
type ExtractionError struct {
	Method models.Method
	Kind   ErrorKind
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Method, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func newError(method models.Method, kind ErrorKind, err error) *ExtractionError {
	return &ExtractionError{Method: method, Kind: kind, Err: err}
}

// classify maps common failure causes onto the error taxonomy: context
// expiry is a timeout, missing files/binaries and connection failures mean
// the backend is unavailable, anything else is an unsupported document.
func classify(method models.Method, err error) *ExtractionError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return newError(method, Timeout, err)
	case errors.Is(err, os.ErrNotExist):
		return newError(method, BackendUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return newError(method, Timeout, err)
		}
		return newError(method, BackendUnavailable, err)
	}

	return newError(method, UnsupportedDocument, err)
}
