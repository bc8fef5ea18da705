package billcraft

import (
	"errors"
	"fmt"
)

// Sentinel errors for common document-export failure conditions.
var (
	// ErrCapabilityUnavailable is returned when the rasterization or PDF
	// assembly capability has not been loaded before export is attempted.
	ErrCapabilityUnavailable = errors.New("billcraft: export capability unavailable")

	// ErrNoContent is returned when there is no rendered document to export.
	ErrNoContent = errors.New("billcraft: no rendered content to export")

	// ErrExportInFlight is returned when an export is requested while a
	// previous one on the same form is still running.
	ErrExportInFlight = errors.New("billcraft: export already in progress")

	// ErrInvalidDocument is returned when document data fails validation.
	ErrInvalidDocument = errors.New("billcraft: invalid document")
)

// ExportError represents an error that occurred during a specific stage of
// document generation. It wraps an underlying error and includes the
// operation name for context.
type ExportError struct {
	Op  string // operation name, e.g. "Export", "Render"
	Err error  // underlying error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("billcraft.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("billcraft.%s: unknown error", e.Op)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates an ExportError wrapping err with operation context.
func NewExportError(op string, err error) *ExportError {
	return &ExportError{Op: op, Err: err}
}
