package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// ValidationError rejects a user action before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// SyncError wraps a failed remote read or write. It never aborts the session.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string { return fmt.Sprintf("sync %s: %v", e.Op, e.Err) }
func (e *SyncError) Unwrap() error { return e.Err }

// ImportError reports a rejected backup file.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import backup: %s: %v", e.Reason, e.Err)
	}
	return "import backup: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// ExportError reports a failed report generation. No partial file is produced.
type ExportError struct {
	Report string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s report: %v", e.Report, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
