package errors

import (
	"errors"
	"fmt"
)

// Error codes for the failure taxonomy of a capture. Only user-initiated
// flows turn these into notifications.
const (
	CodeExtractionMiss   = "extraction_miss"
	CodeCaptureRejected  = "capture_rejected"
	CodeEnrichmentFailed = "enrichment_failed"
	CodeSyncFailed       = "sync_failed"
	CodeParseFailed      = "parse_failed"
)

// Error carries a taxonomy code alongside the wrapped cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode returns the outermost taxonomy code in the chain, or "".
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Surfaced reports whether an error of this code should reach the user when
// the triggering action was user-initiated. Extraction misses and parse
// failures are absorbed.
func Surfaced(err error) bool {
	switch GetCode(err) {
	case CodeExtractionMiss, CodeParseFailed, CodeEnrichmentFailed:
		return false
	default:
		return err != nil
	}
}
