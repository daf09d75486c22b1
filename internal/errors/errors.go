package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FormatError indicates a malformed circuit identifier
	FormatError ErrorCode = "FORMAT_ERROR"
	// OverlapError indicates an identifier's numeric range collides with a sibling
	OverlapError ErrorCode = "OVERLAP_ERROR"
	// NoMatchingFeedCircuit indicates no feed circuit contains the distribution range
	NoMatchingFeedCircuit ErrorCode = "NO_MATCHING_FEED_CIRCUIT"
	// FeedPairConflict indicates the derived feed pair range is already claimed
	FeedPairConflict ErrorCode = "FEED_PAIR_CONFLICT"
	// DanglingReference indicates a cable reference no longer resolves
	DanglingReference ErrorCode = "DANGLING_REFERENCE"
	// NotFound indicates a requested record doesn't exist
	NotFound ErrorCode = "NOT_FOUND"
	// RangeMismatch indicates a manual splice's source and destination spans differ
	RangeMismatch ErrorCode = "RANGE_MISMATCH"
	// InvalidInput indicates a caller-supplied value failed validation
	InvalidInput ErrorCode = "INVALID_INPUT"
	// CapacityExceeded indicates assigned pairs exceed cable capacity
	CapacityExceeded ErrorCode = "CAPACITY_EXCEEDED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// PlanError represents a pairplan error with code, message, and optional details
type PlanError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new PlanError
func New(code ErrorCode, message string) *PlanError {
	return &PlanError{Code: code, Message: message}
}

// Newf creates a new PlanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PlanError {
	return &PlanError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new PlanError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *PlanError {
	return &PlanError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *PlanError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PlanError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *PlanError) WithDetails(details interface{}) *PlanError {
	e.Details = details
	return e
}

// CodeOf returns the error code of err, or InternalError for foreign errors
func CodeOf(err error) ErrorCode {
	var pe *PlanError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	var pe *PlanError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
