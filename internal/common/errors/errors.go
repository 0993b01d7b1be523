// Package errors provides the standardized error taxonomy of the intake
// gateway.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Local validation: a field failed its declared domain. Submission is
	// withheld; nothing leaves the process.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownField     ErrorCode = "UNKNOWN_FIELD"
	ErrCodeUnknownCode      ErrorCode = "UNKNOWN_CODE"

	// Submission: the one network operation. Transport failure, a non-2xx
	// status, and a malformed response body are all surfaced the same way
	// to the caller; the distinct codes exist for logs and metrics only.
	ErrCodeScoringUnreachable ErrorCode = "SCORING_UNREACHABLE"
	ErrCodeScoringBadStatus   ErrorCode = "SCORING_BAD_STATUS"
	ErrCodeScoringBadResponse ErrorCode = "SCORING_BAD_RESPONSE"
	ErrCodeScoringTimeout     ErrorCode = "SCORING_TIMEOUT"

	// Session / flow state.
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodeNoDecisionHeld     ErrorCode = "NO_DECISION_HELD"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from any error; non-standard errors
// normalize to INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ErrCodeInternal
}

// IsSubmissionError reports whether the error belongs to the submission
// taxonomy: transport failure, bad status, malformed body, or timeout. All
// four recover the same way, by returning control to the editable form with
// the entered values intact.
func IsSubmissionError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeScoringUnreachable, ErrCodeScoringBadStatus,
		ErrCodeScoringBadResponse, ErrCodeScoringTimeout:
		return true
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError reports a field outside its declared domain.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Applicant input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownFieldError reports an edit to a field the form does not declare.
func NewUnknownFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownField,
		Message:   "Unknown form field",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownCodeError reports an enum code outside its closed set. This is a
// configuration error, never silently defaulted.
func NewUnknownCodeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCode,
		Message:   "Enum code outside the known set",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringUnreachableError wraps a transport-level failure reaching the
// scoring engine.
func NewScoringUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringUnreachable,
		Message:   "Could not reach the scoring engine",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringBadStatusError reports a non-2xx status from the scoring engine.
func NewScoringBadStatusError(status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringBadStatus,
		Message:   "Scoring engine returned a non-success status",
		Details:   fmt.Sprintf("status %d: %s", status, body),
		Retryable: true,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringBadResponseError reports a 2xx response whose body does not parse
// as a ScoringDecision. Treated identically to a failed request.
func NewScoringBadResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringBadResponse,
		Message:   "Scoring engine response did not match the expected shape",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringTimeoutError reports that the submission deadline elapsed before
// the scoring engine answered.
func NewScoringTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringTimeout,
		Message:   "Submission to the scoring engine timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError reports a missing or expired intake session.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Intake session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionInFlightError rejects a second submit while one is pending.
func NewSubmissionInFlightError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInFlight,
		Message:   "A submission is already in flight for this session",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoDecisionHeldError reports a decision-view request before any
// successful submission.
func NewNoDecisionHeldError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoDecisionHeld,
		Message:   "No decision is held for this session",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError reports an operation issued in a phase that does
// not permit it.
func NewInvalidTransitionError(op, phase string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Operation not permitted in current form phase",
		Details:   fmt.Sprintf("op %s in phase %s", op, phase),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
