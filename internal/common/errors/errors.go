// Package errors provides the rejected-operation errors raised by the wizards.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Ledger errors
const (
	ErrCodeMilestoneRequired ErrorCode = "MILESTONE_REQUIRED"
	ErrCodeMilestoneNotFound ErrorCode = "MILESTONE_NOT_FOUND"
	ErrCodeInvalidField      ErrorCode = "INVALID_FIELD"
)

// Wizard navigation errors
const (
	ErrCodeStepIncomplete ErrorCode = "STEP_INCOMPLETE"
	ErrCodeTerminalStep   ErrorCode = "TERMINAL_STEP"
	ErrCodeWrongStep      ErrorCode = "WRONG_STEP"
	ErrCodeDisposed       ErrorCode = "DISPOSED"
)

// Payment and verification errors
const (
	ErrCodeInvalidPaymentMethod ErrorCode = "INVALID_PAYMENT_METHOD"
	ErrCodePaymentCancelled     ErrorCode = "PAYMENT_CANCELLED"
	ErrCodePaymentInProgress    ErrorCode = "PAYMENT_IN_PROGRESS"
	ErrCodeVerificationFailed   ErrorCode = "VERIFICATION_FAILED"
	ErrCodeNotVerified          ErrorCode = "NOT_VERIFIED"
)

// Infrastructure errors
const (
	ErrCodeConfigInvalid   ErrorCode = "CONFIG_INVALID"
	ErrCodeSchemaInvalid   ErrorCode = "SCHEMA_INVALID"
	ErrCodeRegistryMissing ErrorCode = "REGISTRY_MISSING"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fields    []FieldError           `json:"fields,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches another *StandardError by code, so sentinel comparisons work
// with errors.Is regardless of details.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is.
var (
	ErrMilestoneRequired = &StandardError{Code: ErrCodeMilestoneRequired}
	ErrMilestoneNotFound = &StandardError{Code: ErrCodeMilestoneNotFound}
	ErrInvalidField      = &StandardError{Code: ErrCodeInvalidField}
	ErrStepIncomplete    = &StandardError{Code: ErrCodeStepIncomplete}
	ErrTerminalStep      = &StandardError{Code: ErrCodeTerminalStep}
	ErrWrongStep         = &StandardError{Code: ErrCodeWrongStep}
	ErrDisposed          = &StandardError{Code: ErrCodeDisposed}
	ErrPaymentCancelled  = &StandardError{Code: ErrCodePaymentCancelled}
	ErrPaymentInProgress = &StandardError{Code: ErrCodePaymentInProgress}
	ErrInvalidMethod     = &StandardError{Code: ErrCodeInvalidPaymentMethod}
	ErrVerification      = &StandardError{Code: ErrCodeVerificationFailed}
	ErrNotVerified       = &StandardError{Code: ErrCodeNotVerified}
	ErrRegistryMissing   = &StandardError{Code: ErrCodeRegistryMissing}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewMilestoneRequiredError rejects removal of the sole remaining milestone.
func NewMilestoneRequiredError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMilestoneRequired,
		Message:   "at least one milestone required",
		Details:   fmt.Sprintf("milestoneId: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

func NewMilestoneNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMilestoneNotFound,
		Message:   "milestone not found",
		Details:   fmt.Sprintf("milestoneId: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidField,
		Message:   "unknown milestone field",
		Details:   fmt.Sprintf("field: %s", field),
		Timestamp: time.Now().UTC(),
	}
}

// NewStepIncompleteError rejects an advance past a step whose completion
// check failed. fields carries the messages to show next to each input.
func NewStepIncompleteError(step string, fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepIncomplete,
		Message:   "step is incomplete",
		Details:   fmt.Sprintf("step: %s", step),
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

func NewTerminalStepError(step string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTerminalStep,
		Message:   "terminal step has no next step",
		Details:   fmt.Sprintf("step: %s", step),
		Timestamp: time.Now().UTC(),
	}
}

func NewWrongStepError(want, got string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWrongStep,
		Message:   "operation not available on the current step",
		Details:   fmt.Sprintf("want: %s, current: %s", want, got),
		Timestamp: time.Now().UTC(),
	}
}

func NewDisposedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeDisposed,
		Message:   "wizard has been disposed",
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidPaymentMethodError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPaymentMethod,
		Message:   "invalid payment method",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewPaymentCancelledError() *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentCancelled,
		Message:   "payment was cancelled before completion",
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentInProgressError rejects edits to a draft whose payment has
// already started.
func NewPaymentInProgressError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentInProgress,
		Message:   "escrow is locked once funding has started",
		Details:   fmt.Sprintf("operation: %s", operation),
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationFailedError rejects a simulated verification whose input
// is malformed.
func NewVerificationFailedError(document string, fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationFailed,
		Message:   fmt.Sprintf("%s verification failed", document),
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotVerifiedError(document string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotVerified,
		Message:   fmt.Sprintf("%s is not verified", document),
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "invalid configuration",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewSchemaInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaInvalid,
		Message:   "step schema could not be loaded",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

func NewRegistryMissingError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryMissing,
		Message:   "wizard not found in registry",
		Details:   fmt.Sprintf("wizard: %s", name),
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard unwraps err to a *StandardError if it is one.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	if se, ok := AsStandard(err); ok {
		return se.Code
	}
	return ""
}

// FieldErrorsOf returns the field-level messages attached to err.
func FieldErrorsOf(err error) []FieldError {
	if se, ok := AsStandard(err); ok {
		return se.Fields
	}
	return nil
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MILESTONE") || code == ErrCodeInvalidField:
		return "LEDGER"
	case strings.Contains(codeStr, "STEP") || code == ErrCodeDisposed:
		return "NAVIGATION"
	case strings.Contains(codeStr, "PAYMENT"):
		return "PAYMENT"
	case strings.Contains(codeStr, "VERIF"):
		return "VERIFICATION"
	case strings.Contains(codeStr, "CONFIG") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "REGISTRY"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
