// Package errors provides centralized error definitions and error handling utilities
// for fintrack. It defines the failure taxonomy of talking to the finance API,
// error constructors with context wrapping, and the reduction of any failure to a
// single human-readable message.
//
// # Error Types
//
// Transport and API errors describe what went wrong on the wire:
//   - TransportError: the request never produced an HTTP response
//   - APIError: the server answered with a non-2xx status; 401 marks the session expired
//   - StorageError: the local token store could not be read or written
//
// Semantic errors represent common local conditions:
//   - ValidationError: a form failed its required-field checks
//   - NotFoundError: a resource is not present in the current view state
//
// # Usage
//
//	if errors.IsUnauthorized(err) {
//	    // session is already cleared by the API client
//	}
//
//	form.Error = errors.Reduce(err)
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Auth-related sentinel errors
var (
	// ErrUnauthorized indicates the server rejected the access token (HTTP 401).
	ErrUnauthorized = New("unauthorized")
	// ErrNotAuthenticated indicates an operation needs a session but none exists.
	ErrNotAuthenticated = New("not logged in")
	// ErrNoRefreshToken indicates a refresh exchange was attempted without a refresh token.
	ErrNoRefreshToken = New("no refresh token stored")
)

// Storage-related sentinel errors
var (
	// ErrTokensCorrupted indicates the persisted token document could not be decoded.
	ErrTokensCorrupted = New("stored tokens corrupted")
	// ErrUnknownBackend indicates an unsupported token store backend name.
	ErrUnknownBackend = New("unknown token store backend")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotFound indicates that a resource could not be found.
	ErrNotFound = New("not found")
	// ErrNoPendingDelete indicates a delete confirmation without a staged delete.
	ErrNoPendingDelete = New("no delete awaiting confirmation")
	// ErrNoOpenForm indicates a submit while no form is open.
	ErrNoOpenForm = New("no form is open")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// FintrackError is the base interface for all fintrack errors.
type FintrackError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Wire Errors
// -----------------------------------------------------------------------------

// TransportError represents a request that failed before any HTTP response
// was received (DNS, refused connection, reset, canceled context).
//
// Example:
//
//	err := errors.NewTransportError("GET", "/accounts/", netErr)
//	fmt.Println(err) // "GET /accounts/: dial tcp: connection refused"
type TransportError struct {
	baseError
	Method string
	Path   string
}

// NewTransportError creates a new TransportError.
func NewTransportError(method, path string, cause error) *TransportError {
	return &TransportError{
		baseError: baseError{
			message:    fmt.Sprintf("%s %s", method, path),
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Method: method,
		Path:   path,
	}
}

// Text returns the raw transport error text without request context.
func (e *TransportError) Text() string {
	if e.cause == nil {
		return e.message
	}
	return e.cause.Error()
}

// APIError represents a non-2xx response from the finance API. The response
// body is decoded, when possible, into field-level errors and the common
// detail/message/error keys.
//
// Example:
//
//	err := errors.ParseAPIError(400, []byte(`{"email":["Enter a valid email address."]}`))
//	errors.Reduce(err) // "email: Enter a valid email address."
type APIError struct {
	baseError
	Status      int
	FieldErrors map[string][]string
	Detail      string
	Message     string
	ErrorText   string
	Body        []byte
}

// NewAPIError creates an APIError for the given status with no decoded body.
func NewAPIError(status int) *APIError {
	sev := SeverityWarning
	if status >= 500 {
		sev = SeverityError
	}
	return &APIError{
		baseError: baseError{
			message:    fmt.Sprintf("request failed with status code %d", status),
			severity:   sev,
			userFacing: true,
		},
		Status: status,
	}
}

// ParseAPIError decodes a response body into an APIError. Bodies that are not
// JSON objects are kept raw and contribute nothing but the status.
func ParseAPIError(status int, body []byte) *APIError {
	e := NewAPIError(status)
	e.Body = body

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return e
	}

	for key, value := range raw {
		switch key {
		case "detail":
			e.Detail = decodeText(value)
		case "message":
			e.Message = decodeText(value)
		case "error":
			e.ErrorText = decodeText(value)
		case "code", "messages":
			// Token error envelope; the detail carries the message.
		case "errors":
			var nested map[string]json.RawMessage
			if json.Unmarshal(value, &nested) == nil {
				for field, msgs := range nested {
					e.addFieldError(field, decodeMessages(msgs))
				}
			}
		default:
			if msgs := decodeMessages(value); len(msgs) > 0 {
				e.addFieldError(key, msgs)
			}
		}
	}
	return e
}

func (e *APIError) addFieldError(field string, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msgs...)
}

// decodeText returns a JSON string value, or the first string of a list.
func decodeText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	if msgs := decodeMessages(raw); len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// decodeMessages accepts either a string or a list of strings. Objects,
// numbers and other non-string items are dropped.
func decodeMessages(raw json.RawMessage) []string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []any
	if json.Unmarshal(raw, &list) != nil {
		return nil
	}
	var msgs []string
	for _, item := range list {
		if v, ok := item.(string); ok && v != "" {
			msgs = append(msgs, v)
		}
	}
	return msgs
}

// Unauthorized reports whether the server rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Is reports whether target is ErrUnauthorized for 401 responses, or ErrNotFound for 404.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Unauthorized()
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// FieldSummary joins field errors as "field: msg1,msg2" pairs sorted by field name.
func (e *APIError) FieldSummary() string {
	if len(e.FieldErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.FieldErrors[f], ",")))
	}
	return strings.Join(parts, ", ")
}

// StorageError represents a token store read or write failure.
type StorageError struct {
	baseError
	Backend string
}

// NewStorageError creates a new StorageError.
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithBackend records which token store backend failed.
func (e *StorageError) WithBackend(backend string) *StorageError {
	e.Backend = backend
	return e
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	prefix := "storage error"
	if e.Backend != "" {
		prefix = fmt.Sprintf("storage error [backend=%s]", e.Backend)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found", resourceType),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s %q not found", e.ResourceType, e.ResourceID)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents invalid form input detected before any request
// is sent. Its message is meant to be shown inline as-is.
//
// Example:
//
//	err := errors.NewValidationError("Passwords do not match").WithField("password_confirm")
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// Message returns the bare validation message.
func (e *ValidationError) Message() string {
	return e.message
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUnauthorized reports whether err carries an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	return err != nil && Is(err, ErrUnauthorized)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var fe FintrackError
	if As(err, &fe) {
		return fe.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement FintrackError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var fe FintrackError
	if As(err, &fe) {
		return fe.Severity()
	}
	return SeverityError
}

// Reduce collapses any failure into the single string shown next to a form.
// Precedence: field-level errors, then detail, then message, then the error
// key, then the raw error text.
func Reduce(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if As(err, &validation) {
		return validation.Message()
	}

	var apiErr *APIError
	if As(err, &apiErr) {
		switch {
		case len(apiErr.FieldErrors) > 0:
			return apiErr.FieldSummary()
		case apiErr.Detail != "":
			return apiErr.Detail
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.ErrorText != "":
			return apiErr.ErrorText
		}
		return apiErr.message
	}

	var transport *TransportError
	if As(err, &transport) {
		return transport.Text()
	}

	return err.Error()
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
