package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Services wrap these so callers can branch with
// errors.Is without knowing about AppError.
var (
	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict indicates the operation clashes with current state
	// (duplicate code, double posting, circular parent assignment).
	ErrConflict = errors.New("conflict")
	// ErrState indicates the entity is in the wrong lifecycle state for the
	// requested operation.
	ErrState = errors.New("invalid state")
	// ErrInternal indicates an unexpected failure inside the service.
	ErrInternal = errors.New("internal error")
)

// Stable machine-readable codes carried alongside the human message.
const (
	CodeEntryUnbalanced    = "ENTRY_UNBALANCED"
	CodeEntryNoLines       = "ENTRY_NO_LINES"
	CodeLineMalformed      = "LINE_MALFORMED"
	CodeDateRangeInverted  = "DATE_RANGE_INVERTED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeEntryNotFound      = "ENTRY_NOT_FOUND"
	CodeAccountCodeExists  = "ACCOUNT_CODE_EXISTS"
	CodeParentCycle        = "PARENT_CYCLE"
	CodeEntryNotDraft      = "ENTRY_NOT_DRAFT"
	CodeEntryNotPosted     = "ENTRY_NOT_POSTED"
	CodeAccountHasChildren = "ACCOUNT_HAS_CHILDREN"
	CodeAccountHasPostings = "ACCOUNT_HAS_POSTINGS"
	CodeCurrencyMismatch   = "CURRENCY_MISMATCH"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeInternal           = "INTERNAL"
)

// AppError pairs a stable machine code with a human-readable message and an
// error kind. It optionally wraps an underlying cause.
type AppError struct {
	Kind    error  // one of the sentinels above
	Code    string // stable machine-readable code
	Message string // human-readable, safe for display
	Err     error  // underlying cause, may be nil
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause so that
// errors.Is works against either.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewValidation builds a ValidationError with a stable code.
func NewValidation(code, message string) *AppError {
	return &AppError{Kind: ErrValidation, Code: code, Message: message}
}

// NewNotFound builds a NotFoundError with a stable code.
func NewNotFound(code, message string) *AppError {
	return &AppError{Kind: ErrNotFound, Code: code, Message: message}
}

// NewConflict builds a ConflictError with a stable code.
func NewConflict(code, message string) *AppError {
	return &AppError{Kind: ErrConflict, Code: code, Message: message}
}

// NewState builds a StateError with a stable code.
func NewState(code, message string) *AppError {
	return &AppError{Kind: ErrState, Code: code, Message: message}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: ErrInternal, Code: CodeInternal, Message: message, Err: err}
}

// CodeOf extracts the stable code from err, or CodeInternal when err is not
// an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the status code served at the handler
// boundary.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
