// Package errors defines the coded errors returned by services and rendered
// by the HTTP layer as {"error": {"code", "message"}}.
package errors

import (
	"errors"
	"net/http"
)

// AppError is an error with a stable code and HTTP status. Internal is never
// rendered to clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap copies sentinel and attaches internal as its cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage copies sentinel with a different client-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Resolve returns the AppError carried by err, or ErrInternalServer wrapping
// err when there is none. The second result reports whether err was
// expected.
func Resolve(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return Wrap(ErrInternalServer, err), false
}

// Body is the JSON error envelope: {"error": {"code", "message"}}.
func (e *AppError) Body() map[string]any {
	return map[string]any{
		"error": map[string]string{
			"code":    e.Code,
			"message": e.Message,
		},
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Project errors.
var (
	ErrProjectNotFound = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
	ErrInvalidBaseline = &AppError{Code: "INVALID_BASELINE", Message: "Total budget must be positive and the start date must be before the end date", StatusCode: http.StatusUnprocessableEntity}
)

// Phase errors.
var (
	ErrPhaseNotFound = &AppError{Code: "PHASE_NOT_FOUND", Message: "Phase not found", StatusCode: http.StatusNotFound}
)

// Cost category errors.
var (
	ErrCostCategoryNotFound  = &AppError{Code: "COST_CATEGORY_NOT_FOUND", Message: "Cost category not found", StatusCode: http.StatusNotFound}
	ErrCostCategoryInUse     = &AppError{Code: "COST_CATEGORY_IN_USE", Message: "Cost category is used by existing cost entries", StatusCode: http.StatusConflict}
	ErrDuplicateCostCategory = &AppError{Code: "DUPLICATE_COST_CATEGORY", Message: "A cost category with this name already exists", StatusCode: http.StatusConflict}
	ErrUnknownCostCategory   = &AppError{Code: "UNKNOWN_COST_CATEGORY", Message: "Cost estimates reference unknown categories", StatusCode: http.StatusBadRequest}
)

// Cost entry errors.
var (
	ErrCostEntryNotFound   = &AppError{Code: "COST_ENTRY_NOT_FOUND", Message: "Cost entry not found", StatusCode: http.StatusNotFound}
	ErrAmountNotComputable = &AppError{Code: "AMOUNT_NOT_COMPUTABLE", Message: "Cannot calculate amount: provide hours and hourly rate, quantity and unit price, or a total amount", StatusCode: http.StatusBadRequest}
	ErrDueDateNotAllowed   = &AppError{Code: "DUE_DATE_NOT_ALLOWED", Message: "A due date can only be set on outstanding cost entries", StatusCode: http.StatusBadRequest}
)

// Obligation errors.
var (
	ErrObligationNotFound          = &AppError{Code: "OBLIGATION_NOT_FOUND", Message: "Obligation not found", StatusCode: http.StatusNotFound}
	ErrInvalidObligationTransition = &AppError{Code: "INVALID_OBLIGATION_TRANSITION", Message: "Only active obligations can change status", StatusCode: http.StatusConflict}
)

// Milestone errors.
var (
	ErrMilestoneNotFound = &AppError{Code: "MILESTONE_NOT_FOUND", Message: "Milestone not found", StatusCode: http.StatusNotFound}
)
