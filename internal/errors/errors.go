// Package errors provides custom error types for the payday API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
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

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, sentinel).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Household errors.
var (
	ErrHouseholdNotFound     = &AppError{Code: "HOUSEHOLD_NOT_FOUND", Message: "Household not found", StatusCode: http.StatusNotFound}
	ErrHouseholdExists       = &AppError{Code: "HOUSEHOLD_EXISTS", Message: "User already owns a household", StatusCode: http.StatusConflict}
	ErrInvalidCategorySplit  = &AppError{Code: "INVALID_CATEGORY_SPLIT", Message: "Category percentages must add up to 100", StatusCode: http.StatusBadRequest}
	ErrInvalidPayCycleConfig = &AppError{Code: "INVALID_PAY_CYCLE_CONFIG", Message: "Invalid pay cycle configuration", StatusCode: http.StatusBadRequest}
	ErrInvalidJointRatio     = &AppError{Code: "INVALID_JOINT_RATIO", Message: "Joint ratio must be between 0 and 1", StatusCode: http.StatusBadRequest}
	ErrIncomeSourceNotFound  = &AppError{Code: "INCOME_SOURCE_NOT_FOUND", Message: "Income source not found", StatusCode: http.StatusNotFound}
	ErrInvalidIncomeRule     = &AppError{Code: "INVALID_INCOME_RULE", Message: "Invalid income frequency rule", StatusCode: http.StatusBadRequest}
	ErrNonPositiveAmount     = &AppError{Code: "NON_POSITIVE_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidPaymentSource  = &AppError{Code: "INVALID_PAYMENT_SOURCE", Message: "Unsupported payment source", StatusCode: http.StatusBadRequest}
	ErrPartnerSeatTaken      = &AppError{Code: "PARTNER_SEAT_TAKEN", Message: "Household already has a partner", StatusCode: http.StatusConflict}
	ErrOwnerCannotBePartner  = &AppError{Code: "OWNER_CANNOT_BE_PARTNER", Message: "The owner cannot join as partner", StatusCode: http.StatusBadRequest}
)

// Pay cycle errors.
var (
	ErrPayCycleNotFound   = &AppError{Code: "PAYCYCLE_NOT_FOUND", Message: "Pay cycle not found", StatusCode: http.StatusNotFound}
	ErrNoActiveCycle      = &AppError{Code: "NO_ACTIVE_CYCLE", Message: "Household has no active pay cycle", StatusCode: http.StatusNotFound}
	ErrNotDraftCycle      = &AppError{Code: "NOT_DRAFT_CYCLE", Message: "Pay cycle is not a draft", StatusCode: http.StatusConflict}
	ErrNotActiveCycle     = &AppError{Code: "NOT_ACTIVE_CYCLE", Message: "Pay cycle is not active", StatusCode: http.StatusConflict}
	ErrCycleNotEnded      = &AppError{Code: "CYCLE_NOT_ENDED", Message: "Pay cycle has not ended yet", StatusCode: http.StatusConflict}
	ErrPayCycleExists     = &AppError{Code: "PAYCYCLE_ALREADY_EXISTS", Message: "A pay cycle already exists for this period", StatusCode: http.StatusConflict}
	ErrDraftExists        = &AppError{Code: "DRAFT_ALREADY_EXISTS", Message: "Household already has a draft pay cycle", StatusCode: http.StatusConflict}
	ErrActiveCycleExists  = &AppError{Code: "ACTIVE_CYCLE_EXISTS", Message: "Household already has an active pay cycle", StatusCode: http.StatusConflict}
	ErrInvalidCycleStatus = &AppError{Code: "INVALID_CYCLE_STATUS", Message: "New cycles must be draft or active", StatusCode: http.StatusBadRequest}
	ErrCycleAlreadyClosed = &AppError{Code: "CYCLE_ALREADY_CLOSED", Message: "Pay cycle ritual is already closed", StatusCode: http.StatusConflict}
	ErrCycleNotClosed     = &AppError{Code: "CYCLE_NOT_CLOSED", Message: "Pay cycle ritual is not closed", StatusCode: http.StatusConflict}
)

// Seed errors.
var (
	ErrSeedNotFound        = &AppError{Code: "SEED_NOT_FOUND", Message: "Seed not found", StatusCode: http.StatusNotFound}
	ErrInvalidSeedType     = &AppError{Code: "INVALID_SEED_TYPE", Message: "Unsupported seed type", StatusCode: http.StatusBadRequest}
	ErrDueDateOutsideCycle = &AppError{Code: "DUE_DATE_OUTSIDE_CYCLE", Message: "Due date must fall inside the pay cycle", StatusCode: http.StatusBadRequest}
	ErrInvalidSeedLink     = &AppError{Code: "INVALID_SEED_LINK", Message: "A seed can link to at most one pot or repayment", StatusCode: http.StatusBadRequest}
	ErrInvalidSplitRatio   = &AppError{Code: "INVALID_SPLIT_RATIO", Message: "Split ratio must be between 0 and 1", StatusCode: http.StatusBadRequest}
	ErrCycleCompleted      = &AppError{Code: "CYCLE_COMPLETED", Message: "Seeds of a completed pay cycle cannot change", StatusCode: http.StatusConflict}
)

// Pot and repayment errors.
var (
	ErrPotNotFound       = &AppError{Code: "POT_NOT_FOUND", Message: "Pot not found", StatusCode: http.StatusNotFound}
	ErrRepaymentNotFound = &AppError{Code: "REPAYMENT_NOT_FOUND", Message: "Repayment not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatus     = &AppError{Code: "INVALID_STATUS", Message: "Unsupported status", StatusCode: http.StatusBadRequest}
)
