package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists,
// or that a request with the same idempotency key was already accepted.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not allowed")

// ErrInsufficientShares indicates that a reservation lost the race for remaining
// inventory. Recoverable: the caller may retry with a smaller quantity.
var ErrInsufficientShares = errors.New("insufficient shares available")

// ErrCourseNotActive indicates that the course is not open for share purchases.
var ErrCourseNotActive = errors.New("course is not active")

// ErrInsufficientHoldings indicates a sale for more shares than the investor owns.
var ErrInsufficientHoldings = errors.New("insufficient shares owned")

// ErrReservationExpired indicates that a reservation lapsed before commit.
// Recoverable: the caller retries the whole purchase.
var ErrReservationExpired = errors.New("reservation expired")

// ErrConcurrencyConflict indicates a lost optimistic-concurrency race.
// Recoverable: the caller retries the whole operation.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// ErrInvariantViolation indicates corrupted ledger state (e.g. available shares
// would go negative, or a replay mismatch). Never expected during correct
// operation; mutations failing with this error must be refused and logged.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// AppError carries a status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
