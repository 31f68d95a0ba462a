package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLeaseNotFound        = errors.New("lease not found")
	ErrLeaseAlreadyExists   = errors.New("lease already exists")
	ErrLeaseNotActive       = errors.New("lease is not active")
	ErrInvalidStartDate     = errors.New("invalid lease start date")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLeaseNotFound         = "LEASE_NOT_FOUND"
	ErrCodeLeaseAlreadyExists    = "LEASE_ALREADY_EXISTS"
	ErrCodeLeaseNotActive        = "LEASE_NOT_ACTIVE"
	ErrCodeInvalidStartDate      = "INVALID_START_DATE"
	ErrCodeInvalidPaymentAmount  = "INVALID_PAYMENT_AMOUNT"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeCacheError            = "CACHE_ERROR"
	ErrCodeReconciliationAborted = "RECONCILIATION_ABORTED"
)

// Wrap common errors with business context
func WrapLeaseNotFound(leaseID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLeaseNotFound,
		fmt.Sprintf("Lease with ID %s not found", leaseID),
		ErrLeaseNotFound,
	)
}

func WrapLeaseAlreadyExists(leaseID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLeaseAlreadyExists,
		fmt.Sprintf("Lease with ID %s already exists", leaseID),
		ErrLeaseAlreadyExists,
	)
}

func WrapLeaseNotActive(leaseID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeLeaseNotActive,
		fmt.Sprintf("Lease with ID %s has status %s", leaseID, status),
		ErrLeaseNotActive,
	)
}

func WrapInvalidStartDate(raw string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStartDate,
		fmt.Sprintf("Start date %q is not a valid YYYY-MM-DD date", raw),
		ErrInvalidStartDate,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

// WrapReconciliationAborted marks a fatal run failure: the active lease set
// could not be enumerated, so no per-lease processing happened.
func WrapReconciliationAborted(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeReconciliationAborted,
		"unable to enumerate active leases",
		err,
	)
}
