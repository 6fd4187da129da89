package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("resource already exists")
	ErrAlreadyEvaluated       = errors.New("credit application has already been evaluated")
	ErrNotPending             = errors.New("credit application is not in PENDING status")
	ErrMemberInactive         = errors.New("member is not active")
	ErrInsufficientSeniority  = errors.New("member does not meet the minimum seniority")
	ErrMemberHasActiveApps    = errors.New("member has active credit applications")
	ErrRiskServiceUnavailable = errors.New("risk central service unavailable")
	ErrDivisionByZeroSalary   = errors.New("member salary is zero")
	ErrUnauthorized           = errors.New("invalid credentials")
	ErrForbidden              = errors.New("insufficient permissions")
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
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeConflict               = "CONFLICT"
	ErrCodeAlreadyEvaluated       = "ALREADY_EVALUATED"
	ErrCodeNotPending             = "NOT_PENDING"
	ErrCodeMemberInactive         = "MEMBER_INACTIVE"
	ErrCodeInsufficientSeniority  = "INSUFFICIENT_SENIORITY"
	ErrCodeMemberHasActiveApps    = "MEMBER_HAS_ACTIVE_APPLICATIONS"
	ErrCodeRiskServiceUnavailable = "RISK_SERVICE_UNAVAILABLE"
	ErrCodeDivisionByZeroSalary   = "DIVISION_BY_ZERO_SALARY"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeValidationError        = "VALIDATION_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapNotFound(entity, field string, value any) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with %s %v not found", entity, field, value),
		ErrNotFound,
	)
}

func WrapConflict(entity, field string, value any) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("%s with %s %v already exists", entity, field, value),
		ErrConflict,
	)
}

func WrapAlreadyEvaluated(applicationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyEvaluated,
		fmt.Sprintf("Credit application %s has already been evaluated", applicationID),
		ErrAlreadyEvaluated,
	)
}

func WrapNotPending(applicationID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotPending,
		fmt.Sprintf("Credit application %s is not in PENDING status (current: %s)", applicationID, status),
		ErrNotPending,
	)
}

func WrapMemberInactive(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeMemberInactive,
		fmt.Sprintf("Member %s is not active", memberID),
		ErrMemberInactive,
	)
}

func WrapInsufficientSeniority(memberID string, minMonths int) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientSeniority,
		fmt.Sprintf("Member %s must have at least %d months of seniority", memberID, minMonths),
		ErrInsufficientSeniority,
	)
}

func WrapMemberHasActiveApplications(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeMemberHasActiveApps,
		fmt.Sprintf("Cannot delete member %s - has active credit applications (PENDING or APPROVED)", memberID),
		ErrMemberHasActiveApps,
	)
}

func WrapRiskServiceUnavailable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRiskServiceUnavailable,
		"Risk central service unavailable after retries",
		errors.Join(ErrRiskServiceUnavailable, err),
	)
}

func WrapDivisionByZeroSalary(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDivisionByZeroSalary,
		fmt.Sprintf("Member %s has zero salary, cannot compute payment ratio", memberID),
		ErrDivisionByZeroSalary,
	)
}

func WrapUnauthorized(message string) *BusinessError {
	return NewBusinessError(ErrCodeUnauthorized, message, ErrUnauthorized)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(ErrCodeForbidden, message, ErrForbidden)
}

func WrapValidationError(err error) *BusinessError {
	return NewBusinessError(ErrCodeValidationError, "Validation failed", err)
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
		"Cache operation failed",
		err,
	)
}
