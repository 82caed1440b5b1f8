package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
// The set is closed: every failure a handler can surface must be expressed
// through one of these constants so the HTTP mapping stays exhaustive.
type ErrorCode string

const (
	// Validation (400, except the period kind which maps to 422)
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidID    ErrorCode = "validation_invalid_id"
	ErrCodeValidationInvalidQuery ErrorCode = "validation_invalid_query"
	ErrCodeValidationInvalidField ErrorCode = "validation_invalid_field"
	ErrCodeValidationInvalidEmail ErrorCode = "validation_invalid_email"
	ErrCodeValidationPeriodKind   ErrorCode = "validation_invalid_period_type"

	// Auth (401)
	ErrCodeAuthTokenMissing   ErrorCode = "auth_token_missing"
	ErrCodeAuthTokenInvalid   ErrorCode = "auth_token_invalid"
	ErrCodeAuthSessionExpired ErrorCode = "auth_session_expired"
	ErrCodeAuthInvalidCreds   ErrorCode = "auth_invalid_credentials"
	ErrCodeAuthUserNotFound   ErrorCode = "auth_user_not_found"

	// Permission (403)
	ErrCodePermissionNotOwner ErrorCode = "permission_not_owner"

	// Not Found (404)
	ErrCodeNotFoundSymptom ErrorCode = "not_found_symptom"
	ErrCodeNotFoundReport  ErrorCode = "not_found_report"

	// Conflict (409)
	ErrCodeConflictEmail ErrorCode = "conflict_email_exists"

	// Report pipeline (424/503/504/500)
	ErrCodeReportInsufficientData ErrorCode = "report_insufficient_data"
	ErrCodeUpstreamAIUnavailable  ErrorCode = "upstream_ai_unavailable"
	ErrCodeUpstreamAITimeout      ErrorCode = "upstream_ai_timeout"
	ErrCodeUpstreamAIEmpty        ErrorCode = "upstream_ai_empty_response"
	ErrCodeUpstreamAIFailed       ErrorCode = "upstream_ai_generation_failed"
	ErrCodeAIMisconfigured        ErrorCode = "internal_ai_misconfigured"

	// Internal (500)
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its HTTP status code.
//
// The report pipeline codes carry user-actionable distinctions that must not
// collapse: 424 means "log more symptoms first", 503/504 mean "come back
// later", 500 means "something is broken". Unrecognized codes fall back to
// 500 as a safe default.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeValidationPeriodKind:
		return http.StatusUnprocessableEntity // 422
	case ErrCodeReportInsufficientData:
		return http.StatusFailedDependency // 424
	case ErrCodeUpstreamAIUnavailable:
		return http.StatusServiceUnavailable // 503
	case ErrCodeUpstreamAITimeout:
		return http.StatusGatewayTimeout // 504
	}

	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "auth_"):
		return http.StatusUnauthorized // 401
	case strings.HasPrefix(s, "permission_"):
		return http.StatusForbidden // 403
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case strings.HasPrefix(s, "conflict_"):
		return http.StatusConflict // 409
	default:
		// upstream_ai_empty_response, upstream_ai_generation_failed,
		// internal_* and anything unrecognized.
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type. All domain and handler
// errors are expressed as AppError to enable consistent formatting, HTTP
// status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details
// that are safe to return to the client.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
