package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus_SpecificCodes(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationPeriodKind, http.StatusUnprocessableEntity},
		{ErrCodeReportInsufficientData, http.StatusFailedDependency},
		{ErrCodeUpstreamAIUnavailable, http.StatusServiceUnavailable},
		{ErrCodeUpstreamAITimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestHTTPStatus_PrefixFamilies(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidID, http.StatusBadRequest},
		{ErrCodeValidationInvalidQuery, http.StatusBadRequest},
		{ErrCodeAuthTokenMissing, http.StatusUnauthorized},
		{ErrCodeAuthSessionExpired, http.StatusUnauthorized},
		{ErrCodePermissionNotOwner, http.StatusForbidden},
		{ErrCodeNotFoundSymptom, http.StatusNotFound},
		{ErrCodeNotFoundReport, http.StatusNotFound},
		{ErrCodeConflictEmail, http.StatusConflict},
		{ErrCodeUpstreamAIEmpty, http.StatusInternalServerError},
		{ErrCodeUpstreamAIFailed, http.StatusInternalServerError},
		{ErrCodeAIMisconfigured, http.StatusInternalServerError},
		{ErrCodeInternalDB, http.StatusInternalServerError},
		{ErrCodeInternalUnexpected, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := NewAppError(ErrCodeInternalDB, "query failed", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "query failed")
}

func TestAppError_Details(t *testing.T) {
	err := NewAppErrorWithDetails(ErrCodeReportInsufficientData, "not enough data", nil,
		map[string]any{"symptom_count": 1, "required": 3})

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, 1, appErr.Details["symptom_count"])
	assert.Equal(t, http.StatusFailedDependency, appErr.HTTPStatus())
}
