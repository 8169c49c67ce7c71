package serviceerr_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmflairs/gateway/internal/serviceerr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedMsg string
	}{
		{
			name:        "Error with description",
			err:         &serviceerr.Error{Err: serviceerr.CodeNotFound, Description: "resource not found"},
			expectedMsg: "not_found: resource not found",
		},
		{
			name:        "Error without description",
			err:         &serviceerr.Error{Err: serviceerr.CodeMissingCredentials, Description: ""},
			expectedMsg: "missing_credentials",
		},
		{
			name:        "Predefined error - ErrUnknown",
			err:         serviceerr.ErrUnknown,
			expectedMsg: "unknown: unknown error",
		},
		{
			name:        "Predefined error - ErrInvalidToken",
			err:         serviceerr.ErrInvalidToken,
			expectedMsg: "invalid_token: malformed or signature-invalid token",
		},
		{
			name:        "Unauthorized helper",
			err:         serviceerr.Unauthorized("expired"),
			expectedMsg: "unauthorized: expired",
		},
		{
			name:        "TokenCreation helper",
			err:         serviceerr.TokenCreation("account not finalized"),
			expectedMsg: "token_creation: account not finalized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Helper()
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name               string
		code               serviceerr.Code
		expectedHTTPStatus int
	}{
		{
			name:               "CodeUnauthorized returns Unauthorized",
			code:               serviceerr.CodeUnauthorized,
			expectedHTTPStatus: http.StatusUnauthorized,
		},
		{
			name:               "CodeMissingCredentials returns BadRequest",
			code:               serviceerr.CodeMissingCredentials,
			expectedHTTPStatus: http.StatusBadRequest,
		},
		{
			name:               "CodeInvalidToken returns BadRequest",
			code:               serviceerr.CodeInvalidToken,
			expectedHTTPStatus: http.StatusBadRequest,
		},
		{
			name:               "CodeTokenCreation returns InternalServerError",
			code:               serviceerr.CodeTokenCreation,
			expectedHTTPStatus: http.StatusInternalServerError,
		},
		{
			name:               "CodeUpstream returns ServiceUnavailable",
			code:               serviceerr.CodeUpstream,
			expectedHTTPStatus: http.StatusServiceUnavailable,
		},
		{
			name:               "CodeNotFound returns NotFound",
			code:               serviceerr.CodeNotFound,
			expectedHTTPStatus: http.StatusNotFound,
		},
		{
			name:               "CodeConflict returns Conflict",
			code:               serviceerr.CodeConflict,
			expectedHTTPStatus: http.StatusConflict,
		},
		{
			name:               "CodeUnknown returns InternalServerError",
			code:               serviceerr.CodeUnknown,
			expectedHTTPStatus: http.StatusInternalServerError,
		},
		{
			name:               "Unknown code returns InternalServerError",
			code:               serviceerr.Code("unknown_code"),
			expectedHTTPStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Helper()
			err := serviceerr.Error{Err: tt.code}
			assert.Equal(t, tt.expectedHTTPStatus, err.HTTPStatus())
		})
	}
}
