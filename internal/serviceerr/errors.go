// Package serviceerr defines the typed error taxonomy surfaced to API callers.
package serviceerr

import "net/http"

// Code identifies a class of failure. String values are rendered verbatim in
// the JSON error body.
type Code string

const (
	// CodeUnauthorized marks a valid-looking but insufficient or expired
	// credential (expired token, wrong session state).
	CodeUnauthorized Code = "unauthorized"
	// CodeMissingCredentials marks a required proof that is absent or of the
	// wrong variant.
	CodeMissingCredentials Code = "missing_credentials"
	// CodeInvalidToken marks a malformed or signature-invalid token.
	CodeInvalidToken Code = "invalid_token"
	// CodeTokenCreation marks a local failure composing a response, e.g. a
	// provider schema mismatch or a disallowed account.
	CodeTokenCreation Code = "token_creation"
	// CodeUpstream marks an identity-provider network or HTTP failure.
	CodeUpstream Code = "upstream_error"

	CodeNotFound Code = "not_found"
	CodeConflict Code = "conflict"
	CodeUnknown  Code = "unknown"
)

// Error is the error type crossing the service boundary. Library code wraps
// errors with fmt.Errorf; handlers unwrap with errors.As and render the code
// plus the mapped HTTP status.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// HTTPStatus maps the error code to a response status. Unknown codes map to
// 500 rather than leaking internals.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeMissingCredentials, CodeInvalidToken:
		return http.StatusBadRequest
	case CodeUpstream:
		return http.StatusServiceUnavailable
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTokenCreation, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrUnauthorized       = &Error{Err: CodeUnauthorized}
	ErrMissingCredentials = &Error{Err: CodeMissingCredentials}
	ErrInvalidToken       = &Error{Err: CodeInvalidToken, Description: "malformed or signature-invalid token"}
	ErrUpstream           = &Error{Err: CodeUpstream, Description: "identity provider unavailable"}
	ErrNotFound           = &Error{Err: CodeNotFound, Description: "not found"}
	ErrConflict           = &Error{Err: CodeConflict, Description: "already exists"}
	ErrUnknown            = &Error{Err: CodeUnknown, Description: "unknown error"}
)

// Unauthorized returns a CodeUnauthorized error with the given reason.
func Unauthorized(reason string) *Error {
	return &Error{Err: CodeUnauthorized, Description: reason}
}

// TokenCreation returns a CodeTokenCreation error with the given detail.
func TokenCreation(detail string) *Error {
	return &Error{Err: CodeTokenCreation, Description: detail}
}
