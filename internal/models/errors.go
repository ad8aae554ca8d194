package models

// Error codes shared by both platforms. Every public operation resolves
// with one of these in the result object; nothing is thrown past the
// bridge surface.
const (
	ErrMissingArguments      = "missing_arguments"
	ErrInvalidDate           = "invalid_date"
	ErrUnsupportedIdentifier = "unsupported_identifier"
	ErrUnsupportedPlatform   = "unsupported_platform"
	ErrInternal              = "internal_error"
	ErrQuery                 = "query_error"
	ErrException             = "exception"

	// Android-only codes.
	ErrHealthConnectUnavailable = "health_connect_unavailable"
	ErrPermissionDenied         = "permission_denied"
)

// BridgeError is the structured error carried inside result objects.
type BridgeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds a BridgeError with the given code and message.
func NewError(code, message string) *BridgeError {
	return &BridgeError{Code: code, Message: message}
}

// Error implements the error interface for internal logging; the public
// surface never propagates it as a Go error.
func (e *BridgeError) Error() string {
	return e.Code + ": " + e.Message
}
