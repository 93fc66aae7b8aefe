package session

import (
	"errors"
	"fmt"

	"github.com/fieldsync/mobilecore/internal/client/httpapi"
)

// Error is the authentication-domain error returned by every failing
// Manager operation. Message is a fixed, user-presentable string chosen
// by error class; the backend's own message never reaches the UI from
// here. The transport's normalized error is retained as the cause.
type Error struct {
	// Code is a machine-readable code: the server-supplied code when
	// present, otherwise the transport error kind.
	Code string
	// Message is the user-presentable text for this failure class.
	Message string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// userMessages fixes one presentable message per transport error kind,
// independent of the raw backend text.
var userMessages = map[httpapi.Kind]string{
	httpapi.KindValidation:     "Please check the entered data and try again.",
	httpapi.KindAuthentication: "Invalid credentials. Please sign in again.",
	httpapi.KindPermission:     "You do not have access to this account action.",
	httpapi.KindNotFound:       "The requested account was not found.",
	httpapi.KindConflict:       "This account is already registered.",
	httpapi.KindRateLimit:      "Too many attempts. Please wait a moment and retry.",
	httpapi.KindServer:         "The service is temporarily unavailable. Please try again later.",
	httpapi.KindNetwork:        "No connection. Check your network and try again.",
	httpapi.KindTimeout:        "The request took too long. Please try again.",
	httpapi.KindRequest:        "Something went wrong. Please try again.",
	httpapi.KindUnknown:        "Something went wrong. Please try again.",
}

// wrapAPIError converts a transport failure into the authentication-domain
// Error handed to callers. Transport errors never cross this boundary
// unwrapped.
func wrapAPIError(err error) *Error {
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		code := apiErr.Code
		if code == "" {
			code = string(apiErr.Kind)
		}
		msg, ok := userMessages[apiErr.Kind]
		if !ok {
			msg = userMessages[httpapi.KindUnknown]
		}
		return &Error{Code: code, Message: msg, Err: err}
	}
	return &Error{
		Code:    string(httpapi.KindUnknown),
		Message: userMessages[httpapi.KindUnknown],
		Err:     err,
	}
}

// newStorageError reports a failure of the local persistence layer.
func newStorageError(err error) *Error {
	return &Error{
		Code:    "STORAGE_ERROR",
		Message: "Could not save your session on this device.",
		Err:     err,
	}
}

// errNoSession is returned when an operation requires a saved session
// and none exists.
func errNoSession() *Error {
	return &Error{
		Code:    "NO_SESSION",
		Message: "You are not signed in.",
	}
}
