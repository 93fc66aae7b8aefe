package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
)

// Kind classifies a failed API call. Every failure leaving this package
// carries exactly one Kind.
type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindAuthentication Kind = "AUTHENTICATION_ERROR"
	KindPermission     Kind = "PERMISSION_ERROR"
	KindNotFound       Kind = "NOT_FOUND_ERROR"
	KindConflict       Kind = "CONFLICT_ERROR"
	KindRateLimit      Kind = "RATE_LIMIT_ERROR"
	KindServer         Kind = "SERVER_ERROR"
	KindNetwork        Kind = "NETWORK_ERROR"
	KindTimeout        Kind = "TIMEOUT_ERROR"
	KindRequest        Kind = "REQUEST_ERROR"
	KindUnknown        Kind = "UNKNOWN_ERROR"
)

// defaultMessages maps each Kind to its fixed fallback message, used when
// the server does not supply one.
var defaultMessages = map[Kind]string{
	KindValidation:     "the request was rejected as invalid",
	KindAuthentication: "authentication is required",
	KindPermission:     "you do not have permission to perform this action",
	KindNotFound:       "the requested resource was not found",
	KindConflict:       "the request conflicts with the current state",
	KindRateLimit:      "too many requests, slow down",
	KindServer:         "the server failed to process the request",
	KindNetwork:        "could not reach the server",
	KindTimeout:        "the request timed out",
	KindRequest:        "the request could not be prepared",
	KindUnknown:        "an unexpected error occurred",
}

// Error is the normalized error produced at the transport boundary.
// Callers never see the underlying transport failure directly; it is
// retained as Err for inspection via errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	// Code is an optional machine-readable code supplied by the server.
	Code string
	// Details is an optional structured payload supplied by the server,
	// e.g. per-field validation errors.
	Details map[string]any
	// Err is the original failure.
	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// kindForStatus maps a non-2xx HTTP status to its Kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 400 || status == 422:
		return KindValidation
	case status == 401:
		return KindAuthentication
	case status == 403:
		return KindPermission
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// newStatusError builds an Error from a non-2xx response. A
// server-supplied message/code/details takes precedence over the fixed
// default for the status.
func newStatusError(status int, body serverError) *Error {
	kind := kindForStatus(status)
	msg := defaultMessages[kind]
	if body.Message != "" {
		msg = body.Message
	}
	return &Error{
		Kind:    kind,
		Message: msg,
		Status:  status,
		Code:    body.Code,
		Details: body.Details,
		Err:     fmt.Errorf("server returned status %d", status),
	}
}

// newTransportError classifies a failure of the round trip itself, in
// priority order: timeout, then connectivity, then a request that never
// reached the wire.
func newTransportError(err error) *Error {
	kind := KindUnknown
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.As(err, &urlErr):
		// A url.Error wrapping a network-level cause means the request
		// was dispatched and the connection failed. Anything else (bad
		// scheme, malformed URL) never left the client.
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) || errors.As(urlErr.Err, &netErr) ||
			errors.Is(urlErr.Err, io.EOF) || errors.Is(urlErr.Err, io.ErrUnexpectedEOF) {
			kind = KindNetwork
		} else {
			kind = KindRequest
		}
	}
	return &Error{Kind: kind, Message: defaultMessages[kind], Err: err}
}

// newRequestError wraps a local failure that happened before the request
// was dispatched (marshalling, URL construction).
func newRequestError(err error) *Error {
	return &Error{Kind: KindRequest, Message: defaultMessages[KindRequest], Err: err}
}
