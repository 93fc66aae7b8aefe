// Package httpapi is the HTTP transport used by all FieldSync backend
// calls.
//
// # Overview
//
// The package provides a single Client type that:
//  1. Exposes the JSON verbs (Get/Post/Put/Patch/Delete) plus a multipart
//     UploadFile helper over a configured base URL and timeout.
//  2. Injects the current bearer credential and a per-request id into
//     every outbound request; the token is read at send time, so
//     SetAuthToken is safe to call while requests are in flight.
//  3. Unwraps the optional {"data": ...} response envelope uniformly
//     across all verbs.
//  4. Converts every failure shape into a normalized *Error exactly once
//     at this boundary: HTTP status errors, connectivity failures,
//     timeouts, and local request-preparation failures.
//
// # Error Handling
//
// Failed calls return *Error carrying a Kind (see the Kind constants),
// a user-independent message, the HTTP status when one was received, and
// optional server-supplied code/details. Match with errors.As. The only
// operation that discards error information is CheckConnection, which is
// a pure connectivity heuristic.
package httpapi
