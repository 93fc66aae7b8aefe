// Package session owns the FieldSync authentication lifecycle.
//
// # Overview
//
// The Manager moves a device through the session states
//
//	NoSession -> AnonymousLocal / AnonymousRemote -> Authenticated -> NoSession
//
// by way of: anonymous bootstrap (SignInAnonymously, with a silent local
// fallback when the backend is unreachable), email login/registration,
// credential linking, token refresh, logout, and auto-login on startup.
// The persisted session triple (credential, identity, anonymity flag) is
// written all-or-nothing; the Manager is its only writer.
//
// # Error Handling
//
// Every failing operation returns *Error with a fixed user-presentable
// message and a machine code; the transport's normalized errors never
// cross this boundary. Two deliberate exceptions surface no error at
// all: a backend failure during anonymous bootstrap (silent local
// fallback) and a failed logout notification (local cleanup proceeds).
//
// # Concurrency
//
// Session-mutating operations are serialized by an internal mutex, so a
// Logout racing a Refresh executes after it rather than interleaving
// storage writes.
package session
