// Package cli provides the interactive FieldSync session command-line client.
//
// It wires configuration, local storage, the HTTP API client, and a session
// manager into an interactive REPL. Typical flow: restore or bootstrap a
// session on start (falling back to a local anonymous identity when the
// backend is unreachable), then execute user commands.
//
// Key features:
//   - Anonymous bootstrap with offline fallback
//   - Background connectivity watcher reflected in the prompt
//   - Login / Register / Link email credentials
//   - Token refresh and session status inspection
//   - Logout that drops back to a fresh anonymous session
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
