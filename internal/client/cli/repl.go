package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	Anonymous(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Link(ctx context.Context) error
	Whoami(ctx context.Context) error
	Status(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the FieldSync session CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anonymous session:
//	  - help           — show available commands
//	  - register       — create an account (keeps current data)
//	  - login          — sign in to an existing account
//	  - link           — attach email credentials to this identity
//	  - whoami         — show the saved identity
//	  - status         — show session mode and token expiry
//	  - refresh        — force a token refresh
//	  - exit | quit    — leave the program
//
//	Signed in:
//	  - the same, plus logout — drop back to a fresh anonymous session
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fieldsync %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: whoami, status, refresh, link, logout, exit")
			} else {
				printlnFn("Available commands: anon, register, login, link, whoami, status, refresh, exit")
			}

		case "anon":
			_ = a.Anonymous(ctx)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "link":
			_ = a.Link(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "status":
			_ = a.Status(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
