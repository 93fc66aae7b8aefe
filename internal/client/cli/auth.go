package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fieldsync/mobilecore/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Anonymous establishes a fresh anonymous session. When the backend is
// unreachable the identity is created locally on this device.
func (a *App) Anonymous(ctx context.Context) error {
	res, err := a.sessions.SignInAnonymously(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.setSession(&res.Session.Identity)
	fmt.Printf("Anonymous session ready (%s)\n", res.Origin)
	return nil
}

// Register prompts the user for an email, password, and display name and
// attempts to create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	displayName, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.sessions.Register(ctx, email, string(password), displayName)
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.setSession(&sess.Identity)
	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// On success the session identity replaces whatever session was active
// before. On failure the previous session is left untouched; the error
// message shown to the user comes from the session layer and is safe to
// display. The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.sessions.LoginWithEmail(ctx, email, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.setSession(&sess.Identity)
	log.Printf("Signed in as %s", sess.Identity.Email)
	return nil
}

// Link attaches email credentials to the current anonymous identity so it
// survives a device change.
func (a *App) Link(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.sessions.LinkWithEmailPassword(ctx, email, string(password))
	if err != nil {
		log.Printf("Linking unsuccessful: %s", err.Error())
		return err
	}

	a.setSession(&sess.Identity)
	fmt.Printf("Linked to %s\n", sess.Identity.Email)
	return nil
}

// Whoami prints the saved identity and its linked providers.
func (a *App) Whoami(ctx context.Context) error {
	identity, err := a.sessions.SavedUser(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if identity == nil {
		fmt.Println("No saved identity")
		return nil
	}

	fmt.Printf("ID:        %s\n", identity.ID)
	fmt.Printf("Email:     %s\n", identity.Email)
	if identity.DisplayName != "" {
		fmt.Printf("Name:      %s\n", identity.DisplayName)
	}
	fmt.Printf("Anonymous: %v\n", identity.IsAnonymous)

	providers, err := a.sessions.LinkedProviders(ctx)
	if err != nil {
		return err
	}
	for _, p := range providers {
		if p.Linked {
			fmt.Printf("Linked:    %s\n", p.Provider)
		}
	}
	return nil
}

// Status prints the current session mode and token expiry.
func (a *App) Status(ctx context.Context) error {
	cred, err := a.sessions.SavedTokens(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if cred == nil {
		fmt.Println("No saved session")
		return nil
	}

	mode := a.Mode
	if mode == ModeNone {
		mode = "none"
	}
	fmt.Printf("Mode:    %s\n", mode)
	fmt.Printf("Expires: %s\n", cred.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

// Refresh forces a token refresh and prints the new expiry.
func (a *App) Refresh(ctx context.Context) error {
	cred, err := a.sessions.RefreshToken(ctx)
	if err != nil {
		log.Printf("Refresh unsuccessful: %s", err.Error())
		return err
	}
	fmt.Printf("Token refreshed, expires %s\n", cred.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

// Logout ends the current session and drops back to a fresh anonymous one.
// A failure to establish the replacement session leaves the app without a
// session; the user can run "anon" or "login" to recover.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		log.Printf("Logout unsuccessful: %s", err.Error())
		return err
	}
	a.setSession(nil)

	res, err := a.sessions.SignInAnonymously(ctx)
	if err != nil {
		log.Printf("Could not start a new anonymous session: %s", err.Error())
		return nil
	}
	a.setSession(&res.Session.Identity)
	log.Println("Signed out, continuing anonymously")
	return nil
}
