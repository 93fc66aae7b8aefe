package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// onlineCheckInterval is how often the background watcher probes the
// backend health endpoint.
const onlineCheckInterval = 30 * time.Second

func (a *App) getStatus() string {
	s := ""
	if a.identity != nil && a.identity.Email != "" {
		s = a.identity.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if a.offline.Load() {
		s = strings.TrimSpace(s + " offline")
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to FieldSync CLI (type 'help' for commands)")

	sess, err := a.sessions.AutoLogin(ctx)
	if err != nil {
		log.Printf("Auto login failed: %s", err.Error())
	}
	if sess != nil {
		a.setSession(&sess.Identity)
		log.Printf("Restored session for %s", sess.Identity.Email)
	} else {
		log.Println("Starting without a session")
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
