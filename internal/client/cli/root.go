package cli

import (
	"context"
	"strings"
)

func (a *App) getStatus() string {
	snap := a.store.Snapshot()

	var parts []string
	if snap.User != nil {
		name := snap.User.DisplayUsername()
		if name == "" {
			name = snap.User.Email
		}
		parts = append(parts, name)
		switch {
		case snap.Flags.ShowBan:
			parts = append(parts, "banned")
		case snap.Flags.ShowVerification:
			parts = append(parts, "unverified")
		}
	}
	if snap.Loading {
		parts = append(parts, "loading")
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Root starts session restoration in the background and runs the REPL
// until the user exits or ctx ends.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to the Hub CLI (type 'help' for commands)")

	unsubscribe := a.watchSession()
	defer unsubscribe()

	if state := a.boot.Start(ctx); state.Terminal() {
		a.log.Debug(ctx, "bootstrap finished synchronously", "state", state.String())
	}
	go a.reportBoot(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
