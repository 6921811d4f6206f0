package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/cpphub/hubclient/internal/client/gating"
	"github.com/cpphub/hubclient/internal/client/privilege"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	gate() gating.Decision
	showModal(d gating.Decision)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Resend(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error

	ResetRequest(ctx context.Context) error
	ResetVerify(ctx context.Context) error
	ResetCode(ctx context.Context) error
	ResetLink(ctx context.Context, token string) error

	ProfileEdit(ctx context.Context) error
	Profile(ctx context.Context, userID string) error
	Can(ctx context.Context, groups []privilege.Group) error
}

const (
	helpLoggedOut = "Available commands: register, login, verify-email <token>, reset-request, reset-verify, reset-code, reset-link <token>, profile <id>, exit"
	helpLoggedIn  = "Available commands: whoami, profile-edit, profile <id>, can <group>[, <group>...], resend, verify-email <token>, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// Before dispatching, the command is checked against the current gating
// decision: while the ban or verification notice is up only the commands
// that notice permits run, everything else re-displays the notice.
//
// Handler errors are ignored here; handlers report to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("hub %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if d := a.gate(); !d.Allows(cmd) {
			a.showModal(d)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "verify-email":
			if len(args) != 1 {
				printlnFn("Usage: verify-email <token>")
				continue
			}
			_ = a.VerifyEmail(ctx, args[0])

		case "reset-request":
			_ = a.ResetRequest(ctx)

		case "reset-verify":
			_ = a.ResetVerify(ctx)

		case "reset-code":
			_ = a.ResetCode(ctx)

		case "reset-link":
			if len(args) != 1 {
				printlnFn("Usage: reset-link <token>")
				continue
			}
			_ = a.ResetLink(ctx, args[0])

		case "profile-edit":
			_ = a.ProfileEdit(ctx)

		case "profile":
			if len(args) != 1 {
				printlnFn("Usage: profile <id>")
				continue
			}
			_ = a.Profile(ctx, args[0])

		case "can":
			groups := parseGroups(strings.Join(args, " "))
			if len(groups) == 0 {
				printlnFn("Usage: can <group>[, <group>...]")
				continue
			}
			_ = a.Can(ctx, groups)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// parseGroups splits a comma-separated list of group names. Group names may
// contain spaces ("Premium Plan").
func parseGroups(s string) []privilege.Group {
	var out []privilege.Group
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, privilege.Group(p))
		}
	}
	return out
}
