package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cpphub/hubclient/internal/client/gating"
	"github.com/cpphub/hubclient/internal/client/privilege"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	decision gating.Decision

	calls  []string
	args   []string
	groups []privilege.Group
	modals int
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	return nil
}

func (f *fakeExec) isLoggedIn() bool               { return f.loggedIn }
func (f *fakeExec) gate() gating.Decision          { return f.decision }
func (f *fakeExec) showModal(gating.Decision)      { f.modals++ }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error       { return f.record("whoami") }
func (f *fakeExec) Resend(context.Context) error       { return f.record("resend") }
func (f *fakeExec) ResetRequest(context.Context) error { return f.record("reset-request") }
func (f *fakeExec) ResetVerify(context.Context) error  { return f.record("reset-verify") }
func (f *fakeExec) ResetCode(context.Context) error    { return f.record("reset-code") }
func (f *fakeExec) ProfileEdit(context.Context) error  { return f.record("profile-edit") }
func (f *fakeExec) VerifyEmail(_ context.Context, token string) error {
	return f.record("verify-email", token)
}
func (f *fakeExec) ResetLink(_ context.Context, token string) error {
	return f.record("reset-link", token)
}
func (f *fakeExec) Profile(_ context.Context, id string) error {
	return f.record("profile", id)
}
func (f *fakeExec) Can(_ context.Context, groups []privilege.Group) error {
	f.groups = groups
	return f.record("can")
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"whoami",
		"verify-email abc",
		"reset-request",
		"reset-verify",
		"reset-code",
		"reset-link xyz",
		"profile-edit",
		"profile 42",
		"can Premium Plan, Admin",
		"resend",
		"logout",
		"register",
		"exit",
		"whoami",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"login", "whoami", "verify-email", "reset-request", "reset-verify", "reset-code",
		"reset-link", "profile-edit", "profile", "can", "resend", "logout", "register",
	}, exec.calls)
	assert.Equal(t, []string{"abc", "xyz", "42"}, exec.args)
	assert.Equal(t, []privilege.Group{privilege.PremiumPlan, privilege.Admin}, exec.groups)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("verify-email\nprofile\ncan\nreset-link a b\nfoobar\n\nquit\n"))

	assert.Empty(t, exec.calls)
	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "Usage: verify-email <token>")
	assert.Contains(t, out, "Usage: profile <id>")
	assert.Contains(t, out, "Usage: can <group>")
	assert.Contains(t, out, "Usage: reset-link <token>")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("help\n"))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, rdr("help\n"))

	assert.Contains(t, *lines, helpLoggedOut)
	assert.Contains(t, *lines, helpLoggedIn)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(ada)" }, rdr(""))

	require.NotEmpty(t, *lines)
	assert.Equal(t, "hub (ada)> ", (*lines)[0])
}

func TestRunREPL_BanBlocksEverythingButSafeCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true, decision: gating.Decision{Modal: gating.ModalBan, Inert: true}}
	runREPL(context.Background(), exec, func() string { return "" },
		rdr("profile-edit\nresend\nverify-email t\nwhoami\nlogout\n"))

	assert.Equal(t, []string{"whoami", "logout"}, exec.calls)
	assert.Equal(t, 3, exec.modals)
}

func TestRunREPL_VerificationAllowsResendAndVerify(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true, decision: gating.Decision{Modal: gating.ModalVerification, Inert: true}}
	runREPL(context.Background(), exec, func() string { return "" },
		rdr("profile 1\nresend\nverify-email t\ncan Admin\n"))

	assert.Equal(t, []string{"resend", "verify-email"}, exec.calls)
	assert.Equal(t, 2, exec.modals)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"))

	assert.Empty(t, exec.calls)
}

func TestParseGroups(t *testing.T) {
	assert.Equal(t, []privilege.Group{"Basic Plan", "Owner"}, parseGroups(" Basic Plan ,, Owner "))
	assert.Nil(t, parseGroups("  "))
}
