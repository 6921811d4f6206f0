package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/cpphub/hubclient/internal/client/config"
	"github.com/cpphub/hubclient/internal/client/gating"
	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/persistence"
	"github.com/cpphub/hubclient/internal/client/services"
	"github.com/cpphub/hubclient/internal/client/session"
	"github.com/cpphub/hubclient/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAuth records what the commands pass to the gateway and answers with
// preset results.
type fakeAuth struct {
	store *session.Store

	calls []string

	loginEmail, loginPass string
	loginRes              services.Result
	loginUser             *models.UserPayload

	regIn  services.RegisterInput
	regRes services.Result

	resendEmail string
	resendRes   services.Result

	verifyToken string
	verifyRes   services.VerifyEmailResult

	resetID, resetCode, resetPw, resetConfirm string
	requestRes                                services.Result
	verifyCodeRes                             services.VerifyCodeResult
	resetCodeRes                              services.Result
	validateRes                               services.Result
	resetTokenRes                             services.Result

	profileIn  services.ProfileInput
	profileRes services.ProfileResult

	publicID  string
	publicRes services.PublicProfileResult
}

func (f *fakeAuth) call(name string) { f.calls = append(f.calls, name) }

func (f *fakeAuth) Login(ctx context.Context, email, password string) services.Result {
	f.call("login")
	f.loginEmail, f.loginPass = email, password
	if f.loginRes.Success && f.loginUser != nil {
		token := "token"
		_ = f.store.SetSession(ctx, f.loginUser, &token)
	}
	return f.loginRes
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) services.Result {
	f.call("register")
	f.regIn = in
	return f.regRes
}

func (f *fakeAuth) Logout(ctx context.Context) services.Result {
	f.call("logout")
	_ = f.store.ClearSession(ctx)
	return services.Result{Success: true, Message: services.MsgLoggedOut}
}

func (f *fakeAuth) ResendVerificationEmail(_ context.Context, email string) services.Result {
	f.call("resend")
	f.resendEmail = email
	return f.resendRes
}

func (f *fakeAuth) VerifyEmail(_ context.Context, token string) services.VerifyEmailResult {
	f.call("verify-email")
	f.verifyToken = token
	return f.verifyRes
}

func (f *fakeAuth) RequestPasswordResetCode(_ context.Context, id string) services.Result {
	f.call("reset-request")
	f.resetID = id
	return f.requestRes
}

func (f *fakeAuth) VerifyResetCode(_ context.Context, id, code string) services.VerifyCodeResult {
	f.call("reset-verify")
	f.resetID, f.resetCode = id, code
	return f.verifyCodeRes
}

func (f *fakeAuth) ResetPasswordWithCode(_ context.Context, id, code, pw, confirm string) services.Result {
	f.call("reset-code")
	f.resetID, f.resetCode, f.resetPw, f.resetConfirm = id, code, pw, confirm
	return f.resetCodeRes
}

func (f *fakeAuth) ValidateResetToken(_ context.Context, token string) services.Result {
	f.call("validate-token")
	f.verifyToken = token
	return f.validateRes
}

func (f *fakeAuth) ResetPasswordWithToken(_ context.Context, token, pw, confirm string) services.Result {
	f.call("reset-token")
	f.verifyToken, f.resetPw, f.resetConfirm = token, pw, confirm
	return f.resetTokenRes
}

func (f *fakeAuth) UpdateProfile(_ context.Context, in services.ProfileInput) services.ProfileResult {
	f.call("profile-edit")
	f.profileIn = in
	return f.profileRes
}

func (f *fakeAuth) FetchCurrentUser(context.Context, string) services.CurrentUserResult {
	f.call("current-user")
	return services.CurrentUserResult{}
}

func (f *fakeAuth) FetchPublicProfile(_ context.Context, id string) services.PublicProfileResult {
	f.call("profile")
	f.publicID = id
	return f.publicRes
}

func (f *fakeAuth) PictureURL(u *models.User) string {
	return services.ProfilePictureURL("https://hub.test", u.ProfilePictureURL)
}

func ptr[T any](v T) *T { return &v }

func payload(verified bool) *models.UserPayload {
	return &models.UserPayload{
		ID:         7,
		Name:       ptr("Ada Lovelace"),
		Email:      "ada@example.com",
		Username:   ptr("ada"),
		IsVerified: models.Truthy(verified),
		Group:      ptr("Support"),
	}
}

// newTestApp builds an App over an in-memory session database. input feeds
// every prompt, passwords included.
func newTestApp(t *testing.T, input string) (*App, *fakeAuth, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	db, err := persistence.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := session.NewStore(persistence.NewAdapter(db, logging.Nop()))
	store.FinishBoot()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	fa := &fakeAuth{store: store}
	out := &bytes.Buffer{}
	a := &App{
		config:   cfg,
		auth:     fa,
		store:    store,
		cooldown: gating.NewCooldown(gating.DefaultResendCooldown, nil),
		log:      logging.Nop(),
		reader:   rdr(input),
		out:      out,
	}
	return a, fa, out
}

func logIn(t *testing.T, a *App, p *models.UserPayload) {
	t.Helper()
	token := "token"
	require.NoError(t, a.store.SetSession(context.Background(), p, &token))
}
