package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cpphub/hubclient/internal/client/client"
	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/persistence"
	"github.com/cpphub/hubclient/internal/client/session"
	"github.com/cpphub/hubclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bootEnv is env with a store that has not finished booting.
func bootEnv(t *testing.T) *env {
	t.Helper()
	e := setup(t)
	e.store = session.NewStore(e.adapter, session.WithClock(clock))
	e.auth = NewAuthService(e.client, e.store, testBaseURL, WithAuthClock(clock))
	return e
}

func saveSession(t *testing.T, e *env, verified bool, token string) {
	t.Helper()
	u := userPayload(1, verified).ToUser(fixedNow)
	require.NoError(t, e.adapter.Save(context.Background(), u, &token))
}

func wait(t *testing.T, b *Bootstrapper) BootState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := b.Wait(ctx)
	require.NoError(t, err)
	return s
}

func TestBootstrap_NoSavedSession(t *testing.T) {
	e := bootEnv(t)
	require.True(t, e.store.IsLoading())

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	state := b.Start(context.Background())

	assert.Equal(t, NoSavedSession, state)
	assert.True(t, state.Terminal())
	assert.False(t, e.store.IsLoading())
	assert.Nil(t, e.store.User())
	assert.Zero(t, e.client.Calls)
	assert.Equal(t, NoSavedSession, wait(t, b))
}

func TestBootstrap_OptimisticThenConfirmed(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, false, "jwt")

	fresh := userPayload(1, true)
	fresh.BannedUntil = ptr(fixedNow.Add(time.Hour).Format(time.RFC3339))
	e.client.CurrentResp = fresh
	gate := make(chan struct{})
	e.client.CurrentGate = gate

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	state := b.Start(context.Background())

	assert.Equal(t, Revalidating, state)
	assert.False(t, state.Terminal())
	require.NotNil(t, e.store.User(), "saved user is installed before revalidation resolves")
	assert.True(t, e.store.Flags().ShowVerification)
	assert.True(t, e.store.IsLoading())

	close(gate)
	assert.Equal(t, Confirmed, wait(t, b))

	assert.Equal(t, "jwt", e.client.LastToken)
	assert.False(t, e.store.IsLoading())
	flags := e.store.Flags()
	assert.False(t, flags.ShowVerification)
	assert.True(t, flags.ShowBan, "server-side ban is picked up")
	assert.Equal(t, "jwt", e.store.Token())
}

func TestBootstrap_RejectedTokenLogsOut(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "stale")
	e.client.CurrentErr = &client.APIError{Status: http.StatusUnauthorized}

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())

	assert.Equal(t, Invalidated, wait(t, b))
	assert.Nil(t, e.store.User())
	assert.Empty(t, e.store.Token())
	assert.False(t, e.store.IsLoading())

	rec, err := e.adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec, "storage cleared")
}

func TestBootstrap_NetworkFailureLogsOut(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")
	e.client.CurrentErr = client.ErrUnavailable

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())

	assert.Equal(t, Invalidated, wait(t, b))
	assert.Nil(t, e.store.User())
}

func TestBootstrap_LateConfirmationAfterLogoutIsDropped(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")
	e.client.CurrentResp = userPayload(1, true)
	gate := make(chan struct{})
	e.client.CurrentGate = gate

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())
	require.NotNil(t, e.store.User())

	e.auth.Logout(context.Background())
	close(gate)

	assert.Equal(t, Superseded, wait(t, b))
	assert.Nil(t, e.store.User(), "logout is not undone")
	rec, err := e.adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestBootstrap_LateInvalidationAfterLoginIsDropped(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "old")
	e.client.CurrentErr = &client.APIError{Status: http.StatusUnauthorized}
	gate := make(chan struct{})
	e.client.CurrentGate = gate

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())

	require.NoError(t, e.store.SetSession(context.Background(), userPayload(3, true), ptr("new")))
	close(gate)

	assert.Equal(t, Superseded, wait(t, b))
	assert.Equal(t, "new", e.store.Token())
}

func TestBootstrap_EditDuringRevalidationChecksAgain(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")

	fresh := userPayload(1, true)
	fresh.BannedUntil = ptr(fixedNow.Add(time.Hour).Format(time.RFC3339))
	e.client.CurrentResp = fresh
	gate := make(chan struct{})
	e.client.CurrentGate = gate

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())

	_, err := e.store.UpdateSession(context.Background(), models.UserPatch{Bio: ptr("edited offline")})
	require.NoError(t, err)
	close(gate)

	assert.Equal(t, Confirmed, wait(t, b))
	assert.Equal(t, 2, e.client.Calls, "/me is asked again after the edit")
	assert.True(t, e.store.Flags().ShowBan, "server-side ban is not lost")
	assert.Equal(t, "jwt", e.store.Token())
}

func TestBootstrap_RepeatedEditsGiveUp(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")
	e.client.CurrentResp = userPayload(1, true)
	e.client.OnCall = func() {
		_, err := e.store.UpdateSession(context.Background(), models.UserPatch{Bio: ptr("again")})
		assert.NoError(t, err)
	}

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())

	assert.Equal(t, Superseded, wait(t, b))
	assert.Equal(t, maxRevalidations, e.client.Calls)
	u := e.store.User()
	require.NotNil(t, u)
	require.NotNil(t, u.Bio)
	assert.Equal(t, "again", *u.Bio, "the local edit is kept")
}

func TestBootstrap_CancelledKeepsSavedSession(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")
	e.client.CurrentErr = client.ErrUnavailable
	gate := make(chan struct{})
	e.client.CurrentGate = gate

	ctx, cancel := context.WithCancel(context.Background())
	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(ctx)
	cancel()
	close(gate)

	assert.Equal(t, Cancelled, wait(t, b))
	rec, err := e.adapter.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (*persistence.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestBootstrap_LoadErrorStartsLoggedOut(t *testing.T) {
	e := bootEnv(t)
	b := NewBootstrapper(failingLoader{}, e.auth, e.store, nil)

	assert.Equal(t, NoSavedSession, b.Start(context.Background()))
	assert.False(t, e.store.IsLoading())
}

func TestBootstrap_RunsOnce(t *testing.T) {
	e := bootEnv(t)
	saveSession(t, e, true, "jwt")
	e.client.CurrentResp = userPayload(1, true)

	b := NewBootstrapper(e.adapter, e.auth, e.store, logging.Nop())
	b.Start(context.Background())
	wait(t, b)
	b.Start(context.Background())

	assert.Equal(t, 1, e.client.Calls)
	assert.Equal(t, Confirmed, b.State())
}

func TestBootState_String(t *testing.T) {
	assert.Equal(t, "pending", BootPending.String())
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "superseded", Superseded.String())
}
