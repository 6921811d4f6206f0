package services

import (
	"context"
	"sync"

	"github.com/cpphub/hubclient/internal/client/persistence"
	"github.com/cpphub/hubclient/internal/client/session"
	"github.com/cpphub/hubclient/internal/logging"
)

// BootState is a state of the session bootstrap machine:
//
//	NoSavedSession
//	SavedSessionFound -> Revalidating -> Confirmed | Invalidated
//
// Superseded and Cancelled are the outcomes of a revalidation whose result
// was dropped, because the session changed meanwhile or the context ended.
type BootState int

const (
	BootPending BootState = iota
	NoSavedSession
	SavedSessionFound
	Revalidating
	Confirmed
	Invalidated
	Superseded
	Cancelled
)

func (s BootState) String() string {
	switch s {
	case NoSavedSession:
		return "no_saved_session"
	case SavedSessionFound:
		return "saved_session_found"
	case Revalidating:
		return "revalidating"
	case Confirmed:
		return "confirmed"
	case Invalidated:
		return "invalidated"
	case Superseded:
		return "superseded"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Terminal reports whether no further transition follows s.
func (s BootState) Terminal() bool {
	return s != BootPending && s != SavedSessionFound && s != Revalidating
}

// Loader reads the saved session, returning nil when there is none.
type Loader interface {
	Load(ctx context.Context) (*persistence.Record, error)
}

// Bootstrapper restores the saved session at process start and confirms it
// with the backend in the background.
type Bootstrapper struct {
	loader Loader
	auth   AuthService
	store  *session.Store
	log    logging.Logger

	once  sync.Once
	done  chan struct{}
	mu    sync.Mutex
	state BootState
}

func NewBootstrapper(loader Loader, auth AuthService, store *session.Store, log logging.Logger) *Bootstrapper {
	if log == nil {
		log = logging.Nop()
	}
	return &Bootstrapper{
		loader: loader,
		auth:   auth,
		store:  store,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start runs the bootstrap once. A saved session is installed into the store
// before Start returns; its revalidation runs on a goroutine bound to ctx.
// Later calls return the current state without doing anything.
func (b *Bootstrapper) Start(ctx context.Context) BootState {
	b.once.Do(func() { b.start(ctx) })
	return b.State()
}

func (b *Bootstrapper) start(ctx context.Context) {
	rec, err := b.loader.Load(ctx)
	if err != nil {
		b.log.Error(ctx, "saved session not readable, starting logged out", "error", err)
	}
	if rec == nil {
		b.finish(ctx, NoSavedSession)
		return
	}

	b.setState(SavedSessionFound)
	gen := b.store.Restore(rec.User, rec.Token)
	b.log.Debug(ctx, "saved session restored", "user_id", rec.User.ID, "generation", gen)

	b.setState(Revalidating)
	go b.revalidate(ctx, gen, rec.Token)
}

// maxRevalidations bounds how often a check superseded by an edit of the
// same session is repeated.
const maxRevalidations = 3

func (b *Bootstrapper) revalidate(ctx context.Context, gen uint64, token string) {
	for attempt := 1; ; attempt++ {
		state := b.check(ctx, gen, token)
		if state != Superseded || attempt == maxRevalidations {
			b.finish(ctx, state)
			return
		}
		// An edit made while /me was in flight (a profile update, say) keeps
		// the token. The server record is still authoritative, so ask again.
		snap := b.store.Snapshot()
		if !snap.LoggedIn() || snap.Token != token {
			b.finish(ctx, Superseded)
			return
		}
		b.log.Debug(ctx, "session edited during revalidation, checking again", "generation", snap.Generation)
		gen = snap.Generation
	}
}

// check runs one /me round and applies its outcome if the store is still at gen.
func (b *Bootstrapper) check(ctx context.Context, gen uint64, token string) BootState {
	res := b.auth.FetchCurrentUser(ctx, token)

	if ctx.Err() != nil {
		return Cancelled
	}

	if res.Success {
		tok := token
		applied, err := b.store.SetSessionIfGeneration(ctx, gen, res.User, &tok)
		switch {
		case err != nil:
			b.log.Error(ctx, "confirmed session not stored", "error", err)
			return Confirmed
		case !applied:
			b.log.Info(ctx, "stale session confirmation dropped", "generation", gen)
			return Superseded
		default:
			b.log.Info(ctx, "saved session confirmed", "user_id", res.User.ID)
			return Confirmed
		}
	}

	applied, err := b.store.ClearIfGeneration(ctx, gen)
	if err != nil {
		b.log.Error(ctx, "invalidated session not removed from storage", "error", err)
	}
	if !applied {
		b.log.Info(ctx, "stale session invalidation dropped", "generation", gen)
		return Superseded
	}
	b.log.Info(ctx, "saved session invalidated", "rejected", res.Rejected, "reason", res.Message)
	return Invalidated
}

func (b *Bootstrapper) setState(s BootState) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *Bootstrapper) finish(ctx context.Context, s BootState) {
	b.setState(s)
	b.store.FinishBoot()
	b.log.Debug(ctx, "bootstrap finished", "state", s.String())
	close(b.done)
}

func (b *Bootstrapper) State() BootState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Done is closed once the bootstrap reached a terminal state.
func (b *Bootstrapper) Done() <-chan struct{} { return b.done }

// Wait blocks until the bootstrap finished or ctx ends.
func (b *Bootstrapper) Wait(ctx context.Context) (BootState, error) {
	select {
	case <-b.done:
		return b.State(), nil
	case <-ctx.Done():
		return b.State(), ctx.Err()
	}
}
