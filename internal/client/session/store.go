package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/privilege"
	"github.com/cpphub/hubclient/internal/logging"
)

// Persister is the durable mirror of the session.
type Persister interface {
	Save(ctx context.Context, user models.User, token *string) error
	Clear(ctx context.Context) error
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	User       *models.User
	Token      string
	Loading    bool
	Flags      Flags
	Generation uint64
}

// LoggedIn reports whether a user is active.
func (s Snapshot) LoggedIn() bool { return s.User != nil }

type Store struct {
	// writeMu serialises mutations across the persistence call so storage
	// and memory move together.
	writeMu sync.Mutex

	mu         sync.RWMutex
	user       *models.User
	token      string
	flags      Flags
	generation uint64
	booting    bool
	inflight   int
	listeners  map[int]func(Snapshot)
	nextID     int

	persister Persister
	log       logging.Logger
	now       func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now, used for ban evaluation and verification stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store. It reports Loading until FinishBoot is
// called by the bootstrapper.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		log:       logging.Nop(),
		now:       time.Now,
		booting:   true,
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSession replaces the active user with the mapped payload. A nil
// payload logs out. A non-nil token overwrites the stored token; nil keeps
// the current one.
func (s *Store) SetSession(ctx context.Context, payload *models.UserPayload, token *string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.setLocked(ctx, payload, token)
}

// SetSessionIfGeneration is SetSession guarded by the generation observed
// by the caller. It reports false, without touching anything, when the
// store has changed since.
func (s *Store) SetSessionIfGeneration(ctx context.Context, gen uint64, payload *models.UserPayload, token *string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Generation() != gen {
		return false, nil
	}
	return true, s.setLocked(ctx, payload, token)
}

// ClearSession logs out: the user, token and flags are dropped and both
// storage slots removed.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.SetSession(ctx, nil, nil)
}

// ClearIfGeneration is ClearSession guarded by gen.
func (s *Store) ClearIfGeneration(ctx context.Context, gen uint64) (bool, error) {
	return s.SetSessionIfGeneration(ctx, gen, nil, nil)
}

// UpdateSession merges patch onto the active user and persists the result.
// Without an active user it is a no-op. The token is left untouched.
func (s *Store) UpdateSession(ctx context.Context, patch models.UserPatch) (Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	current := s.user.Clone()
	s.mu.RUnlock()

	if current == nil {
		return s.Snapshot(), nil
	}

	merged := patch.Apply(*current, s.now())
	if err := s.saveLocked(ctx, merged, nil); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Restore installs a previously persisted record without re-mapping or
// re-writing it, and returns the resulting generation.
func (s *Store) Restore(user models.User, token string) uint64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.user = user.Clone()
	s.token = token
	s.flags = DeriveFlags(s.user, s.now())
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.notify()
	return gen
}

func (s *Store) setLocked(ctx context.Context, payload *models.UserPayload, token *string) error {
	if payload == nil {
		return s.clearLocked(ctx)
	}
	return s.saveLocked(ctx, payload.ToUser(s.now()), token)
}

func (s *Store) saveLocked(ctx context.Context, user models.User, token *string) error {
	if err := s.persister.Save(ctx, user, token); err != nil {
		s.log.Error(ctx, "session not persisted, keeping previous state", "error", err)
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	if token != nil {
		s.token = *token
	}
	s.flags = DeriveFlags(s.user, s.now())
	s.generation++
	s.mu.Unlock()

	s.notify()
	return nil
}

// clearLocked always drops the in-memory session, even when storage fails:
// a logout must take effect locally.
func (s *Store) clearLocked(ctx context.Context) error {
	err := s.persister.Clear(ctx)
	if err != nil {
		s.log.Error(ctx, "persisted session not cleared", "error", err)
		err = fmt.Errorf("clear persisted session: %w", err)
	}

	s.mu.Lock()
	changed := s.user != nil || s.token != ""
	s.user = nil
	s.token = ""
	s.flags = Flags{}
	if changed {
		s.generation++
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return err
}

// User returns a copy of the active user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// Token returns the bearer token of the active session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Flags() Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// IsBanned evaluates the ban of the active user against the current time.
func (s *Store) IsBanned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsBannedAt(s.now())
}

// HasPrivilege reports whether the active user's group ranks at or above
// at least one of required. No user means no privilege.
func (s *Store) HasPrivilege(required ...privilege.Group) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return privilege.Satisfies(s.user.Group, required...)
}

// IsLoading is true while the store is booting or any remote mutation is
// in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booting || s.inflight > 0
}

// BeginLoading marks a remote mutation as in flight. The returned function
// ends it; calling it more than once has no further effect.
func (s *Store) BeginLoading() func() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	s.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
			s.notify()
		})
	}
}

// FinishBoot clears the initial loading state.
func (s *Store) FinishBoot() {
	s.mu.Lock()
	was := s.booting
	s.booting = false
	s.mu.Unlock()
	if was {
		s.notify()
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:       s.user.Clone(),
		Token:      s.token,
		Loading:    s.booting || s.inflight > 0,
		Flags:      s.flags,
		Generation: s.generation,
	}
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it. fn runs on the mutating goroutine and
// must not call back into mutating methods.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
