// Package session owns the process-wide login state. The persisted storage is
// the only source of truth for identity and role: the store hydrates from it
// once at start, writes through it on login and logout, and notifies
// subscribers of every transition.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NicolasHaas/fitcoach/pkg/crypto"
	"github.com/NicolasHaas/fitcoach/pkg/kv"
	"github.com/NicolasHaas/fitcoach/pkg/model"
	"github.com/NicolasHaas/fitcoach/pkg/rbac"
)

// State is the lifecycle of the session.
type State int

const (
	StateUnknown State = iota
	StateHydrating
	StateLoggedOut
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateLoggedOut:
		return "logged-out"
	case StateLoggedIn:
		return "logged-in"
	default:
		return "unknown"
	}
}

var (
	ErrNotLoggedIn = errors.New("session: not logged in")
	ErrInvalidAuth = errors.New("session: auth response is incomplete")
)

const flagTrue = "true"

// Authenticator is the part of the API client the session needs.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error)
	GetProfile(ctx context.Context) (*model.User, error)
}

// Listener receives every state transition with the session as of that transition.
type Listener func(State, model.Session)

// Store is safe for concurrent use. Listeners run outside the state lock but
// are serialized, so they observe transitions in order. A listener must not
// call Hydrate, Login, Signup or Logout.
type Store struct {
	storage kv.Storage
	auth    Authenticator
	logger  *slog.Logger

	notifyMu sync.Mutex

	mu        sync.RWMutex
	state     State
	session   model.Session
	listeners map[int]Listener
	nextID    int
}

// New creates a store in StateUnknown. Call Hydrate before reading the session.
func New(storage kv.Storage, auth Authenticator) *Store {
	return &Store{
		storage:   storage,
		auth:      auth,
		logger:    slog.Default().With("component", "session"),
		listeners: make(map[int]Listener),
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns a copy of the current session. It is the zero Session
// unless the state is StateLoggedIn.
func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn for future transitions and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Can reports whether the logged-in user's role grants perm.
func (s *Store) Can(perm model.Permission) bool {
	sess := s.Session()
	return sess.IsLoggedIn && rbac.HasPermission(sess.Role, perm)
}

// Require is Can returning an error for the caller to surface.
func (s *Store) Require(perm model.Permission) error {
	sess := s.Session()
	if !sess.IsLoggedIn {
		return ErrNotLoggedIn
	}
	return rbac.Require(sess.Role, perm)
}

// Hydrate restores the session from storage. Only the first call does any
// work; later calls return the current state. Read failures and incomplete
// records are treated as logged out, and a login that cannot be decrypted is
// removed. If Login, Signup or Logout completes while Hydrate is reading,
// their result wins.
func (s *Store) Hydrate(ctx context.Context) State {
	s.mu.Lock()
	if s.state != StateUnknown {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.state = StateHydrating
	s.mu.Unlock()

	s.settleHydrate(StateHydrating, model.Session{})

	values, err := s.storage.MultiGet(ctx, kv.AuthKeys...)
	if err != nil {
		s.logger.Warn("hydrate failed, continuing logged out", "err", err)
		if unreadable(err) && s.State() == StateHydrating {
			if err := s.storage.MultiRemove(ctx, loginKeys()...); err != nil {
				s.logger.Error("clear unreadable login", "err", err)
			}
		}
		return s.settleHydrate(StateLoggedOut, model.Session{})
	}

	sess, ok := sessionFromValues(values)
	if !ok {
		s.logger.Debug("no stored login")
		return s.settleHydrate(StateLoggedOut, model.Session{})
	}

	st := s.settleHydrate(StateLoggedIn, sess)
	if st == StateLoggedIn {
		s.logger.Info("session restored", "user_id", sess.UserID, "role", sess.Role)
	}
	return st
}

// settleHydrate moves out of StateHydrating unless another operation already did.
func (s *Store) settleHydrate(state State, sess model.Session) State {
	return s.transitionWhen(func(cur State) bool { return cur == StateHydrating }, state, sess)
}

// unreadable reports a stored value that exists but cannot be decrypted.
func unreadable(err error) bool {
	return errors.Is(err, crypto.ErrDecryptionFailed) || errors.Is(err, crypto.ErrInvalidCiphertext)
}

// loginKeys are removed on logout: the auth keys, the login flag and the profile cache.
func loginKeys() []string {
	return append(append([]string{}, kv.AuthKeys...), kv.KeyIsLoggedIn, kv.KeyProfile)
}

// sessionFromValues requires the token and every identity key.
func sessionFromValues(values map[string]string) (model.Session, bool) {
	token := values[kv.KeyToken]
	if token == "" {
		return model.Session{}, false
	}
	userID, email := values[kv.KeyUserID], values[kv.KeyEmail]
	if userID == "" || email == "" {
		return model.Session{}, false
	}
	role, err := model.ParseRole(values[kv.KeyRole])
	if err != nil {
		return model.Session{}, false
	}
	return model.Session{
		UserID:     userID,
		Email:      email,
		Role:       role,
		Token:      token,
		IsLoggedIn: true,
	}, true
}

// Login authenticates and persists the result. On any error nothing is
// written and the state is unchanged.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	if err := creds.Validate(); err != nil {
		return model.Session{}, err
	}
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return model.Session{}, fmt.Errorf("session: login: %w", err)
	}
	sess, err := sessionFromAuth(resp, creds.Email, model.RoleUnknown)
	if err != nil {
		return model.Session{}, fmt.Errorf("session: login: %w", err)
	}
	if err := s.persist(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("session: login: %w", err)
	}
	s.logger.Info("logged in", "user_id", sess.UserID, "role", sess.Role)
	s.transition(StateLoggedIn, sess)
	return sess, nil
}

// Signup registers an account and logs it in, with the same guarantees as Login.
func (s *Store) Signup(ctx context.Context, req model.SignupRequest) (model.Session, error) {
	if err := req.Validate(); err != nil {
		return model.Session{}, err
	}
	resp, err := s.auth.Signup(ctx, req)
	if err != nil {
		return model.Session{}, fmt.Errorf("session: signup: %w", err)
	}
	sess, err := sessionFromAuth(resp, req.Email, req.Role)
	if err != nil {
		return model.Session{}, fmt.Errorf("session: signup: %w", err)
	}
	if err := s.persist(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("session: signup: %w", err)
	}
	s.logger.Info("signed up", "user_id", sess.UserID, "role", sess.Role)
	s.transition(StateLoggedIn, sess)
	return sess, nil
}

// sessionFromAuth builds the session from a backend reply. The requested
// email and role fill in when the reply omits them.
func sessionFromAuth(resp *model.AuthResponse, email string, role model.Role) (model.Session, error) {
	if resp == nil || resp.Token == "" || resp.User.ID == "" {
		return model.Session{}, ErrInvalidAuth
	}
	if resp.User.Email != "" {
		email = resp.User.Email
	}
	if resp.User.Role.Valid() {
		role = resp.User.Role
	}
	if !role.Valid() {
		return model.Session{}, fmt.Errorf("%w: %w", ErrInvalidAuth, model.ErrInvalidRole)
	}
	return model.Session{
		UserID:     resp.User.ID,
		Email:      email,
		Role:       role,
		Token:      resp.Token,
		IsLoggedIn: true,
	}, nil
}

func (s *Store) persist(ctx context.Context, sess model.Session) error {
	return s.storage.MultiSet(ctx, map[string]string{
		kv.KeyToken:      sess.Token,
		kv.KeyUserID:     sess.UserID,
		kv.KeyEmail:      sess.Email,
		kv.KeyRole:       sess.Role.String(),
		kv.KeyIsLoggedIn: flagTrue,
	})
}

// Logout clears the persisted login and the cached profile. The store is
// logged out afterwards even if storage returns an error.
func (s *Store) Logout(ctx context.Context) error {
	err := s.storage.MultiRemove(ctx, loginKeys()...)
	if err != nil {
		s.logger.Error("clear stored login", "err", err)
		err = fmt.Errorf("session: logout: %w", err)
	}
	s.logger.Info("logged out")
	s.transition(StateLoggedOut, model.Session{})
	return err
}

// ExpiresAt decodes the token's exp claim without verifying the signature.
// It is informational only; the backend decides validity. ok is false for
// opaque tokens or tokens without an expiry.
func (s *Store) ExpiresAt() (t time.Time, ok bool) {
	token := s.Session().Token
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// HasOnboarded reports whether the onboarding screens were completed on this
// device. The flag survives logout.
func (s *Store) HasOnboarded(ctx context.Context) (bool, error) {
	v, err := s.storage.Get(ctx, kv.KeyHasOnboarded)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: onboarding flag: %w", err)
	}
	return v == flagTrue, nil
}

// CompleteOnboarding sets the onboarding flag.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	if err := s.storage.Set(ctx, kv.KeyHasOnboarded, flagTrue); err != nil {
		return fmt.Errorf("session: onboarding flag: %w", err)
	}
	return nil
}

// CachedProfile returns the profile saved by the last RefreshProfile.
// It returns kv.ErrNotFound (wrapped) when nothing is cached.
func (s *Store) CachedProfile(ctx context.Context) (*model.User, error) {
	raw, err := s.storage.Get(ctx, kv.KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("session: cached profile: %w", err)
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("session: cached profile: %w", err)
	}
	return &u, nil
}

// RefreshProfile fetches the profile and caches it. A fetch error leaves the
// previous cache in place.
func (s *Store) RefreshProfile(ctx context.Context) (*model.User, error) {
	if !s.Session().IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	u, err := s.auth.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: refresh profile: %w", err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("session: refresh profile: %w", err)
	}
	if err := s.storage.Set(ctx, kv.KeyProfile, string(data)); err != nil {
		return nil, fmt.Errorf("session: refresh profile: %w", err)
	}
	return u, nil
}

// transition updates the state and calls listeners in registration order.
func (s *Store) transition(state State, sess model.Session) {
	s.transitionWhen(func(State) bool { return true }, state, sess)
}

// transitionWhen applies the change only if ok accepts the current state and
// returns the state in effect afterwards.
func (s *Store) transitionWhen(ok func(State) bool, state State, sess model.Session) State {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if !ok(s.state) {
		cur := s.state
		s.mu.Unlock()
		return cur
	}
	s.state = state
	s.session = sess
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state, sess)
	}
	return state
}
