package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/pkg/client"
)

// Option configures a Store.
type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store is the single in-memory authority for the session. Every dispatch
// runs Reduce and persists the snapshot before subscribers observe it.
type Store struct {
	api     *client.Client
	storage Storage
	log     zerolog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func NewStore(api *client.Client, storage Storage, opts ...Option) *Store {
	s := &Store{
		api:     api,
		storage: storage,
		log:     zerolog.Nop(),
		state:   Initial(),
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	api.OnSessionChange(s.refreshed, s.expired)
	return s
}

// Init restores the persisted snapshot. Unreadable or partial snapshots are
// discarded and the session starts anonymous.
func (s *Store) Init() State {
	token, user, ok := s.restore()
	if !ok {
		s.api.SetToken("")
		return s.dispatch(RestoreEmpty{})
	}
	s.api.SetToken(token)
	return s.dispatch(Restored{Token: token, User: user})
}

func (s *Store) restore() (string, *client.User, bool) {
	token, hasToken, err := s.storage.Get(TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session token unreadable, discarding")
		return "", nil, false
	}
	raw, hasUser, err := s.storage.Get(UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session user unreadable, discarding")
		return "", nil, false
	}
	if !hasToken || !hasUser || token == "" {
		return "", nil, false
	}
	var user client.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		s.log.Warn().Err(err).Msg("session user corrupt, discarding")
		return "", nil, false
	}
	return token, &user, true
}

// Close detaches the store from the API client and drops subscribers.
func (s *Store) Close() {
	s.api.OnSessionChange(nil, nil)
	s.mu.Lock()
	s.subs = make(map[int]func(State))
	s.mu.Unlock()
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	s.dispatch(LoginStarted{})
	res, err := s.api.Login(ctx, email, password)
	return s.finishLogin(res, err)
}

func (s *Store) Register(ctx context.Context, in client.RegisterRequest) error {
	s.dispatch(LoginStarted{})
	res, err := s.api.Register(ctx, in)
	return s.finishLogin(res, err)
}

func (s *Store) finishLogin(res *client.AuthResult, err error) error {
	if err != nil {
		s.dispatch(LoginFailed{Err: client.Message(err)})
		return err
	}
	s.dispatch(LoginSucceeded{Token: res.Token, User: res.User})
	return nil
}

func (s *Store) Logout() {
	s.api.SetToken("")
	s.dispatch(Logout{})
}

// Refresh exchanges the current token for a new one. Concurrent calls, and
// refreshes triggered by rejected requests, share one round trip.
func (s *Store) Refresh(ctx context.Context) error {
	s.dispatch(RefreshStarted{})
	res, err := s.api.RefreshSession(ctx)
	if err != nil {
		s.expired(err)
		return err
	}
	s.refreshed(res)
	return nil
}

// refreshed and expired apply a refresh outcome only while the API client
// still agrees with it, so a logout or login that raced the refresh stands.
func (s *Store) refreshed(res *client.AuthResult) {
	if s.api.Token() != res.Token {
		return
	}
	s.dispatch(RefreshSucceeded{Token: res.Token, User: res.User})
}

func (s *Store) expired(err error) {
	if s.api.Token() != "" {
		return
	}
	s.dispatch(RefreshFailed{Err: client.Message(err)})
}

// UpdateLocalProfile patches the cached identity without a round trip.
func (s *Store) UpdateLocalProfile(patch client.ProfileUpdate) State {
	s.mu.Lock()
	cur := s.state.User
	s.mu.Unlock()
	if cur == nil {
		return s.State()
	}
	next := *cur
	patch.Apply(&next)
	return s.dispatch(UserUpdated{User: &next})
}

func (s *Store) ClearError() State {
	return s.dispatch(ClearError{})
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	s.persist(prev, next)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if prev.Status != next.Status {
		s.log.Debug().Str("from", string(prev.Status)).Str("to", string(next.Status)).Msg("session transition")
	}
	for _, fn := range subs {
		fn(next)
	}
	return next
}

// persist mirrors the snapshot of next into storage. Called with mu held.
func (s *Store) persist(prev, next State) {
	switch {
	case next.Authenticated():
		if prev.Authenticated() && prev.Token == next.Token && prev.User == next.User {
			return
		}
		raw, err := json.Marshal(next.User)
		if err != nil {
			s.log.Error().Err(err).Msg("encode session user")
			return
		}
		if err := s.storage.Set(TokenKey, next.Token); err != nil {
			s.log.Error().Err(err).Msg("persist session token")
		}
		if err := s.storage.Set(UserKey, string(raw)); err != nil {
			s.log.Error().Err(err).Msg("persist session user")
		}
	case next.Status == StatusAnonymous:
		if err := s.storage.Delete(TokenKey); err != nil {
			s.log.Error().Err(err).Msg("clear session token")
		}
		if err := s.storage.Delete(UserKey); err != nil {
			s.log.Error().Err(err).Msg("clear session user")
		}
	}
}
