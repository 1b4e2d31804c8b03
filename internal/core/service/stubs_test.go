package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Identity repository
// ---------------------------------------------------------------------------

type stubIdentityRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.Conflict("email taken")
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubIdentityRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubIdentityRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory owned stores (mirror the owner filter of the Mongo stores)
// ---------------------------------------------------------------------------

type memStore[T domain.Owned] struct {
	mu    sync.Mutex
	items map[string]T
	clone func(T) T
}

func newMemStore[T domain.Owned](clone func(T) T) *memStore[T] {
	return &memStore[T]{items: make(map[string]T), clone: clone}
}

func (s *memStore[T]) ListByOwner(_ context.Context, ownerID string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, it := range s.items {
		if it.GetOwnerID() == ownerID {
			out = append(out, s.clone(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out, nil
}

func (s *memStore[T]) FindOwned(_ context.Context, id, ownerID string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	it, ok := s.items[id]
	if !ok || it.GetOwnerID() != ownerID {
		return zero, domain.ErrNotFound
	}
	return s.clone(it), nil
}

func (s *memStore[T]) Insert(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[entity.GetID()] = s.clone(entity)
	return nil
}

func (s *memStore[T]) Update(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[entity.GetID()]
	if !ok || it.GetOwnerID() != entity.GetOwnerID() {
		return domain.ErrNotFound
	}
	s.items[entity.GetID()] = s.clone(entity)
	return nil
}

func (s *memStore[T]) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.GetOwnerID() != ownerID {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memClientStore struct {
	*memStore[*domain.Client]
}

func newMemClientStore() *memClientStore {
	return &memClientStore{newMemStore(func(c *domain.Client) *domain.Client { clone := *c; return &clone })}
}

func (s *memClientStore) FindActiveByEmail(_ context.Context, ownerID, email string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.OwnerID == ownerID && c.Email == email && c.IsActive {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memProjectStore struct {
	*memStore[*domain.Project]
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{newMemStore(func(p *domain.Project) *domain.Project { clone := *p; return &clone })}
}

func (s *memProjectStore) CountActiveByClient(_ context.Context, ownerID, clientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.items {
		if p.OwnerID == ownerID && p.ClientID == clientID && p.Status != domain.ProjectArchived {
			n++
		}
	}
	return n, nil
}

func (s *memProjectStore) Search(ctx context.Context, ownerID, term string) ([]*domain.Project, error) {
	all, _ := s.ListByOwner(ctx, ownerID)
	term = strings.ToLower(term)
	var out []*domain.Project
	for _, p := range all {
		for _, f := range []string{p.Name, p.Description, p.ReferenceNumber, p.TrademarkName} {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

type memDocumentStore struct {
	*memStore[*domain.Document]
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{newMemStore(func(d *domain.Document) *domain.Document { clone := *d; return &clone })}
}

func (s *memDocumentStore) CountByProject(_ context.Context, ownerID, projectID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, d := range s.items {
		if d.OwnerID == ownerID && d.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (s *memDocumentStore) ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.Document, error) {
	all, _ := s.ListByOwner(ctx, ownerID)
	var out []*domain.Document
	for _, d := range all {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Idempotency and activity
// ---------------------------------------------------------------------------

// stubIdempotency mirrors the Redis store: SETNX reservation with a pending
// marker until the create completes.
type stubIdempotency struct {
	mu       sync.Mutex
	keys     map[string]string
	reserves int
	err      error
}

const stubPending = "pending"

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, ownerID, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	s.reserves++
	k := ownerID + "|" + scope + "|" + key
	id, ok := s.keys[k]
	if !ok {
		s.keys[k] = stubPending
		return "", true, nil
	}
	if id == stubPending {
		return "", false, nil
	}
	return id, false, nil
}

func (s *stubIdempotency) Complete(_ context.Context, ownerID, scope, key, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[ownerID+"|"+scope+"|"+key] = entityID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, ownerID, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, ownerID+"|"+scope+"|"+key)
	return nil
}

func (s *stubIdempotency) value(ownerID, scope, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.keys[ownerID+"|"+scope+"|"+key]
	return v, ok
}

type recordingRecorder struct {
	mu      sync.Mutex
	entries []domain.Activity
}

func (r *recordingRecorder) Record(a domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, a)
}

func (r *recordingRecorder) actions() []domain.ActivityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityAction, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}
