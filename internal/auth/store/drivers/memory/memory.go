// Package memory provides the volatile in-process store driver. It is the
// default: every artifact lives in process memory and is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
)

// Store is an in-memory implementation of store.Store. A single RWMutex
// guards all maps; contention is negligible at the scale this server runs at,
// and one lock makes every read-then-delete trivially atomic.
type Store struct {
	mu sync.RWMutex

	clients  map[string]domain.Client
	states   map[string]domain.AuthorizationState
	consents map[string]domain.PendingConsent
	codes    map[string]domain.AuthorizationCode
	tokens   map[string]domain.AccessToken
	users    map[string]domain.UserRecord
}

var _ store.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		clients:  make(map[string]domain.Client),
		states:   make(map[string]domain.AuthorizationState),
		consents: make(map[string]domain.PendingConsent),
		codes:    make(map[string]domain.AuthorizationCode),
		tokens:   make(map[string]domain.AccessToken),
		users:    make(map[string]domain.UserRecord),
	}
}

func (s *Store) Clients() store.Clients                         { return (*clientsRepo)(s) }
func (s *Store) AuthorizationStates() store.AuthorizationStates { return (*statesRepo)(s) }
func (s *Store) PendingConsents() store.PendingConsents         { return (*consentsRepo)(s) }
func (s *Store) AuthorizationCodes() store.AuthorizationCodes   { return (*codesRepo)(s) }
func (s *Store) AccessTokens() store.AccessTokens               { return (*tokensRepo)(s) }
func (s *Store) Users() store.Users                             { return (*usersRepo)(s) }

func (s *Store) Close() error                 { return nil }
func (s *Store) Ping(_ context.Context) error { return nil }

type clientsRepo Store

func (r *clientsRepo) PutClient(_ context.Context, c domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
	return nil
}

func (r *clientsRepo) GetClient(_ context.Context, clientID string) (domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	if !ok {
		return domain.Client{}, store.ErrNotFound
	}
	return c, nil
}

type statesRepo Store

func (r *statesRepo) PutAuthorizationState(_ context.Context, s domain.AuthorizationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[s.State] = s
	return nil
}

func (r *statesRepo) GetAuthorizationState(_ context.Context, state string) (domain.AuthorizationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[state]
	if !ok {
		return domain.AuthorizationState{}, store.ErrNotFound
	}
	return s, nil
}

func (r *statesRepo) TakeAuthorizationState(_ context.Context, state string) (domain.AuthorizationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[state]
	if !ok {
		return domain.AuthorizationState{}, store.ErrNotFound
	}
	delete(r.states, state)
	return s, nil
}

type consentsRepo Store

func (r *consentsRepo) PutPendingConsent(_ context.Context, c domain.PendingConsent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consents[c.Token] = c
	return nil
}

func (r *consentsRepo) GetPendingConsent(_ context.Context, token string) (domain.PendingConsent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.consents[token]
	if !ok {
		return domain.PendingConsent{}, store.ErrNotFound
	}
	return c, nil
}

func (r *consentsRepo) TakePendingConsent(_ context.Context, token string) (domain.PendingConsent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consents[token]
	if !ok {
		return domain.PendingConsent{}, store.ErrNotFound
	}
	delete(r.consents, token)
	return c, nil
}

type codesRepo Store

func (r *codesRepo) PutAuthorizationCode(_ context.Context, c domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[c.Code] = c
	return nil
}

func (r *codesRepo) GetAuthorizationCode(_ context.Context, code string) (domain.AuthorizationCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codes[code]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	return c, nil
}

func (r *codesRepo) TakeAuthorizationCode(_ context.Context, code string) (domain.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[code]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	delete(r.codes, code)
	return c, nil
}

type tokensRepo Store

func (r *tokensRepo) PutAccessToken(_ context.Context, t domain.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = t
	return nil
}

func (r *tokensRepo) GetValidAccessToken(_ context.Context, token string, now time.Time) (domain.AccessToken, error) {
	// Write lock up front: an expired hit mutates the map, and the check and
	// delete must not interleave with another reader's check.
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return domain.AccessToken{}, store.ErrNotFound
	}
	if t.Expired(now) {
		delete(r.tokens, token)
		return domain.AccessToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *tokensRepo) DeleteAccessToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

type usersRepo Store

func (r *usersRepo) PutUserRecord(_ context.Context, u domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Key] = u
	return nil
}

func (r *usersRepo) GetUserRecord(_ context.Context, key string) (domain.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[key]
	if !ok {
		return domain.UserRecord{}, store.ErrNotFound
	}
	return u, nil
}
