// Package sqlite provides the optional persistent store driver, for
// deployments that want grant state to survive a restart. The memory driver
// remains the default.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// NewStore opens (or creates) the sqlite database at dsn. Use ":memory:" in
// tests for a throwaway database.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection sidesteps SQLITE_BUSY under concurrent writers and
	// keeps ":memory:" databases from silently splitting per connection.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Clients() store.Clients                         { return &clientsRepo{db: s.db} }
func (s *Store) AuthorizationStates() store.AuthorizationStates { return &statesRepo{db: s.db} }
func (s *Store) PendingConsents() store.PendingConsents         { return &consentsRepo{db: s.db} }
func (s *Store) AuthorizationCodes() store.AuthorizationCodes   { return &codesRepo{db: s.db} }
func (s *Store) AccessTokens() store.AccessTokens               { return &tokensRepo{db: s.db} }
func (s *Store) Users() store.Users                             { return &usersRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

func splitScopes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
