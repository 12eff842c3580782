package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
)

type tokensRepo struct {
	db *sql.DB
}

func (r *tokensRepo) PutAccessToken(ctx context.Context, t domain.AccessToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_tokens (token, client_id, scopes, resource, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Token, t.ClientID, joinScopes(t.Scopes), t.Resource, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

func (r *tokensRepo) GetValidAccessToken(ctx context.Context, token string, now time.Time) (domain.AccessToken, error) {
	// Drop the row first if it has expired, then read. The pool is capped at
	// one connection so the two statements cannot interleave with a writer.
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM access_tokens WHERE token = ? AND expires_at <= ?`, token, now); err != nil {
		return domain.AccessToken{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT token, client_id, scopes, resource, expires_at, created_at
		FROM access_tokens WHERE token = ?`, token)

	var t domain.AccessToken
	var scopes string
	err := row.Scan(&t.Token, &t.ClientID, &scopes, &t.Resource, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}
	t.Scopes = splitScopes(scopes)
	return t, nil
}

func (r *tokensRepo) DeleteAccessToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE token = ?`, token)
	return err
}
