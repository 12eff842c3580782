package sqlite

import (
	"context"
	"database/sql"

	"github.com/fpsgroup/authentic/internal/auth/domain"
)

type statesRepo struct {
	db *sql.DB
}

func (r *statesRepo) PutAuthorizationState(ctx context.Context, s domain.AuthorizationState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_states
			(state, client_id, redirect_uri, code_challenge, redirect_explicit, resource, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (state) DO UPDATE SET
			client_id = excluded.client_id,
			redirect_uri = excluded.redirect_uri,
			code_challenge = excluded.code_challenge,
			redirect_explicit = excluded.redirect_explicit,
			resource = excluded.resource,
			created_at = excluded.created_at`,
		s.State, s.ClientID, s.RedirectURI, s.CodeChallenge,
		s.RedirectURIProvidedExplicitly, s.Resource, s.CreatedAt,
	)
	return err
}

func (r *statesRepo) GetAuthorizationState(ctx context.Context, state string) (domain.AuthorizationState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT state, client_id, redirect_uri, code_challenge, redirect_explicit, resource, created_at
		FROM authorization_states WHERE state = ?`, state)
	return scanState(row)
}

func (r *statesRepo) TakeAuthorizationState(ctx context.Context, state string) (domain.AuthorizationState, error) {
	// DELETE ... RETURNING makes consume-once atomic without a transaction.
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM authorization_states WHERE state = ?
		RETURNING state, client_id, redirect_uri, code_challenge, redirect_explicit, resource, created_at`,
		state)
	return scanState(row)
}

func scanState(row *sql.Row) (domain.AuthorizationState, error) {
	var s domain.AuthorizationState
	err := row.Scan(
		&s.State, &s.ClientID, &s.RedirectURI, &s.CodeChallenge,
		&s.RedirectURIProvidedExplicitly, &s.Resource, &s.CreatedAt,
	)
	if err != nil {
		return domain.AuthorizationState{}, mapNotFound(err)
	}
	return s, nil
}

type consentsRepo struct {
	db *sql.DB
}

func (r *consentsRepo) PutPendingConsent(ctx context.Context, c domain.PendingConsent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_consents (token, username, state, client_name, authenticated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Token, c.Username, c.State, c.ClientName, c.AuthenticatedAt,
	)
	return err
}

func (r *consentsRepo) GetPendingConsent(ctx context.Context, token string) (domain.PendingConsent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, username, state, client_name, authenticated_at
		FROM pending_consents WHERE token = ?`, token)
	return scanConsent(row)
}

func (r *consentsRepo) TakePendingConsent(ctx context.Context, token string) (domain.PendingConsent, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM pending_consents WHERE token = ?
		RETURNING token, username, state, client_name, authenticated_at`, token)
	return scanConsent(row)
}

func scanConsent(row *sql.Row) (domain.PendingConsent, error) {
	var c domain.PendingConsent
	if err := row.Scan(&c.Token, &c.Username, &c.State, &c.ClientName, &c.AuthenticatedAt); err != nil {
		return domain.PendingConsent{}, mapNotFound(err)
	}
	return c, nil
}

type codesRepo struct {
	db *sql.DB
}

func (r *codesRepo) PutAuthorizationCode(ctx context.Context, c domain.AuthorizationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_codes
			(code, client_id, redirect_uri, redirect_explicit, scopes, code_challenge, resource, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Code, c.ClientID, c.RedirectURI, c.RedirectURIProvidedExplicitly,
		joinScopes(c.Scopes), c.CodeChallenge, c.Resource, c.ExpiresAt, c.CreatedAt,
	)
	return err
}

func (r *codesRepo) GetAuthorizationCode(ctx context.Context, code string) (domain.AuthorizationCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT code, client_id, redirect_uri, redirect_explicit, scopes, code_challenge, resource, expires_at, created_at
		FROM authorization_codes WHERE code = ?`, code)
	return scanCode(row)
}

func (r *codesRepo) TakeAuthorizationCode(ctx context.Context, code string) (domain.AuthorizationCode, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM authorization_codes WHERE code = ?
		RETURNING code, client_id, redirect_uri, redirect_explicit, scopes, code_challenge, resource, expires_at, created_at`,
		code)
	return scanCode(row)
}

func scanCode(row *sql.Row) (domain.AuthorizationCode, error) {
	var c domain.AuthorizationCode
	var scopes string
	err := row.Scan(
		&c.Code, &c.ClientID, &c.RedirectURI, &c.RedirectURIProvidedExplicitly,
		&scopes, &c.CodeChallenge, &c.Resource, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		return domain.AuthorizationCode{}, mapNotFound(err)
	}
	c.Scopes = splitScopes(scopes)
	return c, nil
}
