package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/domain"
)

type clientsRepo struct {
	db *sql.DB
}

func (r *clientsRepo) PutClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, redirect_uris, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			redirect_uris = excluded.redirect_uris`,
		c.ID, c.Name, strings.Join(c.RedirectURIs, " "), c.CreatedAt,
	)
	return err
}

func (r *clientsRepo) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, redirect_uris, created_at
		FROM clients WHERE id = ?`, clientID)

	var c domain.Client
	var uris string
	if err := row.Scan(&c.ID, &c.Name, &uris, &c.CreatedAt); err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.RedirectURIs = splitScopes(uris)
	return c, nil
}
