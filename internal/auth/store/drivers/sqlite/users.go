package sqlite

import (
	"context"
	"database/sql"

	"github.com/fpsgroup/authentic/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) PutUserRecord(ctx context.Context, u domain.UserRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_records (key, username, user_id, authenticated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			username = excluded.username,
			user_id = excluded.user_id,
			authenticated_at = excluded.authenticated_at`,
		u.Key, u.Username, u.UserID, u.AuthenticatedAt,
	)
	return err
}

func (r *usersRepo) GetUserRecord(ctx context.Context, key string) (domain.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, username, user_id, authenticated_at
		FROM user_records WHERE key = ?`, key)

	var u domain.UserRecord
	if err := row.Scan(&u.Key, &u.Username, &u.UserID, &u.AuthenticatedAt); err != nil {
		return domain.UserRecord{}, mapNotFound(err)
	}
	return u, nil
}
