package repository

import (
	"context"
	"fmt"

	"github.com/setgame/set-server-go/internal/user"
)

// UserRepository persists user records in the users table, one row per
// token. Implements user.Repository.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a Postgres-backed user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// LoadAll reads every persisted user record.
func (r *UserRepository) LoadAll(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT token, nickname, password_hash, created_at, modified_at, saved_at FROM users`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	var records []*user.User
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.Token, &u.Nickname, &u.PasswordHash,
			&u.CreatedAt, &u.ModifiedAt, &u.SavedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		records = append(records, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return records, nil
}

// Save upserts a single record keyed by token.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	_, err := r.db.pool.Exec(ctx,
		`INSERT INTO users (token, nickname, password_hash, created_at, modified_at, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (token) DO UPDATE SET
			nickname      = EXCLUDED.nickname,
			password_hash = EXCLUDED.password_hash,
			modified_at   = EXCLUDED.modified_at,
			saved_at      = EXCLUDED.saved_at`,
		u.Token, u.Nickname, u.PasswordHash, u.CreatedAt, u.ModifiedAt, u.SavedAt)
	if err != nil {
		return fmt.Errorf("save user %s: %w", u.Nickname, err)
	}
	return nil
}
