package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SessionRepo persists sign-in sessions (single 'token_hash' column).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create stores the hash of a freshly issued access token.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash) VALUES (?,?)",
		userID, tokenHash)
	return err
}

// UserIDByTokenHash returns the owner of the session, or ErrSessionNotFound.
func (r *SessionRepo) UserIDByTokenHash(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM sessions WHERE token_hash=? LIMIT 1", tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return userID, nil
}

// DeleteByTokenHash ends a single session.
func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash=?", tokenHash)
	return err
}
