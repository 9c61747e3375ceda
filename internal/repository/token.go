package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(token *model.Token) error
	ConsumeToken(token string) (*model.Token, error)
	DeleteByUserAndType(userID, tokenType string) error
	CleanupExpired(olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := r.db.Rebind(`
		INSERT INTO tokens (id, user_id, type, token, expires_at, used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Type,
		token.Token,
		token.ExpiresAt,
		token.UsedAt,
		token.CreatedAt,
	)
	return err
}

// ConsumeToken marks an unused, unexpired token as used and returns it.
// The guarded UPDATE lets exactly one of two concurrent callers win; the
// loser gets ErrTokenNotFound.
func (r *tokenRepository) ConsumeToken(token string) (*model.Token, error) {
	now := time.Now()

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(tx.Rebind(`
		UPDATE tokens
		SET used_at = ?
		WHERE token = ?
		AND used_at IS NULL
		AND expires_at > ?
	`), now, token, now)
	if err := checkAffected(result, err, ErrTokenNotFound); err != nil {
		return nil, err
	}

	var t model.Token
	err = tx.Get(&t, tx.Rebind(`SELECT * FROM tokens WHERE token = ?`), token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, tx.Commit()
}

func (r *tokenRepository) DeleteByUserAndType(userID, tokenType string) error {
	query := r.db.Rebind(`DELETE FROM tokens WHERE user_id = ? AND type = ? AND used_at IS NULL`)
	_, err := r.db.Exec(query, userID, tokenType)
	return err
}

// CleanupExpired removes used and expired tokens older than the given duration.
func (r *tokenRepository) CleanupExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := r.db.Rebind(`
		DELETE FROM tokens
		WHERE (used_at IS NOT NULL AND used_at < ?)
		   OR (expires_at < ?)
	`)
	result, err := r.db.Exec(query, cutoff, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
