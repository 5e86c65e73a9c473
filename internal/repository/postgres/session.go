package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db Querier
}

func NewSessionRepository(db Querier) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session, limit int) error {
	const evict = `
        DELETE FROM refresh_sessions
        WHERE id IN (
            SELECT id FROM refresh_sessions
            WHERE account_id = $1 AND NOT revoked
            ORDER BY last_rotated_at DESC
            OFFSET $2
        )
    `
	const insert = `
        INSERT INTO refresh_sessions (id, account_id, secret_hash, ip, device, revoked, last_rotated_at, created_at)
        VALUES ($1,$2,$3,$4,$5,FALSE,$6,$6)
    `

	if limit > 0 {
		if _, err := r.db.Exec(ctx, evict, s.AccountID, limit-1); err != nil {
			return fmt.Errorf("failed to evict sessions: %w", err)
		}
	}

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if _, err := r.db.Exec(ctx, insert, s.ID, s.AccountID, s.SecretHash, s.IP, s.Device, s.LastRotatedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (model.Session, error) {
	const query = `
        SELECT id, account_id, secret_hash, ip, device, revoked, revoked_at, last_rotated_at, created_at
        FROM refresh_sessions WHERE id = $1
    `

	var s model.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.AccountID, &s.SecretHash, &s.IP, &s.Device, &s.Revoked, &s.RevokedAt,
		&s.LastRotatedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Rotate(ctx context.Context, id uuid.UUID, prevHash, nextHash string, at time.Time) error {
	const query = `
        UPDATE refresh_sessions SET secret_hash = $3, last_rotated_at = $4
        WHERE id = $1 AND secret_hash = $2 AND NOT revoked
    `

	tag, err := r.db.Exec(ctx, query, id, prevHash, nextHash, at)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionConflict
	}
	return nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE refresh_sessions SET revoked = TRUE, revoked_at = NOW()
        WHERE id = $1 AND NOT revoked
    `

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *SessionRepository) RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const query = `
        UPDATE refresh_sessions SET revoked = TRUE, revoked_at = NOW()
        WHERE account_id = $1 AND NOT revoked
    `

	tag, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions by account: %w", err)
	}
	return tag.RowsAffected(), nil
}
