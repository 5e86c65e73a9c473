package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const accountColumns = `
    id, email, email_hash, password_hash, firstname, surname, language, type, status,
    is_admin, is_official, is_active, activation_hash, activation_expires_at,
    reset_code_hash, reset_expires_at, reset_attempts, reset_locked_until, reset_sent_at,
    reset_done_at, reset_notified_at,
    login_code_hash, login_expires_at, login_attempts, login_locked_until, login_sent_at,
    last_login_at, credentials_epoch, created_at, updated_at`

type AccountRepository struct {
	db Querier
}

func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a. A concurrent insert of the same email waits for the
// other transaction and then reports model.ErrAlreadyExists without
// aborting the caller's transaction.
func (r *AccountRepository) Create(ctx context.Context, a model.Account) error {
	const query = `
        INSERT INTO accounts (` + accountColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
                $21,$22,$23,$24,$25,$26,$27,$28,NOW(),NOW())
        ON CONFLICT DO NOTHING
    `

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	tag, err := r.db.Exec(ctx, query, accountArgs(a)...)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyExists
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByEmailForUpdate(ctx context.Context, email string) (model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 FOR UPDATE`

	a, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a model.Account) error {
	const query = `
        UPDATE accounts SET
            email = $2, email_hash = $3, password_hash = $4, firstname = $5, surname = $6,
            language = $7, type = $8, status = $9, is_admin = $10, is_official = $11,
            is_active = $12, activation_hash = $13, activation_expires_at = $14,
            reset_code_hash = $15, reset_expires_at = $16, reset_attempts = $17,
            reset_locked_until = $18, reset_sent_at = $19, reset_done_at = $20,
            reset_notified_at = $21, login_code_hash = $22, login_expires_at = $23,
            login_attempts = $24, login_locked_until = $25, login_sent_at = $26,
            last_login_at = $27, credentials_epoch = $28, updated_at = NOW()
        WHERE id = $1
    `

	tag, err := r.db.Exec(ctx, query, accountArgs(a)...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM accounts WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Any(ctx context.Context) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts)`

	var exists bool
	if err := r.db.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check accounts: %w", err)
	}
	return exists, nil
}

func accountArgs(a model.Account) []any {
	return []any{
		a.ID, a.Email, a.EmailHash, a.PasswordHash, a.FirstName, a.Surname,
		string(a.Language), string(a.Type), string(a.Status),
		a.IsAdmin, a.IsOfficial, a.IsActive, a.ActivationHash, a.ActivationExpiresAt,
		a.Reset.Hash, a.Reset.ExpiresAt, a.Reset.Attempts, a.Reset.LockedUntil, a.Reset.SentAt,
		a.ResetDoneAt, a.ResetNotifiedAt,
		a.Login.Hash, a.Login.ExpiresAt, a.Login.Attempts, a.Login.LockedUntil, a.Login.SentAt,
		a.LastLoginAt, a.CredentialsEpoch,
	}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		a                     model.Account
		language, typ, status string
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.EmailHash, &a.PasswordHash, &a.FirstName, &a.Surname,
		&language, &typ, &status,
		&a.IsAdmin, &a.IsOfficial, &a.IsActive, &a.ActivationHash, &a.ActivationExpiresAt,
		&a.Reset.Hash, &a.Reset.ExpiresAt, &a.Reset.Attempts, &a.Reset.LockedUntil, &a.Reset.SentAt,
		&a.ResetDoneAt, &a.ResetNotifiedAt,
		&a.Login.Hash, &a.Login.ExpiresAt, &a.Login.Attempts, &a.Login.LockedUntil, &a.Login.SentAt,
		&a.LastLoginAt, &a.CredentialsEpoch, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	a.Language = model.Language(language)
	a.Type = model.AccountType(typ)
	a.Status = model.AccountStatus(status)
	return a, nil
}
