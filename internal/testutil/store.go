package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.Transactor = (*MemStore)(nil)

// MemStore is an in-memory model.Transactor. Units of work run one at a
// time and their writes are discarded when fn fails, which mirrors the row
// locks and rollback of the Postgres implementation.
type MemStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]model.Account
	sessions map[uuid.UUID]model.Session

	// Err, when set, is returned by every repository call.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[uuid.UUID]model.Account),
		sessions: make(map[uuid.UUID]model.Session),
	}
}

func (m *MemStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store model.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make(map[uuid.UUID]model.Account, len(m.accounts))
	for k, v := range m.accounts {
		accounts[k] = v
	}
	sessions := make(map[uuid.UUID]model.Session, len(m.sessions))
	for k, v := range m.sessions {
		sessions[k] = v
	}

	if err := fn(ctx, memTx{m}); err != nil {
		m.accounts = accounts
		m.sessions = sessions
		return err
	}
	return nil
}

// Account returns the stored account with the given email.
func (m *MemStore) Account(email string) (model.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, true
		}
	}
	return model.Account{}, false
}

// PutAccount stores a directly, bypassing any flow.
func (m *MemStore) PutAccount(a model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

// Sessions returns the sessions of an account, newest rotation first.
func (m *MemStore) Sessions(accountID uuid.UUID) []model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsOf(accountID, false)
}

func (m *MemStore) sessionsOf(accountID uuid.UUID, activeOnly bool) []model.Session {
	var out []model.Session
	for _, s := range m.sessions {
		if s.AccountID != accountID || (activeOnly && s.Revoked) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastRotatedAt.After(out[j].LastRotatedAt)
	})
	return out
}

type memTx struct {
	m *MemStore
}

func (t memTx) Accounts() model.AccountStore { return memAccounts(t) }
func (t memTx) Sessions() model.SessionStore { return memSessions(t) }

type memAccounts struct {
	m *MemStore
}

func (r memAccounts) Create(_ context.Context, a model.Account) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	for _, existing := range r.m.accounts {
		if existing.Email == a.Email || existing.ID == a.ID {
			return model.ErrAlreadyExists
		}
	}
	r.m.accounts[a.ID] = a
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	if r.m.Err != nil {
		return model.Account{}, r.m.Err
	}
	a, ok := r.m.accounts[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return a, nil
}

func (r memAccounts) GetByEmailForUpdate(_ context.Context, email string) (model.Account, error) {
	if r.m.Err != nil {
		return model.Account{}, r.m.Err
	}
	for _, a := range r.m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, model.ErrNotFound
}

func (r memAccounts) Update(_ context.Context, a model.Account) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	if _, ok := r.m.accounts[a.ID]; !ok {
		return model.ErrNotFound
	}
	r.m.accounts[a.ID] = a
	return nil
}

func (r memAccounts) Delete(_ context.Context, id uuid.UUID) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	if _, ok := r.m.accounts[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.m.accounts, id)
	for sid, s := range r.m.sessions {
		if s.AccountID == id {
			delete(r.m.sessions, sid)
		}
	}
	return nil
}

func (r memAccounts) Any(context.Context) (bool, error) {
	if r.m.Err != nil {
		return false, r.m.Err
	}
	return len(r.m.accounts) > 0, nil
}

type memSessions struct {
	m *MemStore
}

func (r memSessions) Create(_ context.Context, s model.Session, limit int) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	if limit > 0 {
		active := r.m.sessionsOf(s.AccountID, true)
		for i := limit - 1; i < len(active); i++ {
			delete(r.m.sessions, active[i].ID)
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Revoked = false
	r.m.sessions[s.ID] = s
	return nil
}

func (r memSessions) Get(_ context.Context, id uuid.UUID) (model.Session, error) {
	if r.m.Err != nil {
		return model.Session{}, r.m.Err
	}
	s, ok := r.m.sessions[id]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return s, nil
}

func (r memSessions) Rotate(_ context.Context, id uuid.UUID, prevHash, nextHash string, at time.Time) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	s, ok := r.m.sessions[id]
	if !ok || s.Revoked || s.SecretHash != prevHash {
		return model.ErrSessionConflict
	}
	s.SecretHash = nextHash
	s.LastRotatedAt = at
	r.m.sessions[id] = s
	return nil
}

func (r memSessions) Revoke(_ context.Context, id uuid.UUID) error {
	if r.m.Err != nil {
		return r.m.Err
	}
	s, ok := r.m.sessions[id]
	if !ok {
		return model.ErrNotFound
	}
	if !s.Revoked {
		now := time.Now()
		s.Revoked = true
		s.RevokedAt = &now
		r.m.sessions[id] = s
	}
	return nil
}

func (r memSessions) RevokeAll(_ context.Context, accountID uuid.UUID) (int64, error) {
	if r.m.Err != nil {
		return 0, r.m.Err
	}
	var n int64
	now := time.Now()
	for id, s := range r.m.sessions {
		if s.AccountID == accountID && !s.Revoked {
			s.Revoked = true
			s.RevokedAt = &now
			r.m.sessions[id] = s
			n++
		}
	}
	return n, nil
}
