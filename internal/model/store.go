package model

import "context"

// Store exposes the repositories bound to one unit of work.
type Store interface {
	Accounts() AccountStore
	Sessions() SessionStore
}

// Transactor runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
