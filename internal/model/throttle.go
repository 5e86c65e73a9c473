package model

import "context"

// Throttle scopes.
const (
	ScopeReset = "reset"
	ScopeLogin = "login"
)

// Throttle counts requests per key in fixed windows.
type Throttle interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
}
