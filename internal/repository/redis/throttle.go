package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.Throttle = (*Throttle)(nil)

// Rule is a fixed-window limit.
type Rule struct {
	Limit  int64
	Window time.Duration
}

// Throttle counts hits per scope and key in fixed windows. Scopes without
// a rule are never limited.
type Throttle struct {
	client *goredis.Client
	rules  map[string]Rule
}

func NewThrottle(client *goredis.Client, rules map[string]Rule) *Throttle {
	return &Throttle{client: client, rules: rules}
}

// NewClient opens a client and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func (t *Throttle) key(scope, key string) string {
	return "throttle:" + scope + ":" + key
}

// Allow records one hit and reports whether the key is still within its limit.
func (t *Throttle) Allow(ctx context.Context, scope, key string) (bool, error) {
	rule, ok := t.rules[scope]
	if !ok || rule.Limit <= 0 {
		return true, nil
	}

	k := t.key(scope, key)
	count, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment throttle counter: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, k, rule.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to set throttle window: %w", err)
		}
	}

	return count <= rule.Limit, nil
}
