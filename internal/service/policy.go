package service

import (
	"context"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/metrics"
	"github.com/dtroode/quidalert-auth/internal/model"
)

// Policy applies request throttles. A failing throttle backend lets
// requests through.
type Policy struct {
	throttle model.Throttle
	logger   *logger.Logger
}

func NewPolicy(throttle model.Throttle, logger *logger.Logger) *Policy {
	return &Policy{throttle: throttle, logger: logger}
}

// Allow returns a TooManyRequests error once key exceeds the scope limit.
func (p *Policy) Allow(ctx context.Context, scope, key string) error {
	if p == nil || p.throttle == nil || key == "" {
		return nil
	}

	ok, err := p.throttle.Allow(ctx, scope, key)
	if err != nil {
		p.logger.WithContext(ctx).Warn("throttle unavailable, allowing request",
			"scope", scope,
			"error", err.Error())
		return nil
	}
	if !ok {
		metrics.Throttled.WithLabelValues(scope).Inc()
		p.logger.WithContext(ctx).Warn("request throttled", "scope", scope)
		return apperrors.TooManyRequests()
	}
	return nil
}
