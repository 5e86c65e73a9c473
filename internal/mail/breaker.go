package mail

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.Mailer = (*BreakerMailer)(nil)

// ErrCircuitOpen is returned while the breaker rejects deliveries.
var ErrCircuitOpen = gobreaker.ErrOpenState

// BreakerConfig controls when delivery is short-circuited.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// BreakerMailer stops calling a failing transport until it recovers.
type BreakerMailer struct {
	next    model.Mailer
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerMailer(next model.Mailer, cfg BreakerConfig, log *logger.Logger) *BreakerMailer {
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerMailer{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (b *BreakerMailer) Send(ctx context.Context, m model.Mail) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, m)
	})
	return err
}

func (b *BreakerMailer) State() gobreaker.State {
	return b.breaker.State()
}
