package redis

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

// ErrBusOpen is returned without touching redis while the breaker is open.
var ErrBusOpen = gobreaker.ErrOpenState

type BreakerConfig struct {
	// FailureThreshold consecutive publish failures open the breaker.
	FailureThreshold uint32
	// Cooldown is how long the breaker stays open before a probe.
	Cooldown time.Duration
}

type breakerBus struct {
	inner NotificationBus
	cb    *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerBus sheds publishes while redis keeps failing, so best-effort
// notifications stop adding dial timeouts to request latency.
func NewBreakerBus(inner NotificationBus, log *logger.Logger, cfg BreakerConfig) NotificationBus {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	busLog := log.With("service", "NotificationBreaker")
	threshold := cfg.FailureThreshold
	return &breakerBus{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "redis-notifications",
			MaxRequests: 1,
			Timeout:     cfg.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				busLog.Warn("notification breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
			// A caller giving up is not a redis failure.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

func (b *breakerBus) Publish(ctx context.Context, n Notification) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Publish(ctx, n)
	})
	return err
}

func (b *breakerBus) Close() error { return b.inner.Close() }
