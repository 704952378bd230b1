package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/petlabel-backend/internal/platform/gcp"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
	"github.com/yungbote/petlabel-backend/internal/platform/redis"
)

type Clients struct {
	Bus    redis.NotificationBus
	Signer gcp.URLSigner
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var bus redis.NotificationBus = redis.NopBus{}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := redis.NewNotificationBus(log, redis.BusConfig{
			Addr:          cfg.RedisAddr,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
			ChannelPrefix: cfg.RedisChannelPrefix,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis notification bus: %w", err)
		}
		bus = redis.NewBreakerBus(b, log, redis.BreakerConfig{
			FailureThreshold: uint32(cfg.NotifyBreakerThreshold),
			Cooldown:         cfg.NotifyBreakerCooldown,
		})
	} else {
		log.Warn("REDIS_ADDR not set; notifications are dropped")
	}

	// Gcs
	signer, err := resolveURLSigner(ctx, log, cfg)
	if err != nil {
		_ = bus.Close()
		return Clients{}, fmt.Errorf("init object storage: %w", err)
	}

	return Clients{Bus: bus, Signer: signer}, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
