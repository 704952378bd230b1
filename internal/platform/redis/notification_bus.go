package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const (
	TopicLabelSubmissions = "label-submissions"
	TopicImageUploads     = "image-uploads"
	TopicSystemAlerts     = "system-alerts"
)

// Notification is the envelope published on every topic channel.
type Notification struct {
	Topic       string            `json:"topic"`
	Subject     string            `json:"subject,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Body        any               `json:"body"`
	PublishedAt time.Time         `json:"publishedAt"`
}

type NotificationBus interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

type BusConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

type notificationBus struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewNotificationBus(log *logger.Logger, cfg BusConfig) (NotificationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(cfg.ChannelPrefix)
	if prefix == "" {
		prefix = "petlabel"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &notificationBus{
		log:    log.With("service", "RedisNotificationBus"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

// Channel is the redis channel a topic publishes to.
func Channel(prefix, topic string) string {
	return prefix + ":" + topic
}

func (b *notificationBus) Publish(ctx context.Context, n Notification) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis notification bus not initialized")
	}
	if n.Topic == "" {
		return fmt.Errorf("notification topic required")
	}
	if n.PublishedAt.IsZero() {
		n.PublishedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(b.prefix, n.Topic), raw).Err()
}

func (b *notificationBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

// NopBus drops every notification. Used when REDIS_ADDR is unset.
type NopBus struct{}

func (NopBus) Publish(context.Context, Notification) error { return nil }
func (NopBus) Close() error                                { return nil }
