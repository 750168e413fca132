package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marmos91/gridaccounts/internal/logger"
)

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	DB       int    `mapstructure:"db" yaml:"db" json:"db" validate:"min=0"`
	Channel  string `mapstructure:"channel" yaml:"channel" json:"channel"`
}

// envelope is the JSON document published for each message.
type envelope struct {
	Message
	SentAt time.Time `json:"sent_at"`
}

// Redis publishes notifications on a pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return NewRedisWithClient(client, cfg.Channel), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

// Notify publishes msg as JSON.
func (r *Redis) Notify(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(envelope{Message: msg, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("redis: encode notification: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", r.channel, err)
	}

	logger.DebugCtx(ctx, "Notification published", "channel", r.channel, "to", msg.To)
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
