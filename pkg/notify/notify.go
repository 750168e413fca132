// Package notify delivers operator and user notifications.
//
// Three drivers are provided: smtp sends email with gomail, redis publishes
// a JSON envelope on a pub/sub channel for an external mailer, and log
// writes the message to the structured logger.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// Driver names accepted by New.
const (
	DriverSMTP  = "smtp"
	DriverRedis = "redis"
	DriverLog   = "log"
)

// ErrNoRecipient is returned when a message has an empty To address.
var ErrNoRecipient = errors.New("notification has no recipient")

// Message is a plain-text notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate checks the message can be delivered.
func (m Message) Validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	return nil
}

// Notifier delivers messages.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
	Close() error
}

// Config selects and configures a driver.
type Config struct {
	Driver string      `mapstructure:"driver" yaml:"driver" json:"driver" validate:"omitempty,oneof=smtp redis log"`
	SMTP   SMTPConfig  `mapstructure:"smtp" yaml:"smtp" json:"smtp"`
	Redis  RedisConfig `mapstructure:"redis" yaml:"redis" json:"redis"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverLog
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "gridacct:notifications"
	}
}

// New opens the configured driver.
func New(ctx context.Context, cfg Config) (Notifier, error) {
	switch cfg.Driver {
	case DriverSMTP:
		return NewSMTP(cfg.SMTP)
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis)
	case DriverLog, "":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}
}
