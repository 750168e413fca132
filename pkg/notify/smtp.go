package notify

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/marmos91/gridaccounts/internal/logger"
)

// SMTPConfig configures the smtp driver.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host" json:"host"`
	Port     int    `mapstructure:"port" yaml:"port" json:"port" validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username" yaml:"username" json:"username"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	From     string `mapstructure:"from" yaml:"from" json:"from" validate:"omitempty,email"`
}

// dialer is the part of gomail.Dialer used by SMTP.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP sends notifications as plain-text email.
type SMTP struct {
	from   string
	dialer dialer
}

// NewSMTP creates an SMTP notifier. Host and From are required.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp: from address is required")
	}
	return &SMTP{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Notify sends msg. ctx is only checked before dialing; gomail has no
// cancellation.
func (s *SMTP) Notify(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.message(msg)); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", msg.To, err)
	}

	logger.DebugCtx(ctx, "Notification email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTP) message(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// Close is a no-op; every send dials a fresh connection.
func (s *SMTP) Close() error {
	return nil
}
