package notify

import (
	"context"
	"sync"

	"github.com/marmos91/gridaccounts/internal/logger"
)

// Log writes notifications to the logger and keeps the most recent ones in
// memory. It is the default driver.
type Log struct {
	mu   sync.Mutex
	sent []Message
}

// maxRetained bounds Sent.
const maxRetained = 100

// NewLog creates a log notifier.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) Notify(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.sent = append(l.sent, msg)
	if len(l.sent) > maxRetained {
		l.sent = l.sent[len(l.sent)-maxRetained:]
	}
	l.mu.Unlock()

	logger.InfoCtx(ctx, "Notification", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

// Sent returns a copy of the retained messages, oldest first.
func (l *Log) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.sent))
	copy(out, l.sent)
	return out
}

func (l *Log) Close() error {
	return nil
}
