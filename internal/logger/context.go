package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	RequestID string    // HTTP request ID (chi middleware)
	Operation string    // Workflow operation: register, activate, delete_account, ...
	ClientIP  string    // Client IP address (without port)
	Principal string    // Account principal the request acts on
	Subject   string    // Authenticated admin subject, if any
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithOperation returns a copy with the operation set
func (lc *LogContext) WithOperation(op string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Operation = op
	}
	return clone
}

// WithPrincipal returns a copy with the principal set
func (lc *LogContext) WithPrincipal(principalID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Principal = principalID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

// prepend returns args with the non-empty fields of lc in front. A nil lc
// returns args unchanged.
func (lc *LogContext) prepend(args []any) []any {
	if lc == nil {
		return args
	}
	fields := []struct{ key, value string }{
		{KeyTraceID, lc.TraceID},
		{KeySpanID, lc.SpanID},
		{KeyRequestID, lc.RequestID},
		{KeyOperation, lc.Operation},
		{KeyClientIP, lc.ClientIP},
		{KeySubject, lc.Subject},
		{KeyPrincipalID, lc.Principal},
	}
	out := make([]any, 0, 2*len(fields)+len(args))
	for _, f := range fields {
		if f.value != "" {
			out = append(out, f.key, f.value)
		}
	}
	return append(out, args...)
}

// WithOperationContext returns ctx with the operation recorded on a copy of
// its LogContext. A context without LogContext gets a fresh one.
func WithOperationContext(ctx context.Context, op string) context.Context {
	lc := FromContext(ctx)
	if lc == nil {
		lc = &LogContext{StartTime: time.Now()}
	}
	return WithContext(ctx, lc.WithOperation(op))
}
