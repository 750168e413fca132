package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Request
	// ========================================================================
	KeyRequestID = "request_id" // HTTP request ID
	KeyClientIP  = "client_ip"  // Client IP address
	KeySubject   = "subject"    // Authenticated admin subject
	KeyOperation = "operation"  // Workflow operation name
	KeyMethod    = "method"     // HTTP method
	KeyPath      = "path"       // HTTP path
	KeyStatus    = "status"     // HTTP status code

	// ========================================================================
	// Accounts & Mappings
	// ========================================================================
	KeyPrincipalID = "principal_id" // Account principal id
	KeyScopeID     = "scope_id"     // Account scope id
	KeyConnectID   = "connect_id"   // External federated identifier
	KeyFirstName   = "first_name"   // Avatar first name
	KeyLastName    = "last_name"    // Avatar last name
	KeyAvatarType  = "avatar_type"  // Default avatar type chosen at registration
	KeyPending     = "pending"      // Account awaits administrator approval
	KeyOutcome     = "outcome"      // Registration outcome
	KeyQuery       = "query"        // Mapping search query
	KeyCount       = "count"        // Number of records

	// ========================================================================
	// Inventory & Appearance
	// ========================================================================
	KeyFolderID = "folder_id" // Inventory folder id
	KeyItemID   = "item_id"   // Inventory item id
	KeySlot     = "slot"      // Appearance slot name
	KeyRegionID = "region_id" // Region id

	// ========================================================================
	// Storage & Drivers
	// ========================================================================
	KeyStore  = "store"  // Store kind: accounts, mapping, inventory, ...
	KeyDriver = "driver" // Named storage driver
	KeyRealm  = "realm"  // Mapping table name

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyAttempt    = "attempt"     // Retry attempt number
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// RequestID returns a slog.Attr for the HTTP request id
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Operation returns a slog.Attr for the workflow operation
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// PrincipalID returns a slog.Attr for an account principal id
func PrincipalID(id string) slog.Attr {
	return slog.String(KeyPrincipalID, id)
}

// ConnectID returns a slog.Attr for an external connect id
func ConnectID(id string) slog.Attr {
	return slog.String(KeyConnectID, id)
}

// Store returns a slog.Attr for the store kind
func Store(name string) slog.Attr {
	return slog.String(KeyStore, name)
}

// Driver returns a slog.Attr for a storage driver name
func Driver(name string) slog.Attr {
	return slog.String(KeyDriver, name)
}

// DurationMs returns a slog.Attr for operation duration
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error. A nil error yields an empty string.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
