package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys attached to gridacct spans.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP  = "client.ip"
	AttrRequestID = "http.request_id"

	// ========================================================================
	// Account attributes
	// ========================================================================
	AttrPrincipalID = "account.principal_id"
	AttrScopeID     = "account.scope_id"
	AttrFirstName   = "account.first_name"
	AttrLastName    = "account.last_name"
	AttrPending     = "account.pending"
	AttrAvatarType  = "account.avatar_type"
	AttrOutcome     = "registration.outcome"

	// ========================================================================
	// Mapping attributes
	// ========================================================================
	AttrConnectID   = "mapping.connect_id"
	AttrSearchField = "mapping.search_field"
	AttrResultCount = "mapping.result_count"

	// ========================================================================
	// Storage attributes
	// ========================================================================
	AttrStoreName  = "store.name"
	AttrStoreType  = "store.type"
	AttrStoreRealm = "store.realm"
)

// Span names. Format: <component>.<operation>
const (
	SpanRegister         = "provisioning.register"
	SpanValidate         = "provisioning.validate"
	SpanActivate         = "provisioning.activate"
	SpanAvatarClone      = "avatar.clone"
	SpanInventoryCreate  = "inventory.create_user"
	SpanHomeSet          = "griduser.set_home"
	SpanNotifyAdmin      = "notify.admin"
	SpanDeleteAccount    = "identity.delete_account"
	SpanPairedAccount    = "identity.create_paired_account"
	SpanActiveAccounts   = "identity.active_accounts"
	SpanMappingGet       = "mapping.get"
	SpanMappingStore     = "mapping.store"
	SpanMappingDelete    = "mapping.delete"
	SpanMappingSearch    = "mapping.search"
	SpanAccountWithMatch = "identity.account_with_mapping"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// RequestID returns an attribute for the HTTP request id
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

// PrincipalID returns an attribute for an account principal id
func PrincipalID(id string) attribute.KeyValue {
	return attribute.String(AttrPrincipalID, id)
}

// ScopeID returns an attribute for an account scope id
func ScopeID(id string) attribute.KeyValue {
	return attribute.String(AttrScopeID, id)
}

// AvatarName returns the first and last name attributes
func AvatarName(first, last string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrFirstName, first),
		attribute.String(AttrLastName, last),
	}
}

// Pending returns an attribute flagging an account awaiting approval
func Pending(pending bool) attribute.KeyValue {
	return attribute.Bool(AttrPending, pending)
}

// AvatarType returns an attribute for the chosen default avatar
func AvatarType(t string) attribute.KeyValue {
	return attribute.String(AttrAvatarType, t)
}

// Outcome returns an attribute for a registration outcome
func Outcome(o string) attribute.KeyValue {
	return attribute.String(AttrOutcome, o)
}

// ConnectID returns an attribute for an external connect id
func ConnectID(id string) attribute.KeyValue {
	return attribute.String(AttrConnectID, id)
}

// SearchField returns an attribute for the mapping field being searched
func SearchField(field string) attribute.KeyValue {
	return attribute.String(AttrSearchField, field)
}

// ResultCount returns an attribute for the number of returned records
func ResultCount(n int) attribute.KeyValue {
	return attribute.Int(AttrResultCount, n)
}

// StoreName returns an attribute for store name
func StoreName(name string) attribute.KeyValue {
	return attribute.String(AttrStoreName, name)
}

// StoreType returns an attribute for store type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// StoreRealm returns an attribute for the mapping table name
func StoreRealm(realm string) attribute.KeyValue {
	return attribute.String(AttrStoreRealm, realm)
}

// StartAccountSpan starts a span for an operation acting on one account.
func StartAccountSpan(ctx context.Context, name, principalID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	if principalID != "" {
		allAttrs = append(allAttrs, PrincipalID(principalID))
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartStoreSpan starts a span for a store call.
func StartStoreSpan(ctx context.Context, name, storeType string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		StoreType(storeType),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
