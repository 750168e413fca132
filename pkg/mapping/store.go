// Package mapping defines the identity-mapping store contract and the driver
// registry used to open a store by name.
//
// A mapping store persists one MappingRecord per account principal and
// answers equality lookups on ConnectID and PrincipalID, plus a narrow
// two-token search grammar (see ParseQuery).
package mapping

import (
	"context"
	"errors"

	"github.com/marmos91/gridaccounts/pkg/models"
)

var (
	// ErrUnsupportedField is returned when a lookup names a field other than
	// ConnectID or PrincipalID.
	ErrUnsupportedField = errors.New("unsupported mapping field")

	// ErrFieldValueMismatch is returned when fields and values differ in length.
	ErrFieldValueMismatch = errors.New("mapping fields and values differ in length")
)

// Store persists identity-mapping records.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns every record matching all positional field=value filters.
	// No match yields an empty slice and a nil error.
	Get(ctx context.Context, fields []string, values []string) ([]*models.MappingRecord, error)

	// Store upserts a record keyed by PrincipalID. An error is a persistence
	// fault, never "already exists".
	Store(ctx context.Context, record *models.MappingRecord) error

	// Delete removes all records where field equals value. Zero matches is
	// not an error.
	Delete(ctx context.Context, field, value string) error

	// Search runs a free-text query parsed by ParseQuery.
	Search(ctx context.Context, scopeID string, query string) ([]*models.MappingRecord, error)

	// Close releases resources held by the store.
	Close() error
}

// ColumnFor returns the storage column for a mapping field name.
func ColumnFor(field string) (string, error) {
	switch field {
	case models.FieldConnectID:
		return "connect_id", nil
	case models.FieldPrincipalID:
		return "principal_id", nil
	default:
		return "", ErrUnsupportedField
	}
}

// ValidateFilter checks that fields and values form a usable filter.
func ValidateFilter(fields, values []string) error {
	if len(fields) != len(values) {
		return ErrFieldValueMismatch
	}
	for _, f := range fields {
		if _, err := ColumnFor(f); err != nil {
			return err
		}
	}
	return nil
}

// FieldValue returns the value of a mapping field on a record.
func FieldValue(r *models.MappingRecord, field string) string {
	switch field {
	case models.FieldConnectID:
		return r.ConnectID
	case models.FieldPrincipalID:
		return r.PrincipalID
	default:
		return ""
	}
}
