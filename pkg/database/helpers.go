package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ============================================================================
// Generic GORM Helpers
// ============================================================================
//
// These helpers remove repetitive CRUD boilerplate from the SQL stores. They
// operate on a raw *gorm.DB (which may already be scoped with Table) and
// convert driver errors to domain errors.

// IsUniqueConstraintError checks if the error is a unique constraint violation.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite or PostgreSQL unique constraint errors
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "duplicate key value violates unique constraint")
}

// ConvertNotFoundError converts gorm.ErrRecordNotFound to the given domain error.
func ConvertNotFoundError(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}

// GetWhere retrieves the first record of type T matching query/args and
// converts gorm.ErrRecordNotFound to notFoundErr.
//
// Example:
//
//	acc, err := database.GetWhere[models.Account](db, ctx, models.ErrAccountNotFound, "principal_id = ?", id)
func GetWhere[T any](db *gorm.DB, ctx context.Context, notFoundErr error, query string, args ...any) (*T, error) {
	var result T
	if err := db.WithContext(ctx).Where(query, args...).First(&result).Error; err != nil {
		return nil, ConvertNotFoundError(err, notFoundErr)
	}
	return &result, nil
}

// FindWhere retrieves every record of type T matching the conditions.
// Returns an empty slice (not nil) on success with no records.
func FindWhere[T any](q *gorm.DB, ctx context.Context) ([]*T, error) {
	results := make([]*T, 0)
	if err := q.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Create inserts entity and converts unique violations to dupErr.
func Create[T any](db *gorm.DB, ctx context.Context, entity *T, dupErr error) error {
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return dupErr
		}
		return err
	}
	return nil
}

// DeleteWhere deletes records of type T matching field=value. Zero rows
// affected is not an error.
func DeleteWhere[T any](db *gorm.DB, ctx context.Context, column string, value any) error {
	var zero T
	return db.WithContext(ctx).Where(column+" = ?", value).Delete(&zero).Error
}
