// Package gormstore implements mapping.Store on SQLite and PostgreSQL via GORM.
//
// The table name is the realm handed to the driver, so several realms can
// share one database. The schema is created with AutoMigrate on open.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marmos91/gridaccounts/pkg/database"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// Driver names registered by this package.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	mapping.Register(DriverSQLite, func(ctx context.Context, args mapping.DriverArgs) (mapping.Store, error) {
		db, err := database.OpenSQLite(args.ConnectionString)
		if err != nil {
			return nil, err
		}
		return New(db, args.Table)
	})
	mapping.Register(DriverPostgres, func(ctx context.Context, args mapping.DriverArgs) (mapping.Store, error) {
		db, err := database.OpenPostgres(args.ConnectionString)
		if err != nil {
			return nil, err
		}
		return New(db, args.Table)
	})
}

// Store is a GORM-backed mapping store.
type Store struct {
	db    *gorm.DB
	table string
}

// New wraps an open connection and migrates the realm table.
func New(db *gorm.DB, table string) (*Store, error) {
	if table == "" {
		table = models.DefaultRealm
	}
	if err := db.Table(table).AutoMigrate(&models.MappingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate mapping table %s: %w", table, err)
	}
	return &Store{db: db, table: table}, nil
}

// Table returns the realm this store reads and writes.
func (s *Store) Table() string {
	return s.table
}

func (s *Store) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// Get returns every record matching all filters, ordered by PrincipalID.
func (s *Store) Get(ctx context.Context, fields []string, values []string) ([]*models.MappingRecord, error) {
	if err := mapping.ValidateFilter(fields, values); err != nil {
		return nil, err
	}

	q := s.scoped(ctx)
	for i, f := range fields {
		column, _ := mapping.ColumnFor(f)
		q = q.Where(column+" = ?", values[i])
	}

	records := make([]*models.MappingRecord, 0)
	if err := q.Order("principal_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	return records, nil
}

// Store upserts the record on PrincipalID.
func (s *Store) Store(ctx context.Context, record *models.MappingRecord) error {
	if record == nil || record.PrincipalID == "" {
		return models.ErrMissingPrincipal
	}

	err := s.scoped(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "principal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"connect_id", "real_first_name", "real_last_name", "institution"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to store mapping %s: %w", record.PrincipalID, err)
	}
	return nil
}

// Delete removes all records where field equals value.
func (s *Store) Delete(ctx context.Context, field, value string) error {
	column, err := mapping.ColumnFor(field)
	if err != nil {
		return err
	}
	if err := database.DeleteWhere[models.MappingRecord](s.db.Table(s.table), ctx, column, value); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.table, err)
	}
	return nil
}

// Search runs a parsed query. Scope is ignored.
func (s *Store) Search(ctx context.Context, scopeID string, query string) ([]*models.MappingRecord, error) {
	q, ok := mapping.ParseQuery(query)
	if !ok {
		return []*models.MappingRecord{}, nil
	}
	return s.Get(ctx, []string{q.Field}, []string{q.Value})
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return database.Close(s.db)
}
