// Package gormstore implements accounts.Directory on SQLite and PostgreSQL.
//
// SQLite schemas are created with GORM AutoMigrate. PostgreSQL schemas are
// managed by golang-migrate with the embedded migrations package.
package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marmos91/gridaccounts/pkg/accounts"
	"github.com/marmos91/gridaccounts/pkg/database"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// Store is a GORM-backed account directory. It also implements
// accounts.ActiveAccountsQuerier.
type Store struct {
	db     *gorm.DB
	config *database.Config
}

var (
	_ accounts.Directory             = (*Store)(nil)
	_ accounts.ActiveAccountsQuerier = (*Store)(nil)
)

// New opens the directory described by config and prepares its schema.
func New(ctx context.Context, config *database.Config) (*Store, error) {
	if config == nil {
		config = &database.Config{}
	}

	db, err := database.Open(config)
	if err != nil {
		return nil, err
	}

	switch config.Type {
	case database.DatabaseTypePostgres:
		if err := runMigrations(ctx, config.Postgres.URL()); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to run database migration: %w", err)
		}
	default:
		if err := db.AutoMigrate(models.AllModels()...); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to run database migration: %w", err)
		}
	}

	return &Store{db: db, config: config}, nil
}

// DB returns the underlying GORM database connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// CreateAccount inserts the account.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.PrincipalID == "" {
		account.PrincipalID = uuid.New().String()
	}
	if account.ScopeID == "" {
		account.ScopeID = models.ZeroID
	}
	if account.Created.IsZero() {
		account.Created = time.Now().UTC()
	}
	if account.ServiceURLs == nil {
		account.ServiceURLs = models.ServiceURLs{}
	}
	return database.Create(s.db, ctx, account, models.ErrDuplicateAccount)
}

// GetAccountByName returns the account named first/last visible from scopeID.
func (s *Store) GetAccountByName(ctx context.Context, scopeID, firstName, lastName string) (*models.Account, error) {
	return database.GetWhere[models.Account](s.scoped(s.db, scopeID).Order("principal_id"), ctx,
		models.ErrAccountNotFound, "first_name = ? AND last_name = ?", firstName, lastName)
}

// GetAccountByID returns the account with principalID visible from scopeID.
func (s *Store) GetAccountByID(ctx context.Context, scopeID, principalID string) (*models.Account, error) {
	return database.GetWhere[models.Account](s.scoped(s.db, scopeID), ctx,
		models.ErrAccountNotFound, "principal_id = ?", principalID)
}

// UpdateAccount replaces every column of a stored account.
func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) error {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("principal_id = ?", account.PrincipalID).
		Select("*").
		Updates(account)
	if result.Error != nil {
		if database.IsUniqueConstraintError(result.Error) {
			return models.ErrDuplicateAccount
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes the account. Missing accounts are not an error.
func (s *Store) DeleteAccount(ctx context.Context, scopeID, principalID string) error {
	return database.DeleteWhere[models.Account](s.scoped(s.db, scopeID), ctx, "principal_id", principalID)
}

// GetActiveAccounts lists active accounts matching term, ordered by name.
func (s *Store) GetActiveAccounts(ctx context.Context, scopeID, term, excludeTerm string) ([]*models.Account, error) {
	q := s.active(s.db.WithContext(ctx).Model(&models.Account{}), scopeID, excludeTerm)
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where(
			"(LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	return database.FindWhere[models.Account](q.Order("first_name, last_name"), ctx)
}

// CountActiveAccounts counts active accounts.
func (s *Store) CountActiveAccounts(ctx context.Context, scopeID, excludeTerm string) (int64, error) {
	var count int64
	err := s.active(s.db.WithContext(ctx).Model(&models.Account{}), scopeID, excludeTerm).Count(&count).Error
	return count, err
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return database.Close(s.db)
}

func (s *Store) active(q *gorm.DB, scopeID, excludeTerm string) *gorm.DB {
	q = s.scoped(q, scopeID).Where("user_level >= 0")
	if excludeTerm != "" {
		q = q.Where("first_name NOT LIKE ? ESCAPE '\\'", escapeLike(excludeTerm)+"%")
	}
	return q
}

// scoped restricts q to rows visible from scopeID. The zero scope sees everything.
func (s *Store) scoped(q *gorm.DB, scopeID string) *gorm.DB {
	if scopeID == "" || scopeID == models.ZeroID {
		return q
	}
	return q.Where("scope_id IN ?", []string{scopeID, models.ZeroID})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
