// Package accounts defines the account directory contract consumed by the
// identity coordinator and the provisioning workflow.
//
// The directory is owned outside this module; the drivers under
// accounts/gormstore and accounts/memory are reference implementations.
package accounts

import (
	"context"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// Directory is the read/write facade over the primary account store.
type Directory interface {
	// CreateAccount stores a new account. An empty PrincipalID is replaced
	// with a random one and a zero Created with the current time. A second
	// account with the same (ScopeID, FirstName, LastName) fails with
	// models.ErrDuplicateAccount.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByName looks up an account by name. Accounts stored under the
	// zero scope match every scope. Returns models.ErrAccountNotFound.
	GetAccountByName(ctx context.Context, scopeID, firstName, lastName string) (*models.Account, error)

	// GetAccountByID looks up an account by principal id.
	GetAccountByID(ctx context.Context, scopeID, principalID string) (*models.Account, error)

	// UpdateAccount replaces a stored account.
	UpdateAccount(ctx context.Context, account *models.Account) error

	// DeleteAccount removes an account. Deleting a missing account is not an error.
	DeleteAccount(ctx context.Context, scopeID, principalID string) error

	// Close releases resources held by the directory.
	Close() error
}

// ActiveAccountsQuerier is an optional capability of a Directory.
//
// An account is active when its UserLevel is non-negative and its first name
// does not start with excludeTerm. term filters by case-insensitive substring
// over first name, last name and email; an empty term matches everything.
type ActiveAccountsQuerier interface {
	GetActiveAccounts(ctx context.Context, scopeID, term, excludeTerm string) ([]*models.Account, error)
	CountActiveAccounts(ctx context.Context, scopeID, excludeTerm string) (int64, error)
}

// ScopeMatches reports whether an account stored under stored is visible
// from scope.
func ScopeMatches(stored, scope string) bool {
	return stored == scope || stored == models.ZeroID || scope == "" || scope == models.ZeroID
}
