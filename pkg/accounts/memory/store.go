// Package memory provides an in-memory accounts.Directory.
//
// It intentionally does not implement accounts.ActiveAccountsQuerier.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/pkg/accounts"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// Directory is a thread-safe in-memory account directory.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account // principal id -> account
}

var _ accounts.Directory = (*Directory)(nil)

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[string]*models.Account)}
}

// CreateAccount stores a copy of the account.
func (d *Directory) CreateAccount(ctx context.Context, account *models.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if account.ScopeID == "" {
		account.ScopeID = models.ZeroID
	}
	for _, existing := range d.accounts {
		if existing.ScopeID == account.ScopeID &&
			existing.FirstName == account.FirstName &&
			existing.LastName == account.LastName {
			return models.ErrDuplicateAccount
		}
	}

	if account.PrincipalID == "" {
		account.PrincipalID = uuid.New().String()
	}
	if _, exists := d.accounts[account.PrincipalID]; exists {
		return models.ErrDuplicateAccount
	}
	if account.Created.IsZero() {
		account.Created = time.Now().UTC()
	}
	if account.ServiceURLs == nil {
		account.ServiceURLs = models.ServiceURLs{}
	}

	d.accounts[account.PrincipalID] = account.Clone()
	return nil
}

// GetAccountByName returns a copy of the matching account.
func (d *Directory) GetAccountByName(ctx context.Context, scopeID, firstName, lastName string) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, id := range d.sortedIDs() {
		a := d.accounts[id]
		if a.FirstName == firstName && a.LastName == lastName && accounts.ScopeMatches(a.ScopeID, scopeID) {
			return a.Clone(), nil
		}
	}
	return nil, models.ErrAccountNotFound
}

// GetAccountByID returns a copy of the matching account.
func (d *Directory) GetAccountByID(ctx context.Context, scopeID, principalID string) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.accounts[principalID]
	if !ok || !accounts.ScopeMatches(a.ScopeID, scopeID) {
		return nil, models.ErrAccountNotFound
	}
	return a.Clone(), nil
}

// UpdateAccount replaces the stored account.
func (d *Directory) UpdateAccount(ctx context.Context, account *models.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[account.PrincipalID]; !ok {
		return models.ErrAccountNotFound
	}
	for id, existing := range d.accounts {
		if id != account.PrincipalID &&
			existing.ScopeID == account.ScopeID &&
			existing.FirstName == account.FirstName &&
			existing.LastName == account.LastName {
			return models.ErrDuplicateAccount
		}
	}
	d.accounts[account.PrincipalID] = account.Clone()
	return nil
}

// DeleteAccount removes the account if present.
func (d *Directory) DeleteAccount(ctx context.Context, scopeID, principalID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a, ok := d.accounts[principalID]; ok && accounts.ScopeMatches(a.ScopeID, scopeID) {
		delete(d.accounts, principalID)
	}
	return nil
}

// Close is a no-op.
func (d *Directory) Close() error {
	return nil
}

// Len returns the number of stored accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

// sortedIDs gives lookups a stable order. Caller holds the lock.
func (d *Directory) sortedIDs() []string {
	ids := make([]string, 0, len(d.accounts))
	for id := range d.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
