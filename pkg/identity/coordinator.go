// Package identity keeps the account directory and the identity-mapping
// store paired.
//
// Every mutation that touches both stores goes through Coordinator. There is
// no distributed transaction: the account directory is authoritative and a
// failed mapping write is logged, counted and reported as a warning rather
// than rolled back.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/accounts"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// DefaultCountCacheTTL is how long active-account counts are reused.
const DefaultCountCacheTTL = 30 * time.Second

// Config tunes the coordinator.
type Config struct {
	// CountCacheTTL bounds the age of a cached active-account count.
	// Zero selects DefaultCountCacheTTL; a negative value disables caching.
	CountCacheTTL time.Duration
}

// Coordinator is the single entry point for paired account/mapping reads
// and writes. It is safe for concurrent use.
type Coordinator struct {
	accounts accounts.Directory
	mappings mapping.Store

	// active is nil when the directory cannot answer active-account queries.
	active accounts.ActiveAccountsQuerier

	counts   *gocache.Cache
	metrics  metrics.IdentityMetrics
	warnOnce sync.Once
}

// New builds a coordinator over dir and store.
//
// The directory is probed once for accounts.ActiveAccountsQuerier; without it
// the active-account operations return empty results.
//
// Parameters:
//   - dir: Authoritative account directory
//   - store: Identity-mapping store paired with dir
//   - cfg: Count cache tuning (zero value uses DefaultCountCacheTTL)
//   - m: Identity metrics (may be nil)
//
// Returns a ready Coordinator. It never fails.
func New(dir accounts.Directory, store mapping.Store, cfg Config, m metrics.IdentityMetrics) *Coordinator {
	c := &Coordinator{
		accounts: dir,
		mappings: store,
		metrics:  m,
	}

	if q, ok := dir.(accounts.ActiveAccountsQuerier); ok {
		c.active = q
	}

	ttl := cfg.CountCacheTTL
	if ttl == 0 {
		ttl = DefaultCountCacheTTL
	}
	if ttl > 0 {
		c.counts = gocache.New(ttl, 2*ttl)
	}

	return c
}

// Accounts returns the underlying account directory.
func (c *Coordinator) Accounts() accounts.Directory {
	return c.accounts
}

// SupportsActiveAccounts reports whether the directory answers
// active-account queries.
func (c *Coordinator) SupportsActiveAccounts() bool {
	return c.active != nil
}

// DeleteAccount removes the mapping and then the account. A mapping failure
// is logged and counted but does not stop the account delete, whose result
// is returned. Deleting a missing account succeeds.
//
// Parameters:
//   - ctx: Request context, carried into both stores and the span
//   - scopeID: Scope the account is looked up in (empty or zero matches any)
//   - principalID: Account to remove
//
// Returns:
//   - nil when the account is gone, including when it never existed
//   - *models.StoreFault if the account directory delete failed
func (c *Coordinator) DeleteAccount(ctx context.Context, scopeID, principalID string) error {
	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanDeleteAccount, principalID)
	defer span.End()

	if err := c.mappings.Delete(ctx, models.FieldPrincipalID, principalID); err != nil {
		c.storeFault(ctx, "mapping", "delete", err, logger.KeyPrincipalID, principalID)
	}

	if err := c.accounts.DeleteAccount(ctx, scopeID, principalID); err != nil {
		c.storeFault(ctx, "accounts", "delete", err, logger.KeyPrincipalID, principalID)
		telemetry.RecordError(ctx, err)
		return models.NewStoreFault("accounts", "delete", err)
	}

	c.flushCounts()
	logger.InfoCtx(ctx, "Account deleted", logger.KeyPrincipalID, principalID)
	return nil
}

// GetMappingByConnectID returns the first mapping whose ConnectID equals id,
// in PrincipalID order.
//
// Returns models.ErrMappingNotFound when nothing matches, or a
// *models.StoreFault when the mapping store fails.
func (c *Coordinator) GetMappingByConnectID(ctx context.Context, id string) (*models.MappingRecord, error) {
	return c.firstMapping(ctx, models.FieldConnectID, id)
}

// GetMappingByPrincipalID returns the mapping of an account.
func (c *Coordinator) GetMappingByPrincipalID(ctx context.Context, id string) (*models.MappingRecord, error) {
	return c.firstMapping(ctx, models.FieldPrincipalID, id)
}

func (c *Coordinator) firstMapping(ctx context.Context, field, value string) (*models.MappingRecord, error) {
	ctx, span := telemetry.StartStoreSpan(ctx, telemetry.SpanMappingGet, "mapping", telemetry.SearchField(field))
	defer span.End()

	records, err := c.mappings.Get(ctx, []string{field}, []string{value})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, models.NewStoreFault("mapping", "get", err)
	}
	if len(records) == 0 {
		return nil, models.ErrMappingNotFound
	}
	return records[0], nil
}

// StoreMapping upserts a mapping record.
//
// Parameters:
//   - ctx: Request context
//   - record: Mapping to write; PrincipalID is required
//
// Returns:
//   - nil on success
//   - models.ErrMissingPrincipal if record or its PrincipalID is empty
//   - *models.StoreFault if the mapping store fails
func (c *Coordinator) StoreMapping(ctx context.Context, record *models.MappingRecord) error {
	if record == nil || record.PrincipalID == "" {
		return models.ErrMissingPrincipal
	}

	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanMappingStore, record.PrincipalID)
	defer span.End()

	if err := c.mappings.Store(ctx, record); err != nil {
		if errors.Is(err, models.ErrMissingPrincipal) {
			return err
		}
		telemetry.RecordError(ctx, err)
		return models.NewStoreFault("mapping", "store", err)
	}
	return nil
}

// SearchMappings runs a two-token mapping query (see mapping.ParseQuery).
// A query that does not parse yields an empty result, not an error.
//
// Parameters:
//   - ctx: Request context
//   - scopeID: Passed to the store; current drivers ignore it
//   - query: "<field> <value>", e.g. "ConnectID ann@example.org"
//
// Returns the matching records, or a *models.StoreFault if the store fails.
func (c *Coordinator) SearchMappings(ctx context.Context, scopeID, query string) ([]*models.MappingRecord, error) {
	ctx, span := telemetry.StartStoreSpan(ctx, telemetry.SpanMappingSearch, "mapping")
	defer span.End()

	records, err := c.mappings.Search(ctx, scopeID, query)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, models.NewStoreFault("mapping", "search", err)
	}
	telemetry.SetAttributes(ctx, telemetry.ResultCount(len(records)))
	return records, nil
}

// GetAccountWithMapping joins an account with its mapping. A missing or
// unreadable mapping leaves the mapping fields empty.
//
// Returns:
//   - the joined view on success
//   - models.ErrAccountNotFound if the account does not exist
//   - *models.StoreFault if the account directory fails
func (c *Coordinator) GetAccountWithMapping(ctx context.Context, scopeID, principalID string) (*models.AccountWithMapping, error) {
	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanAccountWithMatch, principalID)
	defer span.End()

	account, err := c.accounts.GetAccountByID(ctx, scopeID, principalID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, err
		}
		return nil, models.NewStoreFault("accounts", "get", err)
	}

	rec, err := c.firstMapping(ctx, models.FieldPrincipalID, principalID)
	if err != nil && !errors.Is(err, models.ErrMappingNotFound) {
		c.storeFault(ctx, "mapping", "get", err, logger.KeyPrincipalID, principalID)
		rec = nil
	}

	return models.NewAccountWithMapping(account, rec), nil
}

// CreatePairedAccount creates account and then stores record under the new
// account's principal id.
//
// Parameters:
//   - ctx: Request context
//   - account: Account to create. PrincipalID is generated when empty and
//     written back.
//   - record: Mapping fields to pair with the account (may be nil). Its
//     PrincipalID is ignored; the caller's copy is not modified.
//
// Returns:
//   - warnings: a *models.StoreFault when the mapping could not be written.
//     The account is kept.
//   - err: non-nil only when the account itself could not be created. It
//     wraps models.ErrDuplicateAccount on a name conflict.
func (c *Coordinator) CreatePairedAccount(ctx context.Context, account *models.Account, record *models.MappingRecord) (warnings []error, err error) {
	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanPairedAccount, account.PrincipalID,
		telemetry.AvatarName(account.FirstName, account.LastName)...)
	defer span.End()

	if err := c.accounts.CreateAccount(ctx, account); err != nil {
		telemetry.RecordError(ctx, err)
		if errors.Is(err, models.ErrDuplicateAccount) {
			return nil, fmt.Errorf("create account %s: %w", account.Name(), err)
		}
		c.storeFault(ctx, "accounts", "create", err, logger.KeyFirstName, account.FirstName, logger.KeyLastName, account.LastName)
		return nil, models.NewStoreFault("accounts", "create", err)
	}
	c.flushCounts()

	rec := record.Clone()
	if rec == nil {
		rec = &models.MappingRecord{}
	}
	rec.PrincipalID = account.PrincipalID

	if err := c.mappings.Store(ctx, rec); err != nil {
		c.storeFault(ctx, "mapping", "store", err, logger.KeyPrincipalID, account.PrincipalID)
		warnings = append(warnings, models.NewStoreFault("mapping", "store", err))
	}

	logger.DebugCtx(ctx, "Paired account created",
		logger.KeyPrincipalID, account.PrincipalID,
		logger.KeyConnectID, rec.ConnectID)
	return warnings, nil
}

// GetActiveAccounts lists active accounts matching term. Without directory
// support the result is empty.
func (c *Coordinator) GetActiveAccounts(ctx context.Context, scopeID, term, excludeTerm string) ([]*models.Account, error) {
	if c.active == nil {
		c.warnUnsupported(ctx)
		return []*models.Account{}, nil
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanActiveAccounts)
	defer span.End()

	list, err := c.active.GetActiveAccounts(ctx, scopeID, term, excludeTerm)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, models.NewStoreFault("accounts", "active", err)
	}
	return list, nil
}

// CountActiveAccounts counts active accounts, reusing a cached value for up
// to the configured TTL. Without directory support the count is zero.
//
// Parameters:
//   - ctx: Request context
//   - scopeID: Scope to count in
//   - excludeTerm: Accounts whose first name starts with it are skipped
//     (the pending identifier); empty counts every active account
//
// Returns the count, or a *models.StoreFault if the directory fails.
func (c *Coordinator) CountActiveAccounts(ctx context.Context, scopeID, excludeTerm string) (int64, error) {
	if c.active == nil {
		c.warnUnsupported(ctx)
		return 0, nil
	}

	key := scopeID + "\x00" + excludeTerm
	if c.counts != nil {
		if v, ok := c.counts.Get(key); ok {
			metrics.RecordCountCache(c.metrics, true)
			return v.(int64), nil
		}
	}
	metrics.RecordCountCache(c.metrics, false)

	n, err := c.active.CountActiveAccounts(ctx, scopeID, excludeTerm)
	if err != nil {
		return 0, models.NewStoreFault("accounts", "count", err)
	}

	if c.counts != nil {
		c.counts.SetDefault(key, n)
	}
	return n, nil
}

// InvalidateCounts drops cached active-account counts. Call it after
// changing accounts outside the coordinator.
func (c *Coordinator) InvalidateCounts() {
	c.flushCounts()
}

func (c *Coordinator) flushCounts() {
	if c.counts != nil {
		c.counts.Flush()
	}
}

func (c *Coordinator) warnUnsupported(ctx context.Context) {
	c.warnOnce.Do(func() {
		logger.WarnCtx(ctx, "Account directory does not support active account queries")
	})
}

func (c *Coordinator) storeFault(ctx context.Context, store, op string, err error, args ...any) {
	metrics.RecordStoreFault(c.metrics, store, op)
	fields := append([]any{logger.KeyStore, store, logger.KeyOperation, op, logger.KeyError, err}, args...)
	logger.WarnCtx(ctx, "Store call failed", fields...)
}
