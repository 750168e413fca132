package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/marmos91/gridaccounts/pkg/accounts"
	accountsmem "github.com/marmos91/gridaccounts/pkg/accounts/memory"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	mappingmem "github.com/marmos91/gridaccounts/pkg/mapping/memory"
	"github.com/marmos91/gridaccounts/pkg/models"
)

var errInjected = errors.New("injected store failure")

// faultyMappings wraps the in-memory store and fails selected operations.
type faultyMappings struct {
	inner *mappingmem.Store

	failGet, failStore, failDelete, failSearch atomic.Bool
	deletes                                    atomic.Int32
}

var _ mapping.Store = (*faultyMappings)(nil)

func newFaultyMappings() *faultyMappings {
	return &faultyMappings{inner: mappingmem.NewStore()}
}

func (f *faultyMappings) Get(ctx context.Context, fields, values []string) ([]*models.MappingRecord, error) {
	if f.failGet.Load() {
		return nil, errInjected
	}
	return f.inner.Get(ctx, fields, values)
}

func (f *faultyMappings) Store(ctx context.Context, r *models.MappingRecord) error {
	if f.failStore.Load() {
		return errInjected
	}
	return f.inner.Store(ctx, r)
}

func (f *faultyMappings) Delete(ctx context.Context, field, value string) error {
	f.deletes.Add(1)
	if f.failDelete.Load() {
		return errInjected
	}
	return f.inner.Delete(ctx, field, value)
}

func (f *faultyMappings) Search(ctx context.Context, scopeID, query string) ([]*models.MappingRecord, error) {
	if f.failSearch.Load() {
		return nil, errInjected
	}
	return f.inner.Search(ctx, scopeID, query)
}

func (f *faultyMappings) Close() error {
	return f.inner.Close()
}

// faultyDirectory wraps the in-memory directory and can fail creates and
// deletes.
type faultyDirectory struct {
	*accountsmem.Directory

	failCreate, failDelete atomic.Bool
}

func newFaultyDirectory() *faultyDirectory {
	return &faultyDirectory{Directory: accountsmem.NewDirectory()}
}

func (d *faultyDirectory) CreateAccount(ctx context.Context, a *models.Account) error {
	if d.failCreate.Load() {
		return errInjected
	}
	return d.Directory.CreateAccount(ctx, a)
}

func (d *faultyDirectory) DeleteAccount(ctx context.Context, scopeID, id string) error {
	if d.failDelete.Load() {
		return errInjected
	}
	return d.Directory.DeleteAccount(ctx, scopeID, id)
}

// activeDirectory adds the active-account capability to the in-memory
// directory and counts how often the count query reaches it.
type activeDirectory struct {
	*accountsmem.Directory

	mu         sync.Mutex
	all        []*models.Account
	countCalls int
}

var _ accounts.ActiveAccountsQuerier = (*activeDirectory)(nil)

func newActiveDirectory() *activeDirectory {
	return &activeDirectory{Directory: accountsmem.NewDirectory()}
}

func (d *activeDirectory) CreateAccount(ctx context.Context, a *models.Account) error {
	if err := d.Directory.CreateAccount(ctx, a); err != nil {
		return err
	}
	d.mu.Lock()
	d.all = append(d.all, a.Clone())
	d.mu.Unlock()
	return nil
}

func (d *activeDirectory) DeleteAccount(ctx context.Context, scopeID, id string) error {
	if err := d.Directory.DeleteAccount(ctx, scopeID, id); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.all[:0]
	for _, a := range d.all {
		if a.PrincipalID != id {
			kept = append(kept, a)
		}
	}
	d.all = kept
	return nil
}

func (d *activeDirectory) GetActiveAccounts(_ context.Context, scopeID, term, exclude string) ([]*models.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*models.Account
	for _, a := range d.all {
		if !d.isActive(a, scopeID, exclude) {
			continue
		}
		t := strings.ToLower(term)
		if t == "" || strings.Contains(strings.ToLower(a.FirstName), t) || strings.Contains(strings.ToLower(a.LastName), t) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (d *activeDirectory) CountActiveAccounts(_ context.Context, scopeID, exclude string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.countCalls++
	var n int64
	for _, a := range d.all {
		if d.isActive(a, scopeID, exclude) {
			n++
		}
	}
	return n, nil
}

func (d *activeDirectory) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.countCalls
}

func (d *activeDirectory) isActive(a *models.Account, scopeID, exclude string) bool {
	if !accounts.ScopeMatches(a.ScopeID, scopeID) || a.UserLevel < 0 {
		return false
	}
	return exclude == "" || !strings.HasPrefix(a.FirstName, exclude)
}

// countingMetrics records identity metrics calls.
type countingMetrics struct {
	mu     sync.Mutex
	faults map[string]int
	hits   int
	misses int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{faults: make(map[string]int)}
}

func (m *countingMetrics) RecordStoreFault(store, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[store+"."+op]++
}

func (m *countingMetrics) RecordCountCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *countingMetrics) fault(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faults[key]
}
