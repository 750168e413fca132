// Package memory provides an in-memory implementation of mapping.Store.
// All data is lost on restart; use it for tests and standalone development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// DriverName is the name the store registers under.
const DriverName = "memory"

func init() {
	mapping.Register(DriverName, func(ctx context.Context, args mapping.DriverArgs) (mapping.Store, error) {
		return NewStore(), nil
	})
}

// Store is a thread-safe in-memory mapping store keyed by PrincipalID.
type Store struct {
	mu      sync.RWMutex
	records map[string]*models.MappingRecord
	closed  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*models.MappingRecord)}
}

// Get returns copies of every record matching all filters, ordered by PrincipalID.
func (s *Store) Get(ctx context.Context, fields []string, values []string) ([]*models.MappingRecord, error) {
	if err := mapping.ValidateFilter(fields, values); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	out := make([]*models.MappingRecord, 0)
	for _, r := range s.records {
		if matches(r, fields, values) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrincipalID < out[j].PrincipalID })
	return out, nil
}

// Store upserts a copy of the record.
func (s *Store) Store(ctx context.Context, record *models.MappingRecord) error {
	if record == nil || record.PrincipalID == "" {
		return models.ErrMissingPrincipal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	s.records[record.PrincipalID] = record.Clone()
	return nil
}

// Delete removes all records where field equals value.
func (s *Store) Delete(ctx context.Context, field, value string) error {
	if _, err := mapping.ColumnFor(field); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	for id, r := range s.records {
		if mapping.FieldValue(r, field) == value {
			delete(s.records, id)
		}
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

// Close marks the store closed. Later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func matches(r *models.MappingRecord, fields, values []string) bool {
	for i, f := range fields {
		if mapping.FieldValue(r, f) != values[i] {
			return false
		}
	}
	return true
}
