// Package badger implements mapping.Store on an embedded BadgerDB.
//
// Storage Model:
//   - Primary storage: <realm>/principal:<principalID> -> JSON(MappingRecord)
//   - Secondary index: <realm>/connect:<connectID>/<principalID> -> principalID
//
// The realm handed to the driver namespaces every key, so several realms can
// share one database directory. An empty connection string or ":memory:"
// opens an in-memory database.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// DriverName is the name the store registers under.
const DriverName = "badger"

// inMemoryDSN selects an in-memory database, matching the SQLite spelling.
const inMemoryDSN = ":memory:"

func init() {
	mapping.Register(DriverName, func(ctx context.Context, args mapping.DriverArgs) (mapping.Store, error) {
		return Open(args.ConnectionString, args.Table)
	})
}

// Store is a BadgerDB-backed mapping store.
//
// Thread Safety:
// All operations use BadgerDB transactions, so the index and the primary
// record always change together.
type Store struct {
	db    *badgerdb.DB
	realm string
}

// Open opens (or creates) the database at dir. An empty dir or ":memory:"
// keeps everything in memory.
func Open(dir, realm string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)
	if dir == "" || dir == inMemoryDSN {
		opts = badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return New(db, realm), nil
}

// New wraps an open database. The store owns db and closes it on Close.
func New(db *badgerdb.DB, realm string) *Store {
	if realm == "" {
		realm = models.DefaultRealm
	}
	return &Store{db: db, realm: realm}
}

// Realm returns the key namespace this store reads and writes.
func (s *Store) Realm() string {
	return s.realm
}

// ============================================================================
// Keys
// ============================================================================

func (s *Store) keyPrincipal(principalID string) []byte {
	return []byte(s.realm + "/principal:" + principalID)
}

func (s *Store) principalPrefix() []byte {
	return []byte(s.realm + "/principal:")
}

func (s *Store) keyConnect(connectID, principalID string) []byte {
	return []byte(s.realm + "/connect:" + connectID + "/" + principalID)
}

func (s *Store) connectPrefix(connectID string) []byte {
	return []byte(s.realm + "/connect:" + connectID + "/")
}

// ============================================================================
// Store Operations
// ============================================================================

// Get returns every record matching all filters, ordered by PrincipalID.
//
// A PrincipalID filter is a point read and a ConnectID filter walks the
// index. Without either, the whole realm is scanned.
func (s *Store) Get(ctx context.Context, fields []string, values []string) ([]*models.MappingRecord, error) {
	if err := mapping.ValidateFilter(fields, values); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.MappingRecord, 0)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		candidates, err := s.candidatesTx(txn, fields, values)
		if err != nil {
			return err
		}
		for _, r := range candidates {
			if matches(r, fields, values) {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.realm, err)
	}
	return out, nil
}

// Store upserts the record, moving its ConnectID index entry if it changed.
func (s *Store) Store(ctx context.Context, record *models.MappingRecord) error {
	if record == nil || record.PrincipalID == "" {
		return models.ErrMissingPrincipal
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping record: %w", err)
	}

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		prev, err := s.getTx(txn, record.PrincipalID)
		if err != nil {
			return err
		}
		if prev != nil && prev.ConnectID != record.ConnectID {
			if err := txn.Delete(s.keyConnect(prev.ConnectID, prev.PrincipalID)); err != nil {
				return err
			}
		}

		if err := txn.Set(s.keyPrincipal(record.PrincipalID), data); err != nil {
			return err
		}
		return txn.Set(s.keyConnect(record.ConnectID, record.PrincipalID), []byte(record.PrincipalID))
	})
	if err != nil {
		return fmt.Errorf("failed to store into %s: %w", s.realm, err)
	}
	return nil
}

// Delete removes all records where field equals value.
func (s *Store) Delete(ctx context.Context, field, value string) error {
	if _, err := mapping.ColumnFor(field); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		candidates, err := s.candidatesTx(txn, []string{field}, []string{value})
		if err != nil {
			return err
		}
		for _, r := range candidates {
			if mapping.FieldValue(r, field) != value {
				continue
			}
			if err := txn.Delete(s.keyPrincipal(r.PrincipalID)); err != nil {
				return err
			}
			if err := txn.Delete(s.keyConnect(r.ConnectID, r.PrincipalID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.realm, err)
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

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ============================================================================
// Transaction Helpers
// ============================================================================

// candidatesTx returns the records a filter can match, in PrincipalID order.
// Callers still apply the full filter.
func (s *Store) candidatesTx(txn *badgerdb.Txn, fields, values []string) ([]*models.MappingRecord, error) {
	for i, f := range fields {
		if f == models.FieldPrincipalID {
			r, err := s.getTx(txn, values[i])
			if err != nil || r == nil {
				return nil, err
			}
			return []*models.MappingRecord{r}, nil
		}
	}

	for i, f := range fields {
		if f == models.FieldConnectID {
			return s.byConnectTx(txn, values[i])
		}
	}

	return s.scanTx(txn)
}

// getTx reads one record. A missing key yields nil, nil.
func (s *Store) getTx(txn *badgerdb.Txn, principalID string) (*models.MappingRecord, error) {
	item, err := txn.Get(s.keyPrincipal(principalID))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r models.MappingRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &r)
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

// byConnectTx resolves the ConnectID index. Keys are sorted, so records come
// back ordered by PrincipalID.
func (s *Store) byConnectTx(txn *badgerdb.Txn, connectID string) ([]*models.MappingRecord, error) {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = s.connectPrefix(connectID)
	opts.PrefetchValues = false // Only need keys

	var ids []string
	it := txn.NewIterator(opts)
	for it.Rewind(); it.Valid(); it.Next() {
		key := it.Item().KeyCopy(nil)
		ids = append(ids, string(key[len(opts.Prefix):]))
	}
	it.Close()

	out := make([]*models.MappingRecord, 0, len(ids))
	for _, id := range ids {
		r, err := s.getTx(txn, id)
		if err != nil {
			return nil, err
		}
		// A ConnectID containing "/" can share a prefix with a shorter one.
		if r != nil && r.ConnectID == connectID {
			out = append(out, r)
		}
	}
	return out, nil
}

// scanTx returns every record in the realm.
func (s *Store) scanTx(txn *badgerdb.Txn) ([]*models.MappingRecord, error) {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = s.principalPrefix()

	it := txn.NewIterator(opts)
	defer it.Close()

	out := make([]*models.MappingRecord, 0)
	for it.Rewind(); it.Valid(); it.Next() {
		var r models.MappingRecord
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		}); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, nil
}

func matches(r *models.MappingRecord, fields, values []string) bool {
	for i, f := range fields {
		if mapping.FieldValue(r, f) != values[i] {
			return false
		}
	}
	return true
}

var _ mapping.Store = (*Store)(nil)
