//go:build integration

package gormstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/pkg/database"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/mapping/gormstore"
	"github.com/marmos91/gridaccounts/pkg/mapping/storetest"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T, table string) *gormstore.Store {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	store, err := gormstore.New(db, table)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestConformance(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) mapping.Store {
		return createTestStore(t, "")
	})
}

func TestNew_DefaultRealm(t *testing.T) {
	store := createTestStore(t, "")
	if store.Table() != models.DefaultRealm {
		t.Errorf("Table() = %q, want %q", store.Table(), models.DefaultRealm)
	}
}

func TestRealmsAreIsolated(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	a, err := gormstore.New(db, "realm_a")
	if err != nil {
		t.Fatalf("New(realm_a) failed: %v", err)
	}
	b, err := gormstore.New(db, "realm_b")
	if err != nil {
		t.Fatalf("New(realm_b) failed: %v", err)
	}

	r := &models.MappingRecord{PrincipalID: uuid.New().String(), ConnectID: "shared"}
	if err := a.Store(ctx, r); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := b.Get(ctx, []string{models.FieldPrincipalID}, []string{r.PrincipalID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("realm_b sees realm_a record: %+v", got)
	}
}

func TestOpenViaRegistry(t *testing.T) {
	path := t.TempDir() + "/mapping.db"
	s, err := mapping.Open(context.Background(), gormstore.DriverSQLite, mapping.DriverArgs{
		ConnectionString: path,
		Table:            "custom_realm",
	})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	gs, ok := s.(*gormstore.Store)
	if !ok {
		t.Fatalf("Open returned %T", s)
	}
	if gs.Table() != "custom_realm" {
		t.Errorf("Table() = %q, want custom_realm", gs.Table())
	}
}
