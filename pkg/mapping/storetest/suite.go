package storetest

import (
	"testing"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// StoreFactory creates a fresh Store instance for each test.
type StoreFactory func(t *testing.T) mapping.Store

// RunConformanceSuite runs the full conformance suite against the factory.
// Each test gets a fresh store instance.
func RunConformanceSuite(t *testing.T, factory StoreFactory) {
	t.Helper()

	t.Run("CRUD", func(t *testing.T) {
		runCRUDTests(t, factory)
	})

	t.Run("Search", func(t *testing.T) {
		runSearchTests(t, factory)
	})

	t.Run("Properties", func(t *testing.T) {
		runPropertyTests(t, factory)
	})
}

func newRecord(connectID string) *models.MappingRecord {
	return &models.MappingRecord{
		PrincipalID:   uuid.New().String(),
		ConnectID:     connectID,
		RealFirstName: "Grace",
		RealLastName:  "Hopper",
		Institution:   "Naval Research",
	}
}

func mustStore(t *testing.T, s mapping.Store, r *models.MappingRecord) {
	t.Helper()
	if err := s.Store(t.Context(), r); err != nil {
		t.Fatalf("Store(%s) failed: %v", r.PrincipalID, err)
	}
}
