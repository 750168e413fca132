package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// runPropertyTests checks the store/get round trip over generated records.
// A single store instance is reused across iterations; principals are unique
// per draw so iterations cannot interfere.
func runPropertyTests(t *testing.T, factory StoreFactory) {
	t.Run("StoreThenGetReturnsExactlyRecord", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		rapid.Check(t, func(rt *rapid.T) {
			r := &models.MappingRecord{
				PrincipalID:   uuid.New().String(),
				ConnectID:     rapid.StringMatching(`[a-z0-9@.]{0,24}`).Draw(rt, "connectID"),
				RealFirstName: rapid.StringMatching(`[A-Za-z ]{0,16}`).Draw(rt, "realFirst"),
				RealLastName:  rapid.StringMatching(`[A-Za-z ]{0,16}`).Draw(rt, "realLast"),
				Institution:   rapid.StringMatching(`[A-Za-z ]{0,32}`).Draw(rt, "institution"),
			}
			if err := s.Store(ctx, r); err != nil {
				rt.Fatalf("Store failed: %v", err)
			}

			got, err := s.Get(ctx, []string{models.FieldPrincipalID}, []string{r.PrincipalID})
			if err != nil {
				rt.Fatalf("Get failed: %v", err)
			}
			if len(got) != 1 || *got[0] != *r {
				rt.Fatalf("Get = %+v, want [%+v]", got, r)
			}
		})
	})

	t.Run("DeleteTwiceLeavesNothing", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		rapid.Check(t, func(rt *rapid.T) {
			r := newRecord(rapid.StringMatching(`c-[a-z0-9]{6}`).Draw(rt, "connectID"))
			if err := s.Store(ctx, r); err != nil {
				rt.Fatalf("Store failed: %v", err)
			}
			for i := 0; i < 2; i++ {
				if err := s.Delete(ctx, models.FieldPrincipalID, r.PrincipalID); err != nil {
					rt.Fatalf("Delete #%d failed: %v", i+1, err)
				}
			}
			got, err := s.Get(ctx, []string{models.FieldPrincipalID}, []string{r.PrincipalID})
			if err != nil {
				rt.Fatalf("Get failed: %v", err)
			}
			if len(got) != 0 {
				rt.Fatalf("record survived delete: %+v", got)
			}
		})
	})
}
