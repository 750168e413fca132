package storetest

import (
	"errors"
	"testing"

	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
)

func runCRUDTests(t *testing.T, factory StoreFactory) {
	t.Run("StoreThenGetByPrincipal", func(t *testing.T) {
		s := factory(t)
		r := newRecord("connect-1")
		mustStore(t, s, r)

		got, err := s.Get(t.Context(), []string{models.FieldPrincipalID}, []string{r.PrincipalID})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 || *got[0] != *r {
			t.Fatalf("Get = %+v, want [%+v]", got, r)
		}
	})

	t.Run("GetByConnectID", func(t *testing.T) {
		s := factory(t)
		r := newRecord("connect-2")
		mustStore(t, s, r)
		mustStore(t, s, newRecord("other"))

		got, err := s.Get(t.Context(), []string{models.FieldConnectID}, []string{"connect-2"})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 || got[0].PrincipalID != r.PrincipalID {
			t.Fatalf("Get = %+v, want principal %s", got, r.PrincipalID)
		}
	})

	t.Run("GetMultipleFilters", func(t *testing.T) {
		s := factory(t)
		r := newRecord("connect-3")
		mustStore(t, s, r)

		got, err := s.Get(t.Context(),
			[]string{models.FieldConnectID, models.FieldPrincipalID},
			[]string{"connect-3", r.PrincipalID})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Get returned %d records, want 1", len(got))
		}

		got, err = s.Get(t.Context(),
			[]string{models.FieldConnectID, models.FieldPrincipalID},
			[]string{"connect-3", "not-the-principal"})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Get returned %d records, want 0", len(got))
		}
	})

	t.Run("GetNoMatchIsEmpty", func(t *testing.T) {
		s := factory(t)
		got, err := s.Get(t.Context(), []string{models.FieldPrincipalID}, []string{"missing"})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("Get = %v, want empty non-nil slice", got)
		}
	})

	t.Run("GetUnsupportedField", func(t *testing.T) {
		s := factory(t)
		_, err := s.Get(t.Context(), []string{"Institution"}, []string{"x"})
		if !errors.Is(err, mapping.ErrUnsupportedField) {
			t.Fatalf("Get error = %v, want ErrUnsupportedField", err)
		}
	})

	t.Run("StoreUpserts", func(t *testing.T) {
		s := factory(t)
		r := newRecord("before")
		mustStore(t, s, r)

		updated := r.Clone()
		updated.ConnectID = "after"
		updated.Institution = "Harvard"
		mustStore(t, s, updated)

		got, err := s.Get(t.Context(), []string{models.FieldPrincipalID}, []string{r.PrincipalID})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 || got[0].ConnectID != "after" || got[0].Institution != "Harvard" {
			t.Fatalf("Get after upsert = %+v", got)
		}
	})

	t.Run("StoreRequiresPrincipal", func(t *testing.T) {
		s := factory(t)
		err := s.Store(t.Context(), &models.MappingRecord{ConnectID: "x"})
		if !errors.Is(err, models.ErrMissingPrincipal) {
			t.Fatalf("Store error = %v, want ErrMissingPrincipal", err)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		s := factory(t)
		r := newRecord("connect-4")
		mustStore(t, s, r)

		for i := 0; i < 2; i++ {
			if err := s.Delete(t.Context(), models.FieldPrincipalID, r.PrincipalID); err != nil {
				t.Fatalf("Delete #%d failed: %v", i+1, err)
			}
		}

		got, err := s.Get(t.Context(), []string{models.FieldPrincipalID}, []string{r.PrincipalID})
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("record survived delete: %+v", got)
		}
	})

	t.Run("DeleteByConnectIDRemovesAllMatches", func(t *testing.T) {
		s := factory(t)
		a := newRecord("shared")
		b := newRecord("shared")
		keep := newRecord("keep")
		mustStore(t, s, a)
		mustStore(t, s, b)
		mustStore(t, s, keep)

		if err := s.Delete(t.Context(), models.FieldConnectID, "shared"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		got, err := s.Get(t.Context(), nil, nil)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 1 || got[0].PrincipalID != keep.PrincipalID {
			t.Fatalf("remaining = %+v, want only %s", got, keep.PrincipalID)
		}
	})
}
