package storetest

import (
	"testing"
)

func runSearchTests(t *testing.T, factory StoreFactory) {
	t.Run("ByConnectID", func(t *testing.T) {
		s := factory(t)
		r := newRecord("123")
		mustStore(t, s, r)

		got, err := s.Search(t.Context(), "", "ConnectID 123")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(got) != 1 || got[0].PrincipalID != r.PrincipalID {
			t.Fatalf("Search = %+v, want %s", got, r.PrincipalID)
		}
	})

	t.Run("ByPrincipalID", func(t *testing.T) {
		s := factory(t)
		r := newRecord("abc")
		mustStore(t, s, r)

		got, err := s.Search(t.Context(), "", "PrincipalID "+r.PrincipalID)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(got) != 1 || got[0].PrincipalID != r.PrincipalID {
			t.Fatalf("Search = %+v, want %s", got, r.PrincipalID)
		}
	})

	t.Run("WrongTokenCountIsEmpty", func(t *testing.T) {
		s := factory(t)
		r := newRecord("123")
		mustStore(t, s, r)

		for _, q := range []string{"", "ConnectID", "xyz ConnectID 123", "ab cd ef", "ConnectID 12"} {
			got, err := s.Search(t.Context(), "", q)
			if err != nil {
				t.Fatalf("Search(%q) failed: %v", q, err)
			}
			if len(got) != 0 {
				t.Fatalf("Search(%q) = %+v, want empty", q, got)
			}
		}
	})

	t.Run("ShortTokensIgnored", func(t *testing.T) {
		s := factory(t)
		r := newRecord("123")
		mustStore(t, s, r)

		got, err := s.Search(t.Context(), "", "a ConnectID of 123")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Search = %+v, want 1 record", got)
		}
	})
}
