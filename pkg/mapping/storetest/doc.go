// Package storetest provides a conformance test suite for mapping store implementations.
//
// Every mapping driver (memory, badger, sqlite, postgres) should pass these tests.
//
// Usage:
//
//	func TestConformance(t *testing.T) {
//	    storetest.RunConformanceSuite(t, func(t *testing.T) mapping.Store {
//	        return memory.NewStore()
//	    })
//	}
//
// The factory receives *testing.T so it can call t.TempDir() for stores that
// need filesystem paths and t.Cleanup for teardown.
package storetest
