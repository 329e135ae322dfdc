package testutil

import (
	"testing"

	"github.com/aurelian-labs/goldvest-backend/internal/ledger"
)

// OpenStore creates a ledger store rooted in a fresh temp directory that
// is cleaned up with the test.
func OpenStore(t *testing.T) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	return store
}
