// Package testutil provides builders and fixtures for planning tests: complete
// rule sets, households and migrated databases.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with the given rule sets.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewRuleSetBuilder().Build(),
//	)
func SetupTestDB(t *testing.T, sets ...*model.JurisdictionRuleSet) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, rs := range sets {
		if err := store.SaveRuleSet(ctx, rs, "test"); err != nil {
			t.Fatalf("failed to seed rule set %q: %v", rs.Key, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustSavePlan stores a plan or fails the test.
func (db *TestDB) MustSavePlan(plan *model.PlanningResult) {
	db.t.Helper()
	if err := db.Storage.SavePlan(context.Background(), plan); err != nil {
		db.t.Fatalf("failed to save plan %s: %v", plan.ID, err)
	}
}
