// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"chatwidget/internal/db"
	"chatwidget/internal/knowledge"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		database.Pool.Exec(ctx, "DELETE FROM query_lookups")
		database.Close()
	}

	return database, cleanup
}

// TestMatcher returns a matcher over the default knowledge base, extended
// with the given keyword/answer pairs.
func TestMatcher(t *testing.T, extra ...[2]string) *knowledge.Matcher {
	t.Helper()

	m := knowledge.NewMatcher(knowledge.Default())
	for _, kv := range extra {
		if err := m.AddEntry(kv[0], kv[1], nil, nil); err != nil {
			t.Fatalf("failed to add test entry %q: %v", kv[0], err)
		}
	}
	return m
}
