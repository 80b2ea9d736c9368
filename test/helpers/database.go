package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/database"
)

// NewTestDB opens a private migrated in-memory database for one test
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// WriteWorldFile stores a world scenario in the test's temp dir and returns its path
func WriteWorldFile(t testing.TB, world string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte(world), 0o644); err != nil {
		t.Fatalf("write world file: %v", err)
	}
	return path
}
