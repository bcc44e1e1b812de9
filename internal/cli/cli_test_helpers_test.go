package cli

import (
	"path/filepath"
	"testing"

	"github.com/terraincognita07/cyclecast/internal/db"
)

func openTestRepositories(t *testing.T) *db.Repositories {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclecast-cli-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})
	return db.NewRepositories(database)
}
