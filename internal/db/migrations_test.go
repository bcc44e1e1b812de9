package db

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "cyclecast.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func appliedVersionsForTest(t *testing.T, database *gorm.DB) []string {
	t.Helper()

	versions := make([]string, 0)
	if err := database.Table("schema_migrations").Order("version").Pluck("version", &versions).Error; err != nil {
		t.Fatalf("load schema_migrations: %v", err)
	}
	return versions
}

func TestOpenSQLiteAppliesMigrationsOnCleanDatabase(t *testing.T) {
	database := openTestDatabase(t)

	for _, table := range []string{"users", "period_entries", "cycle_records"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
	if !database.Migrator().HasColumn("users", "must_change_password") {
		t.Fatal("expected users.must_change_password column")
	}

	versions := appliedVersionsForTest(t, database)
	if len(versions) != 2 || versions[0] != "0001" || versions[1] != "0002" {
		t.Fatalf("expected versions [0001 0002], got %v", versions)
	}
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclecast.db")

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := Close(first); err != nil {
		t.Fatalf("close first: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(second)
	})

	if versions := appliedVersionsForTest(t, second); len(versions) != 2 {
		t.Fatalf("expected migrations recorded once, got %v", versions)
	}
}

func TestOpenSQLiteSkipsColumnThatAlreadyExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclecast.db")

	seed, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open seed database: %v", err)
	}
	statements := []string{
		`CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'owner',
  must_change_password BOOLEAN NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`INSERT INTO users(email, password_hash) VALUES ('early@example.com', 'hash')`,
	}
	for _, statement := range statements {
		if err := seed.Exec(statement).Error; err != nil {
			t.Fatalf("seed statement failed: %v", err)
		}
	}
	if err := Close(seed); err != nil {
		t.Fatalf("close seed: %v", err)
	}

	database, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open with existing column: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})

	var count int64
	if err := database.Table("users").Where("email = ?", "early@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count seeded users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected seeded user to survive, got %d", count)
	}
}

func TestSQLStatementsDropsEmptyParts(t *testing.T) {
	statements := sqlStatements("CREATE TABLE a (id INTEGER);\n\n ;CREATE INDEX b ON a(id);  ")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(statements), statements)
	}
	if statements[1] != "CREATE INDEX b ON a(id)" {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}
