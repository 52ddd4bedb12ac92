package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/dangidongi/internal/config"
)

func TestOpenStore_SQLiteCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "dongi.db")

	store, err := openStore(&config.Config{DBDriver: config.DriverSQLite, DBPath: dbPath})
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}
