package db

import (
	"strings"
	"testing"
	"testing/fstest"

	"todo_webapp/internal/migrations"
)

func TestExtractUp(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	up := ExtractUp(content)
	if !strings.Contains(up, "CREATE TABLE a") || strings.Contains(up, "DROP TABLE") {
		t.Fatalf("unexpected up section: %q", up)
	}
	if got := ExtractUp("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("plain content changed: %q", got)
	}
}

func TestLoadMigrationsSortsAndSkipsNonSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql": {Data: []byte("SELECT 2;")},
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"README.md":  {Data: []byte("docs")},
	}
	migs, err := LoadMigrations(fsys)
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migs) != 2 || migs[0].Name != "0001_a.sql" || migs[1].Name != "0002_b.sql" {
		t.Fatalf("unexpected migrations: %+v", migs)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	pg, err := LoadMigrations(migrations.Postgres())
	if err != nil || len(pg) == 0 {
		t.Fatalf("postgres migrations: %v (%d)", err, len(pg))
	}
	lite, err := LoadMigrations(migrations.SQLite())
	if err != nil || len(lite) == 0 {
		t.Fatalf("sqlite migrations: %v (%d)", err, len(lite))
	}
	if !strings.Contains(lite[0].Up, "CREATE TABLE IF NOT EXISTS todos") {
		t.Fatalf("sqlite migration does not create todos: %q", lite[0].Up)
	}
}
