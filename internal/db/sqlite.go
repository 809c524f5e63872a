package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a ready-to-use handle: the schema exists before the handle is
// handed out, so callers never see a "server not ready" state.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	handle, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_fk=1")
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; funneling the pool through one
	// connection avoids SQLITE_BUSY under concurrent handlers.
	handle.SetMaxOpenConns(1)

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, err
	}

	if err := Migrate(handle); err != nil {
		handle.Close()
		return nil, err
	}

	return handle, nil
}

type migration struct {
	name string
	stmt string
}

// migrations is an ordered, append-only list. Each entry runs at most once,
// tracked in schema_migrations.
var migrations = []migration{
	{
		name: "001_create_users",
		stmt: `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{name: "002_users_full_name", stmt: `ALTER TABLE users ADD COLUMN full_name TEXT NOT NULL DEFAULT ''`},
	{name: "003_users_email", stmt: `ALTER TABLE users ADD COLUMN email TEXT NOT NULL DEFAULT ''`},
	{name: "004_users_routine", stmt: `ALTER TABLE users ADD COLUMN routine TEXT NOT NULL DEFAULT ''`},
	{name: "005_users_avatar", stmt: `ALTER TABLE users ADD COLUMN avatar TEXT NOT NULL DEFAULT ''`},
	{name: "006_users_phone", stmt: `ALTER TABLE users ADD COLUMN phone TEXT NOT NULL DEFAULT ''`},
	{name: "007_users_programs", stmt: `ALTER TABLE users ADD COLUMN programs TEXT NOT NULL DEFAULT ''`},
	{name: "008_users_age", stmt: `ALTER TABLE users ADD COLUMN age INTEGER NOT NULL DEFAULT 0`},
}

func Migrate(handle *sql.DB) error {
	if _, err := handle.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		if err := handle.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, m.name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", m.name, err)
		}
		if applied > 0 {
			continue
		}
		if _, err := handle.Exec(m.stmt); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := handle.Exec(`INSERT INTO schema_migrations (name) VALUES (?)`, m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
	}

	return nil
}
