package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/noah-isme/plan-conflicts-api/pkg/config"
)

// NewSQLite opens a read-only handle on a local planning database file.
func NewSQLite(cfg config.SQLiteConfig) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	db, err := sqlx.Open("sqlite3", SQLiteDSN(cfg))
	if err != nil {
		return nil, err
	}
	// the planning database is opened read-only; one connection is enough.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// SQLiteDSN builds the go-sqlite3 file URI for cfg.
func SQLiteDSN(cfg config.SQLiteConfig) string {
	return fmt.Sprintf("file:%s?mode=ro&_foreign_keys=on", cfg.Path)
}
