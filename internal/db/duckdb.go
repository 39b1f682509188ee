// Package db owns the embedded DuckDB database backing the gazetteer.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Open creates (or reopens) the DuckDB database under the data
// directory. The handle is owned by the caller; close it on shutdown.
func Open(cfg Config) (*sql.DB, error) {
	duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
	if err := os.MkdirAll(duckdbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
	}

	dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
