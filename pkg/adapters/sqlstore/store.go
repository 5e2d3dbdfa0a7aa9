// Package sqlstore implements the value store on top of database/sql.
//
// Every engine gets the same single table:
//
//	stock(name PRIMARY KEY, value TEXT NOT NULL)
//
// The schema is created on open and never migrated.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/stockcheck/pkg/domain"

	_ "github.com/go-sql-driver/mysql" // register mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// ValueStore implements ports.ValueStore with a SQL table.
type ValueStore struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn with the given dialect and ensures the table exists.
// For sqlite the dsn is a file path; its directory is created if missing.
func Open(ctx context.Context, dialect Dialect, dsn string) (*ValueStore, error) {
	if dialect.Name == SQLite.Name {
		if dsn == "" {
			dsn = "stock.db"
		}
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if dialect.Name == SQLite.Name {
		// One writer at a time; avoids SQLITE_BUSY under the pool.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	s, err := New(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool and ensures the table exists.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*ValueStore, error) {
	if _, err := db.ExecContext(ctx, dialect.CreateTable); err != nil {
		return nil, fmt.Errorf("create stock table: %w", err)
	}
	return &ValueStore{db: db, dialect: dialect}, nil
}

// Get returns the stored value for name.
func (s *ValueStore) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Select, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %q", domain.ErrItemNotFound, name)
		}
		return "", fmt.Errorf("select %q: %w", name, err)
	}
	return value, nil
}

// Set stores value verbatim, creating the row if needed.
func (s *ValueStore) Set(ctx context.Context, name, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, name, value); err != nil {
		return fmt.Errorf("upsert %q: %w", name, err)
	}
	return nil
}

// EnsureSeeded inserts the default row for every missing name in one transaction.
func (s *ValueStore) EnsureSeeded(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.dialect.Seed)
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name, domain.DefaultValue); err != nil {
			return fmt.Errorf("seed %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// Snapshot returns every row.
func (s *ValueStore) Snapshot(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.SelectAll)
	if err != nil {
		return nil, fmt.Errorf("select stock: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}
	return out, nil
}

// Close closes the connection pool.
func (s *ValueStore) Close() error {
	return s.db.Close()
}
