package sqlstore

import "fmt"

// Dialect carries the statements that differ between engines.
type Dialect struct {
	Name   string
	Driver string // database/sql driver name

	CreateTable string
	Seed        string // insert-if-absent
	Upsert      string
	Select      string
	SelectAll   string
}

var (
	// SQLite uses the pure Go modernc.org/sqlite driver.
	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite",
		CreateTable: `CREATE TABLE IF NOT EXISTS stock (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		Seed:      `INSERT OR IGNORE INTO stock (name, value) VALUES (?, ?)`,
		Upsert:    `INSERT INTO stock (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		Select:    `SELECT value FROM stock WHERE name = ?`,
		SelectAll: `SELECT name, value FROM stock`,
	}

	// Postgres uses pgx through its database/sql adapter.
	Postgres = Dialect{
		Name:   "postgres",
		Driver: "pgx",
		CreateTable: `CREATE TABLE IF NOT EXISTS stock (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		Seed:      `INSERT INTO stock (name, value) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		Upsert:    `INSERT INTO stock (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`,
		Select:    `SELECT value FROM stock WHERE name = $1`,
		SelectAll: `SELECT name, value FROM stock`,
	}

	// MySQL uses go-sql-driver/mysql. Names are bounded so they can be a primary key.
	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		CreateTable: `CREATE TABLE IF NOT EXISTS stock (
			name VARCHAR(255) NOT NULL PRIMARY KEY,
			value TEXT NOT NULL
		) CHARACTER SET utf8mb4`,
		Seed:      `INSERT IGNORE INTO stock (name, value) VALUES (?, ?)`,
		Upsert:    `INSERT INTO stock (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		Select:    `SELECT value FROM stock WHERE name = ?`,
		SelectAll: `SELECT name, value FROM stock`,
	}
)

// DialectFor resolves a storage driver name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	case Postgres.Name, "pgx":
		return Postgres, nil
	case MySQL.Name:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql dialect %q", name)
	}
}
