package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pagebuilder/internal/domain"
)

// DB is a SQL-backed slot store: one row per slot key holding the whole
// serialized page document.
type DB struct {
	conn    *sql.DB
	dialect dialect
}

// New creates a new DB, opening (or creating) the SQLite file at dbPath.
func New(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, errors.New("open sqlite: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer: limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	return newDB(conn, sqliteDialect)
}

// NewSQL opens a slot store on any database/sql driver registered in this
// package (postgres, mysql).
func NewSQL(driverName, dsn string, d dialect) (*DB, error) {
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	return newDB(conn, d)
}

func newDB(conn *sql.DB, d dialect) (*DB, error) {
	db := &DB{conn: conn, dialect: d}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	for _, m := range db.dialect.migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", head(m, 40), err)
		}
	}
	return nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ── SlotStore ────────────────────────────────────────────────

// Get returns the document stored under key.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, db.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put replaces the document stored under key.
func (db *DB) Put(ctx context.Context, key string, data []byte) error {
	now := time.Now().UTC()
	if _, err := db.conn.ExecContext(ctx, db.dialect.upsert, key, string(data), now); err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored slot key, most recently written first.
func (db *DB) Keys(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, db.dialect.keys)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan slot key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
