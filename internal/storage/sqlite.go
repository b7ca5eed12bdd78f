package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"expenses/internal/log"
	"expenses/internal/persistence"

	_ "modernc.org/sqlite"
)

// SQLiteGateway stores blobs in a single-table SQLite database.
type SQLiteGateway struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

var _ persistence.Gateway = (*SQLiteGateway)(nil)

// NewSQLiteGateway opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteGateway(dbPath string, logger *log.Logger) (*SQLiteGateway, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteGateway{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// Path returns the database file location.
func (g *SQLiteGateway) Path() string {
	return g.path
}

func (g *SQLiteGateway) Read(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := g.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read key %q: %w", key, err)
	}
	g.logger.DebugContext(ctx, "Read blob", log.FieldOperation, log.OpRead, log.FieldKey, key, log.FieldBytes, len(value))
	return value, nil
}

func (g *SQLiteGateway) Write(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	g.logger.DebugContext(ctx, "Wrote blob", log.FieldOperation, log.OpWrite, log.FieldKey, key, log.FieldBytes, len(value))
	return nil
}

func (g *SQLiteGateway) Delete(ctx context.Context, key string) error {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	g.logger.DebugContext(ctx, "Deleted blob", log.FieldOperation, log.OpDelete, log.FieldKey, key)
	return nil
}
