package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-unicms/internal/records"
)

var (
	ErrDSNRequired    = errors.New("storage: dsn is required")
	ErrUnknownDialect = errors.New("storage: unknown dialect")
)

// Dialects understood by Open.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Config selects the database behind the bun record store.
type Config struct {
	Dialect string
	DSN     string
}

// NormalizeDialect maps driver aliases onto the dialect names.
func NormalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
}

// Open connects to the configured database and pings it.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}
	dialect, err := NormalizeDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	var db *bun.DB
	switch dialect {
	case DialectPostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite allows one writer; in-memory databases also die with their
		// last connection.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", dialect, err)
	}
	return db, nil
}

// Migrate creates the record table and its lookup indexes. It is safe to
// run on every start.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: db is nil")
	}
	if _, err := db.NewCreateTable().Model((*records.Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("storage: create content_records: %w", err)
	}
	indexes := []struct {
		name    string
		columns []string
	}{
		{"idx_content_records_entity_parent", []string{"entity_type", "parent_id"}},
		{"idx_content_records_entity_key", []string{"entity_type", "key"}},
		{"idx_content_records_entity_active", []string{"entity_type", "is_active", "sort_order"}},
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model((*records.Record)(nil)).
			Index(idx.name).
			IfNotExists().
			Column(idx.columns...).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
