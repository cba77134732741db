package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

//go:embed schema_postgres.sql
var postgresSchemaSQL string

const (
	postgresDriver     = "pgx"
	defaultPostgresDSN = "postgres://localhost/eds?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OpenPostgres connects to dsn (defaultPostgresDSN when empty) and ensures
// the snapshots table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	openMu.Lock()
	db, err := sqlOpen(postgresDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyPostgresSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, dialect: dialectPostgres}, nil
}

func applyPostgresSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(postgresSchemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}
