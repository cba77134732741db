package store

import (
	"context"
	"fmt"
	"os"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const defaultSQLitePath = "eds.db"

// Config selects and locates a backend.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
}

// ConfigFromEnv reads the backend from the environment. Defaults to sqlite
// at ./eds.db.
//
//	EDS_STORAGE_DRIVER: sqlite|postgres (default sqlite)
//	EDS_SQLITE_PATH: path to the sqlite file (default ./eds.db)
//	EDS_POSTGRES_DSN: postgres DSN when driver=postgres
func ConfigFromEnv() Config {
	return Config{
		Driver:      Driver(os.Getenv("EDS_STORAGE_DRIVER")),
		SQLitePath:  os.Getenv("EDS_SQLITE_PATH"),
		PostgresDSN: os.Getenv("EDS_POSTGRES_DSN"),
	}
}

// OpenConfig opens the backend cfg names.
func OpenConfig(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = defaultSQLitePath
		}
		return Open(path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// OpenFromEnv opens the backend named by the environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	return OpenConfig(ctx, ConfigFromEnv())
}
