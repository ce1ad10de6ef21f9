package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and tunes the database backend.
type Config struct {
	Driver      string        `mapstructure:"driver"`
	DSN         string        `mapstructure:"dsn"`
	MaxConns    int32         `mapstructure:"max_conns"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Open connects to the configured database, runs Migrate and returns the
// store. SQLite (modernc.org/sqlite, no cgo) is the default driver.
func Open(ctx context.Context, cfg Config, opts ...Option) (*SQLStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		store *SQLStore
		err   error
	)
	switch driver {
	case DriverSQLite:
		store, err = openSQLite(cfg, o)
	case DriverPostgres, "pgx", "postgresql":
		store, err = openPostgres(ctx, cfg, o)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func openSQLite(cfg Config, o options) (*SQLStore, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	o.logger.Info("opening database", zap.String("driver", DriverSQLite), zap.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return newSQLStore(db, dialectSQLite, o, nil), nil
}

func openPostgres(ctx context.Context, cfg Config, o options) (*SQLStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store: postgres dsn is required")
	}
	o.logger.Info("connecting to database", zap.String("driver", DriverPostgres))

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "expatform"

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		o.logger.Error("failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	return newSQLStore(db, dialectPostgres, o, pool.Close), nil
}
