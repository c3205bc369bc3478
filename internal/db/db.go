package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver

	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// Database owns the process-wide connection handle
type Database struct {
	DB          *sql.DB
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	Location    string
}

// Open connects to the configured database and verifies the connection.
// Failures wrap apperrors.ErrDatabaseUnavailable.
func Open(ctx context.Context, cfg *config.Config) (*Database, error) {
	driverName, dsn, placeholder := dataSource(cfg)

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", apperrors.ErrDatabaseUnavailable, cfg.DatabaseLocation(), err)
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour))
	default:
		// One embedded connection for the whole session
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", apperrors.ErrDatabaseUnavailable, cfg.DatabaseLocation(), err)
	}

	logger.Info().Str("driver", cfg.Database.Driver).Str("location", cfg.DatabaseLocation()).Msg("Database connection established")
	return &Database{
		DB:          sqlDB,
		Driver:      cfg.Database.Driver,
		Placeholder: placeholder,
		Location:    cfg.DatabaseLocation(),
	}, nil
}

// dataSource maps the configured driver onto a database/sql driver name, DSN and placeholder style
func dataSource(cfg *config.Config) (string, string, squirrel.PlaceholderFormat) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return "pgx", cfg.GetPostgresConnectionString(), squirrel.Dollar
	case config.DriverDuckDB:
		return "duckdb", cfg.Database.Path, squirrel.Question
	default:
		return "sqlite3", "file:" + cfg.Database.Path + "?_foreign_keys=on", squirrel.Question
	}
}

// Wrap adopts an already open handle, mainly for tests
func Wrap(sqlDB *sql.DB, driver string) *Database {
	placeholder := squirrel.PlaceholderFormat(squirrel.Question)
	if driver == config.DriverPostgres {
		placeholder = squirrel.Dollar
	}
	return &Database{DB: sqlDB, Driver: driver, Placeholder: placeholder, Location: driver}
}

// StatementBuilder returns a squirrel builder using the driver's placeholder style
func (d *Database) StatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Close closing method
func (d *Database) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs a function within a transaction
func (d *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
