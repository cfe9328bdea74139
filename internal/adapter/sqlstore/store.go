// Package sqlstore executes read-only SQL against the earthquake table and
// returns typed result sets. PostgreSQL (pgx) and SQLite (modernc) are
// supported through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register the pure-Go sqlite driver

	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrEmptyCatalog is returned when the table holds no magnitudes, so the
// magnitude filter has no bounds.
var ErrEmptyCatalog = errors.New("earthquake table has no magnitudes")

// Options configures the connection pool.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	QueryTimeout time.Duration
}

// Store is the data source adapter. It is safe for concurrent use; the
// underlying *sql.DB is a connection pool shared by all sessions.
type Store struct {
	db      *sql.DB
	dialect catalog.Dialect
	timeout time.Duration
	logger  *slog.Logger
}

// Open connects to the configured database and verifies it is reachable.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	driverName, dialect, err := resolveDriver(opts.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	logger.Info("database connected", "driver", opts.Driver, "max_open_conns", opts.MaxOpenConns)
	return New(db, dialect, opts.QueryTimeout, logger), nil
}

// New wraps an existing pool. A zero timeout leaves queries bounded only by
// the caller's context.
func New(db *sql.DB, dialect catalog.Dialect, timeout time.Duration, logger *slog.Logger) *Store {
	return &Store{db: db, dialect: dialect, timeout: timeout, logger: logger}
}

func resolveDriver(driver string) (string, catalog.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", catalog.Postgres, nil
	case DriverSQLite:
		return "sqlite", catalog.SQLite, nil
	default:
		return "", 0, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Dialect reports which SQL variants the store expects.
func (s *Store) Dialect() catalog.Dialect { return s.dialect }

// DB exposes the pool for tooling that seeds or inspects the table.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the pool.
func (s *Store) Close() error { return s.db.Close() }

// CheckReadiness pings the database and checks the earthquake table is queryable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM earthquake LIMIT 1").Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("query earthquake table: %w", err)
	}
	return nil
}

// Execute runs a complete SQL statement and returns every row. A failure
// yields no partial result.
func (s *Store) Execute(ctx context.Context, sqlText string) (domain.ResultSet, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	rs, err := scanResultSet(rows)
	if err != nil {
		return domain.ResultSet{}, err
	}

	s.logger.Debug("query executed", "rows", rs.Len(), "columns", len(rs.Columns))
	return rs, nil
}

// LoadYears returns the distinct non-null years, ascending.
func (s *Store) LoadYears(ctx context.Context) ([]int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, catalog.YearsQuery)
	if err != nil {
		return nil, fmt.Errorf("load years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y sql.NullInt64
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		if y.Valid {
			years = append(years, int(y.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load years: %w", err)
	}
	return years, nil
}

// LoadMagnitudeBounds returns the global min and max magnitude. An empty
// table is reported as ErrEmptyCatalog rather than a zero range.
func (s *Store) LoadMagnitudeBounds(ctx context.Context) (domain.MagnitudeRange, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var lo, hi sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, catalog.MagnitudeBoundsQuery).Scan(&lo, &hi); err != nil {
		return domain.MagnitudeRange{}, fmt.Errorf("load magnitude bounds: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return domain.MagnitudeRange{}, ErrEmptyCatalog
	}
	return domain.MagnitudeRange{Min: lo.Float64, Max: hi.Float64}, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
