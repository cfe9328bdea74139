package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
)

// SQLiteTimeLayout is how event times are stored as text on SQLite. The
// driver parses it back into time.Time for TIMESTAMP columns.
const SQLiteTimeLayout = "2006-01-02 15:04:05"

const postgresSchema = `CREATE TABLE IF NOT EXISTS earthquake (
    id          TEXT PRIMARY KEY,
    "time"      TIMESTAMPTZ NOT NULL,
    year        INTEGER,
    month       INTEGER,
    day_of_week TEXT,
    mag         DOUBLE PRECISION,
    "magType"   TEXT,
    depth       DOUBLE PRECISION,
    latitude    DOUBLE PRECISION,
    longitude   DOUBLE PRECISION,
    place       TEXT,
    country     TEXT,
    net         TEXT,
    status      TEXT,
    type        TEXT,
    types       TEXT,
    tsunami     INTEGER NOT NULL DEFAULT 0,
    nst         INTEGER,
    gap         DOUBLE PRECISION,
    rms         DOUBLE PRECISION,
    alert       TEXT
)`

const sqliteSchema = `CREATE TABLE IF NOT EXISTS earthquake (
    id          TEXT PRIMARY KEY,
    "time"      TIMESTAMP NOT NULL,
    year        INTEGER,
    month       INTEGER,
    day_of_week TEXT,
    mag         REAL,
    "magType"   TEXT,
    depth       REAL,
    latitude    REAL,
    longitude   REAL,
    place       TEXT,
    country     TEXT,
    net         TEXT,
    status      TEXT,
    type        TEXT,
    types       TEXT,
    tsunami     INTEGER NOT NULL DEFAULT 0,
    nst         INTEGER,
    gap         REAL,
    rms         REAL,
    alert       TEXT
)`

var insertColumns = []string{
	"id", `"time"`, "year", "month", "day_of_week",
	"mag", `"magType"`, "depth", "latitude", "longitude",
	"place", "country", "net", "status", "type", "types",
	"tsunami", "nst", "gap", "rms", "alert",
}

// CreateSchema creates the earthquake table if it does not exist.
func CreateSchema(ctx context.Context, db *sql.DB, dialect catalog.Dialect) error {
	ddl := postgresSchema
	if dialect == catalog.SQLite {
		ddl = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create earthquake table: %w", err)
	}
	return nil
}

// ClearObservations deletes every row so a seeding run can start over.
func ClearObservations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM earthquake"); err != nil {
		return fmt.Errorf("clear earthquake table: %w", err)
	}
	return nil
}

// InsertObservations writes observations in a single transaction. It is used
// by seeding tools and tests; the dashboard itself never writes.
func InsertObservations(ctx context.Context, db *sql.DB, dialect catalog.Dialect, obs []domain.Observation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertStatement(dialect))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range obs {
		o := &obs[i]
		var ts any = o.Time.UTC()
		if dialect == catalog.SQLite {
			ts = o.Time.UTC().Format(SQLiteTimeLayout)
		}
		_, err := stmt.ExecContext(ctx,
			o.ID, ts, o.Year, o.Month, o.DayOfWeek,
			o.Mag, o.MagType, o.Depth, o.Latitude, o.Longitude,
			o.Place, o.Country, o.Net, o.Status, o.Type, o.Types,
			o.Tsunami, o.Nst, o.Gap, o.Rms, o.Alert,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func insertStatement(dialect catalog.Dialect) string {
	placeholders := make([]string, len(insertColumns))
	for i := range placeholders {
		if dialect == catalog.SQLite {
			placeholders[i] = "?"
		} else {
			placeholders[i] = "$" + strconv.Itoa(i+1)
		}
	}
	return "INSERT INTO earthquake (" + strings.Join(insertColumns, ", ") +
		") VALUES (" + strings.Join(placeholders, ", ") + ")"
}
