// Package catalog holds the fixed menu of analytical queries over the
// earthquake table.
//
// Every query is identified by a [QueryID] and described by an immutable
// [Definition]. Templates are static SQL: no user-supplied value is ever
// interpolated into them. The KPI aggregate ([KPIQuery]) is the exception and
// embeds the numeric magnitude bounds.
package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
)

// ErrUnknownQuery is returned when a query ID or key is not in the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// Table is the single table every query reads.
const Table = "earthquake"

// Dialect selects SQL variants for the target database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// QueryID enumerates the catalog entries in menu order.
type QueryID int

const (
	TopStrongest QueryID = iota
	TopDeepest
	ShallowStrong
	AvgMagByMagType
	BusiestYear
	BusiestMonth
	BusiestWeekday
	CountByHour
	BusiestNetwork
	ReviewedVsAutomatic
	CountByType
	CountByDatatype
	HighStationCoverage
	TsunamisPerYear
	AlertLevels
	TopCountriesLatestYear
	DualDepthRegime
	MostActiveRegions
	EquatorialDepth
	TsunamiMagnitudeDelta
	LowReliability
	DeepFocus

	queryCount
)

// Definition is an immutable catalog entry.
type Definition struct {
	ID    QueryID
	Key   string // stable URL-safe identifier
	Label string // menu text
	SQL   string

	// SQLiteSQL replaces SQL on SQLite when the portable form is not accepted.
	SQLiteSQL string
}

// Text returns the SQL to execute on the given dialect.
func (d Definition) Text(dialect Dialect) string {
	if dialect == SQLite && d.SQLiteSQL != "" {
		return d.SQLiteSQL
	}
	return d.SQL
}

func (id QueryID) valid() bool { return id >= 0 && id < queryCount }

// String returns the query key.
func (id QueryID) String() string {
	if !id.valid() {
		return "query(" + strconv.Itoa(int(id)) + ")"
	}
	return definitions[id].Key
}

// Lookup returns the definition for id.
func Lookup(id QueryID) (Definition, error) {
	if !id.valid() {
		return Definition{}, fmt.Errorf("%w: id %d", ErrUnknownQuery, int(id))
	}
	return definitions[id], nil
}

// ParseKey resolves a stable query key.
func ParseKey(key string) (QueryID, error) {
	id, ok := byKey[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuery, key)
	}
	return id, nil
}

// All returns every definition in menu order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions[:])
	return out
}

var byKey = func() map[string]QueryID {
	m := make(map[string]QueryID, len(definitions))
	for i, d := range definitions {
		m[d.Key] = QueryID(i)
	}
	return m
}()

// KPIQuery returns the summary aggregate over rows whose magnitude lies in r.
// The bounds are formatted into the SQL text, so r must be validated first.
func KPIQuery(r domain.MagnitudeRange) string {
	return fmt.Sprintf(`SELECT
    COUNT(*) AS total_eq,
    ROUND(CAST(AVG(mag) AS NUMERIC), 2) AS avg_mag,
    MAX(mag) AS max_mag,
    COALESCE(SUM(tsunami), 0) AS tsunami_events
FROM earthquake
WHERE mag BETWEEN %s AND %s`, formatBound(r.Min), formatBound(r.Max))
}

// AllDataQuery returns the "All Data" listing capped at limit rows.
func AllDataQuery(limit int) string {
	return "SELECT * FROM earthquake LIMIT " + strconv.Itoa(limit)
}

// YearsQuery lists the distinct years, ascending.
const YearsQuery = `SELECT DISTINCT year FROM earthquake WHERE year IS NOT NULL ORDER BY year`

// MagnitudeBoundsQuery returns the global magnitude bounds.
const MagnitudeBoundsQuery = `SELECT MIN(mag) AS min_mag, MAX(mag) AS max_mag FROM earthquake`

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
