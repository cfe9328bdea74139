package sqlstore

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
)

// scanResultSet drains rows into a typed result set.
func scanResultSet(rows *sql.Rows) (domain.ResultSet, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("read column types: %w", err)
	}

	cols := make([]domain.Column, len(types))
	for i, ct := range types {
		cols[i] = domain.Column{Name: ct.Name(), Kind: kindOf(ct.DatabaseTypeName())}
	}

	out := make([]domain.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return domain.ResultSet{}, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(cols[i].Kind, v)
		}
		out = append(out, domain.Row(values))
	}
	if err := rows.Err(); err != nil {
		return domain.ResultSet{}, fmt.Errorf("iterate rows: %w", err)
	}

	// Expression columns carry no declared type on SQLite.
	for i := range cols {
		if cols[i].Kind == domain.KindUnknown {
			cols[i].Kind = inferKind(out, i)
		}
	}
	return domain.ResultSet{Columns: cols, Rows: out}, nil
}

// kindOf maps a driver type name (pgx OID names or SQLite declared types) to
// a column kind.
func kindOf(dbType string) domain.ColumnKind {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "INT2", "INT4", "INT8", "INT", "INTEGER", "SMALLINT", "BIGINT", "TINYINT", "MEDIUMINT":
		return domain.KindInteger
	case "FLOAT4", "FLOAT8", "FLOAT", "REAL", "DOUBLE", "DOUBLE PRECISION", "NUMERIC", "DECIMAL":
		return domain.KindFloat
	case "TEXT", "VARCHAR", "CHAR", "BPCHAR", "CHARACTER", "CHARACTER VARYING", "NAME", "CLOB", "UUID":
		return domain.KindText
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "TIME", "TIMETZ":
		return domain.KindTime
	case "BOOL", "BOOLEAN":
		return domain.KindBool
	default:
		return domain.KindUnknown
	}
}

// normalize converts raw driver values to the types the pipeline handles:
// bytes become strings, numeric text (PostgreSQL NUMERIC) becomes float64,
// and NaN or infinite floats become NULL since JSON cannot carry them.
func normalize(kind domain.ColumnKind, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok {
		switch kind {
		case domain.KindFloat:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				v = f
			}
		case domain.KindInteger:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		}
	}
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

// inferKind types a column from its first non-null value.
func inferKind(rows []domain.Row, col int) domain.ColumnKind {
	for _, row := range rows {
		switch row[col].(type) {
		case nil:
			continue
		case int64, int32, int:
			return domain.KindInteger
		case float64, float32:
			return domain.KindFloat
		case string:
			return domain.KindText
		case time.Time:
			return domain.KindTime
		case bool:
			return domain.KindBool
		default:
			return domain.KindUnknown
		}
	}
	return domain.KindUnknown
}
