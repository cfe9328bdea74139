package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnKind is the normalized type of a result column.
type ColumnKind string

const (
	KindInteger ColumnKind = "integer"
	KindFloat   ColumnKind = "float"
	KindText    ColumnKind = "text"
	KindTime    ColumnKind = "time"
	KindBool    ColumnKind = "bool"
	KindUnknown ColumnKind = "unknown"
)

// Numeric reports whether values of this kind can be charted.
func (k ColumnKind) Numeric() bool {
	return k == KindInteger || k == KindFloat
}

// Column is a named, typed result column.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Row holds one value per column, in column order. NULL is nil.
type Row []any

// ResultSet is the ordered output of one query execution.
type ResultSet struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (rs ResultSet) Len() int { return len(rs.Rows) }

// ColumnIndex returns the position of the named column, or -1.
func (rs ResultSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the result carries the named column.
func (rs ResultSet) HasColumn(name string) bool {
	return rs.ColumnIndex(name) >= 0
}

// HasColumns reports whether every named column is present.
func (rs ResultSet) HasColumns(names ...string) bool {
	for _, n := range names {
		if !rs.HasColumn(n) {
			return false
		}
	}
	return true
}

// ColumnNames returns the column names in order.
func (rs ResultSet) ColumnNames() []string {
	names := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		names[i] = c.Name
	}
	return names
}

// withRows returns a result set sharing the schema of rs with the given rows.
func (rs ResultSet) withRows(rows []Row) ResultSet {
	return ResultSet{Columns: rs.Columns, Rows: rows}
}

// AsFloat converts a numeric driver value to float64. Text, time and NULL
// values report false.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsInt converts an integral driver value to int64. Floats are accepted when
// they carry no fractional part.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

// FormatValue renders a value the way tooltips and text cells show it.
// NULL renders as "null".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
