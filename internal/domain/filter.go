package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// AllYears is the year selection that disables the year filter.
const AllYears = 0

// ErrInvalidFilter is returned for filter selections that cannot be applied.
var ErrInvalidFilter = errors.New("invalid filter")

// MagnitudeRange is an inclusive [Min, Max] magnitude interval.
type MagnitudeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether mag lies within the inclusive range.
func (r MagnitudeRange) Contains(mag float64) bool {
	return mag >= r.Min && mag <= r.Max
}

// Validate rejects non-finite bounds and inverted ranges.
func (r MagnitudeRange) Validate() error {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: magnitude bound %v is not finite", ErrInvalidFilter, v)
		}
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: min magnitude %v exceeds max %v", ErrInvalidFilter, r.Min, r.Max)
	}
	return nil
}

// FilterOptions are the choices offered by the filter controls.
type FilterOptions struct {
	Years     []int          `json:"years"`
	Magnitude MagnitudeRange `json:"magnitude"`
}

// HasYear reports whether year is one of the offered years.
func (o FilterOptions) HasYear(year int) bool {
	return slices.Contains(o.Years, year)
}

// FilterState is the user's current selection. It is passed explicitly with
// every interaction and never stored.
type FilterState struct {
	Year      int            `json:"year"` // AllYears or a specific year
	Magnitude MagnitudeRange `json:"magnitude"`
}

// NewFilterState returns the initial selection: all years, full magnitude range.
func NewFilterState(opts FilterOptions) FilterState {
	return FilterState{Year: AllYears, Magnitude: opts.Magnitude}
}

// YearSelected reports whether a specific year is selected.
func (f FilterState) YearSelected() bool {
	return f.Year != AllYears
}

// Validate checks the selection is applicable.
func (f FilterState) Validate() error {
	if f.Year < 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidFilter, f.Year)
	}
	return f.Magnitude.Validate()
}

// ApplyFilter post-filters a result set on its output columns:
//
//   - with a specific year selected and a "year" column present, only rows of
//     that year are kept;
//   - with a "mag" column present, only rows whose magnitude lies in the
//     inclusive range are kept.
//
// Rows whose filtered column is NULL are dropped. Result sets carrying
// neither column are returned unchanged. The input is not modified.
func ApplyFilter(rs ResultSet, f FilterState) ResultSet {
	yearIdx := -1
	if f.YearSelected() {
		yearIdx = rs.ColumnIndex(ColumnYear)
	}
	magIdx := rs.ColumnIndex(ColumnMag)

	if yearIdx < 0 && magIdx < 0 {
		return rs
	}

	rows := make([]Row, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if yearIdx >= 0 && !yearMatches(row[yearIdx], f.Year) {
			continue
		}
		if magIdx >= 0 {
			mag, ok := AsFloat(row[magIdx])
			if !ok || !f.Magnitude.Contains(mag) {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rs.withRows(rows)
}

func yearMatches(v any, year int) bool {
	y, ok := AsFloat(v)
	return ok && y == float64(year)
}

// KPIs are the summary metrics shown above the dashboard, computed over rows
// whose magnitude lies in Range.
type KPIs struct {
	Range            MagnitudeRange `json:"range"`
	TotalEarthquakes int64          `json:"total_eq"`
	AvgMagnitude     *float64       `json:"avg_mag"`
	MaxMagnitude     *float64       `json:"max_mag"`
	TsunamiEvents    int64          `json:"tsunami_events"`
}

// KPIsFromResult reads the single-row KPI aggregate.
func KPIsFromResult(rs ResultSet, r MagnitudeRange) (KPIs, error) {
	if rs.Len() != 1 {
		return KPIs{}, fmt.Errorf("kpi aggregate returned %d rows, want 1", rs.Len())
	}
	if !rs.HasColumns("total_eq", "avg_mag", "max_mag", "tsunami_events") {
		return KPIs{}, fmt.Errorf("kpi aggregate missing columns, got %v", rs.ColumnNames())
	}
	row := rs.Rows[0]
	k := KPIs{Range: r}

	if v, ok := AsInt(row[rs.ColumnIndex("total_eq")]); ok {
		k.TotalEarthquakes = v
	}
	if v, ok := AsFloat(row[rs.ColumnIndex("avg_mag")]); ok {
		k.AvgMagnitude = &v
	}
	if v, ok := AsFloat(row[rs.ColumnIndex("max_mag")]); ok {
		k.MaxMagnitude = &v
	}
	if v, ok := AsInt(row[rs.ColumnIndex("tsunami_events")]); ok {
		k.TsunamiEvents = v
	}
	return k, nil
}
