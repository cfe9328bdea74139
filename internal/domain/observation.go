package domain

import (
	"database/sql"
	"time"
)

// Column names the pipeline inspects in result sets.
const (
	ColumnYear      = "year"
	ColumnMag       = "mag"
	ColumnLatitude  = "latitude"
	ColumnLongitude = "longitude"
	ColumnPlace     = "place"
	ColumnDepth     = "depth"
)

// Observation is one earthquake event as stored in the earthquake table.
type Observation struct {
	ID        string
	Time      time.Time
	Year      int
	Month     int
	DayOfWeek string

	Mag     sql.NullFloat64
	MagType string
	Depth   sql.NullFloat64

	Latitude  float64
	Longitude float64
	Place     string
	Country   string

	Net     string
	Status  string // "reviewed" or "automatic"
	Type    string // "earthquake", "quarry blast", ...
	Types   string // comma-separated product types
	Tsunami int    // 0 or 1

	Nst   sql.NullInt64
	Gap   sql.NullFloat64
	Rms   sql.NullFloat64
	Alert sql.NullString
}

// Review statuses used by the catalog feed.
const (
	StatusReviewed  = "reviewed"
	StatusAutomatic = "automatic"
)
