package domain

import (
	"regexp"
	"strconv"
	"time"
)

// Placeholder messages shown instead of a chart or map.
const (
	NoChartMessage = "No numeric data for chart"
	NoMapMessage   = "Map not applicable for this query"
)

// Scatter map presentation constants.
const (
	MapLayerType   = "ScatterplotLayer"
	MapZoom        = 2
	MapPointRadius = 20000
	MapTooltip     = "Place: {place}\nMag: {mag}\nDepth: {depth}"
)

// MapFillColor is the RGB fill of every scatter point.
var MapFillColor = [3]int{255, 80, 80}

// tooltipFieldRe matches {column} references in the tooltip template.
var tooltipFieldRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// RenderMode names a presentation of a result set.
type RenderMode string

const (
	ModeTable RenderMode = "table"
	ModeChart RenderMode = "chart"
	ModeMap   RenderMode = "map"
)

// RenderCapabilities is the typed presentation decision for a result schema.
type RenderCapabilities struct {
	// ChartColumn is the first numeric column, empty when there is none.
	ChartColumn string `json:"chart_column,omitempty"`
	Chart       bool   `json:"chart"`
	Map         bool   `json:"map"`
}

// Modes lists the presentations that will be rendered. The table is always
// first.
func (c RenderCapabilities) Modes() []RenderMode {
	modes := []RenderMode{ModeTable}
	if c.Chart {
		modes = append(modes, ModeChart)
	}
	if c.Map {
		modes = append(modes, ModeMap)
	}
	return modes
}

// Capabilities inspects the result schema. A chart is rendered when at least
// one numeric column exists; a map when both latitude and longitude exist.
func Capabilities(rs ResultSet) RenderCapabilities {
	var c RenderCapabilities
	for _, col := range rs.Columns {
		if col.Kind.Numeric() {
			c.ChartColumn = col.Name
			c.Chart = true
			break
		}
	}
	c.Map = rs.HasColumns(ColumnLatitude, ColumnLongitude)
	return c
}

// TableView is the tabular presentation; it is always rendered.
type TableView struct {
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
	RowCount int      `json:"row_count"`
}

// ChartPoint is one bar; Label is the row position.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is a named sequence of bars.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartView is a single-series bar chart.
type ChartView struct {
	ChartType string        `json:"chart_type"`
	YAxis     string        `json:"y_axis"`
	Series    []ChartSeries `json:"series"`
}

// GeoPoint is a WGS-84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapLayer describes how scatter points are drawn.
type MapLayer struct {
	Type      string  `json:"type"`
	Radius    float64 `json:"radius"`
	FillColor [3]int  `json:"fill_color"`
	Pickable  bool    `json:"pickable"`
}

// MapPoint is one plotted event with its expanded tooltip.
type MapPoint struct {
	GeoPoint
	Tooltip string `json:"tooltip"`
}

// MapView is the scatter map presentation.
type MapView struct {
	Center      GeoPoint   `json:"center"`
	CenterLabel string     `json:"center_label,omitempty"`
	Zoom        int        `json:"zoom"`
	Layer       MapLayer   `json:"layer"`
	Tooltip     string     `json:"tooltip"`
	Points      []MapPoint `json:"points"`
}

// Rendering is everything the front end needs to draw one query result.
type Rendering struct {
	Query        string             `json:"query,omitempty"`
	Label        string             `json:"label,omitempty"`
	Filter       FilterState        `json:"filter"`
	Capabilities RenderCapabilities `json:"capabilities"`

	Table TableView `json:"table"`

	Chart       *ChartView `json:"chart,omitempty"`
	ChartNotice string     `json:"chart_notice,omitempty"`

	Map       *MapView `json:"map,omitempty"`
	MapNotice string   `json:"map_notice,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Dispatch renders an already filtered result set: always a table, plus a
// chart and a map when the schema allows, otherwise a placeholder notice.
func Dispatch(rs ResultSet) Rendering {
	caps := Capabilities(rs)
	r := Rendering{
		Capabilities: caps,
		Table:        BuildTable(rs),
	}

	if caps.Chart {
		chart := BuildChart(rs, caps.ChartColumn)
		r.Chart = &chart
	} else {
		r.ChartNotice = NoChartMessage
	}

	if caps.Map {
		m := BuildMap(rs)
		r.Map = &m
	} else {
		r.MapNotice = NoMapMessage
	}
	return r
}

// BuildTable returns the table view of a result set.
func BuildTable(rs ResultSet) TableView {
	rows := rs.Rows
	if rows == nil {
		rows = []Row{}
	}
	return TableView{
		Columns:  rs.Columns,
		Rows:     rows,
		RowCount: len(rows),
	}
}

// BuildChart plots the named column as a bar per row. NULL cells produce no
// bar but keep their position.
func BuildChart(rs ResultSet, column string) ChartView {
	idx := rs.ColumnIndex(column)
	points := make([]ChartPoint, 0, rs.Len())
	if idx >= 0 {
		for i, row := range rs.Rows {
			v, ok := AsFloat(row[idx])
			if !ok {
				continue
			}
			points = append(points, ChartPoint{Label: strconv.Itoa(i), Value: v})
		}
	}
	return ChartView{
		ChartType: "bar",
		YAxis:     column,
		Series:    []ChartSeries{{Name: column, Data: points}},
	}
}

// BuildMap plots every row with both coordinates. The view is centred on the
// mean of the non-null latitudes and longitudes; with no coordinates at all
// the centre stays at 0,0 and no points are plotted.
func BuildMap(rs ResultSet) MapView {
	latIdx := rs.ColumnIndex(ColumnLatitude)
	lonIdx := rs.ColumnIndex(ColumnLongitude)

	var (
		latSum, lonSum float64
		latN, lonN     int
	)
	points := make([]MapPoint, 0, rs.Len())
	for _, row := range rs.Rows {
		lat, latOK := AsFloat(row[latIdx])
		lon, lonOK := AsFloat(row[lonIdx])
		if latOK {
			latSum += lat
			latN++
		}
		if lonOK {
			lonSum += lon
			lonN++
		}
		if latOK && lonOK {
			points = append(points, MapPoint{
				GeoPoint: GeoPoint{Latitude: lat, Longitude: lon},
				Tooltip:  ExpandTooltip(rs, row, MapTooltip),
			})
		}
	}

	var center GeoPoint
	if latN > 0 {
		center.Latitude = latSum / float64(latN)
	}
	if lonN > 0 {
		center.Longitude = lonSum / float64(lonN)
	}

	return MapView{
		Center: center,
		Zoom:   MapZoom,
		Layer: MapLayer{
			Type:      MapLayerType,
			Radius:    MapPointRadius,
			FillColor: MapFillColor,
			Pickable:  true,
		},
		Tooltip: MapTooltip,
		Points:  points,
	}
}

// ExpandTooltip substitutes {column} references with the row's values.
// References to columns the result does not carry are left as written.
func ExpandTooltip(rs ResultSet, row Row, tmpl string) string {
	return tooltipFieldRe.ReplaceAllStringFunc(tmpl, func(ref string) string {
		idx := rs.ColumnIndex(ref[1 : len(ref)-1])
		if idx < 0 {
			return ref
		}
		return FormatValue(row[idx])
	})
}
