// Package domain models earthquake observations and the query-and-filter
// pipeline that turns a dashboard selection into render-ready output.
//
// # Data Source
//
// Observations live in a single relational table named "earthquake", one row
// per event, in the shape of the USGS earthquake catalog feed. The dashboard
// only ever reads that table.
//
// # Catalog Conventions
//
// Magnitude:
//
//	"mag" is a decimal magnitude; "magType" names the scale it was measured on
//	(mww, mb, ml, md, ...). Magnitudes from different scales are not strictly
//	comparable but the dashboard treats them as one numeric axis.
//
// Depth:
//
//	Kilometres below the surface. Events shallower than 70 km are "shallow",
//	deeper than 300 km are "deep focus".
//
// Review status:
//
//	"status" is "reviewed" once a seismologist has confirmed the solution,
//	"automatic" before that. "net" is the contributing network code (us, ak,
//	ci, ...). "nst", "gap" and "rms" describe solution quality and may be NULL.
//
// Alert:
//
//	PAGER alert level (green, yellow, orange, red) or NULL when no alert was
//	issued. "tsunami" is 1 when a tsunami bulletin was associated, else 0.
//
// # Filtering
//
// Two strategies coexist. The KPI aggregate embeds the magnitude range in its
// SQL (push-down). Every catalog query is filtered afterwards on its output
// columns (post-filter, see [ApplyFilter]), so grouped results are only
// narrowed when their rows still carry a "year" or "mag" column.
//
// # Rendering
//
// Every result is rendered as a table. [Capabilities] decides from the result
// schema whether a bar chart (first numeric column) and a scatter map
// ("latitude" and "longitude" present) are rendered too; [Dispatch] builds the
// views and falls back to informational placeholders.
package domain
