// Package mockdata generates deterministic synthetic earthquake observations
// for seeding local databases and tests.
package mockdata

import (
	"database/sql"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
)

type region struct {
	country  string
	place    string
	lat, lon float64
	net      string
}

var regions = []region{
	{"Japan", "Honshu, Japan", 38.3, 142.4, "us"},
	{"Indonesia", "Sumatra, Indonesia", -0.8, 99.9, "us"},
	{"Chile", "Valparaiso, Chile", -33.0, -71.6, "us"},
	{"Peru", "Arequipa, Peru", -16.4, -71.5, "us"},
	{"Mexico", "Oaxaca, Mexico", 16.1, -97.1, "us"},
	{"United States", "Central Alaska", 63.1, -151.0, "ak"},
	{"United States", "Northern California", 38.8, -122.8, "nc"},
	{"Philippines", "Mindanao, Philippines", 7.1, 126.6, "us"},
	{"Papua New Guinea", "New Britain, Papua New Guinea", -5.6, 151.8, "us"},
	{"Tonga", "Tonga Islands", -20.2, -174.5, "us"},
	{"Ecuador", "Esmeraldas, Ecuador", 0.9, -79.7, "us"},
	{"Turkey", "Eastern Turkey", 38.0, 37.2, "us"},
}

var magTypes = []string{"mww", "mb", "ml", "md", "mwr"}

var productTypes = []string{
	",origin,phase-data,",
	",dyfi,origin,phase-data,",
	",losspager,moment-tensor,origin,phase-data,shakemap,",
}

var alertLevels = []string{"green", "yellow", "orange", "red"}

// nullOneIn is the odds of an observation missing its magnitude, and
// separately its depth.
const nullOneIn = 40

// Options controls generation. The same options always produce the same
// observations.
type Options struct {
	Seed  uint64
	Count int
	Start time.Time     // earliest event time
	Span  time.Duration // events are spread over [Start, Start+Span)
}

// Generate returns opts.Count observations.
func Generate(opts Options) []domain.Observation {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	span := opts.Span
	if span <= 0 {
		span = 4 * 365 * 24 * time.Hour
	}

	out := make([]domain.Observation, opts.Count)
	for i := range out {
		r := regions[rng.IntN(len(regions))]
		ts := opts.Start.Add(time.Duration(rng.Int64N(int64(span)))).UTC().Truncate(time.Second)

		// Gutenberg-Richter style tail: small events dominate.
		mag := round(2.5+rng.ExpFloat64()*0.9, 1)
		mag = math.Min(mag, 9.1)

		depth := round(rng.ExpFloat64()*60, 2)
		if rng.IntN(12) == 0 {
			depth = round(300+rng.Float64()*350, 2)
		}

		o := domain.Observation{
			ID:        fmt.Sprintf("%s%08d", r.net, i+1),
			Time:      ts,
			Year:      ts.Year(),
			Month:     int(ts.Month()),
			DayOfWeek: ts.Weekday().String(),
			Mag:       sql.NullFloat64{Float64: mag, Valid: true},
			MagType:   magTypes[rng.IntN(len(magTypes))],
			Depth:     sql.NullFloat64{Float64: depth, Valid: true},
			Latitude:  round(r.lat+rng.NormFloat64()*1.5, 4),
			Longitude: round(r.lon+rng.NormFloat64()*1.5, 4),
			Place:     r.place,
			Country:   r.country,
			Net:       r.net,
			Status:    domain.StatusReviewed,
			Type:      "earthquake",
			Types:     productTypes[rng.IntN(len(productTypes))],
		}

		if rng.IntN(5) == 0 {
			o.Status = domain.StatusAutomatic
		}
		if rng.IntN(40) == 0 {
			o.Type = "quarry blast"
		}
		if mag >= 6.5 && rng.IntN(3) == 0 {
			o.Tsunami = 1
		}
		if mag >= 5.5 {
			level := min(int((mag-5.5)/0.8), len(alertLevels)-1)
			o.Alert = sql.NullString{String: alertLevels[level], Valid: true}
		}
		if rng.IntN(10) != 0 {
			o.Nst = sql.NullInt64{Int64: int64(10 + rng.IntN(300)), Valid: true}
		}
		if rng.IntN(10) != 0 {
			o.Gap = sql.NullFloat64{Float64: round(rng.Float64()*200, 1), Valid: true}
		}
		if rng.IntN(10) != 0 {
			o.Rms = sql.NullFloat64{Float64: round(rng.Float64()*1.2, 2), Valid: true}
		}

		// Some catalog entries lack a magnitude or a depth solution.
		if rng.IntN(nullOneIn) == 0 {
			o.Mag = sql.NullFloat64{}
			o.Tsunami = 0
			o.Alert = sql.NullString{}
		}
		if rng.IntN(nullOneIn) == 0 {
			o.Depth = sql.NullFloat64{}
		}

		out[i] = o
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
