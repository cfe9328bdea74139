package mockdata

import (
	"testing"
	"time"

	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(Options{Seed: 42, Count: 200, Start: start})
	b := Generate(Options{Seed: 42, Count: 200, Start: start})

	assert.Equal(t, a, b)
}

func TestGenerate_SeedChangesOutput(t *testing.T) {
	a := Generate(Options{Seed: 1, Count: 50, Start: start})
	b := Generate(Options{Seed: 2, Count: 50, Start: start})

	assert.NotEqual(t, a, b)
}

func TestGenerate_FieldsAreConsistent(t *testing.T) {
	obs := Generate(Options{Seed: 7, Count: 500, Start: start, Span: 365 * 24 * time.Hour})
	require.Len(t, obs, 500)

	ids := map[string]bool{}
	for _, o := range obs {
		assert.False(t, ids[o.ID], "duplicate id %s", o.ID)
		ids[o.ID] = true

		assert.Equal(t, o.Time.Year(), o.Year)
		assert.Equal(t, int(o.Time.Month()), o.Month)
		assert.Equal(t, o.Time.Weekday().String(), o.DayOfWeek)
		assert.False(t, o.Time.Before(start))

		if o.Mag.Valid {
			assert.GreaterOrEqual(t, o.Mag.Float64, 2.5)
			assert.LessOrEqual(t, o.Mag.Float64, 9.1)
		} else {
			assert.Zero(t, o.Tsunami)
			assert.False(t, o.Alert.Valid)
		}
		assert.GreaterOrEqual(t, o.Depth.Float64, 0.0)

		assert.Contains(t, []string{domain.StatusReviewed, domain.StatusAutomatic}, o.Status)
		assert.Contains(t, []int{0, 1}, o.Tsunami)
		if o.Tsunami == 1 {
			assert.GreaterOrEqual(t, o.Mag.Float64, 6.5)
		}
		if o.Alert.Valid {
			assert.GreaterOrEqual(t, o.Mag.Float64, 5.5)
		}
	}
}

func TestGenerate_SomeMagnitudesAndDepthsAreNull(t *testing.T) {
	obs := Generate(Options{Seed: 3, Count: 2000, Start: start})

	var nullMag, nullDepth int
	for _, o := range obs {
		if !o.Mag.Valid {
			nullMag++
		}
		if !o.Depth.Valid {
			nullDepth++
		}
	}
	assert.Positive(t, nullMag)
	assert.Positive(t, nullDepth)
	assert.Less(t, nullMag, len(obs)/10)
	assert.Less(t, nullDepth, len(obs)/10)
}

func TestGenerate_Zero(t *testing.T) {
	assert.Empty(t, Generate(Options{Seed: 1, Start: start}))
}
