//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Sendai, Japan.
	result, err := c.ReverseGeocode(context.Background(), 38.2682, 140.8694)
	require.NoError(t, err)

	assert.Contains(t, result.FormattedAddress, "Japan")
	assert.NotEmpty(t, result.PlaceName)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_ReverseGeocode_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	// The middle of the South Pacific may have no named place; either way no error.
	_, err := c.ReverseGeocode(context.Background(), -40.0, -130.0)
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	// First call: cache miss, real API call.
	r1, err := cached.ReverseGeocode(context.Background(), -33.0472, -71.6127)
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Chile")

	// Second call: cache hit, no API call.
	r2, err := cached.ReverseGeocode(context.Background(), -33.0472, -71.6127)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
