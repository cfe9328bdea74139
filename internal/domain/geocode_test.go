package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
	lat    float64
	lon    float64
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (GeocodingResult, error) {
	m.calls++
	m.lat, m.lon = lat, lon
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tokyoMap() MapView {
	return MapView{
		Center: GeoPoint{Latitude: 35.68, Longitude: 139.69},
		Points: []MapPoint{{GeoPoint: GeoPoint{Latitude: 35.68, Longitude: 139.69}}},
	}
}

// --- tests ---

func TestLabelMapCenter_NilGeocoder(t *testing.T) {
	result := LabelMapCenter(context.Background(), tokyoMap(), nil, discardLogger())

	assert.Empty(t, result.CenterLabel)
}

func TestLabelMapCenter_UsesFormattedAddress(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "Tokyo, Japan", PlaceName: "Tokyo"}}

	result := LabelMapCenter(context.Background(), tokyoMap(), geo, discardLogger())

	assert.Equal(t, "Tokyo, Japan", result.CenterLabel)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, 35.68, geo.lat)
	assert.Equal(t, 139.69, geo.lon)
}

func TestLabelMapCenter_FallsBackToPlaceName(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{PlaceName: "Tokyo"}}

	result := LabelMapCenter(context.Background(), tokyoMap(), geo, discardLogger())

	assert.Equal(t, "Tokyo", result.CenterLabel)
}

func TestLabelMapCenter_Error_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("rate limited")}

	result := LabelMapCenter(context.Background(), tokyoMap(), geo, discardLogger())

	assert.Empty(t, result.CenterLabel)
	assert.Equal(t, 35.68, result.Center.Latitude) // centre preserved
}

func TestLabelMapCenter_NoPoints_SkipsGeocoder(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "Null Island"}}

	result := LabelMapCenter(context.Background(), MapView{}, geo, discardLogger())

	assert.Empty(t, result.CenterLabel)
	assert.Equal(t, 0, geo.calls)
}
