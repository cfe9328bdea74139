package domain

import (
	"context"
	"log/slog"
)

// LabelMapCenter attempts to name the place the map is centred on. If the
// geocoder is nil, the map has no points, or geocoding fails, the view is
// returned without a label (graceful degradation).
func LabelMapCenter(ctx context.Context, m MapView, geocoder Geocoder, logger *slog.Logger) MapView {
	if geocoder == nil || len(m.Points) == 0 {
		return m
	}

	result, err := geocoder.ReverseGeocode(ctx, m.Center.Latitude, m.Center.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding map centre failed",
			"lat", m.Center.Latitude,
			"lon", m.Center.Longitude,
			"error", err,
		)
		return m
	}

	switch {
	case result.FormattedAddress != "":
		m.CenterLabel = result.FormattedAddress
	case result.PlaceName != "":
		m.CenterLabel = result.PlaceName
	}
	return m
}
