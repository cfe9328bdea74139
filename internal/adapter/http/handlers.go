package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
)

// yearAll is the query-string spelling of "every year".
const yearAll = "all"

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.FilterOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	mag, err := s.magnitudeFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kpis, err := s.dashboard.KPIs(r.Context(), mag)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleAllData(w http.ResponseWriter, r *http.Request) {
	table, err := s.dashboard.AllData(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleQueries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Queries())
}

func (s *Server) handleRunQuery(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseKey(r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rendering, err := s.dashboard.Run(r.Context(), id, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rendering)
}

// filterFromRequest reads year, min_mag and max_mag. A missing year selects
// every year; missing bounds default to the catalog's magnitude bounds.
func (s *Server) filterFromRequest(r *http.Request) (domain.FilterState, error) {
	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		return domain.FilterState{}, err
	}
	mag, err := s.magnitudeFromRequest(r)
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.FilterState{Year: year, Magnitude: mag}, nil
}

func (s *Server) magnitudeFromRequest(r *http.Request) (domain.MagnitudeRange, error) {
	q := r.URL.Query()
	minRaw, maxRaw := q.Get("min_mag"), q.Get("max_mag")

	var mag domain.MagnitudeRange
	if minRaw == "" || maxRaw == "" {
		opts, err := s.dashboard.FilterOptions(r.Context())
		if err != nil {
			return domain.MagnitudeRange{}, err
		}
		mag = opts.Magnitude
	}

	var err error
	if minRaw != "" {
		if mag.Min, err = parseMagnitude("min_mag", minRaw); err != nil {
			return domain.MagnitudeRange{}, err
		}
	}
	if maxRaw != "" {
		if mag.Max, err = parseMagnitude("max_mag", maxRaw); err != nil {
			return domain.MagnitudeRange{}, err
		}
	}
	return mag, mag.Validate()
}

func parseYear(raw string) (int, error) {
	if raw == "" || strings.EqualFold(raw, yearAll) {
		return domain.AllYears, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("%w: year %q must be a positive integer or %q", domain.ErrInvalidFilter, raw, yearAll)
	}
	return year, nil
}

func parseMagnitude(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrInvalidFilter, name, raw)
	}
	return v, nil
}

// writeError maps an error to a status code, logs it once, and writes a JSON
// error body. The process keeps serving.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	level := s.logger.Warn
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", observability.RequestID(r.Context()),
		"error", err,
	)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownQuery):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, sqlstore.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
