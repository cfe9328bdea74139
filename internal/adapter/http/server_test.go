package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/seismic-dashboard-service/internal/adapter/http"
	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDashboard struct {
	readyErr   error
	optsErr    error
	runErr     error
	opts       domain.FilterOptions
	optsCalls  int
	lastID     catalog.QueryID
	lastFilter domain.FilterState
	lastRange  domain.MagnitudeRange
	lastReqID  string
	rows       []domain.Row
}

func (m *mockDashboard) CheckReadiness(context.Context) error { return m.readyErr }

func (m *mockDashboard) Queries() []dashboard.MenuEntry {
	return []dashboard.MenuEntry{{Key: "top-strongest", Label: "Top 10 strongest earthquakes (mag)"}}
}

func (m *mockDashboard) FilterOptions(context.Context) (domain.FilterOptions, error) {
	m.optsCalls++
	return m.opts, m.optsErr
}

func (m *mockDashboard) KPIs(_ context.Context, r domain.MagnitudeRange) (domain.KPIs, error) {
	m.lastRange = r
	if err := r.Validate(); err != nil {
		return domain.KPIs{}, err
	}
	return domain.KPIs{Range: r, TotalEarthquakes: 30}, nil
}

func (m *mockDashboard) AllData(context.Context) (domain.TableView, error) {
	return domain.TableView{
		Columns:  []domain.Column{{Name: "id", Kind: domain.KindText}},
		Rows:     []domain.Row{{"a"}},
		RowCount: 1,
	}, nil
}

func (m *mockDashboard) Run(ctx context.Context, id catalog.QueryID, f domain.FilterState) (domain.Rendering, error) {
	m.lastID = id
	m.lastFilter = f
	m.lastReqID = observability.RequestID(ctx)
	if m.runErr != nil {
		return domain.Rendering{}, m.runErr
	}
	return domain.Rendering{
		Query:       id.String(),
		Filter:      f,
		Table:       domain.TableView{Rows: m.rows, RowCount: len(m.rows)},
		ChartNotice: domain.NoChartMessage,
	}, nil
}

func newTestServer(d *mockDashboard) *httpadapter.Server {
	if d.opts.Magnitude == (domain.MagnitudeRange{}) {
		d.opts = domain.FilterOptions{Years: []int{2020, 2021}, Magnitude: domain.MagnitudeRange{Min: 2.5, Max: 9.1}}
	}
	return httpadapter.NewServer(":0", d, slog.New(slog.DiscardHandler))
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{readyErr: fmt.Errorf("database unreachable")}), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "database unreachable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRequestIDIsAssignedAndPropagated(t *testing.T) {
	d := &mockDashboard{}
	srv := newTestServer(d)

	rec := get(t, srv, "/api/queries/top-strongest")
	assert.NotEmpty(t, rec.Header().Get(httpadapter.RequestIDHeader))
	assert.Equal(t, rec.Header().Get(httpadapter.RequestIDHeader), d.lastReqID)

	req := httptest.NewRequest(http.MethodGet, "/api/queries/top-strongest", nil)
	req.Header.Set(httpadapter.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(httpadapter.RequestIDHeader))
	assert.Equal(t, "abc-123", d.lastReqID)
}

func TestFilters(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/api/filters")

	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[domain.FilterOptions](t, rec)
	assert.Equal(t, []int{2020, 2021}, opts.Years)
	assert.Equal(t, domain.MagnitudeRange{Min: 2.5, Max: 9.1}, opts.Magnitude)
}

func TestFilters_EmptyCatalog(t *testing.T) {
	d := &mockDashboard{optsErr: fmt.Errorf("load filter options: %w", sqlstore.ErrEmptyCatalog)}
	rec := get(t, newTestServer(d), "/api/filters")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "no magnitudes")
}

func TestQueriesMenu(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/api/queries")

	require.Equal(t, http.StatusOK, rec.Code)
	menu := decode[[]dashboard.MenuEntry](t, rec)
	require.Len(t, menu, 1)
	assert.Equal(t, "top-strongest", menu[0].Key)
}

func TestAllData(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/api/data")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[domain.TableView](t, rec).RowCount)
}

func TestRunQuery_DefaultsFilter(t *testing.T) {
	d := &mockDashboard{}
	rec := get(t, newTestServer(d), "/api/queries/busiest-year")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.BusiestYear, d.lastID)
	assert.Equal(t, domain.AllYears, d.lastFilter.Year)
	assert.Equal(t, domain.MagnitudeRange{Min: 2.5, Max: 9.1}, d.lastFilter.Magnitude)
	assert.Equal(t, "busiest-year", decode[domain.Rendering](t, rec).Query)
}

func TestRunQuery_ExplicitFilter(t *testing.T) {
	d := &mockDashboard{}
	rec := get(t, newTestServer(d), "/api/queries/top-strongest?year=2021&min_mag=6&max_mag=8.5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.FilterState{Year: 2021, Magnitude: domain.MagnitudeRange{Min: 6, Max: 8.5}}, d.lastFilter)
	assert.Equal(t, 0, d.optsCalls, "explicit bounds need no catalog load")
}

func TestRunQuery_YearAll(t *testing.T) {
	d := &mockDashboard{}
	rec := get(t, newTestServer(d), "/api/queries/top-strongest?year=All&min_mag=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AllYears, d.lastFilter.Year)
	assert.Equal(t, domain.MagnitudeRange{Min: 3, Max: 9.1}, d.lastFilter.Magnitude)
}

func TestRunQuery_BadParameters(t *testing.T) {
	for _, target := range []string{
		"/api/queries/top-strongest?year=last",
		"/api/queries/top-strongest?year=-3",
		"/api/queries/top-strongest?min_mag=big",
		"/api/queries/top-strongest?min_mag=8&max_mag=2",
		"/api/queries/top-strongest?max_mag=NaN",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, newTestServer(&mockDashboard{}), target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestRunQuery_UnknownKey(t *testing.T) {
	rec := get(t, newTestServer(&mockDashboard{}), "/api/queries/drop-table")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "unknown query")
}

func TestRunQuery_QueryFailure(t *testing.T) {
	d := &mockDashboard{runErr: errors.New("run top-strongest: execute query: no such table: earthquake")}
	srv := newTestServer(d)

	rec := get(t, srv, "/api/queries/top-strongest?min_mag=1&max_mag=2")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "no such table")

	// The server keeps serving after a failure.
	d.runErr = nil
	rec = get(t, srv, "/api/queries/top-strongest?min_mag=1&max_mag=2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunQuery_UnencodableValueIsServerError(t *testing.T) {
	d := &mockDashboard{rows: []domain.Row{{"Tonga Islands", math.NaN()}}}
	rec := get(t, newTestServer(d), "/api/queries/top-strongest?min_mag=1&max_mag=2")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "encode response")
}

func TestKPIs(t *testing.T) {
	d := &mockDashboard{}
	rec := get(t, newTestServer(d), "/api/kpis?min_mag=6.0")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MagnitudeRange{Min: 6.0, Max: 9.1}, d.lastRange)
	assert.Equal(t, int64(30), decode[domain.KPIs](t, rec).TotalEarthquakes)
}
