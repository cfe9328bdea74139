// Package dashboard orchestrates one dashboard interaction: load filter
// options, run a catalog query, post-filter its result and render it.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
)

// DefaultAllDataLimit caps the "All Data" listing when no limit is configured.
const DefaultAllDataLimit = 1000

// Store executes SQL against the earthquake table.
type Store interface {
	Dialect() catalog.Dialect
	Execute(ctx context.Context, sql string) (domain.ResultSet, error)
	LoadYears(ctx context.Context) ([]int, error)
	LoadMagnitudeBounds(ctx context.Context) (domain.MagnitudeRange, error)
	CheckReadiness(ctx context.Context) error
}

// AuditPublisher records query interactions.
type AuditPublisher interface {
	Publish(ctx context.Context, audit domain.QueryAudit) error
}

// MenuEntry is one item of the query menu.
type MenuEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Config holds the optional collaborators of a Service. Nil geocoder or
// audit publisher disables that feature.
type Config struct {
	Geocoder     domain.Geocoder
	Audit        AuditPublisher
	Clock        clockwork.Clock
	AllDataLimit int
}

// Service runs dashboard interactions. It holds no per-session state and is
// safe for concurrent use.
type Service struct {
	store        Store
	geocoder     domain.Geocoder
	audit        AuditPublisher
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics
	allDataLimit int
}

// New creates a Service over store.
func New(store Store, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	limit := cfg.AllDataLimit
	if limit <= 0 {
		limit = DefaultAllDataLimit
	}
	return &Service{
		store:        store,
		geocoder:     cfg.Geocoder,
		audit:        cfg.Audit,
		clock:        clock,
		logger:       logger,
		metrics:      metrics,
		allDataLimit: limit,
	}
}

// CheckReadiness reports whether the data source can serve queries.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.store.CheckReadiness(ctx)
}

// Queries lists the catalog in menu order.
func (s *Service) Queries() []MenuEntry {
	defs := catalog.All()
	out := make([]MenuEntry, len(defs))
	for i, d := range defs {
		out[i] = MenuEntry{Key: d.Key, Label: d.Label}
	}
	return out
}

// FilterOptions loads the distinct years and the global magnitude bounds.
func (s *Service) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	years, err := s.store.LoadYears(ctx)
	if err != nil {
		s.metrics.CatalogLoads.WithLabelValues(observability.OutcomeError).Inc()
		return domain.FilterOptions{}, fmt.Errorf("load filter options: %w", err)
	}
	bounds, err := s.store.LoadMagnitudeBounds(ctx)
	if err != nil {
		s.metrics.CatalogLoads.WithLabelValues(observability.OutcomeError).Inc()
		return domain.FilterOptions{}, fmt.Errorf("load filter options: %w", err)
	}
	s.metrics.CatalogLoads.WithLabelValues(observability.OutcomeSuccess).Inc()
	if years == nil {
		years = []int{}
	}
	return domain.FilterOptions{Years: years, Magnitude: bounds}, nil
}

// DefaultFilter returns the initial selection: all years and the full
// magnitude range.
func (s *Service) DefaultFilter(ctx context.Context) (domain.FilterState, error) {
	opts, err := s.FilterOptions(ctx)
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.NewFilterState(opts), nil
}

// KPIs computes the summary metrics over rows whose magnitude lies in r. The
// range is pushed down into the aggregate's WHERE clause.
func (s *Service) KPIs(ctx context.Context, r domain.MagnitudeRange) (domain.KPIs, error) {
	if err := r.Validate(); err != nil {
		return domain.KPIs{}, err
	}
	rs, err := s.store.Execute(ctx, catalog.KPIQuery(r))
	if err != nil {
		return domain.KPIs{}, fmt.Errorf("compute kpis: %w", err)
	}
	kpis, err := domain.KPIsFromResult(rs, r)
	if err != nil {
		return domain.KPIs{}, fmt.Errorf("compute kpis: %w", err)
	}
	return kpis, nil
}

// AllData returns the first rows of the table, unfiltered.
func (s *Service) AllData(ctx context.Context) (domain.TableView, error) {
	rs, err := s.store.Execute(ctx, catalog.AllDataQuery(s.allDataLimit))
	if err != nil {
		return domain.TableView{}, fmt.Errorf("load all data: %w", err)
	}
	return domain.BuildTable(rs), nil
}

// Run executes one catalog query under the given filter and renders the
// filtered result. A failed query yields an error and no rendering.
func (s *Service) Run(ctx context.Context, id catalog.QueryID, f domain.FilterState) (domain.Rendering, error) {
	def, err := catalog.Lookup(id)
	if err != nil {
		return domain.Rendering{}, err
	}
	if err := f.Validate(); err != nil {
		return domain.Rendering{}, err
	}

	start := s.clock.Now()
	raw, err := s.store.Execute(ctx, def.Text(s.store.Dialect()))
	if err != nil {
		s.metrics.QueryRuns.WithLabelValues(def.Key, observability.OutcomeError).Inc()
		s.publish(ctx, def, f, start, domain.QueryAudit{Outcome: domain.AuditOutcomeError, Error: err.Error()})
		return domain.Rendering{}, fmt.Errorf("run %s: %w", def.Key, err)
	}

	filtered := domain.ApplyFilter(raw, f)
	r := domain.Dispatch(filtered)
	r.Query = def.Key
	r.Label = def.Label
	r.Filter = f
	if r.Map != nil {
		m := domain.LabelMapCenter(ctx, *r.Map, s.geocoder, s.logger)
		r.Map = &m
	}
	r.GeneratedAt = s.clock.Now().UTC()

	modes := r.Capabilities.Modes()
	s.metrics.QueryRuns.WithLabelValues(def.Key, observability.OutcomeSuccess).Inc()
	s.metrics.QueryDuration.WithLabelValues(def.Key).Observe(s.clock.Since(start).Seconds())
	s.metrics.QueryRows.Observe(float64(filtered.Len()))
	for _, m := range modes {
		s.metrics.RenderModes.WithLabelValues(string(m)).Inc()
	}

	s.logger.Info("query rendered",
		"query", def.Key,
		"year", f.Year,
		"min_mag", f.Magnitude.Min,
		"max_mag", f.Magnitude.Max,
		"rows", filtered.Len(),
		"raw_rows", raw.Len(),
	)

	s.publish(ctx, def, f, start, domain.QueryAudit{
		Outcome: domain.AuditOutcomeSuccess,
		Rows:    filtered.Len(),
		Modes:   modes,
	})
	return r, nil
}

// publish writes an audit record. Failures are logged and never surface to
// the caller.
func (s *Service) publish(ctx context.Context, def catalog.Definition, f domain.FilterState, start time.Time, a domain.QueryAudit) {
	if s.audit == nil {
		return
	}
	a.RunID = uuid.NewString()
	a.RequestID = observability.RequestID(ctx)
	a.Query = def.Key
	a.Filter = f
	a.RanAt = start.UTC()
	a.Duration = s.clock.Since(start)

	if err := s.audit.Publish(ctx, a); err != nil {
		s.metrics.AuditErrors.Inc()
		s.logger.Warn("publish query audit failed", "query", def.Key, "run_id", a.RunID, "error", err)
		return
	}
	s.metrics.AuditPublished.Inc()
}
