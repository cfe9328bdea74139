// Command validate performs end-to-end integrity checks of the dashboard
// pipeline against a populated earthquake table: filter options, every
// catalog query, KPI consistency, ordering guarantees, idempotence, and
// rendering decisions.
//
// Usage:
//
//	go run ./cmd/validate -db data/earthquakes.db
//	go run ./cmd/validate -driver postgres -db postgres://localhost/quakes
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	driver := flag.String("driver", sqlstore.DriverSQLite, "database driver: sqlite or postgres")
	dsn := flag.String("db", "", "SQLite file path or PostgreSQL connection string")
	timeout := flag.Duration("timeout", 30*time.Second, "per-query timeout")
	flag.Parse()

	if *dsn == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*driver, *dsn, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(driver, dsn string, timeout time.Duration) int {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	fmt.Println("=== Earthquake Dashboard Validation ===")
	fmt.Println()

	store, err := sqlstore.Open(ctx, sqlstore.Options{Driver: driver, DSN: dsn, QueryTimeout: timeout}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open database: %v\n", err)
		return 1
	}
	defer store.Close()

	// A fixed clock keeps renderings comparable across runs.
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	svc := dashboard.New(store, dashboard.Config{Clock: clock}, logger, observability.NewMetricsForTesting())

	opts, err := svc.FilterOptions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load filter options: %v\n", err)
		return 1
	}
	def := domain.NewFilterState(opts)

	// ── Run validation phases ──
	phases := []*phase{
		validateFilterOptions(opts),
		validateCatalogRuns(ctx, svc, def),
		validateKPIs(ctx, svc, store, opts),
		validateTopStrongest(ctx, svc, def),
		validateBusiestYear(ctx, svc, store, def),
		validateYearFilter(ctx, svc, opts),
		validateIdempotence(ctx, svc, def),
		validateRenderModes(ctx, svc, def),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Catalog: %d queries, %d years (%v), magnitude %.2f to %.2f\n",
		len(catalog.All()), len(opts.Years), opts.Years, opts.Magnitude.Min, opts.Magnitude.Max)

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Filter options ──

func validateFilterOptions(opts domain.FilterOptions) *phase {
	p := &phase{name: "Phase 1: Filter options"}

	if len(opts.Years) == 0 {
		p.errorf("no distinct years loaded")
	}
	for i := 1; i < len(opts.Years); i++ {
		if opts.Years[i] <= opts.Years[i-1] {
			p.errorf("years not strictly ascending at %d: %d after %d", i, opts.Years[i], opts.Years[i-1])
		}
	}
	if err := opts.Magnitude.Validate(); err != nil {
		p.errorf("magnitude bounds: %v", err)
	}
	return p
}

// ── Phase 2: Every catalog query executes ──

func validateCatalogRuns(ctx context.Context, svc *dashboard.Service, f domain.FilterState) *phase {
	p := &phase{name: "Phase 2: Catalog queries execute"}

	for _, d := range catalog.All() {
		r, err := svc.Run(ctx, d.ID, f)
		if err != nil {
			p.errorf("%s: %v", d.Key, err)
			continue
		}
		if len(r.Table.Columns) == 0 {
			p.errorf("%s: result has no columns", d.Key)
		}
		if r.Table.RowCount != len(r.Table.Rows) {
			p.errorf("%s: row_count=%d but %d rows", d.Key, r.Table.RowCount, len(r.Table.Rows))
		}
	}
	return p
}

// ── Phase 3: KPI consistency ──

func validateKPIs(ctx context.Context, svc *dashboard.Service, store *sqlstore.Store, opts domain.FilterOptions) *phase {
	p := &phase{name: "Phase 3: KPI consistency"}

	full, err := svc.KPIs(ctx, opts.Magnitude)
	if err != nil {
		p.errorf("full range: %v", err)
		return p
	}
	rs, err := store.Execute(ctx, fmt.Sprintf("SELECT COUNT(*) AS n FROM %s WHERE mag IS NOT NULL", catalog.Table))
	if err != nil {
		p.errorf("count rows: %v", err)
		return p
	}
	n, _ := domain.AsInt(rs.Rows[0][0])
	if full.TotalEarthquakes != n {
		p.errorf("total_eq=%d over full range, table has %d rows with a magnitude", full.TotalEarthquakes, n)
	}
	if full.MaxMagnitude == nil || *full.MaxMagnitude != opts.Magnitude.Max {
		p.errorf("max_mag=%v, want %.2f", full.MaxMagnitude, opts.Magnitude.Max)
	}
	if full.TsunamiEvents > full.TotalEarthquakes {
		p.errorf("tsunami_events=%d exceeds total_eq=%d", full.TsunamiEvents, full.TotalEarthquakes)
	}

	// A narrower range can only shrink the counts.
	mid := (opts.Magnitude.Min + opts.Magnitude.Max) / 2
	upper, err := svc.KPIs(ctx, domain.MagnitudeRange{Min: mid, Max: opts.Magnitude.Max})
	if err != nil {
		p.errorf("upper half: %v", err)
		return p
	}
	if upper.TotalEarthquakes > full.TotalEarthquakes {
		p.errorf("upper half total_eq=%d exceeds full range %d", upper.TotalEarthquakes, full.TotalEarthquakes)
	}
	if upper.AvgMagnitude != nil && *upper.AvgMagnitude < mid-0.005 {
		p.errorf("upper half avg_mag=%.2f below range minimum %.2f", *upper.AvgMagnitude, mid)
	}
	return p
}

// ── Phase 4: Top strongest ordering ──

func validateTopStrongest(ctx context.Context, svc *dashboard.Service, f domain.FilterState) *phase {
	p := &phase{name: "Phase 4: Top strongest ordering"}

	r, err := svc.Run(ctx, catalog.TopStrongest, f)
	if err != nil {
		p.errorf("run: %v", err)
		return p
	}
	if len(r.Table.Rows) > 10 {
		p.errorf("got %d rows, want at most 10", len(r.Table.Rows))
	}
	idx := columnIndex(r.Table.Columns, domain.ColumnMag)
	if idx < 0 {
		p.errorf("mag column missing")
		return p
	}
	prev := 0.0
	for i, row := range r.Table.Rows {
		mag, ok := domain.AsFloat(row[idx])
		if !ok {
			p.errorf("row %d: mag %v is not numeric", i, row[idx])
			continue
		}
		if i > 0 && mag > prev {
			p.errorf("row %d: mag %.2f follows %.2f", i, mag, prev)
		}
		if !f.Magnitude.Contains(mag) {
			p.errorf("row %d: mag %.2f outside filter", i, mag)
		}
		prev = mag
	}
	if !r.Capabilities.Map || r.Map == nil {
		p.errorf("expected a map for a result with coordinates")
	}
	return p
}

// ── Phase 5: Busiest year ──

func validateBusiestYear(ctx context.Context, svc *dashboard.Service, store *sqlstore.Store, f domain.FilterState) *phase {
	p := &phase{name: "Phase 5: Busiest year"}

	r, err := svc.Run(ctx, catalog.BusiestYear, f)
	if err != nil {
		p.errorf("run: %v", err)
		return p
	}
	if len(r.Table.Rows) != 1 {
		p.errorf("got %d rows, want exactly 1", len(r.Table.Rows))
		return p
	}
	countIdx := -1
	for i, c := range r.Table.Columns {
		if c.Name != domain.ColumnYear && c.Kind.Numeric() {
			countIdx = i
			break
		}
	}
	if countIdx < 0 {
		p.errorf("no count column in %v", r.Table.Columns)
		return p
	}
	busiest, _ := domain.AsInt(r.Table.Rows[0][countIdx])

	// No single year may have more events than the reported one.
	rs, err := store.Execute(ctx, fmt.Sprintf("SELECT year, COUNT(*) AS n FROM %s GROUP BY year", catalog.Table))
	if err != nil {
		p.errorf("count per year: %v", err)
		return p
	}
	for _, row := range rs.Rows {
		if n, ok := domain.AsInt(row[1]); ok && n > busiest {
			p.errorf("year %v has %d events, more than the busiest year's %d", row[0], n, busiest)
		}
	}
	return p
}

// ── Phase 6: Year filter ──

func validateYearFilter(ctx context.Context, svc *dashboard.Service, opts domain.FilterOptions) *phase {
	p := &phase{name: "Phase 6: Year post-filter"}

	if len(opts.Years) == 0 {
		return p
	}
	year := opts.Years[len(opts.Years)-1]
	f := domain.FilterState{Year: year, Magnitude: opts.Magnitude}

	r, err := svc.Run(ctx, catalog.TopStrongest, f)
	if err != nil {
		p.errorf("run: %v", err)
		return p
	}
	idx := columnIndex(r.Table.Columns, domain.ColumnYear)
	if idx < 0 {
		p.errorf("year column missing")
		return p
	}
	for i, row := range r.Table.Rows {
		if y, ok := domain.AsInt(row[idx]); !ok || int(y) != year {
			p.errorf("row %d: year %v, want %d", i, row[idx], year)
		}
	}
	return p
}

// ── Phase 7: Idempotence ──

func validateIdempotence(ctx context.Context, svc *dashboard.Service, f domain.FilterState) *phase {
	p := &phase{name: "Phase 7: Idempotent renderings"}

	for _, id := range []catalog.QueryID{catalog.TopStrongest, catalog.BusiestMonth, catalog.DeepFocus} {
		first, err := svc.Run(ctx, id, f)
		if err != nil {
			p.errorf("%s: %v", id, err)
			continue
		}
		second, err := svc.Run(ctx, id, f)
		if err != nil {
			p.errorf("%s: %v", id, err)
			continue
		}
		if diff := cmp.Diff(first, second); diff != "" {
			p.errorf("%s: repeated run differs (-first +second):\n%s", id, diff)
		}
	}
	return p
}

// ── Phase 8: Render modes ──

func validateRenderModes(ctx context.Context, svc *dashboard.Service, f domain.FilterState) *phase {
	p := &phase{name: "Phase 8: Render mode decisions"}

	for _, d := range catalog.All() {
		r, err := svc.Run(ctx, d.ID, f)
		if err != nil {
			continue // reported in phase 2
		}
		want := domain.Capabilities(domain.ResultSet{Columns: r.Table.Columns, Rows: r.Table.Rows})
		if r.Capabilities != want {
			p.errorf("%s: capabilities %+v, schema implies %+v", d.Key, r.Capabilities, want)
		}
		if r.Capabilities.Chart != (r.Chart != nil) {
			p.errorf("%s: chart=%v but chart view present=%v", d.Key, r.Capabilities.Chart, r.Chart != nil)
		}
		if !r.Capabilities.Chart && r.ChartNotice != domain.NoChartMessage {
			p.errorf("%s: missing chart notice", d.Key)
		}
		if r.Capabilities.Map != (r.Map != nil) {
			p.errorf("%s: map=%v but map view present=%v", d.Key, r.Capabilities.Map, r.Map != nil)
		}
		if !r.Capabilities.Map && r.MapNotice != domain.NoMapMessage {
			p.errorf("%s: missing map notice", d.Key)
		}
	}
	return p
}

func columnIndex(cols []domain.Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
