// Command genmock builds a deterministic synthetic earthquake table for local
// development and demos. The same seed always produces the same rows.
//
// Usage:
//
//	go run ./cmd/genmock -db data/earthquakes.db -rows 5000 -seed 1
//
// With -driver postgres, -db is a connection string. The table is created if
// it does not exist and any existing rows are replaced.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/mockdata"
)

// baseDate anchors generated event times so fixtures are reproducible.
var baseDate = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "genmock:", err)
		os.Exit(1)
	}
}

func run() error {
	driver := flag.String("driver", sqlstore.DriverSQLite, "database driver: sqlite or postgres")
	dsn := flag.String("db", "data/earthquakes.db", "SQLite file path or PostgreSQL connection string")
	rows := flag.Int("rows", 5000, "number of observations to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	years := flag.Int("years", 4, "number of years the events span")
	flag.Parse()

	if *rows <= 0 || *years <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows and -years must be positive")
	}

	logger := sharedobs.NewLogger("info", "text")
	ctx := context.Background()

	if *driver == sqlstore.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(*dsn), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	store, err := sqlstore.Open(ctx, sqlstore.Options{Driver: *driver, DSN: *dsn, MaxOpenConns: 1}, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	obs := mockdata.Generate(mockdata.Options{
		Seed:  *seed,
		Count: *rows,
		Start: baseDate,
		Span:  baseDate.AddDate(*years, 0, 0).Sub(baseDate),
	})

	if err := sqlstore.CreateSchema(ctx, store.DB(), store.Dialect()); err != nil {
		return err
	}
	if err := sqlstore.ClearObservations(ctx, store.DB()); err != nil {
		return err
	}
	if err := sqlstore.InsertObservations(ctx, store.DB(), store.Dialect(), obs); err != nil {
		return err
	}
	logger.Info("wrote observations", "rows", len(obs), "driver", *driver, "db", *dsn)

	printStats(obs)
	return nil
}

// printStats reports the figures tests and demos tend to assert on.
func printStats(obs []domain.Observation) {
	byYear := map[int]int{}
	var strong, tsunamis, deep int
	for i := range obs {
		o := &obs[i]
		byYear[o.Year]++
		if o.Mag.Valid && o.Mag.Float64 >= 6.0 {
			strong++
		}
		if o.Tsunami == 1 {
			tsunamis++
		}
		if o.Depth.Valid && o.Depth.Float64 > 300 {
			deep++
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(obs))
	fmt.Printf("Magnitude >= 6.0: %d\n", strong)
	fmt.Printf("Tsunami events: %d\n", tsunamis)
	fmt.Printf("Deep focus (> 300 km): %d\n", deep)
	fmt.Print("By year:")
	for _, y := range years {
		fmt.Printf(" %d=%d", y, byYear[y])
	}
	fmt.Println()
}
