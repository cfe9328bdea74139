//go:build integration

package integration_test

import (
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/mockdata"
)

const (
	kafkaImage    = "confluentinc/confluent-local:7.5.0"
	postgresImage = "postgres:16-alpine"
)

// fixtureStart anchors the generated events at the same base date genmock uses.
var fixtureStart = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// seededStore returns a SQLite store holding a deterministic mock catalog.
func seededStore(ctx context.Context, t *testing.T, rows int) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:       sqlstore.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "earthquakes.db"),
		MaxOpenConns: 1,
		QueryTimeout: 10 * time.Second,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seed(ctx, t, store, fixtureObservations(rows))
	return store
}

// fixtureObservations is the deterministic mock catalog every store is seeded with.
func fixtureObservations(rows int) []domain.Observation {
	return mockdata.Generate(mockdata.Options{
		Seed:  7,
		Count: rows,
		Start: fixtureStart,
		Span:  3 * 365 * 24 * time.Hour,
	})
}

func seed(ctx context.Context, t *testing.T, store *sqlstore.Store, obs []domain.Observation) {
	t.Helper()
	require.NoError(t, sqlstore.CreateSchema(ctx, store.DB(), store.Dialect()))
	require.NoError(t, sqlstore.InsertObservations(ctx, store.DB(), store.Dialect(), obs))
}

// postgresStore starts a PostgreSQL container and returns a store seeded
// with obs.
func postgresStore(ctx context.Context, t *testing.T, obs []domain.Observation) *sqlstore.Store {
	t.Helper()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("quakes"),
		tcpostgres.WithUsername("quake"),
		tcpostgres.WithPassword("quake"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:       sqlstore.DriverPostgres,
		DSN:          dsn,
		MaxOpenConns: 4,
		QueryTimeout: 10 * time.Second,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seed(ctx, t, store, obs)
	return store
}

// startKafka runs a single-node broker and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("quake-test"))
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}
