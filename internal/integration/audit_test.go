//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/seismic-dashboard-service/internal/catalog"
	"github.com/couchcryptid/seismic-dashboard-service/internal/config"
	"github.com/couchcryptid/seismic-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	"github.com/couchcryptid/seismic-dashboard-service/internal/observability"
)

const testAuditTopic = "test-query-audit"

type auditMessage struct {
	Audit   domain.QueryAudit
	Key     string
	Headers map[string]string
}

func readAudit(ctx context.Context, t *testing.T, consumer *kafkago.Reader) auditMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from audit topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var a domain.QueryAudit
	require.NoError(t, json.Unmarshal(msg.Value, &a), "unmarshal audit message")
	return auditMessage{Audit: a, Key: string(msg.Key), Headers: headers}
}

// TestQueryAuditReachesKafka runs queries through the service with the Kafka
// audit writer attached and reads the records back from the topic.
func TestQueryAuditReachesKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaAuditTopic:   testAuditTopic,
		KafkaWriteTimeout: 10 * time.Second,
	}
	writer := kafka.NewAuditWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	svc := dashboard.New(seededStore(ctx, t, 300), dashboard.Config{Audit: writer}, discardLogger(), metrics)

	f, err := svc.DefaultFilter(ctx)
	require.NoError(t, err)

	reqCtx := observability.WithRequestID(ctx, "req-42")
	r, err := svc.Run(reqCtx, catalog.TopStrongest, f)
	require.NoError(t, err)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAuditTopic,
		Partition:   0,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := readAudit(ctx, t, consumer)
	assert.Equal(t, "top-strongest", got.Key)
	assert.Equal(t, "top-strongest", got.Audit.Query)
	assert.Equal(t, "req-42", got.Audit.RequestID)
	assert.Equal(t, domain.AuditOutcomeSuccess, got.Audit.Outcome)
	assert.Equal(t, r.Table.RowCount, got.Audit.Rows)
	assert.Equal(t, f, got.Audit.Filter)
	assert.Equal(t, []domain.RenderMode{domain.ModeTable, domain.ModeChart, domain.ModeMap}, got.Audit.Modes)
	assert.NotEmpty(t, got.Audit.RunID)
	assert.Equal(t, got.Audit.RunID, got.Headers["run_id"])
	assert.Equal(t, domain.AuditOutcomeSuccess, got.Headers["outcome"])
}
