package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/seismic-dashboard-service/internal/config"
	"github.com/couchcryptid/seismic-dashboard-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AuditWriter publishes query audit records to a Kafka topic.
// It implements dashboard.AuditPublisher.
type AuditWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAuditWriter creates a Kafka producer for the configured audit topic.
// Writes are synchronous so a record is acknowledged before the query
// response is returned.
func NewAuditWriter(cfg *config.Config, logger *slog.Logger) *AuditWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAuditTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           cfg.KafkaWriteTimeout,
		AllowAutoTopicCreation: true,
	}
	return &AuditWriter{writer: w, logger: logger}
}

// Publish serializes and writes one audit record keyed by query key.
func (w *AuditWriter) Publish(ctx context.Context, audit domain.QueryAudit) error {
	msg, err := serializeToMessage(audit)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	w.logger.Debug("query audit published", "query", audit.Query, "run_id", audit.RunID)
	return nil
}

func (w *AuditWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a QueryAudit into a Kafka message.
func serializeToMessage(audit domain.QueryAudit) (kafkago.Message, error) {
	data, err := json.Marshal(audit)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize query audit: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(audit.Query),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(audit.RunID)},
			{Key: "outcome", Value: []byte(audit.Outcome)},
			{Key: "ran_at", Value: []byte(audit.RanAt.Format(time.RFC3339))},
		},
	}, nil
}
