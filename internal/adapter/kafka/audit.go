// Package kafka publishes search audit records to a Kafka topic.
//
// Auditing is an optional concern: the publisher is only wired in when
// brokers and a topic are configured, and a failed publish is logged and
// dropped. A search must never fail because the audit trail is down.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/koukeneko/wazai/internal/observability"
	"github.com/koukeneko/wazai/internal/search"
)

const publishTimeout = 5 * time.Second

// AuditPublisher writes search records to Kafka. It implements
// search.Auditor.
type AuditPublisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAuditPublisher creates a publisher for the given brokers and topic.
func NewAuditPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *AuditPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &AuditPublisher{writer: w, logger: logger, metrics: metrics}
}

// Publish implements search.Auditor. Errors are absorbed: the record is
// logged and dropped, never surfaced to the search path.
func (p *AuditPublisher) Publish(ctx context.Context, rec search.Record) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg, err := buildMessage(rec)
	if err != nil {
		p.metrics.AuditErrors.Inc()
		p.logger.Error("serialize audit record", "error", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.AuditErrors.Inc()
		p.logger.Warn("publish audit record failed", "error", err)
		return
	}
	p.metrics.AuditPublished.Inc()
}

func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}

// buildMessage marshals a search record into a Kafka message keyed by the
// search keyword, so repeat queries land on one partition.
func buildMessage(rec search.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Keyword),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "searched_at", Value: []byte(rec.At.Format(time.RFC3339))},
		},
	}, nil
}
