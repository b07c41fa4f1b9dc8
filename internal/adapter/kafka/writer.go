package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/crop-advisor/internal/config"
	"github.com/couchcryptid/crop-advisor/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys attached to every published report.
const (
	HeaderCity        = "city"
	HeaderGeneratedAt = "generated_at"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes search reports to a Kafka topic.
// It implements advisor.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a report and writes it to the topic, keyed by city so
// reports for one city stay on one partition.
func (w *Writer) Publish(ctx context.Context, report domain.Report) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report for %s: %w", report.City, err)
	}
	w.logger.Debug("report published", "city", report.City)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Report into a Kafka message.
func serializeToMessage(report domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strings.ToLower(strings.TrimSpace(report.City))),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderCity, Value: []byte(report.City)},
			{Key: HeaderGeneratedAt, Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
