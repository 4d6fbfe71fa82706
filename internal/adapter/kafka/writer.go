package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/config"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes geo records to a Kafka topic, one message per country.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// GeoMessage is the value of each published message.
type GeoMessage struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Record      domain.GeoRecord `json:"record"`
}

// Publish writes every geo record of the result in a single WriteMessages
// call. Messages are keyed by join key so a country always lands on the same
// partition.
func (w *Writer) Publish(ctx context.Context, result *domain.Result) (int, error) {
	if result == nil || len(result.Geo.Records) == 0 {
		return 0, nil
	}
	msgs := make([]kafkago.Message, len(result.Geo.Records))
	for i := range result.Geo.Records {
		msg, err := serializeToMessage(result, result.Geo.Records[i])
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write messages: %w", err)
	}
	w.logger.Debug("geo records published", "run_id", result.RunID, "count", len(msgs))
	return len(msgs), nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one GeoRecord into a Kafka message.
func serializeToMessage(result *domain.Result, rec domain.GeoRecord) (kafkago.Message, error) {
	data, err := json.Marshal(GeoMessage{
		RunID:       result.RunID,
		GeneratedAt: result.GeneratedAt,
		Record:      rec,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize geo record: %w", err)
	}
	key := rec.JoinKey
	if key == "" {
		key = rec.Country
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(result.RunID)},
			{Key: "climate_zone", Value: []byte(rec.ClimateZone)},
			{Key: "generated_at", Value: []byte(result.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
