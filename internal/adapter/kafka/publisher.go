package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

// Publisher produces aircraft observations to a Kafka topic for downstream
// consumers.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSet serializes and publishes every observation in the set in a
// single WriteMessages call. Each message carries the set's provenance and
// fetch time as headers so consumers can discount degraded data.
func (p *Publisher) PublishSet(ctx context.Context, set domain.ObservationSet) error {
	if set.Empty() {
		return nil
	}
	msgs := make([]kafkago.Message, len(set.Observations))
	for i := range set.Observations {
		msg, err := serializeObservation(set.Observations[i], set)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish observations: %w", err)
	}
	p.logger.Debug("published observation set",
		"count", len(msgs),
		"provenance", set.Provenance,
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeObservation marshals an Observation into a Kafka message keyed by
// its ICAO24 address, falling back to the callsign for synthetic aircraft.
func serializeObservation(obs domain.Observation, set domain.ObservationSet) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	key := obs.ICAO24
	if key == "" {
		key = obs.Callsign
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "provenance", Value: []byte(set.Provenance)},
			{Key: "fetched_at", Value: []byte(set.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
