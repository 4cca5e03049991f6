//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/aero-ops/internal/adapter/kafka"
	"github.com/couchcryptid/aero-ops/internal/domain"
)

const testTopic = "test-aircraft-observations"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-broker Kafka container and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic via the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishSetRoundTrip verifies that a published observation set survives
// the broker with its provenance headers and payload intact.
func TestPublishSetRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	fetchedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	set := domain.ObservationSet{
		Provenance: domain.ProvenanceLive,
		FetchedAt:  fetchedAt,
		Observations: []domain.Observation{
			{ICAO24: "e48f2a", Callsign: "TAM3456", Latitude: -23.1, Longitude: -46.2, SpeedMps: 250, AltitudeM: 10000, OriginCountry: "Brazil"},
			{ICAO24: "e48c01", Callsign: "GLO1234", Latitude: -23.5, Longitude: -46.0, SpeedMps: 230, AltitudeM: 9500, OriginCountry: "Brazil"},
		},
	}

	publisher := kafka.NewPublisher([]string{broker}, testTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.PublishSet(ctx, set))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKey := make(map[string]kafkago.Message, len(set.Observations))
	for range set.Observations {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read from topic")
		byKey[string(msg.Key)] = msg
	}

	msg, ok := byKey["e48f2a"]
	require.True(t, ok, "message keyed by ICAO24 address")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "live", headers["provenance"])
	assert.Equal(t, fetchedAt.Format(time.RFC3339), headers["fetched_at"])

	var obs domain.Observation
	require.NoError(t, json.Unmarshal(msg.Value, &obs))
	assert.Equal(t, "TAM3456", obs.Callsign)
	assert.Equal(t, 250.0, obs.SpeedMps)
	assert.Equal(t, 10000.0, obs.AltitudeM)
}
