package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Forwarder mirrors events onto an external broker.
type Forwarder interface {
	Forward(ctx context.Context, e Event) error
	Name() string
	Close() error
}

// ForwarderConfig selects and configures the external broker.
type ForwarderConfig struct {
	// Driver is "memory" (no forwarding), "nats" or "kafka".
	Driver       string
	NATSURL      string
	KafkaBrokers []string
	Topic        string
}

// NewForwarder returns the forwarder for cfg.Driver, or nil for in-memory only.
func NewForwarder(cfg ForwarderConfig, logger *slog.Logger) (Forwarder, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return nil, nil
	case "nats":
		return NewNATSForwarder(cfg.NATSURL, cfg.Topic, logger)
	case "kafka":
		return NewKafkaForwarder(cfg.KafkaBrokers, cfg.Topic)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// =============================================================================
// NATS
// =============================================================================

// NATSForwarder publishes each event on subject "<prefix>.<type>".
type NATSForwarder struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSForwarder connects to url. Reconnects are unbounded.
func NewNATSForwarder(url, prefix string, logger *slog.Logger) (*NATSForwarder, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if prefix == "" {
		prefix = "bookworld"
	}

	conn, err := nats.Connect(url,
		nats.Name("bookworld"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSForwarder{conn: conn, prefix: prefix}, nil
}

// Subject returns the subject an event type is published on.
func (f *NATSForwarder) Subject(t Type) string {
	return f.prefix + "." + string(t)
}

func (f *NATSForwarder) Forward(ctx context.Context, e Event) error {
	data, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := nats.NewMsg(f.Subject(e.Type))
	msg.Data = data
	msg.Header.Set("Event-Id", e.ID.String())
	msg.Header.Set("User-Id", e.UserID.String())

	if err := f.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to nats: %w", err)
	}
	return nil
}

func (f *NATSForwarder) Name() string { return "nats" }

// Close flushes pending messages and closes the connection.
func (f *NATSForwarder) Close() error {
	return f.conn.Drain()
}

// =============================================================================
// Kafka
// =============================================================================

// KafkaForwarder produces each event to one topic keyed by user id, so a
// user's events stay ordered within a partition.
type KafkaForwarder struct {
	client *kgo.Client
	topic  string
}

// NewKafkaForwarder creates a producer for brokers.
func NewKafkaForwarder(brokers []string, topic string) (*KafkaForwarder, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if topic == "" {
		topic = "bookworld.events"
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("bookworld"),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaForwarder{client: client, topic: topic}, nil
}

func (f *KafkaForwarder) Forward(ctx context.Context, e Event) error {
	data, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	record := &kgo.Record{
		Topic: f.topic,
		Key:   []byte(e.UserID.String()),
		Value: data,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(e.Type)},
			{Key: "event-id", Value: []byte(e.ID.String())},
		},
	}

	if err := f.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to kafka: %w", err)
	}
	return nil
}

func (f *KafkaForwarder) Name() string { return "kafka" }

// Close flushes buffered records and closes the client.
func (f *KafkaForwarder) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := f.client.Flush(ctx)
	f.client.Close()
	return err
}
