// Package kafka publishes file lifecycle events (store/delete) to a Kafka
// topic using franz-go: one JSON-encoded record per event, keyed by file id
// so events for the same file land on the same partition.
package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"

	"chunkvault/internal/logging"
	"chunkvault/internal/notify"
)

// SASLConfig holds SASL authentication parameters.
type SASLConfig struct {
	Mechanism string // "plain", "scram-sha-256", "scram-sha-512"
	User      string
	Password  string //nolint:gosec // config field, not a hardcoded credential
}

// Config holds Kafka notifier configuration.
type Config struct {
	Brokers []string
	Topic   string
	TLS     bool
	SASL    *SASLConfig
	Logger  *slog.Logger
}

// Notifier publishes lifecycle events to a Kafka topic.
type Notifier struct {
	cfg    Config
	client *kgo.Client
	logger *slog.Logger
}

// New connects a Kafka producer client per cfg.
func New(cfg Config) (*Notifier, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	}
	if cfg.TLS {
		opts = append(opts, kgo.DialTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}))
	}
	if cfg.SASL != nil {
		mech, err := buildSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.SASL(mech))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka notifier client: %w", err)
	}

	return &Notifier{
		cfg:    cfg,
		client: client,
		logger: logging.Default(cfg.Logger).With("component", "notify", "type", "kafka"),
	}, nil
}

// Publish encodes evt as JSON and produces it to the configured topic. It
// blocks until the broker acknowledges the record or ctx is cancelled.
func (n *Notifier) Publish(ctx context.Context, evt notify.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka notifier: encode event: %w", err)
	}

	result := n.client.ProduceSync(ctx, &kgo.Record{
		Topic: n.cfg.Topic,
		Key:   []byte(evt.ID.String()),
		Value: body,
	})
	if err := result.FirstErr(); err != nil {
		n.logger.Warn("publish lifecycle event failed", "kind", evt.Kind, "id", evt.ID, "error", err)
		return fmt.Errorf("kafka notifier: produce: %w", err)
	}
	return nil
}

// Close releases the underlying Kafka client.
func (n *Notifier) Close() {
	n.client.Close()
}

func buildSASLMechanism(cfg *SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "plain":
		return plain.Auth{User: cfg.User, Pass: cfg.Password}.AsMechanism(), nil
	case "scram-sha-256":
		return scram.Auth{User: cfg.User, Pass: cfg.Password}.AsSha256Mechanism(), nil
	case "scram-sha-512":
		return scram.Auth{User: cfg.User, Pass: cfg.Password}.AsSha512Mechanism(), nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %q", cfg.Mechanism)
	}
}
