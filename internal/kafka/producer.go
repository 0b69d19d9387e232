package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"gw-currency-trader/internal/models"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	headerEventType   = "event_type"
	headerContentType = "content_type"
)

type Producer interface {
	SendTradeEvent(ctx context.Context, event models.TradeEvent) error
	Close() error
}

// NewSaramaConfig is an idempotent, fully acknowledged sync producer setup.
// Idempotence needs a single in-flight request per connection.
func NewSaramaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_8_0_0
	cfg.Net.MaxOpenRequests = 1

	cfg.Producer.Idempotent = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

type TradeProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func NewTradeProducer(brokers []string, topic, clientID string, log *slog.Logger) (*TradeProducer, error) {
	cfg := NewSaramaConfig(clientID)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer connected", slog.String("topic", topic), slog.Any("brokers", brokers))
	return newTradeProducer(producer, topic, log), nil
}

func newTradeProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *TradeProducer {
	return &TradeProducer{
		producer: producer,
		topic:    topic,
		log:      log.With(slog.String("component", "trade_producer")),
	}
}

// encode keys the message by user so one user's trades keep their order
// within a partition.
func (p *TradeProducer) encode(event models.TradeEvent) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal trade event: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.UserID.String()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.Timestamp,
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte("trade." + event.Type)},
			{Key: []byte(headerContentType), Value: []byte("application/json")},
		},
	}, nil
}

// SendTradeEvent returns when the broker acknowledged the event or ctx ends.
// A send abandoned on ctx may still complete in the background.
func (p *TradeProducer) SendTradeEvent(ctx context.Context, event models.TradeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := p.encode(event)
	if err != nil {
		return err
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		_, _, err := p.producer.SendMessage(msg)
		done <- err
	}()

	select {
	case <-ctx.Done():
		p.log.Warn("trade event send abandoned",
			slog.String("transaction_id", event.TransactionID),
			slog.String("error", ctx.Err().Error()))
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send trade event %s: %w", event.TransactionID, err)
		}
	}

	p.log.Debug("trade event acknowledged",
		slog.String("transaction_id", event.TransactionID),
		slog.Int("partition", int(msg.Partition)),
		slog.Int64("offset", msg.Offset),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (p *TradeProducer) Close() error {
	p.log.Info("closing kafka producer")
	return p.producer.Close()
}

// LogProducer stands in when Kafka is disabled and only records the event.
type LogProducer struct {
	log *slog.Logger
}

func NewLogProducer(log *slog.Logger) *LogProducer {
	return &LogProducer{log: log}
}

func (p *LogProducer) SendTradeEvent(_ context.Context, event models.TradeEvent) error {
	p.log.Info("trade event (kafka disabled)",
		slog.String("transaction_id", event.TransactionID),
		slog.String("type", event.Type),
		slog.String("pln_value", event.PLNValue))
	return nil
}

func (p *LogProducer) Close() error { return nil }
