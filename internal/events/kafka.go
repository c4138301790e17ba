package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lucy-college/common/metrics"

	"github.com/IBM/sarama"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.EventMetrics
	logger   *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, m *metrics.EventMetrics, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info("kafka publisher initialized", "brokers", brokers, "topic", topic)

	return newKafkaPublisher(producer, topic, m, logger), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string, m *metrics.EventMetrics, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger,
	}
}

func ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "lucy-college"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return config
}

// Publish keys messages by entity so events for one code stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()

	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordPublish(ctx, "kafka", event.Type, time.Since(start), err)
		return fmt.Errorf("marshal %s: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(valueBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)

	p.metrics.RecordPublish(ctx, "kafka", event.Type, time.Since(start), err)

	if err != nil {
		return fmt.Errorf("send %s to kafka: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "event sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "key", event.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
