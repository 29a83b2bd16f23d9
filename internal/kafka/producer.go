package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"

	"github.com/dejobratic/ordenes/internal/orders/domain"
)

// Producer publishes order lifecycle events to Kafka, keyed by order number so that
// every event of one order lands on the same partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	now      func() time.Time
}

// NewProducer connects a synchronous, idempotent producer to the brokers.
func NewProducer(brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return newProducer(producer, topic, logger), nil
}

func newProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Producer {
	if topic == "" {
		topic = DefaultOrdersTopic
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka-producer"),
		now:      time.Now,
	}
}

func (p *Producer) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, newOrderEvent(EventTypeOrderCreated, order, p.now()))
}

func (p *Producer) PublishOrderStatusChanged(ctx context.Context, number string, status domain.OrderStatus) error {
	order := domain.Order{Number: number, Status: status}
	return p.publish(ctx, newOrderEvent(EventTypeOrderStatusChanged, order, p.now()))
}

func (p *Producer) PublishOrderDeleted(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, newOrderEvent(EventTypeOrderDeleted, order, p.now()))
}

func (p *Producer) publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.Number),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.Timestamp,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: msg})

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send message to kafka",
			"error", err,
			"topic", p.topic,
			"event_type", event.EventType,
			"numero_orden", event.Number,
		)
		return fmt.Errorf("send message: %w", err)
	}

	p.logger.DebugContext(ctx, "message sent to kafka",
		"topic", p.topic,
		"event_type", event.EventType,
		"partition", partition,
		"offset", offset,
	)

	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}

// headerCarrier adapts Kafka record headers to the OTel propagation carrier.
type headerCarrier struct {
	msg *sarama.ProducerMessage
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if string(h.Key) == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, string(h.Key))
	}
	return keys
}
