package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/veekshithcb/Qkartbackend/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// checkout publishes on the request path, one message at a time
const batchTimeout = 10 * time.Millisecond

type KafkaProducer struct {
	writer messageWriter
	topic  string
}

// NewKafkaProducer builds a producer for a comma separated broker list.
// Messages are keyed by user id so one user's checkouts stay ordered.
func NewKafkaProducer(brokersCSV, topic string) (*KafkaProducer, error) {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: batchTimeout,
	}
	return &KafkaProducer{writer: writer, topic: topic}, nil
}

func (p *KafkaProducer) PublishCheckout(ctx context.Context, event models.CheckoutEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
