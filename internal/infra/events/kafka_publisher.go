// Package events publishes invoice lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/usecase"
)

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one JSON message per event, keyed by the invoice
// internal id so an invoice's events stay on one partition in order.
type KafkaPublisher struct {
	w      messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           writeTimeout,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev usecase.InvoiceEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(ev.InvoiceInternalID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
		Time: ev.OccurredAt,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}

	p.logger.Debug("event published", zap.String("type", ev.Type), zap.String("invoice", ev.InvoiceInternalID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, usecase.InvoiceEvent) error { return nil }
