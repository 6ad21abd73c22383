// Package kafka publishes buyer and seller notifications to a Kafka topic.
// Each message is keyed by the recipient id so one recipient's messages stay
// ordered on a single partition.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace/internal/adapters/out/kafka")

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Envelope is the JSON value of every notification message.
type Envelope struct {
	Recipient   notification.Recipient `json:"recipient"`
	RecipientID kernel.UUID            `json:"recipientId"`
	Event       string                 `json:"event"`
	Payload     notification.Payload   `json:"payload"`
	SentAt      time.Time              `json:"sentAt"`
}

type Dispatcher struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.NotificationDispatcher = (*Dispatcher)(nil)

func NewDispatcher(brokers []string, topic string, logger *zap.Logger) *Dispatcher {
	return NewDispatcherWithWriter(&kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}, logger)
}

// NewDispatcherWithWriter wraps an existing writer.
func NewDispatcherWithWriter(writer messageWriter, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		writer: writer,
		logger: logger.With(zap.String("component", "notification_dispatcher")),
		now:    time.Now,
	}
}

func (d *Dispatcher) NotifyBuyer(ctx context.Context, buyerID kernel.UUID, event string, payload notification.Payload) error {
	return d.publish(ctx, notification.Buyer, buyerID, event, payload)
}

func (d *Dispatcher) NotifySeller(ctx context.Context, sellerID kernel.UUID, event string, payload notification.Payload) error {
	return d.publish(ctx, notification.Seller, sellerID, event, payload)
}

func (d *Dispatcher) publish(
	ctx context.Context,
	recipient notification.Recipient,
	recipientID kernel.UUID,
	event string,
	payload notification.Payload,
) error {
	ctx, span := tracer.Start(ctx, "kafka.publish "+event, trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.String("notification.recipient", string(recipient)),
		attribute.String("notification.recipient_id", recipientID.String()),
	)

	value, err := json.Marshal(Envelope{
		Recipient:   recipient,
		RecipientID: recipientID,
		Event:       event,
		Payload:     payload,
		SentAt:      d.now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = d.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(recipientID.String()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(event)},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("failed to publish notification",
			zap.String("event", event),
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
		return err
	}

	d.logger.Debug("notification published",
		zap.String("event", event),
		zap.String("recipient_id", recipientID.String()))
	return nil
}

func (d *Dispatcher) Close() error {
	if d.writer != nil {
		return d.writer.Close()
	}
	return nil
}
