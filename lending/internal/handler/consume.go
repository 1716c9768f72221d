package handler

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/serializer"
)

type recordEvent func(ctx context.Context, event model.LoanEvent) error

// Consumer stores loan events from the audit consumer group.
type Consumer struct {
	recordEventHandler recordEvent
	log                *zap.Logger
}

func NewConsumer(record recordEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		recordEventHandler: record,
		log:                log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event model.LoanEvent
			if err := serializer.Unmarshal(message.Value, &event); err != nil || event.ID == "" {
				consumer.log.Error("skip malformed event", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}

			// unmarked messages are redelivered after a rebalance
			if err := consumer.recordEventHandler(session.Context(), event); err != nil {
				consumer.log.Error("consumer.recordEventHandler", zap.String("event", event.ID), zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
