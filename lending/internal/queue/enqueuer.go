package queue

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	"github.com/Astemirdum/library-lending/pkg/serializer"
)

const (
	cbRecordLength     = 20
	cbTimeout          = 30 * time.Second
	cbPercentile       = 0.5
	cbRecoveryRequests = 3
)

// Enqueuer publishes loan events to Kafka. Calls fail fast while the
// breaker is open.
type Enqueuer struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

func NewEnqueuer(producer sarama.SyncProducer, topic string) *Enqueuer {
	return &Enqueuer{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(cbRecordLength, cbTimeout, cbPercentile, cbRecoveryRequests),
	}
}

func (q *Enqueuer) Publish(_ context.Context, event model.LoanEvent) error {
	data, err := serializer.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		// one partition per loan keeps its events ordered
		Key:   sarama.StringEncoder(event.LoanID),
		Value: sarama.ByteEncoder(data),
	}
	return q.cb.Call(func() error {
		_, _, err := q.producer.SendMessage(msg)
		return err
	})
}

func (q *Enqueuer) Close() error {
	return q.producer.Close()
}

type EventStore interface {
	SaveEvent(ctx context.Context, event model.LoanEvent) error
}

// Recorder writes events straight to storage when no broker is configured.
type Recorder struct {
	store EventStore
}

func NewRecorder(store EventStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Publish(ctx context.Context, event model.LoanEvent) error {
	return r.store.SaveEvent(ctx, event)
}
