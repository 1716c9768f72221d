package handler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/serializer"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx context.Context

	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()

	good := model.LoanEvent{ID: "e1", LoanID: loanID, Type: model.EventLoanReturned, Fine: 500, OccurredAt: day(2024, 3, 20)}
	goodRaw, err := serializer.Marshal(good)
	require.NoError(t, err)
	failing := model.LoanEvent{ID: "e2", LoanID: loanID, Type: model.EventFinePaid}
	failingRaw, err := serializer.Marshal(failing)
	require.NoError(t, err)

	var recorded []model.LoanEvent
	record := func(_ context.Context, event model.LoanEvent) error {
		if event.ID == "e2" {
			return errors.New("store down")
		}
		recorded = append(recorded, event)
		return nil
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("{broken"), Topic: "lending.loans"}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: failingRaw, Topic: "lending.loans"}
	claim.messages <- &sarama.ConsumerMessage{Offset: 3, Value: goodRaw, Topic: "lending.loans", Timestamp: time.Now()}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	consumer := handler.NewConsumer(record, zap.NewExample())
	require.NoError(t, consumer.Setup(session))
	require.NoError(t, consumer.ConsumeClaim(session, claim))
	require.NoError(t, consumer.Cleanup(session))

	// malformed input is skipped, a failed write stays unmarked
	require.Equal(t, []int64{1, 3}, session.marked)
	require.Len(t, recorded, 1)
	require.Equal(t, good.ID, recorded[0].ID)
	require.Equal(t, good.Fine, recorded[0].Fine)
	require.True(t, good.OccurredAt.Equal(recorded[0].OccurredAt))
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{ctx: ctx}
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}
	consumer := handler.NewConsumer(func(context.Context, model.LoanEvent) error { return nil }, zap.NewNop())

	require.NoError(t, consumer.ConsumeClaim(session, claim))
	require.Empty(t, session.marked)
}
