package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.LoanEvent) error { return nil }

func (s *Service) newEvent(loan model.Loan, typ model.EventType, from, to model.LoanStatus) model.LoanEvent {
	return model.LoanEvent{
		ID:         uuid.NewString(),
		LoanID:     loan.ID,
		BookID:     loan.BookID,
		Type:       typ,
		From:       from,
		To:         to,
		Fine:       loan.Fine,
		OccurredAt: s.now(),
	}
}

// publish never fails the caller; the loan write has already committed.
func (s *Service) publish(ctx context.Context, event model.LoanEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish loan event",
			zap.String("loan", event.LoanID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}

// RecordEvent stores an event delivered by the audit consumer.
func (s *Service) RecordEvent(ctx context.Context, event model.LoanEvent) error {
	return s.repo.SaveEvent(ctx, event)
}

func (s *Service) ListLoanEvents(ctx context.Context, loanID string) ([]model.LoanEvent, error) {
	return s.repo.ListEvents(ctx, loanID)
}
