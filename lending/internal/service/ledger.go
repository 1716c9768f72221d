package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
)

// AvailabilityFor maps a loan status to the book availability it implies.
// Statuses without a book side effect report false.
func AvailabilityFor(status model.LoanStatus) (model.Availability, bool) {
	switch status {
	case model.LoanStatusLoaned:
		return model.AvailabilityLoaned, true
	case model.LoanStatusReturned:
		return model.AvailabilityAvailable, true
	}
	return "", false
}

// SetAvailability writes a book's availability directly. It does not look at
// the book's loans.
func (s *Service) SetAvailability(ctx context.Context, bookID string, availability model.Availability) error {
	if !availability.Valid() {
		return errs.Validation("unknown availability %q", availability)
	}
	return s.repo.SetAvailability(ctx, bookID, availability)
}

// syncAvailability runs after every loan write. It only acts when the status
// changed; a missing book is logged and skipped.
func (s *Service) syncAvailability(ctx context.Context, repo repository.Repository, bookID string, prev, next model.LoanStatus) error {
	if prev == next {
		return nil
	}
	availability, ok := AvailabilityFor(next)
	if !ok {
		return nil
	}
	err := repo.SetAvailability(ctx, bookID, availability)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Warn("availability: book not found", zap.String("book", bookID), zap.String("status", string(next)))
		return nil
	}
	return errors.Wrap(err, "set availability")
}
