package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
)

// RegisterReturn closes a loan. Inside one transaction it locks the loan,
// computes the fine from the due date, writes the return record with a
// snapshot of the book and borrower, marks the loan returned and frees the book.
func (s *Service) RegisterReturn(ctx context.Context, req model.RegisterReturnRequest) (model.Return, error) {
	condition := req.BookCondition
	if condition == "" {
		condition = model.BookConditionGood
	}
	now := s.now()

	var (
		rec    model.Return
		closed model.Loan
		prev   model.LoanStatus
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		loan, err := repo.LockLoan(ctx, req.LoanID)
		if err != nil {
			return err
		}
		switch loan.Status {
		case model.LoanStatusReturned:
			return errs.ErrAlreadyReturned
		case model.LoanStatusCancelled:
			return errors.Wrap(errs.ErrLoanNotActive, "loan was cancelled")
		}
		prev = loan.Status

		book, err := repo.GetBook(ctx, loan.BookID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		borrower, err := repo.GetUser(ctx, loan.BorrowerID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		lateDays, fine := CalculateFine(loan.DueDate, now)
		rec, err = repo.CreateReturn(ctx, model.Return{
			ID:               uuid.NewString(),
			LoanID:           loan.ID,
			BookID:           loan.BookID,
			BorrowerID:       loan.BorrowerID,
			BookTitle:        book.Title,
			BookISBN:         book.ISBN,
			BorrowerName:     borrower.FullName(),
			ReturnedAt:       now,
			OriginalLoanDate: loan.LoanDate,
			ExpectedDueDate:  loan.DueDate,
			LateDays:         lateDays,
			Fine:             fine,
			BookCondition:    condition,
			Notes:            req.Notes,
			FinePaid:         req.FinePaid,
			CreatedBy:        req.CreatedBy,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			if errors.Is(err, errs.ErrDuplicate) {
				return errs.ErrAlreadyReturned
			}
			return errors.Wrap(err, "create return")
		}

		loan.Status = model.LoanStatusReturned
		loan.Fine = fine
		loan.UpdatedAt = now
		if closed, err = repo.UpdateLoan(ctx, loan); err != nil {
			return errors.Wrap(err, "close loan")
		}
		// returned always differs from prev here, so the book becomes available.
		return s.syncAvailability(ctx, repo, closed.BookID, prev, closed.Status)
	})
	if err != nil {
		return model.Return{}, err
	}

	s.log.Info("loan returned",
		zap.String("loan", closed.ID),
		zap.Int("late_days", rec.LateDays),
		zap.Int64("fine", rec.Fine))
	s.publish(ctx, s.newEvent(closed, model.EventLoanReturned, prev, closed.Status))
	return rec, nil
}

func (s *Service) GetReturn(ctx context.Context, id string) (model.Return, error) {
	return s.repo.GetReturn(ctx, id)
}

func (s *Service) ListReturns(ctx context.Context, filter model.ReturnFilter, paging model.Paging) (model.ListReturns, error) {
	paging = paging.Normalize()

	var (
		items []model.Return
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.repo.ListReturns(gctx, filter, paging)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.repo.CountReturns(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ListReturns{}, err
	}
	if items == nil {
		items = []model.Return{}
	}
	return model.ListReturns{
		Items:       items,
		TotalPages:  model.TotalPages(total, paging.Limit),
		CurrentPage: paging.Page,
		Total:       total,
	}, nil
}

// UpdateFinePaid flips the paid flag and copies the computed fine back onto
// the loan, even if the loan has changed since.
func (s *Service) UpdateFinePaid(ctx context.Context, id string, paid bool) (model.Return, error) {
	var rec model.Return
	err := s.repo.WithinTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		var err error
		if rec, err = repo.SetFinePaid(ctx, id, paid); err != nil {
			return err
		}
		err = repo.SetLoanFine(ctx, rec.LoanID, rec.Fine)
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Warn("fine paid: loan is gone", zap.String("loan", rec.LoanID))
			return nil
		}
		return err
	})
	if err != nil {
		return model.Return{}, err
	}
	if paid {
		s.publish(ctx, model.LoanEvent{
			ID:         uuid.NewString(),
			LoanID:     rec.LoanID,
			BookID:     rec.BookID,
			Type:       model.EventFinePaid,
			Fine:       rec.Fine,
			OccurredAt: s.now(),
		})
	}
	return rec, nil
}
