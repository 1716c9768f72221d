package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
)

const (
	DefaultRenewDays = 14
	joinConcurrency  = 8
)

func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	now := s.now()
	loan := model.Loan{
		ID:            uuid.NewString(),
		BookID:        req.BookID,
		BorrowerID:    req.BorrowerID,
		LoanDate:      now,
		DueDate:       req.DueDate.Time,
		Status:        req.Status,
		Notes:         req.Notes,
		Renewals:      req.Renewals,
		Fine:          req.Fine,
		TermsAccepted: req.TermsAccepted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.LoanDate != nil && !req.LoanDate.IsZero() {
		loan.LoanDate = req.LoanDate.Time
	}
	if loan.Status == "" {
		loan.Status = model.LoanStatusPending
	}
	if err := validateNewLoan(loan); err != nil {
		return model.Loan{}, err
	}

	var created model.Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		book, err := repo.GetBook(ctx, loan.BookID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.Validation("libro %s does not exist", loan.BookID)
			}
			return err
		}
		if book.Availability != model.AvailabilityAvailable {
			return errors.Wrapf(errs.ErrBookUnavailable, "libro is %s", book.Availability)
		}
		if _, err := repo.GetUser(ctx, loan.BorrowerID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.Validation("usuario %s does not exist", loan.BorrowerID)
			}
			return err
		}
		if created, err = repo.CreateLoan(ctx, loan); err != nil {
			return err
		}
		return s.syncAvailability(ctx, repo, created.BookID, "", created.Status)
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, s.newEvent(created, model.EventLoanCreated, "", created.Status))
	return created, nil
}

func validateNewLoan(loan model.Loan) error {
	switch {
	case loan.BookID == "" || loan.BorrowerID == "":
		return errs.Validation("libro and usuario are required")
	case loan.DueDate.IsZero():
		return errs.Validation("fechaDevolucion is required")
	case loan.DueDate.Before(loan.LoanDate):
		return errs.Validation("fechaDevolucion is before fechaPrestamo")
	case loan.Status != model.LoanStatusPending && loan.Status != model.LoanStatusLoaned:
		return errs.Validation("a new loan must be pending or loaned, got %q", loan.Status)
	}
	return validateCounters(loan)
}

func validateCounters(loan model.Loan) error {
	if loan.Renewals < 0 || loan.Renewals > model.MaxRenewals {
		return errs.Validation("renovaciones must be between 0 and %d", model.MaxRenewals)
	}
	if loan.Fine < 0 {
		return errs.Validation("multa must not be negative")
	}
	return nil
}

func (s *Service) GetLoan(ctx context.Context, id string) (model.LoanView, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return model.LoanView{}, err
	}
	views, err := s.join(ctx, []model.Loan{loan})
	if err != nil {
		return model.LoanView{}, err
	}
	return views[0], nil
}

func (s *Service) ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error) {
	loans, err := s.repo.ListLoans(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, loans)
}

// join attaches the current book and borrower to each loan. Dangling
// references are left empty.
func (s *Service) join(ctx context.Context, loans []model.Loan) ([]model.LoanView, error) {
	var (
		mu          sync.Mutex
		books       = make(map[string]*model.Book)
		borrowers   = make(map[string]*model.User)
		bookIDs     []string
		borrowerIDs []string
	)
	for _, l := range loans {
		if _, ok := books[l.BookID]; !ok {
			books[l.BookID] = nil
			bookIDs = append(bookIDs, l.BookID)
		}
		if _, ok := borrowers[l.BorrowerID]; !ok {
			borrowers[l.BorrowerID] = nil
			borrowerIDs = append(borrowerIDs, l.BorrowerID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinConcurrency)
	for _, id := range bookIDs {
		id := id
		g.Go(func() error {
			b, err := s.repo.GetBook(gctx, id)
			if errors.Is(err, errs.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			books[id] = &b
			mu.Unlock()
			return nil
		})
	}
	for _, id := range borrowerIDs {
		id := id
		g.Go(func() error {
			u, err := s.repo.GetUser(gctx, id)
			if errors.Is(err, errs.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			borrowers[id] = &u
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "join loans")
	}

	views := make([]model.LoanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, model.LoanView{
			Loan:     l,
			Book:     books[l.BookID],
			Borrower: borrowers[l.BorrowerID],
		})
	}
	return views, nil
}

// UpdateLoan applies an operator edit. The returned status is only reachable
// through RegisterReturn.
func (s *Service) UpdateLoan(ctx context.Context, id string, req model.UpdateLoanRequest) (model.Loan, error) {
	var prev, updated model.Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		cur, err := repo.LockLoan(ctx, id)
		if err != nil {
			return err
		}
		prev = cur
		next := cur
		if req.Status != nil && *req.Status != cur.Status {
			st := *req.Status
			if !st.Valid() {
				return errs.Validation("unknown estado %q", st)
			}
			if st == model.LoanStatusReturned {
				return errors.Wrap(errs.ErrTransition, "register a return to close the loan")
			}
			if !cur.Status.CanTransitionTo(st) {
				return errors.Wrapf(errs.ErrTransition, "%s -> %s", cur.Status, st)
			}
			next.Status = st
		}
		if req.DueDate != nil {
			if req.DueDate.IsZero() {
				return errs.Validation("fechaDevolucion is required")
			}
			if req.DueDate.Before(cur.LoanDate) {
				return errs.Validation("fechaDevolucion is before fechaPrestamo")
			}
			next.DueDate = req.DueDate.Time
		}
		if req.Notes != nil {
			next.Notes = *req.Notes
		}
		if req.Renewals != nil {
			next.Renewals = *req.Renewals
		}
		if req.Fine != nil {
			next.Fine = *req.Fine
		}
		if req.TermsAccepted != nil {
			next.TermsAccepted = *req.TermsAccepted
		}
		if err := validateCounters(next); err != nil {
			return err
		}
		next.UpdatedAt = s.now()
		if updated, err = repo.UpdateLoan(ctx, next); err != nil {
			return err
		}
		return s.syncAvailability(ctx, repo, updated.BookID, prev.Status, updated.Status)
	})
	if err != nil {
		return model.Loan{}, err
	}
	if prev.Status != updated.Status {
		s.publish(ctx, s.newEvent(updated, model.EventStatusChanged, prev.Status, updated.Status))
	}
	return updated, nil
}

// DeleteLoan removes the loan only; its return record and the book are untouched.
func (s *Service) DeleteLoan(ctx context.Context, id string) error {
	loan, err := s.repo.DeleteLoan(ctx, id)
	if err != nil {
		return err
	}
	s.publish(ctx, s.newEvent(loan, model.EventLoanDeleted, loan.Status, ""))
	return nil
}

func (s *Service) RenewLoan(ctx context.Context, id string, days int) (model.Loan, error) {
	if days <= 0 {
		days = DefaultRenewDays
	}
	var renewed model.Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		cur, err := repo.LockLoan(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Status.Active() {
			return errors.Wrapf(errs.ErrLoanNotActive, "estado is %s", cur.Status)
		}
		if cur.Renewals >= model.MaxRenewals {
			return errs.Validation("renovaciones cannot exceed %d", model.MaxRenewals)
		}
		cur.Renewals++
		cur.DueDate = cur.DueDate.AddDate(0, 0, days)
		cur.UpdatedAt = s.now()
		renewed, err = repo.UpdateLoan(ctx, cur)
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, s.newEvent(renewed, model.EventLoanRenewed, renewed.Status, renewed.Status))
	return renewed, nil
}

func (s *Service) EstimateLoan(ctx context.Context, id string) (model.LateEstimate, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return model.LateEstimate{}, err
	}
	now := s.now()
	days, fine := EstimateLateness(loan, now)
	return model.LateEstimate{
		LoanID:   loan.ID,
		AsOf:     now,
		LateDays: days,
		Fine:     fine,
	}, nil
}
