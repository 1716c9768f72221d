package pgstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var loanColumns = []string{
	"id", "book_id", "borrower_id", "loan_date", "due_date", "status", "notes",
	"renewals", "fine", "terms_accepted", "created_at", "updated_at",
}

var returningLoan = "returning " + strings.Join(loanColumns, ", ")

func (r *Repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	for _, id := range []string{loan.BookID, loan.BorrowerID} {
		if err := checkID(id); err != nil {
			return model.Loan{}, err
		}
	}
	res, err := getOne[model.Loan](ctx, r.db, qb.Insert(loansTableName).
		SetMap(map[string]any{
			"id":             loan.ID,
			"book_id":        loan.BookID,
			"borrower_id":    loan.BorrowerID,
			"loan_date":      loan.LoanDate,
			"due_date":       loan.DueDate,
			"status":         loan.Status,
			"notes":          loan.Notes,
			"renewals":       loan.Renewals,
			"fine":           loan.Fine,
			"terms_accepted": loan.TermsAccepted,
			"created_at":     loan.CreatedAt,
			"updated_at":     loan.UpdatedAt,
		}).
		Suffix(returningLoan))
	if err != nil {
		r.log.Error("CreateLoan", zap.String("book", loan.BookID), zap.Error(err))
		return model.Loan{}, err
	}
	return res, nil
}

func (r *Repository) GetLoan(ctx context.Context, id string) (model.Loan, error) {
	if err := checkID(id); err != nil {
		return model.Loan{}, err
	}
	return getOne[model.Loan](ctx, r.db, qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) LockLoan(ctx context.Context, id string) (model.Loan, error) {
	if err := checkID(id); err != nil {
		return model.Loan{}, err
	}
	return getOne[model.Loan](ctx, r.db, qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update"))
}

func (r *Repository) ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.Loan, error) {
	q := qb.Select(loanColumns...).
		From(loansTableName).
		OrderBy("loan_date desc")
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	eq, ok := eqIDs(map[string]string{"book_id": filter.BookID, "borrower_id": filter.BorrowerID})
	if !ok {
		return []model.Loan{}, nil
	}
	if len(eq) > 0 {
		q = q.Where(eq)
	}
	return getAll[model.Loan](ctx, r.db, q)
}

func (r *Repository) UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if err := checkID(loan.ID); err != nil {
		return model.Loan{}, err
	}
	return getOne[model.Loan](ctx, r.db, qb.Update(loansTableName).
		SetMap(map[string]any{
			"due_date":       loan.DueDate,
			"status":         loan.Status,
			"notes":          loan.Notes,
			"renewals":       loan.Renewals,
			"fine":           loan.Fine,
			"terms_accepted": loan.TermsAccepted,
			"updated_at":     loan.UpdatedAt,
		}).
		Where(sq.Eq{"id": loan.ID}).
		Suffix(returningLoan))
}

func (r *Repository) SetLoanFine(ctx context.Context, id string, fine int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Update(loansTableName).
		Set("fine", fine).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) DeleteLoan(ctx context.Context, id string) (model.Loan, error) {
	if err := checkID(id); err != nil {
		return model.Loan{}, err
	}
	return getOne[model.Loan](ctx, r.db, qb.Delete(loansTableName).
		Where(sq.Eq{"id": id}).
		Suffix(returningLoan))
}
