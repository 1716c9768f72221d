package pgstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var returnColumns = []string{
	"id", "loan_id", "book_id", "borrower_id", "book_title", "book_isbn", "borrower_name",
	"returned_at", "original_loan_date", "expected_due_date", "late_days", "fine",
	"book_condition", "notes", "fine_paid", "created_by", "created_at", "updated_at",
}

var returningReturn = "returning " + strings.Join(returnColumns, ", ")

func (r *Repository) CreateReturn(ctx context.Context, rec model.Return) (model.Return, error) {
	res, err := getOne[model.Return](ctx, r.db, qb.Insert(returnsTableName).
		SetMap(map[string]any{
			"id":                 rec.ID,
			"loan_id":            rec.LoanID,
			"book_id":            rec.BookID,
			"borrower_id":        rec.BorrowerID,
			"book_title":         rec.BookTitle,
			"book_isbn":          rec.BookISBN,
			"borrower_name":      rec.BorrowerName,
			"returned_at":        rec.ReturnedAt,
			"original_loan_date": rec.OriginalLoanDate,
			"expected_due_date":  rec.ExpectedDueDate,
			"late_days":          rec.LateDays,
			"fine":               rec.Fine,
			"book_condition":     rec.BookCondition,
			"notes":              rec.Notes,
			"fine_paid":          rec.FinePaid,
			"created_by":         rec.CreatedBy,
			"created_at":         rec.CreatedAt,
			"updated_at":         rec.UpdatedAt,
		}).
		Suffix(returningReturn))
	if err != nil {
		r.log.Error("CreateReturn", zap.String("loan", rec.LoanID), zap.Error(err))
		return model.Return{}, err
	}
	return res, nil
}

func (r *Repository) GetReturn(ctx context.Context, id string) (model.Return, error) {
	if err := checkID(id); err != nil {
		return model.Return{}, err
	}
	return getOne[model.Return](ctx, r.db, qb.Select(returnColumns...).
		From(returnsTableName).
		Where(sq.Eq{"id": id}))
}

func returnFilter(q sq.SelectBuilder, f model.ReturnFilter) (sq.SelectBuilder, bool) {
	eq, ok := eqIDs(map[string]string{"borrower_id": f.BorrowerID, "book_id": f.BookID})
	if !ok {
		return q, false
	}
	if len(eq) > 0 {
		q = q.Where(eq)
	}
	if !f.From.IsZero() {
		q = q.Where(sq.GtOrEq{"returned_at": f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(sq.LtOrEq{"returned_at": f.To})
	}
	return q, true
}

func (r *Repository) ListReturns(ctx context.Context, filter model.ReturnFilter, paging model.Paging) ([]model.Return, error) {
	q, ok := returnFilter(qb.Select(returnColumns...).From(returnsTableName), filter)
	if !ok {
		return []model.Return{}, nil
	}
	q = q.OrderBy("returned_at desc").
		Limit(uint64(paging.Limit)).
		Offset(uint64(paging.Offset()))
	return getAll[model.Return](ctx, r.db, q)
}

func (r *Repository) CountReturns(ctx context.Context, filter model.ReturnFilter) (int, error) {
	q, ok := returnFilter(qb.Select("count(*)").From(returnsTableName), filter)
	if !ok {
		return 0, nil
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

func (r *Repository) SetFinePaid(ctx context.Context, id string, paid bool) (model.Return, error) {
	if err := checkID(id); err != nil {
		return model.Return{}, err
	}
	return getOne[model.Return](ctx, r.db, qb.Update(returnsTableName).
		Set("fine_paid", paid).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(returningReturn))
}
