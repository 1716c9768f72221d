package pgstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (r *Repository) SaveEvent(ctx context.Context, event model.LoanEvent) error {
	q := `insert into loan_events (id, loan_id, book_id, type, from_status, to_status, fine, occurred_at)
	values (@id, @loan_id, @book_id, @type, @from_status, @to_status, @fine, @occurred_at)
	on conflict (id) do nothing`
	args := pgx.NamedArgs{
		"id":          event.ID,
		"loan_id":     event.LoanID,
		"book_id":     event.BookID,
		"type":        event.Type,
		"from_status": event.From,
		"to_status":   event.To,
		"fine":        event.Fine,
		"occurred_at": event.OccurredAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return mapErr(err)
}

func (r *Repository) ListEvents(ctx context.Context, loanID string) ([]model.LoanEvent, error) {
	if err := checkID(loanID); err != nil {
		return nil, err
	}
	return getAll[model.LoanEvent](ctx, r.db, qb.
		Select("id", "loan_id", "book_id", "type", "from_status", "to_status", "fine", "occurred_at").
		From(eventsTableName).
		Where(sq.Eq{"loan_id": loanID}).
		OrderBy("occurred_at"))
}
