package pgstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	lendingRepo "github.com/Astemirdum/library-lending/lending/internal/repository"
)

const (
	authorsTableName   = `authors`
	booksTableName     = `books`
	usersTableName     = `users`
	operatorsTableName = `operators`
	loansTableName     = `loans`
	returnsTableName   = `returns`
	eventsTableName    = `loan_events`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db   querier
	pool *pgxpool.Pool
	inTx bool
	log  *zap.Logger
}

var _ lendingRepo.Repository = (*Repository)(nil)

func NewRepository(db *pgxpool.Pool, log *zap.Logger) *Repository {
	return &Repository{
		db:   db,
		pool: db,
		log:  log.Named("repo"),
	}
}

func (r *Repository) WithinTx(ctx context.Context, fn lendingRepo.TxFunc) error {
	if r.inTx {
		return fn(ctx, r)
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &Repository{db: tx, inTx: true, log: r.log})
	})
}

func getOne[T any](ctx context.Context, db querier, b sq.Sqlizer) (T, error) {
	var zero T
	q, args, err := b.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return zero, mapErr(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapErr(err)
	}
	return item, nil
}

func getAll[T any](ctx context.Context, db querier, b sq.Sqlizer) ([]T, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(mapErr(err), "pgx.CollectRows")
	}
	return items, nil
}

// exec runs b and reports ErrNotFound when no row was touched.
func exec(ctx context.Context, db querier, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, q, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return errors.Wrap(errs.ErrValidation, pgErr.Message)
		case pgerrcode.InvalidTextRepresentation:
			return errs.ErrNotFound
		}
	}
	return err
}

// checkID rejects ids that can never match a uuid column.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.ErrNotFound
	}
	return nil
}

// eqIDs filters on the non-empty id columns. ok is false when an id can
// never match.
func eqIDs(ids map[string]string) (eq sq.Eq, ok bool) {
	eq = sq.Eq{}
	for col, id := range ids {
		if id == "" {
			continue
		}
		if checkID(id) != nil {
			return nil, false
		}
		eq[col] = id
	}
	return eq, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
