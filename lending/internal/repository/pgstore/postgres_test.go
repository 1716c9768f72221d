package pgstore

import (
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func TestMapErr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: errs.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "returns_loan_id_key"}, want: errs.ErrDuplicate},
		{name: "check", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: errs.ErrValidation},
		{name: "bad uuid", err: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: errs.ErrNotFound},
	}
	for _, tt := range tests {
		got := mapErr(tt.err)
		require.ErrorIs(t, got, tt.want, tt.name)
	}

	require.ErrorIs(t, mapErr(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), errs.ErrConflict)

	other := errors.New("conn reset")
	require.Equal(t, other, mapErr(other))
}

func TestReturnFilter(t *testing.T) {
	t.Parallel()
	const borrower = "3a2b1c0d-9e8f-4a7b-8c6d-5e4f3a2b1c0d"
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	q, ok := returnFilter(qb.Select("count(*)").From(returnsTableName), model.ReturnFilter{BorrowerID: borrower, From: from})
	require.True(t, ok)
	sql, args, err := q.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM returns WHERE borrower_id = $1 AND returned_at >= $2", sql)
	require.Equal(t, []any{borrower, from}, args)

	_, ok = returnFilter(qb.Select("count(*)").From(returnsTableName), model.ReturnFilter{BookID: "not-a-uuid"})
	require.False(t, ok)
}

func TestEqIDs(t *testing.T) {
	t.Parallel()
	eq, ok := eqIDs(map[string]string{"book_id": "", "borrower_id": ""})
	require.True(t, ok)
	require.Empty(t, eq)

	_, ok = eqIDs(map[string]string{"book_id": "42"})
	require.False(t, ok)
}
