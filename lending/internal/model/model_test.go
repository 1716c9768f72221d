package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from, to LoanStatus
		want     bool
	}{
		{LoanStatusPending, LoanStatusLoaned, true},
		{LoanStatusPending, LoanStatusCancelled, true},
		{LoanStatusPending, LoanStatusReturned, false},
		{LoanStatusLoaned, LoanStatusOverdue, true},
		{LoanStatusLoaned, LoanStatusReturned, true},
		{LoanStatusLoaned, LoanStatusPending, false},
		{LoanStatusOverdue, LoanStatusReturned, true},
		{LoanStatusOverdue, LoanStatusCancelled, false},
		{LoanStatusReturned, LoanStatusLoaned, false},
		{LoanStatusCancelled, LoanStatusLoaned, false},
		{LoanStatusReturned, LoanStatusReturned, true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	require.True(t, LoanStatusOverdue.Active())
	require.False(t, LoanStatusPending.Active())
	require.True(t, LoanStatusCancelled.Terminal())
	require.False(t, LoanStatus("lost").Valid())
}

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "date only", input: `"2024-03-15"`, want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 with offset", input: `"2024-03-15T10:30:00-05:00"`, want: time.Date(2024, 3, 15, 15, 30, 0, 0, time.UTC)},
		{name: "date time", input: `"2024-03-15 08:00:00"`, want: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)},
		{name: "null", input: `null`},
		{name: "garbage", input: `"15/03/2024"`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req struct {
				Due Date `json:"fechaDevolucion"`
			}
			err := json.Unmarshal([]byte(`{"fechaDevolucion":`+tt.input+`}`), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(req.Due.Time), req.Due.Time.String())
		})
	}
}

func TestPaging(t *testing.T) {
	t.Parallel()
	p := Paging{}.Normalize()
	require.Equal(t, Paging{Page: DefaultPage, Limit: DefaultLimit}, p)
	require.Zero(t, p.Offset())

	p = Paging{Page: 3, Limit: 500}.Normalize()
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 200, p.Offset())

	require.Equal(t, 0, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
}

func TestUser_FullName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Ana Pérez", User{Name: "Ana", Surname: "Pérez"}.FullName())
	require.Equal(t, "Ana", User{Name: "Ana"}.FullName())
}
