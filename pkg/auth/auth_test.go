package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerify(t *testing.T) {
	t.Parallel()
	m := NewManager(Config{Secret: "secret", TTL: time.Hour})

	token, exp, err := m.Issue("6a0c1f4e-6c1b-4a43-9d0a-2b7f3c1e9a11")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Second*5)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "6a0c1f4e-6c1b-4a43-9d0a-2b7f3c1e9a11", claims.UserID)
}

func TestManager_Verify(t *testing.T) {
	t.Parallel()
	issued := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewManager(Config{Secret: "secret", TTL: time.Hour})
	m.now = func() time.Time { return issued }
	token, _, err := m.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		verify  *Manager
		wantErr bool
	}{
		{
			name:   "ok. within ttl",
			token:  token,
			verify: &Manager{key: []byte("secret"), ttl: time.Hour, now: func() time.Time { return issued.Add(59 * time.Minute) }},
		},
		{
			name:    "err. expired",
			token:   token,
			verify:  &Manager{key: []byte("secret"), ttl: time.Hour, now: func() time.Time { return issued.Add(61 * time.Minute) }},
			wantErr: true,
		},
		{
			name:    "err. wrong secret",
			token:   token,
			verify:  &Manager{key: []byte("other"), ttl: time.Hour, now: func() time.Time { return issued }},
			wantErr: true,
		},
		{
			name:    "err. garbage",
			token:   "not.a.token",
			verify:  m,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.verify.Verify(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.UserID)
		})
	}
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()
	_, err := GetUserID(context.Background())
	require.ErrorIs(t, err, ErrNoUser)

	id, err := GetUserID(SetUserID(context.Background(), "u1"))
	require.NoError(t, err)
	require.Equal(t, "u1", id)
}
