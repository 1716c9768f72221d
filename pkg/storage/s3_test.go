package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestS3_KeyFromURL(t *testing.T) {
	t.Parallel()
	s := &S3{baseURL: "https://covers.s3.us-east-1.amazonaws.com/"}

	key := "covers/b1/0f0e.png"
	url := s.ObjectURL(key)
	require.Equal(t, "https://covers.s3.us-east-1.amazonaws.com/covers/b1/0f0e.png", url)

	got, ok := s.KeyFromURL(url)
	require.True(t, ok)
	require.Equal(t, key, got)

	_, ok = s.KeyFromURL("https://example.com/cover.jpg")
	require.False(t, ok)
	_, ok = s.KeyFromURL(s.baseURL)
	require.False(t, ok)
}
