package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/pkg/auth"
	md "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()
	m := auth.NewManager(auth.Config{Secret: "secret", TTL: time.Hour})
	token, _, err := m.Issue("operator-1")
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		value        string
		expectedCode int
	}{
		{name: "ok. bearer", header: md.AuthorizationHeader, value: "Bearer " + token, expectedCode: http.StatusOK},
		{name: "ok. legacy header", header: md.XAuthTokenHeader, value: token, expectedCode: http.StatusOK},
		{name: "err. no header", expectedCode: http.StatusUnauthorized},
		{name: "err. not bearer", header: md.AuthorizationHeader, value: "Basic abc", expectedCode: http.StatusUnauthorized},
		{name: "err. bad token", header: md.AuthorizationHeader, value: "Bearer abc.def.ghi", expectedCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/me", func(c echo.Context) error {
				id, err := auth.GetUserID(c.Request().Context())
				if err != nil {
					return err
				}
				return c.String(http.StatusOK, id)
			}, md.JwtAuthentication(m))

			r := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				require.Equal(t, "operator-1", w.Body.String())
			}
		})
	}
}
