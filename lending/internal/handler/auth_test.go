package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	mw "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/Astemirdum/library-lending/pkg/serializer"

	service_mocks "github.com/Astemirdum/library-lending/lending/internal/handler/mocks"
)

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockAuthService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"username":"biblio","email":"desk@library.org","password":"s3cret!"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().
					Register(context.Background(), model.RegisterRequest{Username: "biblio", Email: "desk@library.org", Password: "s3cret!"}).
					Return(model.Operator{ID: operatorID, Username: "biblio", Email: "desk@library.org", PasswordHash: "hash", Role: model.RoleUser}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. short password",
			body:         `{"username":"biblio","email":"desk@library.org","password":"abc"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'RegisterRequest.password' Error:Field validation for 'password' failed on the 'min' tag"}`,
		},
		{
			name: "err. duplicate",
			body: `{"username":"biblio","email":"desk@library.org","password":"s3cret!"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().Register(context.Background(), gomock.Any()).Return(model.Operator{}, errs.ErrDuplicate)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"already exists"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, _ := newHandlerMocks(t, false)

			e := newEcho()
			e.POST("/auth/register", h.Register)

			r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m.auth)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
				return
			}
			require.NotContains(t, w.Body.String(), "hash")
			var op model.Operator
			require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &op))
			require.Equal(t, operatorID, op.ID)
		})
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	expiresAt := time.Date(2024, 3, 20, 11, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockAuthService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"email":"desk@library.org","password":"s3cret!"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().
					Login(context.Background(), model.LoginRequest{Email: "desk@library.org", Password: "s3cret!"}).
					Return(model.TokenResponse{Token: "jwt", ExpiresAt: expiresAt}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"token":"jwt","expiresAt":"2024-03-20T11:00:00Z"}`,
		},
		{
			name: "err. bad credentials",
			body: `{"email":"desk@library.org","password":"wrong"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().Login(context.Background(), gomock.Any()).Return(model.TokenResponse{}, errors.Wrap(errs.ErrUnauthorized, "invalid credentials"))
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"invalid credentials: unauthorized"}`,
		},
		{
			name:         "err. bad email",
			body:         `{"email":"desk","password":"s3cret!"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'LoginRequest.email' Error:Field validation for 'email' failed on the 'email' tag"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, _ := newHandlerMocks(t, false)

			e := newEcho()
			e.POST("/auth/login", h.Login)

			r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m.auth)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()
	h, m, manager := newHandlerMocks(t, false)

	e := newEcho()
	e.GET("/auth/me", h.Me, mw.JwtAuthentication(manager))

	m.auth.EXPECT().Me(gomock.Any(), operatorID).Return(model.Operator{ID: operatorID, Username: "biblio"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/me", http.NoBody)
	r.Header.Set(mw.XAuthTokenHeader, strings.TrimPrefix(bearer(t, manager), "Bearer "))
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var op model.Operator
	require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &op))
	require.Equal(t, "biblio", op.Username)
}

func TestHandler_UpdateProfile(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockAuthService)

	var tests = []struct {
		name         string
		body         string
		withToken    bool
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:      "ok",
			body:      `{"name":"Laura Gómez","city":"Bogotá","birthDate":"1990-05-04"}`,
			withToken: true,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().
					UpdateProfile(gomock.Any(), operatorID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, req model.UpdateProfileRequest) (model.Operator, error) {
						if req.Name == nil || *req.Name != "Laura Gómez" || req.City == nil || req.Phone != nil ||
							req.BirthDate == nil || !req.BirthDate.Equal(day(1990, 5, 4)) {
							return model.Operator{}, errors.Errorf("unexpected request %+v", req)
						}
						return model.Operator{ID: operatorID, Name: *req.Name, City: *req.City}, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "err. phone too long",
			body:         `{"phone":"` + strings.Repeat("9", 40) + `"}`,
			withToken:    true,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'UpdateProfileRequest.phone' Error:Field validation for 'phone' failed on the 'max' tag"}`,
		},
		{
			name:         "err. no token",
			body:         `{"name":"Laura"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"No Authorization Header"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, manager := newHandlerMocks(t, false)

			e := newEcho()
			e.PUT("/auth/profile", h.UpdateProfile, mw.JwtAuthentication(manager))

			r := httptest.NewRequest(http.MethodPut, "/auth/profile", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.withToken {
				r.Header.Set(echo.HeaderAuthorization, bearer(t, manager))
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(m.auth)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
				return
			}
			var resp model.ProfileResponse
			require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, "profile updated", resp.Message)
			require.Equal(t, "Laura Gómez", resp.Operator.Name)
		})
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockAuthService)

	var tests = []struct {
		name         string
		body         string
		withToken    bool
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:      "ok",
			body:      `{"currentPassword":"s3cret!","newPassword":"n3w-pass"}`,
			withToken: true,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().
					ChangePassword(gomock.Any(), operatorID, model.ChangePasswordRequest{CurrentPassword: "s3cret!", NewPassword: "n3w-pass"}).
					Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"password changed"}`,
		},
		{
			name:         "err. new password too short",
			body:         `{"currentPassword":"s3cret!","newPassword":"abc"}`,
			withToken:    true,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'ChangePasswordRequest.newPassword' Error:Field validation for 'newPassword' failed on the 'min' tag"}`,
		},
		{
			name:      "err. wrong current password",
			body:      `{"currentPassword":"guess","newPassword":"n3w-pass"}`,
			withToken: true,
			mockBehavior: func(r *service_mocks.MockAuthService) {
				r.EXPECT().ChangePassword(gomock.Any(), operatorID, gomock.Any()).Return(errs.Validation("current password is incorrect"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"current password is incorrect"}`,
		},
		{
			name:         "err. no token",
			body:         `{"currentPassword":"s3cret!","newPassword":"n3w-pass"}`,
			mockBehavior: func(r *service_mocks.MockAuthService) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"No Authorization Header"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, manager := newHandlerMocks(t, false)

			e := newEcho()
			e.PUT("/auth/change-password", h.ChangePassword, mw.JwtAuthentication(manager))

			r := httptest.NewRequest(http.MethodPut, "/auth/change-password", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.withToken {
				r.Header.Set(echo.HeaderAuthorization, bearer(t, manager))
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(m.auth)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
