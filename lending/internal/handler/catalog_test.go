package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/serializer"

	service_mocks "github.com/Astemirdum/library-lending/lending/internal/handler/mocks"
)

const authorID = "7c6d5e4f-3a2b-4c1d-8e9f-0a1b2c3d4e5f"

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockCatalogService)

	okBody := `{"titulo":"Cien años de soledad","autor":"` + authorID + `","isbn":"978-0307474728","editorial":"Sudamericana",` +
		`"año_publicacion":1967,"genero":"novela","paginas":471,"idioma":"es","sinopsis":"Macondo"}`

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: okBody,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req model.CreateBookRequest) (model.Book, error) {
						if req.Title != "Cien años de soledad" || req.Year != 1967 || req.AuthorID != authorID {
							return model.Book{}, errors.Errorf("unexpected request %+v", req)
						}
						return model.Book{ID: bookID, Title: req.Title, Availability: model.AvailabilityAvailable}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. bad availability",
			body:         strings.Replace(okBody, `"sinopsis":"Macondo"`, `"sinopsis":"Macondo","disponibilidad":"lost"`, 1),
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'CreateBookRequest.disponibilidad' Error:Field validation for 'disponibilidad' failed on the 'oneof' tag"}`,
		},
		{
			name: "err. duplicate isbn",
			body: okBody,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().CreateBook(context.Background(), gomock.Any()).Return(model.Book{}, errs.ErrDuplicate)
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
			e.POST("/books", h.CreateBook)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m.catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
				return
			}
			var book model.Book
			require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &book))
			require.Equal(t, bookID, book.ID)
			require.Equal(t, model.AvailabilityAvailable, book.Availability)
		})
	}
}

func TestHandler_Books(t *testing.T) {
	t.Parallel()

	t.Run("list filters", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.GET("/books", h.ListBooks)

		m.catalog.EXPECT().
			ListBooks(context.Background(), model.BookFilter{Availability: model.AvailabilityAvailable, AuthorID: authorID}).
			Return([]model.Book{}, nil)

		r := httptest.NewRequest(http.MethodGet, "/books?availability=available&author="+authorID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, `[]`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("get not found", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.GET("/books/:id", h.GetBook)

		m.catalog.EXPECT().GetBook(context.Background(), bookID).Return(model.Book{}, errs.ErrNotFound)

		r := httptest.NewRequest(http.MethodGet, "/books/"+bookID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"message":"not found"}`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.DELETE("/books/:id", h.DeleteBook)

		m.catalog.EXPECT().DeleteBook(context.Background(), bookID).Return(nil)

		r := httptest.NewRequest(http.MethodDelete, "/books/"+bookID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
	})
}

func TestHandler_SetAvailability(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"disponibilidad":"maintenance"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				gomock.InOrder(
					r.EXPECT().SetAvailability(context.Background(), bookID, model.AvailabilityMaintenance).Return(nil),
					r.EXPECT().GetBook(context.Background(), bookID).Return(model.Book{ID: bookID, Availability: model.AvailabilityMaintenance}, nil),
				)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "err. unknown availability",
			body:         `{"disponibilidad":"burnt"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'SetAvailabilityRequest.disponibilidad' Error:Field validation for 'disponibilidad' failed on the 'oneof' tag"}`,
		},
		{
			name: "err. book not found",
			body: `{"disponibilidad":"available"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().SetAvailability(context.Background(), bookID, model.AvailabilityAvailable).Return(errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"not found"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, _ := newHandlerMocks(t, false)

			e := newEcho()
			e.PATCH("/books/:id/availability", h.SetAvailability)

			r := httptest.NewRequest(http.MethodPatch, "/books/"+bookID+"/availability", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m.catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
				return
			}
			var book model.Book
			require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &book))
			require.Equal(t, model.AvailabilityMaintenance, book.Availability)
		})
	}
}

func coverForm(t *testing.T, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="cover.png"`)
	hdr.Set(echo.HeaderContentType, contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHandler_UploadCover(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		contentType  string
		size         int
		noFile       bool
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:        "ok",
			contentType: "image/png",
			size:        128,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					UploadCover(context.Background(), bookID, "cover.png", "image/png", gomock.Any()).
					Return(model.Book{ID: bookID, CoverURL: "https://covers.s3.amazonaws.com/covers/" + bookID + "/c.png"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "err. missing file",
			noFile:       true,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"missing file"}`,
		},
		{
			name:         "err. too large",
			contentType:  "image/png",
			size:         5<<20 + 1,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedBody: `{"message":"cover is larger than 5MB"}`,
		},
		{
			name:         "err. not an image",
			contentType:  "application/pdf",
			size:         128,
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusUnsupportedMediaType,
			expectedBody: `{"message":"cover must be an image"}`,
		},
		{
			name:        "err. storage disabled",
			contentType: "image/jpeg",
			size:        128,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().UploadCover(context.Background(), bookID, "cover.png", "image/jpeg", gomock.Any()).Return(model.Book{}, errs.ErrStorageDisabled)
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"message":"file storage is not configured","error":"file storage is not configured"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, m, _ := newHandlerMocks(t, false)

			e := newEcho()
			e.PUT("/books/:id/cover", h.UploadCover)

			var r *http.Request
			if tt.noFile {
				r = httptest.NewRequest(http.MethodPut, "/books/"+bookID+"/cover", http.NoBody)
			} else {
				body, contentType := coverForm(t, tt.contentType, tt.size)
				r = httptest.NewRequest(http.MethodPut, "/books/"+bookID+"/cover", body)
				r.Header.Set(echo.HeaderContentType, contentType)
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(m.catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
				return
			}
			var book model.Book
			require.NoError(t, serializer.Unmarshal(w.Body.Bytes(), &book))
			require.Contains(t, book.CoverURL, "/covers/"+bookID+"/")
		})
	}
}

func TestHandler_GetCover(t *testing.T) {
	t.Parallel()

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.GET("/books/:id/cover", h.GetCover)

		link := "https://covers.s3.amazonaws.com/covers/" + bookID + "/c.png?X-Amz-Signature=abc"
		m.catalog.EXPECT().CoverLink(context.Background(), bookID).Return(link, nil)

		r := httptest.NewRequest(http.MethodGet, "/books/"+bookID+"/cover", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, link, w.Header().Get(echo.HeaderLocation))
	})

	t.Run("no cover", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.GET("/books/:id/cover", h.GetCover)

		m.catalog.EXPECT().CoverLink(context.Background(), bookID).Return("", errs.New(errs.ErrNotFound, "book has no cover"))

		r := httptest.NewRequest(http.MethodGet, "/books/"+bookID+"/cover", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"message":"book has no cover"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_CreateAuthor(t *testing.T) {
	t.Parallel()
	bio := strings.Repeat("Escritor colombiano, premio Nobel de Literatura. ", 2)
	okBody := `{"nombre":"Gabriel","apellido":"García Márquez","nacionalidad":"colombiana","generos":["novela"],` +
		`"biografia":"` + bio + `","fotografia":"https://example.org/gabo.jpg","idioma":"es"}`

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.POST("/authors", h.CreateAuthor)

		m.catalog.EXPECT().
			CreateAuthor(context.Background(), gomock.Any()).
			Return(model.Author{ID: authorID, Name: "Gabriel"}, nil)

		r := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(okBody))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("short biography", func(t *testing.T) {
		t.Parallel()
		h, _, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.POST("/authors", h.CreateAuthor)

		body := strings.Replace(okBody, bio, "Escritor.", 1)
		r := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, `{"message":"Key: 'CreateAuthorRequest.biografia' Error:Field validation for 'biografia' failed on the 'min' tag"}`,
			strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		h, m, _ := newHandlerMocks(t, false)
		e := newEcho()
		e.DELETE("/authors/:id", h.DeleteAuthor)

		m.catalog.EXPECT().DeleteAuthor(context.Background(), authorID).Return(nil)

		r := httptest.NewRequest(http.MethodDelete, "/authors/"+authorID, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()
	okBody := `{"tipoIdentificacion":"cedula","identificacion":"1020304050","nombre":"Ana","apellido":"Pérez",` +
		`"telefono":"3000000000","direccion":"Calle 1","email":"ana@example.com"}`

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockCatalogService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: okBody,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().CreateUser(context.Background(), gomock.Any()).Return(model.User{ID: borrowerID, Name: "Ana"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. unknown id type",
			body:         strings.Replace(okBody, `"cedula"`, `"licencia"`, 1),
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'CreateUserRequest.tipoIdentificacion' Error:Field validation for 'tipoIdentificacion' failed on the 'oneof' tag"}`,
		},
		{
			name: "err. duplicate identification",
			body: okBody,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().CreateUser(context.Background(), gomock.Any()).Return(model.User{}, errs.ErrDuplicate)
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
			e.POST("/users", h.CreateUser)

			r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(m.catalog)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
