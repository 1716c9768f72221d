package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	book, err := h.catalogSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.catalogSvc.ListBooks(c.Request().Context(), model.BookFilter{
		Availability: model.Availability(c.QueryParam("availability")),
		AuthorID:     c.QueryParam("author"),
	})
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.catalogSvc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetAvailability(c echo.Context) error {
	var req model.SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.catalogSvc.SetAvailability(ctx, c.Param("id"), req.Availability); err != nil {
		return h.httpError(c, err)
	}
	book, err := h.catalogSvc.GetBook(ctx, c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) UploadCover(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if file.Size > maxCoverBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "cover is larger than 5MB")
	}
	contentType := file.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "cover must be an image")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	book, err := h.catalogSvc.UploadCover(c.Request().Context(), c.Param("id"), file.Filename, contentType, src)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetCover(c echo.Context) error {
	link, err := h.catalogSvc.CoverLink(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.Redirect(http.StatusFound, link)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	author, err := h.catalogSvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) ListAuthors(c echo.Context) error {
	authors, err := h.catalogSvc.ListAuthors(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	author, err := h.catalogSvc.GetAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	author, err := h.catalogSvc.UpdateAuthor(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	if err := h.catalogSvc.DeleteAuthor(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	user, err := h.catalogSvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.catalogSvc.ListUsers(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.catalogSvc.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req model.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	user, err := h.catalogSvc.UpdateUser(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.catalogSvc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
