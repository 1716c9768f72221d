package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
)

func (h *Handler) RegisterReturn(c echo.Context) error {
	ctx := c.Request().Context()
	operatorID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.RegisterReturnRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.CreatedBy = operatorID
	if err := h.validate(c, req); err != nil {
		return err
	}
	rec, err := h.loanSvc.RegisterReturn(ctx, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, model.ReturnResponse{Message: "return registered", Return: rec})
}

func (h *Handler) ListReturns(c echo.Context) error {
	filter := model.ReturnFilter{
		BorrowerID: c.QueryParam("borrower"),
		BookID:     c.QueryParam("book"),
	}
	var err error
	if filter.From, err = parseDateParam(c, "from"); err != nil {
		return h.httpError(c, err)
	}
	if filter.To, err = parseDateParam(c, "to"); err != nil {
		return h.httpError(c, err)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return h.httpError(c, errs.Validation("to is before from"))
	}
	var paging model.Paging
	if paging.Page, err = parseIntParam(c, "page"); err != nil {
		return h.httpError(c, err)
	}
	if paging.Limit, err = parseIntParam(c, "limit"); err != nil {
		return h.httpError(c, err)
	}

	list, err := h.loanSvc.ListReturns(c.Request().Context(), filter, paging)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetReturn(c echo.Context) error {
	rec, err := h.loanSvc.GetReturn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateFinePaid(c echo.Context) error {
	var req model.UpdateFinePaidRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	rec, err := h.loanSvc.UpdateFinePaid(c.Request().Context(), c.Param("id"), *req.FinePaid)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.ReturnResponse{Message: "fine status updated", Return: rec})
}

// parseDateParam treats a bare "to" date as the end of that day.
func parseDateParam(c echo.Context, name string) (time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := model.ParseTime(v)
	if err != nil {
		return time.Time{}, errs.Validation("%s: %v", name, err)
	}
	if name == "to" && len(v) == len(time.DateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseIntParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.Validation("%s must be a positive integer", name)
	}
	return n, nil
}
