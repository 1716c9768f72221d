package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	loan, err := h.loanSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, model.LoanResponse{Message: "loan created", Loan: loan})
}

func (h *Handler) ListLoans(c echo.Context) error {
	filter := model.LoanFilter{
		Status:     model.LoanStatus(c.QueryParam("status")),
		BookID:     c.QueryParam("book"),
		BorrowerID: c.QueryParam("borrower"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}
	loans, err := h.loanSvc.ListLoans(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.loanSvc.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) UpdateLoan(c echo.Context) error {
	var req model.UpdateLoanRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	loan, err := h.loanSvc.UpdateLoan(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Message: "loan updated", Loan: loan})
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	if err := h.loanSvc.DeleteLoan(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "loan deleted"})
}

func (h *Handler) RenewLoan(c echo.Context) error {
	var req model.RenewLoanRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	loan, err := h.loanSvc.RenewLoan(c.Request().Context(), c.Param("id"), req.Days)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.LoanResponse{Message: "loan renewed", Loan: loan})
}

func (h *Handler) EstimateLoan(c echo.Context) error {
	est, err := h.loanSvc.EstimateLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, est)
}

func (h *Handler) ListLoanEvents(c echo.Context) error {
	events, err := h.loanSvc.ListLoanEvents(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
