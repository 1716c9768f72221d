package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	op, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, op)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	token, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, token)
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	operatorID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	op, err := h.authSvc.Me(ctx, operatorID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, op)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	operatorID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	op, err := h.authSvc.UpdateProfile(ctx, operatorID, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.ProfileResponse{Message: "profile updated", Operator: op})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	operatorID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.validate(c, req); err != nil {
		return err
	}
	if err := h.authSvc.ChangePassword(ctx, operatorID, req); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}
