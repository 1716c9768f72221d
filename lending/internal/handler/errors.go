package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
)

const internalMessage = "internal server error"

func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// httpError is the single translation point from domain errors to responses.
// Raw details of internal errors are hidden in production.
func (h *Handler) httpError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	code := statusCode(err)
	resp := errs.ErrorResponse{Message: err.Error()}
	if code >= http.StatusInternalServerError {
		if code == http.StatusInternalServerError {
			resp.Message = internalMessage
		}
		if !h.production {
			resp.Error = err.Error()
		}
		h.log.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
	}
	return echo.NewHTTPError(code, resp).SetInternal(err)
}

func (h *Handler) validate(c echo.Context, req any) error {
	if err := c.Validate(req); err != nil {
		return h.httpError(c, errs.Validation("%s", err.Error()))
	}
	return nil
}
