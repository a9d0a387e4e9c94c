package http

import (
	"errors"
	"net/http"
	"strconv"

	"agrocredit-backend/internal/adapter/middleware"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// pathID reads a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

// bindAndValidate writes the 400/422 response itself and reports false when
// the body is unusable.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + middleware.HeaderFarmerID})
}

// writeError maps domain errors to HTTP codes. stateCode is the status used
// for loan.ErrInvalidState, which differs between farmer and bank routes.
func writeError(c echo.Context, log *zap.Logger, err error, stateCode int) error {
	switch {
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, farmer.ErrNotFound),
		errors.Is(err, farmer.ErrFarmNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidState):
		return c.JSON(stateCode, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidAmount), errors.Is(err, loan.ErrInvalidTerm):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
