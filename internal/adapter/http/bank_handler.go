package http

import (
	"net/http"

	"agrocredit-backend/internal/usecase/approval"
	"agrocredit-backend/internal/usecase/projection"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type BankHandler struct {
	reviews *approval.Usecase
	views   *projection.Usecase
	log     *zap.Logger
}

func NewBankHandler(reviews *approval.Usecase, views *projection.Usecase, log *zap.Logger) *BankHandler {
	return &BankHandler{reviews: reviews, views: views, log: log}
}

type reviewReq struct {
	// pointer so an absent field fails "required" instead of reading as false
	Approved *bool `json:"approved" validate:"required"`
}

type reviewResp struct {
	Message string `json:"message"`
	*approval.ReviewDTO
}

func (h *BankHandler) Dashboard(c echo.Context) error {
	s, err := h.views.DashboardStats(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *BankHandler) Applications(c echo.Context) error {
	list, err := h.reviews.ListPending(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BankHandler) Review(c echo.Context) error {
	loanID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req reviewReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.reviews.Review(c.Request().Context(), loanID, *req.Approved)
	if err != nil {
		// a decided application is a conflict, not a bad request
		return writeError(c, h.log, err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, reviewResp{Message: "Application " + dto.Status, ReviewDTO: dto})
}
