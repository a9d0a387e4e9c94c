package http

import (
	"net/http"

	"agrocredit-backend/internal/adapter/middleware"
	ucLoan "agrocredit-backend/internal/usecase/loan"
	"agrocredit-backend/internal/usecase/projection"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FarmerHandler struct {
	loans *ucLoan.Usecase
	views *projection.Usecase
	log   *zap.Logger
}

func NewFarmerHandler(loans *ucLoan.Usecase, views *projection.Usecase, log *zap.Logger) *FarmerHandler {
	return &FarmerHandler{loans: loans, views: views, log: log}
}

type submitLoanReq struct {
	Amount     float64 `json:"amount"      validate:"required,gt=0,dec2"`
	TermMonths int     `json:"term_months" validate:"required,gt=0,lte=360"`
	Purpose    string  `json:"purpose"     validate:"max=500"`
	// 0 or absent selects the primary farm
	FarmID uint64 `json:"farm_id"`
}

type payReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

type signResp struct {
	Message string `json:"message"`
	*ucLoan.SignDTO
}

type payResp struct {
	Message string `json:"message"`
	*ucLoan.PaymentDTO
}

func (h *FarmerHandler) SubmitLoan(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	var req submitLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	view, err := h.loans.Submit(c.Request().Context(), ucLoan.SubmitInput{
		FarmerID:   farmerID,
		FarmID:     req.FarmID,
		Amount:     req.Amount,
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *FarmerHandler) ListLoans(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	views, err := h.views.ListFarmerLoans(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *FarmerHandler) SignLoan(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	loanID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.loans.Sign(c.Request().Context(), farmerID, loanID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, signResp{Message: "Contract signed successfully", SignDTO: dto})
}

func (h *FarmerHandler) Pay(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	loanID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req payReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.loans.RecordPayment(c.Request().Context(), farmerID, loanID, req.Amount)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, payResp{Message: "Payment successful", PaymentDTO: dto})
}

func (h *FarmerHandler) Summary(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	s, err := h.views.FarmerSummary(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *FarmerHandler) Notifications(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.views.Notifications(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *FarmerHandler) Profile(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	p, err := h.views.Profile(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *FarmerHandler) Utilities(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.views.Utilities(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *FarmerHandler) LatestRecommendation(c echo.Context) error {
	farmerID, ok := middleware.FarmerID(c)
	if !ok {
		return unauthorized(c)
	}
	r, err := h.views.LatestRecommendation(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, h.log, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, r)
}
