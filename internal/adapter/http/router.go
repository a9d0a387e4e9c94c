package http

import (
	"context"
	"time"

	"agrocredit-backend/internal/adapter/middleware"
	"agrocredit-backend/internal/usecase/approval"
	ucLoan "agrocredit-backend/internal/usecase/loan"
	"agrocredit-backend/internal/usecase/projection"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Loans     *ucLoan.Usecase
	Approvals *approval.Usecase
	Views     *projection.Usecase
	Log       *zap.Logger
	// Ping backs /health; nil always reports ok.
	Ping func(ctx context.Context) error

	// DefaultFarmerID is used when Ax-Farmer-Id is absent; 0 disables it.
	DefaultFarmerID uint64
	// Idempotency is skipped when Store is nil.
	Store          redis.Cmdable
	IdempotencyTTL time.Duration
}

// Register mounts every route on e.
func Register(e *echo.Echo, d RouterDeps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	h := NewHandler(d.Ping)
	fh := NewFarmerHandler(d.Loans, d.Views, log)
	bh := NewBankHandler(d.Approvals, d.Views, log)

	e.GET("/health", h.Health)

	farmers := e.Group("/api/farmers", middleware.FarmerIdentity(d.DefaultFarmerID))
	bank := e.Group("/api/bank")
	if d.Store != nil {
		farmers.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Store: d.Store, TTL: d.IdempotencyTTL, Scope: middleware.FarmerScope, Log: log,
		}))
		bank.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Store: d.Store, TTL: d.IdempotencyTTL, Scope: middleware.BankScope, Log: log,
		}))
	}

	farmers.POST("/loans", fh.SubmitLoan)
	farmers.GET("/loans", fh.ListLoans)
	farmers.POST("/loans/:id/sign", fh.SignLoan)
	farmers.POST("/loans/:id/pay", fh.Pay)
	farmers.GET("/summary", fh.Summary)
	farmers.GET("/notifications", fh.Notifications)
	farmers.GET("/profile", fh.Profile)
	farmers.GET("/utilities", fh.Utilities)
	farmers.GET("/recommendations/latest", fh.LatestRecommendation)

	bank.GET("/dashboard", bh.Dashboard)
	bank.GET("/applications", bh.Applications)
	bank.POST("/applications/:id/review", bh.Review)
}
