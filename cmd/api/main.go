package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpadp "agrocredit-backend/internal/adapter/http"
	"agrocredit-backend/internal/adapter/repository/gormrepo"
	"agrocredit-backend/internal/config"
	"agrocredit-backend/internal/infrastructure/cache"
	"agrocredit-backend/internal/infrastructure/db"
	"agrocredit-backend/internal/infrastructure/logger"
	"agrocredit-backend/internal/infrastructure/seed"
	"agrocredit-backend/internal/usecase/approval"
	ucLoan "agrocredit-backend/internal/usecase/loan"
	"agrocredit-backend/internal/usecase/projection"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real env wins
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	u := gormrepo.NewGormUoW(gdb)
	if cfg.SeedOnStart {
		fx, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.New(u, log).Run(ctx, fx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var store redis.Cmdable
	if cfg.RedisAddr != "" {
		rdb, err := cache.Open(ctx, cache.DefaultOptions(cfg.RedisAddr, cfg.RedisDB))
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = rdb
		log.Info("idempotency enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.IdempotencyTTL()))
	} else {
		log.Warn("REDIS_ADDR empty, idempotency disabled")
	}

	r := u.Repos()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:    true,
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogError:     true,
			LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
				fields := []zap.Field{
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("request_id", v.RequestID),
				}
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				log.Info("request", fields...)
				return nil
			},
		}),
		middleware.Recover(),
	)

	httpadp.Register(e, httpadp.RouterDeps{
		Loans:           ucLoan.NewUsecase(u, log),
		Approvals:       approval.NewUsecase(r.Loans, u, log),
		Views:           projection.NewUsecase(u),
		Log:             log,
		Ping:            sqlDB.PingContext,
		DefaultFarmerID: cfg.DefaultFarmerID,
		Store:           store,
		IdempotencyTTL:  cfg.IdempotencyTTL(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
