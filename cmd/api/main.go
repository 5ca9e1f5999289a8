package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	//STRIPE_SECRET_KEY が無ければ起動しない
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service: "api",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	defer log.Sync()

	//監査テーブル（DB設定があるときだけ）
	var sessions repo.CheckoutSessionRepository = repo.NopCheckoutSessionRepository{}
	if cfg.DB.Enabled() {
		gormDB, err := db.Connect(cfg.DB)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		if err := db.Migrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		sessions = infraRepo.NewCheckoutSessionGormRepository(gormDB)
		log.Info("checkout session log enabled")
	}

	//決済プロバイダ
	stripeProvider := payment.NewStripeProvider(payment.StripeOptions{
		SecretKey: cfg.StripeSecretKey,
		Timeout:   cfg.ProviderTimeout,
	}, log)
	provider := payment.NewBreakerProvider(stripeProvider, payment.BreakerOptions{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenFor:     cfg.BreakerOpenDuration,
	}, log)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(provider, sessions, &uuidGenerator{}, &realClock{}, log)

	//Handler生成
	e := server.New(cfg, log, server.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Health:   handler.NewHealthHandler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, e, cfg.Addr(), log)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	log.Info("bye")
	return nil
}
