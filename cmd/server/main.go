package main

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/api"
	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/repository"
	"github.com/billforge/billforge/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Dates and fiscal periods are computed in UTC regardless of host timezone.
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			cache.NewInMemoryCache,
			repository.NewRepositories,
			provideServiceParams,
			service.NewBillingService,
			service.NewSalesReturnService,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideServiceParams(
	repos *repository.Repositories,
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:          log,
		Config:          cfg,
		Cache:           c,
		InvoiceRepo:     repos.Invoice,
		SalesReturnRepo: repos.SalesReturn,
		SequenceRepo:    repos.Sequence,
	}
}

func provideHandlers(
	log *logger.Logger,
	billingService service.BillingService,
	salesReturnService service.SalesReturnService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(log),
		Invoice:     v1.NewInvoiceHandler(billingService, log),
		SalesReturn: v1.NewSalesReturnHandler(salesReturnService, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting server on %s in %s mode", cfg.Server.Address, cfg.Deployment.Mode)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
