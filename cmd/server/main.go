package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mantra/backend/internal/config"
	"mantra/backend/internal/handlers"
	"mantra/backend/internal/llm"
	"mantra/backend/internal/logger"
	"mantra/backend/internal/mantra"
	"mantra/backend/internal/middleware"
	"mantra/backend/internal/observability"
	"mantra/backend/internal/router"
)

func main() {
	cfg := config.Load()

	log := logger.Connect(logger.LoggerConnectProps{Production: cfg.Production})
	defer log.Sync()

	ctx := context.Background()
	environment := "development"
	if cfg.Production {
		environment = "production"
	}
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "mantra-backend",
		Environment: environment,
	})

	provider := llm.NewFactory().CreateProvider(cfg.Generator.ProviderConfig())
	if provider == nil {
		log.Logger(ctx).Warn("[Server] Unknown generator provider, serving template mantras only",
			zap.String("provider", cfg.Generator.Provider))
	}

	service := mantra.NewService(provider, mantra.NewComposer(nil), mantra.ServiceOptions{
		Timeout:       cfg.Generator.Timeout,
		MaxConcurrent: int64(cfg.Generator.MaxConcurrent),
	}, log)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	handler := router.New(handlers.NewAPI(service, log), router.Options{
		Origin:  cfg.FrontendOrigin,
		Limiter: limiter,
		Logger:  log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Generator.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Logger(ctx).Info("[Server] Listening",
			zap.String("port", cfg.Port),
			zap.String("provider", service.ProviderName()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger(ctx).Fatal("[Server] Server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Logger(ctx).Error("[Server] Shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Logger(ctx).Error("[Server] Tracer shutdown error", zap.Error(err))
	}
}
