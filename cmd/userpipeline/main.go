// Command userpipeline serves the user validation and sanitization API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/deppfellow/user-pipeline/internal/config"
	"github.com/deppfellow/user-pipeline/internal/handler"
	"github.com/deppfellow/user-pipeline/internal/logger"
	"github.com/deppfellow/user-pipeline/internal/router"
	"github.com/deppfellow/user-pipeline/internal/server"
	"github.com/deppfellow/user-pipeline/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	appLogger := logger.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &appLogger, loggerService); err != nil {
		appLogger.Error().Err(err).Msg("server stopped with error")
		// os.Exit skips deferred calls.
		stop()
		loggerService.Shutdown()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *zerolog.Logger, loggerService *logger.LoggerService) error {
	srv, err := server.New(cfg, appLogger, loggerService)
	if err != nil {
		return err
	}

	services, err := service.NewServices(srv)
	if err != nil {
		return err
	}

	r := router.NewRouter(srv, handler.NewHandlers(srv, services))
	srv.SetupHTTPServer(r)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	appLogger.Info().Msg("server stopped")
	return nil
}
