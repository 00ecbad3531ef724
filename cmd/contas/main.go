package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contas/internal/amqp"
	"contas/internal/backend"
	"contas/internal/categorizer"
	"contas/internal/cli"
	apphttp "contas/internal/http"
	"contas/internal/log"
	"contas/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).Open(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err)
		os.Exit(1)
	}
	repo := result.Repository
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Storage cleanup error", log.FieldError, err)
		}
	}()

	rules, err := categorizer.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("Failed to load categorization rules", log.FieldError, err)
		os.Exit(1)
	}
	catCfg := categorizer.DefaultConfig()
	catCfg.MinConfidence = cfg.MinConfidence
	catCfg.AutoAcceptConfidence = cfg.AutoAcceptConfidence
	cat := categorizer.New(rules, catCfg)

	// AMQP is optional: without a broker the service records audit events
	// locally instead of publishing them.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, recording category events locally",
				log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	analytics := services.NewAnalyticsService(repo, logger)
	categorization := services.NewCategorizationService(repo, cat, publisher, logger)

	srv := apphttp.NewServer(":"+cfg.Port, repo, analytics, categorization, logger, apphttp.Options{
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting contas server",
		"port", cfg.Port,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
