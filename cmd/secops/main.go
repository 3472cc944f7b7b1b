package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/auth"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/config"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/handlers"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/logging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/messaging"
	natsclient "github.com/jasonachkar/secure-api-gateway-sub000/internal/messaging/nats"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/posture"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/repository"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/server"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/service"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/signals"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	logging.SetDefault(logger)

	// Incident storage
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("invalid redis url", "error", err)
		os.Exit(1)
	}
	redisOpts.MaxRetries = cfg.Redis.MaxRetries
	redisOpts.PoolSize = cfg.Redis.PoolSize
	redisClient := redis.NewClient(redisOpts)

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	repo := repository.NewRedisRepository(redisClient)
	defer repo.Close()

	// Broker connection is optional: without it, event publishing and
	// automated incident creation are disabled.
	var broker messaging.Client
	if cfg.NATS.Enabled {
		client, err := natsclient.NewClient(natsclient.Config{
			URL:           cfg.NATS.URL,
			Name:          cfg.NATS.Name,
			MaxReconnects: -1,
			ReconnectWait: natsclient.DefaultConfig().ReconnectWait,
			Timeout:       natsclient.DefaultConfig().Timeout,
		})
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		broker = client
		defer client.Close()
	}

	var pub service.Publisher
	if broker != nil {
		pub = signals.NewPublisher(broker)
	}

	incidentSvc := service.NewService(repo, pub, logger)

	postureSvc := posture.NewService(
		posture.NewHTTPMetricsClient(cfg.Collaborators.MetricsURL),
		posture.NewHTTPThreatClient(cfg.Collaborators.ThreatURL),
		incidentSvc,
	)

	if broker != nil {
		signalHandler := signals.NewHandler(broker, incidentSvc, logger)
		if err := signalHandler.Start(); err != nil {
			logger.Error("failed to subscribe to threat signals", "error", err)
			os.Exit(1)
		}
		defer signalHandler.Stop()
	}

	validator := auth.NewValidator(cfg.Auth.AccessSecret)
	handler := handlers.New(incidentSvc, postureSvc, logger)
	router := server.NewRouter(handler, validator, repo)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("security operations service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
