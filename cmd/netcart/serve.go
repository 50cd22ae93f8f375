package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/config"
	h "github.com/fjod/go_cart/netcart/internal/http"
	"github.com/fjod/go_cart/netcart/internal/repository"
	"github.com/fjod/go_cart/netcart/internal/service"
	"github.com/fjod/go_cart/netcart/internal/session"
	"github.com/fjod/go_cart/netcart/pkg/logger"
)

const serviceName = "netcart"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return serve(cfg, log)
		},
	}
}

func newRepository(cfg *config.Config, log *zap.Logger) (repository.SessionRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisRepository(redisClient, cfg.SessionTTL, log), nil
	default:
		return repository.NewMemoryRepository(cfg.SessionTTL, cfg.CleanupInterval), nil
	}
}

// listen binds the HTTP port and, when enabled, the gRPC port. grpcLis is nil
// when gRPC is disabled. On error nothing is left bound.
func listen(cfg *config.Config) (httpLis, grpcLis net.Listener, err error) {
	httpLis, err = net.Listen("tcp", cfg.HTTPAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", cfg.HTTPAddr(), err)
	}
	addr := cfg.GRPCAddr()
	if addr == "" {
		return httpLis, nil, nil
	}
	grpcLis, err = net.Listen("tcp", addr)
	if err != nil {
		_ = httpLis.Close()
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return httpLis, grpcLis, nil
}

func serve(cfg *config.Config, log *zap.Logger) error {
	repo, err := newRepository(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := repo.Close(); errClose != nil {
			log.Warn("close session repository", zap.Error(errClose))
		}
	}()

	// Continue traces started by callers; log lines then carry their trace ids
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	sessions := session.NewFactory(nil, nil, checkout.NewOrchestrator(nil, nil, log.Named("checkout")))
	svc := service.NewStorefrontService(repo, sessions, log.Named("storefront"))

	srv := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: h.NewRouter(svc, h.RouterConfig{
			RequestTimeout: cfg.RequestTimeout,
			MaxRequestBody: cfg.MaxRequestBody,
			Logger:         log.Named("http"),
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Bind both ports before serving anything, so a busy gRPC port does not
	// leave the HTTP server running behind a returned error.
	httpLis, grpcLis, err := listen(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr), zap.String("backend", cfg.StoreBackend))
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpc.Server
	var healthServer *health.Server
	if grpcLis != nil {
		grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		healthServer = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

		// Enable reflection for grpcurl/grpcui
		reflection.Register(grpcServer)

		go func() {
			log.Info("grpc health server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := grpcServer.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		log.Error("server failed", zap.Error(runErr))
	}

	if healthServer != nil {
		healthServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server forced to shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	log.Info("server exited")
	return runErr
}
