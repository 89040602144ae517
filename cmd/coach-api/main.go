// Package main Executive Coach API
//
// @title           Executive Coach API
// @version         1.0
// @description     Прокси к платным API и гостевая сессия ИИ-коуча для руководителей
// @termsOfService  http://swagger.io/terms/

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/executive-coach/internal/app/coach"
	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/grpc/client"
	"github.com/magabrotheeeer/executive-coach/internal/grpc/server"
)

const envLocal = "local"

func main() {
	healthcheck := flag.Bool("healthcheck", false, "query the gRPC health endpoint and exit")
	flag.Parse()

	cfg := config.MustLoad()

	if *healthcheck {
		os.Exit(probe(cfg.GRPCHealthAddress))
	}

	logger := setupLogger(cfg.Env)
	logger.Info("starting executive-coach", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := coach.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("executive-coach stopped gracefully")
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == envLocal {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func probe(addr string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status, err := client.Check(ctx, addr, server.ServiceName)
	if err != nil || status != healthpb.HealthCheckResponse_SERVING {
		return 1
	}
	return 0
}
