// Package server реализует gRPC-сервер проверки здоровья сервиса.
//
// HealthServer периодически проверяет зависимости (Redis, PostgreSQL) и выставляет
// статус SERVING или NOT_SERVING для общего статуса и для имени сервиса.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
)

// ServiceName — имя сервиса в протоколе grpc.health.v1.
const ServiceName = "executive-coach"

// Checker — проверяемая зависимость.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc позволяет использовать функцию как Checker.
type CheckerFunc func(ctx context.Context) error

// Ping вызывает f.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthServer выставляет статусы grpc.health.v1; сервис регистрируется через встроенный *health.Server.
type HealthServer struct {
	*health.Server
	checkers map[string]Checker
	log      *slog.Logger
}

// NewHealthServer создает HealthServer; checkers — зависимости по именам.
func NewHealthServer(checkers map[string]Checker, logger *slog.Logger) *HealthServer {
	return &HealthServer{
		Server:   health.NewServer(),
		checkers: checkers,
		log:      logger,
	}
}

// Probe проверяет все зависимости один раз и обновляет статус.
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, c := range s.checkers {
		if err := c.Ping(ctx); err != nil {
			s.log.Warn("dependency is unhealthy", slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.SetServingStatus("", status)
	s.SetServingStatus(ServiceName, status)
	return status
}

// Monitor проверяет зависимости каждые interval до отмены ctx.
func (s *HealthServer) Monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}
