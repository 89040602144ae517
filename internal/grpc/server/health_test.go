package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/executive-coach/internal/grpc/client"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHealthServer_Probe(t *testing.T) {
	healthy := true
	hs := NewHealthServer(map[string]Checker{
		"redis": CheckerFunc(func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("connection refused")
		}),
	}, newNoopLogger())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hs.Probe(context.Background()))

	healthy = false
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, hs.Probe(context.Background()))
}

func TestHealthServer_OverGRPC(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	hs := NewHealthServer(map[string]Checker{
		"postgres": CheckerFunc(func(context.Context) error { return nil }),
	}, newNoopLogger())
	hs.Probe(context.Background())

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs.Server)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := client.Check(ctx, lis.Addr().String(), ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	_, err = client.Check(ctx, lis.Addr().String(), "unknown-service")
	assert.Error(t, err)
}
