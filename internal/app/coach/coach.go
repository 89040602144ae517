package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/executive-coach/internal/cache"
	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/grpc/server"
	"github.com/magabrotheeeer/executive-coach/internal/identityprovider"
	"github.com/magabrotheeeer/executive-coach/internal/lib/jwt"
	"github.com/magabrotheeeer/executive-coach/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/llmprovider"
	"github.com/magabrotheeeer/executive-coach/internal/metrics"
	"github.com/magabrotheeeer/executive-coach/internal/migrations"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/paymentprovider"
	"github.com/magabrotheeeer/executive-coach/internal/services/account"
	authservices "github.com/magabrotheeeer/executive-coach/internal/services/auth"
	"github.com/magabrotheeeer/executive-coach/internal/services/billing"
	"github.com/magabrotheeeer/executive-coach/internal/services/notice"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
	"github.com/magabrotheeeer/executive-coach/internal/services/speech"
	"github.com/magabrotheeeer/executive-coach/internal/services/strategy"
	"github.com/magabrotheeeer/executive-coach/internal/speechprovider"
	"github.com/magabrotheeeer/executive-coach/internal/storage"
)

const healthCheckInterval = 15 * time.Second

// App — HTTP API и gRPC health-сервер.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	listener   net.Listener
	health     *server.HealthServer
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	amqpConn   *amqp.Connection
}

// New подключает хранилища, внешние клиенты и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.coach.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var publisher notice.Publisher = notice.NopPublisher{}
	var amqpConn *amqp.Connection
	if cfg.RabbitMQ.URL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewNoticePublisher(ch)
	} else {
		logger.Warn("rabbitmq url is not set, trial notices will not be published")
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	identities := identityprovider.NewClient(cfg.Supabase, httpClient)

	var parser authservices.TokenParser
	if cfg.Supabase.JWTSecret != "" {
		parser = jwt.NewJWTMaker(cfg.Supabase.JWTSecret, 0)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions := session.NewStore(cacheRedis, cfg.SessionTTL, logger)
	accounts := account.New(identities, db, models.Credentials{
		Email:    cfg.DemoAccount.Email,
		Password: cfg.DemoAccount.Password,
	}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, Services{
		Strategy:  strategy.New(llmprovider.NewClient(cfg.OpenAI, httpClient)),
		Speech:    speech.New(speechprovider.NewClient(cfg.ElevenLabs, httpClient), cfg.ElevenLabs.DefaultModel),
		Billing:   billing.New(paymentprovider.NewClient(cfg.Stripe, httpClient), logger),
		Demo:      accounts,
		Accounts:  accounts,
		Profiles:  accounts,
		Auth:      authservices.NewAuthService(parser, identities, cfg.DemoAccount.Email),
		Sessions:  sessions,
		Scheduler: notice.NewScheduler(sessions, publisher, logger),
		Metrics:   metrics.New(registry),
		Gatherer:  registry,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	lis, err := net.Listen("tcp", cfg.GRPCHealthAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	health := server.NewHealthServer(map[string]server.Checker{
		"redis":    cacheRedis,
		"postgres": server.CheckerFunc(db.DB.PingContext),
	}, logger)
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, health.Server)

	return &App{
		server:     srv,
		grpcServer: grpcServer,
		listener:   lis,
		health:     health,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		amqpConn:   amqpConn,
	}, nil
}

// Run запускает серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()
	go func() {
		a.logger.Info("gRPC health server listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.health.Monitor(watchCtx, healthCheckInterval)

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down servers gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil {
		a.logger.Error("failed to shutdown HTTP server", sl.Err(err))
	}
	a.grpcServer.GracefulStop()
	a.close()
	return runErr
}

func (a *App) close() {
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close postgres", sl.Err(err))
	}
}
