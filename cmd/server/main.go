package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-reservation/config"
	"event-reservation/internal/auth"
	"event-reservation/internal/cache"
	"event-reservation/internal/database"
	"event-reservation/internal/handler"
	"event-reservation/internal/queue"
	"event-reservation/internal/repository"
	"event-reservation/internal/service"
	"event-reservation/internal/ticket"
	"event-reservation/internal/worker"
	"event-reservation/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defer logger.Sync()
	log := logger.WithComponent("main")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	logger.SetLevel(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. PostgreSQL
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// 2. Redis 只用於限流與 stream 通知，連不上時降級
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	notices, err := newNoticeQueue(ctx, cfg.Notify, rdb)
	if err != nil {
		log.Fatal("failed to initialize notice queue", zap.Error(err))
	}
	defer notices.Close()

	var limiter cache.RateLimiter
	if cfg.RateLimit.Enabled && rdb != nil {
		limiter = cache.NewRedisRateLimiter(rdb, cfg.RateLimit)
	}

	// 3. Layers
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users := repository.NewUserRepository(pool)
	events := repository.NewEventRepository(pool)
	reservations := repository.NewReservationRepository(pool)

	authService := service.NewAuthService(users, tokens, cfg.Auth.BcryptCost)
	eventService := service.NewEventService(events)
	reservationService := service.NewReservationService(repository.NewTransactor(pool), events, reservations, notices)
	ticketService := service.NewTicketService(reservations, ticket.NewPDFRenderer())

	if cfg.Auth.AdminEmail != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
			log.Fatal("failed to ensure bootstrap admin", zap.Error(err))
		}
	}

	noticeWorker := worker.NewNoticeWorker(notices, worker.NewLogNotifier())
	if err := noticeWorker.Start(ctx); err != nil {
		log.Fatal("failed to start notice worker", zap.Error(err))
	}

	router := handler.NewRouter(handler.RouterDeps{
		Server:       cfg.Server,
		Tokens:       tokens,
		Limiter:      limiter,
		Auth:         authService,
		Events:       eventService,
		Reservations: reservationService,
		Tickets:      ticketService,
		Health:       healthCheck(pool),
	})

	// 4. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	select {
	case <-noticeWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("notice worker did not stop in time")
	}
	log.Info("server stopped")
}

func newNoticeQueue(ctx context.Context, cfg config.NotifyConfig, rdb *redis.Client) (queue.NoticeQueue, error) {
	switch cfg.Backend {
	case config.NotifyBackendRedis:
		if rdb == nil {
			logger.WithComponent("main").Warn("redis notify backend requested without redis, using memory queue")
			return queue.NewMemoryNoticeQueue(cfg.BufferSize), nil
		}
		return queue.NewRedisStreamNoticeQueue(ctx, rdb, consumerID(), nil)
	case config.NotifyBackendRabbitMQ:
		return queue.NewRabbitMQNoticeQueue(cfg.RabbitMQURL, cfg.QueueName)
	default:
		return queue.NewMemoryNoticeQueue(cfg.BufferSize), nil
	}
}

// consumerID 讓同一個 consumer group 下的多個實例可以區分
func consumerID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "server"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

func healthCheck(pool *pgxpool.Pool) handler.HealthCheck {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
