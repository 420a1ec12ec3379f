package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"booknest/config"
	"booknest/internal/auth"
	"booknest/internal/cache"
	"booknest/internal/database"
	"booknest/internal/handler"
	"booknest/internal/middleware"
	"booknest/internal/notification"
	"booknest/internal/queue"
	"booknest/internal/repository"
	"booknest/internal/router"
	"booknest/internal/scheduler"
	"booknest/internal/service"
	"booknest/internal/worker"
	"booknest/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	QueueDriverMemory = "memory"
	QueueDriverRedis  = "redis"
)

type App struct {
	cfg        *config.Config
	log        *zap.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	queue      queue.NotificationQueue
	worker     worker.NotificationWorker
	scheduler  *scheduler.Scheduler
	httpServer *http.Server

	// background 控制 rate limiter 清理與 Redis stream 讀取
	background context.Context
	stop       context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.SetLevel(cfg.Log.Level)

	a := &App{cfg: cfg, log: logger.WithComponent("app")}
	a.background, a.stop = context.WithCancel(context.Background())

	if err := a.initStorage(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.initQueue(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("init queue: %w", err)
	}
	a.initServices()

	return a, nil
}

func (a *App) initStorage(ctx context.Context) error {
	pool, err := database.InitDatabase(ctx, &a.cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.pool = pool
	a.log.Info("database connected",
		zap.String("host", a.cfg.Database.Host),
		zap.String("database", a.cfg.Database.DBName),
	)

	if a.cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		a.log.Info("migrations applied successfully")
	}

	rdb, err := database.InitRedis(ctx, &a.cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	a.rdb = rdb
	return nil
}

func (a *App) initQueue(ctx context.Context) error {
	switch a.cfg.Queue.Driver {
	case QueueDriverMemory:
		a.queue = queue.NewMemoryNotificationQueue(a.cfg.Queue.BufferSize, &queue.MemoryQueueConfig{
			RetryDelay:    a.cfg.Queue.RetryDelay,
			MaxRetryCount: a.cfg.Queue.MaxRetryCount,
		})
	case QueueDriverRedis:
		q, err := queue.NewRedisStreamNotificationQueue(ctx, a.rdb, a.cfg.Queue.ConsumerID, &queue.RedisStreamConfig{
			ClaimMinIdleTime: a.cfg.Queue.RetryDelay,
			MaxRetryCount:    a.cfg.Queue.MaxRetryCount,
		})
		if err != nil {
			return err
		}
		a.queue = q
	default:
		return fmt.Errorf("unknown queue driver %q", a.cfg.Queue.Driver)
	}
	a.log.Info("notification queue ready", zap.String("driver", a.cfg.Queue.Driver))
	return nil
}

func (a *App) initServices() {
	tx := repository.NewTransactor(a.pool)
	userRepo := repository.NewUserRepository(a.pool)
	eventRepo := repository.NewEventRepository(a.pool)
	reservationRepo := repository.NewReservationRepository(a.pool)
	eventCache := cache.NewRedisEventCache(a.rdb, a.cfg.Redis.EventCacheTTL)
	tokens := auth.NewJWTIssuer(a.cfg.JWT)

	authService := service.NewAuthService(userRepo, tokens)
	eventService := service.NewEventService(tx, eventRepo, eventCache, nil)
	reservationService := service.NewReservationService(
		tx, reservationRepo, eventRepo, eventCache, a.queue,
		a.cfg.Reservation.ApprovalRequired, nil,
	)

	a.worker = worker.NewNotificationWorker(a.queue, userRepo, eventRepo, notification.NewMailer(a.cfg.Mail))
	a.scheduler = scheduler.New(eventService, a.cfg.Scheduler.Interval)

	r := router.InitRouter(
		a.cfg.Server.Mode,
		router.Handlers{
			Auth:        handler.NewAuthHandler(authService),
			Event:       handler.NewEventHandler(eventService),
			Reservation: handler.NewReservationHandler(reservationService),
			User:        handler.NewUserHandler(authService),
		},
		middleware.Auth(tokens),
		middleware.RateLimit(a.background, a.cfg.RateLimit.RequestsPerMinute, a.cfg.RateLimit.Burst),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
	)

	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
}

// Run 阻塞直到收到 SIGINT/SIGTERM 或 HTTP server 失敗
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.worker.Start(a.background); err != nil {
		a.close()
		return fmt.Errorf("start notification worker: %w", err)
	}
	go a.scheduler.Start(a.background)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	if err := a.shutdown(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.WriteTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	a.log.Info("HTTP server stopped")

	// 先停背景工作，worker 處理完手上的訊息後才關閉連線
	a.stop()
	select {
	case <-a.worker.Done():
		a.log.Info("notification worker stopped")
	case <-shutdownCtx.Done():
		a.log.Warn("notification worker did not stop in time")
	}

	a.close()
	a.log.Info("app stopped")
	logger.Sync()

	return errors.Join(errs...)
}

func (a *App) close() {
	a.stop()
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
		a.log.Info("database connection closed")
	}
}
