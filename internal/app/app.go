package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/api"
	"github.com/Freeeeeet/salon_admin/internal/config"
	"github.com/Freeeeeet/salon_admin/internal/controller"
	"github.com/Freeeeeet/salon_admin/internal/controller/handlers"
	"github.com/Freeeeeet/salon_admin/internal/notify"
	"github.com/Freeeeeet/salon_admin/internal/repository/memory"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/Freeeeeet/salon_admin/internal/session"
	"github.com/Freeeeeet/salon_admin/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App собранное приложение: HTTP API, бот оператора и фоновые задачи
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redis.Client
	server    *http.Server
	bot       *controller.BotController
	scheduler *Scheduler
}

// New открывает хранилища и собирает сервисы по конфигурации
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	stores, err := a.openStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessions, err := a.openSessions(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var telegram *bot.Bot
	var notifier notify.Notifier = notify.NewLog(logger)
	if cfg.TelegramToken != "" {
		telegram, err = bot.New(cfg.TelegramToken)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		notifier = notify.NewTelegram(telegram, logger)
	} else {
		logger.Warn("TELEGRAM_TOKEN not set, notifications go to the log")
	}

	availability := service.NewAvailabilityService(stores, notifier, cfg.AdminChatID, logger)
	stats := service.NewStatsService(stores, logger)
	catalog := service.NewCatalogService(stores, logger)
	customers := service.NewCustomerService(stores, logger)
	openHours := service.NewOpenHoursService(stores, cfg.Timezone, logger)

	httpAPI := api.NewAPI(api.Services{
		Auth:         service.NewAuthService(stores, sessions, cfg.JWTSecret, cfg.SessionTTL, logger),
		Catalog:      catalog,
		Customers:    customers,
		Employees:    service.NewEmployeeService(stores, cfg.EmployeeServices, logger),
		Availability: availability,
		Stats:        stats,
		OpenHours:    openHours,
	}, cfg.RateLimitPerMin, cfg.Timezone, logger)
	httpAPI.RegisterRoutes()

	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpAPI.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	if telegram != nil {
		adminChat, err := strconv.ParseInt(cfg.AdminChatID, 10, 64)
		if err != nil {
			logger.Warn("ADMIN_CHAT_ID is not a chat id, operator bot disabled", zap.String("admin_chat_id", cfg.AdminChatID))
		} else {
			a.bot = controller.NewBotController(telegram, handlers.Deps{
				Availability: availability,
				Stats:        stats,
				Catalog:      catalog,
				Customers:    customers,
				OpenHours:    openHours,
			}, adminChat, cfg.Timezone, logger)
			if err := a.bot.RegisterHandlers(ctx); err != nil {
				logger.Warn("Bot commands menu not set", zap.Error(err))
			}
		}
	}

	// транзакция бронирования не дольше таймаута хранилища
	overlap := max(time.Minute, 2*cfg.StoreTimeout)
	a.scheduler = NewScheduler(stats, notifier, cfg.AdminChatID, cfg.NewBookingsInterval, overlap, logger)
	return a, nil
}

func (a *App) openStores(ctx context.Context) (service.Stores, error) {
	if a.cfg.Store == config.StoreMemory {
		a.logger.Warn("Using in-memory store, data is lost on restart")
		return MemoryStores(memory.New()), nil
	}

	pool, err := pgxpool.New(ctx, a.cfg.GetDBDSN())
	if err != nil {
		return service.Stores{}, fmt.Errorf("create pool: %w", err)
	}
	a.pool = pool
	if err := pool.Ping(ctx); err != nil {
		return service.Stores{}, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, migrations.FS, a.logger)
	if err != nil {
		return service.Stores{}, err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return service.Stores{}, err
	}

	a.logger.Info("✅ Connected to database")
	return PostgresStores(pool, a.cfg.StoreTimeout), nil
}

func (a *App) openSessions(ctx context.Context) (service.SessionStore, error) {
	if a.cfg.RedisAddr == "" {
		a.logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
		return session.NewMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
	})
	a.redis = client
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return session.NewRedis(client), nil
}

// Run обслуживает запросы до отмены ctx, затем останавливается
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.scheduler.Start(ctx)
	defer a.scheduler.Stop()

	if a.bot != nil {
		go a.bot.Start(ctx)
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 Server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("🛑 Shutdown signal received; shutting down gracefully...")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancelShutdown()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}

	a.logger.Info("✅ Server stopped cleanly")
	return nil
}

// Close освобождает соединения с базой и redis
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
