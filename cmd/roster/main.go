// Package main - точка входа HTTP-сервиса учёта студентов.
//
// Сервис держит ростер в памяти, отдаёт отфильтрованные и отсортированные
// представления, ленту уведомлений и тему оформления клиента.
//
// Архитектура:
// - Domain: ростер, валидация формы, уведомления, тема
// - Application: команды и запросы (CQRS), обработчики событий
// - Infrastructure: шина событий, Redis для настроек
// - Interface: HTTP API
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/masy43/Student-Management-System/config"

	// Application layer
	"github.com/masy43/Student-Management-System/internal/application/command"
	"github.com/masy43/Student-Management-System/internal/application/eventhandler"
	"github.com/masy43/Student-Management-System/internal/application/query"

	// Domain layer
	"github.com/masy43/Student-Management-System/internal/domain/preference"
	"github.com/masy43/Student-Management-System/internal/domain/roster"

	// Infrastructure layer
	"github.com/masy43/Student-Management-System/internal/infrastructure/messaging"
	"github.com/masy43/Student-Management-System/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/masy43/Student-Management-System/internal/interface/http"
	"github.com/masy43/Student-Management-System/internal/interface/http/handlers"

	// Packages
	"github.com/masy43/Student-Management-System/pkg/circuitbreaker"
	"github.com/masy43/Student-Management-System/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

type serveOptions struct {
	envFiles []string
	port     int
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "roster",
		Short:         "Student roster service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	cmd.Flags().IntVar(&opts.port, "port", 0, "override HTTP_PORT")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts serveOptions) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load(opts.envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.port > 0 {
		cfg.HTTP.Port = opts.port
	}
	if version != "dev" {
		cfg.App.Version = version
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting student roster",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("locale", cfg.App.Locale),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. РОСТЕР И ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	pipeline := roster.NewWithLocale(cfg.LocaleTag())

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		if err := eventBus.Close(); err != nil {
			log.Warn("event bus close failed", logger.Err(err))
		}
	}()

	feed := eventhandler.NewNoticeFeed(cfg.App.NoticeLimit, log)
	if err := feed.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register notice feed: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ХРАНИЛИЩЕ НАСТРОЕК (Redis или память)
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)

	var prefs preference.Store
	if cfg.Redis.Disabled {
		log.Warn("redis disabled, preferences are kept in memory")
		prefs = preference.NewMemoryStore()
	} else {
		log.Info("connecting to Redis...")
		cache, err := redis.NewCache(ctx, redis.ConfigFrom(cfg.Redis))
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection...")
			_ = cache.Close()
		}()
		log.Info("redis connection established")

		breaker := circuitbreaker.PreferenceStoreBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		})
		prefs = redis.NewPreferenceStore(cache, redis.WithBreaker(breaker))
		healthChecker.AddCheck("redis", handlers.NewCacheCheck(cache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. КОМАНДЫ И ЗАПРОСЫ
	// ─────────────────────────────────────────────────────────────────────────
	deps := httpserver.Dependencies{
		AddStudent:        command.NewAddStudentHandler(pipeline, eventBus, feed, log),
		RemoveStudent:     command.NewRemoveStudentHandler(pipeline, eventBus, log),
		UpdatePreferences: command.NewUpdatePreferencesHandler(prefs, log),
		ListStudents:      query.NewListStudentsHandler(pipeline),
		GetStats:          query.NewGetStatsHandler(pipeline),
		GetTheme:          query.NewGetThemeHandler(prefs),
		GetNotifications:  query.NewGetNotificationsHandler(feed),
		Logger:            log,
		HealthChecker:     healthChecker,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.ConfigFrom(cfg), deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ОЖИДАНИЕ СИГНАЛА И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("http shutdown failed", logger.Err(err))
	}

	log.Info("student roster stopped",
		logger.Int("students", pipeline.Len()),
		logger.Int("notices", feed.Len()),
	)
	return serveErr
}

// setupLogger настраивает логгер по LOG_LEVEL и LOG_FORMAT.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}
