// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telefication/internal/config"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/repository"
	"telefication/internal/infra/api"
	pg "telefication/internal/infra/db/postgres"
	"telefication/internal/infra/i18n"
	"telefication/internal/infra/logging"
	"telefication/internal/infra/memory"
	"telefication/internal/infra/metrics"
	red "telefication/internal/infra/redis"
	"telefication/internal/infra/relay"
	"telefication/internal/infra/security"
	"telefication/internal/infra/telegram"
	"telefication/internal/infra/textconv"
	"telefication/internal/infra/transport"
	"telefication/internal/infra/worker"
	"telefication/internal/usecase"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted secrets)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("telefication stopped")
	}
}

func run(cfg *config.Config, logger *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister()
	metrics.SetBuildInfo(version)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	// ---- Settings store ----
	settingsRepo, redisClient, cleanup, err := buildSettingsRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// ---- Translation & rendering ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.I18n.Locale)
	if err != nil {
		return fmt.Errorf("i18n: %w", err)
	}
	renderer := usecase.NewRenderer(tr, textconv.New())

	// ---- Backends ----
	tport := transport.NewHTTPTransport(cfg.Delivery.Timeout)
	relaySender := relay.NewSender(cfg.Delivery.RelayURL, tport, logger)
	botSender := telegram.NewBotSender(cfg.Delivery.TelegramAPI, tport, logger)
	chatLookup := telegram.NewChatIDLookup(cfg.Delivery.TelegramAPI, &http.Client{Timeout: cfg.Delivery.Timeout}, logger)

	// ---- Use cases ----
	dispatchUC := usecase.NewDispatchUseCase(renderer, tr, logger, relaySender, botSender)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, chatLookup, logger)
	if err := settingsUC.Seed(ctx, &cfg.Notify); err != nil {
		return err
	}

	pool := worker.NewPool(cfg.Delivery.Workers, cfg.Delivery.QueueSize, logger)
	eventUC := usecase.NewEventUseCase(settingsRepo, dispatchUC, pool, cfg.Delivery.DispatchTimeout, logger)

	// ---- HTTP ----
	var limiter api.Limiter
	if redisClient != nil {
		limiter = red.NewRateLimiter(redisClient, cfg.Server.RateLimit, time.Minute)
	}
	auth := api.NewAuthManager(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	apiSrv := api.NewServer(eventUC, dispatchUC, settingsUC, auth, cfg.Server.APIKey, limiter, cfg.Delivery.DispatchTimeout, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apiSrv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Workers outlive the request context so queued events drain on shutdown.
	pool.Start(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Str("locale", cfg.I18n.Locale).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		pool.Stop()
		return err
	})
	return g.Wait()
}

// buildSettingsRepo picks Postgres when a database is configured, wrapped
// in the Redis snapshot cache when Redis is configured too, and the
// in-memory store otherwise.
func buildSettingsRepo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.SettingsRepository, red.RedisClient, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient red.RedisClient
	if cfg.Redis.URL != "" {
		c, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, func() { _ = c.Close() })
		redisClient = c
	}

	if cfg.Database.URL == "" {
		logger.Warn().Msg("database.url not set; settings are kept in memory")
		return memory.NewSettingsRepo(), redisClient, cleanup, nil
	}

	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		cleanup()
		return nil, nil, func() {}, fmt.Errorf("postgres: %w", err)
	}
	closers = append(closers, pool.Close)
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		cleanup()
		return nil, nil, func() {}, err
	}

	var sealer pg.Sealer
	if cfg.Database.EncryptionKey != "" {
		box, err := security.NewSecretBox(cfg.Database.EncryptionKey)
		if err != nil {
			cleanup()
			return nil, nil, func() {}, err
		}
		sealer = box
	} else {
		logger.Warn().Msg("database.encryption_key not set; bot token is stored in clear text")
	}

	var repo repository.SettingsRepository = pg.NewPostgresSettingsRepo(pool, sealer)
	if redisClient != nil {
		repo = pg.NewSettingsRepoCacheDecorator(repo, redisClient, cfg.Redis.TTL, logger)
	}
	logger.Info().
		Bool("cache", redisClient != nil).
		Bool("sealed_token", sealer != nil).
		Str("seed_chat_id", logging.Redact(cfg.Notify.ChatID, cfg.Runtime.Dev)).
		Str("default_backend", string(defaultBackend(&cfg.Notify))).
		Msg("settings store ready")
	return repo, redisClient, cleanup, nil
}

func defaultBackend(s *model.Settings) model.Backend {
	if target, ok := usecase.Resolve(s); ok {
		return target.Backend
	}
	return ""
}
