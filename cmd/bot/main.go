package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/verben-quiz-bot/internal/config"
	"github.com/aliskhannn/verben-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/verben-quiz-bot/internal/logger"
	"github.com/aliskhannn/verben-quiz-bot/internal/metrics"
	"github.com/aliskhannn/verben-quiz-bot/internal/repository"
	"github.com/aliskhannn/verben-quiz-bot/internal/service"
	"github.com/aliskhannn/verben-quiz-bot/internal/storage"
)

const (
	sessionPurgeInterval = 10 * time.Minute
	shutdownTimeout      = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	if err := postgres.RunMigrations(dsn); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	// Seed the verb catalog on first start.
	verbs, err := repository.LoadVerbCatalog(cfg.VerbsJSONPath)
	if err != nil {
		return err
	}
	seeded, err := service.NewCatalogService(postgres.NewTransactor(pool)).Seed(ctx, verbs)
	if err != nil {
		return err
	}
	lg.Info("verb catalog ready", zap.Int64("inserted", seeded), zap.Int("catalog_size", len(verbs)))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	g, gctx := errgroup.WithContext(ctx)

	var sessions service.SessionStore
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer func() { _ = client.Close() }()

		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		sessions = storage.NewRedisSessionStore(client, cfg.Session.TTL)
		lg.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		mem := storage.NewMemorySessionStore(cfg.Session.TTL)
		g.Go(func() error {
			mem.RunPurge(gctx, sessionPurgeInterval)
			return nil
		})
		sessions = mem
	}

	userRepo := pgrepo.NewUserRepository(pool)
	answerRepo := pgrepo.NewAnswerRepository(pool)
	verbRepo := pgrepo.NewVerbRepository(pool)

	userService := service.NewUserService(userRepo, collector)
	quizService := service.NewQuizService(verbRepo, userRepo, answerRepo, sessions, collector, cfg.Quiz.Questions)
	statsService := service.NewStatsService(userRepo, answerRepo)
	conversation := service.NewConversation(userService, quizService, statsService, sessions, lg)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, conversation, userService, collector, telegram.Options{
		AnswerDelay:   cfg.Quiz.AnswerDelay,
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
	})

	g.Go(func() error {
		err := handler.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metrics.SetupMetricsRoute(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			lg.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
