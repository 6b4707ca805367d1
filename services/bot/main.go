package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zamzabot/internal/classifier"
	"github.com/zamzabot/internal/config"
	"github.com/zamzabot/internal/fingerprint"
	"github.com/zamzabot/internal/handler"
	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/middleware"
	"github.com/zamzabot/internal/pipeline"
	"github.com/zamzabot/internal/repository"
	"github.com/zamzabot/internal/service"
	"github.com/zamzabot/internal/startup"
	"github.com/zamzabot/internal/storage"
	"github.com/zamzabot/internal/storage/memory"
	"github.com/zamzabot/internal/telegram"
	"github.com/zamzabot/internal/worker"
	"github.com/zamzabot/internal/ws"
	"github.com/zamzabot/migrations"
)

func main() {
	logger.SetPrefix("bot")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	dev := flag.Bool("dev", false, "start with embedded PostgreSQL and in-memory dedupe (no external services required)")
	poll := flag.Bool("poll", false, "use long polling instead of webhook")
	flag.Parse()

	logger.Info("starting bot service")
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	if err := cfg.Validate(*dev); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	var embeddedDB *embeddedpostgres.EmbeddedPostgres
	if *dev {
		var err error
		embeddedDB, err = startEmbeddedPostgres(cfg)
		if err != nil {
			logger.Errorf("embedded postgres: %v", err)
			os.Exit(1)
		}
		defer func() {
			logger.Info("stopping embedded postgres...")
			if err := embeddedDB.Stop(); err != nil {
				logger.Errorf("embedded postgres stop: %v", err)
			}
		}()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		logger.Errorf("parse db config: %v", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConnections())
	poolCfg.MinConns = 2

	pool := startup.ConnectDBWithRetry(poolCfg, 60*time.Second, "")
	defer pool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Apply(migrateCtx, pool); err != nil {
		migrateCancel()
		logger.Errorf("migrations: %v", err)
		os.Exit(1)
	}
	migrateCancel()
	logger.Info("database connected, migrations applied")
	if *migrate && !*dev {
		return
	}

	engine := fingerprint.NewEngine()
	variantNames := make([]string, 0, len(engine.Variants()))
	for _, v := range engine.Variants() {
		variantNames = append(variantNames, v.Name)
	}

	var model *classifier.Model
	if cfg.ModelPath != "" {
		model, err = classifier.Load(cfg.ModelPath, variantNames)
		if err != nil {
			logger.Errorf("load classifier model: %v", err)
			os.Exit(1)
		}
		logger.Infof("classifier model loaded from %s", cfg.ModelPath)
	} else {
		logger.Info("no classifier model configured, duplicate check limited to exact file matches")
	}

	tg, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		logger.Errorf("telegram client: %v", err)
		os.Exit(1)
	}

	var dedupe storage.UpdateDeduper
	if *dev {
		dedupe = memory.New()
	} else {
		dedupe = startup.ConnectRedisWithRetry(cfg.Redis.URL, 60*time.Second, "")
	}
	defer dedupe.Close()

	reactionRepo := repository.NewReactionRepository(pool)
	fingerprintRepo := repository.NewFingerprintRepository(pool)

	dispatcher := pipeline.NewDispatcher()
	pipeline.RegisterBuiltins(dispatcher)

	deps := pipeline.Deps{
		Commands:     dispatcher,
		Reactions:    reactionRepo,
		Fingerprints: fingerprintRepo,
		Transport:    tg,
		Engine:       engine,
		Pool:         worker.NewPool(cfg.WorkerPoolSize),
		Cooldown:     cfg.Cooldown(),
	}
	if model != nil {
		deps.Classifier = model
	}
	pipe := pipeline.New(deps)

	hub := ws.NewHub(cfg.MaxWSConnections)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	var hubWg sync.WaitGroup
	hubWg.Add(1)
	go func() {
		defer hubWg.Done()
		hub.Run(hubCtx)
	}()

	bot := service.NewBot(pipe, tg, dedupe, hub)

	webhookH := handler.NewWebhookHandler(bot)
	wsH := handler.NewWSHandler(hub, cfg.CORSAllowedOrigins)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.RequestLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); w.Write([]byte("ok")) })
	r.Post("/updates/", webhookH.Receive)
	r.Get("/ws", wsH.ServeFeed)

	pollCtx, pollCancel := context.WithCancel(context.Background())
	var pollWg sync.WaitGroup
	if *poll || cfg.WebhookURL == "" {
		if err := tg.DeleteWebhook(); err != nil {
			logger.Errorf("delete webhook: %v", err)
		}
		pollWg.Add(1)
		go func() {
			defer pollWg.Done()
			bot.RunPolling(pollCtx)
		}()
	} else {
		if err := tg.SetWebhook(cfg.WebhookURL); err != nil {
			logger.Errorf("set webhook: %v", err)
			os.Exit(1)
		}
		logger.Infof("webhook registered at %s", cfg.WebhookURL)
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var srvWg sync.WaitGroup
	errCh := make(chan error, 1)
	srvWg.Add(1)
	go func() {
		defer srvWg.Done()
		logger.Infof("server listening on %s", cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}

	pollCancel()
	pollWg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("server stopped accepting connections")
	hubCancel()
	hubWg.Wait()
	srvWg.Wait()
	logger.Info("server goroutine exited")
}

// splitOrigins разбирает cors_allowed_origins: список через запятую, как в
// handler.WSHandler.checkOrigin.
func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

func startEmbeddedPostgres(cfg *config.Config) (*embeddedpostgres.EmbeddedPostgres, error) {
	const (
		port     = 5432
		user     = "zamzabot"
		password = "zamzabot_secret"
		database = "zamzabot"
	)

	dataDir := filepath.Join(".", ".pgdata")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pgdata dir: %w", err)
	}

	db := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(port).
			Username(user).
			Password(password).
			Database(database).
			DataPath(dataDir).
			RuntimePath(filepath.Join(os.TempDir(), "embedded-pg-runtime")),
	)

	logger.Info("starting embedded PostgreSQL...")
	if err := db.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	cfg.Database.URL = fmt.Sprintf(
		"postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		user, password, port, database,
	)
	logger.Infof("embedded PostgreSQL running on port %d", port)
	return db, nil
}
