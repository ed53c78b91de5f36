package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inboxpert-service/internal/domain/repository"
	"inboxpert-service/internal/infrastructure/config"
	"inboxpert-service/internal/infrastructure/oauth"
	"inboxpert-service/internal/infrastructure/persistence"
	"inboxpert-service/internal/infrastructure/router"
	"inboxpert-service/internal/interface/gmail"
	"inboxpert-service/internal/interface/httpapi"
	repo "inboxpert-service/internal/interface/repository"
	"inboxpert-service/internal/usecase"
	"inboxpert-service/pkg/logger"
	"inboxpert-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Inboxpert Service", "version", cfg.AppVersion)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Optional MongoDB run log
	var runLog *persistence.RunLogStore
	var runRepo repository.RunRepository
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		runLog, err = persistence.NewRunLogStore(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to set up run log", "error", err)
		}
		runRepo, err = repo.NewMongoRunRepository(ctx, runLog.Database)
		if err != nil {
			log.Fatal("Failed to set up run repository", "error", err)
		}
	}

	// Optional PostgreSQL archive of submitted emails
	var archiveRepo repository.SubmittedEmailRepository
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if err := repo.Migrate(gormDB); err != nil {
			log.Fatal("Failed to migrate PostgreSQL", "error", err)
		}
		archiveRepo = repo.NewGormSubmittedEmailRepository(gormDB)
	}

	// Set up Gmail OAuth
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	tokenSource := gmailOAuth.GetTokenSource(ctx)

	gmailService, err := gmail.NewGmailService(ctx, tokenSource, gmail.FetchOptions{
		UserID:      cfg.GmailUserID,
		PageSize:    cfg.GmailPageSize,
		Query:       cfg.GmailQuery,
		Concurrency: cfg.GmailFetchConcurrency,
	}, log, option.WithTokenSource(tokenSource))
	if err != nil {
		log.Fatal("Failed to create Gmail service", "error", err)
	}

	categorizerRepo := repo.NewCategorizerRepository(
		cfg.CategorizerURL,
		&http.Client{Timeout: cfg.CategorizerTimeout},
		log,
	)

	categorization := usecase.NewCategorizationUsecase(gmailService, categorizerRepo, runRepo, archiveRepo, m, log)

	actionRouter := router.NewActionRouter(log)
	actionRouter.Register(categorization)
	dispatcher := usecase.NewActionDispatcher(actionRouter, log)

	if cfg.PollInterval > 0 {
		log.Info("Starting categorization polling", "interval", cfg.PollInterval)
		go categorization.StartPolling(ctx, cfg.PollInterval)
	}

	// HTTP server
	var runLister httpapi.RunLister
	if runRepo != nil {
		runLister = categorization
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	httpapi.NewActionHandler(dispatcher, runLister, cfg.ActionTimeout, log).Register(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.WithCORS(cfg.AllowedOrigin, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if runLog != nil {
		if err := runLog.Close(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Server stopped")
}
