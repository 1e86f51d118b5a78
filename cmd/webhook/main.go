package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/vida-bot/internal/classifier"
	"github.com/xaenox/vida-bot/internal/storage"
	"github.com/xaenox/vida-bot/internal/webhook"
	"github.com/xaenox/vida-bot/internal/whatsapp"
	"github.com/xaenox/vida-bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize classifier
	var clf classifier.Classifier
	keyword := classifier.NewKeywordClassifier()
	if cfg.Classifier.UseGPT && cfg.OpenAI.APIKey != "" {
		logger.Info("Using GPT-refined classifier", zap.String("model", cfg.OpenAI.Model))
		clf = classifier.NewGPTClassifier(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			keyword,
			logger,
		)
	} else {
		logger.Info("Using keyword classifier")
		clf = keyword
	}

	// Initialize outbound sender
	var sender webhook.Sender
	if cfg.Evolution.APIURL != "" {
		sender = whatsapp.NewClient(whatsapp.Config{
			BaseURL:  cfg.Evolution.APIURL,
			Instance: cfg.Evolution.Instance,
			APIKey:   cfg.Evolution.APIKey,
		})
	} else {
		logger.Warn("No Evolution API configured, replies will not be sent")
		sender = whatsapp.NopSender{}
	}

	// Wire the pipeline
	dispatcher := webhook.NewDispatcher(store, logger)
	handler := webhook.NewHandler(store, clf, dispatcher, sender, logger)
	router := webhook.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Webhook server listening", zap.String("addr", cfg.Server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server error", zap.Error(err))
	}
}
