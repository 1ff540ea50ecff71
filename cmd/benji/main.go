// Command benji serves the question-answering HTTP API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/config"
	dbredis "github.com/benji-blog/benji/internal/db/redis"
	logpkg "github.com/benji-blog/benji/internal/logger"
	"github.com/benji-blog/benji/internal/metrics"
	"github.com/benji-blog/benji/internal/model"
	indexrepo "github.com/benji-blog/benji/internal/repository/index"
	"github.com/benji-blog/benji/internal/repository/postcache"
	chitransport "github.com/benji-blog/benji/internal/transport/chi"
	"github.com/benji-blog/benji/internal/transport/gpt"
	askuc "github.com/benji-blog/benji/internal/usecase/ask"
	searchuc "github.com/benji-blog/benji/internal/usecase/search"
	"github.com/benji-blog/benji/internal/version"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting benji API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.Register()

	mdl, err := model.Load(model.Config{
		ArtifactPath:   cfg.Model.ArtifactPath,
		VocabularyPath: cfg.Model.VocabularyPath,
		StopWordsPath:  cfg.Model.StopWordsPath,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("Failed to load word-vector model", zap.Error(err))
	}

	cache, err := postcache.New(cfg.Cache.Dir)
	if err != nil {
		logger.Fatal("Failed to open post cache", zap.Error(err))
	}

	index := indexrepo.New(store, cfg.Index.Name, mdl.Dim(), logger)
	searchSvc := searchuc.New(index, cache, mdl, cfg.Search.Window, logger)
	gptClient := gpt.New(gpt.Config{
		APIKey:      cfg.GPT.APIKey,
		BaseURL:     cfg.GPT.BaseURL,
		Model:       cfg.GPT.Model,
		Temperature: cfg.GPT.Temperature,
		Logger:      logger,
	})
	askSvc := askuc.New(searchSvc, gptClient, logger)

	server := chitransport.NewServer(askSvc, store, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
