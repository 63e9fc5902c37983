package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Rohit2924/news-sub000/internal/audit"
	"github.com/Rohit2924/news-sub000/internal/config"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	"github.com/Rohit2924/news-sub000/internal/http"
	"github.com/Rohit2924/news-sub000/internal/repository/postgres"
	"github.com/Rohit2924/news-sub000/internal/storage/s3"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	codec := gateway.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	counter := gateway.NewRedisCounter(cfg.Redis, logger)
	limiter := gateway.NewAttemptLimiter(counter, cfg.RateLimit, logger)
	hardener := gateway.NewHardener(cfg.App.IsProduction())
	recorder := audit.NewRecorder(logger)
	gw := gateway.New(codec, gateway.NewClassifier(), limiter, hardener, recorder, cfg.Cookie, logger)

	var images *s3.Client
	if cfg.Storage.ImageBucket != "" {
		images, err = s3.NewClient(&cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create image storage client")
		}
	} else {
		logger.Warn().Msg("image storage not configured, upload URLs disabled")
	}

	server := http.NewServer(&http.ServerDependencies{
		Config:       cfg,
		Gateway:      gw,
		Codec:        codec,
		UserRepo:     postgres.NewUserRepository(db),
		ArticleRepo:  postgres.NewArticleRepository(db),
		CategoryRepo: postgres.NewCategoryRepository(db),
		CommentRepo:  postgres.NewCommentRepository(db),
		Images:       images,
		Logger:       logger,
	})

	go func() {
		if err := server.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	logger.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("news portal listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
