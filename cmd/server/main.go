package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postboard/blog-api/internal/api"
	"github.com/postboard/blog-api/internal/api/graph"
	"github.com/postboard/blog-api/internal/core/service"
	mongodb "github.com/postboard/blog-api/internal/infrastructure/db/mongo"
	"github.com/postboard/blog-api/internal/infrastructure/queue"
	"github.com/postboard/blog-api/internal/infrastructure/storage"
	"github.com/postboard/blog-api/internal/pkg/config"
	"github.com/postboard/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "blog-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	users := mongodb.NewUserRepository(db)
	posts := mongodb.NewPostRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, posts); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	images, err := storage.NewDiskStore(cfg.Images.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open image store")
	}
	// The cleaner outlives the signal context so removals queued while
	// in-flight requests drain still run; Close is called after Shutdown.
	cleaner := queue.NewImageCleaner(cfg.Images.CleanupWorkers, images, logger.For("image-cleaner"))
	cleaner.Start(context.Background())

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, logger.For("auth"))
	postService := service.NewPostService(posts, users, cleaner, service.Pagination{
		PerPage:      cfg.Posts.PerPage,
		LegacyOffset: cfg.Posts.LegacyOffset,
	}, logger.For("posts"))

	e := api.NewRouter(api.Deps{
		DB:             db,
		Schema:         graph.NewSchema(authService, postService, logger.For("graphql")),
		Tokens:         tokens,
		Images:         images,
		Discarder:      cleaner,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
		Log:            logger.For("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	cleaner.Close()
	log.Info().Msg("server exited properly")
}
